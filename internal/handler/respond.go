package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskboard/internal/board"
	"taskboard/internal/middleware"
)

// currentUserID извлекает ID аутентифицированного пользователя из контекста
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return uuid.Nil, false
	}

	authenticatedUserID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}
	return authenticatedUserID, true
}

// respondBoardError отображает ошибки координатора в HTTP статусы
func respondBoardError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, board.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, board.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to modify this resource"})
	case errors.Is(err, board.ErrInvalidPosition):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Position is out of range"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
