package handler

import (
	"net/http"

	"taskboard/internal/board"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ColumnHandler struct {
	service    *board.Service
	columnRepo *repository.ColumnRepository
}

func NewColumnHandler(service *board.Service, columnRepo *repository.ColumnRepository) *ColumnHandler {
	return &ColumnHandler{
		service:    service,
		columnRepo: columnRepo,
	}
}

type CreateColumnRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateColumnRequest struct {
	Name     *string `json:"name"`
	Position *int    `json:"position" binding:"omitempty,min=1"`
}

type ColumnResponse struct {
	ID       string  `json:"id"`
	OwnerID  *string `json:"owner_id,omitempty"`
	Name     string  `json:"name"`
	Position int     `json:"position"`
}

func columnResponse(column *model.Column) ColumnResponse {
	response := ColumnResponse{
		ID:       column.ID.String(),
		Name:     column.Name,
		Position: column.Position,
	}
	if column.OwnerID != nil {
		ownerID := column.OwnerID.String()
		response.OwnerID = &ownerID
	}
	return response
}

// Create создает новую колонку в конце доски пользователя
func (h *ColumnHandler) Create(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	column, err := h.service.CreateColumn(c.Request.Context(), ownerID, req.Name)
	if err != nil {
		respondBoardError(c, err, "Failed to create column")
		return
	}

	c.JSON(http.StatusCreated, columnResponse(column))
}

// GetAll получает все колонки, видимые пользователю
func (h *ColumnHandler) GetAll(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	columns, err := h.columnRepo.GetVisible(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve columns"})
		return
	}

	response := make([]ColumnResponse, len(columns))
	for i := range columns {
		response[i] = columnResponse(&columns[i])
	}

	c.JSON(http.StatusOK, response)
}

// GetByID получает колонку по ID
func (h *ColumnHandler) GetByID(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	columnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid column ID format"})
		return
	}

	column, err := h.columnRepo.GetByID(c.Request.Context(), columnID)
	if err != nil {
		if err == repository.ErrColumnNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Column not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve column"})
		}
		return
	}
	if column.OwnerID != nil && *column.OwnerID != ownerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to view this column"})
		return
	}

	c.JSON(http.StatusOK, columnResponse(column))
}

// Update переименовывает и/или перемещает колонку
func (h *ColumnHandler) Update(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	columnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid column ID format"})
		return
	}

	var req UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	column, err := h.service.UpdateColumn(c.Request.Context(), ownerID, columnID, board.UpdateColumnInput{
		Name:     req.Name,
		Position: req.Position,
	})
	if err != nil {
		respondBoardError(c, err, "Failed to update column")
		return
	}

	c.JSON(http.StatusOK, columnResponse(column))
}

// Delete удаляет колонку вместе с ее карточками
func (h *ColumnHandler) Delete(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	columnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid column ID format"})
		return
	}

	if err := h.service.DeleteColumn(c.Request.Context(), ownerID, columnID); err != nil {
		respondBoardError(c, err, "Failed to delete column")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Column deleted successfully"})
}
