package handler

import (
	"net/http"

	"taskboard/internal/board"
	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CardHandler struct {
	service    *board.Service
	cardRepo   *repository.CardRepository
	columnRepo *repository.ColumnRepository
}

func NewCardHandler(service *board.Service, cardRepo *repository.CardRepository, columnRepo *repository.ColumnRepository) *CardHandler {
	return &CardHandler{
		service:    service,
		cardRepo:   cardRepo,
		columnRepo: columnRepo,
	}
}

// CreateCardRequest представляет запрос на создание карточки.
// Позиция не принимается: новая карточка всегда добавляется в конец колонки.
type CreateCardRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	ColumnID    string  `json:"column_id" binding:"required,uuid"`
	TagID       *string `json:"tag_id" binding:"omitempty,uuid"`
}

// UpdateCardRequest представляет запрос на обновление или перемещение карточки
type UpdateCardRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	ColumnID    string  `json:"column_id" binding:"required,uuid"`
	Position    int     `json:"position" binding:"required,min=1"`
	TagID       *string `json:"tag_id" binding:"omitempty,uuid"`
}

// CardResponse представляет ответ с данными карточки
type CardResponse struct {
	ID          string  `json:"id"`
	ColumnID    string  `json:"column_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	TagID       *string `json:"tag_id,omitempty"`
	Position    int     `json:"position"`
}

func cardResponse(card *model.Card) CardResponse {
	response := CardResponse{
		ID:          card.ID.String(),
		ColumnID:    card.ColumnID.String(),
		Title:       card.Title,
		Description: card.Description,
		Position:    card.Position,
	}
	if card.TagID != nil {
		tagID := card.TagID.String()
		response.TagID = &tagID
	}
	return response
}

func parseTagID(raw *string) (*uuid.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	tagID, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &tagID, nil
}

// Create создает новую карточку в конце колонки
func (h *CardHandler) Create(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	columnID, err := uuid.Parse(req.ColumnID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid column ID format"})
		return
	}

	tagID, err := parseTagID(req.TagID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tag ID format"})
		return
	}

	card, err := h.service.CreateCard(c.Request.Context(), ownerID, board.CreateCardInput{
		ColumnID:    columnID,
		Title:       req.Title,
		Description: req.Description,
		TagID:       tagID,
	})
	if err != nil {
		respondBoardError(c, err, "Failed to create card")
		return
	}

	c.JSON(http.StatusCreated, cardResponse(card))
}

// GetByID получает карточку по ID
func (h *CardHandler) GetByID(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
		return
	}

	card, err := h.cardRepo.GetByID(c.Request.Context(), cardID)
	if err != nil {
		if err == repository.ErrCardNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve card"})
		}
		return
	}

	if card.OwnerID != nil && *card.OwnerID != ownerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to view this card"})
		return
	}

	c.JSON(http.StatusOK, cardResponse(card))
}

// GetByColumnID получает все карточки в колонке
func (h *CardHandler) GetByColumnID(c *gin.Context) {
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

	cards, err := h.cardRepo.GetByColumnID(c.Request.Context(), columnID, ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cards"})
		return
	}

	response := make([]CardResponse, len(cards))
	for i := range cards {
		response[i] = cardResponse(&cards[i])
	}

	c.JSON(http.StatusOK, response)
}

// Update обновляет поля карточки и/или перемещает ее
func (h *CardHandler) Update(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
		return
	}

	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	columnID, err := uuid.Parse(req.ColumnID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid column ID format"})
		return
	}

	tagID, err := parseTagID(req.TagID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tag ID format"})
		return
	}

	card, err := h.service.UpdateCard(c.Request.Context(), ownerID, cardID, board.UpdateCardInput{
		Title:       req.Title,
		Description: req.Description,
		ColumnID:    columnID,
		Position:    req.Position,
		TagID:       tagID,
	})
	if err != nil {
		respondBoardError(c, err, "Failed to update card")
		return
	}

	c.JSON(http.StatusOK, cardResponse(card))
}

// Delete удаляет карточку
func (h *CardHandler) Delete(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
		return
	}

	if err := h.service.DeleteCard(c.Request.Context(), ownerID, cardID); err != nil {
		respondBoardError(c, err, "Failed to delete card")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Card deleted successfully"})
}
