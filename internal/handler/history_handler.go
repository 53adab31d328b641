package handler

import (
	"net/http"
	"strconv"
	"time"

	"taskboard/internal/history"
	"taskboard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type HistoryHandler struct {
	renderer *history.Renderer
}

func NewHistoryHandler(renderer *history.Renderer) *HistoryHandler {
	return &HistoryHandler{renderer: renderer}
}

// LogEntryResponse представляет одну запись журнала активности
type LogEntryResponse struct {
	ID           string  `json:"id"`
	CardID       *string `json:"card_id,omitempty"`
	Title        string  `json:"title"`
	Action       string  `json:"action"`
	FromColumn   *string `json:"from_column,omitempty"`
	ToColumn     *string `json:"to_column,omitempty"`
	FromPosition *int    `json:"from_position,omitempty"`
	ToPosition   *int    `json:"to_position,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

type NarrativeResponse struct {
	Text  string           `json:"text"`
	Entry LogEntryResponse `json:"entry"`
}

type DayGroupResponse struct {
	Date    string              `json:"date"`
	Entries []NarrativeResponse `json:"entries"`
}

func logEntryResponse(entry *model.LogEntry) LogEntryResponse {
	response := LogEntryResponse{
		ID:           entry.ID.String(),
		Title:        entry.Title,
		Action:       entry.Action,
		FromColumn:   entry.FromColumn,
		ToColumn:     entry.ToColumn,
		FromPosition: entry.FromPosition,
		ToPosition:   entry.ToPosition,
		CreatedAt:    entry.CreatedAt.Format(time.RFC3339),
	}
	if entry.CardID != nil {
		cardID := entry.CardID.String()
		response.CardID = &cardID
	}
	return response
}

// Narratives отдает всю видимую историю, сгруппированную по дням
func (h *HistoryHandler) Narratives(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	groups, err := h.renderer.Narratives(c.Request.Context(), ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}

	response := make([]DayGroupResponse, len(groups))
	for i, group := range groups {
		entries := make([]NarrativeResponse, len(group.Entries))
		for j, narrative := range group.Entries {
			entries[j] = NarrativeResponse{
				Text:  narrative.Text,
				Entry: logEntryResponse(&narrative.Entry),
			}
		}
		response[i] = DayGroupResponse{Date: group.Date, Entries: entries}
	}

	c.JSON(http.StatusOK, response)
}

// ListByDate отдает записи за один календарный день (YYYY-MM-DD)
func (h *HistoryHandler) ListByDate(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	day, err := time.ParseInLocation("2006-01-02", c.Param("date"), history.ReferenceZone)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	entries, err := h.renderer.ListByDate(c.Request.Context(), ownerID, day)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}

	response := make([]LogEntryResponse, len(entries))
	for i := range entries {
		response[i] = logEntryResponse(&entries[i])
	}

	c.JSON(http.StatusOK, response)
}

// ListByCard отдает историю одной карточки, включая уже удаленные
func (h *HistoryHandler) ListByCard(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
		return
	}

	entries, err := h.renderer.ListByCard(c.Request.Context(), cardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}

	response := make([]LogEntryResponse, len(entries))
	for i := range entries {
		response[i] = logEntryResponse(&entries[i])
	}

	c.JSON(http.StatusOK, response)
}

// Recent отдает краткую сводку за trailing-окно
func (h *HistoryHandler) Recent(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		return
	}

	sinceHours := 24
	if raw := c.Query("since_hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid since_hours"})
			return
		}
		sinceHours = parsed
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	narratives, err := h.renderer.RecentSummary(c.Request.Context(), ownerID, time.Duration(sinceHours)*time.Hour, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}

	response := make([]NarrativeResponse, len(narratives))
	for i, narrative := range narratives {
		response[i] = NarrativeResponse{
			Text:  narrative.Text,
			Entry: logEntryResponse(&narrative.Entry),
		}
	}

	c.JSON(http.StatusOK, response)
}
