package handler

import (
	"net/http"

	"jobtracker/internal/board"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// DragHandler relays the pointer events of a drag gesture. Each user has at
// most one gesture per board.
type DragHandler struct {
	boards BoardService
	logger *log.Logger
}

func NewDragHandler(boards BoardService, logger *log.Logger) *DragHandler {
	return &DragHandler{boards: boards, logger: logger}
}

type DragStartRequest struct {
	CardID string `json:"card_id" binding:"required"`
}

type DragTargetRequest struct {
	Status board.Status `json:"status" binding:"required"`
}

// Start godoc
// @Summary      Pick up a card
// @Tags         Drag
// @Security     BearerAuth
// @Accept       json
// @Param        id path string true "Board ID"
// @Param        request body DragStartRequest true "Card"
// @Success      204
// @Failure      409 {object} map[string]string
// @Router       /boards/{id}/drag/start [post]
func (h *DragHandler) Start(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	var req DragStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.boards.DragStart(c.Request.Context(), userID, boardID, req.CardID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Enter godoc
// @Summary      Pointer entered a column
// @Description  Send once per dragenter, paired with one leave. Enters nest, so repeating dragover events must not be relayed here.
// @Tags         Drag
// @Security     BearerAuth
// @Accept       json
// @Param        id path string true "Board ID"
// @Param        request body DragTargetRequest true "Column"
// @Success      204
// @Router       /boards/{id}/drag/enter [post]
func (h *DragHandler) Enter(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	var req DragTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	h.boards.DragEnter(userID, boardID, req.Status)
	c.Status(http.StatusNoContent)
}

// Leave godoc
// @Summary      Leave the hovered column
// @Tags         Drag
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Success      204
// @Router       /boards/{id}/drag/leave [post]
func (h *DragHandler) Leave(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}
	h.boards.DragLeave(userID, boardID)
	c.Status(http.StatusNoContent)
}

// Drop godoc
// @Summary      Drop the dragged card on a column
// @Tags         Drag
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "Board ID"
// @Param        request body DragTargetRequest true "Column"
// @Success      200 {object} service.Card
// @Failure      400 {object} map[string]string
// @Failure      409 {object} map[string]interface{}
// @Router       /boards/{id}/drag/drop [post]
func (h *DragHandler) Drop(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	var req DragTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	card, err := h.boards.DragDrop(c.Request.Context(), userID, boardID, req.Status)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// Cancel godoc
// @Summary      Abandon the drag gesture
// @Tags         Drag
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Success      204
// @Router       /boards/{id}/drag/cancel [post]
func (h *DragHandler) Cancel(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}
	h.boards.DragCancel(userID, boardID)
	c.Status(http.StatusNoContent)
}
