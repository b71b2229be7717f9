package handler

import (
	"net/http"

	"jobtracker/internal/board"
	"jobtracker/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type CardHandler struct {
	boards BoardService
	logger *log.Logger
}

func NewCardHandler(boards BoardService, logger *log.Logger) *CardHandler {
	return &CardHandler{boards: boards, logger: logger}
}

type MoveCardRequest struct {
	Status         board.Status `json:"status" binding:"required"`
	ExpectedStatus board.Status `json:"expected_status"`
}

type ResultRequest struct {
	Result board.Result `json:"result" binding:"required"`
}

// Create godoc
// @Summary      Add a card to a board
// @Tags         Cards
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "Board ID"
// @Param        request body service.CardInput true "Card"
// @Success      201 {object} service.Card
// @Failure      400 {object} map[string]string
// @Failure      409 {object} map[string]interface{}
// @Router       /boards/{id}/cards [post]
func (h *CardHandler) Create(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	var req service.CardInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	card, err := h.boards.CreateCard(c.Request.Context(), userID, boardID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

// Update godoc
// @Summary      Edit a card
// @Description  Status is changed through the move endpoint only.
// @Tags         Cards
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path string true "Board ID"
// @Param        card_id path string true "Card ID"
// @Param        request body service.CardPatch true "Changed fields"
// @Success      200 {object} service.Card
// @Failure      404 {object} map[string]string
// @Router       /boards/{id}/cards/{card_id} [put]
func (h *CardHandler) Update(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	var req service.CardPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	card, err := h.boards.EditCard(c.Request.Context(), userID, boardID, c.Param("card_id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// Delete godoc
// @Summary      Delete a card
// @Tags         Cards
// @Security     BearerAuth
// @Param        id      path string true "Board ID"
// @Param        card_id path string true "Card ID"
// @Success      204
// @Failure      404 {object} map[string]string
// @Router       /boards/{id}/cards/{card_id} [delete]
func (h *CardHandler) Delete(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	if err := h.boards.DeleteCard(c.Request.Context(), userID, boardID, c.Param("card_id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Move godoc
// @Summary      Move a card to another column
// @Description  expected_status makes the move conditional on the card still being in that column.
// @Tags         Cards
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path string true "Board ID"
// @Param        card_id path string true "Card ID"
// @Param        request body MoveCardRequest true "Target column"
// @Success      200 {object} service.Card
// @Failure      400 {object} map[string]string
// @Failure      409 {object} map[string]interface{}
// @Router       /boards/{id}/cards/{card_id}/move [post]
func (h *CardHandler) Move(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	var req MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	card, err := h.boards.MoveCard(c.Request.Context(), userID, boardID, c.Param("card_id"), req.Status, req.ExpectedStatus)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// SetResult godoc
// @Summary      Record the outcome of an application
// @Tags         Cards
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id      path string true "Board ID"
// @Param        card_id path string true "Card ID"
// @Param        request body ResultRequest true "offer, rejected or withdrawn"
// @Success      200 {object} service.Card
// @Failure      400 {object} map[string]string
// @Router       /boards/{id}/cards/{card_id}/result [post]
func (h *CardHandler) SetResult(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	var req ResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	card, err := h.boards.UpdateResult(c.Request.Context(), userID, boardID, c.Param("card_id"), req.Result)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, card)
}
