package handler

import (
	"net/http"

	"jobtracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type BoardShareHandler struct {
	boards BoardService
	logger *log.Logger
}

func NewBoardShareHandler(boards BoardService, logger *log.Logger) *BoardShareHandler {
	return &BoardShareHandler{boards: boards, logger: logger}
}

type ShareBoardRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=viewer editor"`
}

// ShareBoard godoc
// @Summary      Grant a user access to a board
// @Tags         Board Sharing
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "Board ID"
// @Param        request body ShareBoardRequest true "User and role"
// @Success      200 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /boards/{id}/share [post]
func (h *BoardShareHandler) ShareBoard(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	var req ShareBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.boards.Share(c.Request.Context(), userID, boardID, req.Email, req.Role); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Board shared successfully"})
}

// RemoveShare godoc
// @Summary      Revoke a user's access to a board
// @Tags         Board Sharing
// @Security     BearerAuth
// @Param        id      path string true "Board ID"
// @Param        user_id path string true "User ID"
// @Success      200 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Router       /boards/{id}/share/{user_id} [delete]
func (h *BoardShareHandler) RemoveShare(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	targetID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	if err := h.boards.Unshare(c.Request.Context(), userID, boardID, targetID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Access removed successfully"})
}

// GetBoardShares godoc
// @Summary      List everyone with access to a board
// @Tags         Board Sharing
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Board ID"
// @Success      200 {array} service.ShareView
// @Router       /boards/{id}/share [get]
func (h *BoardShareHandler) GetBoardShares(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	shares, err := h.boards.Shares(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if shares == nil {
		shares = []service.ShareView{}
	}
	c.JSON(http.StatusOK, shares)
}

// GetSharedBoards godoc
// @Summary      List boards shared with the caller
// @Tags         Board Sharing
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} service.BoardInfo
// @Router       /shared-boards [get]
func (h *BoardShareHandler) GetSharedBoards(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	boards, err := h.boards.ListBoards(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	shared := []service.BoardInfo{}
	for _, b := range boards {
		if b.Shared {
			shared = append(shared, b)
		}
	}
	c.JSON(http.StatusOK, shared)
}
