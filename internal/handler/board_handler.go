package handler

import (
	"context"
	"net/http"

	"jobtracker/internal/board"
	"jobtracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// BoardService is what the HTTP layer needs from service.BoardService.
type BoardService interface {
	CreateBoard(ctx context.Context, ownerID uuid.UUID, in service.NewBoard) (*service.BoardInfo, error)
	ListBoards(ctx context.Context, userID uuid.UUID) ([]service.BoardInfo, error)
	GetBoard(ctx context.Context, userID, boardID uuid.UUID) (*service.BoardView, error)
	Stats(ctx context.Context, userID, boardID uuid.UUID) (any, error)
	CardsInStatus(ctx context.Context, userID, boardID uuid.UUID, status board.Status) ([]service.Card, error)
	DeleteBoard(ctx context.Context, userID, boardID uuid.UUID) error
	SetColumnLimit(ctx context.Context, userID, boardID uuid.UUID, status board.Status, maxItems int) error

	CreateCard(ctx context.Context, userID, boardID uuid.UUID, in service.CardInput) (*service.Card, error)
	EditCard(ctx context.Context, userID, boardID uuid.UUID, cardID string, patch service.CardPatch) (*service.Card, error)
	DeleteCard(ctx context.Context, userID, boardID uuid.UUID, cardID string) error
	MoveCard(ctx context.Context, userID, boardID uuid.UUID, cardID string, target, expectedFrom board.Status) (*service.Card, error)
	UpdateResult(ctx context.Context, userID, boardID uuid.UUID, cardID string, result board.Result) (*service.Card, error)

	DragStart(ctx context.Context, userID, boardID uuid.UUID, cardID string) error
	DragEnter(userID, boardID uuid.UUID, status board.Status)
	DragLeave(userID, boardID uuid.UUID)
	DragDrop(ctx context.Context, userID, boardID uuid.UUID, target board.Status) (*service.Card, error)
	DragCancel(userID, boardID uuid.UUID)

	Share(ctx context.Context, ownerID, boardID uuid.UUID, email, role string) error
	Unshare(ctx context.Context, ownerID, boardID, userID uuid.UUID) error
	Shares(ctx context.Context, userID, boardID uuid.UUID) ([]service.ShareView, error)
}

var _ BoardService = (*service.BoardService)(nil)

type BoardHandler struct {
	boards BoardService
	logger *log.Logger
}

func NewBoardHandler(boards BoardService, logger *log.Logger) *BoardHandler {
	return &BoardHandler{boards: boards, logger: logger}
}

type CreateBoardRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Kind        string `json:"kind" binding:"omitempty,oneof=tasks applications"`
	Seed        bool   `json:"seed"`
}

type ColumnLimitRequest struct {
	MaxItems *int `json:"max_items" binding:"required"`
}

// Create godoc
// @Summary      Create a board
// @Tags         Boards
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body CreateBoardRequest true "Board"
// @Success      201 {object} service.BoardInfo
// @Failure      400 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Router       /boards [post]
func (h *BoardHandler) Create(c *gin.Context) {
	ownerID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	info, err := h.boards.CreateBoard(c.Request.Context(), ownerID, service.NewBoard{
		Title:       req.Title,
		Description: req.Description,
		Kind:        req.Kind,
		Seed:        req.Seed,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, info)
}

// GetAll godoc
// @Summary      List owned and shared boards
// @Tags         Boards
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} service.BoardInfo
// @Router       /boards [get]
func (h *BoardHandler) GetAll(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	boards, err := h.boards.ListBoards(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if boards == nil {
		boards = []service.BoardInfo{}
	}
	c.JSON(http.StatusOK, boards)
}

// GetByID godoc
// @Summary      Get a board with its columns and cards
// @Tags         Boards
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Board ID"
// @Success      200 {object} service.BoardView
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /boards/{id} [get]
func (h *BoardHandler) GetByID(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	view, err := h.boards.GetBoard(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Delete godoc
// @Summary      Delete a board
// @Tags         Boards
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Success      204
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /boards/{id} [delete]
func (h *BoardHandler) Delete(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	if err := h.boards.DeleteBoard(c.Request.Context(), userID, boardID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Stats godoc
// @Summary      Board statistics
// @Tags         Boards
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Board ID"
// @Success      200 {object} map[string]interface{}
// @Router       /boards/{id}/stats [get]
func (h *BoardHandler) Stats(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	stats, err := h.boards.Stats(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// SetColumnLimit godoc
// @Summary      Set the capacity of a column
// @Description  Zero removes the limit.
// @Tags         Columns
// @Security     BearerAuth
// @Accept       json
// @Param        id     path string true "Board ID"
// @Param        status path string true "Column status"
// @Param        request body ColumnLimitRequest true "Limit"
// @Success      204
// @Failure      400 {object} map[string]string
// @Router       /boards/{id}/columns/{status} [put]
func (h *BoardHandler) SetColumnLimit(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	var req ColumnLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	status := board.Status(c.Param("status"))
	if err := h.boards.SetColumnLimit(c.Request.Context(), userID, boardID, status, *req.MaxItems); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ColumnCards godoc
// @Summary      List the cards of one column
// @Tags         Columns
// @Security     BearerAuth
// @Produce      json
// @Param        id     path string true "Board ID"
// @Param        status path string true "Column status"
// @Success      200 {array} service.Card
// @Failure      400 {object} map[string]string
// @Router       /boards/{id}/columns/{status}/cards [get]
func (h *BoardHandler) ColumnCards(c *gin.Context) {
	userID, boardID, ok := boardRequest(c)
	if !ok {
		return
	}

	cards, err := h.boards.CardsInStatus(c.Request.Context(), userID, boardID, board.Status(c.Param("status")))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if cards == nil {
		cards = []service.Card{}
	}
	c.JSON(http.StatusOK, cards)
}
