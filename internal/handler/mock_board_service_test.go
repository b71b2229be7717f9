package handler_test

import (
	"context"

	"jobtracker/internal/board"
	"jobtracker/internal/handler"
	"jobtracker/internal/middleware"
	"jobtracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
)

// MockBoardService is a testify mock of handler.BoardService
type MockBoardService struct {
	mock.Mock
}

var _ handler.BoardService = (*MockBoardService)(nil)

func (m *MockBoardService) CreateBoard(ctx context.Context, ownerID uuid.UUID, in service.NewBoard) (*service.BoardInfo, error) {
	args := m.Called(ctx, ownerID, in)
	info, _ := args.Get(0).(*service.BoardInfo)
	return info, args.Error(1)
}

func (m *MockBoardService) ListBoards(ctx context.Context, userID uuid.UUID) ([]service.BoardInfo, error) {
	args := m.Called(ctx, userID)
	boards, _ := args.Get(0).([]service.BoardInfo)
	return boards, args.Error(1)
}

func (m *MockBoardService) GetBoard(ctx context.Context, userID, boardID uuid.UUID) (*service.BoardView, error) {
	args := m.Called(ctx, userID, boardID)
	view, _ := args.Get(0).(*service.BoardView)
	return view, args.Error(1)
}

func (m *MockBoardService) Stats(ctx context.Context, userID, boardID uuid.UUID) (any, error) {
	args := m.Called(ctx, userID, boardID)
	return args.Get(0), args.Error(1)
}

func (m *MockBoardService) CardsInStatus(ctx context.Context, userID, boardID uuid.UUID, status board.Status) ([]service.Card, error) {
	args := m.Called(ctx, userID, boardID, status)
	cards, _ := args.Get(0).([]service.Card)
	return cards, args.Error(1)
}

func (m *MockBoardService) DeleteBoard(ctx context.Context, userID, boardID uuid.UUID) error {
	return m.Called(ctx, userID, boardID).Error(0)
}

func (m *MockBoardService) SetColumnLimit(ctx context.Context, userID, boardID uuid.UUID, status board.Status, maxItems int) error {
	return m.Called(ctx, userID, boardID, status, maxItems).Error(0)
}

func (m *MockBoardService) CreateCard(ctx context.Context, userID, boardID uuid.UUID, in service.CardInput) (*service.Card, error) {
	args := m.Called(ctx, userID, boardID, in)
	card, _ := args.Get(0).(*service.Card)
	return card, args.Error(1)
}

func (m *MockBoardService) EditCard(ctx context.Context, userID, boardID uuid.UUID, cardID string, patch service.CardPatch) (*service.Card, error) {
	args := m.Called(ctx, userID, boardID, cardID, patch)
	card, _ := args.Get(0).(*service.Card)
	return card, args.Error(1)
}

func (m *MockBoardService) DeleteCard(ctx context.Context, userID, boardID uuid.UUID, cardID string) error {
	return m.Called(ctx, userID, boardID, cardID).Error(0)
}

func (m *MockBoardService) MoveCard(ctx context.Context, userID, boardID uuid.UUID, cardID string, target, expectedFrom board.Status) (*service.Card, error) {
	args := m.Called(ctx, userID, boardID, cardID, target, expectedFrom)
	card, _ := args.Get(0).(*service.Card)
	return card, args.Error(1)
}

func (m *MockBoardService) UpdateResult(ctx context.Context, userID, boardID uuid.UUID, cardID string, result board.Result) (*service.Card, error) {
	args := m.Called(ctx, userID, boardID, cardID, result)
	card, _ := args.Get(0).(*service.Card)
	return card, args.Error(1)
}

func (m *MockBoardService) DragStart(ctx context.Context, userID, boardID uuid.UUID, cardID string) error {
	return m.Called(ctx, userID, boardID, cardID).Error(0)
}

func (m *MockBoardService) DragEnter(userID, boardID uuid.UUID, status board.Status) {
	m.Called(userID, boardID, status)
}

func (m *MockBoardService) DragLeave(userID, boardID uuid.UUID) {
	m.Called(userID, boardID)
}

func (m *MockBoardService) DragDrop(ctx context.Context, userID, boardID uuid.UUID, target board.Status) (*service.Card, error) {
	args := m.Called(ctx, userID, boardID, target)
	card, _ := args.Get(0).(*service.Card)
	return card, args.Error(1)
}

func (m *MockBoardService) DragCancel(userID, boardID uuid.UUID) {
	m.Called(userID, boardID)
}

func (m *MockBoardService) Share(ctx context.Context, ownerID, boardID uuid.UUID, email, role string) error {
	return m.Called(ctx, ownerID, boardID, email, role).Error(0)
}

func (m *MockBoardService) Unshare(ctx context.Context, ownerID, boardID, userID uuid.UUID) error {
	return m.Called(ctx, ownerID, boardID, userID).Error(0)
}

func (m *MockBoardService) Shares(ctx context.Context, userID, boardID uuid.UUID) ([]service.ShareView, error) {
	args := m.Called(ctx, userID, boardID)
	shares, _ := args.Get(0).([]service.ShareView)
	return shares, args.Error(1)
}

// authenticatedRouter wires every board route behind a stub that plays the
// auth middleware for userID.
func authenticatedRouter(svc handler.BoardService, userID uuid.UUID) *gin.Engine {
	logger, _ := test.NewNullLogger()
	return loggedRouter(svc, userID, logger)
}

func loggedRouter(svc handler.BoardService, userID uuid.UUID, logger *log.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	})

	boards := handler.NewBoardHandler(svc, logger)
	cards := handler.NewCardHandler(svc, logger)
	drag := handler.NewDragHandler(svc, logger)
	shares := handler.NewBoardShareHandler(svc, logger)

	r.POST("/boards", boards.Create)
	r.GET("/boards", boards.GetAll)
	r.GET("/boards/:id", boards.GetByID)
	r.DELETE("/boards/:id", boards.Delete)
	r.GET("/boards/:id/stats", boards.Stats)
	r.PUT("/boards/:id/columns/:status", boards.SetColumnLimit)
	r.GET("/boards/:id/columns/:status/cards", boards.ColumnCards)
	r.POST("/boards/:id/cards", cards.Create)
	r.PUT("/boards/:id/cards/:card_id", cards.Update)
	r.DELETE("/boards/:id/cards/:card_id", cards.Delete)
	r.POST("/boards/:id/cards/:card_id/move", cards.Move)
	r.POST("/boards/:id/cards/:card_id/result", cards.SetResult)
	r.POST("/boards/:id/drag/start", drag.Start)
	r.POST("/boards/:id/drag/enter", drag.Enter)
	r.POST("/boards/:id/drag/drop", drag.Drop)
	r.POST("/boards/:id/drag/cancel", drag.Cancel)
	r.POST("/boards/:id/share", shares.ShareBoard)
	r.DELETE("/boards/:id/share/:user_id", shares.RemoveShare)
	r.GET("/shared-boards", shares.GetSharedBoards)
	return r
}
