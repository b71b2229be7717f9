// Package service runs board operations against persisted boards: it checks
// access, rebuilds the board engine under a per-board lock, persists the
// changed card, refreshes the cache and publishes an event.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"jobtracker/internal/board"
	"jobtracker/internal/cache"
	"jobtracker/internal/model"
	"jobtracker/internal/repository"
)

const DefaultMaxBoardsPerUser = 5

type BoardStore interface {
	Create(ctx context.Context, board *model.Board) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error)
	GetOwned(ctx context.Context, ownerID uuid.UUID) ([]model.Board, error)
	CountOwned(ctx context.Context, ownerID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type LimitStore interface {
	GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.ColumnLimit, error)
	SetLimit(ctx context.Context, limit *model.ColumnLimit) error
}

type ShareStore interface {
	ShareBoard(ctx context.Context, boardID, userID uuid.UUID, role string) error
	RemoveShare(ctx context.Context, boardID, userID uuid.UUID) error
	GetBoardShares(ctx context.Context, boardID uuid.UUID) ([]model.BoardShare, error)
	GetSharedBoards(ctx context.Context, userID uuid.UUID) ([]model.Board, error)
	CheckAccess(ctx context.Context, boardID, userID uuid.UUID, requiredRole string) (bool, error)
}

type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// SnapshotCache is the subset of cache.Cache the service relies on.
type SnapshotCache interface {
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, v any)
	Delete(ctx context.Context, keys ...string)
	InvalidatePattern(ctx context.Context, pattern string)
}

type EventPublisher interface {
	Publish(ctx context.Context, channel string, event any) error
}

// Deps groups the collaborators of a BoardService. Cache and Events may be nil.
type Deps struct {
	Boards BoardStore
	Cards  repository.CardStore
	Limits LimitStore
	Shares ShareStore
	Users  UserFinder
	Cache  SnapshotCache
	Events EventPublisher
}

type Config struct {
	InProgressLimit  int
	MaxBoardsPerUser int
	EventsChannel    string
}

type Option func(*BoardService)

func WithClock(now func() time.Time) Option {
	return func(s *BoardService) { s.now = now }
}

func WithLogger(logger *log.Logger) Option {
	return func(s *BoardService) { s.logger = logger }
}

type BoardService struct {
	boards BoardStore
	cards  repository.CardStore
	limits LimitStore
	shares ShareStore
	users  UserFinder
	cache  SnapshotCache
	events EventPublisher

	cfg    Config
	now    func() time.Time
	logger *log.Logger
	tracer trace.Tracer

	dragMu sync.Mutex
	drags  map[dragKey]*board.DragSession
}

func NewBoardService(deps Deps, cfg Config, opts ...Option) *BoardService {
	if cfg.MaxBoardsPerUser <= 0 {
		cfg.MaxBoardsPerUser = DefaultMaxBoardsPerUser
	}
	if cfg.InProgressLimit < 0 {
		cfg.InProgressLimit = 0
	}
	if cfg.EventsChannel == "" {
		cfg.EventsChannel = "board-events"
	}
	s := &BoardService{
		boards: deps.Boards,
		cards:  deps.Cards,
		limits: deps.Limits,
		shares: deps.Shares,
		users:  deps.Users,
		cache:  deps.Cache,
		events: deps.Events,
		cfg:    cfg,
		now:    time.Now,
		logger: log.StandardLogger(),
		tracer: otel.Tracer("jobtracker/service"),
		drags:  make(map[dragKey]*board.DragSession),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = (*cache.Cache)(nil)
	}
	return s
}

// NewBoard describes a board to create. Kind defaults to tasks.
type NewBoard struct {
	Title       string
	Description string
	Kind        string
	Seed        bool
}

// BoardInfo is a board as listed to a user.
type BoardInfo struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Kind        string    `json:"kind"`
	OwnerID     string    `json:"owner_id"`
	Shared      bool      `json:"shared"`
	CreatedAt   time.Time `json:"created_at"`
}

// ColumnView is one column of a board snapshot.
type ColumnView struct {
	Status   board.Status `json:"status"`
	Title    string       `json:"title"`
	MaxItems int          `json:"max_items,omitempty"`
	Count    int          `json:"count"`
	Full     bool         `json:"full"`
	Cards    []Card       `json:"cards"`
}

// BoardView is a full board snapshot. Highlighted and Dragging reflect the
// caller's own drag gesture and are never cached.
type BoardView struct {
	BoardInfo
	Terminal    board.Status `json:"terminal"`
	Columns     []ColumnView `json:"columns"`
	Highlighted board.Status `json:"highlighted,omitempty"`
	Dragging    string       `json:"dragging,omitempty"`
}

func (s *BoardService) CreateBoard(ctx context.Context, ownerID uuid.UUID, in NewBoard) (_ *BoardInfo, err error) {
	ctx, span := s.tracer.Start(ctx, "BoardService.CreateBoard", trace.WithAttributes(
		attribute.String("user.id", ownerID.String()),
	))
	defer func() { endSpan(span, err) }()

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	kind := in.Kind
	if kind == "" {
		kind = model.KindTasks
	}
	if _, err := baseColumns(kind, s.cfg.InProgressLimit); err != nil {
		return nil, err
	}

	count, err := s.boards.CountOwned(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count boards: %w", err)
	}
	if count >= int64(s.cfg.MaxBoardsPerUser) {
		return nil, fmt.Errorf("%w (%d)", ErrBoardLimit, s.cfg.MaxBoardsPerUser)
	}

	b := &model.Board{
		Title:       title,
		Description: in.Description,
		Kind:        kind,
		OwnerID:     ownerID,
	}
	if err := s.boards.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create board: %w", err)
	}

	if in.Seed {
		err := s.cards.WithBoardLock(ctx, b.ID, func(store repository.CardStore) error {
			ws, err := s.load(ctx, b, store)
			if err != nil {
				return err
			}
			seeded, err := ws.Seed()
			if err != nil {
				return err
			}
			for _, c := range seeded {
				row, err := toModel(b.ID, c)
				if err != nil {
					return err
				}
				if err := store.Create(ctx, &row); err != nil {
					return fmt.Errorf("seed card: %w", err)
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	s.cache.Delete(ctx, boardListKey(ownerID))
	s.logger.WithFields(log.Fields{
		"board_id": b.ID,
		"owner_id": ownerID,
		"kind":     kind,
		"seeded":   in.Seed,
	}).Info("board created")

	info := boardInfo(b, false)
	return &info, nil
}

// ListBoards returns the boards a user owns followed by those shared with them.
func (s *BoardService) ListBoards(ctx context.Context, userID uuid.UUID) ([]BoardInfo, error) {
	var cached []BoardInfo
	if s.cache.Get(ctx, boardListKey(userID), &cached) {
		return cached, nil
	}

	owned, err := s.boards.GetOwned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list owned boards: %w", err)
	}
	shared, err := s.shares.GetSharedBoards(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list shared boards: %w", err)
	}

	out := make([]BoardInfo, 0, len(owned)+len(shared))
	for i := range owned {
		out = append(out, boardInfo(&owned[i], false))
	}
	for i := range shared {
		out = append(out, boardInfo(&shared[i], true))
	}
	s.cache.Set(ctx, boardListKey(userID), out)
	return out, nil
}

// GetBoard returns the board snapshot, from the cache when possible.
func (s *BoardService) GetBoard(ctx context.Context, userID, boardID uuid.UUID) (_ *BoardView, err error) {
	ctx, span := s.tracer.Start(ctx, "BoardService.GetBoard", trace.WithAttributes(
		attribute.String("board.id", boardID.String()),
	))
	defer func() { endSpan(span, err) }()

	b, err := s.authorize(ctx, userID, boardID, model.RoleViewer)
	if err != nil {
		return nil, err
	}

	var view BoardView
	key := cache.BoardKey(boardID.String(), "view")
	if s.cache.Get(ctx, key, &view) {
		span.SetAttributes(attribute.Bool("cache.hit", true))
	} else {
		// A miss is filled under the board lock: a mutation then commits
		// either before the load or after the Set, and its invalidation
		// always lands after any view built from older rows.
		err := s.cards.WithBoardLock(ctx, boardID, func(store repository.CardStore) error {
			ws, err := s.load(ctx, b, store)
			if err != nil {
				return err
			}
			built, err := snapshot(b, ws, b.OwnerID != userID)
			if err != nil {
				return err
			}
			view = *built
			s.cache.Set(ctx, key, view)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	view.Shared = b.OwnerID != userID
	if d := s.dragSession(boardID, userID, false); d != nil {
		view.Highlighted = d.Highlighted()
		view.Dragging = d.CardID()
	}
	return &view, nil
}

// Stats computes the statistics block of a board. It is never cached since
// overdue counts depend on the current time.
func (s *BoardService) Stats(ctx context.Context, userID, boardID uuid.UUID) (_ any, err error) {
	ctx, span := s.tracer.Start(ctx, "BoardService.Stats")
	defer func() { endSpan(span, err) }()

	b, err := s.authorize(ctx, userID, boardID, model.RoleViewer)
	if err != nil {
		return nil, err
	}
	ws, err := s.load(ctx, b, s.cards)
	if err != nil {
		return nil, err
	}
	return ws.Stats(), nil
}

// CardsInStatus lists the cards of one column in board order.
func (s *BoardService) CardsInStatus(ctx context.Context, userID, boardID uuid.UUID, status board.Status) ([]Card, error) {
	b, err := s.authorize(ctx, userID, boardID, model.RoleViewer)
	if err != nil {
		return nil, err
	}
	ws, err := s.load(ctx, b, s.cards)
	if err != nil {
		return nil, err
	}
	cards, err := ws.CardsInStatus(status)
	if errors.Is(err, board.ErrInvalidColumn) {
		s.logger.WithFields(log.Fields{"board_id": boardID, "status": status}).Error("listing unknown column")
	}
	return cards, err
}

func (s *BoardService) DeleteBoard(ctx context.Context, userID, boardID uuid.UUID) (err error) {
	ctx, span := s.tracer.Start(ctx, "BoardService.DeleteBoard")
	defer func() { endSpan(span, err) }()

	b, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return err
	}
	if b.OwnerID != userID {
		return ErrForbidden
	}
	shares, err := s.shares.GetBoardShares(ctx, boardID)
	if err != nil {
		return fmt.Errorf("load shares: %w", err)
	}
	if err := s.boards.Delete(ctx, boardID); err != nil {
		return err
	}

	s.dropDragSessions(boardID)
	s.cache.InvalidatePattern(ctx, cache.BoardPattern(boardID.String()))
	keys := []string{boardListKey(userID)}
	for _, sh := range shares {
		keys = append(keys, boardListKey(sh.UserID))
	}
	s.cache.Delete(ctx, keys...)
	s.publish(ctx, Event{Type: EventBoardDeleted, BoardID: boardID.String(), ActorID: userID.String()})
	return nil
}

// SetColumnLimit overrides the capacity of one column. Zero removes the
// bound. Cards already over a lowered limit stay where they are.
func (s *BoardService) SetColumnLimit(ctx context.Context, userID, boardID uuid.UUID, status board.Status, maxItems int) (err error) {
	ctx, span := s.tracer.Start(ctx, "BoardService.SetColumnLimit", trace.WithAttributes(
		attribute.String("board.id", boardID.String()),
		attribute.String("column", string(status)),
		attribute.Int("max_items", maxItems),
	))
	defer func() { endSpan(span, err) }()

	if maxItems < 0 {
		return fmt.Errorf("%w: max_items cannot be negative", ErrValidation)
	}
	b, err := s.authorize(ctx, userID, boardID, model.RoleEditor)
	if err != nil {
		return err
	}
	cols, err := baseColumns(b.Kind, s.cfg.InProgressLimit)
	if err != nil {
		return err
	}
	if !hasColumn(cols, status) {
		s.logger.WithFields(log.Fields{"board_id": boardID, "status": status}).Error("limit for unknown column")
		return fmt.Errorf("%w: %q", board.ErrInvalidColumn, status)
	}

	err = s.cards.WithBoardLock(ctx, boardID, func(repository.CardStore) error {
		return s.limits.SetLimit(ctx, &model.ColumnLimit{BoardID: boardID, Status: string(status), MaxItems: maxItems})
	})
	if err != nil {
		return err
	}

	s.cache.InvalidatePattern(ctx, cache.BoardPattern(boardID.String()))
	s.publish(ctx, Event{Type: EventColumnUpdated, BoardID: boardID.String(), ActorID: userID.String(), To: status})
	return nil
}

// authorize loads the board and checks the caller holds role on it.
func (s *BoardService) authorize(ctx context.Context, userID, boardID uuid.UUID, role string) (*model.Board, error) {
	b, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if b.OwnerID == userID {
		return b, nil
	}
	ok, err := s.shares.CheckAccess(ctx, boardID, userID, role)
	if err != nil {
		return nil, fmt.Errorf("check access: %w", err)
	}
	if !ok {
		return nil, ErrForbidden
	}
	return b, nil
}

// columns returns the board columns with per-board limits applied.
func (s *BoardService) columns(ctx context.Context, b *model.Board) ([]board.Column, error) {
	cols, err := baseColumns(b.Kind, s.cfg.InProgressLimit)
	if err != nil {
		return nil, err
	}
	limits, err := s.limits.GetByBoardID(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("load column limits: %w", err)
	}
	for _, l := range limits {
		for i := range cols {
			if string(cols[i].Status) == l.Status {
				cols[i].MaxItems = l.MaxItems
			}
		}
	}
	return cols, nil
}

func (s *BoardService) load(ctx context.Context, b *model.Board, store repository.CardStore) (workspace, error) {
	cols, err := s.columns(ctx, b)
	if err != nil {
		return nil, err
	}
	rows, err := store.GetByBoardID(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("load cards: %w", err)
	}
	ws, err := openWorkspace(b.Kind, cols, rows, s.now)
	if err != nil {
		s.logger.WithError(err).WithField("board_id", b.ID).Error("board failed to load")
		return nil, err
	}
	return ws, nil
}

func snapshot(b *model.Board, ws workspace, shared bool) (*BoardView, error) {
	cards, err := ws.Cards()
	if err != nil {
		return nil, err
	}
	cols := ws.Columns()
	view := &BoardView{
		BoardInfo: boardInfo(b, shared),
		Terminal:  ws.Terminal(),
		Columns:   make([]ColumnView, len(cols)),
	}
	for i, col := range cols {
		cv := ColumnView{Status: col.Status, Title: col.Title, MaxItems: col.MaxItems, Cards: []Card{}}
		for _, c := range cards {
			if c.Status == col.Status {
				cv.Cards = append(cv.Cards, c)
			}
		}
		cv.Count = len(cv.Cards)
		cv.Full = col.Bounded() && cv.Count >= col.MaxItems
		view.Columns[i] = cv
	}
	return view, nil
}

func boardInfo(b *model.Board, shared bool) BoardInfo {
	return BoardInfo{
		ID:          b.ID.String(),
		Title:       b.Title,
		Description: b.Description,
		Kind:        b.Kind,
		OwnerID:     b.OwnerID.String(),
		Shared:      shared,
		CreatedAt:   b.CreatedAt,
	}
}

func boardListKey(userID uuid.UUID) string {
	return cache.UserKey(userID.String(), "boards")
}

func hasColumn(cols []board.Column, status board.Status) bool {
	for _, c := range cols {
		if c.Status == status {
			return true
		}
	}
	return false
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
