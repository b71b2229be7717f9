package service_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"jobtracker/internal/model"
	"jobtracker/internal/repository"
	"jobtracker/internal/service"
)

type fakeBoards struct {
	mu     sync.Mutex
	boards map[uuid.UUID]model.Board
}

func newFakeBoards() *fakeBoards {
	return &fakeBoards{boards: make(map[uuid.UUID]model.Board)}
}

func (f *fakeBoards) Create(_ context.Context, b *model.Board) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	f.boards[b.ID] = *b
	return nil
}

func (f *fakeBoards) GetByID(_ context.Context, id uuid.UUID) (*model.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.boards[id]
	if !ok {
		return nil, repository.ErrBoardNotFound
	}
	return &b, nil
}

func (f *fakeBoards) GetOwned(_ context.Context, ownerID uuid.UUID) ([]model.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Board
	for _, b := range f.boards {
		if b.OwnerID == ownerID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeBoards) CountOwned(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	owned, err := f.GetOwned(ctx, ownerID)
	return int64(len(owned)), err
}

func (f *fakeBoards) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.boards[id]; !ok {
		return repository.ErrBoardNotFound
	}
	delete(f.boards, id)
	return nil
}

// fakeCards serializes WithBoardLock callers on one mutex, which is enough
// to reproduce the row lock for tests.
type fakeCards struct {
	lock sync.Mutex
	mu   sync.Mutex
	rows []model.Card
}

func (f *fakeCards) Create(_ context.Context, card *model.Card) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	for _, r := range f.rows {
		if r.ID == card.ID {
			return errors.New("duplicate key")
		}
	}
	f.rows = append(f.rows, *card)
	return nil
}

func (f *fakeCards) GetByID(_ context.Context, id uuid.UUID) (*model.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, repository.ErrCardNotFound
}

func (f *fakeCards) GetByBoardID(_ context.Context, boardID uuid.UUID) ([]model.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Card
	for _, r := range f.rows {
		if r.BoardID == boardID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeCards) Update(_ context.Context, card *model.Card, prevVersion int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.rows {
		if r.ID == card.ID {
			if r.Version != prevVersion {
				return repository.ErrStaleCard
			}
			f.rows[i] = *card
			return nil
		}
	}
	return repository.ErrStaleCard
}

func (f *fakeCards) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.rows {
		if r.ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrCardNotFound
}

func (f *fakeCards) WithBoardLock(_ context.Context, _ uuid.UUID, fn func(repository.CardStore) error) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	return fn(f)
}

func (f *fakeCards) row(id string) model.Card {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ID.String() == id {
			return r
		}
	}
	return model.Card{}
}

// gatedCards parks the first board read taken after arm until release is
// closed, so a test can interleave a writer with a reader mid-load.
type gatedCards struct {
	*fakeCards
	armed   atomic.Bool
	loaded  chan struct{}
	release chan struct{}
}

func newGatedCards(f *fakeCards) *gatedCards {
	return &gatedCards{fakeCards: f, loaded: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedCards) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Card, error) {
	rows, err := g.fakeCards.GetByBoardID(ctx, boardID)
	if g.armed.CompareAndSwap(true, false) {
		close(g.loaded)
		<-g.release
	}
	return rows, err
}

func (g *gatedCards) WithBoardLock(ctx context.Context, boardID uuid.UUID, fn func(repository.CardStore) error) error {
	return g.fakeCards.WithBoardLock(ctx, boardID, func(repository.CardStore) error {
		return fn(g)
	})
}

// brokenCards fails single-card reads with err.
type brokenCards struct {
	*fakeCards
	err error
}

func (b *brokenCards) GetByID(context.Context, uuid.UUID) (*model.Card, error) {
	return nil, b.err
}

type fakeLimits struct {
	mu     sync.Mutex
	limits map[uuid.UUID]map[string]int
}

func (f *fakeLimits) GetByBoardID(_ context.Context, boardID uuid.UUID) ([]model.ColumnLimit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.ColumnLimit
	for status, max := range f.limits[boardID] {
		out = append(out, model.ColumnLimit{BoardID: boardID, Status: status, MaxItems: max})
	}
	return out, nil
}

func (f *fakeLimits) SetLimit(_ context.Context, l *model.ColumnLimit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.limits == nil {
		f.limits = make(map[uuid.UUID]map[string]int)
	}
	if f.limits[l.BoardID] == nil {
		f.limits[l.BoardID] = make(map[string]int)
	}
	f.limits[l.BoardID][l.Status] = l.MaxItems
	return nil
}

type fakeUsers struct {
	users map[uuid.UUID]model.User
}

func (f *fakeUsers) add(email, name string) uuid.UUID {
	id := uuid.New()
	f.users[id] = model.User{ID: id, Email: email, Name: name}
	return id
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

type fakeShares struct {
	mu     sync.Mutex
	roles  map[uuid.UUID]map[uuid.UUID]string
	boards *fakeBoards
	users  *fakeUsers
}

func (f *fakeShares) ShareBoard(_ context.Context, boardID, userID uuid.UUID, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.roles[boardID] == nil {
		f.roles[boardID] = make(map[uuid.UUID]string)
	}
	f.roles[boardID][userID] = role
	return nil
}

func (f *fakeShares) RemoveShare(_ context.Context, boardID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.roles[boardID], userID)
	return nil
}

func (f *fakeShares) GetBoardShares(_ context.Context, boardID uuid.UUID) ([]model.BoardShare, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.BoardShare
	for userID, role := range f.roles[boardID] {
		out = append(out, model.BoardShare{BoardID: boardID, UserID: userID, Role: role, User: f.users.users[userID]})
	}
	return out, nil
}

func (f *fakeShares) GetSharedBoards(ctx context.Context, userID uuid.UUID) ([]model.Board, error) {
	f.mu.Lock()
	var ids []uuid.UUID
	for boardID, roles := range f.roles {
		if _, ok := roles[userID]; ok {
			ids = append(ids, boardID)
		}
	}
	f.mu.Unlock()

	var out []model.Board
	for _, id := range ids {
		b, err := f.boards.GetByID(ctx, id)
		if err == nil {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeShares) CheckAccess(_ context.Context, boardID, userID uuid.UUID, required string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	role, ok := f.roles[boardID][userID]
	if !ok {
		return false, nil
	}
	return required == model.RoleViewer || role == model.RoleEditor, nil
}

type recorder struct {
	mu     sync.Mutex
	events []service.Event
}

func (r *recorder) Publish(_ context.Context, _ string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event.(service.Event))
	return nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}
