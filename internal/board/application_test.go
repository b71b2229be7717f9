package board_test

import (
	"testing"
	"time"

	"jobtracker/internal/board"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateResult_NonTerminalCard(t *testing.T) {
	clock := newClock()
	e, err := board.NewApplicationBoard(board.WithClock(clock.Now))
	require.NoError(t, err)
	_, err = e.Add(board.Card[board.Application]{ID: "card-1", Status: board.StatusInterviewing})
	require.NoError(t, err)

	clock.Advance(time.Minute)
	card, err := board.UpdateResult(e, "card-1", board.ResultOffer)
	require.NoError(t, err)

	assert.Equal(t, board.ResultOffer, card.Details.Result)
	assert.Equal(t, board.StatusInterviewing, card.Status)
	assert.Equal(t, clock.Now(), card.UpdatedAt)
}

func TestUpdateResult_Errors(t *testing.T) {
	e, err := board.NewApplicationBoard()
	require.NoError(t, err)
	_, err = e.Add(board.Card[board.Application]{ID: "card-1", Status: board.StatusClosed})
	require.NoError(t, err)

	_, err = board.UpdateResult(e, "card-1", "hired")
	assert.ErrorIs(t, err, board.ErrInvalidResult)

	_, err = board.UpdateResult(e, "card-2", board.ResultRejected)
	assert.ErrorIs(t, err, board.ErrNotFound)
}

func TestOverdue_ExcludesTerminalColumn(t *testing.T) {
	clock := newClock()
	e, err := board.NewApplicationBoard(board.WithClock(clock.Now))
	require.NoError(t, err)

	past := clock.Now().Add(-48 * time.Hour)
	future := clock.Now().Add(48 * time.Hour)
	_, err = e.Add(board.Card[board.Application]{ID: "late", Status: board.StatusApplied, DueDate: &past})
	require.NoError(t, err)
	_, err = e.Add(board.Card[board.Application]{ID: "fine", Status: board.StatusApplied, DueDate: &future})
	require.NoError(t, err)
	_, err = e.Add(board.Card[board.Application]{ID: "none", Status: board.StatusApplied})
	require.NoError(t, err)

	assert.Equal(t, 1, e.Overdue())

	_, err = e.MoveCard("late", board.StatusClosed)
	require.NoError(t, err)
	assert.Equal(t, 0, e.Overdue())

	clock.Advance(72 * time.Hour)
	assert.Equal(t, 1, e.Overdue())
}

func TestApplicationStats_SampleBoard(t *testing.T) {
	clock := newClock()
	e, err := board.NewApplicationBoard(board.WithClock(clock.Now))
	require.NoError(t, err)
	for _, c := range board.SampleApplications() {
		_, err := e.Add(c)
		require.NoError(t, err)
	}

	stats := board.ApplicationStats(e)
	assert.Equal(t, board.ApplicationSummary{
		Total:    6,
		Active:   3,
		Closed:   2,
		Offers:   1,
		Rejected: 1,
		Overdue:  2,
	}, stats)
}

func TestApplicationStats_ResultOutsideClosedNotCounted(t *testing.T) {
	e, err := board.NewApplicationBoard()
	require.NoError(t, err)
	_, err = e.Add(board.Card[board.Application]{ID: "a", Status: board.StatusApplied})
	require.NoError(t, err)
	_, err = board.UpdateResult(e, "a", board.ResultOffer)
	require.NoError(t, err)

	assert.Equal(t, 0, board.ApplicationStats(e).Offers)

	_, err = e.MoveCard("a", board.StatusClosed)
	require.NoError(t, err)
	assert.Equal(t, 1, board.ApplicationStats(e).Offers)
}

func TestTaskStats(t *testing.T) {
	clock := newClock()
	e, err := board.NewTaskBoard(board.DefaultInProgressLimit, board.WithClock(clock.Now))
	require.NoError(t, err)
	for _, c := range board.SampleTasks() {
		_, err := e.Add(c)
		require.NoError(t, err)
	}

	stats := board.TaskStats(e)
	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 2, stats.ByStatus[board.StatusDone])
	assert.Equal(t, 1, stats.ByStatus[board.StatusBacklog])
	assert.Len(t, stats.ByStatus, 5)
	// Every sample due date is in early 2024, only done cards are exempt
	assert.Equal(t, 4, stats.Overdue)

	assert.Equal(t, 2, e.CountWhere(board.StatusIn(board.StatusTodo, board.StatusBacklog)))
}
