package board

import "sync"

// Mover is the part of an engine a drag gesture needs on drop.
type Mover interface {
	MoveCard(id string, source, target Status) error
}

// MoverFunc adapts a function to Mover.
type MoverFunc func(id string, source, target Status) error

func (f MoverFunc) MoveCard(id string, source, target Status) error {
	return f(id, source, target)
}

// EngineMover drops onto an engine, refusing the move if the card left its
// source column while it was being dragged.
func EngineMover[P any](e *Engine[P]) Mover {
	return MoverFunc(func(id string, source, target Status) error {
		_, err := e.MoveCardFrom(id, source, target)
		return err
	})
}

// DragSession tracks one pointer gesture. Nothing reaches the engine before
// Drop; Enter and Leave only drive the advisory highlighted column.
type DragSession struct {
	mu          sync.Mutex
	cardID      string
	source      Status
	highlighted Status
	depth       int
}

// Start begins a gesture on a single card sitting in source.
func (d *DragSession) Start(cardID string, source Status) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cardID != "" {
		return ErrDragInProgress
	}
	d.cardID = cardID
	d.source = source
	return nil
}

// Enter records the pointer entering a column and highlights it. Calls
// nest: every Enter must be paired with one Leave, so feed it enter events
// and never the repeating over events.
func (d *DragSession) Enter(status Status) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cardID == "" {
		return
	}
	d.depth++
	d.highlighted = status
}

// Leave undoes one Enter; the highlight clears when the pointer has left
// every column it entered.
func (d *DragSession) Leave() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.depth > 0 {
		d.depth--
	}
	if d.depth == 0 {
		d.highlighted = ""
	}
}

// Drop ends the gesture on a column and moves the card there. The gesture
// is cleared whatever the outcome.
func (d *DragSession) Drop(target Status, m Mover) (string, error) {
	d.mu.Lock()
	cardID, source := d.cardID, d.source
	d.reset()
	d.mu.Unlock()

	if cardID == "" {
		return "", ErrNoDrag
	}
	return cardID, m.MoveCard(cardID, source, target)
}

// Cancel abandons the gesture without touching the engine.
func (d *DragSession) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reset()
}

func (d *DragSession) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cardID != ""
}

// CardID returns the dragged card, if any.
func (d *DragSession) CardID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cardID
}

// Highlighted returns the column currently under the pointer, if any.
func (d *DragSession) Highlighted() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.highlighted
}

func (d *DragSession) reset() {
	d.cardID = ""
	d.source = ""
	d.highlighted = ""
	d.depth = 0
}
