package shortcuts

import (
	"context"
	"errors"
	"fmt"

	"github.com/Noyllopa/LiquidNewtab/internal/domain"
)

// ErrDragInProgress is returned by BeginDrag while another session is open.
var ErrDragInProgress = errors.New("a drag is already in progress")

// DragSession tracks one pointer-drag over the grid. Entering a target
// swaps the dragged tile with it in the displayed order; the stored order
// only changes when the session ends.
type DragSession struct {
	owner    *Collection
	order    []int // display position -> stored index
	dragged  int   // stored index of the dragged tile
	lastFrom int
	lastTo   int
}

// BeginDrag opens a session for the tile at index. At most one session is
// active per collection.
func (c *Collection) BeginDrag(ctx context.Context, index int) (*DragSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.drag != nil {
		return nil, ErrDragInProgress
	}
	list, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkIndex(index, len(list)); err != nil {
		return nil, err
	}

	order := make([]int, len(list))
	for i := range order {
		order[i] = i
	}
	c.drag = &DragSession{owner: c, order: order, dragged: index, lastFrom: -1, lastTo: -1}
	return c.drag, nil
}

// Enter reports the swap to display when the pointer enters the tile at
// display position target. It returns false when the target is the
// dragged tile itself or the same swap was just applied.
func (d *DragSession) Enter(target int) (from, to int, swapped bool) {
	if target < 0 || target >= len(d.order) {
		return 0, 0, false
	}
	from = d.position()
	if from == target {
		return from, target, false
	}
	if from == d.lastFrom && target == d.lastTo {
		return from, target, false
	}

	d.order[from], d.order[target] = d.order[target], d.order[from]
	d.lastFrom, d.lastTo = from, target
	return from, target, true
}

// Order is the current display order as stored indices.
func (d *DragSession) Order() []int {
	return append([]int(nil), d.order...)
}

// End persists the displayed order and closes the session.
func (d *DragSession) End(ctx context.Context) ([]domain.Shortcut, error) {
	c := d.owner
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.drag != d {
		return nil, fmt.Errorf("%w: drag session already closed", domain.ErrValidation)
	}
	c.drag = nil
	return c.reorderLocked(ctx, d.order)
}

// Cancel closes the session without touching the stored order.
func (d *DragSession) Cancel() {
	c := d.owner
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.drag == d {
		c.drag = nil
	}
}

func (d *DragSession) position() int {
	for pos, idx := range d.order {
		if idx == d.dragged {
			return pos
		}
	}
	return -1
}
