package shortcuts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDragSession(t *testing.T) {
	ctx := context.Background()
	c, _ := newCollection(t)

	d, err := c.BeginDrag(ctx, 0) // Google
	require.NoError(t, err)

	_, err = c.BeginDrag(ctx, 1)
	assert.ErrorIs(t, err, ErrDragInProgress)

	from, to, swapped := d.Enter(0)
	assert.False(t, swapped, "entering own tile")
	assert.Equal(t, from, to)

	_, _, swapped = d.Enter(1)
	assert.True(t, swapped)
	assert.Equal(t, []int{1, 0, 2, 3}, d.Order())

	// dragged tile now sits at 1; entering 2 swaps again
	from, to, swapped = d.Enter(2)
	assert.True(t, swapped)
	assert.Equal(t, 1, from)
	assert.Equal(t, 2, to)
	assert.Equal(t, []int{1, 2, 0, 3}, d.Order())

	_, _, swapped = d.Enter(9)
	assert.False(t, swapped)

	list, err := d.End(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bilibili", "GitHub", "Google", "Unsplash"}, names(list))

	_, err = d.End(ctx)
	assert.Error(t, err)

	d2, err := c.BeginDrag(ctx, 3)
	require.NoError(t, err)
	d2.Enter(0)
	d2.Cancel()

	stored, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bilibili", "GitHub", "Google", "Unsplash"}, names(stored))
}

func TestDragSwapBack(t *testing.T) {
	ctx := context.Background()
	c, _ := newCollection(t)

	d, err := c.BeginDrag(ctx, 0)
	require.NoError(t, err)
	defer d.Cancel()

	_, _, swapped := d.Enter(1)
	require.True(t, swapped)

	// The tile moved under the pointer: from is now 1. Entering 0 swaps back.
	_, _, swapped = d.Enter(0)
	assert.True(t, swapped)
	assert.Equal(t, []int{0, 1, 2, 3}, d.Order())

	_, _, swapped = d.Enter(0)
	assert.False(t, swapped, "pointer still over the dragged tile")
}
