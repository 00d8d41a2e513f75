// SPDX-License-Identifier: Unlicense OR MIT

package dispatch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExecutorDrainsPostedWorkInOrder(t *testing.T) {
	e, err := NewExecutor()
	require.NoError(t, err)
	defer e.Close()

	var order []int
	e.Post(func() { order = append(order, 1) })
	e.Post(func() { order = append(order, 2) })

	require.NoError(t, e.Wait())
	e.Drain()

	require.Equal(t, []int{1, 2}, order)
}

func TestExecutorClosedDropsFurtherPosts(t *testing.T) {
	e, err := NewExecutor()
	require.NoError(t, err)

	ran := false
	require.NoError(t, e.Close())
	e.Post(func() { ran = true })
	e.Drain()
	require.False(t, ran)
}
