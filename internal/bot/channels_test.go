package bot

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFinder struct {
	id    string
	err   error
	calls int
}

func (f *stubFinder) FindTextChannelByName(string) (string, error) {
	f.calls++
	return f.id, f.err
}

func TestTodoChannel(t *testing.T) {
	t.Run("configured id wins without a lookup", func(t *testing.T) {
		finder := &stubFinder{id: "by-name"}
		c := newTodoChannel("configured", finder)

		id, err := c.ID()
		require.NoError(t, err)
		assert.Equal(t, "configured", id)
		assert.Equal(t, 0, finder.calls)
	})

	t.Run("falls back to #todo by name and memoizes", func(t *testing.T) {
		finder := &stubFinder{id: "c-todo"}
		c := newTodoChannel("", finder)

		id, err := c.ID()
		require.NoError(t, err)
		assert.Equal(t, "c-todo", id)

		id, err = c.ID()
		require.NoError(t, err)
		assert.Equal(t, "c-todo", id)
		assert.Equal(t, 1, finder.calls, "resolution happens once")
	})

	t.Run("not found is reported as empty, retried next time", func(t *testing.T) {
		finder := &stubFinder{}
		c := newTodoChannel("", finder)

		id, err := c.ID()
		require.NoError(t, err)
		assert.Empty(t, id)

		finder.id = "c-todo"
		id, err = c.ID()
		require.NoError(t, err)
		assert.Equal(t, "c-todo", id)
	})

	t.Run("lookup errors propagate", func(t *testing.T) {
		finder := &stubFinder{err: errors.New("gateway down")}
		c := newTodoChannel("", finder)
		_, err := c.ID()
		assert.Error(t, err)
	})
}
