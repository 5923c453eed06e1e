package bot

import (
	"log"
	"sync"
)

type channelFinder interface {
	FindTextChannelByName(name string) (string, error)
}

// todoChannel resolves the designated task channel. A configured id wins;
// otherwise the guild is searched once for a text channel named "todo" and
// the result memoized.
type todoChannel struct {
	configured string
	finder     channelFinder

	mu     sync.Mutex
	cached string
}

func newTodoChannel(configured string, finder channelFinder) *todoChannel {
	return &todoChannel{configured: configured, finder: finder}
}

// ID returns the task channel id, or "" when none can be resolved.
func (c *todoChannel) ID() (string, error) {
	if c.configured != "" {
		return c.configured, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cached != "" {
		return c.cached, nil
	}
	id, err := c.finder.FindTextChannelByName("todo")
	if err != nil {
		return "", err
	}
	if id == "" {
		log.Printf("[task][warn] todo channel not found; set discord.todo_channel_id")
		return "", nil
	}
	log.Printf("[task] todo_channel_id not set, using #todo by name: %s", id)
	c.cached = id
	return id, nil
}
