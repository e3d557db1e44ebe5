package idgen

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextPrefixesKind(t *testing.T) {
	g := MustNew(1)

	id := g.Next("ticket")
	assert.True(t, strings.HasPrefix(id, "ticket-"))
	assert.Greater(t, len(id), len("ticket-"))
}

func TestNextIsUniqueUnderConcurrency(t *testing.T) {
	g := MustNew(3)

	const workers, perWorker = 8, 500
	ids := make(chan string, workers*perWorker)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				ids <- g.Next("worklog")
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, workers*perWorker)
	for id := range ids {
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, workers*perWorker)
}

func TestNewRejectsOutOfRangeNode(t *testing.T) {
	_, err := New(5000)
	assert.Error(t, err)
}
