package pqueue_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/reugn/go-schedule/internal/assert"
	"github.com/reugn/go-schedule/internal/pqueue"
)

type entry struct {
	key  int
	name string
}

func byKey(a, b entry) bool { return a.key < b.key }

func TestQueueEmpty(t *testing.T) {
	t.Parallel()
	q := pqueue.New(byKey)

	_, ok := q.Peek()
	assert.Equal(t, ok, false)
	_, ok = q.Pop()
	assert.Equal(t, ok, false)
	assert.Equal(t, q.Len(), 0)
}

func TestQueueOrdering(t *testing.T) {
	t.Parallel()
	q := pqueue.New(func(a, b int) bool { return a < b })

	values := rand.New(rand.NewSource(42)).Perm(200)
	for _, v := range values {
		q.Push(v)
	}
	assert.Equal(t, q.Len(), len(values))

	head, ok := q.Peek()
	assert.Equal(t, ok, true)
	assert.Equal(t, head, 0)
	assert.Equal(t, q.Len(), len(values))

	popped := make([]int, 0, len(values))
	for q.Len() > 0 {
		v, _ := q.Pop()
		popped = append(popped, v)
	}
	assert.True(t, sort.IntsAreSorted(popped), popped)
}

func TestQueueStableTies(t *testing.T) {
	t.Parallel()
	q := pqueue.New(byKey)

	q.Push(entry{2, "c"})
	q.Push(entry{1, "a"})
	q.Push(entry{2, "d"})
	q.Push(entry{1, "b"})
	q.Push(entry{0, "z"})

	var names []string
	for {
		e, ok := q.Pop()
		if !ok {
			break
		}
		names = append(names, e.name)
	}
	assert.Equal(t, names, []string{"z", "a", "b", "c", "d"})
}

func TestQueueInterleaved(t *testing.T) {
	t.Parallel()
	q := pqueue.New(byKey)

	q.Push(entry{5, "five"})
	q.Push(entry{3, "three"})
	e, _ := q.Pop()
	assert.Equal(t, e.name, "three")

	q.Push(entry{4, "four"})
	q.Push(entry{6, "six"})
	e, _ = q.Peek()
	assert.Equal(t, e.name, "four")
	assert.Equal(t, q.Len(), 3)
}
