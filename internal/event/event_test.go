package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueEmitAndDrain(t *testing.T) {
	q := NewQueue()
	q.Emit(Sell, "item-1")
	q.Emit(Coin, "")

	assert.Equal(t, 2, q.Len())
	assert.Equal(t, []Event{{Name: Sell, Detail: "item-1"}, {Name: Coin}}, q.Drain())
	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.Drain())
}

func TestNilQueueDropsEvents(t *testing.T) {
	var q *Queue

	assert.NotPanics(t, func() { q.Emit(Error, "ignored") })
	assert.Nil(t, q.Drain())
	assert.Equal(t, 0, q.Len())
}

func TestQueueConcurrentEmit(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup
	wg.Add(50)
	for i := 0; i < 50; i++ {
		go func() {
			defer wg.Done()
			q.Emit(Click, "")
		}()
	}
	wg.Wait()

	assert.Len(t, q.Drain(), 50)
}
