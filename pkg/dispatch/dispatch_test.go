package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncRunsInline(t *testing.T) {
	ran := false
	assert.True(t, Sync{}.Dispatch(func() { ran = true }))
	assert.True(t, ran)
	assert.False(t, Sync{}.Dispatch(nil))
}

func TestFuncAdapter(t *testing.T) {
	var got []string
	d := Func(func(fn func()) {
		got = append(got, "hop")
		fn()
	})
	d.Dispatch(func() { got = append(got, "run") })
	assert.Equal(t, []string{"hop", "run"}, got)
}

func TestLoopDrainPreservesOrderAndNestedWork(t *testing.T) {
	l := NewLoop()
	var order []int
	l.Dispatch(func() {
		order = append(order, 1)
		l.Dispatch(func() { order = append(order, 3) })
	})
	l.Dispatch(func() { order = append(order, 2) })

	assert.Equal(t, 2, l.Pending())
	assert.Equal(t, 3, l.Drain())
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestLoopRunProcessesCrossGoroutineWork(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = l.Run(ctx)
		close(done)
	}()

	var wg sync.WaitGroup
	results := make(chan int, 10)
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Dispatch(func() { results <- i })
		}()
	}
	wg.Wait()

	seen := 0
	timeout := time.After(2 * time.Second)
	for seen < 10 {
		select {
		case <-results:
			seen++
		case <-timeout:
			t.Fatalf("only %d callbacks ran", seen)
		}
	}

	cancel()
	<-done
	require.False(t, l.Dispatch(func() {}), "closed loop must reject work")
}
