package session

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// Clock общие часы задач планировщика. Задачи приостанавливаются
// только через Sleep, поэтому подмена часов виртуальными делает
// таймлайн сессии детерминированным в тестах
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

// WallClock реальные часы процесса
type WallClock struct{}

// Now возвращает текущее время
func (WallClock) Now() time.Time {
	return time.Now()
}

// Sleep ждёт d или отмены контекста
func (WallClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type waiter struct {
	when time.Time
	seq  uint64
	ch   chan struct{}
}

type waiterHeap []*waiter

func (h waiterHeap) Len() int { return len(h) }

func (h waiterHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}

func (h waiterHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *waiterHeap) Push(x any) { *h = append(*h, x.(*waiter)) }

func (h *waiterHeap) Pop() any {
	old := *h
	n := len(old)
	w := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return w
}

// VirtualClock часы с ручным продвижением. Sleep ставит задачу в
// очередь пробуждений, Advance продвигает время и будит всех, чей
// срок наступил, в порядке сроков. Отменённые ожидания остаются в
// очереди до своего срока, это безвредно
type VirtualClock struct {
	mu      sync.Mutex
	now     time.Time
	nextSeq uint64
	waiters waiterHeap
}

// NewVirtualClock создаёт часы, стоящие на start
func NewVirtualClock(start time.Time) *VirtualClock {
	return &VirtualClock{now: start}
}

// Now возвращает текущее виртуальное время
func (c *VirtualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleep блокируется до продвижения часов на d или отмены контекста
func (c *VirtualClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	c.mu.Lock()
	w := &waiter{
		when: c.now.Add(d),
		seq:  c.nextSeq,
		ch:   make(chan struct{}),
	}
	c.nextSeq++
	heap.Push(&c.waiters, w)
	c.mu.Unlock()

	select {
	case <-w.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Advance продвигает часы на d, пробуждая ожидающих по порядку сроков
func (c *VirtualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for len(c.waiters) > 0 && !c.waiters[0].when.After(target) {
		w := heap.Pop(&c.waiters).(*waiter)
		c.now = w.when
		close(w.ch)
	}
	c.now = target
	c.mu.Unlock()
}

// Waiters возвращает число задач в очереди пробуждений
func (c *VirtualClock) Waiters() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

// BlockUntilWaiters ждёт, пока в очереди не окажется хотя бы n задач.
// Возвращает false по истечении timeout реального времени
func (c *VirtualClock) BlockUntilWaiters(n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if c.Waiters() >= n {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
}
