package main

import "container/heap"

// scheduledEvent is a deferred continuation owned by one epoch of the match
type scheduledEvent struct {
	at    float64
	seq   uint64
	epoch uint64
	fn    func()
}

type eventHeap []*scheduledEvent

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x any)   { *h = append(*h, x.(*scheduledEvent)) }
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return ev
}

// Scheduler runs continuations at a match-clock time. Each event carries the
// epoch it was scheduled in and is dropped if the epoch has moved on.
type Scheduler struct {
	events eventHeap
	seq    uint64
}

// Schedule queues fn to run once the clock reaches at
func (s *Scheduler) Schedule(at float64, epoch uint64, fn func()) {
	s.seq++
	heap.Push(&s.events, &scheduledEvent{at: at, seq: s.seq, epoch: epoch, fn: fn})
}

// RunDue fires every event due at now, in (time, insertion) order. Events
// scheduled by a running continuation fire in the same call if already due.
// Returns the number of continuations that ran.
func (s *Scheduler) RunDue(now float64, epoch func() uint64) int {
	ran := 0
	for len(s.events) > 0 && s.events[0].at <= now {
		ev := heap.Pop(&s.events).(*scheduledEvent)
		if ev.epoch != epoch() {
			continue
		}
		ev.fn()
		ran++
	}
	return ran
}

// Pending returns the number of queued events, stale ones included
func (s *Scheduler) Pending() int { return len(s.events) }

// Clear drops every queued event
func (s *Scheduler) Clear() {
	s.events = nil
}
