// H2FMI NAND flash media controller driver
//
// Copyright (c) The H2FMI Authors
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package h2fmi

import (
	"errors"
	"sync"
	"time"
)

// numDMAEvents is the total number of global DMA completion event slots
// (§3), shared across both buses' data and metadata channels.
const numDMAEvents = 28

// ErrDMABusy is returned by executeAsync when the channel's previous
// completion has not yet been collected via wait+cancel.
var ErrDMABusy = errors.New("h2fmi: dma channel busy")

// ErrDMATimeout is returned by wait when the deadline elapses before the
// channel signals completion.
var ErrDMATimeout = errors.New("h2fmi: dma wait timeout")

// dmaEvent is a per-channel completion rendezvous. Unlike the original
// firmware, which enqueues one heap-allocated waiter node per caller and
// frees every node from the IRQ handler (a latent use-after-free race
// flagged in spec.md §9), waiters here never allocate in the completion
// path: done is allocated once, by reset, and the completion callback only
// ever closes it. Any number of concurrent waiters can safely select on the
// same channel.
type dmaEvent struct {
	mu        sync.Mutex
	signalled bool
	done      chan struct{}
}

func newDMAEvent() *dmaEvent {
	e := &dmaEvent{}
	e.reset()
	return e
}

// reset clears the event to its "ready to execute" state: not signalled,
// with a fresh completion channel for the next wait.
func (e *dmaEvent) reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.signalled = false
	e.done = make(chan struct{})
}

// signal marks the event complete and wakes every current waiter. Safe to
// call from a DMA completion callback: it performs no allocation.
func (e *dmaEvent) signal() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.signalled {
		e.signalled = true
		close(e.done)
	}
}

func (e *dmaEvent) busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.signalled
}

// wait blocks until the event signals or timeout elapses (timeout<=0 means
// wait forever), mirroring h2fmi_dma_wait.
func (e *dmaEvent) wait(timeout time.Duration) error {
	e.mu.Lock()
	if e.signalled {
		e.mu.Unlock()
		return nil
	}
	done := e.done
	e.mu.Unlock()

	if timeout <= 0 {
		<-done
		return nil
	}

	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-done:
		return nil
	case <-t.C:
		return ErrDMATimeout
	}
}

// eventRegistry owns the 28 global DMA event slots. Engines are passed in
// per call; the registry does not keep them.
type eventRegistry struct {
	mu     sync.Mutex
	events [numDMAEvents]*dmaEvent
}

func newEventRegistry() *eventRegistry {
	r := &eventRegistry{}
	for i := range r.events {
		r.events[i] = newDMAEvent()
	}
	return r
}

// executeAsync implements h2fmi_dma_execute_async: start an async transfer
// on channel via engine, arranging for the channel's event to signal on
// completion. Fails with ErrDMABusy if the channel's previous completion has
// not yet been collected.
func (r *eventRegistry) executeAsync(channel int, engine DMAEngine, xfer DMATransfer) error {
	ev := r.events[channel]

	if ev.busy() {
		return ErrDMABusy
	}

	return engine.Start(xfer, func(error) { ev.signal() })
}

// wait implements h2fmi_dma_wait.
func (r *eventRegistry) wait(channel int, timeout time.Duration) error {
	return r.events[channel].wait(timeout)
}

// cancel implements h2fmi_dma_cancel: cancel at the engine layer and
// reinitialize the event to its ready state.
func (r *eventRegistry) cancel(channel int, engine DMAEngine) {
	if engine != nil {
		engine.Cancel()
	}
	r.events[channel].reset()
}
