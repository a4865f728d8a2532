package graph

import (
	"sync"
)

// HotSwap is a thread-safe holder for the current snapshot. A refresh builds
// a complete new snapshot first and then swaps it in, so readers only ever
// observe whole snapshots.
type HotSwap struct {
	mu      sync.RWMutex
	current *Snapshot
}

func NewHotSwap(initial *Snapshot) *HotSwap {
	if initial == nil {
		initial = Empty()
	}
	return &HotSwap{current: initial}
}

// Swap replaces the current snapshot and returns the previous one.
func (h *HotSwap) Swap(next *Snapshot) *Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	prev := h.current
	h.current = next
	return prev
}

// Load returns the current snapshot.
func (h *HotSwap) Load() *Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}
