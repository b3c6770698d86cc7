package client

import (
	"context"
	"sync"
)

// CountStore holds the cart item count shown in the header badge. A single
// instance is shared across pages; Refresh is the only entry point that
// changes it, and subscribers are notified on every refresh.
type CountStore struct {
	mu     sync.Mutex
	client *Client
	count  int
	subs   []func(int)
}

func NewCountStore(c *Client) *CountStore {
	return &CountStore{client: c}
}

// Count returns the last refreshed value.
func (s *CountStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Subscribe registers fn to be called with the new count after every
// refresh.
func (s *CountStore) Subscribe(fn func(int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Refresh re-fetches the count. Without a token no request is made and the
// count resets to zero; a failed fetch also resets to zero rather than
// erroring.
func (s *CountStore) Refresh(ctx context.Context) {
	if !s.client.HasToken() {
		s.set(0)
		return
	}
	count, err := s.client.CartCount(ctx)
	if err != nil {
		s.set(0)
		return
	}
	s.set(count)
}

func (s *CountStore) set(count int) {
	s.mu.Lock()
	s.count = count
	subs := make([]func(int), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(count)
	}
}
