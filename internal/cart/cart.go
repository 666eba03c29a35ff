// Package cart is the session-scoped order aggregator. Each session owns at
// most one in-flight order slot; an absent slot means no order is being
// built, a present slot means items are accumulating until checkout.
package cart

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"catcloud/internal/cat"
)

var ErrEmptyCart = errors.New("no items in the in-flight order")

type slot struct {
	mu    sync.Mutex
	items []cat.Cat
}

// Store holds the in-flight order of every active session. Mutations of one
// session's slot serialize behind a per-slot mutex, so parallel requests from
// the same session (two browser tabs) never lose an append.
type Store struct {
	mu    sync.Mutex
	slots map[string]*slot
}

func NewStore() *Store {
	return &Store{slots: make(map[string]*slot)}
}

func (s *Store) slotFor(sessionID string, create bool) *slot {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.slots[sessionID]
	if !ok && create {
		sl = &slot{}
		s.slots[sessionID] = sl
	}

	return sl
}

// Add appends c to the session's in-flight order, creating the slot if the
// session had none. There is no cap on item count.
func (s *Store) Add(sessionID string, c cat.Cat) {
	sl := s.slotFor(sessionID, true)

	sl.mu.Lock()
	sl.items = append(sl.items, c)
	count := len(sl.items)
	sl.mu.Unlock()

	log.Debug().Str("session_id", sessionID).Str("cat", c.Name).Int("items", count).Msg("cart: design added")
}

// Items returns a snapshot of the session's accumulated items, in the order
// they were added. An empty slice means the slot is empty or absent.
func (s *Store) Items(sessionID string) []cat.Cat {
	sl := s.slotFor(sessionID, false)
	if sl == nil {
		return []cat.Cat{}
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	items := make([]cat.Cat, len(sl.items))
	copy(items, sl.items)

	return items
}

// Clear discards the session's in-flight order.
func (s *Store) Clear(sessionID string) {
	sl := s.slotFor(sessionID, false)
	if sl == nil {
		return
	}

	sl.mu.Lock()
	sl.items = nil
	sl.mu.Unlock()
}

// Checkout hands the accumulated items to commit while holding the slot lock,
// so no concurrent Add can slip between the snapshot and the clear. An empty
// or absent slot returns ErrEmptyCart. If commit fails the slot is left
// untouched and the same session can retry without re-entering items; on
// success the slot is cleared.
func (s *Store) Checkout(sessionID string, commit func(items []cat.Cat) error) error {
	sl := s.slotFor(sessionID, false)
	if sl == nil {
		return ErrEmptyCart
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	if len(sl.items) == 0 {
		return ErrEmptyCart
	}

	items := make([]cat.Cat, len(sl.items))
	copy(items, sl.items)

	if err := commit(items); err != nil {
		return err
	}

	// The slot object stays in the map: an Add blocked on the slot lock must
	// land in the same slot, not an orphaned copy.
	sl.items = nil

	return nil
}
