package cart_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catcloud/internal/cart"
	"catcloud/internal/cat"
)

func design(name string) cat.Cat {
	return cat.Cat{Name: name}
}

func TestStore_AddAccumulatesInOrder(t *testing.T) {
	store := cart.NewStore()

	store.Add("s1", design("Garfield"))
	store.Add("s1", design("Sylvester"))
	store.Add("s2", design("Tom"))

	items := store.Items("s1")
	require.Len(t, items, 2)
	assert.Equal(t, "Garfield", items[0].Name)
	assert.Equal(t, "Sylvester", items[1].Name)

	assert.Len(t, store.Items("s2"), 1)
	assert.Empty(t, store.Items("unknown"))
}

func TestStore_ItemsReturnsSnapshot(t *testing.T) {
	store := cart.NewStore()
	store.Add("s1", design("Garfield"))

	items := store.Items("s1")
	items[0].Name = "mutated"

	assert.Equal(t, "Garfield", store.Items("s1")[0].Name)
}

func TestStore_ConcurrentAddsAreNotLost(t *testing.T) {
	store := cart.NewStore()

	const goroutines = 32
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			store.Add("s1", design(fmt.Sprintf("cat-%d", i)))
		}(i)
	}
	wg.Wait()

	assert.Len(t, store.Items("s1"), goroutines)
}

func TestStore_CheckoutEmpty(t *testing.T) {
	store := cart.NewStore()

	err := store.Checkout("s1", func([]cat.Cat) error {
		t.Fatal("commit must not run for an empty slot")
		return nil
	})
	assert.ErrorIs(t, err, cart.ErrEmptyCart)

	store.Add("s1", design("Garfield"))
	store.Clear("s1")
	err = store.Checkout("s1", func([]cat.Cat) error { return nil })
	assert.ErrorIs(t, err, cart.ErrEmptyCart)
}

func TestStore_CheckoutFailureKeepsItems(t *testing.T) {
	store := cart.NewStore()
	store.Add("s1", design("Garfield"))
	store.Add("s1", design("Sylvester"))

	commitErr := errors.New("storage unavailable")
	err := store.Checkout("s1", func([]cat.Cat) error { return commitErr })
	require.ErrorIs(t, err, commitErr)

	// Retry without re-entering anything.
	assert.Len(t, store.Items("s1"), 2)

	err = store.Checkout("s1", func(items []cat.Cat) error {
		assert.Len(t, items, 2)
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, store.Items("s1"))
}

func TestStore_CheckoutClearsOnlyThatSession(t *testing.T) {
	store := cart.NewStore()
	store.Add("s1", design("Garfield"))
	store.Add("s2", design("Tom"))

	require.NoError(t, store.Checkout("s1", func([]cat.Cat) error { return nil }))

	assert.Empty(t, store.Items("s1"))
	assert.Len(t, store.Items("s2"), 1)
}

func TestStore_AddDuringCheckoutIsNotLost(t *testing.T) {
	store := cart.NewStore()
	store.Add("s1", design("Garfield"))

	inCommit := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		_ = store.Checkout("s1", func([]cat.Cat) error {
			close(inCommit)
			return nil
		})
	}()

	<-inCommit
	// This append races with the checkout; it must either land before the
	// snapshot or survive into the next in-flight order, never vanish.
	store.Add("s1", design("Sylvester"))
	<-done

	items := store.Items("s1")
	require.Len(t, items, 1)
	assert.Equal(t, "Sylvester", items[0].Name)
}
