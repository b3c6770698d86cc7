package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDropsUnresolvableItems(t *testing.T) {
	api := newFakeAPI(t)
	api.addProduct(1, 100)
	// product 2 was deleted; its cart item is stale
	api.setCartItems(
		CartItem{ProductID: 1, Quantity: 2},
		CartItem{ProductID: 2, Quantity: 5},
	)

	counts := NewCountStore(api.client())
	session := NewCartSession(api.client(), counts)
	require.NoError(t, session.Load(context.Background()))

	items := session.Items()
	require.Len(t, items, 1)
	assert.True(t, hasItem(items, 1))
	assert.False(t, hasItem(items, 2))

	// excluded from the total as well: 100*2, not 100*2 + anything for 2
	assert.Equal(t, 200.0, session.Total().InexactFloat64())

	// surfaced, not hidden
	unavailable := session.Unavailable()
	require.Len(t, unavailable, 1)
	assert.Equal(t, uint(2), unavailable[0].ProductID)
}

func TestLoadPushesComputedTotal(t *testing.T) {
	api := newFakeAPI(t)
	api.addProduct(1, 100)
	api.addProduct(2, 50)
	api.setCartItems(
		CartItem{ProductID: 1, Quantity: 2},
		CartItem{ProductID: 2, Quantity: 3},
	)

	session := NewCartSession(api.client(), NewCountStore(api.client()))
	require.NoError(t, session.Load(context.Background()))

	assert.Equal(t, 350.0, session.Total().InexactFloat64())
	assert.Equal(t, 1, api.callCount("updatetotalprice"))
	api.mu.Lock()
	assert.Equal(t, 350.0, api.cart.TotalPrice)
	api.mu.Unlock()
}

func TestDecrementBelowOneIsLocalNoop(t *testing.T) {
	api := newFakeAPI(t)
	api.addProduct(1, 100)
	api.setCartItems(CartItem{ProductID: 1, Quantity: 1})

	session := NewCartSession(api.client(), NewCountStore(api.client()))
	require.NoError(t, session.Load(context.Background()))

	before := api.callCount("updatecartitem")
	result := session.ChangeQuantity(context.Background(), 1, -1)

	assert.True(t, result.NoOp)
	assert.False(t, result.Applied)
	assert.NoError(t, result.Err)
	assert.Equal(t, before, api.callCount("updatecartitem"), "no request should be issued")
	assert.Equal(t, 1, session.Items()[0].Quantity, "displayed quantity unchanged")
}

func TestChangeQuantityAppliesServerState(t *testing.T) {
	api := newFakeAPI(t)
	api.addProduct(1, 100)
	api.setCartItems(CartItem{ProductID: 1, Quantity: 1})

	counts := NewCountStore(api.client())
	session := NewCartSession(api.client(), counts)
	require.NoError(t, session.Load(context.Background()))

	result := session.ChangeQuantity(context.Background(), 1, 2)
	require.NoError(t, result.Err)
	assert.True(t, result.Applied)
	assert.Equal(t, 3, session.Items()[0].Quantity)
	assert.Equal(t, 300.0, session.Total().InexactFloat64())
	// count store kept in sync with the mutation
	assert.Equal(t, 3, counts.Count())
}

func TestMutationFailureLeavesStateUntouched(t *testing.T) {
	api := newFakeAPI(t)
	api.addProduct(1, 100)
	api.setCartItems(CartItem{ProductID: 1, Quantity: 2})

	session := NewCartSession(api.client(), NewCountStore(api.client()))
	require.NoError(t, session.Load(context.Background()))

	// break the endpoint by closing the server-held items through a bogus
	// client pointing at a dead address
	dead := &CartSession{client: New("http://127.0.0.1:1", "test-token"), counts: NewCountStore(api.client())}
	dead.user = session.user
	dead.cart = session.cart
	dead.items = session.Items()

	result := dead.Remove(context.Background(), 1)
	assert.Error(t, result.Err)
	assert.False(t, result.Applied)
	assert.Equal(t, 2, dead.Items()[0].Quantity, "prior state kept on failure")
}

func TestRemoveItem(t *testing.T) {
	api := newFakeAPI(t)
	api.addProduct(1, 100)
	api.addProduct(2, 50)
	api.setCartItems(
		CartItem{ProductID: 1, Quantity: 1},
		CartItem{ProductID: 2, Quantity: 1},
	)

	session := NewCartSession(api.client(), NewCountStore(api.client()))
	require.NoError(t, session.Load(context.Background()))

	result := session.Remove(context.Background(), 1)
	require.NoError(t, result.Err)
	assert.True(t, result.Applied)

	items := session.Items()
	require.Len(t, items, 1)
	assert.Equal(t, uint(2), items[0].Product.ProductID)
	assert.Equal(t, 50.0, session.Total().InexactFloat64())
}

func TestClearCart(t *testing.T) {
	api := newFakeAPI(t)
	api.addProduct(1, 100)
	api.setCartItems(CartItem{ProductID: 1, Quantity: 4})

	counts := NewCountStore(api.client())
	session := NewCartSession(api.client(), counts)
	require.NoError(t, session.Load(context.Background()))

	result := session.Clear(context.Background())
	require.NoError(t, result.Err)
	assert.True(t, result.Applied)
	assert.Empty(t, session.Items())
	assert.Equal(t, 0.0, session.Total().InexactFloat64())
	assert.Equal(t, 0, counts.Count())
}

func TestLoadUnauthorized(t *testing.T) {
	api := newFakeAPI(t)
	session := NewCartSession(New(api.server.URL, ""), NewCountStore(api.client()))

	err := session.Load(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestProductFetchDeduplicated(t *testing.T) {
	api := newFakeAPI(t)
	api.addProduct(1, 10)
	// same product referenced twice (server normally prevents this, but the
	// join must not double-fetch)
	api.setCartItems(
		CartItem{ProductID: 1, Quantity: 1},
		CartItem{ProductID: 1, Quantity: 2},
	)

	session := NewCartSession(api.client(), NewCountStore(api.client()))
	require.NoError(t, session.Load(context.Background()))
	assert.LessOrEqual(t, api.callCount("product"), 2)
}
