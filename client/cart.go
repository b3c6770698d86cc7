package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ResolvedItem is a cart item joined with its product details.
type ResolvedItem struct {
	Product  Product
	Quantity int
}

// MutationResult is the outcome of a cart mutation: either the new server
// state was adopted, or the previous state was left untouched.
type MutationResult struct {
	Applied bool
	NoOp    bool
	Cart    *CartAggregate
	Err     error
}

var errNoCart = errors.New("cart not loaded")

// CartSession mirrors the cart page: it loads user, cart, and product
// details, keeps a pruned local view, and issues mutations against the
// remote cart. Mutations are serialized to avoid lost updates from rapid
// quantity clicks.
type CartSession struct {
	client *Client
	counts *CountStore

	flight singleflight.Group

	// mutMu serializes mutations so rapid quantity clicks cannot interleave
	// their read-modify-write cycles.
	mutMu sync.Mutex

	mu          sync.Mutex
	user        *User
	cart        *CartAggregate
	items       []ResolvedItem
	unavailable []CartItem
}

func NewCartSession(c *Client, counts *CountStore) *CartSession {
	return &CartSession{client: c, counts: counts}
}

// Load fetches the current user, their cart aggregate, and the product
// details for every item. A 401 on the user fetch propagates as
// ErrUnauthorized (forced logout); product lookups that fail only drop the
// item from the resolved view. The recomputed total is pushed to the
// backend and the server's reply is adopted.
func (s *CartSession) Load(ctx context.Context) error {
	user, err := s.client.Me(ctx)
	if err != nil {
		return err
	}

	cart, err := s.client.GetCart(ctx, user.UserID)
	if err != nil {
		return err
	}

	items, unavailable := s.resolveItems(ctx, cart.Items)

	s.mu.Lock()
	s.user = user
	s.cart = cart
	s.items = items
	s.unavailable = unavailable
	s.mu.Unlock()

	s.pushTotal(ctx)
	return nil
}

// resolveItems fans out one product fetch per item and joins the results.
// Each fetch is wrapped so an individual failure yields an unavailable item
// instead of failing the join; concurrent fetches for the same product are
// collapsed into one request.
func (s *CartSession) resolveItems(ctx context.Context, items []CartItem) ([]ResolvedItem, []CartItem) {
	type slot struct {
		item    CartItem
		product *Product
	}
	slots := make([]slot, len(items))

	var g errgroup.Group
	for i, item := range items {
		slots[i].item = item
		g.Go(func() error {
			key := fmt.Sprintf("product:%d", item.ProductID)
			v, err, _ := s.flight.Do(key, func() (interface{}, error) {
				return s.client.GetProduct(ctx, item.ProductID)
			})
			if err != nil {
				return nil // sentinel: leave product nil, drop from view
			}
			slots[i].product = v.(*Product)
			return nil
		})
	}
	_ = g.Wait()

	var resolved []ResolvedItem
	var unavailable []CartItem
	for _, sl := range slots {
		if sl.product == nil {
			unavailable = append(unavailable, sl.item)
			continue
		}
		resolved = append(resolved, ResolvedItem{Product: *sl.product, Quantity: sl.item.Quantity})
	}
	return resolved, unavailable
}

// Items returns the resolved (pruned) item list.
func (s *CartSession) Items() []ResolvedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ResolvedItem, len(s.items))
	copy(out, s.items)
	return out
}

// Unavailable returns items whose product could not be resolved. They are
// excluded from Items and the total but are not removed from the remote
// cart.
func (s *CartSession) Unavailable() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CartItem, len(s.unavailable))
	copy(out, s.unavailable)
	return out
}

// Total computes the cart total over resolved items only.
func (s *CartSession) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalOf(s.items)
}

func totalOf(items []ResolvedItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Product.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total
}

// pushTotal sends the locally computed total to the backend and adopts the
// returned aggregate. Best effort: a failed push keeps the local total.
func (s *CartSession) pushTotal(ctx context.Context) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return
	}
	userID := s.user.UserID
	total := totalOf(s.items)
	s.mu.Unlock()

	cart, err := s.client.UpdateTotalPrice(ctx, userID, total.InexactFloat64())
	if err != nil {
		log.Printf("cart: failed to push total: %v", err)
		return
	}

	s.mu.Lock()
	s.cart = cart
	s.mu.Unlock()
}

// quantityOf returns the resolved quantity for a product, or 0.
func (s *CartSession) quantityOf(productID uint) int {
	for _, item := range s.items {
		if item.Product.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

// ChangeQuantity adjusts an item's quantity by delta. Dropping below 1 is a
// local no-op: no request is issued and the displayed quantity keeps its
// value. On success the server aggregate replaces local state and the count
// store is refreshed; on failure prior state is untouched.
func (s *CartSession) ChangeQuantity(ctx context.Context, productID uint, delta int) MutationResult {
	s.mutMu.Lock()
	defer s.mutMu.Unlock()

	s.mu.Lock()
	if s.user == nil || s.cart == nil {
		s.mu.Unlock()
		return MutationResult{Err: errNoCart}
	}
	current := s.quantityOf(productID)
	newQty := current + delta
	if newQty < 1 {
		s.mu.Unlock()
		return MutationResult{NoOp: true}
	}
	userID := s.user.UserID
	s.mu.Unlock()

	cart, err := s.client.UpdateCartItem(ctx, userID, productID, newQty)
	if err != nil {
		return MutationResult{Err: err}
	}
	s.adoptAggregate(cart)
	s.counts.Refresh(ctx)
	s.pushTotal(ctx)
	return MutationResult{Applied: true, Cart: cart}
}

// Remove deletes an item from the remote cart.
func (s *CartSession) Remove(ctx context.Context, productID uint) MutationResult {
	s.mutMu.Lock()
	defer s.mutMu.Unlock()

	s.mu.Lock()
	if s.user == nil || s.cart == nil {
		s.mu.Unlock()
		return MutationResult{Err: errNoCart}
	}
	userID := s.user.UserID
	s.mu.Unlock()

	cart, err := s.client.RemoveFromCart(ctx, userID, productID)
	if err != nil {
		return MutationResult{Err: err}
	}
	s.adoptAggregate(cart)
	s.counts.Refresh(ctx)
	s.pushTotal(ctx)
	return MutationResult{Applied: true, Cart: cart}
}

// Clear empties the remote cart.
func (s *CartSession) Clear(ctx context.Context) MutationResult {
	s.mutMu.Lock()
	defer s.mutMu.Unlock()

	s.mu.Lock()
	if s.user == nil || s.cart == nil {
		s.mu.Unlock()
		return MutationResult{Err: errNoCart}
	}
	userID := s.user.UserID
	s.mu.Unlock()

	if err := s.client.ClearCart(ctx, userID); err != nil {
		return MutationResult{Err: err}
	}
	empty := &CartAggregate{UserID: userID}
	s.adoptAggregate(empty)
	s.counts.Refresh(ctx)
	return MutationResult{Applied: true, Cart: empty}
}

// adoptAggregate replaces local state with a server aggregate, re-deriving
// the resolved view from already-fetched products.
func (s *CartSession) adoptAggregate(cart *CartAggregate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := make(map[uint]Product, len(s.items))
	for _, item := range s.items {
		known[item.Product.ProductID] = item.Product
	}

	var resolved []ResolvedItem
	var unavailable []CartItem
	for _, item := range cart.Items {
		product, ok := known[item.ProductID]
		if !ok {
			unavailable = append(unavailable, item)
			continue
		}
		resolved = append(resolved, ResolvedItem{Product: product, Quantity: item.Quantity})
	}

	s.cart = cart
	s.items = resolved
	s.unavailable = unavailable
}
