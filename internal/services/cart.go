package service

import (
	"context"
	"sync"

	"github.com/medikart/pharmacy-storefront/internal/errors"
	"github.com/medikart/pharmacy-storefront/internal/models"
	"github.com/medikart/pharmacy-storefront/pkg/commerce"
)

// CartService keeps a local view of the cart strictly consistent with the
// remote commerce API, which stays the source of truth after every mutation.
// There is no optimistic merge: a successful add refetches the full cart and
// replaces local state with whatever the server reports.
//
// Mutations are serialized with a mutex held across the whole network round
// trip, so two overlapping mutations cannot race each other's
// refetch-and-replace inside one process.
type CartService struct {
	api commerce.API

	mu      sync.Mutex
	items   []models.CartItem
	loading bool
	lastErr error
}

func NewCartService(api commerce.API) *CartService {
	return &CartService{api: api}
}

// Load populates local state from the remote cart once, at startup. Failure
// leaves the cart empty with the error flag set rather than blocking.
func (s *CartService) Load(ctx context.Context) error {

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = true
	s.lastErr = nil

	items, err := s.api.FetchCart(ctx)

	s.loading = false

	if err != nil {
		s.items = nil
		s.lastErr = err

		return err
	}

	s.items = items

	return nil
}

// AddItem sends the add to the remote API, then unconditionally refetches the
// full cart and replaces local state with the parsed result. On failure local
// state stays at its last-known-good value; no automatic retry.
func (s *CartService) AddItem(ctx context.Context, productID int64, quantity int) (*models.Cart, error) {

	if quantity < 1 {
		return nil, errors.ValidationError("Quantity must be at least 1")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = true
	s.lastErr = nil

	if err := s.api.AddCartItem(ctx, productID, quantity); err != nil {
		return nil, s.fail(err)
	}

	items, err := s.api.FetchCart(ctx)
	if err != nil {
		return nil, s.fail(err)
	}

	s.items = items
	s.loading = false

	cart := s.snapshotLocked()

	return &cart, nil
}

// RemoveItem deletes the item remotely, then drops it from local state by id.
// No refetch: a successful delete is the only change the server made.
func (s *CartService) RemoveItem(ctx context.Context, cartItemID int64) (*models.Cart, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasItemLocked(cartItemID) {
		return nil, errors.NotFoundError("Cart item not found")
	}

	s.loading = true
	s.lastErr = nil

	if err := s.api.RemoveCartItem(ctx, cartItemID); err != nil {
		return nil, s.fail(err)
	}

	filtered := s.items[:0:0]

	for _, item := range s.items {
		if item.ID != cartItemID {
			filtered = append(filtered, item)
		}
	}

	s.items = filtered
	s.loading = false

	cart := s.snapshotLocked()

	return &cart, nil
}

// UpdateQuantity sets an item's quantity. Zero or negative delegates to
// removal. The remote API has no atomic set-quantity endpoint, so this is
// remove-then-add followed by a refetch; a failure between the two steps
// leaves the remote cart missing the item and surfaces as a partial update
// failure rather than a silent retry.
func (s *CartService) UpdateQuantity(ctx context.Context, cartItemID int64, quantity int) (*models.Cart, error) {

	if quantity <= 0 {
		return s.RemoveItem(ctx, cartItemID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.itemLocked(cartItemID)
	if !ok {
		return nil, errors.NotFoundError("Cart item not found")
	}

	productID := item.Product.ID

	s.loading = true
	s.lastErr = nil

	if err := s.api.RemoveCartItem(ctx, cartItemID); err != nil {
		return nil, s.fail(err)
	}

	if err := s.api.AddCartItem(ctx, productID, quantity); err != nil {
		return nil, s.fail(errors.PartialUpdateError("Item was removed but re-adding it failed").WithError(err))
	}

	items, err := s.api.FetchCart(ctx)
	if err != nil {
		return nil, s.fail(err)
	}

	s.items = items
	s.loading = false

	cart := s.snapshotLocked()

	return &cart, nil
}

// ClearCart empties the remote cart and local state. Clearing an already
// empty cart is a harmless no-op on the remote side.
func (s *CartService) ClearCart(ctx context.Context) (*models.Cart, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = true
	s.lastErr = nil

	if err := s.api.ClearCart(ctx); err != nil {
		return nil, s.fail(err)
	}

	s.items = nil
	s.loading = false

	cart := s.snapshotLocked()

	return &cart, nil
}

// Cart returns the current local snapshot with derived totals.
func (s *CartService) Cart() models.Cart {

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

func (s *CartService) IsLoading() bool {

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loading
}

// Err returns the error left by the last failed operation, nil after a
// successful one.
func (s *CartService) Err() error {

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastErr
}

func (s *CartService) fail(err error) error {
	s.lastErr = err
	s.loading = false

	return err
}

func (s *CartService) snapshotLocked() models.Cart {

	items := make([]models.CartItem, len(s.items))
	copy(items, s.items)

	cart := models.Cart{Items: items}

	for _, item := range items {
		cart.ItemCount += item.Quantity
		cart.TotalPrice += item.Product.Price * float64(item.Quantity)
	}

	return cart
}

func (s *CartService) hasItemLocked(cartItemID int64) bool {
	_, ok := s.itemLocked(cartItemID)

	return ok
}

func (s *CartService) itemLocked(cartItemID int64) (models.CartItem, bool) {

	for _, item := range s.items {
		if item.ID == cartItemID {
			return item, true
		}
	}

	return models.CartItem{}, false
}
