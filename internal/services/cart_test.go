package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	appErrors "github.com/medikart/pharmacy-storefront/internal/errors"
	"github.com/medikart/pharmacy-storefront/internal/models"
	service "github.com/medikart/pharmacy-storefront/internal/services"
	"github.com/medikart/pharmacy-storefront/pkg/commerce/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func productA() models.Product {
	return models.Product{ID: 101, Name: "Paracetamol 500mg", Category: "Pain Relief", Price: 5.99}
}

func productB() models.Product {
	return models.Product{ID: 102, Name: "Vitamin C 1000mg", Category: "Vitamins", Price: 12.50}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Populates From Remote", func(t *testing.T) {
		// Arrange
		mockAPI := mocks.NewAPI()
		cartService := service.NewCartService(mockAPI)
		remote := []models.CartItem{{ID: 1, Product: productA(), Quantity: 2}}
		mockAPI.On("FetchCart", ctx).Return(remote, nil).Once()

		// Act
		err := cartService.Load(ctx)

		// Assert
		assert.NoError(t, err)
		assert.NoError(t, cartService.Err())
		assert.False(t, cartService.IsLoading())

		cart := cartService.Cart()
		assert.Len(t, cart.Items, 1)
		assert.Equal(t, 2, cart.ItemCount)
		mockAPI.AssertExpectations(t)
	})

	t.Run("Failure - Starts Empty With Error Flag", func(t *testing.T) {
		// Arrange
		mockAPI := mocks.NewAPI()
		cartService := service.NewCartService(mockAPI)
		netErr := errors.New("connection refused")
		mockAPI.On("FetchCart", ctx).Return(nil, netErr).Once()

		// Act
		err := cartService.Load(ctx)

		// Assert
		assert.Error(t, err)
		assert.ErrorIs(t, cartService.Err(), netErr)
		assert.False(t, cartService.IsLoading())
		assert.Empty(t, cartService.Cart().Items)
		mockAPI.AssertExpectations(t)
	})
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Empty Cart Gains One Item", func(t *testing.T) {
		// Arrange
		mockAPI := mocks.NewAPI()
		cartService := service.NewCartService(mockAPI)
		remote := []models.CartItem{{ID: 1, Product: productA(), Quantity: 2}}
		mockAPI.On("AddCartItem", ctx, int64(101), 2).Return(nil).Once()
		mockAPI.On("FetchCart", ctx).Return(remote, nil).Once()

		// Act
		cart, err := cartService.AddItem(ctx, 101, 2)

		// Assert
		assert.NoError(t, err)
		assert.Len(t, cart.Items, 1)
		assert.Equal(t, int64(101), cart.Items[0].Product.ID)
		assert.Equal(t, 2, cart.Items[0].Quantity)
		assert.Equal(t, 2, cart.ItemCount)
		assert.InDelta(t, 11.98, cart.TotalPrice, 0.001)
		mockAPI.AssertExpectations(t)
	})

	t.Run("Success - Local State Reflects Server Truth, Not Client Sum", func(t *testing.T) {
		// Arrange: the server merges repeat adds however it likes; the store
		// must mirror the reported quantity instead of summing locally.
		mockAPI := mocks.NewAPI()
		cartService := service.NewCartService(mockAPI)
		mockAPI.On("AddCartItem", ctx, int64(101), mock.Anything).Return(nil).Times(3)
		mockAPI.On("FetchCart", ctx).Return([]models.CartItem{{ID: 1, Product: productA(), Quantity: 1}}, nil).Once()
		mockAPI.On("FetchCart", ctx).Return([]models.CartItem{{ID: 1, Product: productA(), Quantity: 3}}, nil).Once()
		mockAPI.On("FetchCart", ctx).Return([]models.CartItem{{ID: 1, Product: productA(), Quantity: 7}}, nil).Once()

		// Act
		_, _ = cartService.AddItem(ctx, 101, 1)
		_, _ = cartService.AddItem(ctx, 101, 2)
		cart, err := cartService.AddItem(ctx, 101, 4)

		// Assert
		assert.NoError(t, err)
		assert.Len(t, cart.Items, 1)
		assert.Equal(t, 7, cart.Items[0].Quantity)
		assert.Equal(t, 7, cart.ItemCount)
		mockAPI.AssertExpectations(t)
	})

	t.Run("Failure - Invalid Quantity", func(t *testing.T) {
		// Arrange
		mockAPI := mocks.NewAPI()
		cartService := service.NewCartService(mockAPI)

		// Act
		cart, err := cartService.AddItem(ctx, 101, 0)

		// Assert
		assert.Nil(t, cart)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeValidation, appErr.Code)
		mockAPI.AssertNotCalled(t, "AddCartItem")
	})

	t.Run("Failure - Remote Add Fails, State Unchanged", func(t *testing.T) {
		// Arrange: seed last-known-good state first.
		mockAPI := mocks.NewAPI()
		cartService := service.NewCartService(mockAPI)
		seeded := []models.CartItem{{ID: 1, Product: productA(), Quantity: 2}}
		mockAPI.On("FetchCart", ctx).Return(seeded, nil).Once()
		assert.NoError(t, cartService.Load(ctx))

		upstreamErr := appErrors.UpstreamError("Commerce API is unreachable")
		mockAPI.On("AddCartItem", ctx, int64(102), 1).Return(upstreamErr).Once()

		// Act
		cart, err := cartService.AddItem(ctx, 102, 1)

		// Assert
		assert.Nil(t, cart)
		assert.Error(t, err)
		assert.Equal(t, upstreamErr, cartService.Err())
		assert.False(t, cartService.IsLoading())

		current := cartService.Cart()
		assert.Len(t, current.Items, 1)
		assert.Equal(t, 2, current.ItemCount)
		mockAPI.AssertExpectations(t)
	})

	t.Run("Failure - Refetch Fails, Keeps Last Known Good", func(t *testing.T) {
		// Arrange
		mockAPI := mocks.NewAPI()
		cartService := service.NewCartService(mockAPI)
		seeded := []models.CartItem{{ID: 1, Product: productA(), Quantity: 2}}
		mockAPI.On("FetchCart", ctx).Return(seeded, nil).Once()
		assert.NoError(t, cartService.Load(ctx))

		mockAPI.On("AddCartItem", ctx, int64(102), 1).Return(nil).Once()
		mockAPI.On("FetchCart", ctx).Return(nil, errors.New("timeout")).Once()

		// Act
		cart, err := cartService.AddItem(ctx, 102, 1)

		// Assert
		assert.Nil(t, cart)
		assert.Error(t, err)
		assert.Error(t, cartService.Err())
		assert.Equal(t, 2, cartService.Cart().ItemCount)
		mockAPI.AssertExpectations(t)
	})
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, mockAPI *mocks.API, cartService *service.CartService) {
		t.Helper()

		seeded := []models.CartItem{
			{ID: 1, Product: productA(), Quantity: 2},
			{ID: 2, Product: productB(), Quantity: 1},
		}
		mockAPI.On("FetchCart", ctx).Return(seeded, nil).Once()
		assert.NoError(t, cartService.Load(ctx))
	}

	t.Run("Success - Item Filtered Out Locally", func(t *testing.T) {
		// Arrange
		mockAPI := mocks.NewAPI()
		cartService := service.NewCartService(mockAPI)
		seed(t, mockAPI, cartService)
		mockAPI.On("RemoveCartItem", ctx, int64(1)).Return(nil).Once()

		// Act
		cart, err := cartService.RemoveItem(ctx, 1)

		// Assert
		assert.NoError(t, err)
		assert.Len(t, cart.Items, 1)
		assert.Equal(t, int64(2), cart.Items[0].ID)
		assert.Equal(t, 1, cart.ItemCount)
		mockAPI.AssertExpectations(t)
	})

	t.Run("Failure - Unknown Item", func(t *testing.T) {
		// Arrange
		mockAPI := mocks.NewAPI()
		cartService := service.NewCartService(mockAPI)
		seed(t, mockAPI, cartService)

		// Act
		cart, err := cartService.RemoveItem(ctx, 99)

		// Assert
		assert.Nil(t, cart)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		mockAPI.AssertNotCalled(t, "RemoveCartItem")
	})

	t.Run("Failure - Remote Delete Fails, Item Remains", func(t *testing.T) {
		// Arrange
		mockAPI := mocks.NewAPI()
		cartService := service.NewCartService(mockAPI)
		seed(t, mockAPI, cartService)
		mockAPI.On("RemoveCartItem", ctx, int64(1)).Return(errors.New("boom")).Once()

		// Act
		cart, err := cartService.RemoveItem(ctx, 1)

		// Assert
		assert.Nil(t, cart)
		assert.Error(t, err)
		assert.Error(t, cartService.Err())
		assert.False(t, cartService.IsLoading())
		assert.Len(t, cartService.Cart().Items, 2)
		mockAPI.AssertExpectations(t)
	})
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, mockAPI *mocks.API, cartService *service.CartService) {
		t.Helper()

		seeded := []models.CartItem{{ID: 1, Product: productA(), Quantity: 2}}
		mockAPI.On("FetchCart", ctx).Return(seeded, nil).Once()
		assert.NoError(t, cartService.Load(ctx))
	}

	t.Run("Success - Quantity Set Via Remove Then Add", func(t *testing.T) {
		// Arrange
		mockAPI := mocks.NewAPI()
		cartService := service.NewCartService(mockAPI)
		seed(t, mockAPI, cartService)

		mockAPI.On("RemoveCartItem", ctx, int64(1)).Return(nil).Once()
		mockAPI.On("AddCartItem", ctx, int64(101), 5).Return(nil).Once()
		mockAPI.On("FetchCart", ctx).Return([]models.CartItem{{ID: 3, Product: productA(), Quantity: 5}}, nil).Once()

		// Act
		cart, err := cartService.UpdateQuantity(ctx, 1, 5)

		// Assert
		assert.NoError(t, err)
		assert.Len(t, cart.Items, 1)
		assert.Equal(t, 5, cart.Items[0].Quantity)
		assert.Equal(t, 5, cart.ItemCount)
		mockAPI.AssertExpectations(t)
	})

	t.Run("Zero Quantity Delegates To Removal", func(t *testing.T) {
		// Arrange
		mockAPI := mocks.NewAPI()
		cartService := service.NewCartService(mockAPI)
		seed(t, mockAPI, cartService)
		mockAPI.On("RemoveCartItem", ctx, int64(1)).Return(nil).Once()

		// Act
		cart, err := cartService.UpdateQuantity(ctx, 1, 0)

		// Assert
		assert.NoError(t, err)
		assert.Empty(t, cart.Items)
		assert.Equal(t, 0, cart.ItemCount)
		mockAPI.AssertNotCalled(t, "AddCartItem")
		mockAPI.AssertExpectations(t)
	})

	t.Run("Failure - Add After Remove Fails Is A Partial Update", func(t *testing.T) {
		// Arrange
		mockAPI := mocks.NewAPI()
		cartService := service.NewCartService(mockAPI)
		seed(t, mockAPI, cartService)

		mockAPI.On("RemoveCartItem", ctx, int64(1)).Return(nil).Once()
		mockAPI.On("AddCartItem", ctx, int64(101), 5).Return(errors.New("gateway timeout")).Once()

		// Act
		cart, err := cartService.UpdateQuantity(ctx, 1, 5)

		// Assert
		assert.Nil(t, cart)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodePartialUpdate, appErr.Code)
		assert.Equal(t, err, cartService.Err())
		assert.False(t, cartService.IsLoading())
		mockAPI.AssertExpectations(t)
	})

	t.Run("Failure - Unknown Item", func(t *testing.T) {
		// Arrange
		mockAPI := mocks.NewAPI()
		cartService := service.NewCartService(mockAPI)
		seed(t, mockAPI, cartService)

		// Act
		cart, err := cartService.UpdateQuantity(ctx, 42, 3)

		// Assert
		assert.Nil(t, cart)
		appErr, ok := appErrors.IsAppError(err)
		assert.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()

	t.Run("Idempotent - Clearing Twice Succeeds", func(t *testing.T) {
		// Arrange
		mockAPI := mocks.NewAPI()
		cartService := service.NewCartService(mockAPI)
		seeded := []models.CartItem{{ID: 1, Product: productA(), Quantity: 2}}
		mockAPI.On("FetchCart", ctx).Return(seeded, nil).Once()
		assert.NoError(t, cartService.Load(ctx))
		mockAPI.On("ClearCart", ctx).Return(nil).Twice()

		// Act
		first, err1 := cartService.ClearCart(ctx)
		second, err2 := cartService.ClearCart(ctx)

		// Assert
		assert.NoError(t, err1)
		assert.NoError(t, err2)
		assert.Empty(t, first.Items)
		assert.Empty(t, second.Items)
		assert.NoError(t, cartService.Err())
		mockAPI.AssertExpectations(t)
	})
}

func TestOverlappingMutations(t *testing.T) {
	ctx := context.Background()

	t.Run("Second Mutation Waits For The First Round Trip", func(t *testing.T) {
		// Arrange: the first add blocks inside the remote call until the
		// second mutation has been issued, forcing a real overlap. The store
		// must serialize them so each refetch-and-replace runs unbroken.
		mockAPI := mocks.NewAPI()
		cartService := service.NewCartService(mockAPI)

		firstAddEntered := make(chan struct{})
		secondAddIssued := make(chan struct{})

		afterFirst := []models.CartItem{{ID: 1, Product: productA(), Quantity: 1}}
		afterBoth := []models.CartItem{
			{ID: 1, Product: productA(), Quantity: 1},
			{ID: 2, Product: productB(), Quantity: 2},
		}

		mockAPI.On("AddCartItem", ctx, int64(101), 1).Run(func(mock.Arguments) {
			close(firstAddEntered)
			<-secondAddIssued
		}).Return(nil).Once()
		mockAPI.On("AddCartItem", ctx, int64(102), 2).Return(nil).Once()
		mockAPI.On("FetchCart", ctx).Return(afterFirst, nil).Once()
		mockAPI.On("FetchCart", ctx).Return(afterBoth, nil).Once()

		var wg sync.WaitGroup
		var firstErr, secondErr error

		wg.Add(1)
		go func() {
			defer wg.Done()
			_, firstErr = cartService.AddItem(ctx, 101, 1)
		}()

		<-firstAddEntered

		wg.Add(1)
		go func() {
			defer wg.Done()
			close(secondAddIssued)
			_, secondErr = cartService.AddItem(ctx, 102, 2)
		}()

		// Act
		wg.Wait()

		// Assert: both complete, the final snapshot is the last refetch and
		// the derived totals hold.
		assert.NoError(t, firstErr)
		assert.NoError(t, secondErr)

		cart := cartService.Cart()
		assert.Len(t, cart.Items, 2)
		assert.Equal(t, 3, cart.ItemCount)
		assert.InDelta(t, 1*5.99+2*12.50, cart.TotalPrice, 0.001)
		assert.NoError(t, cartService.Err())
		mockAPI.AssertExpectations(t)
	})
}

func TestDerivedTotals(t *testing.T) {
	ctx := context.Background()

	t.Run("ItemCount Equals Sum Of Quantities After Every Mutation", func(t *testing.T) {
		// Arrange
		mockAPI := mocks.NewAPI()
		cartService := service.NewCartService(mockAPI)
		remote := []models.CartItem{
			{ID: 1, Product: productA(), Quantity: 3},
			{ID: 2, Product: productB(), Quantity: 2},
		}
		mockAPI.On("AddCartItem", ctx, int64(101), 3).Return(nil).Once()
		mockAPI.On("FetchCart", ctx).Return(remote, nil).Once()

		// Act
		cart, err := cartService.AddItem(ctx, 101, 3)

		// Assert
		assert.NoError(t, err)

		sum := 0
		for _, item := range cart.Items {
			sum += item.Quantity
		}
		assert.Equal(t, sum, cart.ItemCount)
		assert.InDelta(t, 3*5.99+2*12.50, cart.TotalPrice, 0.001)
		mockAPI.AssertExpectations(t)
	})
}
