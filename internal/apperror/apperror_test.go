package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutOfStockCarriesRemaining(t *testing.T) {
	err := NewOutOfStock(5)

	assert.Equal(t, OutOfStock, err.Kind)
	assert.Equal(t, 5, err.Remaining)
	assert.Equal(t, "Chỉ còn 5 sản phẩm trong kho", err.Message)
}

func TestIsMatchesOnKind(t *testing.T) {
	wrapped := fmt.Errorf("add to cart: %w", NewOutOfStock(2))

	assert.True(t, errors.Is(wrapped, New(OutOfStock, "")))
	assert.False(t, errors.Is(wrapped, New(ItemNotFound, "")))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, CartNotFound, KindOf(New(CartNotFound, "Cart not found")))
	assert.Equal(t, StoreUnavailable, KindOf(errors.New("boom")))
}

func TestStoreUnavailableKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStoreUnavailable(cause)

	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, err.Message, "connection reset")
}
