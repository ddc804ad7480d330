package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperror"
	"storefront/internal/models"
)

func newProduct(price int64, stock int) *models.Product {
	return &models.Product{
		ID:    primitive.NewObjectID(),
		Name:  "Tai nghe",
		Price: price,
		Image: "/img/headset.png",
		Stock: stock,
	}
}

func emptyCart() *models.Cart {
	c, _ := Ensure(nil, primitive.NewObjectID(), time.Now())
	return c
}

func requireKind(t *testing.T, err error, kind apperror.Kind) *apperror.Error {
	t.Helper()
	appErr, ok := apperror.As(err)
	require.True(t, ok, "expected *apperror.Error, got %v", err)
	require.Equal(t, kind, appErr.Kind)
	return appErr
}

func TestEnsure(t *testing.T) {
	userID := primitive.NewObjectID()

	created, isNew := Ensure(nil, userID, time.Now())
	assert.True(t, isNew)
	assert.Equal(t, userID, created.UserID)
	assert.Empty(t, created.Items)

	again, isNew := Ensure(created, userID, time.Now())
	assert.False(t, isNew)
	assert.Same(t, created, again)
}

func TestUpsertItem_NewLine(t *testing.T) {
	c := emptyCart()
	p := newProduct(100, 5)

	require.NoError(t, UpsertItem(c, p, 3))

	require.Len(t, c.Items, 1)
	assert.Equal(t, p.ID, c.Items[0].ProductID)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, int64(100), c.Items[0].Price)
	assert.Equal(t, 5, c.Items[0].Stock)
}

func TestUpsertItem_MergesDuplicates(t *testing.T) {
	c := emptyCart()
	p := newProduct(100, 4)

	require.NoError(t, UpsertItem(c, p, 2))
	require.NoError(t, UpsertItem(c, p, 2))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 4, c.Items[0].Quantity)
}

func TestUpsertItem_RefreshesSnapshot(t *testing.T) {
	c := emptyCart()
	p := newProduct(100, 10)
	require.NoError(t, UpsertItem(c, p, 1))

	p.Price = 120
	p.Name = "Tai nghe Pro"
	p.Stock = 8
	require.NoError(t, UpsertItem(c, p, 1))

	assert.Equal(t, int64(120), c.Items[0].Price)
	assert.Equal(t, "Tai nghe Pro", c.Items[0].Name)
	assert.Equal(t, 8, c.Items[0].Stock)
}

func TestUpsertItem_OutOfStockOnNewLine(t *testing.T) {
	c := emptyCart()
	p := newProduct(100, 2)

	err := UpsertItem(c, p, 3)

	appErr := requireKind(t, err, apperror.OutOfStock)
	assert.Equal(t, 2, appErr.Remaining)
	assert.Empty(t, c.Items)
}

func TestUpsertItem_OutOfStockLeavesLineUnchanged(t *testing.T) {
	c := emptyCart()
	p := newProduct(100, 5)
	require.NoError(t, UpsertItem(c, p, 3))

	p.Price = 999
	err := UpsertItem(c, p, 3)

	appErr := requireKind(t, err, apperror.OutOfStock)
	assert.Equal(t, 5, appErr.Remaining)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, int64(100), c.Items[0].Price)
}

func TestUpsertItem_RejectsNonPositiveQuantity(t *testing.T) {
	c := emptyCart()

	for _, q := range []int{0, -1} {
		err := UpsertItem(c, newProduct(100, 5), q)
		requireKind(t, err, apperror.Validation)
	}
	assert.Empty(t, c.Items)
}

func TestSetItemQuantity(t *testing.T) {
	c := emptyCart()
	p := newProduct(100, 5)
	require.NoError(t, UpsertItem(c, p, 3))

	require.NoError(t, SetItemQuantity(c, p.ID, 1, p))
	assert.Equal(t, 1, c.Items[0].Quantity, "quantity is replaced, not added")

	require.NoError(t, SetItemQuantity(c, p.ID, 5, p))
	assert.Equal(t, 5, c.Items[0].Quantity)
}

func TestSetItemQuantity_Errors(t *testing.T) {
	c := emptyCart()
	p := newProduct(100, 5)
	require.NoError(t, UpsertItem(c, p, 3))

	err := SetItemQuantity(c, primitive.NewObjectID(), 1, p)
	requireKind(t, err, apperror.ItemNotFound)

	err = SetItemQuantity(c, p.ID, 6, p)
	appErr := requireKind(t, err, apperror.OutOfStock)
	assert.Equal(t, 5, appErr.Remaining)
	assert.Equal(t, 3, c.Items[0].Quantity)

	err = SetItemQuantity(c, p.ID, 2, nil)
	requireKind(t, err, apperror.ProductNotFound)
}

func TestSetItemQuantity_NonPositiveRemoves(t *testing.T) {
	for _, q := range []int{0, -3} {
		c := emptyCart()
		p := newProduct(100, 5)
		require.NoError(t, UpsertItem(c, p, 2))

		require.NoError(t, SetItemQuantity(c, p.ID, q, nil))
		assert.Empty(t, c.Items)
	}
}

func TestRemoveItem_Idempotent(t *testing.T) {
	c := emptyCart()
	keep := newProduct(50, 5)
	drop := newProduct(100, 5)
	require.NoError(t, UpsertItem(c, keep, 1))
	require.NoError(t, UpsertItem(c, drop, 1))

	RemoveItem(c, drop.ID)
	RemoveItem(c, drop.ID)

	require.Len(t, c.Items, 1)
	assert.Equal(t, keep.ID, c.Items[0].ProductID)
	assert.False(t, HasItem(c, drop.ID))
}

func TestTotals(t *testing.T) {
	c := emptyCart()
	require.NoError(t, UpsertItem(c, newProduct(100, 10), 2))
	require.NoError(t, UpsertItem(c, newProduct(50, 10), 3))

	totals := Totals(c)

	assert.Equal(t, 5, totals.TotalItems)
	assert.Equal(t, int64(350), totals.TotalPrice)
	assert.Equal(t, models.CartTotals{}, Totals(emptyCart()))
}

func TestScenario_StockCeilingThenUpdateThenDelete(t *testing.T) {
	c := emptyCart()
	p1 := newProduct(100, 5)

	require.NoError(t, UpsertItem(c, p1, 3))
	assert.Equal(t, 3, c.Items[0].Quantity)

	err := UpsertItem(c, p1, 3)
	appErr := requireKind(t, err, apperror.OutOfStock)
	assert.Equal(t, 5, appErr.Remaining)
	assert.Equal(t, 3, c.Items[0].Quantity)

	require.NoError(t, SetItemQuantity(c, p1.ID, 5, p1))
	assert.Equal(t, 5, c.Items[0].Quantity)

	require.NoError(t, SetItemQuantity(c, p1.ID, 0, p1))
	assert.Empty(t, c.Items)
}
