// Package cart holds the in-memory rules of a shopping cart: one line per
// product, quantities bounded by live stock, totals derived on read.
// Nothing here touches storage; callers load, mutate and save.
package cart

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperror"
	"storefront/internal/models"
)

// Ensure returns existing, or a new empty cart for userID when existing is nil.
// The second result reports whether a cart was created.
func Ensure(existing *models.Cart, userID primitive.ObjectID, now time.Time) (*models.Cart, bool) {
	if existing != nil {
		return existing, false
	}
	return &models.Cart{
		UserID:    userID,
		Items:     []models.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}, true
}

// UpsertItem adds quantity units of p, merging into an existing line.
// On OutOfStock the cart is left untouched.
func UpsertItem(c *models.Cart, p *models.Product, quantity int) error {
	if quantity <= 0 {
		return apperror.NewValidation("Số lượng phải lớn hơn 0")
	}
	if p.Stock < 0 {
		return apperror.NewValidation("Số lượng tồn kho không hợp lệ")
	}

	idx := indexOf(c.Items, p.ID)
	if idx < 0 {
		if quantity > p.Stock {
			return apperror.NewOutOfStock(p.Stock)
		}
		c.Items = append(c.Items, snapshot(p, quantity))
		return nil
	}

	newQuantity := c.Items[idx].Quantity + quantity
	if newQuantity > p.Stock {
		return apperror.NewOutOfStock(p.Stock)
	}
	c.Items[idx] = snapshot(p, newQuantity)
	return nil
}

// SetItemQuantity replaces the quantity of an existing line. A quantity of
// zero or less removes the line; live may be nil in that case only.
func SetItemQuantity(c *models.Cart, productID primitive.ObjectID, quantity int, live *models.Product) error {
	idx := indexOf(c.Items, productID)
	if idx < 0 {
		return apperror.New(apperror.ItemNotFound, "Product not found in cart")
	}

	if quantity <= 0 {
		c.Items = removeAt(c.Items, idx)
		return nil
	}

	if live == nil {
		return apperror.New(apperror.ProductNotFound, "Product not found")
	}
	if quantity > live.Stock {
		return apperror.NewOutOfStock(live.Stock)
	}
	c.Items[idx] = snapshot(live, quantity)
	return nil
}

// RemoveItem drops the line for productID. Removing an absent product is a no-op.
func RemoveItem(c *models.Cart, productID primitive.ObjectID) {
	if idx := indexOf(c.Items, productID); idx >= 0 {
		c.Items = removeAt(c.Items, idx)
	}
}

// HasItem reports whether the cart has a line for productID.
func HasItem(c *models.Cart, productID primitive.ObjectID) bool {
	return indexOf(c.Items, productID) >= 0
}

// Clear empties the cart. The cart document itself is kept.
func Clear(c *models.Cart) {
	c.Items = []models.CartItem{}
}

func Totals(c *models.Cart) models.CartTotals {
	var t models.CartTotals
	if c == nil {
		return t
	}
	for _, item := range c.Items {
		t.TotalItems += item.Quantity
		t.TotalPrice += item.Price * int64(item.Quantity)
	}
	return t
}

// View pairs a cart with its derived totals.
func View(c *models.Cart) *models.CartView {
	return &models.CartView{Cart: c, CartTotals: Totals(c)}
}

func snapshot(p *models.Product, quantity int) models.CartItem {
	return models.CartItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Quantity:  quantity,
		Stock:     p.Stock,
	}
}

func indexOf(items []models.CartItem, productID primitive.ObjectID) int {
	for i := range items {
		if items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func removeAt(items []models.CartItem, idx int) []models.CartItem {
	out := make([]models.CartItem, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...)
}
