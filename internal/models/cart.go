package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is a snapshot of a product taken when the line was last touched.
// Name, Price, Image and Stock may drift from the catalog between mutations.
type CartItem struct {
	ProductID primitive.ObjectID `json:"product_id" bson:"product"`
	Name      string             `json:"name" bson:"name"`
	Price     int64              `json:"price" bson:"price"`
	Image     string             `json:"image" bson:"image"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	Stock     int                `json:"stock" bson:"stock"`
}

// Cart is owned by exactly one user. Version increases by one on every save.
type Cart struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user"`
	Items     []CartItem         `json:"items" bson:"items"`
	Version   int64              `json:"version" bson:"version"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// CartTotals is derived from the items on every read and never persisted.
type CartTotals struct {
	TotalItems int   `json:"total_items"`
	TotalPrice int64 `json:"total_price"`
}

// CartView is what the cart endpoints return.
type CartView struct {
	*Cart
	CartTotals
}
