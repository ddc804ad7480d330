package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentMethods accepted at checkout. COD is the default.
var PaymentMethods = []string{"COD", "Banking", "Momo", "ZaloPay"}

const DefaultPaymentMethod = "COD"

type OrderItem struct {
	ProductID primitive.ObjectID `json:"product_id" bson:"product"`
	Name      string             `json:"name" bson:"name"`
	Price     int64              `json:"price" bson:"price"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	Image     string             `json:"image" bson:"image"`
}

type ShippingAddress struct {
	FullName string `json:"full_name" bson:"full_name" binding:"required"`
	Phone    string `json:"phone" bson:"phone" binding:"required"`
	Address  string `json:"address" bson:"address" binding:"required"`
	City     string `json:"city" bson:"city" binding:"required"`
	District string `json:"district" bson:"district" binding:"required"`
	Ward     string `json:"ward" bson:"ward" binding:"required"`
}

type Order struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"user_id" bson:"user"`
	Items           []OrderItem        `json:"order_items" bson:"order_items"`
	ShippingAddress ShippingAddress    `json:"shipping_address" bson:"shipping_address"`
	PaymentMethod   string             `json:"payment_method" bson:"payment_method"`
	ItemsPrice      int64              `json:"items_price" bson:"items_price"`
	ShippingPrice   int64              `json:"shipping_price" bson:"shipping_price"`
	TotalPrice      int64              `json:"total_price" bson:"total_price"`
	IsPaid          bool               `json:"is_paid" bson:"is_paid"`
	PaidAt          *time.Time         `json:"paid_at,omitempty" bson:"paid_at,omitempty"`
	IsDelivered     bool               `json:"is_delivered" bson:"is_delivered"`
	DeliveredAt     *time.Time         `json:"delivered_at,omitempty" bson:"delivered_at,omitempty"`
	Status          OrderStatus        `json:"status" bson:"status"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}
