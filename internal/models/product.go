package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Categories accepted by the catalog.
var Categories = []string{
	"Laptop",
	"Điện thoại",
	"Tai nghe",
	"Máy tính bảng",
	"Đồng hồ thông minh",
	"Camera",
	"Phụ kiện",
}

// AllCategories is the pseudo-category the storefront uses for "no filter".
const AllCategories = "Tất cả"

// Product representa un producto en el catálogo. Prices are whole đồng.
type Product struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name" binding:"required"`
	Price          int64              `json:"price" bson:"price" binding:"min=0"`
	OriginalPrice  int64              `json:"original_price" bson:"original_price" binding:"min=0"`
	Discount       string             `json:"discount,omitempty" bson:"discount,omitempty"`
	Image          string             `json:"image" bson:"image" binding:"required"`
	Category       string             `json:"category" bson:"category" binding:"required,category"`
	Rating         float64            `json:"rating" bson:"rating" binding:"min=0,max=5"`
	Reviews        int                `json:"reviews" bson:"reviews" binding:"min=0"`
	Description    string             `json:"description,omitempty" bson:"description,omitempty"`
	Specifications map[string]string  `json:"specifications,omitempty" bson:"specifications,omitempty"`
	Stock          int                `json:"stock" bson:"stock" binding:"min=0"`
	IsDeleted      bool               `json:"-" bson:"is_deleted"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// ProductUpdate representa los campos actualizables de un producto
type ProductUpdate struct {
	Name           *string           `json:"name,omitempty"`
	Price          *int64            `json:"price,omitempty" binding:"omitempty,min=0"`
	OriginalPrice  *int64            `json:"original_price,omitempty" binding:"omitempty,min=0"`
	Discount       *string           `json:"discount,omitempty"`
	Image          *string           `json:"image,omitempty"`
	Category       *string           `json:"category,omitempty" binding:"omitempty,category"`
	Rating         *float64          `json:"rating,omitempty" binding:"omitempty,min=0,max=5"`
	Reviews        *int              `json:"reviews,omitempty" binding:"omitempty,min=0"`
	Description    *string           `json:"description,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Stock          *int              `json:"stock,omitempty" binding:"omitempty,min=0"`
}

// ProductFilter selects and orders a page of the catalog.
type ProductFilter struct {
	Category string
	SortBy   string
	Page     int
	PageSize int
}

// ProductPage is one page of a catalog listing.
type ProductPage struct {
	Products   []*Product `json:"products"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int64      `json:"total_pages"`
}
