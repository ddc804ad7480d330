package service

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/apperror"
	"storefront/internal/models"
)

//go:generate mockgen -destination=../mocks/stores.go -package=mocks storefront/internal/service ProductLookup,ProductStore,CartStore,UserStore,OrderStore

// ProductLookup is the authoritative catalog read used for price and stock.
type ProductLookup interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

type ProductStore interface {
	ProductLookup
	Create(ctx context.Context, product *models.Product) error
	FindAll(ctx context.Context, f models.ProductFilter) (*models.ProductPage, error)
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) error
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
}

type CartStore interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	Save(ctx context.Context, cart *models.Cart) error
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindAll(ctx context.Context, userID primitive.ObjectID) ([]*models.Order, error)
	Stats(ctx context.Context, userID primitive.ObjectID) (int, int64, error)
}

func parseID(raw, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperror.NewValidation(fmt.Sprintf("%s không hợp lệ", what))
	}
	return id, nil
}

func storeErr(op string, err error) error {
	slog.Error("store failure", "op", op, "err", err)
	return apperror.NewStoreUnavailable(fmt.Errorf("%s: %w", op, err))
}
