package service

import (
	"context"
	"slices"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
	"storefront/internal/repository"
)

// memCarts mirrors CartRepository semantics: one cart per user and
// saves conditional on version.
type memCarts struct {
	m     sync.Mutex
	carts map[primitive.ObjectID]models.Cart
	saves int
}

func newMemCarts() *memCarts {
	return &memCarts{carts: make(map[primitive.ObjectID]models.Cart)}
}

func (s *memCarts) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	s.m.Lock()
	defer s.m.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		return nil, repository.ErrCartNotFound
	}
	c.Items = slices.Clone(c.Items)
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	return &c, nil
}

func (s *memCarts) Create(_ context.Context, c *models.Cart) error {
	s.m.Lock()
	defer s.m.Unlock()
	if _, ok := s.carts[c.UserID]; ok {
		return repository.ErrCartExists
	}
	c.ID = primitive.NewObjectID()
	c.Version = 1
	stored := *c
	stored.Items = slices.Clone(c.Items)
	s.carts[c.UserID] = stored
	return nil
}

func (s *memCarts) Save(_ context.Context, c *models.Cart) error {
	s.m.Lock()
	defer s.m.Unlock()
	stored, ok := s.carts[c.UserID]
	if !ok || stored.Version != c.Version {
		return repository.ErrVersionConflict
	}
	stored.Items = slices.Clone(c.Items)
	stored.Version++
	s.carts[c.UserID] = stored
	c.Version++
	s.saves++
	return nil
}

func (s *memCarts) stored(userID primitive.ObjectID) models.Cart {
	s.m.Lock()
	defer s.m.Unlock()
	return s.carts[userID]
}

type memProducts struct {
	m        sync.Mutex
	products map[primitive.ObjectID]models.Product
}

func newMemProducts(products ...*models.Product) *memProducts {
	s := &memProducts{products: make(map[primitive.ObjectID]models.Product)}
	for _, p := range products {
		s.put(p)
	}
	return s
}

func (s *memProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.m.Lock()
	defer s.m.Unlock()
	p, ok := s.products[id]
	if !ok || p.IsDeleted {
		return nil, repository.ErrProductNotFound
	}
	return &p, nil
}

func (s *memProducts) put(p *models.Product) {
	s.m.Lock()
	defer s.m.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.products[p.ID] = *p
}

func product(name string, price int64, stock int) *models.Product {
	return &models.Product{
		ID:       primitive.NewObjectID(),
		Name:     name,
		Price:    price,
		Image:    name + ".jpg",
		Category: "Laptop",
		Stock:    stock,
	}
}
