package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/mock/gomock"

	"storefront/internal/apperror"
	"storefront/internal/cache"
	"storefront/internal/mocks"
	"storefront/internal/models"
	"storefront/internal/repository"
)

func setupProductService(t *testing.T) (*ProductService, *mocks.MockProductStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockProductStore(ctrl)
	store := cache.NewMemory(time.Minute)
	t.Cleanup(store.Close)
	return NewProductService(repo, store, time.Minute), repo
}

func TestProductService_GetIsCached(t *testing.T) {
	svc, repo := setupProductService(t)
	p := product("laptop", 100, 1)

	repo.EXPECT().FindByID(gomock.Any(), p.ID).Return(p, nil).Times(1)

	first, err := svc.Get(context.Background(), p.ID.Hex())
	require.NoError(t, err)
	second, err := svc.Get(context.Background(), p.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, p.Name, first.Name)
	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, first.Price, second.Price)
}

func TestProductService_GetErrors(t *testing.T) {
	svc, repo := setupProductService(t)

	_, err := svc.Get(context.Background(), "bad")
	requireKind(t, err, apperror.Validation)

	p := product("gone", 1, 1)
	repo.EXPECT().FindByID(gomock.Any(), p.ID).Return(nil, repository.ErrProductNotFound)
	_, err = svc.Get(context.Background(), p.ID.Hex())
	requireKind(t, err, apperror.ProductNotFound)

	q := product("flaky", 1, 1)
	repo.EXPECT().FindByID(gomock.Any(), q.ID).Return(nil, errors.New("timeout"))
	_, err = svc.Get(context.Background(), q.ID.Hex())
	requireKind(t, err, apperror.StoreUnavailable)
}

func TestProductService_ListIsCachedPerFilter(t *testing.T) {
	svc, repo := setupProductService(t)
	laptops := models.ProductFilter{Category: "Laptop", SortBy: "price-low", Page: 1, PageSize: 20}
	all := models.ProductFilter{Page: 1, PageSize: 20}

	repo.EXPECT().FindAll(gomock.Any(), laptops).Return(&models.ProductPage{Total: 2, Page: 1, PageSize: 20, TotalPages: 1}, nil).Times(1)
	repo.EXPECT().FindAll(gomock.Any(), all).Return(&models.ProductPage{Total: 9, Page: 1, PageSize: 20, TotalPages: 1}, nil).Times(1)

	for i := 0; i < 2; i++ {
		page, err := svc.List(context.Background(), laptops)
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)

		page, err = svc.List(context.Background(), all)
		require.NoError(t, err)
		assert.Equal(t, int64(9), page.Total)
	}
}

func TestProductService_UpdateInvalidatesCache(t *testing.T) {
	svc, repo := setupProductService(t)
	p := product("phone", 100, 5)
	filter := models.ProductFilter{Page: 1, PageSize: 20}
	price := int64(90)

	updated := *p
	updated.Price = price

	gomock.InOrder(
		repo.EXPECT().FindByID(gomock.Any(), p.ID).Return(p, nil),
		repo.EXPECT().Update(gomock.Any(), p.ID, bson.M{"price": price}).Return(nil),
		repo.EXPECT().FindByID(gomock.Any(), p.ID).Return(&updated, nil),
		repo.EXPECT().FindByID(gomock.Any(), p.ID).Return(&updated, nil),
	)
	repo.EXPECT().FindAll(gomock.Any(), filter).Return(&models.ProductPage{Total: 1}, nil).Times(2)

	_, err := svc.Get(context.Background(), p.ID.Hex())
	require.NoError(t, err)
	_, err = svc.List(context.Background(), filter)
	require.NoError(t, err)

	got, err := svc.Update(context.Background(), p.ID.Hex(), models.ProductUpdate{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, price, got.Price)

	again, err := svc.Get(context.Background(), p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, price, again.Price)
	_, err = svc.List(context.Background(), filter)
	require.NoError(t, err)
}

func TestProductService_UpdateRejectsEmptyUpdate(t *testing.T) {
	svc, _ := setupProductService(t)
	p := product("x", 1, 1)

	_, err := svc.Update(context.Background(), p.ID.Hex(), models.ProductUpdate{})
	requireKind(t, err, apperror.Validation)
}

func TestProductService_Delete(t *testing.T) {
	svc, repo := setupProductService(t)
	p := product("x", 1, 1)

	repo.EXPECT().SoftDelete(gomock.Any(), p.ID).Return(nil)
	require.NoError(t, svc.Delete(context.Background(), p.ID.Hex()))

	repo.EXPECT().SoftDelete(gomock.Any(), p.ID).Return(repository.ErrProductNotFound)
	requireKind(t, svc.Delete(context.Background(), p.ID.Hex()), apperror.ProductNotFound)
}

func TestProductService_CreateInvalidatesLists(t *testing.T) {
	svc, repo := setupProductService(t)
	filter := models.ProductFilter{Page: 1, PageSize: 20}
	p := product("new", 1, 1)

	repo.EXPECT().FindAll(gomock.Any(), filter).Return(&models.ProductPage{Total: 0}, nil)
	repo.EXPECT().Create(gomock.Any(), p).Return(nil)
	repo.EXPECT().FindAll(gomock.Any(), filter).Return(&models.ProductPage{Total: 1}, nil)

	page, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)

	require.NoError(t, svc.Create(context.Background(), p))

	page, err = svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}
