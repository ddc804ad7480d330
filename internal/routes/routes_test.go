package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"

	"storefront/internal/auth"
	"storefront/internal/cache"
	"storefront/internal/handlers"
	"storefront/internal/mocks"
	"storefront/internal/models"
	"storefront/internal/service"
)

func TestRegisterRoutes_Guards(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	products := mocks.NewMockProductStore(ctrl)
	carts := mocks.NewMockCartStore(ctrl)
	users := mocks.NewMockUserStore(ctrl)
	orders := mocks.NewMockOrderStore(ctrl)
	mem := cache.NewMemory(time.Minute)
	defer mem.Close()

	tokens := auth.NewTokenIssuer("routes", time.Hour)
	accounts := service.NewAccountService(users, orders, tokens)

	router := gin.New()
	RegisterRoutes(router, tokens, Handlers{
		Products: handlers.NewProductHandler(service.NewProductService(products, mem, time.Minute)),
		Cart:     handlers.NewCartHandler(service.NewCartService(carts, products)),
		Users:    handlers.NewUserHandler(accounts, false),
		Auth:     handlers.NewAuthHandler(nil, accounts, false),
		Orders:   handlers.NewOrderHandler(service.NewOrderService(orders, carts, products, 0)),
		Health: handlers.NewHealthHandler(
			func(context.Context) error { return nil },
			func(context.Context) (int64, error) { return 0, nil },
		),
	})

	user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}
	userToken, _, err := tokens.Issue(user)
	assert.NoError(t, err)

	orders.EXPECT().FindAll(gomock.Any(), user.ID).Return([]*models.Order{}, nil)

	cases := []struct {
		method, path, token string
		want                int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/v1/cart", "", http.StatusUnauthorized},
		{http.MethodGet, "/v1/orders", "", http.StatusUnauthorized},
		{http.MethodGet, "/v1/orders", userToken, http.StatusOK},
		{http.MethodGet, "/v1/users/me", "", http.StatusUnauthorized},
		{http.MethodPost, "/v1/users/complete-google-registration", "", http.StatusUnauthorized},
		{http.MethodPost, "/v1/products", userToken, http.StatusForbidden},
		{http.MethodDelete, "/v1/products/" + primitive.NewObjectID().Hex(), "", http.StatusUnauthorized},
		{http.MethodGet, "/v1/admin/orders", userToken, http.StatusForbidden},
		{http.MethodGet, "/v1/auth/google/login", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		if tc.token != "" {
			req.Header.Set("Authorization", "Bearer "+tc.token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, tc.want, rec.Code, "%s %s", tc.method, tc.path)
	}
}
