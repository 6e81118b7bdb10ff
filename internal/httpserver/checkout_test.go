package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront-orders/internal/domain"
	cartrepo "storefront-orders/internal/repository/cart"
	orderrepo "storefront-orders/internal/repository/order"
	addresssvc "storefront-orders/internal/service/address"
	"storefront-orders/internal/service/checkout"
	sessionsvc "storefront-orders/internal/service/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passGuarantor struct{ err error }

func (g passGuarantor) EnsureValid(_ context.Context, _ *sessionsvc.Session) error { return g.err }

type staticResolver struct{}

func (staticResolver) Resolve(_ context.Context, _ string, _ addresssvc.Input) (string, error) {
	return "addr-1", nil
}

type stubOrderStore struct {
	created *domain.Order
	lineErr error
}

func (s *stubOrderStore) Create(_ context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error) {
	s.created = &domain.Order{
		ID:          "order-1",
		OrderNumber: in.OrderNumber,
		UserID:      in.UserID,
		TotalCents:  in.TotalCents,
	}
	return s.created, nil
}

func (s *stubOrderStore) CreateLines(_ context.Context, _ string, _ []orderrepo.LineInput) error {
	return s.lineErr
}

func (s *stubOrderStore) LastOrderNumber(_ context.Context) (string, error) {
	return "", domain.ErrNotFound
}

func (s *stubOrderStore) LatestByUser(_ context.Context, _ string) (*domain.Order, error) {
	if s.created == nil {
		return nil, domain.ErrNotFound
	}
	return s.created, nil
}

func (s *stubOrderStore) GetByID(_ context.Context, _, id string) (*domain.Order, error) {
	if s.created == nil || s.created.ID != id {
		return nil, domain.ErrNotFound
	}
	return s.created, nil
}

type stubCartRepo struct {
	cart    domain.Cart
	cleared []string
}

func (r *stubCartRepo) GetOrCreateActive(_ context.Context, _ string) (*domain.Cart, error) {
	clone := r.cart
	return &clone, nil
}

func (r *stubCartRepo) AddItem(_ context.Context, _ string, _ cartrepo.AddItemInput) error {
	return nil
}

func (r *stubCartRepo) ChangeLineQuantity(_ context.Context, _, _ string, _ int) error { return nil }

func (r *stubCartRepo) Clear(_ context.Context, cartID string) error {
	r.cleared = append(r.cleared, cartID)
	return nil
}

func stockedCart() domain.Cart {
	return domain.Cart{
		ID:     "cart-1",
		UserID: "user-1",
		State:  domain.CartStateActive,
		Lines: []domain.CartLine{
			{ID: "line-1", CartID: "cart-1", ProductID: "P1", Quantity: 2, UnitPriceCents: 1000},
		},
	}
}

func checkoutRouter(carts cartrepo.Repository, guard passGuarantor, store *stubOrderStore) *gin.Engine {
	svc := checkout.New(guard, staticResolver{}, store, carts, 400, nil)
	sessions := &stubSessions{session: activeSession()}
	router := gin.New()
	router.POST("/checkout", authMiddleware(sessions), checkoutHandler(svc, carts))
	return router
}

func postCheckout(router *gin.Engine, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer tok-1")
	router.ServeHTTP(rec, req)
	return rec
}

const newAddressBody = `{
	"newAddress": {
		"fullName": "Amina B",
		"phone": "0551234567",
		"street": "12 Rue Didouche",
		"city": "Algiers",
		"province": "16"
	}
}`

func TestCheckoutHandlerSuccess(t *testing.T) {
	carts := &stubCartRepo{cart: stockedCart()}
	store := &stubOrderStore{}
	router := checkoutRouter(carts, passGuarantor{}, store)

	rec := postCheckout(router, newAddressBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp checkoutResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "order-1", resp.OrderID)
	assert.Equal(t, "ORD-000001", resp.OrderNumber)
	assert.Equal(t, int64(2400), resp.TotalCents)
	assert.Equal(t, []string{"cart-1"}, carts.cleared)
}

func TestCheckoutHandlerEmptyCart(t *testing.T) {
	carts := &stubCartRepo{cart: domain.Cart{ID: "cart-1", UserID: "user-1"}}
	router := checkoutRouter(carts, passGuarantor{}, &stubOrderStore{})

	rec := postCheckout(router, newAddressBody)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "empty_cart")
	assert.Empty(t, carts.cleared)
}

func TestCheckoutHandlerValidation(t *testing.T) {
	carts := &stubCartRepo{cart: stockedCart()}
	router := checkoutRouter(carts, passGuarantor{}, &stubOrderStore{})

	rec := postCheckout(router, `{"newAddress": {"fullName": "Amina B"}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Kind   string            `json:"kind"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation", resp.Kind)
	assert.Contains(t, resp.Fields, "city")
	assert.Contains(t, resp.Fields, "phone")
}

func TestCheckoutHandlerSessionExpired(t *testing.T) {
	carts := &stubCartRepo{cart: stockedCart()}
	router := checkoutRouter(carts, passGuarantor{err: sessionsvc.ErrExpired}, &stubOrderStore{})

	rec := postCheckout(router, newAddressBody)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "session_expired")
	assert.Empty(t, carts.cleared)
}

func TestCheckoutHandlerInconsistent(t *testing.T) {
	carts := &stubCartRepo{cart: stockedCart()}
	store := &stubOrderStore{lineErr: context.DeadlineExceeded}
	router := checkoutRouter(carts, passGuarantor{}, store)

	rec := postCheckout(router, newAddressBody)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "inconsistent")
	assert.Empty(t, carts.cleared)
}

func TestCheckoutHandlerBadBody(t *testing.T) {
	router := checkoutRouter(&stubCartRepo{cart: stockedCart()}, passGuarantor{}, &stubOrderStore{})

	rec := postCheckout(router, `{"newAddress": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
