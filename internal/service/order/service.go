package order

import (
	"context"
	"errors"
	"strings"

	"storefront-orders/internal/domain"
	orderrepo "storefront-orders/internal/repository/order"
)

// ErrInvalidStatus is returned when a status update names a value outside
// the enumeration.
var ErrInvalidStatus = errors.New("invalid status")

// Service exposes order reads for the storefront and status updates for the
// back office. The checkout pipeline never calls UpdateStatus.
type Service struct {
	repo orderrepo.Repository
}

func New(repo orderrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, userID, id string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]domain.Order, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

type StatusInput struct {
	OrderStatus   string `json:"orderStatus"`
	PaymentStatus string `json:"paymentStatus"`
}

// UpdateStatus applies a back-office status change. Empty fields are left
// untouched.
func (s *Service) UpdateStatus(ctx context.Context, id string, in StatusInput) (*domain.Order, error) {
	update := orderrepo.StatusUpdate{}
	if v := strings.TrimSpace(in.OrderStatus); v != "" {
		if !domain.ValidOrderStatus(v) {
			return nil, ErrInvalidStatus
		}
		update.OrderStatus = &v
	}
	if v := strings.TrimSpace(in.PaymentStatus); v != "" {
		if !domain.ValidPaymentStatus(v) {
			return nil, ErrInvalidStatus
		}
		update.PaymentStatus = &v
	}
	if update.OrderStatus == nil && update.PaymentStatus == nil {
		return nil, ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, update)
}
