package order

import (
	"context"
	"errors"
	"testing"

	"storefront-orders/internal/domain"
	orderrepo "storefront-orders/internal/repository/order"
)

type fakeRepo struct {
	orderrepo.Repository

	listLimit  int
	listOffset int
	updated    orderrepo.StatusUpdate
	updateID   string
}

func (r *fakeRepo) List(_ context.Context, limit, offset int) ([]domain.Order, error) {
	r.listLimit = limit
	r.listOffset = offset
	return nil, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id string, in orderrepo.StatusUpdate) (*domain.Order, error) {
	r.updateID = id
	r.updated = in
	return &domain.Order{ID: id}, nil
}

func TestListClampsPagination(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo)

	tests := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{limit: 0, offset: 0, wantLimit: 50, wantOffset: 0},
		{limit: -1, offset: -5, wantLimit: 50, wantOffset: 0},
		{limit: 25, offset: 10, wantLimit: 25, wantOffset: 10},
		{limit: 500, offset: 0, wantLimit: 50, wantOffset: 0},
	}
	for _, tt := range tests {
		if _, err := svc.List(context.Background(), tt.limit, tt.offset); err != nil {
			t.Fatalf("list(%d,%d): %v", tt.limit, tt.offset, err)
		}
		if repo.listLimit != tt.wantLimit || repo.listOffset != tt.wantOffset {
			t.Fatalf("list(%d,%d): got limit=%d offset=%d, want limit=%d offset=%d",
				tt.limit, tt.offset, repo.listLimit, repo.listOffset, tt.wantLimit, tt.wantOffset)
		}
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo)

	o, err := svc.UpdateStatus(context.Background(), "order-1", StatusInput{
		OrderStatus:   " confirmed ",
		PaymentStatus: "paid",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if o.ID != "order-1" || repo.updateID != "order-1" {
		t.Fatalf("wrong order targeted: %s / %s", o.ID, repo.updateID)
	}
	if repo.updated.OrderStatus == nil || *repo.updated.OrderStatus != domain.OrderStatusConfirmed {
		t.Fatalf("expected trimmed order status, got %v", repo.updated.OrderStatus)
	}
	if repo.updated.PaymentStatus == nil || *repo.updated.PaymentStatus != domain.PaymentStatusPaid {
		t.Fatalf("expected payment status, got %v", repo.updated.PaymentStatus)
	}
}

func TestUpdateStatusPartial(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo)

	if _, err := svc.UpdateStatus(context.Background(), "order-1", StatusInput{OrderStatus: "shipped"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if repo.updated.PaymentStatus != nil {
		t.Fatal("empty payment status must be left untouched")
	}
}

func TestUpdateStatusRejectsUnknownValues(t *testing.T) {
	repo := &fakeRepo{}
	svc := New(repo)

	cases := []StatusInput{
		{OrderStatus: "teleported"},
		{PaymentStatus: "maybe"},
		{}, // nothing to change
	}
	for _, in := range cases {
		if _, err := svc.UpdateStatus(context.Background(), "order-1", in); !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("input %+v: expected ErrInvalidStatus, got %v", in, err)
		}
	}
}
