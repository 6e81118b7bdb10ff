package checkout

import (
	"context"
	"errors"
	"fmt"

	"storefront-orders/internal/domain"
	orderrepo "storefront-orders/internal/repository/order"
	"storefront-orders/internal/service/address"
	"storefront-orders/internal/service/session"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State names a step of the submission pipeline. The failing state is
// recorded on the returned Error.
type State string

const (
	StateIdle             State = "idle"
	StateValidating       State = "validating"
	StateResolvingAddress State = "resolving_address"
	StateGeneratingNumber State = "generating_number"
	StateCreatingOrder    State = "creating_order"
	StateCreatingLines    State = "creating_lines"
	StateSucceeded        State = "succeeded"
)

// numberAttempts bounds the regenerate-and-retry loop when two submissions
// race to the same order number.
const numberAttempts = 3

type sessionGuarantor interface {
	EnsureValid(ctx context.Context, sess *session.Session) error
}

type addressResolver interface {
	Resolve(ctx context.Context, userID string, in address.Input) (string, error)
}

type orderStore interface {
	Create(ctx context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error)
	CreateLines(ctx context.Context, orderID string, lines []orderrepo.LineInput) error
	LastOrderNumber(ctx context.Context) (string, error)
	LatestByUser(ctx context.Context, userID string) (*domain.Order, error)
	GetByID(ctx context.Context, userID, id string) (*domain.Order, error)
}

type cartStore interface {
	Clear(ctx context.Context, cartID string) error
}

// Service sequences one order submission: validate, resolve the address,
// generate the number, write the header, write the lines, clear the cart.
// It owns all error translation; lower components surface raw failures.
type Service struct {
	sessions         sessionGuarantor
	addresses        addressResolver
	orders           orderStore
	carts            cartStore
	deliveryFeeCents int64
	logger           *zap.Logger
}

func New(sessions sessionGuarantor, addresses addressResolver, orders orderStore, carts cartStore, deliveryFeeCents int64, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sessions:         sessions,
		addresses:        addresses,
		orders:           orders,
		carts:            carts,
		deliveryFeeCents: deliveryFeeCents,
		logger:           logger,
	}
}

// SubmitInput is one user-initiated submission attempt. Cart is an
// immutable snapshot supplied by the cart collaborator.
type SubmitInput struct {
	Cart    domain.Cart
	Address address.Input
	Notes   string
}

// Submit runs the pipeline exactly once. Transient failures are not
// auto-retried; the user resubmits and the whole pipeline re-runs. On
// failure the cart is left intact so the user does not re-enter items.
//
// The session is re-validated before each store-dependent step because the
// credential's lifetime is not guaranteed to span the whole pipeline.
func (s *Service) Submit(ctx context.Context, sess *session.Session, in SubmitInput) (*domain.Order, error) {
	submissionID := uuid.NewString()
	log := s.logger.With(zap.String("submissionId", submissionID), zap.String("userId", sess.UserID))

	// Validating: everything here is pre-network; no store call happens
	// until the input is known to be well formed.
	if len(in.Cart.Lines) == 0 {
		return nil, &Error{Kind: KindEmptyCart, State: StateValidating}
	}
	if fields := validateLines(in.Cart.Lines); len(fields) > 0 {
		return nil, &Error{Kind: KindValidation, State: StateValidating, Fields: fields}
	}
	if in.Address.SavedID == "" {
		if in.Address.Form == nil {
			return nil, &Error{
				Kind:   KindValidation,
				State:  StateValidating,
				Fields: map[string]string{"address": "saved address or new address required"},
			}
		}
		if verr := address.ValidateForm(*in.Address.Form); verr != nil {
			return nil, &Error{Kind: KindValidation, State: StateValidating, Fields: verr.Fields}
		}
	}

	// ResolvingAddress.
	if err := s.sessions.EnsureValid(ctx, sess); err != nil {
		return nil, s.translate(err, StateResolvingAddress)
	}
	addressID, err := s.addresses.Resolve(ctx, sess.UserID, in.Address)
	if err != nil {
		return nil, s.translate(err, StateResolvingAddress)
	}

	// GeneratingNumber.
	number, err := s.nextOrderNumber(ctx)
	if err != nil {
		return nil, s.translate(err, StateGeneratingNumber)
	}

	// CreatingOrder.
	if err := s.sessions.EnsureValid(ctx, sess); err != nil {
		return nil, s.translate(err, StateCreatingOrder)
	}
	order, err := s.createOrder(ctx, sess.UserID, addressID, number, in)
	if err != nil {
		return nil, s.translate(err, StateCreatingOrder)
	}
	log = log.With(zap.String("orderId", order.ID), zap.String("orderNumber", order.OrderNumber))

	// CreatingLines.
	if err := s.sessions.EnsureValid(ctx, sess); err != nil {
		return nil, s.translate(err, StateCreatingLines)
	}
	if err := s.createLines(ctx, sess.UserID, order, in.Cart.Lines, log); err != nil {
		return nil, err
	}

	// Succeeded: the cart snapshot is destroyed only now, after address,
	// header and lines are all durable.
	if in.Cart.ID != "" {
		if err := s.carts.Clear(ctx, in.Cart.ID); err != nil {
			log.Warn("order created but cart not cleared", zap.Error(err))
		}
	}
	log.Info("order submitted", zap.Int64("totalCents", order.TotalCents))
	return order, nil
}

func (s *Service) createOrder(ctx context.Context, userID, addressID, number string, in SubmitInput) (*domain.Order, error) {
	input := orderrepo.CreateOrderInput{
		OrderNumber:      number,
		UserID:           userID,
		AddressID:        addressID,
		TotalCents:       in.Cart.TotalCents() + s.deliveryFeeCents,
		DeliveryFeeCents: s.deliveryFeeCents,
		PaymentMethod:    domain.PaymentMethodCOD,
		Notes:            in.Notes,
	}

	for attempt := 0; attempt < numberAttempts; attempt++ {
		created, err := s.orders.Create(ctx, input)
		if err == nil {
			if created != nil && created.ID != "" {
				return created, nil
			}
			// Ambiguous ack: recover the header instead of re-submitting,
			// which would create a second order.
			latest, err := s.orders.LatestByUser(ctx, userID)
			if err != nil {
				return nil, fmt.Errorf("recover order id: %w", err)
			}
			return latest, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			// Lost the order-number race; regenerate and try again.
			next, nerr := s.nextOrderNumber(ctx)
			if nerr != nil {
				return nil, nerr
			}
			input.OrderNumber = next
			continue
		}
		return nil, err
	}
	return nil, fmt.Errorf("order number contention after %d attempts", numberAttempts)
}

func (s *Service) createLines(ctx context.Context, userID string, order *domain.Order, lines []domain.CartLine, log *zap.Logger) error {
	inputs := make([]orderrepo.LineInput, 0, len(lines))
	for _, line := range lines {
		inputs = append(inputs, orderrepo.LineInput{
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			Size:           line.Size,
			Color:          line.Color,
		})
	}

	err := s.orders.CreateLines(ctx, order.ID, inputs)
	if err == nil {
		return nil
	}

	// Decide whether the header survived. If it did, the order is visibly
	// incomplete and needs manual reconciliation, which is a different
	// failure than "nothing was created, just retry".
	if _, lookupErr := s.orders.GetByID(ctx, userID, order.ID); errors.Is(lookupErr, domain.ErrNotFound) {
		return &Error{Kind: KindLineCreate, State: StateCreatingLines, cause: err}
	}
	log.Error("order header exists without lines, needs reconciliation",
		zap.String("orderId", order.ID),
		zap.String("orderNumber", order.OrderNumber),
		zap.Error(err),
	)
	return &Error{Kind: KindInconsistent, State: StateCreatingLines, OrderID: order.ID, cause: err}
}

// translate maps component failures onto the taxonomy. Raw transport errors
// never reach the caller.
func (s *Service) translate(err error, state State) *Error {
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	var verr *address.ValidationError
	switch {
	case errors.As(err, &verr):
		return &Error{Kind: KindValidation, State: state, Fields: verr.Fields, cause: err}
	case errors.Is(err, session.ErrExpired):
		return &Error{Kind: KindSessionExpired, State: state, cause: err}
	case errors.Is(err, domain.ErrNotFound) && state == StateResolvingAddress:
		return &Error{Kind: KindAddressNotFound, State: state, cause: err}
	default:
		return &Error{Kind: KindOrderCreate, State: state, cause: err}
	}
}

func validateLines(lines []domain.CartLine) map[string]string {
	fields := map[string]string{}
	for i, line := range lines {
		if line.ProductID == "" {
			fields[fmt.Sprintf("lines[%d].productId", i)] = "required"
		}
		if line.Quantity <= 0 {
			fields[fmt.Sprintf("lines[%d].quantity", i)] = "must be positive"
		}
		if line.UnitPriceCents < 0 {
			fields[fmt.Sprintf("lines[%d].unitPriceCents", i)] = "must not be negative"
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
