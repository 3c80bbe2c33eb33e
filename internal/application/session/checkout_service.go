package session

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/session"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// OrderPlacer submits orders
type OrderPlacer interface {
	Create(ctx context.Context, userID uuid.UUID, input order.CreateOrderInput) (*order.OrderResponse, error)
}

// CheckoutService turns a session's cart into an order
type CheckoutService struct {
	orders  OrderPlacer
	policy  pricing.Policy
	metrics *telemetry.SessionMetrics
	logger  *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(orders OrderPlacer, policy pricing.Policy, metrics *telemetry.SessionMetrics, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		orders:  orders,
		policy:  policy,
		metrics: metrics,
		logger:  logger,
	}
}

// PreviewTotals derives the order totals of the current cart
func (s *CheckoutService) PreviewTotals(store *Store) pricing.Totals {
	return s.Totals(store.State())
}

// Totals derives the order totals of the cart in state
func (s *CheckoutService) Totals(state session.State) pricing.Totals {
	return s.policy.ComputeCart(state.Cart.Items)
}

// PlaceOrder submits the cart as an order and clears the cart on success
func (s *CheckoutService) PlaceOrder(ctx context.Context, store *Store) (*order.OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "place_order",
		attribute.String("session.id", store.ID()),
	)
	defer span.End()

	state := store.State()

	input, userID, err := s.orderInput(state)
	if err != nil {
		s.metrics.RecordCheckout(ctx, "rejected")
		telemetry.RecordError(span, err)
		return nil, err
	}

	placed, err := s.orders.Create(ctx, userID, input)
	if err != nil {
		outcome := "failed"
		var de *shared.DomainError
		if errors.As(err, &de) {
			outcome = "rejected"
		}
		s.metrics.RecordCheckout(ctx, outcome)
		telemetry.RecordError(span, err)
		return nil, err
	}

	store.Dispatch(ctx, session.ClearCart{})
	s.metrics.RecordCheckout(ctx, "placed")
	span.SetAttributes(attribute.String("order.id", placed.ID.String()))
	telemetry.SetOK(span)
	s.logger.Info("Checkout complete",
		zap.String("session_id", store.ID()),
		zap.String("order_id", placed.ID.String()),
		zap.String("trace_id", telemetry.GetTraceID(ctx)),
	)
	return placed, nil
}

func (s *CheckoutService) orderInput(state session.State) (order.CreateOrderInput, uuid.UUID, error) {
	if !state.SignedIn() {
		return order.CreateOrderInput{}, uuid.Nil, shared.NewDomainError("UNAUTHORIZED", "Sign in to place an order")
	}
	userID, err := uuid.Parse(state.Identity.ID)
	if err != nil {
		return order.CreateOrderInput{}, uuid.Nil, shared.NewDomainError("UNAUTHORIZED", "Session identity is invalid")
	}
	if len(state.Cart.Items) == 0 {
		return order.CreateOrderInput{}, uuid.Nil, shared.ErrEmptyCart
	}
	if state.Cart.ShippingAddress == nil {
		return order.CreateOrderInput{}, uuid.Nil, shared.NewDomainError("INVALID_INPUT", "Shipping address is required")
	}
	if state.Cart.PaymentMethod == "" {
		return order.CreateOrderInput{}, uuid.Nil, shared.NewDomainError("INVALID_INPUT", "Payment method is required")
	}

	items := make([]order.OrderItemInput, 0, len(state.Cart.Items))
	for _, line := range state.Cart.Items {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return order.CreateOrderInput{}, uuid.Nil, shared.NewDomainError("INVALID_INPUT", "Cart holds an invalid product ID")
		}
		items = append(items, order.OrderItemInput{
			ProductID: productID,
			Slug:      line.Slug,
			Name:      line.Name,
			Image:     line.Image,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
	}

	addr := state.Cart.ShippingAddress
	totals := s.policy.ComputeCart(state.Cart.Items)
	return order.CreateOrderInput{
		OrderItems: items,
		ShippingAddress: order.ShippingAddressInput{
			FullName:   addr.FullName,
			Address:    addr.Address,
			City:       addr.City,
			PostalCode: addr.PostalCode,
			Country:    addr.Country,
		},
		PaymentMethod: state.Cart.PaymentMethod,
		ItemsPrice:    totals.ItemsPrice,
		ShippingPrice: totals.ShippingPrice,
		TaxPrice:      totals.TaxPrice,
		TotalPrice:    totals.TotalPrice,
	}, userID, nil
}
