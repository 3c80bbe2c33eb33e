package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderService places orders and tracks payment and delivery
type OrderService struct {
	orderRepo order.Repository
	policy    pricing.Policy
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo order.Repository, policy pricing.Policy, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		policy:    policy,
		logger:    logger,
	}
}

// Create places an order for userID. The submitted totals must match what the
// calculator derives from the submitted lines.
func (s *OrderService) Create(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*OrderResponse, error) {
	if len(input.OrderItems) == 0 {
		return nil, shared.ErrEmptyCart
	}

	items := make([]order.Item, len(input.OrderItems))
	for i, in := range input.OrderItems {
		items[i] = order.Item{
			ProductID: in.ProductID,
			Slug:      in.Slug,
			Name:      in.Name,
			Image:     in.Image,
			Quantity:  in.Quantity,
			Price:     in.Price,
		}
	}
	address := order.ShippingAddress{
		FullName:   input.ShippingAddress.FullName,
		Address:    input.ShippingAddress.Address,
		City:       input.ShippingAddress.City,
		PostalCode: input.ShippingAddress.PostalCode,
		Country:    input.ShippingAddress.Country,
	}

	lines := make([]pricing.Line, len(items))
	for i, item := range items {
		lines[i] = pricing.Line{Price: item.Price, Quantity: item.Quantity}
	}
	totals := s.policy.Compute(lines)
	if !totals.Equal(input.Totals()) {
		s.logger.Warn("Order totals mismatch",
			zap.String("user_id", userID.String()),
			zap.String("submitted_total", input.TotalPrice.StringFixed(2)),
			zap.String("computed_total", totals.TotalPrice.StringFixed(2)),
		)
		return nil, shared.ErrTotalsMismatch
	}

	o, err := order.NewOrder(userID, items, address, input.PaymentMethod, totals)
	if err != nil {
		return nil, err
	}
	if err := s.orderRepo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_id", o.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("total_price", o.TotalPrice.StringFixed(2)),
	)
	resp := ToOrderResponse(o)
	return &resp, nil
}

// GetByID returns an order visible to the requester
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID, requester Requester) (*OrderResponse, error) {
	o, err := s.load(ctx, id, requester)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// ListMine returns the requester's orders, newest first
func (s *OrderService) ListMine(ctx context.Context, userID uuid.UUID, page, pageSize int) (shared.Paginated[OrderResponse], error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	orders, total, err := s.orderRepo.FindByUser(ctx, userID, filter)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	items := make([]OrderResponse, len(orders))
	for i := range orders {
		items[i] = ToOrderResponse(&orders[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// Pay records the payment result on an order owned by the requester
func (s *OrderService) Pay(ctx context.Context, id uuid.UUID, requester Requester, input PayOrderInput) (*OrderResponse, error) {
	o, err := s.load(ctx, id, requester)
	if err != nil {
		return nil, err
	}
	if err := o.MarkPaid(order.PaymentResult{
		ID:           input.ID,
		Status:       input.Status,
		UpdateTime:   input.UpdateTime,
		EmailAddress: input.EmailAddress,
	}); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("Order paid", zap.String("order_id", o.ID.String()), zap.String("payment_id", input.ID))
	resp := ToOrderResponse(o)
	return &resp, nil
}

// Deliver marks a paid order delivered. Admin only.
func (s *OrderService) Deliver(ctx context.Context, id uuid.UUID, requester Requester) (*OrderResponse, error) {
	if !requester.IsAdmin {
		return nil, shared.ErrForbidden
	}
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.MarkDelivered(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("Order delivered", zap.String("order_id", o.ID.String()))
	resp := ToOrderResponse(o)
	return &resp, nil
}

// load fetches an order and hides other users' orders from non-admins
func (s *OrderService) load(ctx context.Context, id uuid.UUID, requester Requester) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !requester.IsAdmin && !o.OwnedBy(requester.UserID) {
		return nil, shared.ErrNotFound
	}
	return o, nil
}
