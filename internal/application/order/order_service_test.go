package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]order.Order, int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]order.Order), args.Get(1).(int64), args.Error(2)
}

func validInput() CreateOrderInput {
	return CreateOrderInput{
		OrderItems: []OrderItemInput{
			{ProductID: uuid.New(), Slug: "nike-slim-pant", Name: "Nike Slim Pant", Quantity: 2, Price: decimal.NewFromInt(25)},
		},
		ShippingAddress: ShippingAddressInput{
			FullName: "Jane Doe", Address: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US",
		},
		PaymentMethod: "PayPal",
		ItemsPrice:    decimal.RequireFromString("50.00"),
		ShippingPrice: decimal.RequireFromString("10.00"),
		TaxPrice:      decimal.RequireFromString("7.50"),
		TotalPrice:    decimal.RequireFromString("67.50"),
	}
}

func newTestService() (*OrderService, *MockOrderRepository) {
	repo := new(MockOrderRepository)
	return NewOrderService(repo, pricing.DefaultPolicy(), zap.NewNop()), repo
}

func placedOrder(t *testing.T, userID uuid.UUID) *order.Order {
	t.Helper()
	in := validInput()
	o, err := order.NewOrder(userID, []order.Item{{
		ProductID: in.OrderItems[0].ProductID,
		Slug:      in.OrderItems[0].Slug,
		Name:      in.OrderItems[0].Name,
		Quantity:  2,
		Price:     decimal.NewFromInt(25),
	}}, order.ShippingAddress{FullName: "Jane", Address: "1 Main", City: "T", PostalCode: "1", Country: "US"}, "PayPal", in.Totals())
	require.NoError(t, err)
	return o
}

func TestOrderService_Create(t *testing.T) {
	svc, repo := newTestService()
	userID := uuid.New()

	repo.On("Create", mock.Anything, mock.MatchedBy(func(o *order.Order) bool {
		return o.UserID == userID && len(o.Items) == 1 && o.TotalPrice.Equal(decimal.RequireFromString("67.50"))
	})).Return(nil)

	resp, err := svc.Create(context.Background(), userID, validInput())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, userID, resp.User)
	assert.False(t, resp.IsPaid)
	assert.Equal(t, "7.5", resp.TaxPrice.String())
	repo.AssertExpectations(t)
}

func TestOrderService_Create_TotalsMismatch(t *testing.T) {
	svc, repo := newTestService()
	in := validInput()
	in.TotalPrice = decimal.RequireFromString("57.50")

	_, err := svc.Create(context.Background(), uuid.New(), in)
	assert.ErrorIs(t, err, shared.ErrTotalsMismatch)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderService_Create_Validation(t *testing.T) {
	svc, _ := newTestService()

	empty := validInput()
	empty.OrderItems = nil
	_, err := svc.Create(context.Background(), uuid.New(), empty)
	assert.ErrorIs(t, err, shared.ErrEmptyCart)

	noPayment := validInput()
	noPayment.PaymentMethod = " "
	_, err = svc.Create(context.Background(), uuid.New(), noPayment)
	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_PAYMENT_METHOD", de.Code)
}

func TestOrderService_GetByID_Visibility(t *testing.T) {
	svc, repo := newTestService()
	owner := uuid.New()
	o := placedOrder(t, owner)
	repo.On("FindByID", mock.Anything, o.ID).Return(o, nil)

	resp, err := svc.GetByID(context.Background(), o.ID, Requester{UserID: owner})
	require.NoError(t, err)
	assert.Equal(t, o.ID, resp.ID)

	_, err = svc.GetByID(context.Background(), o.ID, Requester{UserID: uuid.New()})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.GetByID(context.Background(), o.ID, Requester{UserID: uuid.New(), IsAdmin: true})
	assert.NoError(t, err)
}

func TestOrderService_ListMine(t *testing.T) {
	svc, repo := newTestService()
	owner := uuid.New()
	orders := []order.Order{*placedOrder(t, owner), *placedOrder(t, owner)}

	repo.On("FindByUser", mock.Anything, owner, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20
	})).Return(orders, int64(2), nil)

	page, err := svc.ListMine(context.Background(), owner, 0, 0)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.Total)
}

func TestOrderService_PayThenDeliver(t *testing.T) {
	svc, repo := newTestService()
	owner := uuid.New()
	o := placedOrder(t, owner)
	repo.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	repo.On("Update", mock.Anything, o).Return(nil)

	_, err := svc.Deliver(context.Background(), o.ID, Requester{UserID: uuid.New(), IsAdmin: true})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	resp, err := svc.Pay(context.Background(), o.ID, Requester{UserID: owner}, PayOrderInput{
		ID: "PAY-1", Status: "COMPLETED", UpdateTime: "2026-10-16T10:00:00Z", EmailAddress: "jane@example.com",
	})
	require.NoError(t, err)
	assert.True(t, resp.IsPaid)
	require.NotNil(t, resp.PaymentResult)
	assert.Equal(t, "PAY-1", resp.PaymentResult.ID)

	_, err = svc.Pay(context.Background(), o.ID, Requester{UserID: owner}, PayOrderInput{ID: "PAY-2", Status: "COMPLETED"})
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	_, err = svc.Deliver(context.Background(), o.ID, Requester{UserID: owner})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	resp, err = svc.Deliver(context.Background(), o.ID, Requester{UserID: uuid.New(), IsAdmin: true})
	require.NoError(t, err)
	assert.True(t, resp.IsDelivered)
	assert.NotNil(t, resp.DeliveredAt)
}
