package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/session"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StockPolicy decides where the stock figure for an add or update comes from
type StockPolicy string

const (
	// StockRefresh re-reads the product on every add or update
	StockRefresh StockPolicy = "refresh"
	// StockCached trusts the countInStock already on the cart line
	StockCached StockPolicy = "cached"
)

// ParseStockPolicy parses a configured policy name
func ParseStockPolicy(name string) (StockPolicy, error) {
	switch StockPolicy(strings.ToLower(strings.TrimSpace(name))) {
	case "", StockRefresh:
		return StockRefresh, nil
	case StockCached:
		return StockCached, nil
	default:
		return "", fmt.Errorf("unknown stock policy %q", name)
	}
}

// CartService gates cart changes on stock before dispatching them
type CartService struct {
	productRepo catalog.ProductRepository
	policy      StockPolicy
	logger      *zap.Logger
}

// NewCartService creates a new CartService
func NewCartService(productRepo catalog.ProductRepository, policy StockPolicy, logger *zap.Logger) *CartService {
	return &CartService{
		productRepo: productRepo,
		policy:      policy,
		logger:      logger,
	}
}

// AddItem puts one more unit of productID in the cart, or adds it with quantity 1
func (s *CartService) AddItem(ctx context.Context, store *Store, productID string) (session.State, error) {
	return s.setLine(ctx, store, productID, func(current int) int { return current + 1 })
}

// SetQuantity sets the cart quantity of productID, adding the line if needed
func (s *CartService) SetQuantity(ctx context.Context, store *Store, productID string, quantity int) (session.State, error) {
	if quantity < 1 {
		return session.State{}, shared.NewDomainError("INVALID_INPUT", "Quantity must be at least 1")
	}
	return s.setLine(ctx, store, productID, func(int) int { return quantity })
}

// setLine reads the current line, checks stock and dispatches under the store
// lock, so concurrent changes to one session never act on a stale quantity.
func (s *CartService) setLine(ctx context.Context, store *Store, productID string, quantityFor func(current int) int) (session.State, error) {
	return store.Update(ctx, func(state session.State) (session.Action, error) {
		existing, inCart := state.Cart.Find(productID)
		quantity := quantityFor(existing.Quantity)

		item, err := s.lineFor(ctx, productID, existing, inCart)
		if err != nil {
			return nil, err
		}
		if item.CountInStock < quantity {
			s.logger.Info("Cart change rejected, out of stock",
				zap.String("product_id", productID),
				zap.Int("quantity", quantity),
				zap.Int("count_in_stock", item.CountInStock),
			)
			return nil, shared.ErrOutOfStock
		}
		return session.AddItem{Item: item, Quantity: quantity}, nil
	})
}

// RemoveItem drops productID from the cart
func (s *CartService) RemoveItem(ctx context.Context, store *Store, productID string) session.State {
	return store.Dispatch(ctx, session.RemoveItem{ProductID: productID})
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, store *Store) session.State {
	return store.Dispatch(ctx, session.ClearCart{})
}

// SaveShippingAddress stores a complete shipping address
func (s *CartService) SaveShippingAddress(ctx context.Context, store *Store, address session.Address) (session.State, error) {
	if err := address.Validate(); err != nil {
		return session.State{}, err
	}
	return store.Dispatch(ctx, session.SaveShippingAddress{Address: address}), nil
}

// SavePaymentMethod stores the chosen payment method name
func (s *CartService) SavePaymentMethod(ctx context.Context, store *Store, name string) (session.State, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return session.State{}, shared.NewDomainError("INVALID_INPUT", "Payment method is required")
	}
	return store.Dispatch(ctx, session.SavePaymentMethod{Name: name}), nil
}

// lineFor builds the cart line for productID according to the stock policy
func (s *CartService) lineFor(ctx context.Context, productID string, existing session.CartLineItem, inCart bool) (session.CartLineItem, error) {
	if s.policy == StockCached && inCart {
		return existing, nil
	}

	id, err := uuid.Parse(productID)
	if err != nil {
		return session.CartLineItem{}, shared.NewDomainError("INVALID_INPUT", "Invalid product ID")
	}
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return session.CartLineItem{}, shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return session.CartLineItem{}, err
	}
	return LineFromProduct(product), nil
}

// LineFromProduct snapshots a product into a cart line
func LineFromProduct(p *catalog.Product) session.CartLineItem {
	return session.CartLineItem{
		ProductID:    p.ID.String(),
		Slug:         p.Slug,
		Name:         p.Name,
		Image:        p.Image,
		Price:        p.Price,
		CountInStock: p.CountInStock,
	}
}
