package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/storefront/backend/internal/application/identity"
	orderapp "github.com/storefront/backend/internal/application/order"
	sessionapp "github.com/storefront/backend/internal/application/session"
	"github.com/storefront/backend/internal/domain/pricing"
	"github.com/storefront/backend/internal/domain/session"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// SessionHandler exposes the shopper session: cart, checkout details and sign-in state
type SessionHandler struct {
	BaseHandler
	registry *sessionapp.Registry
	cart     *sessionapp.CartService
	checkout *sessionapp.CheckoutService
	auth     *identityapp.AuthService
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(
	registry *sessionapp.Registry,
	cart *sessionapp.CartService,
	checkout *sessionapp.CheckoutService,
	authService *identityapp.AuthService,
) *SessionHandler {
	return &SessionHandler{
		registry: registry,
		cart:     cart,
		checkout: checkout,
		auth:     authService,
	}
}

// SessionResponse is the session snapshot returned by every session endpoint
type SessionResponse struct {
	SessionID string                `json:"sessionId" example:"7b0e4c1a-3f0e-4a55-9a57-5f0f2c1d9e11"`
	UserInfo  *session.UserIdentity `json:"userInfo"`
	Cart      session.CartState     `json:"cart"`
	ItemCount int                   `json:"itemCount" example:"3"`
	Totals    pricing.Totals        `json:"totals"`
}

// AddCartItemRequest adds a product. Without a quantity one more unit is added.
type AddCartItemRequest struct {
	ProductID string `json:"productId" binding:"required" example:"5f0f2c1d-9e11-4a55-9a57-7b0e4c1a3f0e"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1" example:"2"`
}

// UpdateCartItemRequest sets the quantity of a cart line
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1" example:"3"`
}

// ShippingAddressRequest is the shipping step form
type ShippingAddressRequest struct {
	FullName   string `json:"fullName" binding:"required" example:"Jane Doe"`
	Address    string `json:"address" binding:"required" example:"1 Main St"`
	City       string `json:"city" binding:"required" example:"Springfield"`
	PostalCode string `json:"postalCode" binding:"required" example:"12345"`
	Country    string `json:"country" binding:"required" example:"US"`
}

// PaymentMethodRequest is the payment step form
type PaymentMethodRequest struct {
	PaymentMethod string `json:"paymentMethod" binding:"required" example:"PayPal"`
}

// CheckoutResponse carries the placed order and the emptied session
type CheckoutResponse struct {
	OrderID uuid.UUID               `json:"orderId"`
	Order   *orderapp.OrderResponse `json:"order"`
	Session SessionResponse         `json:"session"`
}

func (h *SessionHandler) store(c *gin.Context) *sessionapp.Store {
	return h.registry.Get(c.Request.Context(), middleware.GetSessionID(c))
}

func (h *SessionHandler) view(store *sessionapp.Store, state session.State) SessionResponse {
	return SessionResponse{
		SessionID: store.ID(),
		UserInfo:  state.Identity,
		Cart:      state.Cart,
		ItemCount: state.Cart.ItemCount(),
		Totals:    h.checkout.Totals(state),
	}
}

func (h *SessionHandler) respond(c *gin.Context, store *sessionapp.Store, state session.State) {
	h.Success(c, h.view(store, state))
}

// requireIdentity checks that the session is signed in with a token that is
// still valid and not revoked. It writes the 401 itself.
func (h *SessionHandler) requireIdentity(c *gin.Context, store *sessionapp.Store) (*auth.Claims, bool) {
	state := store.State()
	if !state.SignedIn() {
		h.Unauthorized(c, "Sign in to continue")
		return nil, false
	}

	claims, err := h.auth.Authenticate(c.Request.Context(), state.Identity.Token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			h.Error(c, dto.GetHTTPStatus(dto.ErrCodeTokenExpired), dto.ErrCodeTokenExpired, "Session sign-in has expired")
		case errors.Is(err, auth.ErrTokenRevoked):
			h.Error(c, dto.GetHTTPStatus(dto.ErrCodeTokenRevoked), dto.ErrCodeTokenRevoked, "Session sign-in has been revoked")
		case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrTokenNotYetValid):
			h.Error(c, dto.GetHTTPStatus(dto.ErrCodeTokenInvalid), dto.ErrCodeTokenInvalid, "Session sign-in is invalid")
		default:
			h.HandleError(c, err)
		}
		return nil, false
	}
	return claims, true
}

// Get godoc
// @ID           getSession
// @Summary      Get the current session
// @Description  Returns the signed-in identity, the cart and its computed totals
// @Tags         session
// @Produce      json
// @Param        X-Session-ID header string false "Session ID"
// @Success      200 {object} dto.Response{data=SessionResponse}
// @Router       /session [get]
func (h *SessionHandler) Get(c *gin.Context) {
	store := h.store(c)
	h.respond(c, store, store.State())
}

// AddItem godoc
// @ID           addCartItem
// @Summary      Add a product to the cart
// @Description  Re-adding a product replaces its quantity. Rejected when stock is insufficient.
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string false "Session ID"
// @Param        request body AddCartItemRequest true "Product and quantity"
// @Success      200 {object} dto.Response{data=SessionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /session/cart/items [post]
func (h *SessionHandler) AddItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	store := h.store(c)
	var (
		state session.State
		err   error
	)
	if req.Quantity > 0 {
		state, err = h.cart.SetQuantity(c.Request.Context(), store, req.ProductID, req.Quantity)
	} else {
		state, err = h.cart.AddItem(c.Request.Context(), store, req.ProductID)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.respond(c, store, state)
}

// UpdateItem godoc
// @ID           updateCartItem
// @Summary      Change a cart line quantity
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string false "Session ID"
// @Param        productId path string true "Product ID"
// @Param        request body UpdateCartItemRequest true "New quantity"
// @Success      200 {object} dto.Response{data=SessionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /session/cart/items/{productId} [patch]
func (h *SessionHandler) UpdateItem(c *gin.Context) {
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	store := h.store(c)
	state, err := h.cart.SetQuantity(c.Request.Context(), store, c.Param("productId"), req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.respond(c, store, state)
}

// RemoveItem godoc
// @ID           removeCartItem
// @Summary      Remove a product from the cart
// @Tags         session
// @Produce      json
// @Param        X-Session-ID header string false "Session ID"
// @Param        productId path string true "Product ID"
// @Success      200 {object} dto.Response{data=SessionResponse}
// @Router       /session/cart/items/{productId} [delete]
func (h *SessionHandler) RemoveItem(c *gin.Context) {
	store := h.store(c)
	h.respond(c, store, h.cart.RemoveItem(c.Request.Context(), store, c.Param("productId")))
}

// ClearCart godoc
// @ID           clearCart
// @Summary      Empty the cart
// @Tags         session
// @Produce      json
// @Param        X-Session-ID header string false "Session ID"
// @Success      200 {object} dto.Response{data=SessionResponse}
// @Router       /session/cart [delete]
func (h *SessionHandler) ClearCart(c *gin.Context) {
	store := h.store(c)
	h.respond(c, store, h.cart.Clear(c.Request.Context(), store))
}

// SaveShippingAddress godoc
// @ID           saveShippingAddress
// @Summary      Save the shipping address
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string false "Session ID"
// @Param        request body ShippingAddressRequest true "Shipping address"
// @Success      200 {object} dto.Response{data=SessionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /session/shipping-address [put]
func (h *SessionHandler) SaveShippingAddress(c *gin.Context) {
	var req ShippingAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	store := h.store(c)
	state, err := h.cart.SaveShippingAddress(c.Request.Context(), store, session.Address{
		FullName:   req.FullName,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.respond(c, store, state)
}

// SavePaymentMethod godoc
// @ID           savePaymentMethod
// @Summary      Save the payment method
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string false "Session ID"
// @Param        request body PaymentMethodRequest true "Payment method"
// @Success      200 {object} dto.Response{data=SessionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /session/payment-method [put]
func (h *SessionHandler) SavePaymentMethod(c *gin.Context) {
	var req PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	store := h.store(c)
	state, err := h.cart.SavePaymentMethod(c.Request.Context(), store, req.PaymentMethod)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.respond(c, store, state)
}

// SignIn godoc
// @ID           signIn
// @Summary      Sign in
// @Description  Verifies credentials and stores the identity with its token in the session
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string false "Session ID"
// @Param        request body identityapp.SignInInput true "Credentials"
// @Success      200 {object} dto.Response{data=SessionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /session/signin [post]
func (h *SessionHandler) SignIn(c *gin.Context) {
	var req identityapp.SignInInput
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	identity, err := h.auth.SignIn(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	store := h.store(c)
	h.respond(c, store, store.Dispatch(c.Request.Context(), session.SignIn{Identity: *identity}))
}

// SignUp godoc
// @ID           signUp
// @Summary      Register and sign in
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string false "Session ID"
// @Param        request body identityapp.SignUpInput true "Registration form"
// @Success      201 {object} dto.Response{data=SessionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /session/signup [post]
func (h *SessionHandler) SignUp(c *gin.Context) {
	var req identityapp.SignUpInput
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	identity, err := h.auth.SignUp(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	store := h.store(c)
	h.Created(c, h.view(store, store.Dispatch(c.Request.Context(), session.SignIn{Identity: *identity})))
}

// SignOut godoc
// @ID           signOut
// @Summary      Sign out
// @Description  Revokes the session token and resets the whole session, cart included
// @Tags         session
// @Produce      json
// @Param        X-Session-ID header string false "Session ID"
// @Success      200 {object} dto.Response{data=SessionResponse}
// @Router       /session/signout [post]
func (h *SessionHandler) SignOut(c *gin.Context) {
	ctx := c.Request.Context()
	store := h.store(c)

	if state := store.State(); state.SignedIn() {
		if err := h.auth.SignOut(ctx, state.Identity.Token); err != nil {
			logger.L(ctx).Warn("Failed to revoke token on sign out", zap.Error(err))
		}
	}
	h.respond(c, store, store.Dispatch(ctx, session.SignOut{}))
}

// UpdateProfile godoc
// @ID           updateProfile
// @Summary      Update the signed-in user's profile
// @Description  Stores the refreshed identity and token in the session and revokes the old token
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string false "Session ID"
// @Param        request body identityapp.UpdateProfileInput true "Profile form"
// @Success      200 {object} dto.Response{data=SessionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /session/profile [put]
func (h *SessionHandler) UpdateProfile(c *gin.Context) {
	var req identityapp.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	ctx := c.Request.Context()
	store := h.store(c)
	claims, ok := h.requireIdentity(c, store)
	if !ok {
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		h.Unauthorized(c, "Session sign-in is invalid")
		return
	}

	oldToken := store.State().Identity.Token
	identity, err := h.auth.UpdateProfile(ctx, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	state := store.Dispatch(ctx, session.SignIn{Identity: *identity})
	if err := h.auth.SignOut(ctx, oldToken); err != nil {
		logger.L(ctx).Warn("Failed to revoke replaced token", zap.Error(err))
	}
	h.respond(c, store, state)
}

// CheckoutPreview godoc
// @ID           previewCheckout
// @Summary      Preview order totals
// @Description  Items, shipping, tax and total for the current cart
// @Tags         session
// @Produce      json
// @Param        X-Session-ID header string false "Session ID"
// @Success      200 {object} dto.Response{data=pricing.Totals}
// @Router       /session/checkout/preview [get]
func (h *SessionHandler) CheckoutPreview(c *gin.Context) {
	h.Success(c, h.checkout.PreviewTotals(h.store(c)))
}

// Checkout godoc
// @ID           checkout
// @Summary      Place the order
// @Description  Submits the cart with its shipping address and payment method, then empties the cart
// @Tags         session
// @Produce      json
// @Param        X-Session-ID header string false "Session ID"
// @Success      201 {object} dto.Response{data=CheckoutResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /session/checkout [post]
func (h *SessionHandler) Checkout(c *gin.Context) {
	store := h.store(c)
	if _, ok := h.requireIdentity(c, store); !ok {
		return
	}

	placed, err := h.checkout.PlaceOrder(c.Request.Context(), store)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, CheckoutResponse{
		OrderID: placed.ID,
		Order:   placed,
		Session: h.view(store, store.State()),
	})
}
