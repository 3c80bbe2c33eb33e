package session

// ActionType is the tag of an action.
type ActionType string

const (
	ActionCartAddItem         ActionType = "CART_ADD_ITEM"
	ActionCartRemoveItem      ActionType = "CART_REMOVE_ITEM"
	ActionCartClear           ActionType = "CART_CLEAR"
	ActionSaveShippingAddress ActionType = "SAVE_SHIPPING_ADDRESS"
	ActionSavePaymentMethod   ActionType = "SAVE_PAYMENT_METHOD"
	ActionUserSignIn          ActionType = "USER_SIGNIN"
	ActionUserSignOut         ActionType = "USER_SIGNOUT"
)

// Action is a state transition request. The set of implementations is closed:
// only types in this package satisfy it.
type Action interface {
	Type() ActionType
	sealed()
}

// AddItem adds Item with Quantity, replacing any line with the same product.
type AddItem struct {
	Item     CartLineItem
	Quantity int
}

// RemoveItem drops the line for ProductID.
type RemoveItem struct {
	ProductID string
}

// ClearCart empties the item list.
type ClearCart struct{}

// SaveShippingAddress replaces the shipping address.
type SaveShippingAddress struct {
	Address Address
}

// SavePaymentMethod replaces the payment method name.
type SavePaymentMethod struct {
	Name string
}

// SignIn replaces the identity.
type SignIn struct {
	Identity UserIdentity
}

// SignOut resets the whole session.
type SignOut struct{}

// Unknown carries a tag this build does not understand. It reduces to a no-op.
type Unknown struct {
	Tag string
}

func (AddItem) Type() ActionType             { return ActionCartAddItem }
func (RemoveItem) Type() ActionType          { return ActionCartRemoveItem }
func (ClearCart) Type() ActionType           { return ActionCartClear }
func (SaveShippingAddress) Type() ActionType { return ActionSaveShippingAddress }
func (SavePaymentMethod) Type() ActionType   { return ActionSavePaymentMethod }
func (SignIn) Type() ActionType              { return ActionUserSignIn }
func (SignOut) Type() ActionType             { return ActionUserSignOut }
func (u Unknown) Type() ActionType           { return ActionType(u.Tag) }

func (AddItem) sealed()             {}
func (RemoveItem) sealed()          {}
func (ClearCart) sealed()           {}
func (SaveShippingAddress) sealed() {}
func (SavePaymentMethod) sealed()   {}
func (SignIn) sealed()              {}
func (SignOut) sealed()             {}
func (Unknown) sealed()             {}
