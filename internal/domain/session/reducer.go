package session

// Reduce applies a to s and returns the next state. It is pure: s is never
// modified and the result shares no slices with it. Unknown or nil actions
// return s unchanged.
func Reduce(s State, a Action) State {
	next := s.Clone()

	switch act := a.(type) {
	case AddItem:
		item := act.Item
		item.Quantity = act.Quantity
		replaced := false
		for i, existing := range next.Cart.Items {
			if existing.ProductID == item.ProductID {
				next.Cart.Items[i] = item
				replaced = true
				break
			}
		}
		if !replaced {
			next.Cart.Items = append(next.Cart.Items, item)
		}

	case RemoveItem:
		kept := make([]CartLineItem, 0, len(next.Cart.Items))
		for _, existing := range next.Cart.Items {
			if existing.ProductID != act.ProductID {
				kept = append(kept, existing)
			}
		}
		next.Cart.Items = kept

	case ClearCart:
		next.Cart.Items = []CartLineItem{}

	case SaveShippingAddress:
		addr := act.Address
		next.Cart.ShippingAddress = &addr

	case SavePaymentMethod:
		next.Cart.PaymentMethod = act.Name

	case SignIn:
		id := act.Identity
		next.Identity = &id

	case SignOut:
		return EmptyState()

	default:
		return s
	}

	return next
}
