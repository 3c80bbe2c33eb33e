package session

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Durable keys mirrored by the store.
const (
	KeyUserInfo        = "userInfo"
	KeyCartItems       = "cartItems"
	KeyShippingAddress = "shippingAddress"
	KeyPaymentMethod   = "paymentMethod"
)

// PersistedKeys lists every durable key in load order.
var PersistedKeys = []string{KeyUserInfo, KeyCartItems, KeyShippingAddress, KeyPaymentMethod}

// Write is a single durable storage operation.
type Write struct {
	Key    string
	Value  string
	Delete bool
}

// PersistencePlan returns the storage writes that mirror the transition a
// into durable storage, given the state it produced.
func PersistencePlan(next State, a Action) ([]Write, error) {
	switch a.(type) {
	case AddItem, RemoveItem, ClearCart:
		return encodeWrite(KeyCartItems, next.Cart.Items)
	case SaveShippingAddress:
		return encodeWrite(KeyShippingAddress, next.Cart.ShippingAddress)
	case SavePaymentMethod:
		return []Write{{Key: KeyPaymentMethod, Value: next.Cart.PaymentMethod}}, nil
	case SignIn:
		return encodeWrite(KeyUserInfo, next.Identity)
	case SignOut:
		writes := make([]Write, 0, len(PersistedKeys))
		for _, key := range PersistedKeys {
			writes = append(writes, Write{Key: key, Delete: true})
		}
		return writes, nil
	default:
		return nil, nil
	}
}

func encodeWrite(key string, v any) ([]Write, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}
	return []Write{{Key: key, Value: string(data)}}, nil
}

// DecodeSnapshot builds a state from raw durable values keyed by the Key*
// constants. Absent keys keep their default. A malformed value also keeps its
// default and is reported in the returned error; the state is always usable.
func DecodeSnapshot(raw map[string]string) (State, error) {
	state := EmptyState()
	var errs []error

	if v, ok := raw[KeyUserInfo]; ok && v != "" {
		var id UserIdentity
		if err := json.Unmarshal([]byte(v), &id); err != nil {
			errs = append(errs, fmt.Errorf("decode %s: %w", KeyUserInfo, err))
		} else {
			state.Identity = &id
		}
	}

	if v, ok := raw[KeyCartItems]; ok && v != "" {
		var items []CartLineItem
		if err := json.Unmarshal([]byte(v), &items); err != nil {
			errs = append(errs, fmt.Errorf("decode %s: %w", KeyCartItems, err))
		} else if items != nil {
			state.Cart.Items = dedupe(items)
		}
	}

	if v, ok := raw[KeyShippingAddress]; ok && v != "" {
		var addr *Address
		if err := json.Unmarshal([]byte(v), &addr); err != nil {
			errs = append(errs, fmt.Errorf("decode %s: %w", KeyShippingAddress, err))
		} else {
			state.Cart.ShippingAddress = addr
		}
	}

	if v, ok := raw[KeyPaymentMethod]; ok {
		state.Cart.PaymentMethod = v
	}

	return state, errors.Join(errs...)
}

// dedupe keeps the last line per product, at the position of the first one.
func dedupe(items []CartLineItem) []CartLineItem {
	out := make([]CartLineItem, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		if i, ok := index[item.ProductID]; ok {
			out[i] = item
			continue
		}
		index[item.ProductID] = len(out)
		out = append(out, item)
	}
	return out
}
