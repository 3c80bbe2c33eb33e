package session_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/session"
)

type cartFeatureContext struct {
	state session.State
}

func (c *cartFeatureContext) anEmptySession() error {
	c.state = session.EmptyState()
	return nil
}

func (c *cartFeatureContext) iAmSignedInAs(email string) error {
	c.state = session.Reduce(c.state, session.SignIn{Identity: session.UserIdentity{ID: "u1", Email: email, Token: "token"}})
	return nil
}

func (c *cartFeatureContext) iAddProductPricedWithQuantity(productID string, price, quantity int) error {
	item := session.CartLineItem{
		ProductID:    productID,
		Name:         "Product " + productID,
		Price:        decimal.NewFromInt(int64(price)),
		CountInStock: 100,
	}
	c.state = session.Reduce(c.state, session.AddItem{Item: item, Quantity: quantity})
	return nil
}

func (c *cartFeatureContext) iRemoveProduct(productID string) error {
	c.state = session.Reduce(c.state, session.RemoveItem{ProductID: productID})
	return nil
}

func (c *cartFeatureContext) iSaveTheShippingAddressFor(name string) error {
	addr := session.Address{FullName: name, Address: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US"}
	c.state = session.Reduce(c.state, session.SaveShippingAddress{Address: addr})
	return nil
}

func (c *cartFeatureContext) iChooseThePaymentMethod(name string) error {
	c.state = session.Reduce(c.state, session.SavePaymentMethod{Name: name})
	return nil
}

func (c *cartFeatureContext) iSignOut() error {
	c.state = session.Reduce(c.state, session.SignOut{})
	return nil
}

func (c *cartFeatureContext) iDispatchAnUnknownAction(tag string) error {
	c.state = session.Reduce(c.state, session.Unknown{Tag: tag})
	return nil
}

func (c *cartFeatureContext) theCartHasLines(n int) error {
	if got := len(c.state.Cart.Items); got != n {
		return fmt.Errorf("expected %d lines, got %d", n, got)
	}
	return nil
}

func (c *cartFeatureContext) lineHasQuantity(productID string, quantity int) error {
	item, ok := c.state.Cart.Find(productID)
	if !ok {
		return fmt.Errorf("product %s not in cart", productID)
	}
	if item.Quantity != quantity {
		return fmt.Errorf("expected quantity %d, got %d", quantity, item.Quantity)
	}
	return nil
}

func (c *cartFeatureContext) theCartLinesAre(csv string) error {
	ids := make([]string, 0, len(c.state.Cart.Items))
	for _, item := range c.state.Cart.Items {
		ids = append(ids, item.ProductID)
	}
	if got := strings.Join(ids, ","); got != csv {
		return fmt.Errorf("expected lines %q, got %q", csv, got)
	}
	return nil
}

func (c *cartFeatureContext) productIsNotInTheCart(productID string) error {
	if _, ok := c.state.Cart.Find(productID); ok {
		return fmt.Errorf("product %s still in cart", productID)
	}
	return nil
}

func (c *cartFeatureContext) thereIsNoShippingAddress() error {
	if c.state.Cart.ShippingAddress != nil {
		return fmt.Errorf("expected no shipping address, got %+v", *c.state.Cart.ShippingAddress)
	}
	return nil
}

func (c *cartFeatureContext) thePaymentMethodIs(name string) error {
	if c.state.Cart.PaymentMethod != name {
		return fmt.Errorf("expected payment method %q, got %q", name, c.state.Cart.PaymentMethod)
	}
	return nil
}

func (c *cartFeatureContext) nobodyIsSignedIn() error {
	if c.state.SignedIn() {
		return fmt.Errorf("expected signed out session, got %s", c.state.Identity.Email)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartFeatureContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.state = session.EmptyState()
		return ctx, nil
	})

	ctx.Step(`^an empty session$`, tc.anEmptySession)
	ctx.Step(`^I am signed in as "([^"]*)"$`, tc.iAmSignedInAs)
	ctx.Step(`^I add product "([^"]*)" priced (\d+) with quantity (\d+)$`, tc.iAddProductPricedWithQuantity)
	ctx.Step(`^I remove product "([^"]*)"$`, tc.iRemoveProduct)
	ctx.Step(`^I save the shipping address for "([^"]*)"$`, tc.iSaveTheShippingAddressFor)
	ctx.Step(`^I choose the payment method "([^"]*)"$`, tc.iChooseThePaymentMethod)
	ctx.Step(`^I sign out$`, tc.iSignOut)
	ctx.Step(`^I dispatch an unknown action "([^"]*)"$`, tc.iDispatchAnUnknownAction)

	ctx.Step(`^the cart has (\d+) lines?$`, tc.theCartHasLines)
	ctx.Step(`^line "([^"]*)" has quantity (\d+)$`, tc.lineHasQuantity)
	ctx.Step(`^the cart lines are "([^"]*)"$`, tc.theCartLinesAre)
	ctx.Step(`^product "([^"]*)" is not in the cart$`, tc.productIsNotInTheCart)
	ctx.Step(`^there is no shipping address$`, tc.thereIsNoShippingAddress)
	ctx.Step(`^the payment method is "([^"]*)"$`, tc.thePaymentMethodIs)
	ctx.Step(`^nobody is signed in$`, tc.nobodyIsSignedIn)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
