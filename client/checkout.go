package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
)

const (
	PaymentMethodCOD  = "COD"
	PaymentMethodSlip = "Payment Slip"
)

const maxSlipSize = 5 << 20 // 5MB

var phonePattern = regexp.MustCompile(`^\+?\d{9,13}$`)

// CheckoutState is the linear, non-revisitable state of the checkout flow.
type CheckoutState string

const (
	StateLoading         CheckoutState = "loading"
	StateUnauthenticated CheckoutState = "unauthenticated"
	StateEmptyCart       CheckoutState = "empty-cart"
	StateReady           CheckoutState = "ready"
	StateSubmitting      CheckoutState = "submitting"
	StateSuccess         CheckoutState = "success"
	StateFailure         CheckoutState = "failure"
)

// CheckoutForm is the shipping form filled in by the customer.
type CheckoutForm struct {
	FullName      string
	Address       string
	Phone         string
	PaymentMethod string
	Slip          *SlipFile
}

// ValidationError maps field names to messages. It is produced entirely
// client-side; no request is made while the form is invalid.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid checkout form (%d field errors)", len(e.Fields))
}

// Validate checks the form and returns nil or a *ValidationError.
func (f CheckoutForm) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(f.FullName) == "" {
		fields["full_name"] = "Full name is required"
	}
	if strings.TrimSpace(f.Address) == "" {
		fields["address"] = "Address is required"
	}
	if !phonePattern.MatchString(f.Phone) {
		fields["phone"] = "Phone must be 9-13 digits, optionally prefixed with +"
	}

	switch f.PaymentMethod {
	case PaymentMethodCOD:
	case PaymentMethodSlip:
		switch {
		case f.Slip == nil:
			fields["payment_slip"] = "A payment slip image is required"
		case int64(len(f.Slip.Data)) > maxSlipSize:
			fields["payment_slip"] = "Payment slip must be 5MB or smaller"
		case !strings.HasPrefix(f.Slip.ContentType, "image/"):
			fields["payment_slip"] = "Payment slip must be an image"
		}
	default:
		fields["payment_method"] = "Unknown payment method"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// CheckoutError is a failed submission, carrying the server's message when
// one was provided.
type CheckoutError struct {
	Message string
}

func (e *CheckoutError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "order could not be placed"
}

// Checkout drives the order-placement flow. It re-derives the cart and
// product details itself rather than sharing the cart page's session.
type Checkout struct {
	client *Client
	counts *CountStore

	state CheckoutState
	user  *User
	items []ResolvedItem
}

func NewCheckout(c *Client, counts *CountStore) *Checkout {
	return &Checkout{client: c, counts: counts, state: StateLoading}
}

// State returns the current flow state.
func (co *Checkout) State() CheckoutState {
	return co.state
}

// Items returns the resolved items that will be submitted.
func (co *Checkout) Items() []ResolvedItem {
	out := make([]ResolvedItem, len(co.items))
	copy(out, co.items)
	return out
}

// Total is the order total over resolved items.
func (co *Checkout) Total() float64 {
	return totalOf(co.items).InexactFloat64()
}

// Load resolves user, cart, and products. It lands in one of
// unauthenticated, empty-cart, or ready.
func (co *Checkout) Load(ctx context.Context) error {
	co.state = StateLoading

	user, err := co.client.Me(ctx)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			co.state = StateUnauthenticated
		}
		return err
	}
	co.user = user

	cart, err := co.client.GetCart(ctx, user.UserID)
	if err != nil {
		return err
	}

	session := &CartSession{client: co.client, counts: co.counts}
	items, _ := session.resolveItems(ctx, cart.Items)
	co.items = items

	if len(items) == 0 {
		co.state = StateEmptyCart
		return nil
	}
	co.state = StateReady
	return nil
}

// Submit validates the form and places the order. On success the remote
// cart is cleared and the count store refreshed. On failure the held item
// snapshot is re-posted to the restore endpoint, best effort.
func (co *Checkout) Submit(ctx context.Context, form CheckoutForm) (*PlacedOrder, error) {
	if co.state != StateReady {
		return nil, fmt.Errorf("checkout is not ready (state %s)", co.state)
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	co.state = StateSubmitting

	// Snapshot held at submission time, used verbatim for the restore call.
	lines := make([]OrderLine, len(co.items))
	held := make([]CartItem, len(co.items))
	for i, item := range co.items {
		lines[i] = OrderLine{
			ProductID: item.Product.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Product.Price,
		}
		held[i] = CartItem{ProductID: item.Product.ProductID, Quantity: item.Quantity}
	}

	shippingAddress := fmt.Sprintf("%s, %s, %s", form.FullName, form.Address, form.Phone)

	order, err := co.client.CreateOrder(ctx, CreateOrderRequest{
		UserID:          co.user.UserID,
		Email:           co.user.Email,
		ShippingAddress: shippingAddress,
		TotalPrice:      totalOf(co.items).InexactFloat64(),
		PaymentMethod:   form.PaymentMethod,
		Slip:            form.Slip,
		Items:           lines,
	})
	if err != nil {
		co.state = StateFailure
		co.restore(ctx, held)

		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, &CheckoutError{Message: apiErr.Message}
		}
		return nil, &CheckoutError{}
	}

	if clearErr := co.client.ClearCart(ctx, co.user.UserID); clearErr != nil {
		log.Printf("checkout: failed to clear cart after order %s: %v", order.OrderRef, clearErr)
	}
	co.counts.Refresh(ctx)
	co.state = StateSuccess
	return order, nil
}

// restore re-seeds the remote cart with the held snapshot. Failures are
// logged and swallowed; this is compensation, not a guarantee.
func (co *Checkout) restore(ctx context.Context, held []CartItem) {
	if err := co.client.RestoreCart(ctx, co.user.UserID, held); err != nil {
		log.Printf("checkout: cart restore failed: %v", err)
	}
}
