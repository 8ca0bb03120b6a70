package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/riteshrajpandit/shikhar-shoe/internal/cart"
)

type fakeSubmitter struct {
	receipt Receipt
	err     error

	mu    sync.Mutex
	calls []Submission
}

func (f *fakeSubmitter) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	f.mu.Lock()
	f.calls = append(f.calls, sub)
	f.mu.Unlock()
	if f.err != nil {
		return Receipt{}, f.err
	}
	return f.receipt, nil
}

// gatedSubmitter holds every submission until release is closed.
type gatedSubmitter struct {
	entered chan struct{}
	release chan struct{}
}

func newGatedSubmitter() *gatedSubmitter {
	return &gatedSubmitter{entered: make(chan struct{}, 1), release: make(chan struct{})}
}

func (g *gatedSubmitter) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	g.entered <- struct{}{}
	select {
	case <-g.release:
	case <-ctx.Done():
		return Receipt{}, ctx.Err()
	}
	return Receipt{OrderNumber: "MIN-424242", AcceptedAt: time.Now()}, nil
}

type placeResult struct {
	order Order
	err   error
}

func placeAsync(svc *Service, c Cart) <-chan placeResult {
	out := make(chan placeResult, 1)
	go func() {
		o, err := svc.PlaceOrder(context.Background(), c, PlaceOrderRequest{SessionID: "s", Details: validDetails()})
		out <- placeResult{order: o, err: err}
	}()
	return out
}

type fakePublisher struct {
	err error

	orders []Order
	metas  []EventMetadata
}

func (f *fakePublisher) PublishOrderPlaced(ctx context.Context, o Order, meta EventMetadata) error {
	f.orders = append(f.orders, o)
	f.metas = append(f.metas, meta)
	return f.err
}

type fakeRecorder struct {
	observed []error
}

func (f *fakeRecorder) ObserveSubmission(d time.Duration, err error) {
	f.observed = append(f.observed, err)
}

func filledCart() *cart.Store {
	s := cart.NewStore()
	s.AddItem(cart.Candidate{ProductID: "1", Name: "Classic White Sneakers", UnitPrice: decimal.NewFromInt(189), Color: "White", Size: "9"})
	s.AddItem(cart.Candidate{ProductID: "1", Name: "Classic White Sneakers", UnitPrice: decimal.NewFromInt(189), Color: "White", Size: "9"})
	s.AddItem(cart.Candidate{ProductID: "1", Name: "Classic White Sneakers", UnitPrice: decimal.NewFromInt(189), Color: "Black", Size: "9"})
	return s
}

func validDetails() ShippingDetails {
	return fakeDetails(gofakeit.New(99))
}

func TestQuote(t *testing.T) {
	svc := NewService(&fakeSubmitter{}, zap.NewNop())

	q, err := svc.Quote(filledCart())
	require.NoError(t, err)
	assert.Len(t, q.Items, 2)
	assert.Equal(t, 3, q.ItemCount)
	assert.True(t, q.Totals.Subtotal.Equal(decimal.NewFromInt(567)))
	assert.True(t, q.Totals.Shipping.IsZero())
	assert.True(t, q.Totals.Tax.Equal(decimal.RequireFromString("45.36")))
	assert.True(t, q.Totals.Total.Equal(decimal.RequireFromString("612.36")))

	_, err = svc.Quote(cart.NewStore())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderClearsCartAndPublishes(t *testing.T) {
	placedAt := time.Date(2025, time.May, 4, 12, 0, 0, 0, time.UTC)
	sub := &fakeSubmitter{receipt: Receipt{OrderNumber: "MIN-123456", AcceptedAt: placedAt}}
	pub := &fakePublisher{}
	rec := &fakeRecorder{}
	svc := NewService(sub, zap.NewNop(), WithPublisher(pub), WithRecorder(rec))

	c := filledCart()
	order, err := svc.PlaceOrder(context.Background(), c, PlaceOrderRequest{
		SessionID: "session-1",
		Details:   validDetails(),
		Meta:      EventMetadata{CorrelationID: "corr-1", CausationID: "req-1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "MIN-123456", order.Number)
	assert.Equal(t, "session-1", order.SessionID)
	assert.Equal(t, placedAt, order.PlacedAt)
	assert.Len(t, order.Items, 2)
	assert.True(t, order.Totals.Total.Equal(decimal.RequireFromString("612.36")))
	assert.Equal(t, DefaultCountry, order.Details.Country)
	assert.Equal(t, PaymentCashOnDelivery, order.Details.PaymentMethod)

	assert.Equal(t, 0, c.Len(), "cart should be cleared after a successful submission")

	require.Len(t, sub.calls, 1)
	assert.Equal(t, 3, sumQuantities(sub.calls[0].Items))

	require.Len(t, pub.orders, 1)
	assert.Equal(t, order.Number, pub.orders[0].Number)
	assert.Equal(t, "corr-1", pub.metas[0].CorrelationID)

	require.Len(t, rec.observed, 1)
	assert.NoError(t, rec.observed[0])
}

func TestPlaceOrderPublishFailureDoesNotFailOrder(t *testing.T) {
	sub := &fakeSubmitter{receipt: Receipt{OrderNumber: "MIN-000001", AcceptedAt: time.Now()}}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewService(sub, zap.NewNop(), WithPublisher(pub))

	c := filledCart()
	order, err := svc.PlaceOrder(context.Background(), c, PlaceOrderRequest{SessionID: "s", Details: validDetails()})
	require.NoError(t, err)
	assert.Equal(t, "MIN-000001", order.Number)
	assert.Equal(t, 0, c.Len())
}

func TestPlaceOrderLeavesCartIntact(t *testing.T) {
	tests := map[string]struct {
		submitErr  error
		details    func() ShippingDetails
		cart       func() *cart.Store
		cancelled  bool
		wantErr    error
		wantSubmit int
	}{
		"invalid details": {
			details: func() ShippingDetails { return ShippingDetails{} },
			cart:    filledCart,
			wantErr: ErrInvalidDetails,
		},
		"empty cart": {
			details: validDetails,
			cart:    cart.NewStore,
			wantErr: ErrEmptyCart,
		},
		"submission fails": {
			submitErr:  errors.New("upstream unavailable"),
			details:    validDetails,
			cart:       filledCart,
			wantErr:    ErrSubmissionFailed,
			wantSubmit: 1,
		},
		"context cancelled": {
			submitErr:  context.Canceled,
			details:    validDetails,
			cart:       filledCart,
			cancelled:  true,
			wantErr:    context.Canceled,
			wantSubmit: 1,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			sub := &fakeSubmitter{err: tc.submitErr}
			pub := &fakePublisher{}
			svc := NewService(sub, zap.NewNop(), WithPublisher(pub))

			c := tc.cart()
			before := c.Items()

			_, err := svc.PlaceOrder(context.Background(), c, PlaceOrderRequest{SessionID: "s", Details: tc.details()})
			require.ErrorIs(t, err, tc.wantErr)
			if tc.cancelled {
				assert.NotErrorIs(t, err, ErrSubmissionFailed)
			}

			assert.Equal(t, before, c.Items())
			assert.Len(t, sub.calls, tc.wantSubmit)
			assert.Empty(t, pub.orders)
			assert.True(t, c.BeginCheckout(), "checkout claim should be released")
		})
	}
}

func TestPlaceOrderKeepsItemsAddedDuringSubmission(t *testing.T) {
	gate := newGatedSubmitter()
	svc := NewService(gate, zap.NewNop())
	c := filledCart()

	done := placeAsync(svc, c)
	<-gate.entered

	c.AddItem(cart.Candidate{ProductID: "2", Name: "Classic Runner", UnitPrice: decimal.NewFromInt(159), Color: "Navy", Size: "10"})
	c.AddItem(cart.Candidate{ProductID: "1", Name: "Classic White Sneakers", UnitPrice: decimal.NewFromInt(189), Color: "Black", Size: "9"})
	close(gate.release)

	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, 3, sumQuantities(res.order.Items))

	left := c.Items()
	require.Len(t, left, 2, "only the submitted quantities leave the cart")
	assert.Equal(t, cart.Key{ProductID: "1", Color: "Black", Size: "9"}, left[0].Key())
	assert.Equal(t, 1, left[0].Quantity)
	assert.Equal(t, cart.Key{ProductID: "2", Color: "Navy", Size: "10"}, left[1].Key())
	assert.Equal(t, 1, left[1].Quantity)
}

func TestPlaceOrderRejectsConcurrentCheckout(t *testing.T) {
	gate := newGatedSubmitter()
	svc := NewService(gate, zap.NewNop())
	c := filledCart()

	first := placeAsync(svc, c)
	<-gate.entered

	_, err := svc.PlaceOrder(context.Background(), c, PlaceOrderRequest{SessionID: "s", Details: validDetails()})
	require.ErrorIs(t, err, ErrCheckoutInProgress)
	assert.Equal(t, 3, c.ItemCount(), "a rejected checkout must not touch the cart")

	close(gate.release)
	res := <-first
	require.NoError(t, res.err)
	assert.Equal(t, "MIN-424242", res.order.Number)
	assert.Equal(t, 0, c.Len())

	_, err = svc.PlaceOrder(context.Background(), c, PlaceOrderRequest{SessionID: "s", Details: validDetails()})
	assert.ErrorIs(t, err, ErrEmptyCart, "the claim is free again once the first order is done")
}

func TestPlaceOrderWithSimulatedSubmitterCancelled(t *testing.T) {
	svc := NewService(NewSimulatedSubmitter(time.Hour), zap.NewNop())
	c := filledCart()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := svc.PlaceOrder(ctx, c, PlaceOrderRequest{SessionID: "s", Details: validDetails()})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 3, c.ItemCount())
}

func sumQuantities(items []cart.LineItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
