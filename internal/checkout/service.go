package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/riteshrajpandit/shikhar-shoe/internal/cart"
)

// Cart is the slice of the cart store checkout needs.
type Cart interface {
	Snapshot() cart.Snapshot
	BeginCheckout() bool
	EndCheckout()
	Settle(submitted []cart.LineItem)
}

// EventMetadata carries correlation/causation ids from the request that placed
// the order.
type EventMetadata struct {
	CorrelationID string
	CausationID   string
}

type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, o Order, meta EventMetadata) error
}

// Recorder receives checkout measurements.
type Recorder interface {
	ObserveSubmission(d time.Duration, err error)
}

type Order struct {
	Number    string          `json:"orderNumber"`
	SessionID string          `json:"sessionId"`
	Items     []cart.LineItem `json:"items"`
	Totals    Totals          `json:"totals"`
	Details   ShippingDetails `json:"details"`
	PlacedAt  time.Time       `json:"placedAt"`
}

type Quote struct {
	Items     []cart.LineItem
	ItemCount int
	Totals    Totals
}

type PlaceOrderRequest struct {
	SessionID string
	Details   ShippingDetails
	Meta      EventMetadata
}

type Service struct {
	submitter Submitter
	publisher OrderPublisher
	recorder  Recorder
	logger    *zap.Logger
}

type Option func(*Service)

func WithPublisher(p OrderPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

func NewService(submitter Submitter, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{submitter: submitter, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Quote returns the cart contents with derived totals.
func (s *Service) Quote(c Cart) (Quote, error) {
	snap := c.Snapshot()
	if snap.Empty() {
		return Quote{}, ErrEmptyCart
	}
	return Quote{
		Items:     snap.Items,
		ItemCount: snap.ItemCount,
		Totals:    ComputeTotals(snap.Subtotal),
	}, nil
}

// PlaceOrder submits the cart and, once the submission is accepted, takes the
// submitted lines out of it. The cart is left untouched when validation or
// submission fails. Only one PlaceOrder per cart runs at a time; a concurrent
// call gets ErrCheckoutInProgress.
func (s *Service) PlaceOrder(ctx context.Context, c Cart, req PlaceOrderRequest) (Order, error) {
	details := req.Details.WithDefaults()
	if err := details.Validate(); err != nil {
		return Order{}, err
	}

	if !c.BeginCheckout() {
		return Order{}, ErrCheckoutInProgress
	}
	defer c.EndCheckout()

	snap := c.Snapshot()
	if snap.Empty() {
		return Order{}, ErrEmptyCart
	}

	sub := Submission{
		SessionID: req.SessionID,
		Items:     snap.Items,
		Totals:    ComputeTotals(snap.Subtotal),
		Details:   details,
	}

	start := time.Now()
	receipt, err := s.submitter.Submit(ctx, sub)
	if s.recorder != nil {
		s.recorder.ObserveSubmission(time.Since(start), err)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Order{}, err
		}
		return Order{}, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	c.Settle(sub.Items)

	order := Order{
		Number:    receipt.OrderNumber,
		SessionID: req.SessionID,
		Items:     sub.Items,
		Totals:    sub.Totals,
		Details:   details,
		PlacedAt:  receipt.AcceptedAt,
	}

	s.logger.Info("order placed",
		zap.String("order_number", order.Number),
		zap.String("session_id", order.SessionID),
		zap.Int("lines", len(order.Items)),
		zap.String("total", order.Totals.Total.StringFixed(2)),
	)

	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(ctx, order, req.Meta); err != nil {
			s.logger.Warn("publish order placed failed",
				zap.String("order_number", order.Number),
				zap.Error(err),
			)
		}
	}

	return order, nil
}
