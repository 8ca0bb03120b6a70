package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/riteshrajpandit/shikhar-shoe/internal/cart"
)

// DefaultSubmissionDelay stands in for the network round trip of a real order API.
const DefaultSubmissionDelay = 2 * time.Second

// Submission is what gets sent when the shopper confirms the order.
type Submission struct {
	SessionID string
	Items     []cart.LineItem
	Totals    Totals
	Details   ShippingDetails
}

// Receipt is the acknowledgement of a successful submission.
type Receipt struct {
	OrderNumber string
	AcceptedAt  time.Time
}

type Submitter interface {
	Submit(ctx context.Context, sub Submission) (Receipt, error)
}

// SimulatedSubmitter accepts every order after a fixed delay.
type SimulatedSubmitter struct {
	delay time.Duration
	now   func() time.Time
}

func NewSimulatedSubmitter(delay time.Duration) *SimulatedSubmitter {
	return &SimulatedSubmitter{delay: delay, now: time.Now}
}

func (s *SimulatedSubmitter) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return Receipt{}, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	at := s.now()
	return Receipt{OrderNumber: OrderNumber(at), AcceptedAt: at}, nil
}

// OrderNumber is "MIN-" followed by the last six digits of the Unix millisecond
// clock.
func OrderNumber(t time.Time) string {
	return fmt.Sprintf("MIN-%06d", t.UnixMilli()%1_000_000)
}
