package contracts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/riteshrajpandit/shikhar-shoe/internal/checkout"
)

const (
	OrderPlacedEventName           = "OrderPlaced"
	OrderPlacedEventVersion        = 1
	OrderPlacedEnvelopedSchemaPath = "contracts/events/storefront/OrderPlaced.v1.enveloped.schema.json"
	StorefrontProducer             = "storefront-service"
)

type EventEnvelope struct {
	EventName     string             `json:"eventName"`
	EventVersion  int                `json:"eventVersion"`
	EventID       string             `json:"eventId"`
	CorrelationID string             `json:"correlationId,omitempty"`
	CausationID   string             `json:"causationId,omitempty"`
	Producer      string             `json:"producer"`
	PartitionKey  string             `json:"partitionKey"`
	Sequence      int64              `json:"sequence"`
	OccurredAt    time.Time          `json:"occurredAt"`
	Schema        string             `json:"schema"`
	Payload       OrderPlacedPayload `json:"payload"`
}

type OrderPlacedPayload struct {
	OrderNumber   string            `json:"orderNumber"`
	SessionID     string            `json:"sessionId"`
	Items         []OrderPlacedItem `json:"items"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	Shipping      decimal.Decimal   `json:"shipping"`
	Tax           decimal.Decimal   `json:"tax"`
	Total         decimal.Decimal   `json:"total"`
	PaymentMethod string            `json:"paymentMethod"`
	Country       string            `json:"country"`
	PlacedAt      time.Time         `json:"placedAt"`
}

type OrderPlacedItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type EnvelopeOptions struct {
	PartitionKey  string
	Sequence      int64
	Producer      string
	SchemaPath    string
	CorrelationID string
	CausationID   string
	EventID       string
	OccurredAt    time.Time
}

// BuildOrderPlacedEvent wraps an accepted order in the shared event envelope.
// Unset options get a fresh event id, the current time, the storefront
// producer and the v1 schema path. The partition key falls back to the
// order's session id.
func BuildOrderPlacedEvent(o checkout.Order, opts EnvelopeOptions) EventEnvelope {
	eventID := opts.EventID
	if eventID == "" {
		eventID = uuid.NewString()
	}

	occurredAt := opts.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	schemaPath := opts.SchemaPath
	if schemaPath == "" {
		schemaPath = OrderPlacedEnvelopedSchemaPath
	}

	producer := opts.Producer
	if producer == "" {
		producer = StorefrontProducer
	}

	partitionKey := opts.PartitionKey
	if partitionKey == "" {
		partitionKey = o.SessionID
	}

	placedAt := o.PlacedAt
	if placedAt.IsZero() {
		placedAt = occurredAt
	}

	payload := OrderPlacedPayload{
		OrderNumber:   o.Number,
		SessionID:     o.SessionID,
		Items:         make([]OrderPlacedItem, 0, len(o.Items)),
		Subtotal:      o.Totals.Subtotal,
		Shipping:      o.Totals.Shipping,
		Tax:           o.Totals.Tax,
		Total:         o.Totals.Total,
		PaymentMethod: o.Details.PaymentMethod,
		Country:       o.Details.Country,
		PlacedAt:      placedAt,
	}

	for _, it := range o.Items {
		payload.Items = append(payload.Items, OrderPlacedItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Color:     it.Color,
			Size:      it.Size,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	return EventEnvelope{
		EventName:     OrderPlacedEventName,
		EventVersion:  OrderPlacedEventVersion,
		EventID:       eventID,
		CorrelationID: opts.CorrelationID,
		CausationID:   opts.CausationID,
		Producer:      producer,
		PartitionKey:  partitionKey,
		Sequence:      opts.Sequence,
		OccurredAt:    occurredAt,
		Schema:        schemaPath,
		Payload:       payload,
	}
}
