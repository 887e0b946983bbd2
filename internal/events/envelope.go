package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/catalog-service/internal/models"
)

const (
	// EventTypeProductAdded es el nombre del evento emitido al guardar un producto
	EventTypeProductAdded = "ProductAdded"
	// ProductAddedRoutingKey es la routing key de ProductAdded en el exchange topic
	ProductAddedRoutingKey = "product.added.v1"
	productAddedVersion    = 1
)

// EventEnvelope contiene los metadatos comunes de todos los eventos
type EventEnvelope struct {
	EventName     string    `json:"eventName"`
	EventVersion  int       `json:"eventVersion"`
	EventID       string    `json:"eventId"`
	CorrelationID string    `json:"correlationId,omitempty"`
	Producer      string    `json:"producer"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// ProductAddedEvent se publica después de insertar un producto
type ProductAddedEvent struct {
	EventEnvelope
	Payload models.Product `json:"payload"`
}

func newProductAddedEvent(correlationID, producer string, product models.Product, occurredAt time.Time) ProductAddedEvent {
	return ProductAddedEvent{
		EventEnvelope: EventEnvelope{
			EventName:     EventTypeProductAdded,
			EventVersion:  productAddedVersion,
			EventID:       uuid.NewString(),
			CorrelationID: correlationID,
			Producer:      producer,
			OccurredAt:    occurredAt,
		},
		Payload: product,
	}
}
