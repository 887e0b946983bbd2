package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hypernova-labs/catalog-service/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const producerName = "catalog-service"

// Publisher publica eventos del catálogo en un exchange topic de RabbitMQ
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
	logger   *logrus.Logger
}

// NewPublisher abre un canal y declara el exchange de eventos
func NewPublisher(url, exchange string, logger *logrus.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("error dialing RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("error opening channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("error declaring exchange %s: %w", exchange, err)
	}

	return &Publisher{
		conn:     conn,
		ch:       ch,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// Close cierra el canal y la conexión
func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// PublishProductAdded publica un ProductAdded para el producto guardado
func (p *Publisher) PublishProductAdded(ctx context.Context, correlationID string, product models.Product) error {
	ev := newProductAddedEvent(correlationID, producerName, product, time.Now().UTC())
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("error marshaling ProductAdded: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err = p.ch.PublishWithContext(pubCtx, p.exchange, ProductAddedRoutingKey, false, false, amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		MessageId:     ev.EventID,
		CorrelationId: correlationID,
		Timestamp:     ev.OccurredAt,
		Body:          body,
	})
	if err != nil {
		return fmt.Errorf("error publishing ProductAdded: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"event_id":   ev.EventID,
		"product_id": product.ID,
	}).Debug("ProductAdded published")

	return nil
}
