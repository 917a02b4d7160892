package messaging

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange names. Catalog announcements fan out to every running
// server; tracking events land in one durable queue for the analytics
// consumer.
const (
	catalogExchange  = "slugtistics.catalog"
	trackingExchange = "slugtistics.tracking"
	trackingQueue    = "slugtistics.tracking"
)

// Broker owns one RabbitMQ connection and the two exchanges this
// system publishes on. Channels are opened per operation; the amqp
// library multiplexes them over the single connection.
type Broker struct {
	conn *amqp.Connection
}

func Connect(url string) (*Broker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	b := &Broker{conn: conn}
	if err := b.declare(); err != nil {
		conn.Close()
		return nil, err
	}
	return b, nil
}

func (b *Broker) Close() error {
	return b.conn.Close()
}

func (b *Broker) declare() error {
	ch, err := b.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	for _, exchange := range []string{catalogExchange, trackingExchange} {
		if err := ch.ExchangeDeclare(
			exchange,
			"fanout",
			true,  // durable
			false, // auto-delete
			false, // internal
			false, // noWait
			nil,   // arguments
		); err != nil {
			return err
		}
	}
	if _, err := ch.QueueDeclare(trackingQueue, true, false, false, false, nil); err != nil {
		return err
	}
	return ch.QueueBind(trackingQueue, "", trackingExchange, false, nil)
}

func (b *Broker) publish(ctx context.Context, exchange string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	ch, err := b.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()
	return ch.PublishWithContext(ctx, exchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

// AnnounceCatalogUpdate tells every listening server a fresh snapshot
// is available.
func (b *Broker) AnnounceCatalogUpdate(ctx context.Context, msg CatalogUpdatedMessage) error {
	return b.publish(ctx, catalogExchange, msg)
}

// PublishEvent sends one tracking event to the analytics queue.
func (b *Broker) PublishEvent(ctx context.Context, event any) error {
	return b.publish(ctx, trackingExchange, event)
}

// ListenForCatalogUpdates consumes announcements on an exclusive queue
// until the connection closes. Malformed announcements are logged and
// acked; they carry no course data to lose.
func (b *Broker) ListenForCatalogUpdates(handler func(CatalogUpdatedMessage)) error {
	ch, err := b.conn.Channel()
	if err != nil {
		return err
	}
	q, err := ch.QueueDeclare(
		"",    // broker-named
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // noWait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		return err
	}
	if err = ch.QueueBind(q.Name, "", catalogExchange, false, nil); err != nil {
		ch.Close()
		return err
	}
	deliveries, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		ch.Close()
		return err
	}

	go func() {
		defer ch.Close()
		for d := range deliveries {
			msg, err := decodeAnnouncement(d.Body)
			if err != nil {
				log.Printf("Discarding malformed catalog announcement: %v", err)
			} else {
				handler(msg)
			}
			d.Ack(false)
		}
	}()
	return nil
}

func decodeAnnouncement(body []byte) (CatalogUpdatedMessage, error) {
	var msg CatalogUpdatedMessage
	err := json.Unmarshal(body, &msg)
	return msg, err
}
