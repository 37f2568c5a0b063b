package queue

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/hotel-room-reservation/internal/trace"
)

// PublishPaymentEvent publishes a bank-transfer payment event to the
// payment queue with a caller-supplied TTL hint (zero means no
// expiry). This is the collaborator side of the message boundary; the
// reservation service itself only consumes. Messages are persistent
// and carry the caller's trace id so the consumer can correlate.
func PublishPaymentEvent(ctx context.Context, event BankTransferPaymentEvent, ttl time.Duration) error {
	conn, err := amqp.Dial(brokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		PaymentQueueName, // name
		true,             // durable
		false,            // autoDelete
		false,            // exclusive
		false,            // noWait
		nil,              // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Headers:      amqp.Table{trace.AMQPHeader: trace.FromContext(ctx)},
		Body:         body,
	}
	if ttl > 0 {
		pub.Expiration = strconv.FormatInt(ttl.Milliseconds(), 10)
	}

	if err := ch.PublishWithContext(ctx,
		"",               // default exchange
		PaymentQueueName, // routing key = queue name
		false,            // mandatory
		false,            // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}

	log.Printf("rabbitmq: trace=%s published payment event payment_id=%s ttl=%s",
		trace.FromContext(ctx), event.PaymentID, ttl)
	return nil
}
