package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"blog/internal/models"

	amqp "github.com/streadway/amqp"
)

// PostEventsQueue receives one message per post lifecycle transition.
const PostEventsQueue = "post_events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ, opens a channel and declares the post events queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := declarePostEvents(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.Printf("RabbitMQ client connected and %s declared.", PostEventsQueue)

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

func declarePostEvents(ch *amqp.Channel) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		PostEventsQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return q, fmt.Errorf("failed to declare %s: %w", PostEventsQueue, err)
	}
	return q, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors while closing RabbitMQ client: %v", errs)
	}
	return nil
}

// PublishPostEvent sends event as a persistent JSON message on the post events queue.
func (c *Client) PublishPostEvent(event models.PostEvent) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal post event: %w", err)
	}

	err = c.channel.Publish(
		"",              // default exchange
		PostEventsQueue, // routing key
		false,           // mandatory
		false,           // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         string(event.Type),
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish post event: %w", err)
	}
	return nil
}

// ConsumePostEvents decodes messages from the post events queue and hands
// them to handler. Messages are acked on success and dropped (nack without
// requeue) when they cannot be decoded; handler errors requeue.
func (c *Client) ConsumePostEvents(handler func(models.PostEvent) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := declarePostEvents(c.channel)
	if err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		queue.Name,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			if err := HandleDelivery(msg.Body, handler); err != nil {
				log.Printf("Error processing post event %d: %v", msg.DeliveryTag, err)
				if nackErr := msg.Nack(false, !isDecodeError(err)); nackErr != nil {
					log.Printf("Error nacking message %d: %v", msg.DeliveryTag, nackErr)
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				log.Printf("Error acking message %d: %v", msg.DeliveryTag, ackErr)
			}
		}
	}()

	return nil
}

type decodeError struct{ err error }

func (e decodeError) Error() string { return "decode post event: " + e.err.Error() }
func (e decodeError) Unwrap() error { return e.err }

func isDecodeError(err error) bool {
	_, ok := err.(decodeError)
	return ok
}

// HandleDelivery decodes one message body and passes it to handler.
func HandleDelivery(body []byte, handler func(models.PostEvent) error) error {
	var event models.PostEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return decodeError{err: err}
	}
	return handler(event)
}

// LogPostEvent is the default consumer handler: it records the event in the log.
func LogPostEvent(event models.PostEvent) error {
	log.Printf("Post event %s: post=%s creator=%s category=%s", event.Type, event.PostID, event.Creator, event.Category)
	return nil
}
