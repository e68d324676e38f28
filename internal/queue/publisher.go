package queue

import (
	"context"
	"errors"
	"time"

	json "github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/iliyamo/venue-booking/internal/logging"
)

// DefaultExchange is the topic exchange listing events are sent to.
const DefaultExchange = "listings"

const dialTimeout = 3 * time.Second

// ErrNoBroker is returned by Publish when no broker URL is configured.
var ErrNoBroker = errors.New("queue: broker url not configured")

// Publisher sends ListingEvents to a durable topic exchange.  It opens a
// connection per message, which keeps it stateless at the cost of a dial for
// every mutation; listing changes are rare enough for that to be fine.
type Publisher struct {
	url      string
	exchange string
	log      zerolog.Logger
}

// NewPublisher returns a publisher for the broker at url.  An empty exchange
// selects DefaultExchange.
func NewPublisher(url, exchange string) *Publisher {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &Publisher{
		url:      url,
		exchange: exchange,
		log:      logging.WithComponent("rabbitmq"),
	}
}

// Exchange returns the exchange events are published to.
func (p *Publisher) Exchange() string { return p.exchange }

// Publish delivers ev with its Type as routing key.  Errors are logged and
// returned so the caller can decide to ignore them.  Messages are persistent.
func (p *Publisher) Publish(ctx context.Context, ev ListingEvent) error {
	if p.url == "" {
		return ErrNoBroker
	}
	pub, err := newPublishing(ev)
	if err != nil {
		p.log.Error().Err(err).Str("type", ev.Type).Msg("marshal event failed")
		return err
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		p.log.Warn().Err(err).Msg("dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn().Err(err).Msg("channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent; durable so bindings survive broker restarts.
	if err := ch.ExchangeDeclare(
		p.exchange, // name
		"topic",    // kind
		true,       // durable
		false,      // autoDelete
		false,      // internal
		false,      // noWait
		nil,        // args
	); err != nil {
		p.log.Warn().Err(err).Str("exchange", p.exchange).Msg("exchange declare failed")
		return err
	}

	if err := ch.PublishWithContext(ctx,
		p.exchange, // exchange
		ev.Type,    // routing key
		false,      // mandatory
		false,      // immediate
		pub,
	); err != nil {
		p.log.Warn().Err(err).Str("type", ev.Type).Msg("publish failed")
		return err
	}
	p.log.Debug().Str("type", ev.Type).Int64("id", ev.ID).Msg("event published")
	return nil
}

func newPublishing(ev ListingEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}, nil
}
