package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=./mocks/event_mock.go -package=mocks

import (
	"context"
	"fmt"
	"littlelemon/config"
	"littlelemon/infras/kafka"
	"littlelemon/infras/otel"
	"littlelemon/internal/domains/booking/model/dto"
	"littlelemon/shared/constant"
	"strconv"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

const (
	TypeCreated = "booking.created"
	TypeUpdated = "booking.updated"
	TypeDeleted = "booking.deleted"

	headerEventType = "event-type"
)

type Event struct {
	Type    string              `json:"type"`
	Booking dto.BookingResponse `json:"booking"`
}

type Publisher interface {
	Publish(ctx context.Context, eventType string, booking dto.BookingResponse) error
}

type publisherImpl struct {
	client kafka.Client
	topic  string
	otel   otel.Otel
}

type disabledPublisher struct{}

// NewPublisher returns a Kafka backed publisher, or one that drops every event when Kafka is disabled.
func NewPublisher(cfg *config.Config, client kafka.Client, otel otel.Otel) Publisher {
	if !cfg.Kafka.Enable {
		log.Info().Msg("Kafka disabled, booking events will not be published")

		return disabledPublisher{}
	}

	return &publisherImpl{
		client: client,
		topic:  cfg.Kafka.Topics.Bookings,
		otel:   otel,
	}
}

func (p *publisherImpl) Publish(ctx context.Context, eventType string, booking dto.BookingResponse) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Publish")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		"event.type":    eventType,
		"event.topic":   p.topic,
		"event.booking": booking.ID,
	})

	err = p.client.SendMessages(ctx, p.topic, kafka.Message{
		Key:     strconv.FormatInt(booking.ID, 10),
		Value:   Event{Type: eventType, Booking: booking},
		Headers: map[string]string{headerEventType: eventType},
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}

	return nil
}

func (disabledPublisher) Publish(context.Context, string, dto.BookingResponse) error {
	return nil
}

// Notifier turns booking events into front-of-house notifications.
type Notifier struct {
	otel otel.Otel
}

func NewNotifier(otel otel.Otel) Notifier {
	return Notifier{otel: otel}
}

// Handle is a kafka.Handler.
func (n Notifier) Handle(ctx context.Context, msg kafkaGo.Message) error {
	_, err := n.Notify(ctx, msg)

	return err
}

// Notify logs the notification line for msg and returns it.
func (n Notifier) Notify(ctx context.Context, msg kafkaGo.Message) (line string, err error) {
	_, scope := n.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Notify")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	evt, err := kafka.DecodeKafkaMessage[Event](msg)
	if err != nil {
		return "", fmt.Errorf("failed to decode booking event: %w", err)
	}

	booking, err := evt.Booking.ToModel()
	if err != nil {
		return "", fmt.Errorf("failed to read booking date: %w", err)
	}

	switch evt.Type {
	case TypeCreated:
		line = "New booking: " + booking.String()
	case TypeUpdated:
		line = "Booking changed: " + booking.String()
	case TypeDeleted:
		line = "Booking cancelled: " + booking.String()
	default:
		return "", fmt.Errorf("unknown booking event type %q", evt.Type)
	}

	log.Info().
		Str("event", evt.Type).
		Int64("booking", booking.ID).
		Str("header", kafka.Header(msg, headerEventType)).
		Msg(line)

	return line, nil
}
