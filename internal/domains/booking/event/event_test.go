package event_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"littlelemon/config"
	"littlelemon/infras/kafka"
	kafkaMocks "littlelemon/infras/kafka/mocks"
	"littlelemon/infras/otel/mocks"
	"littlelemon/internal/domains/booking/event"
	"littlelemon/internal/domains/booking/model/dto"
	"littlelemon/shared/timezone"
)

func booking() dto.BookingResponse {
	return dto.BookingResponse{
		ID:             12,
		Name:           "Mario",
		NumberOfGuests: 4,
		BookingDate:    time.Date(2024, 5, 1, 19, 0, 0, 0, timezone.GetLocation()).Format(time.RFC3339),
	}
}

func TestPublisher_Publish(t *testing.T) {
	cfg := &config.Config{}
	cfg.Kafka.Enable = true
	cfg.Kafka.Topics.Bookings = "restaurant.bookings"

	t.Run("sends keyed event", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := kafkaMocks.NewMockClient(ctrl)

		client.EXPECT().
			SendMessages(gomock.Any(), "restaurant.bookings", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
				require.Len(t, messages, 1)
				assert.Equal(t, "12", messages[0].Key)
				assert.Equal(t, event.Event{Type: event.TypeCreated, Booking: booking()}, messages[0].Value)

				return nil
			})

		publisher := event.NewPublisher(cfg, client, mocks.NewOtel())

		assert.NoError(t, publisher.Publish(context.Background(), event.TypeCreated, booking()))
	})

	t.Run("broker failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := kafkaMocks.NewMockClient(ctrl)

		client.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		publisher := event.NewPublisher(cfg, client, mocks.NewOtel())

		assert.Error(t, publisher.Publish(context.Background(), event.TypeDeleted, booking()))
	})

	t.Run("disabled", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := kafkaMocks.NewMockClient(ctrl)

		publisher := event.NewPublisher(&config.Config{}, client, mocks.NewOtel())

		assert.NoError(t, publisher.Publish(context.Background(), event.TypeCreated, booking()))
	})
}

func TestNotifier_Notify(t *testing.T) {
	notifier := event.NewNotifier(mocks.NewOtel())

	message := func(evt event.Event) kafkaGo.Message {
		value, err := json.Marshal(evt)
		require.NoError(t, err)

		return kafkaGo.Message{Key: []byte("12"), Value: value}
	}

	tests := []struct {
		name    string
		msg     kafkaGo.Message
		want    string
		wantErr bool
	}{
		{
			name: "created",
			msg:  message(event.Event{Type: event.TypeCreated, Booking: booking()}),
			want: "New booking: Mario - 4 guests on 2024-05-01 19:00",
		},
		{
			name: "deleted",
			msg:  message(event.Event{Type: event.TypeDeleted, Booking: booking()}),
			want: "Booking cancelled: Mario - 4 guests on 2024-05-01 19:00",
		},
		{
			name:    "unknown type",
			msg:     message(event.Event{Type: "booking.moved", Booking: booking()}),
			wantErr: true,
		},
		{
			name:    "not json",
			msg:     kafkaGo.Message{Value: []byte("nope")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := notifier.Notify(context.Background(), tt.msg)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Error(t, notifier.Handle(context.Background(), tt.msg))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, line)
		})
	}
}
