package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/bookings"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/config"
	"github.com/svstupireburgh/FeelmeTown-sub000/pkg/logger"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockProducer(t *testing.T) (*mocks.SyncProducer, *KafkaNotificationProducer) {
	cfg := DefaultKafkaProducerConfig()
	sp := mocks.NewSyncProducer(t, cfg.saramaConfig())
	return sp, newKafkaNotificationProducer(sp, cfg)
}

func TestPublisher_BookingCreated(t *testing.T) {
	sp, producer := newMockProducer(t)
	defer producer.Close()

	var sent BookingNotification
	sp.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, _ := msg.Key.Encode()
		if string(key) != "9876543210" {
			return errors.New("unexpected partition key " + string(key))
		}
		value, _ := msg.Value.Encode()
		return json.Unmarshal(value, &sent)
	})

	booking := &bookings.Booking{
		ID:           uuid.New(),
		BookingRef:   "FMT-20260214-ABCDEF",
		CustomerName: "Asha",
		Email:        "asha@example.com",
		Phone:        "9876543210",
		TheaterName:  "Gold Lounge",
		FinalTotal:   2199,
	}

	err := NewNotificationPublisher(producer).BookingCreated(context.Background(), booking)
	require.NoError(t, err)

	assert.Equal(t, NotificationTypeBookingConfirmed, sent.Type)
	assert.Equal(t, "Booking Confirmed - FMT-20260214-ABCDEF", sent.Subject)
	assert.Equal(t, NotificationStatusQueued, sent.Status)
	require.NotNil(t, sent.BookingID)
	assert.Equal(t, booking.ID, *sent.BookingID)
}

func TestPublisher_IncompleteBookingFailure(t *testing.T) {
	sp, producer := newMockProducer(t)
	defer producer.Close()

	sp.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := NewNotificationPublisher(producer).PublishIncompleteBooking(context.Background(), IncompleteBooking{
		SessionID:   "sess-1",
		Name:        "Asha",
		Email:       "asha@example.com",
		TheaterName: "Gold Lounge",
	})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
}

func TestNotification_PartitionKeyFallbacks(t *testing.T) {
	n := NewNotificationBuilder().WithRecipient("Asha", "asha@example.com", "").Build()
	assert.Equal(t, "asha@example.com", n.GetPartitionKey())

	n = NewNotificationBuilder().Build()
	assert.Equal(t, n.ID.String(), n.GetPartitionKey())

	assert.Equal(t, NotificationPriorityHigh, GetDefaultPriority(NotificationTypeIncompleteBooking))
}

func TestNewProducer_DisabledUsesLog(t *testing.T) {
	p, err := NewProducer(config.KafkaConfig{Enabled: false}, logger.Discard())
	require.NoError(t, err)

	_, ok := p.(*LogProducer)
	assert.True(t, ok)
	assert.NoError(t, p.PublishNotification(context.Background(), NewNotificationBuilder().Build()))
	assert.NoError(t, p.Close())
}
