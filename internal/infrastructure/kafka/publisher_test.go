package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func testDeal() *domain.Deal {
	created := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	paid := created.Add(3 * time.Minute)
	return &domain.Deal{
		ID:            "0b6c2b1e-2c7e-4f55-9d2e-6c1f0b9d8a11",
		SchemaVersion: domain.DealSchemaVersion,
		ItemName:      "Laptop",
		Price:         decimal.RequireFromString("2500"),
		ServiceFee:    decimal.RequireFromString("25"),
		TotalToPay:    decimal.RequireFromString("2525"),
		SellerMoMo:    "0551112222",
		BuyerEmail:    "ama@example.com",
		Status:        domain.StatusPaid,
		Reference:     "SL-0b6c2b1e-2c7e-4f55-9d2e-6c1f0b9d8a11",
		CreatedAt:     created,
		UpdatedAt:     paid,
		PaidAt:        &paid,
	}
}

func TestKafkaPublisher_PublishDealEvent(t *testing.T) {
	w := &recordingWriter{}
	p, err := newKafkaPublisher(w)
	require.NoError(t, err)

	deal := testDeal()
	require.NoError(t, p.PublishDealEvent(context.Background(), domain.EventDealPaid, deal))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, deal.ID, string(msg.Key))
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, string(domain.EventDealPaid), string(msg.Headers[0].Value))

	var event DealEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Len(t, event.EventID, 21)
	assert.Equal(t, "deal.paid", event.EventType)
	assert.Equal(t, "paid", event.Status)
	assert.Equal(t, "2525.00", event.TotalToPay)
	assert.Equal(t, "25.00", event.ServiceFee)
	assert.Equal(t, 1, event.SchemaVersion)
	require.NotNil(t, event.PaidAt)
	assert.True(t, deal.PaidAt.Equal(*event.PaidAt))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WriterError(t *testing.T) {
	w := &recordingWriter{err: errors.New("leader not available")}
	p, err := newKafkaPublisher(w)
	require.NoError(t, err)

	err = p.PublishDealEvent(context.Background(), domain.EventDealCreated, testDeal())
	assert.ErrorContains(t, err, "leader not available")
}

func TestKafkaPublisher_UniqueEventIDs(t *testing.T) {
	w := &recordingWriter{}
	p, err := newKafkaPublisher(w)
	require.NoError(t, err)

	deal := testDeal()
	require.NoError(t, p.PublishDealEvent(context.Background(), domain.EventDealCreated, deal))
	require.NoError(t, p.PublishDealEvent(context.Background(), domain.EventDealPaid, deal))

	var first, second DealEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &first))
	require.NoError(t, json.Unmarshal(w.msgs[1].Value, &second))
	assert.NotEqual(t, first.EventID, second.EventID)
}
