package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/LavaJover/safelink-deal-service/internal/config"
	"github.com/LavaJover/safelink-deal-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{LogLevel: "warn", LogFormat: "json"}, &buf)

	log.Info("dropped")
	log.Warn("kept", "deal_id", "d1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "d1", entry["deal_id"])
}

func TestPGDealEventLogger(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&DealEventRecord{}))

	l, err := NewPGDealEventLogger(db)
	require.NoError(t, err)

	deal := &domain.Deal{
		ID:         "d1",
		Reference:  "SL-d1",
		Status:     domain.StatusPendingPayment,
		TotalToPay: decimal.RequireFromString("101"),
		UpdatedAt:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, l.PublishDealEvent(context.Background(), domain.EventDealCreated, deal))

	deal.Status = domain.StatusPaid
	deal.UpdatedAt = deal.UpdatedAt.Add(time.Minute)
	require.NoError(t, l.PublishDealEvent(context.Background(), domain.EventDealPaid, deal))

	records, err := l.EventsForDeal(context.Background(), "d1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, string(domain.EventDealCreated), records[0].EventType)
	assert.Equal(t, string(domain.EventDealPaid), records[1].EventType)
	assert.Equal(t, "101.00", records[1].TotalToPay)
	assert.NotEqual(t, records[0].ID, records[1].ID)
}
