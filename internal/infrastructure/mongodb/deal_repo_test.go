package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const ns = "safelink.deals"

func sampleDeal(id string, status domain.DealStatus) *domain.Deal {
	created := time.Date(2025, 5, 2, 14, 0, 0, 0, time.UTC)
	return &domain.Deal{
		ID:            id,
		SchemaVersion: domain.DealSchemaVersion,
		ItemName:      "Headphones",
		Price:         decimal.RequireFromString("350.00"),
		ServiceFee:    decimal.RequireFromString("3.50"),
		TotalToPay:    decimal.RequireFromString("353.50"),
		SellerMoMo:    "0244000000",
		BuyerEmail:    "yaw@example.com",
		Status:        status,
		Reference:     domain.ReferenceForID(id),
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func toBSON(t *mtest.T, deal *domain.Deal) bson.D {
	doc, err := toDocument(deal)
	require.NoError(t, err)
	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var d bson.D
	require.NoError(t, bson.Unmarshal(raw, &d))
	return d
}

func TestDocumentRoundTrip(t *testing.T) {
	deal := sampleDeal("d1", domain.StatusPaid)
	paidAt := deal.CreatedAt.Add(time.Minute)
	deal.PaidAt = &paidAt
	deal.GatewayPayload = []byte(`{"status":"success"}`)

	doc, err := toDocument(deal)
	require.NoError(t, err)
	assert.Equal(t, "353.50", doc.TotalToPay.String())

	back, err := doc.toDomain()
	require.NoError(t, err)
	assert.True(t, back.TotalToPay.Equal(deal.TotalToPay))
	assert.Equal(t, deal.PaidAt, back.PaidAt)
	assert.JSONEq(t, `{"status":"success"}`, string(back.GatewayPayload))
}

func TestPatchToSet(t *testing.T) {
	now := time.Now().UTC()
	set := patchToSet(domain.DealPatch{Status: domain.StatusDisputed, DisputedAt: &now, DisputeReason: "broken", UpdatedAt: now})
	assert.Equal(t, bson.M{
		"status":         "disputed",
		"disputed_at":    now,
		"dispute_reason": "broken",
		"updated_at":     now,
	}, set)
	assert.Empty(t, patchToSet(domain.DealPatch{}))
}

func TestDealRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		repo := NewDealRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		assert.NoError(mt, repo.CreateDeal(context.Background(), sampleDeal("d1", domain.StatusPendingPayment)))
	})

	mt.Run("create duplicate", func(mt *mtest.T) {
		repo := NewDealRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		err := repo.CreateDeal(context.Background(), sampleDeal("d1", domain.StatusPendingPayment))
		assert.ErrorIs(mt, err, domain.ErrConflict)
	})

	mt.Run("get by reference", func(mt *mtest.T) {
		repo := NewDealRepository(mt.Coll)
		deal := sampleDeal("d1", domain.StatusPendingPayment)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, toBSON(mt, deal)))

		got, err := repo.GetDealByReference(context.Background(), "SL-d1")
		require.NoError(mt, err)
		assert.Equal(mt, "d1", got.ID)
		assert.Equal(mt, "353.50", got.TotalToPay.StringFixed(2))
	})

	mt.Run("get missing", func(mt *mtest.T) {
		repo := NewDealRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.GetDealByID(context.Background(), "missing")
		assert.ErrorIs(mt, err, domain.ErrDealNotFound)
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := NewDealRepository(mt.Coll)
		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, toBSON(mt, sampleDeal("d2", domain.StatusPaid)))
		second := mtest.CreateCursorResponse(1, ns, mtest.NextBatch, toBSON(mt, sampleDeal("d1", domain.StatusPaid)))
		killCursors := mtest.CreateCursorResponse(0, ns, mtest.NextBatch)
		mt.AddMockResponses(first, second, killCursors)

		deals, err := repo.ListDeals(context.Background(), domain.DealFilter{Statuses: []domain.DealStatus{domain.StatusPaid}})
		require.NoError(mt, err)
		require.Len(mt, deals, 2)
		assert.Equal(mt, "d2", deals[0].ID)
	})

	mt.Run("update applied", func(mt *mtest.T) {
		repo := NewDealRepository(mt.Coll)
		updated := sampleDeal("d1", domain.StatusCompleted)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: toBSON(mt, updated)}))

		now := time.Now().UTC()
		got, err := repo.UpdateDeal(context.Background(), "d1", []domain.DealStatus{domain.StatusPaid},
			domain.DealPatch{Status: domain.StatusCompleted, CompletedAt: &now, UpdatedAt: now})
		require.NoError(mt, err)
		assert.Equal(mt, domain.StatusCompleted, got.Status)
	})

	mt.Run("update status mismatch", func(mt *mtest.T) {
		repo := NewDealRepository(mt.Coll)
		current := sampleDeal("d1", domain.StatusCancelled)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, toBSON(mt, current)),
		)

		_, err := repo.UpdateDeal(context.Background(), "d1", []domain.DealStatus{domain.StatusPaid},
			domain.DealPatch{Status: domain.StatusCompleted})
		assert.ErrorIs(mt, err, domain.ErrStatusMismatch)
	})

	mt.Run("update missing", func(mt *mtest.T) {
		repo := NewDealRepository(mt.Coll)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
		)

		_, err := repo.UpdateDeal(context.Background(), "nope", []domain.DealStatus{domain.StatusPaid},
			domain.DealPatch{Status: domain.StatusCompleted})
		assert.ErrorIs(mt, err, domain.ErrDealNotFound)
	})
}
