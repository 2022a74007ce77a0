package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const queryTimeout = 5 * time.Second

// Connect opens a client and pings the primary.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

type DealRepository struct {
	coll *mongo.Collection
}

func NewDealRepository(coll *mongo.Collection) *DealRepository {
	return &DealRepository{coll: coll}
}

// EnsureIndexes creates the unique reference index and the index used by
// status listings.
func (r *DealRepository) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "reference", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *DealRepository) CreateDeal(ctx context.Context, deal *domain.Deal) error {
	doc, err := toDocument(deal)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", domain.ErrConflict, deal.ID)
		}
		return err
	}
	return nil
}

func (r *DealRepository) GetDealByID(ctx context.Context, dealID string) (*domain.Deal, error) {
	return r.findOne(ctx, bson.M{"_id": dealID})
}

func (r *DealRepository) GetDealByReference(ctx context.Context, reference string) (*domain.Deal, error) {
	return r.findOne(ctx, bson.M{"reference": reference})
}

func (r *DealRepository) findOne(ctx context.Context, filter bson.M) (*domain.Deal, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc dealDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDealNotFound
		}
		return nil, err
	}
	return doc.toDomain()
}

func (r *DealRepository) ListDeals(ctx context.Context, filter domain.DealFilter) ([]*domain.Deal, error) {
	query := bson.M{}
	if len(filter.Statuses) > 0 {
		query["status"] = bson.M{"$in": statusStrings(filter.Statuses)}
	}
	if filter.CreatedBefore != nil {
		query["created_at"] = bson.M{"$lt": *filter.CreatedBefore}
	}

	direction := -1
	if filter.OldestFirst {
		direction = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: direction}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	deals := []*domain.Deal{}
	for cursor.Next(ctx) {
		var doc dealDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		deal, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		deals = append(deals, deal)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return deals, nil
}

// UpdateDeal is a single findAndModify filtered on id and expected status.
// No match is disambiguated with a follow-up read.
func (r *DealRepository) UpdateDeal(ctx context.Context, dealID string, expected []domain.DealStatus, patch domain.DealPatch) (*domain.Deal, error) {
	filter := bson.M{"_id": dealID}
	if len(expected) > 0 {
		filter["status"] = bson.M{"$in": statusStrings(expected)}
	}
	set := patchToSet(patch)
	if len(set) == 0 {
		// an empty $set is rejected by the server
		deal, err := r.GetDealByID(ctx, dealID)
		if err != nil {
			return nil, err
		}
		if len(expected) > 0 && !hasStatus(expected, deal.Status) {
			return nil, domain.ErrStatusMismatch
		}
		return deal, nil
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	updateCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc dealDocument
	err := r.coll.FindOneAndUpdate(updateCtx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, gerr := r.GetDealByID(ctx, dealID); gerr != nil {
			return nil, gerr
		}
		return nil, domain.ErrStatusMismatch
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain()
}

func statusStrings(statuses []domain.DealStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func hasStatus(statuses []domain.DealStatus, s domain.DealStatus) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}
