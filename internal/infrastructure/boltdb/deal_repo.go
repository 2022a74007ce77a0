// Package boltdb stores deals in an embedded BoltDB file. It is meant for
// single-node deployments and local development where running a database
// server is not worth it.
package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/LavaJover/safelink-deal-service/internal/domain"
	"github.com/boltdb/bolt"
)

var (
	dealsBucket      = []byte("deals")
	referencesBucket = []byte("deal_references")
)

type DealRepository struct {
	db *bolt.DB
}

// NewDealRepository opens (or creates) the database file at path and makes
// sure both buckets exist.
func NewDealRepository(path string) (*DealRepository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create bolt directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(dealsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(referencesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &DealRepository{db: db}, nil
}

func (r *DealRepository) Close() error {
	return r.db.Close()
}

func (r *DealRepository) CreateDeal(ctx context.Context, deal *domain.Deal) error {
	data, err := json.Marshal(toRecord(deal))
	if err != nil {
		return err
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		deals := tx.Bucket(dealsBucket)
		refs := tx.Bucket(referencesBucket)

		if deals.Get([]byte(deal.ID)) != nil || refs.Get([]byte(deal.Reference)) != nil {
			return fmt.Errorf("%w: %s", domain.ErrConflict, deal.ID)
		}
		if err := deals.Put([]byte(deal.ID), data); err != nil {
			return err
		}
		return refs.Put([]byte(deal.Reference), []byte(deal.ID))
	})
}

func (r *DealRepository) GetDealByID(ctx context.Context, dealID string) (*domain.Deal, error) {
	var deal *domain.Deal
	err := r.db.View(func(tx *bolt.Tx) error {
		var err error
		deal, err = getDeal(tx, dealID)
		return err
	})
	return deal, err
}

func (r *DealRepository) GetDealByReference(ctx context.Context, reference string) (*domain.Deal, error) {
	var deal *domain.Deal
	err := r.db.View(func(tx *bolt.Tx) error {
		id := tx.Bucket(referencesBucket).Get([]byte(reference))
		if id == nil {
			return domain.ErrDealNotFound
		}
		var err error
		deal, err = getDeal(tx, string(id))
		return err
	})
	return deal, err
}

func (r *DealRepository) ListDeals(ctx context.Context, filter domain.DealFilter) ([]*domain.Deal, error) {
	deals := []*domain.Deal{}
	err := r.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(dealsBucket).ForEach(func(k, v []byte) error {
			deal, err := decodeDeal(v)
			if err != nil {
				return err
			}
			if !matches(deal, filter) {
				return nil
			}
			deals = append(deals, deal)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(deals, func(i, j int) bool {
		if filter.OldestFirst {
			return deals[i].CreatedAt.Before(deals[j].CreatedAt)
		}
		return deals[i].CreatedAt.After(deals[j].CreatedAt)
	})
	if filter.Limit > 0 && len(deals) > filter.Limit {
		deals = deals[:filter.Limit]
	}
	return deals, nil
}

// UpdateDeal runs the status check and the write in one read-write
// transaction. Bolt allows a single writer at a time, so the check cannot go
// stale before the write.
func (r *DealRepository) UpdateDeal(ctx context.Context, dealID string, expected []domain.DealStatus, patch domain.DealPatch) (*domain.Deal, error) {
	var updated domain.Deal
	err := r.db.Update(func(tx *bolt.Tx) error {
		current, err := getDeal(tx, dealID)
		if err != nil {
			return err
		}
		if len(expected) > 0 && !hasStatus(expected, current.Status) {
			return domain.ErrStatusMismatch
		}

		updated = patch.Apply(*current)
		data, err := json.Marshal(toRecord(&updated))
		if err != nil {
			return err
		}
		return tx.Bucket(dealsBucket).Put([]byte(dealID), data)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func getDeal(tx *bolt.Tx, dealID string) (*domain.Deal, error) {
	v := tx.Bucket(dealsBucket).Get([]byte(dealID))
	if v == nil {
		return nil, domain.ErrDealNotFound
	}
	return decodeDeal(v)
}

func decodeDeal(v []byte) (*domain.Deal, error) {
	var rec dealRecord
	if err := json.Unmarshal(v, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode deal record: %w", err)
	}
	return rec.toDomain()
}

func matches(deal *domain.Deal, filter domain.DealFilter) bool {
	if len(filter.Statuses) > 0 && !hasStatus(filter.Statuses, deal.Status) {
		return false
	}
	if filter.CreatedBefore != nil && !deal.CreatedAt.Before(*filter.CreatedBefore) {
		return false
	}
	return true
}

func hasStatus(statuses []domain.DealStatus, s domain.DealStatus) bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}
