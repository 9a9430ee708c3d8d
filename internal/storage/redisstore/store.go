// Package redisstore persists hold metadata and ChittyID mappings in Redis
// with a fixed expiry.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/chittyapps/chittycharge/internal/domain"
)

const chittyIDPrefix = "chittyid:"

// Store is a hold store backed by a Redis client.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// New returns a store whose entries expire after ttl.
func New(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// PutHold writes the hold-metadata record under the processor transaction id.
func (s *Store) PutHold(ctx context.Context, record domain.HoldRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode hold record: %w", err)
	}
	if err := s.rdb.Set(ctx, record.ID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("put hold %s: %w", record.ID, err)
	}
	return nil
}

// GetHold reads a hold-metadata record. A missing key returns (nil, nil).
func (s *Store) GetHold(ctx context.Context, id string) (*domain.HoldRecord, error) {
	data, err := s.rdb.Get(ctx, id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get hold %s: %w", id, err)
	}
	var record domain.HoldRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode hold record %s: %w", id, err)
	}
	return &record, nil
}

// PutMapping indexes a hold by its ChittyID. The value is the raw transaction
// id string.
func (s *Store) PutMapping(ctx context.Context, chittyID, holdID string) error {
	if err := s.rdb.Set(ctx, chittyIDPrefix+chittyID, holdID, s.ttl).Err(); err != nil {
		return fmt.Errorf("put mapping %s: %w", chittyID, err)
	}
	return nil
}

// GetMapping returns the transaction id mapped to a ChittyID, or "" when the
// mapping is absent or expired.
func (s *Store) GetMapping(ctx context.Context, chittyID string) (string, error) {
	value, err := s.rdb.Get(ctx, chittyIDPrefix+chittyID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("get mapping %s: %w", chittyID, err)
	}
	return value, nil
}
