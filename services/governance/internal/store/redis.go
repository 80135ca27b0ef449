package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ry86pkqf74-rgb/researchflow-production-sub005/pkg/domain"
)

// scanTTL bounds scan and override retention. It matches the override
// approval window: a scan older than the longest-lived override that could
// reference it is useless.
const scanTTL = 24 * time.Hour

// Redis implements ScanStore and OverrideStore with TTL-based retention.
type Redis struct{ Client *redis.Client }

// ConnectRedis creates a client from a URL like redis://localhost:6379/0.
func ConnectRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

func NewRedis(client *redis.Client) *Redis { return &Redis{Client: client} }

func scanKey(id string) string     { return "phi:scan:" + id }
func overrideKey(id string) string { return "phi:override:" + id }

func (r *Redis) PutScan(ctx context.Context, scan domain.ScanResult) error {
	b, err := json.Marshal(scan)
	if err != nil {
		return err
	}
	if err := r.Client.Set(ctx, scanKey(scan.ScanID), b, scanTTL).Err(); err != nil {
		return fmt.Errorf("put scan: %w", err)
	}
	return nil
}

func (r *Redis) GetScan(ctx context.Context, scanID string) (domain.ScanResult, error) {
	b, err := r.Client.Get(ctx, scanKey(scanID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ScanResult{}, ErrScanNotFound
	}
	if err != nil {
		return domain.ScanResult{}, fmt.Errorf("get scan: %w", err)
	}
	var scan domain.ScanResult
	if err := json.Unmarshal(b, &scan); err != nil {
		return domain.ScanResult{}, err
	}
	return scan, nil
}

func (r *Redis) PutOverride(ctx context.Context, rec domain.OverrideRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := r.Client.Set(ctx, overrideKey(rec.AuditID), b, scanTTL).Err(); err != nil {
		return fmt.Errorf("put override: %w", err)
	}
	return nil
}

func (r *Redis) GetOverride(ctx context.Context, auditID string) (domain.OverrideRecord, error) {
	b, err := r.Client.Get(ctx, overrideKey(auditID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.OverrideRecord{}, ErrOverrideNotFound
	}
	if err != nil {
		return domain.OverrideRecord{}, fmt.Errorf("get override: %w", err)
	}
	var rec domain.OverrideRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return domain.OverrideRecord{}, err
	}
	return rec, nil
}
