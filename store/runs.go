// Package store keeps render-run bookkeeping in Redis so past runs can be
// listed and inspected after the worker restarts.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GOMDJ/shorts-art/types"
)

const (
	// recentKey is the list of run IDs, newest first.
	recentKey = "runs:recent"

	// recentLimit caps how many historical runs are retained in the list.
	recentLimit = 200

	// opTimeout bounds each Redis call.
	opTimeout = 5 * time.Second
)

// Run statuses as stored.
const (
	StatusPending   = "pending"
	StatusRendering = "rendering"
	StatusDone      = "done"
	StatusFailed    = "failed"
)

// Record is the stored view of one render run.
type Record struct {
	RunID     string         `json:"run_id"`
	Title     string         `json:"title"`
	Artist    string         `json:"artist,omitempty"`
	Status    string         `json:"status"`
	VideoPath string         `json:"video_path,omitempty"`
	VideoID   string         `json:"video_id,omitempty"`
	Error     string         `json:"error,omitempty"`
	Timeline  types.Timeline `json:"timeline,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Store wraps the Redis client with run-record operations.
type Store struct {
	client *redis.Client
}

// New connects to Redis and verifies connectivity with a ping.
func New(addr, password string) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &Store{client: client}, nil
}

// Close closes the underlying Redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func runKey(id string) string {
	return "runs:" + id
}

// CreateRun records a new pending run and pushes it onto the recent list.
func (s *Store) CreateRun(ctx context.Context, req types.RenderRequest) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now().UTC()
	rec := Record{
		RunID:     req.RunID,
		Title:     req.Title,
		Artist:    req.Artist,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.write(ctx, rec); err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.LPush(ctx, recentKey, req.RunID)
	pipe.LTrim(ctx, recentKey, 0, recentLimit-1)
	_, err := pipe.Exec(ctx)
	return err
}

// SetStatus moves a run to a new status.
func (s *Store) SetStatus(ctx context.Context, runID, status string) error {
	return s.update(ctx, runID, func(rec *Record) {
		rec.Status = status
	})
}

// Complete stores the outcome of a finished run, successful or not.
func (s *Store) Complete(ctx context.Context, result types.RenderResult) error {
	return s.update(ctx, result.RunID, func(rec *Record) {
		rec.Status = result.Status
		rec.VideoPath = result.VideoPath
		rec.VideoID = result.VideoID
		rec.Error = result.Error
		rec.Timeline = result.Timeline
	})
}

// GetRun fetches one run record. Returns redis.Nil wrapped when absent.
func (s *Store) GetRun(ctx context.Context, runID string) (*Record, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	raw, err := s.client.Get(ctx, runKey(runID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", runID, err)
	}
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("corrupt run record %s: %w", runID, err)
	}
	return &rec, nil
}

// Recent returns up to n run IDs, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.client.LRange(ctx, recentKey, 0, int64(n-1)).Result()
}

func (s *Store) write(ctx context.Context, rec Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, runKey(rec.RunID), raw, 0).Err()
}

func (s *Store) update(ctx context.Context, runID string, mutate func(*Record)) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	raw, err := s.client.Get(ctx, runKey(runID)).Result()
	if err != nil {
		return fmt.Errorf("failed to load run %s: %w", runID, err)
	}
	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return fmt.Errorf("corrupt run record %s: %w", runID, err)
	}
	mutate(&rec)
	rec.UpdatedAt = time.Now().UTC()
	return s.write(ctx, rec)
}
