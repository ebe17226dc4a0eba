// Package store persists research and replacement runs.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/keystone-claims/appliance-research/internal/model"
)

// ErrRunNotFound is returned when a run ID does not exist.
var ErrRunNotFound = eris.New("store: run not found")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Kind   model.RunKind `json:"kind,omitempty"`
	Limit  int           `json:"limit,omitempty"`
	Offset int           `json:"offset,omitempty"`
}

// Store defines the run persistence interface.
type Store interface {
	SaveRun(ctx context.Context, kind model.RunKind, request, result []byte) (*model.Run, error)
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}

// NopStore discards every run. Used when persistence is disabled.
type NopStore struct{}

func (NopStore) SaveRun(_ context.Context, kind model.RunKind, request, result []byte) (*model.Run, error) {
	return &model.Run{Kind: kind, Request: request, Result: result}, nil
}

func (NopStore) GetRun(context.Context, string) (*model.Run, error) {
	return nil, ErrRunNotFound
}

func (NopStore) ListRuns(context.Context, RunFilter) ([]model.Run, error) {
	return []model.Run{}, nil
}

func (NopStore) Migrate(context.Context) error { return nil }
func (NopStore) Close() error                  { return nil }
