// Task 6.1: model registry and per-model JSON storage.
package model

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/srilakshmipotnuru/mindsdb/pkg/uuid"
)

var (
	// ErrModelNotFound is returned when a model name is not registered.
	ErrModelNotFound = errors.New("model not found")

	// ErrStorageKeyNotFound is returned when a model has no record under
	// the requested storage key.
	ErrStorageKeyNotFound = errors.New("model storage key not found")

	// ErrModelExists is returned when creating a model under a taken name.
	ErrModelExists = errors.New("model already exists")
)

// Storage persists models and their JSON records in sqlite.
type Storage struct {
	db *sql.DB
}

// NewStorage wraps an open database.
func NewStorage(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// CreateModel registers a model name and returns its id.
func (s *Storage) CreateModel(ctx context.Context, name string) (string, error) {
	id := uuid.NewV7().String()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO model (id, name) VALUES (?, ?)
	`, id, name)
	if err != nil {
		if isUniqueConstraintError(err) {
			return "", fmt.Errorf("%w: %q", ErrModelExists, name)
		}
		return "", fmt.Errorf("create model %q: %w", name, err)
	}
	return id, nil
}

// LookupModel resolves a model name to its id.
func (s *Storage) LookupModel(ctx context.Context, name string) (string, error) {
	var id string
	row := s.db.QueryRowContext(ctx, `SELECT id FROM model WHERE name = ?`, name)
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %q", ErrModelNotFound, name)
		}
		return "", fmt.Errorf("lookup model %q: %w", name, err)
	}
	return id, nil
}

// DeleteModel removes a model and all its storage records (FK cascade).
func (s *Storage) DeleteModel(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM model WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete model %q: %w", name, err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return fmt.Errorf("%w: %q", ErrModelNotFound, name)
	}
	return nil
}

// JSONSet upserts one JSON record for a model.
func (s *Storage) JSONSet(ctx context.Context, modelID, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %q for model %s: %w", key, modelID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO model_storage (model_id, key, value_json, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (model_id, key) DO UPDATE SET
			value_json = excluded.value_json,
			updated_at = excluded.updated_at
	`, modelID, key, string(raw), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store %q for model %s: %w", key, modelID, err)
	}
	return nil
}

// JSONGet loads one JSON record for a model into dst.
func (s *Storage) JSONGet(ctx context.Context, modelID, key string, dst any) error {
	var raw string
	row := s.db.QueryRowContext(ctx, `
		SELECT value_json FROM model_storage WHERE model_id = ? AND key = ?
	`, modelID, key)
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %q", ErrStorageKeyNotFound, key)
		}
		return fmt.Errorf("load %q for model %s: %w", key, modelID, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("decode %q for model %s: %w", key, modelID, err)
	}
	return nil
}

// SetConnectionArgs stores shared connection arguments for a provider.
func (s *Storage) SetConnectionArgs(ctx context.Context, provider string, args map[string]string) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("marshal connection args for %q: %w", provider, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO connection_args (provider, args_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (provider) DO UPDATE SET
			args_json = excluded.args_json,
			updated_at = excluded.updated_at
	`, provider, string(raw), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store connection args for %q: %w", provider, err)
	}
	return nil
}

// GetConnectionArgs loads shared connection arguments for a provider.
// A missing provider yields an empty map, not an error.
func (s *Storage) GetConnectionArgs(ctx context.Context, provider string) (map[string]string, error) {
	var raw string
	row := s.db.QueryRowContext(ctx, `
		SELECT args_json FROM connection_args WHERE provider = ?
	`, provider)
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("load connection args for %q: %w", provider, err)
	}

	args := map[string]string{}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, fmt.Errorf("decode connection args for %q: %w", provider, err)
	}
	return args, nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
