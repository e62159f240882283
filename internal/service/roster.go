package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"querydesk.app/engine/internal/store"
)

// Roster resolves assignee names against the personnel list.
type Roster interface {
	// Lookup matches case-insensitively and returns the roster's spelling.
	Lookup(ctx context.Context, name string) (canonical string, ok bool, err error)
}

// CachedRoster keeps the active roster in a redis hash keyed by lowercased name.
// A missing hash is reloaded from the personnel store.
type CachedRoster struct {
	client    *redis.Client
	personnel store.PersonnelStore
	key       string
	ttl       time.Duration
}

func NewCachedRoster(client *redis.Client, personnel store.PersonnelStore, key string, ttl time.Duration) *CachedRoster {
	if key == "" {
		key = "querydesk:roster"
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedRoster{client: client, personnel: personnel, key: key, ttl: ttl}
}

func (r *CachedRoster) Lookup(ctx context.Context, name string) (string, bool, error) {
	norm := normalizeName(name)
	if norm == "" {
		return "", false, nil
	}
	if r.client == nil {
		return r.lookupStore(ctx, norm)
	}

	canonical, err := r.client.HGet(ctx, r.key, norm).Result()
	switch {
	case err == nil:
		return canonical, true, nil
	case errors.Is(err, redis.Nil):
		n, existsErr := r.client.Exists(ctx, r.key).Result()
		if existsErr == nil && n == 1 {
			return "", false, nil
		}
	default:
		slog.WarnContext(ctx, "roster cache unavailable, reading personnel store", "error", err)
		return r.lookupStore(ctx, norm)
	}

	names, err := r.load(ctx)
	if err != nil {
		return "", false, err
	}
	if err := r.fill(ctx, names); err != nil {
		slog.WarnContext(ctx, "failed to fill roster cache", "error", err)
	}
	canonical, ok := names[norm]
	return canonical, ok, nil
}

// Invalidate drops the cached roster so the next lookup reloads it.
func (r *CachedRoster) Invalidate(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Del(ctx, r.key).Err()
}

func (r *CachedRoster) lookupStore(ctx context.Context, norm string) (string, bool, error) {
	names, err := r.load(ctx)
	if err != nil {
		return "", false, err
	}
	canonical, ok := names[norm]
	return canonical, ok, nil
}

func (r *CachedRoster) load(ctx context.Context) (map[string]string, error) {
	people, err := r.personnel.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing personnel: %w", err)
	}
	names := make(map[string]string, len(people))
	for _, p := range people {
		names[normalizeName(p.Name)] = strings.TrimSpace(p.Name)
	}
	return names, nil
}

func (r *CachedRoster) fill(ctx context.Context, names map[string]string) error {
	if len(names) == 0 {
		return nil
	}
	values := make(map[string]any, len(names))
	for k, v := range names {
		values[k] = v
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		pipe.HSet(ctx, r.key, values)
		pipe.Expire(ctx, r.key, r.ttl)
		return nil
	})
	return err
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
