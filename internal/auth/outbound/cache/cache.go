// Package cache implements the ephemeral challenge store on Redis.
//
// One pending challenge per destination: Put overwrites unconditionally, and
// GetDelete consumes atomically via GETDEL so two concurrent verifications
// can never both observe the same entry.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/passgate/passgate/internal/pkg/goerror"
	"github.com/passgate/passgate/internal/pkg/instrument"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const keyPrefix = "challenge:"

// Store is a challenge store backed by Redis with per-entry TTL.
type Store struct {
	client *redis.Client
	ins    instrument.Instrumentation
}

// NewStore constructs a Store.
func NewStore(client *redis.Client, ins instrument.Instrumentation) *Store {
	return &Store{client: client, ins: ins}
}

func (s *Store) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.outbound.cache").Start(ctx, name)
}

func (s *Store) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Put stores a challenge value under the destination, replacing any pending
// entry. The backing store drops the key once ttl elapses.
func (s *Store) Put(ctx context.Context, destination, value string, ttl time.Duration) (err error) {
	ctx, span := s.startSpan(ctx, "Put")
	defer func() { s.endSpan(span, err) }()

	return s.client.Set(ctx, keyPrefix+destination, value, ttl).Err()
}

// GetDelete atomically reads and removes the challenge for the destination.
//
// Returns goerror.ErrNotFound when no entry exists, which covers both "never
// issued" and "TTL elapsed". Any other failure is an I/O error and must be
// propagated, never treated as absent.
func (s *Store) GetDelete(ctx context.Context, destination string) (val string, err error) {
	ctx, span := s.startSpan(ctx, "GetDelete")
	defer func() { s.endSpan(span, err) }()

	val, err = s.client.GetDel(ctx, keyPrefix+destination).Result()
	if errors.Is(err, redis.Nil) {
		return "", goerror.ErrNotFound
	}
	if err != nil {
		return "", err
	}

	return val, nil
}

// Delete removes the challenge for the destination, if any.
func (s *Store) Delete(ctx context.Context, destination string) (err error) {
	ctx, span := s.startSpan(ctx, "Delete")
	defer func() { s.endSpan(span, err) }()

	return s.client.Del(ctx, keyPrefix+destination).Err()
}
