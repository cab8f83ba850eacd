// Package directory implements the user directory on Postgres.
package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/passgate/passgate/internal/auth/entity"
	"github.com/passgate/passgate/internal/pkg/goerror"
	"github.com/passgate/passgate/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Directory is a pgx-backed user directory keyed by destination.
type Directory struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

// NewDirectory constructs a Directory.
func NewDirectory(conn *pgxpool.Pool, ins instrument.Instrumentation) *Directory {
	return &Directory{conn: conn, ins: ins}
}

func (d *Directory) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return d.ins.Tracer("auth.outbound.directory").Start(ctx, name)
}

func (d *Directory) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (d *Directory) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}
	return err
}

// Find returns the user record for a destination, or goerror.ErrNotFound.
func (d *Directory) Find(ctx context.Context, destination string) (rec *entity.UserRecord, err error) {
	ctx, span := d.startSpan(ctx, "Find")
	defer func() { d.endSpan(span, err) }()

	row := d.conn.QueryRow(ctx, `
		SELECT id, destination, otp_secret
		FROM users
		WHERE destination = $1`,
		destination,
	)

	var out entity.UserRecord
	if err = d.mapError(row.Scan(&out.ID, &out.Destination, &out.OTPSecret)); err != nil {
		return nil, err
	}

	return &out, nil
}

// Create inserts a user record, treating a concurrent insert for the same
// destination as success: ON CONFLICT DO NOTHING followed by a re-read means
// every caller ends up with the one record that won, so provisioning is
// idempotent.
func (d *Directory) Create(ctx context.Context, rec entity.UserRecord) (out *entity.UserRecord, err error) {
	ctx, span := d.startSpan(ctx, "Create")
	defer func() { d.endSpan(span, err) }()

	_, err = d.conn.Exec(ctx, `
		INSERT INTO users (id, destination, otp_secret, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (destination) DO NOTHING`,
		rec.ID, rec.Destination, rec.OTPSecret,
	)
	if err != nil {
		return nil, err
	}

	return d.Find(ctx, rec.Destination)
}
