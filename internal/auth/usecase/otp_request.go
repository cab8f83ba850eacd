package usecase

import (
	"context"
	"log/slog"

	"github.com/passgate/passgate/internal/auth/entity"
	"github.com/passgate/passgate/internal/pkg/goerror"
)

type OTPRequestInput struct {
	Destination string `validate:"required,destination"`
}

// OTPRequest resolves the destination to a user, derives a one-time code for
// the current time step, caches its keyed hash under the destination with a
// TTL equal to the step size, and hands the plaintext code to the delivery
// channel. Issuing replaces any pending challenge for the destination.
func (s *Usecase) OTPRequest(ctx context.Context, in OTPRequestInput) error {
	ctx, span := s.startSpan(ctx, "OTPRequest")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, err := s.resolve(ctx, in.Destination)
	if err != nil {
		return err
	}

	code, err := s.totp.GenerateCode(user.OTPSecret, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	// The plaintext code never touches the store; verification compares
	// against the keyed hash.
	cached, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.store.Put(ctx, user.Destination, string(cached), s.totp.Period()); err != nil {
		slog.ErrorContext(ctx, "failed to cache otp challenge", "user_id", user.ID, "error", err)
		return goerror.NewTransient(err)
	}

	s.deliver(ctx, user.Destination, entity.Payload{Kind: entity.PayloadOTPCode, Value: code})

	slog.InfoContext(ctx, "otp challenge issued", "user_id", user.ID)

	return nil
}
