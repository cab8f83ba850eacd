package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/passgate/passgate/internal/pkg/goerror"
)

type OTPVerifyInput struct {
	Destination string `validate:"required,destination"`
	Code        string `validate:"required,numeric"`
}

type OTPVerifyOutput struct {
	AccessToken string
}

// OTPVerify consumes the pending challenge for the destination and checks the
// submitted code two ways: it must equal the code that was actually issued
// (cached keyed hash) and it must still validate against a fresh TOTP
// recomputation for the current step. The cached comparison rejects codes
// that are valid for the window but were never issued; the recomputation
// rejects issued codes that went stale after a secret or config change.
//
// Any verification attempt consumes the challenge, correct or not. A wrong
// guess therefore costs the caller a re-request, which also keeps a live
// challenge from being brute-forced in place.
func (s *Usecase) OTPVerify(ctx context.Context, in OTPVerifyInput) (*OTPVerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "OTPVerify")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	cached, err := s.store.GetDelete(ctx, in.Destination)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "no pending otp challenge")
		return nil, goerror.NewNotFoundOrExpired()
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to consume otp challenge", "error", err)
		return nil, goerror.NewTransient(err)
	}

	user, err := s.resolve(ctx, in.Destination)
	if err != nil {
		return nil, err
	}

	if !s.hmac.Verify(cached, in.Code) || !s.totp.Validate(in.Code, user.OTPSecret, s.clock.Now()) {
		slog.WarnContext(ctx, "otp code rejected", "user_id", user.ID)
		return nil, goerror.NewInvalidProof()
	}

	token, err := s.jwt.Generate(user.ID, user.Destination)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access token", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "otp challenge verified", "user_id", user.ID)

	return &OTPVerifyOutput{AccessToken: token}, nil
}
