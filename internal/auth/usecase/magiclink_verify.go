package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/passgate/passgate/internal/pkg/goerror"
	"github.com/passgate/passgate/internal/pkg/magiclink"
)

type MagicLinkVerifyInput struct {
	Token string `validate:"required"`
}

type MagicLinkVerifyOutput struct {
	AccessToken string
}

// MagicLinkVerify validates the signed token and mints a session for the
// embedded destination. Verification is pure: the token stays valid for
// repeated use until its expiry, so a double-click on the link still logs in.
func (s *Usecase) MagicLinkVerify(ctx context.Context, in MagicLinkVerifyInput) (*MagicLinkVerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "MagicLinkVerify")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	destination, err := s.links.Verify(in.Token)
	if errors.Is(err, magiclink.ErrExpired) {
		slog.WarnContext(ctx, "magic link token expired")
		return nil, goerror.NewNotFoundOrExpired()
	}
	if err != nil {
		slog.WarnContext(ctx, "magic link token rejected", "error", err)
		return nil, goerror.NewInvalidProof()
	}

	user, err := s.resolve(ctx, destination)
	if err != nil {
		return nil, err
	}

	token, err := s.jwt.Generate(user.ID, user.Destination)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access token", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "magic link verified", "user_id", user.ID)

	return &MagicLinkVerifyOutput{AccessToken: token}, nil
}
