package usecase

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/passgate/passgate/internal/auth/entity"
	"github.com/passgate/passgate/internal/pkg/goerror"
)

type MagicLinkRequestInput struct {
	Destination string `validate:"required,destination"`
}

// MagicLinkRequest resolves the destination, issues a signed short-lived
// token carrying it, and delivers the callback URL out-of-band. The token is
// self-contained; nothing is stored server-side.
func (s *Usecase) MagicLinkRequest(ctx context.Context, in MagicLinkRequestInput) error {
	ctx, span := s.startSpan(ctx, "MagicLinkRequest")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	user, err := s.resolve(ctx, in.Destination)
	if err != nil {
		return err
	}

	token, err := s.links.Issue(user.Destination)
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue magic link token", "user_id", user.ID, "error", err)
		return goerror.NewServer(err)
	}

	link := s.cfg.GetString("magiclink.base_url") +
		s.cfg.GetString("magiclink.callback_path") +
		"?token=" + url.QueryEscape(token)

	s.deliver(ctx, user.Destination, entity.Payload{Kind: entity.PayloadMagicLink, Value: link})

	slog.InfoContext(ctx, "magic link issued", "user_id", user.ID)

	return nil
}
