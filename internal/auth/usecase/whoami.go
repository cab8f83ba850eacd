package usecase

import (
	"context"
	"time"

	"github.com/passgate/passgate/internal/pkg/goerror"
	"github.com/passgate/passgate/internal/pkg/jwt"
)

type WhoamiOutput struct {
	UserID      int64
	Destination string
	ExpiresAt   time.Time
}

// Whoami echoes the identity bound to the verified bearer token.
func (s *Usecase) Whoami(ctx context.Context) (*WhoamiOutput, error) {
	_, span := s.startSpan(ctx, "Whoami")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthorized)
	}

	out := &WhoamiOutput{
		UserID:      clm.UserID,
		Destination: clm.Destination,
	}
	if clm.ExpiresAt != nil {
		out.ExpiresAt = clm.ExpiresAt.Time
	}

	return out, nil
}
