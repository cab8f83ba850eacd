package inbound

import (
	"context"

	"github.com/passgate/passgate/internal/auth/usecase"
	"github.com/passgate/passgate/internal/pkg/router"
)

type uc interface {
	OTPRequest(ctx context.Context, in usecase.OTPRequestInput) error
	OTPVerify(ctx context.Context, in usecase.OTPVerifyInput) (*usecase.OTPVerifyOutput, error)

	MagicLinkRequest(ctx context.Context, in usecase.MagicLinkRequestInput) error
	MagicLinkVerify(ctx context.Context, in usecase.MagicLinkVerifyInput) (*usecase.MagicLinkVerifyOutput, error)

	Whoami(ctx context.Context) (*usecase.WhoamiOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Passwordless login
	r.POST("/api/v1/auth/otp/request", end.OTPRequest)
	r.POST("/api/v1/auth/otp/verify", end.OTPVerify)
	//
	r.POST("/api/v1/auth/magiclink/request", end.MagicLinkRequest)
	r.GET("/api/v1/auth/magiclink/callback", end.MagicLinkCallback)

	// Session introspection (need authenticated)
	r.GET("/api/v1/auth/whoami", end.Whoami)
}

// PublicEndpoints lists the routes reachable without a bearer token.
func PublicEndpoints() map[string]map[string]struct{} {
	return map[string]map[string]struct{}{
		"GET": {
			"/":                               {},
			"/health":                         {},
			"/api/v1/auth/magiclink/callback": {},
		},
		"POST": {
			"/api/v1/auth/otp/request":       {},
			"/api/v1/auth/otp/verify":        {},
			"/api/v1/auth/magiclink/request": {},
		},
	}
}
