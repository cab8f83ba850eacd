package inbound

import (
	"github.com/passgate/passgate/internal/auth/usecase"
	"github.com/passgate/passgate/internal/pkg/goerror"
	"github.com/passgate/passgate/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the passwordless login workflows.
type HTTPEndpoint struct {
	uc uc
}

// OTPRequest issues a one-time code challenge and delivers it out-of-band.
// The response is identical whether or not the destination was seen before.
func (h *HTTPEndpoint) OTPRequest(r *router.Request) (any, error) {
	var req OTPRequestRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.OTPRequest(r.Context(), usecase.OTPRequestInput{
		Destination: req.Destination,
	}); err != nil {
		return nil, err
	}

	return OTPRequestResponse{}, nil
}

// OTPVerify checks a submitted code against the pending challenge and
// returns a session token on success.
func (h *HTTPEndpoint) OTPVerify(r *router.Request) (any, error) {
	var req OTPVerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.OTPVerify(r.Context(), usecase.OTPVerifyInput{
		Destination: req.Destination,
		Code:        req.Code,
	})
	if err != nil {
		return nil, err
	}

	return SessionResponse{AccessToken: resp.AccessToken}, nil
}

// MagicLinkRequest issues a signed login link and delivers it out-of-band.
func (h *HTTPEndpoint) MagicLinkRequest(r *router.Request) (any, error) {
	var req MagicLinkRequestRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.MagicLinkRequest(r.Context(), usecase.MagicLinkRequestInput{
		Destination: req.Destination,
	}); err != nil {
		return nil, err
	}

	return MagicLinkRequestResponse{}, nil
}

// MagicLinkCallback verifies the token carried by a clicked login link and
// returns a session token.
func (h *HTTPEndpoint) MagicLinkCallback(r *router.Request) (any, error) {
	token := r.GetQuery("token")
	if token == "" {
		return nil, goerror.NewInvalidFormat("Missing token query parameter")
	}

	resp, err := h.uc.MagicLinkVerify(r.Context(), usecase.MagicLinkVerifyInput{
		Token: token,
	})
	if err != nil {
		return nil, err
	}

	return SessionResponse{AccessToken: resp.AccessToken}, nil
}

// Whoami returns the identity bound to the presented bearer token.
func (h *HTTPEndpoint) Whoami(r *router.Request) (any, error) {
	resp, err := h.uc.Whoami(r.Context())
	if err != nil {
		return nil, err
	}

	return WhoamiResponse{
		UserID:      resp.UserID,
		Destination: resp.Destination,
		ExpiresAt:   resp.ExpiresAt,
	}, nil
}
