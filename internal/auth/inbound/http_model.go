package inbound

import "time"

type OTPRequestRequest struct {
	Destination string `json:"destination"`
}

type OTPRequestResponse struct{}

func (OTPRequestResponse) Message() string {
	return "If the destination is reachable, we have sent a one-time code."
}

type OTPVerifyRequest struct {
	Destination string `json:"destination"`
	Code        string `json:"code"`
}

type MagicLinkRequestRequest struct {
	Destination string `json:"destination"`
}

type MagicLinkRequestResponse struct{}

func (MagicLinkRequestResponse) Message() string {
	return "If the destination is reachable, we have sent a login link."
}

type SessionResponse struct {
	AccessToken string `json:"access_token"`
}

type WhoamiResponse struct {
	UserID      int64     `json:"user_id,string"`
	Destination string    `json:"destination"`
	ExpiresAt   time.Time `json:"expires_at"`
}
