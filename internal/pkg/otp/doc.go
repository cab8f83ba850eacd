// Package otp provides helpers for generating and validating time-based
// one-time passwords (TOTP).
//
// It is used for passwordless login challenges: provision a per-user secret
// once, then derive and validate short-lived numeric codes from it.
package otp
