// Package clock abstracts the system clock behind a small interface so that
// time-sensitive logic (OTP steps, token expiry) can be tested with a fixed
// or advancing fake clock.
package clock
