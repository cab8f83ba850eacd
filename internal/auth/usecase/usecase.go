package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/passgate/passgate/internal/auth/entity"
	"github.com/passgate/passgate/internal/pkg/clock"
	"github.com/passgate/passgate/internal/pkg/config"
	"github.com/passgate/passgate/internal/pkg/goerror"
	"github.com/passgate/passgate/internal/pkg/goroutine"
	"github.com/passgate/passgate/internal/pkg/hash"
	"github.com/passgate/passgate/internal/pkg/instrument"
	"github.com/passgate/passgate/internal/pkg/jwt"
	"github.com/passgate/passgate/internal/pkg/otp"
	"github.com/passgate/passgate/internal/pkg/secrets"
	"github.com/passgate/passgate/internal/pkg/uid"
	"github.com/passgate/passgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type challengeStore interface {
	Put(ctx context.Context, destination, value string, ttl time.Duration) error
	GetDelete(ctx context.Context, destination string) (string, error)
	Delete(ctx context.Context, destination string) error
}

type userDirectory interface {
	Find(ctx context.Context, destination string) (*entity.UserRecord, error)
	Create(ctx context.Context, rec entity.UserRecord) (*entity.UserRecord, error)
}

type notifier interface {
	Deliver(ctx context.Context, destination string, payload entity.Payload) error
}

type linkCodec interface {
	Issue(destination string) (string, error)
	Verify(token string) (string, error)
}

type Usecase struct {
	store     challengeStore
	directory userDirectory
	notify    notifier
	links     linkCodec
	validator validator.Validator
	cfg       config.Config
	hmac      hash.Hash
	encryptor secrets.Encryptor
	uid       uid.NumberID
	totp      otp.OTP
	clock     clock.Clocker
	jwt       jwt.JWT
	ins       instrument.Instrumentation
	goroutine *goroutine.Manager
}

type Dependency struct {
	Store      challengeStore
	Directory  userDirectory
	Notifier   notifier
	Links      linkCodec
	Validator  validator.Validator
	Config     config.Config
	HMAC       hash.Hash
	Encryptor  secrets.Encryptor
	UID        uid.NumberID
	Totp       otp.OTP
	Clock      clock.Clocker
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
	Goroutine  *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		store:     dep.Store,
		directory: dep.Directory,
		notify:    dep.Notifier,
		links:     dep.Links,
		validator: dep.Validator,
		cfg:       dep.Config,
		hmac:      dep.HMAC,
		encryptor: dep.Encryptor,
		uid:       dep.UID,
		totp:      dep.Totp,
		clock:     dep.Clock,
		jwt:       dep.JWT,
		ins:       dep.Instrument,
		goroutine: dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.usecase").Start(ctx, name)
}

// resolve maps a destination to its user, provisioning a fresh identity with
// a newly generated TOTP seed on first sight. Provisioning is idempotent:
// concurrent resolves for the same unseen destination all converge on the
// record that won the insert.
func (s *Usecase) resolve(ctx context.Context, destination string) (*entity.User, error) {
	rec, err := s.directory.Find(ctx, destination)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to look up destination", "error", err)
		return nil, goerror.NewTransient(err)
	}

	if errors.Is(err, goerror.ErrNotFound) {
		rec, err = s.provision(ctx, destination)
		if err != nil {
			return nil, err
		}
	}

	// A record without a seed cannot have been provisioned by this service;
	// surface it instead of silently regenerating, which would mask the
	// corruption and invalidate nothing visibly.
	if len(rec.OTPSecret) == 0 {
		slog.ErrorContext(ctx, "user record has no otp secret", "user_id", rec.ID)
		return nil, goerror.NewServer(errors.New("user record missing otp secret"))
	}

	seed, err := s.encryptor.Decrypt(rec.OTPSecret, secrets.Scope{
		Destination: rec.Destination,
		Purpose:     secrets.PurposeOTPSeed,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to decrypt otp secret", "user_id", rec.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &entity.User{
		ID:          rec.ID,
		Destination: rec.Destination,
		OTPSecret:   string(seed),
	}, nil
}

func (s *Usecase) provision(ctx context.Context, destination string) (*entity.UserRecord, error) {
	seed, err := s.totp.GenerateSecret(destination)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp secret", "error", err)
		return nil, goerror.NewServer(err)
	}

	sealed, err := s.encryptor.Encrypt([]byte(seed), secrets.Scope{
		Destination: destination,
		Purpose:     secrets.PurposeOTPSeed,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to encrypt otp secret", "error", err)
		return nil, goerror.NewServer(err)
	}

	rec, err := s.directory.Create(ctx, entity.UserRecord{
		ID:          s.uid.Generate(),
		Destination: destination,
		OTPSecret:   sealed,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create user record", "error", err)
		return nil, goerror.NewTransient(err)
	}

	return rec, nil
}

// deliver hands the payload to the notifier off the request goroutine. The
// caller's response never waits on the out-of-band channel; the background
// context survives the request but keeps its correlation ID.
func (s *Usecase) deliver(ctx context.Context, destination string, payload entity.Payload) {
	s.goroutine.Go(context.WithoutCancel(ctx), func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		if err := s.notify.Deliver(ctx, destination, payload); err != nil {
			slog.ErrorContext(ctx, "failed to deliver challenge", "kind", payload.Kind, "error", err)
		}
		return nil
	})
}
