// Package auth is the passwordless authentication module: OTP
// challenge/response and magic-link login against a single identity record.
package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/passgate/passgate/internal/auth/inbound"
	"github.com/passgate/passgate/internal/auth/outbound/cache"
	"github.com/passgate/passgate/internal/auth/outbound/directory"
	"github.com/passgate/passgate/internal/auth/outbound/notify"
	"github.com/passgate/passgate/internal/auth/usecase"
	"github.com/passgate/passgate/internal/pkg/clock"
	"github.com/passgate/passgate/internal/pkg/config"
	"github.com/passgate/passgate/internal/pkg/goroutine"
	"github.com/passgate/passgate/internal/pkg/hash"
	"github.com/passgate/passgate/internal/pkg/instrument"
	"github.com/passgate/passgate/internal/pkg/jwt"
	"github.com/passgate/passgate/internal/pkg/magiclink"
	"github.com/passgate/passgate/internal/pkg/mail"
	"github.com/passgate/passgate/internal/pkg/messaging"
	"github.com/passgate/passgate/internal/pkg/otp"
	"github.com/passgate/passgate/internal/pkg/router"
	"github.com/passgate/passgate/internal/pkg/secrets"
	"github.com/passgate/passgate/internal/pkg/uid"
	"github.com/passgate/passgate/internal/pkg/validator"
	"github.com/redis/go-redis/v9"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	CacheConn  *redis.Client              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Encryptor  secrets.Encryptor          `validate:"required"`
	Links      *magiclink.Codec           `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Totp       otp.OTP                    `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
}

// PublicEndpoints lists the module routes reachable without a bearer token.
func PublicEndpoints() map[string]map[string]struct{} {
	return inbound.PublicEndpoints()
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	store := cache.NewStore(dep.CacheConn, dep.Instrument)
	users := directory.NewDirectory(dep.DBConn, dep.Instrument)
	sender := notify.NewNotifier(dep.Mail, dep.Messaging, notify.Config{
		From:       dep.Config.GetString("mail.from"),
		SMSTopic:   dep.Config.GetString("messaging.topics.sms_delivery"),
		MaxRetries: uint64(dep.Config.GetUint("modules.auth.delivery_max_retries")),
	}, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		Store:      store,
		Directory:  users,
		Notifier:   sender,
		Links:      dep.Links,
		Validator:  dep.Validator,
		Config:     dep.Config,
		HMAC:       dep.HMAC,
		Encryptor:  dep.Encryptor,
		UID:        dep.UID,
		Totp:       dep.Totp,
		Clock:      dep.Clock,
		JWT:        dep.JWT,
		Instrument: dep.Instrument,
		Goroutine:  dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
