// Package notify implements the out-of-band delivery channel.
//
// Email destinations go through SMTP; phone destinations publish a delivery
// event to the message bus for the external SMS gateway. Delivery is
// best-effort: callers hand work off and do not block issuance on the
// outcome.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/passgate/passgate/internal/auth/entity"
	"github.com/passgate/passgate/internal/pkg/instrument"
	"github.com/passgate/passgate/internal/pkg/mail"
	"github.com/passgate/passgate/internal/pkg/messaging"
	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

// Config tunes delivery behavior.
type Config struct {
	// From is the sender address for email delivery.
	From string
	// SMSTopic is the bus destination consumed by the SMS gateway.
	SMSTopic string
	// MaxRetries caps delivery attempts after the first.
	MaxRetries uint64
}

// Notifier fans a payload out to the channel matching the destination shape.
type Notifier struct {
	mailer mail.Mail
	bus    messaging.Publisher
	cfg    Config
	ins    instrument.Instrumentation
}

// NewNotifier constructs a Notifier.
func NewNotifier(mailer mail.Mail, bus messaging.Publisher, cfg Config, ins instrument.Instrumentation) *Notifier {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.SMSTopic == "" {
		cfg.SMSTopic = "auth.otp.sms"
	}

	return &Notifier{mailer: mailer, bus: bus, cfg: cfg, ins: ins}
}

// Deliver sends the payload to the destination, retrying transient failures
// with capped exponential backoff.
func (n *Notifier) Deliver(ctx context.Context, destination string, payload entity.Payload) (err error) {
	ctx, span := n.ins.Tracer("auth.outbound.notify").Start(ctx, "Deliver")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	b := retry.NewExponential(250 * time.Millisecond)
	b = retry.WithCappedDuration(5*time.Second, b)
	b = retry.WithMaxRetries(n.cfg.MaxRetries, b)

	return retry.Do(ctx, b, func(ctx context.Context) error {
		var sendErr error
		switch entity.ChannelOf(destination) {
		case entity.ChannelEmail:
			sendErr = n.sendEmail(ctx, destination, payload)
		case entity.ChannelPhone:
			sendErr = n.publishSMS(ctx, destination, payload)
		default:
			return fmt.Errorf("notify: unrecognized destination shape")
		}
		if sendErr != nil {
			return retry.RetryableError(sendErr)
		}
		return nil
	})
}

func (n *Notifier) sendEmail(ctx context.Context, destination string, payload entity.Payload) error {
	msg := mail.Message{
		From: n.cfg.From,
		To:   []string{destination},
	}

	switch payload.Kind {
	case entity.PayloadMagicLink:
		msg.Subject = "Your login link"
		msg.TextBody = "Click to sign in: " + payload.Value
		msg.HTMLBody = fmt.Sprintf(`<p>Click to sign in: <a href=%q>%s</a></p>`, payload.Value, payload.Value)
	default:
		msg.Subject = "Your login code"
		msg.TextBody = "Your one-time login code is: " + payload.Value
	}

	return n.mailer.Send(ctx, msg)
}

func (n *Notifier) publishSMS(ctx context.Context, destination string, payload entity.Payload) error {
	body, err := json.Marshal(entity.DeliveryEvent{
		Destination: destination,
		Kind:        string(payload.Kind),
		Body:        payload.Value,
	})
	if err != nil {
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	_, err = n.bus.Publish(ctx, n.cfg.SMSTopic, messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(destination),
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	})
	return err
}
