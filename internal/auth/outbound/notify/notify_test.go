package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/passgate/passgate/internal/auth/entity"
	"github.com/passgate/passgate/internal/pkg/instrument"
	"github.com/passgate/passgate/internal/pkg/mail"
	"github.com/passgate/passgate/internal/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMailer struct {
	mu       sync.Mutex
	sent     []mail.Message
	failures int
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failures > 0 {
		f.failures--
		return errors.New("smtp: temporary failure")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) Close() error { return nil }

type fakeBus struct {
	mu        sync.Mutex
	topics    []string
	published []messaging.OutgoingMessage
}

func (f *fakeBus) Publish(_ context.Context, destination string, msg messaging.OutgoingMessage) (messaging.PublishResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.topics = append(f.topics, destination)
	f.published = append(f.published, msg)
	return messaging.PublishResult{Topic: destination}, nil
}

func newTestNotifier(mailer *fakeMailer, bus *fakeBus) *Notifier {
	return NewNotifier(mailer, bus, Config{
		From:       "no-reply@passgate.local",
		SMSTopic:   "auth.otp.sms",
		MaxRetries: 2,
	}, instrument.NewNoop())
}

func TestDeliverCodeByEmail(t *testing.T) {
	mailer := &fakeMailer{}
	n := newTestNotifier(mailer, &fakeBus{})

	err := n.Deliver(context.Background(), "user@example.com", entity.Payload{
		Kind:  entity.PayloadOTPCode,
		Value: "123456",
	})
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, []string{"user@example.com"}, msg.To)
	assert.Equal(t, "Your login code", msg.Subject)
	assert.Contains(t, msg.TextBody, "123456")
}

func TestDeliverLinkByEmail(t *testing.T) {
	mailer := &fakeMailer{}
	n := newTestNotifier(mailer, &fakeBus{})

	err := n.Deliver(context.Background(), "user@example.com", entity.Payload{
		Kind:  entity.PayloadMagicLink,
		Value: "https://app.example.com/login/callback?token=abc",
	})
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, "Your login link", msg.Subject)
	assert.Contains(t, msg.TextBody, "https://app.example.com/login/callback?token=abc")
	assert.Contains(t, msg.HTMLBody, "<a href=")
}

func TestDeliverCodeBySMS(t *testing.T) {
	bus := &fakeBus{}
	n := newTestNotifier(&fakeMailer{}, bus)

	err := n.Deliver(context.Background(), "+15551234567", entity.Payload{
		Kind:  entity.PayloadOTPCode,
		Value: "123456",
	})
	require.NoError(t, err)

	require.Len(t, bus.published, 1)
	assert.Equal(t, []string{"auth.otp.sms"}, bus.topics)
	assert.Equal(t, []byte("+15551234567"), bus.published[0].Key)

	var event entity.DeliveryEvent
	require.NoError(t, json.Unmarshal(bus.published[0].Body, &event))
	assert.Equal(t, "+15551234567", event.Destination)
	assert.Equal(t, string(entity.PayloadOTPCode), event.Kind)
	assert.Equal(t, "123456", event.Body)
}

func TestDeliverRetriesTransientFailure(t *testing.T) {
	mailer := &fakeMailer{failures: 1}
	n := newTestNotifier(mailer, &fakeBus{})

	err := n.Deliver(context.Background(), "user@example.com", entity.Payload{
		Kind:  entity.PayloadOTPCode,
		Value: "123456",
	})

	require.NoError(t, err)
	assert.Len(t, mailer.sent, 1)
}

func TestDeliverGivesUpAfterMaxRetries(t *testing.T) {
	mailer := &fakeMailer{failures: 10}
	n := newTestNotifier(mailer, &fakeBus{})

	err := n.Deliver(context.Background(), "user@example.com", entity.Payload{
		Kind:  entity.PayloadOTPCode,
		Value: "123456",
	})

	assert.Error(t, err)
	assert.Empty(t, mailer.sent)
}

func TestDeliverRejectsUnknownDestinationShape(t *testing.T) {
	n := newTestNotifier(&fakeMailer{}, &fakeBus{})

	err := n.Deliver(context.Background(), "garbage", entity.Payload{
		Kind:  entity.PayloadOTPCode,
		Value: "123456",
	})

	assert.Error(t, err)
}
