package usecase

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/passgate/passgate/internal/auth/entity"
	"github.com/passgate/passgate/internal/pkg/clock"
	"github.com/passgate/passgate/internal/pkg/config"
	"github.com/passgate/passgate/internal/pkg/goerror"
	"github.com/passgate/passgate/internal/pkg/goroutine"
	"github.com/passgate/passgate/internal/pkg/hash"
	"github.com/passgate/passgate/internal/pkg/instrument"
	"github.com/passgate/passgate/internal/pkg/jwt"
	"github.com/passgate/passgate/internal/pkg/magiclink"
	"github.com/passgate/passgate/internal/pkg/otp"
	"github.com/passgate/passgate/internal/pkg/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libValidator "github.com/passgate/passgate/internal/pkg/validator"
)

const testConfigYAML = `
magiclink:
  base_url: "https://app.example.com"
  callback_path: "/login/callback"
`

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

var _ clock.Clocker = (*fakeClock)(nil)

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type seqID struct{ n atomic.Int64 }

func (s *seqID) Generate() int64 { return s.n.Add(1) }

type staticUUID struct{}

func (staticUUID) Generate() string { return "0f9a1c3e-test-test-test-8c2b6d4e0a1f" }

// memStore mimics the Redis challenge store: last write wins, GetDelete
// consumes, entries lapse against the shared fake clock.
type memStore struct {
	mu     sync.Mutex
	values map[string]string
	expiry map[string]time.Time
	clock  *fakeClock
	err    error
}

func newMemStore(clk *fakeClock) *memStore {
	return &memStore{
		values: map[string]string{},
		expiry: map[string]time.Time{},
		clock:  clk,
	}
}

func (m *memStore) Put(_ context.Context, destination, value string, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[destination] = value
	m.expiry[destination] = m.clock.Now().Add(ttl)
	return nil
}

func (m *memStore) GetDelete(_ context.Context, destination string) (string, error) {
	if m.err != nil {
		return "", m.err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	val, ok := m.values[destination]
	expired := ok && m.clock.Now().After(m.expiry[destination])
	delete(m.values, destination)
	delete(m.expiry, destination)

	if !ok || expired {
		return "", goerror.ErrNotFound
	}
	return val, nil
}

func (m *memStore) Delete(_ context.Context, destination string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, destination)
	delete(m.expiry, destination)
	return nil
}

func (m *memStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}

// memDirectory mimics the Postgres directory including the insert-or-ignore
// behavior: Create returns the record that made it in first.
type memDirectory struct {
	mu      sync.Mutex
	byDest  map[string]entity.UserRecord
	creates int
}

func newMemDirectory() *memDirectory {
	return &memDirectory{byDest: map[string]entity.UserRecord{}}
}

func (m *memDirectory) Find(_ context.Context, destination string) (*entity.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.byDest[destination]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &rec, nil
}

func (m *memDirectory) Create(_ context.Context, rec entity.UserRecord) (*entity.UserRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.byDest[rec.Destination]; ok {
		return &existing, nil
	}

	m.byDest[rec.Destination] = rec
	m.creates++
	return &rec, nil
}

func (m *memDirectory) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byDest)
}

func (m *memDirectory) seed(rec entity.UserRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byDest[rec.Destination] = rec
}

type capturedDelivery struct {
	destination string
	payload     entity.Payload
}

type memNotifier struct{ ch chan capturedDelivery }

func newMemNotifier() *memNotifier {
	return &memNotifier{ch: make(chan capturedDelivery, 8)}
}

func (m *memNotifier) Deliver(_ context.Context, destination string, payload entity.Payload) error {
	m.ch <- capturedDelivery{destination: destination, payload: payload}
	return nil
}

type fixture struct {
	uc        *Usecase
	clock     *fakeClock
	store     *memStore
	directory *memDirectory
	notifier  *memNotifier
	totp      otp.OTP
	jwt       jwt.JWT
	links     *magiclink.Codec
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clk := &fakeClock{now: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)}

	v, err := libValidator.NewV10Validator()
	require.NoError(t, err)

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	require.NoError(t, err)

	links, err := magiclink.NewCodec([]byte("magiclink-test-secret"), 0, clk)
	require.NoError(t, err)

	signer, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(strings.Repeat("s", 64)),
		Issuer:    "passgate",
		Audiences: []string{"passgate-api"},
		TTL:       time.Hour,
		Clock:     clk,
		UUID:      staticUUID{},
	})
	require.NoError(t, err)

	totpGen := otp.NewTOTP("passgate", 300, 1, 6)
	store := newMemStore(clk)
	dir := newMemDirectory()
	notif := newMemNotifier()

	uc := New(Dependency{
		Store:     store,
		Directory: dir,
		Notifier:  notif,
		Links:     links,
		Validator: v,
		Config:    cfg,
		HMAC:      hash.NewHMACSHA256("test-hmac-secret"),
		Encryptor: secrets.NewAESGCMEncryptor(secrets.StaticKeyProvider{
			KeyBytes: []byte(strings.Repeat("k", 32)),
		}),
		UID:        &seqID{},
		Totp:       totpGen,
		Clock:      clk,
		JWT:        signer,
		Instrument: instrument.NewNoop(),
		Goroutine:  goroutine.NewManager(8),
	})

	return &fixture{
		uc:        uc,
		clock:     clk,
		store:     store,
		directory: dir,
		notifier:  notif,
		totp:      totpGen,
		jwt:       signer,
		links:     links,
	}
}

func (f *fixture) awaitDelivery(t *testing.T) capturedDelivery {
	t.Helper()

	select {
	case d := <-f.notifier.ch:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for out-of-band delivery")
		return capturedDelivery{}
	}
}

func assertCode(t *testing.T, err error, code goerror.Code) {
	t.Helper()

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, code, gerr.Code())
}
