package usecase

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/passgate/passgate/internal/auth/entity"
	"github.com/passgate/passgate/internal/pkg/goerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMagicLinkRequestDeliversLink(t *testing.T) {
	f := newFixture(t)

	err := f.uc.MagicLinkRequest(context.Background(), MagicLinkRequestInput{Destination: "user@example.com"})
	require.NoError(t, err)

	d := f.awaitDelivery(t)
	assert.Equal(t, "user@example.com", d.destination)
	assert.Equal(t, entity.PayloadMagicLink, d.payload.Kind)
	assert.True(t, strings.HasPrefix(d.payload.Value, "https://app.example.com/login/callback?token="))

	parsed, err := url.Parse(d.payload.Value)
	require.NoError(t, err)

	dest, err := f.links.Verify(parsed.Query().Get("token"))
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", dest)
}

func TestMagicLinkRequestProvisionsOnFirstSight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.uc.MagicLinkRequest(ctx, MagicLinkRequestInput{Destination: "+15551234567"}))
	f.awaitDelivery(t)
	require.NoError(t, f.uc.MagicLinkRequest(ctx, MagicLinkRequestInput{Destination: "+15551234567"}))
	f.awaitDelivery(t)

	assert.Equal(t, 1, f.directory.count())
}

func TestMagicLinkRequestRejectsInvalidDestination(t *testing.T) {
	f := newFixture(t)

	err := f.uc.MagicLinkRequest(context.Background(), MagicLinkRequestInput{Destination: "nope"})

	assertCode(t, err, goerror.CodeInvalidInput)
	assert.Equal(t, 0, f.directory.count())
}

func TestMagicLinkRequestStoresNothing(t *testing.T) {
	// The token is self-contained; issuing a link must leave the challenge
	// store untouched.
	f := newFixture(t)

	require.NoError(t, f.uc.MagicLinkRequest(context.Background(), MagicLinkRequestInput{Destination: "user@example.com"}))
	f.awaitDelivery(t)

	assert.Equal(t, 0, f.store.len())
}
