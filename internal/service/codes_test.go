package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/vibe-gaming/bmr-reminder/internal/domain"
	"github.com/vibe-gaming/bmr-reminder/internal/service"
	"github.com/vibe-gaming/bmr-reminder/pkg/otp/otptest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subscribeEmail(t *testing.T, f *fixture, email string) int64 {
	t.Helper()

	input := exampleSubscriber()
	input.Email = email
	id, err := f.services.Subscribers.Subscribe(context.Background(), input)
	require.NoError(t, err)
	return id
}

func TestIssueResamplesOnCollision(t *testing.T) {
	gen := otptest.NewSequenceGenerator(11111111, 11111111, 11111111, 22222222)
	f := setup(t, gen)

	first := subscribeEmail(t, f, "a@b.com")
	second := subscribeEmail(t, f, "c@d.com")

	firstCode, _ := f.store.Code(domain.PurposeConfirmation, first)
	secondCode, _ := f.store.Code(domain.PurposeConfirmation, second)

	assert.Equal(t, int64(11111111), firstCode.Code)
	assert.Equal(t, int64(22222222), secondCode.Code)
	assert.Equal(t, 4, gen.Calls())
}

func TestIssueFailsWhenCodeSpaceExhausted(t *testing.T) {
	gen := otptest.NewSequenceGenerator(11111111)
	f := setup(t, gen)
	subscribeEmail(t, f, "a@b.com")
	before := f.store.Snapshot()

	input := exampleSubscriber()
	input.Email = "c@d.com"
	_, err := f.services.Subscribers.Subscribe(context.Background(), input)

	assert.ErrorIs(t, err, domain.ErrCodeSpaceExhausted)
	assert.Equal(t, before, f.store.Snapshot())
	assert.Equal(t, 1+15, gen.Calls())
}

func TestIssueProducesUniqueCodes(t *testing.T) {
	f := setup(t, nil)

	for i := 0; i < 50; i++ {
		subscribeEmail(t, f, "user"+string(rune('a'+i%26))+string(rune('a'+i/26))+"@example.com")
	}

	seen := make(map[int64]bool)
	for _, code := range f.store.Snapshot().Codes[domain.PurposeConfirmation] {
		assert.False(t, seen[code.Code], "duplicate code %d", code.Code)
		seen[code.Code] = true
	}
	assert.Len(t, seen, 50)
}

func TestIssuePendingUpdateRequiresStagedValues(t *testing.T) {
	f := setup(t, nil)
	id := f.confirmed(t)

	_, err := f.services.Codes.Issue(context.Background(), domain.PurposePendingUpdate, id, nil)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestIssueUpsertsUpdateCode(t *testing.T) {
	f := setup(t, otptest.NewSequenceGenerator(11111111, 22222222, 33333333))
	ctx := context.Background()
	id := f.confirmed(t)

	_, err := f.services.Codes.Issue(ctx, domain.PurposeUpdate, id, nil)
	require.NoError(t, err)
	code, err := f.services.Codes.Issue(ctx, domain.PurposeUpdate, id, nil)
	require.NoError(t, err)

	snap := f.store.Snapshot()
	require.Len(t, snap.Codes[domain.PurposeUpdate], 1)
	assert.Equal(t, int64(33333333), code.Code)
	assert.Equal(t, code.Code, snap.Codes[domain.PurposeUpdate][id].Code)
}

func TestVerify(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()

	first := subscribeEmail(t, f, "a@b.com")
	second := subscribeEmail(t, f, "c@d.com")
	code, _ := f.store.Code(domain.PurposeConfirmation, first)

	assert.NoError(t, f.services.Codes.Verify(ctx, domain.PurposeConfirmation, code.Code, first))
	assert.ErrorIs(t, f.services.Codes.Verify(ctx, domain.PurposeConfirmation, code.Code, second), service.ErrInvalidCode)
	assert.ErrorIs(t, f.services.Codes.Verify(ctx, domain.PurposeUpdate, code.Code, first), service.ErrInvalidCode)
	assert.ErrorIs(t, f.services.Codes.Verify(ctx, domain.PurposeConfirmation, 42, first), service.ErrInvalidCode)

	belongs, err := f.services.Codes.BelongsTo(ctx, domain.PurposeConfirmation, code.Code, first)
	require.NoError(t, err)
	assert.True(t, belongs)

	f.clock.Advance(7 * 24 * time.Hour)
	assert.ErrorIs(t, f.services.Codes.Verify(ctx, domain.PurposeConfirmation, code.Code, first), service.ErrInvalidCode)

	belongs, err = f.services.Codes.BelongsTo(ctx, domain.PurposeConfirmation, code.Code, first)
	require.NoError(t, err)
	assert.True(t, belongs)
}

func TestRevokeCounts(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()
	id := subscribeEmail(t, f, "a@b.com")

	deleted, err := f.services.Codes.Revoke(ctx, domain.PurposeConfirmation, domain.BySubID(id))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	deleted, err = f.services.Codes.Revoke(ctx, domain.PurposeConfirmation, domain.BySubID(id))
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestObtainReusesLiveCode(t *testing.T) {
	f := setup(t, otptest.NewSequenceGenerator(11111111, 22222222, 33333333))
	ctx := context.Background()
	id := f.confirmed(t)

	first, err := f.services.Codes.Obtain(ctx, domain.PurposeUpdate, id)
	require.NoError(t, err)
	second, err := f.services.Codes.Obtain(ctx, domain.PurposeUpdate, id)
	require.NoError(t, err)
	assert.Equal(t, first.Code, second.Code)

	f.clock.Advance(7*24*time.Hour + time.Second)
	third, err := f.services.Codes.Obtain(ctx, domain.PurposeUpdate, id)
	require.NoError(t, err)
	assert.NotEqual(t, first.Code, third.Code)
}
