package services

import (
	"context"
	"errors"
	"minedash/internal/models"
	"minedash/internal/providers"
	"minedash/internal/repository"
	"minedash/internal/structures"
	"minedash/internal/testutil"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	service *AuthService
	repo    *repository.MemoryRepository
	client  *testutil.MockEsiClient
	kv      *providers.MemoryKeyValueStore
}

func newAuthFixture() *authFixture {
	conf := &structures.Config{Session: structures.SessionConfig{SecretKey: "0123456789abcdef", TTL: time.Hour}}
	repo := repository.NewMemoryRepository()
	client := &testutil.MockEsiClient{
		Tokens:   &models.TokenSet{AccessToken: "at", ExpiresIn: 1199, RefreshToken: "rt"},
		Identity: &models.Identity{CharacterID: 42, CharacterName: "Miner One", CharacterOwnerHash: "hash"},
	}
	kv := providers.NewMemoryKeyValueStore()
	s := NewAuthService(conf, repo, client, kv, &testutil.MockLogger{})
	s.now = func() time.Time { return fixedNow }
	return &authFixture{service: s, repo: repo, client: client, kv: kv}
}

func TestBeginLogin(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	state, redirect, err := f.service.BeginLogin(ctx)
	require.NoError(t, err)
	assert.Len(t, state, 64)
	assert.True(t, strings.HasSuffix(redirect, "state="+state))

	_, ok, err := f.kv.Get(ctx, statePrefix+state)
	require.NoError(t, err)
	assert.True(t, ok)

	other, _, err := f.service.BeginLogin(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, state, other)
}

func TestCompleteLogin_Success(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	state, _, err := f.service.BeginLogin(ctx)
	require.NoError(t, err)

	sessionID, character, err := f.service.CompleteLogin(ctx, "code", state, state)
	require.NoError(t, err)
	assert.NotEmpty(t, sessionID)
	assert.Equal(t, "Miner One", character.Name)

	stored, err := f.repo.GetCharacter(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "hash", stored.OwnerHash)
	assert.Equal(t, "at", stored.AccessToken)
	assert.Equal(t, "rt", stored.RefreshToken)
	assert.Equal(t, fixedNow.Add(1199*time.Second), stored.AccessTokenExpires)

	current, err := f.service.CurrentCharacter(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), current.CharacterID)

	_, _, err = f.service.CompleteLogin(ctx, "code", state, state)
	assert.ErrorIs(t, err, ErrStateMismatch, "state can be used once")
}

func TestCompleteLogin_UpdatesExistingCharacter(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	require.NoError(t, f.repo.SaveCharacter(ctx, &models.Character{CharacterID: 42, Name: "Old Name", RefreshToken: "old-rt"}))
	f.client.Tokens = &models.TokenSet{AccessToken: "at2", ExpiresIn: 60}

	state, _, _ := f.service.BeginLogin(ctx)
	_, _, err := f.service.CompleteLogin(ctx, "code", state, state)
	require.NoError(t, err)

	stored, _ := f.repo.GetCharacter(ctx, 42)
	assert.Equal(t, "Miner One", stored.Name)
	assert.Equal(t, "at2", stored.AccessToken)
	assert.Equal(t, "old-rt", stored.RefreshToken)
}

func TestCompleteLogin_StateMismatch(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	state, _, _ := f.service.BeginLogin(ctx)

	tests := []struct {
		name   string
		query  string
		cookie string
	}{
		{"different", state, "forged"},
		{"missing query", "", state},
		{"missing cookie", state, ""},
		{"never issued", "forged", "forged"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.service.CompleteLogin(ctx, "code", tt.query, tt.cookie)
			assert.ErrorIs(t, err, ErrStateMismatch)
			assert.ErrorIs(t, err, ErrLoginFailed)
			assert.Equal(t, "Login EVE Online SSO failed: Session Token Mismatch", err.Error())
		})
	}
}

func TestCompleteLogin_ExchangeFails(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	f.client.ExchangeErr = errors.New("invalid_grant")
	state, _, _ := f.service.BeginLogin(ctx)

	_, _, err := f.service.CompleteLogin(ctx, "code", state, state)
	assert.ErrorIs(t, err, ErrLoginFailed)
	assert.NotErrorIs(t, err, ErrStateMismatch)
	assert.Equal(t, "Login EVE Online SSO failed: invalid_grant", err.Error())

	_, err = f.repo.GetCharacter(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrCharacterNotFound)
}

func TestCompleteLogin_VerifyFails(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	f.client.VerifyErr = errors.New("expired")
	state, _, _ := f.service.BeginLogin(ctx)

	_, _, err := f.service.CompleteLogin(ctx, "code", state, state)
	assert.ErrorIs(t, err, ErrLoginFailed)
}

func TestCurrentCharacter_NoSession(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.service.CurrentCharacter(ctx, "")
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = f.service.CurrentCharacter(ctx, "unknown")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLogout(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	state, _, _ := f.service.BeginLogin(ctx)
	sessionID, _, err := f.service.CompleteLogin(ctx, "code", state, state)
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(ctx, sessionID))
	_, err = f.service.CurrentCharacter(ctx, sessionID)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.ErrorIs(t, f.service.Logout(ctx, sessionID), ErrNoSession)
}

func TestSessionTTLDefault(t *testing.T) {
	s := NewAuthService(&structures.Config{}, repository.NewMemoryRepository(), &testutil.MockEsiClient{}, testutil.NewMockKeyValueStore(), &testutil.MockLogger{})
	assert.Equal(t, defaultSessionTTL, s.SessionTTL())
}
