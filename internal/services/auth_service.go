package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"minedash/internal/esi"
	"minedash/internal/models"
	"minedash/internal/providers"
	"minedash/internal/repository"
	"minedash/internal/structures"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	StateTTL          = 10 * time.Minute
	defaultSessionTTL = 30 * 24 * time.Hour

	statePrefix   = "sso_state:"
	sessionPrefix = "session:"
)

var (
	ErrLoginFailed   = errors.New("Login EVE Online SSO failed")
	ErrStateMismatch = fmt.Errorf("%w: Session Token Mismatch", ErrLoginFailed)
	ErrNoSession     = errors.New("no session")
)

type AuthServiceInterface interface {
	// BeginLogin returns the state token and the SSO URL to redirect to.
	BeginLogin(ctx context.Context) (state string, redirectURL string, err error)
	// CompleteLogin checks the state, stores the character and opens a session.
	CompleteLogin(ctx context.Context, code, queryState, cookieState string) (sessionID string, character *models.Character, err error)
	CurrentCharacter(ctx context.Context, sessionID string) (*models.Character, error)
	Logout(ctx context.Context, sessionID string) error
	SessionTTL() time.Duration
}

type AuthService struct {
	repo       repository.LedgerRepositoryInterface
	client     esi.ClientInterface
	kv         providers.KeyValueStoreInterface
	logger     providers.Logger
	secret     []byte
	sessionTTL time.Duration
	now        func() time.Time
}

func NewAuthService(conf *structures.Config, repo repository.LedgerRepositoryInterface, client esi.ClientInterface, kv providers.KeyValueStoreInterface, logger providers.Logger) *AuthService {
	ttl := conf.Session.TTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &AuthService{
		repo:       repo,
		client:     client,
		kv:         kv,
		logger:     logger,
		secret:     []byte(conf.Session.SecretKey),
		sessionTTL: ttl,
		now:        time.Now,
	}
}

func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}

// generateState signs a random uuid with the session secret.
func (s *AuthService) generateState() string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(uuid.NewString()))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *AuthService) BeginLogin(ctx context.Context) (string, string, error) {
	state := s.generateState()
	if err := s.kv.Put(ctx, statePrefix+state, []byte("1"), StateTTL); err != nil {
		return "", "", fmt.Errorf("store login state: %w", err)
	}
	return state, s.client.AuthorizeURL(state), nil
}

func (s *AuthService) CompleteLogin(ctx context.Context, code, queryState, cookieState string) (string, *models.Character, error) {
	if queryState == "" || cookieState == "" || !hmac.Equal([]byte(queryState), []byte(cookieState)) {
		return "", nil, ErrStateMismatch
	}
	_, ok, err := s.kv.Take(ctx, statePrefix+queryState)
	if err != nil {
		return "", nil, fmt.Errorf("consume login state: %w", err)
	}
	if !ok {
		return "", nil, ErrStateMismatch
	}

	now := s.now()
	tokens, err := s.client.ExchangeCode(ctx, code)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	identity, err := s.client.Verify(ctx, tokens.AccessToken)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}

	character, err := s.repo.GetCharacter(ctx, identity.CharacterID)
	if errors.Is(err, repository.ErrCharacterNotFound) {
		character = &models.Character{CharacterID: identity.CharacterID}
	} else if err != nil {
		return "", nil, err
	}
	if character.OwnerHash != "" && character.OwnerHash != identity.CharacterOwnerHash {
		s.logger.Warnf(providers.TypeApp, "Owner of character %d changed", identity.CharacterID)
	}
	character.OwnerHash = identity.CharacterOwnerHash
	character.Name = identity.CharacterName
	character.ApplyTokens(tokens, now)

	if err := s.repo.SaveCharacter(ctx, character); err != nil {
		return "", nil, fmt.Errorf("save character: %w", err)
	}

	sessionID := uuid.NewString()
	value := []byte(strconv.FormatInt(character.CharacterID, 10))
	if err := s.kv.Put(ctx, sessionPrefix+sessionID, value, s.sessionTTL); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}

	s.logger.Infof(providers.TypeApp, "Character %d (%s) logged in", character.CharacterID, character.Name)
	return sessionID, character, nil
}

func (s *AuthService) CurrentCharacter(ctx context.Context, sessionID string) (*models.Character, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}
	value, ok, err := s.kv.Get(ctx, sessionPrefix+sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoSession
	}
	characterID, err := strconv.ParseInt(string(value), 10, 64)
	if err != nil {
		return nil, ErrNoSession
	}
	character, err := s.repo.GetCharacter(ctx, characterID)
	if errors.Is(err, repository.ErrCharacterNotFound) {
		return nil, ErrNoSession
	}
	return character, err
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if _, err := s.CurrentCharacter(ctx, sessionID); err != nil {
		return err
	}
	return s.kv.Delete(ctx, sessionPrefix+sessionID)
}
