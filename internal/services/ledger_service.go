package services

import (
	"context"
	"errors"
	"fmt"
	"minedash/internal/esi"
	"minedash/internal/models"
	"minedash/internal/providers"
	"minedash/internal/repository"
	"time"
)

const (
	// tokenRefreshMargin refreshes access tokens that would expire mid-update.
	tokenRefreshMargin = 60 * time.Second

	CacheKeyMiningChart    = "chart:mining"
	CacheKeyCharacterChart = "chart:characters"
)

// ErrUpstream marks failures of ESI or SSO during an update.
var ErrUpstream = errors.New("esi request failed")

type UpdateNotifier interface {
	Broadcast(event *models.UpdateEvent)
}

type LedgerServiceInterface interface {
	UpdateCharacter(ctx context.Context, characterID int64) (*models.UpdateResult, error)
}

type LedgerService struct {
	repo     repository.LedgerRepositoryInterface
	client   esi.ClientInterface
	cache    providers.CacheProviderInterface
	notifier UpdateNotifier
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	locks    *keyedMutex
	now      func() time.Time
}

func NewLedgerService(
	repo repository.LedgerRepositoryInterface,
	client esi.ClientInterface,
	cache providers.CacheProviderInterface,
	notifier UpdateNotifier,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) *LedgerService {
	return &LedgerService{
		repo:     repo,
		client:   client,
		cache:    cache,
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
		locks:    newKeyedMutex(),
		now:      time.Now,
	}
}

// UpdateCharacter pulls the full mining ledger of a character from ESI and
// stores it. Concurrent updates of the same character run one after another.
func (s *LedgerService) UpdateCharacter(ctx context.Context, characterID int64) (*models.UpdateResult, error) {
	unlock := s.locks.Lock(characterID)
	defer unlock()

	result, err := s.update(ctx, characterID)
	switch {
	case err == nil:
		s.metrics.IncLedgerUpdates("success")
	case errors.Is(err, repository.ErrCharacterNotFound):
		s.metrics.IncLedgerUpdates("not_found")
	case errors.Is(err, ErrUpstream):
		s.metrics.IncLedgerUpdates("esi_error")
		s.logger.Errorf(providers.TypeESI, "Update of %d failed: %s", characterID, err)
	default:
		s.metrics.IncLedgerUpdates("error")
		s.logger.Errorf(providers.TypeApp, "Update of %d failed: %s", characterID, err)
	}
	return result, err
}

func (s *LedgerService) update(ctx context.Context, characterID int64) (*models.UpdateResult, error) {
	character, err := s.repo.GetCharacter(ctx, characterID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureToken(ctx, character); err != nil {
		return nil, err
	}

	entries, err := s.client.MiningLedger(ctx, characterID, character.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	records, err := s.resolve(ctx, characterID, entries)
	if err != nil {
		return nil, err
	}

	added, err := s.repo.SaveMiningRecords(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("save mining records: %w", err)
	}

	character.LatestSeen = s.now().UTC()
	if err := s.repo.SaveCharacter(ctx, character); err != nil {
		return nil, fmt.Errorf("save character: %w", err)
	}

	s.cache.Del(CacheKeyMiningChart)
	s.cache.Del(CacheKeyCharacterChart)
	s.metrics.AddRecordsIngested(added)

	result := &models.UpdateResult{Result: fmt.Sprintf("%d new mining records for %s", added, character.Name)}
	s.logger.Infof(providers.TypeApp, "Update of %d: %d ledger entries, %d new", characterID, len(entries), added)
	s.notifier.Broadcast(&models.UpdateEvent{
		CharacterID:   characterID,
		CharacterName: character.Name,
		NewRecords:    added,
		Result:        result.Result,
	})
	return result, nil
}

func (s *LedgerService) ensureToken(ctx context.Context, character *models.Character) error {
	now := s.now()
	if !character.TokenExpiresWithin(now, tokenRefreshMargin) {
		return nil
	}
	if character.RefreshToken == "" {
		return fmt.Errorf("%w: character %d has no refresh token", ErrUpstream, character.CharacterID)
	}

	tokens, err := s.client.Refresh(ctx, character.RefreshToken)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	character.ApplyTokens(tokens, now)
	if err := s.repo.SaveCharacter(ctx, character); err != nil {
		return fmt.Errorf("save refreshed token: %w", err)
	}
	s.logger.Debugf(providers.TypeESI, "Refreshed token of %d", character.CharacterID)
	return nil
}

func (s *LedgerService) resolve(ctx context.Context, characterID int64, entries []models.LedgerEntry) ([]models.MiningRecord, error) {
	types := make(map[int64]*models.OreType)
	records := make([]models.MiningRecord, 0, len(entries))

	for _, entry := range entries {
		date, err := time.Parse(models.DateLayout, entry.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: ledger date %q: %w", ErrUpstream, entry.Date, err)
		}

		oreType, ok := types[entry.TypeID]
		if !ok {
			oreType, err = s.client.UniverseType(ctx, entry.TypeID)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
			}
			types[entry.TypeID] = oreType
		}

		records = append(records, models.MiningRecord{
			CharacterID:   characterID,
			Date:          date,
			SolarSystemID: entry.SolarSystemID,
			TypeID:        entry.TypeID,
			Quantity:      entry.Quantity,
			OreName:       oreType.Name,
			Volume:        oreType.Volume,
		})
	}
	return records, nil
}
