package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"minedash/internal/models"
	"minedash/internal/providers"
	"minedash/internal/structures"
)

var ErrCharacterNotFound = errors.New("character not found")

type LedgerRepositoryInterface interface {
	SaveCharacter(ctx context.Context, character *models.Character) error
	GetCharacter(ctx context.Context, characterID int64) (*models.Character, error)
	ListCharacters(ctx context.Context) ([]*models.Character, error)
	// SaveMiningRecords upserts records and returns how many keys were new.
	SaveMiningRecords(ctx context.Context, records []models.MiningRecord) (int, error)
	// ListLedgerRows returns every record, newest first.
	ListLedgerRows(ctx context.Context) ([]models.LedgerRow, error)
	VolumeByDateAndOre(ctx context.Context) ([]models.OreVolume, error)
	VolumeByCharacterAndOre(ctx context.Context) ([]models.CharacterOreVolume, error)
}

// Snapshotter is implemented by repositories that keep their data in process
// and need to be persisted to disk.
type Snapshotter interface {
	Snapshot() *models.LedgerSnapshot
	Restore(snapshot *models.LedgerSnapshot)
}

func NewLedgerRepository(conf *structures.Config, db *sql.DB, logger providers.Logger) (LedgerRepositoryInterface, error) {
	switch conf.Storage.Driver {
	case "mysql":
		if db == nil {
			return nil, fmt.Errorf("mysql storage selected without a database handle")
		}
		repo := NewMySQLRepository(db)
		if err := repo.Migrate(context.Background()); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		logger.Infof(providers.TypeApp, "Storage: mysql")
		return repo, nil
	case "", "memory":
		logger.Infof(providers.TypeApp, "Storage: memory")
		return NewMemoryRepository(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
}
