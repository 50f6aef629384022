package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"minedash/internal/models"
	"time"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS characters (
		character_id BIGINT NOT NULL PRIMARY KEY,
		character_owner_hash VARCHAR(255) NOT NULL DEFAULT '',
		character_name VARCHAR(200) NOT NULL DEFAULT '',
		access_token TEXT,
		access_token_expires DATETIME NULL,
		refresh_token TEXT,
		latest_seen DATETIME NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS mining_data (
		character_id BIGINT NOT NULL,
		date DATE NOT NULL,
		solar_system_id BIGINT NOT NULL,
		type_id BIGINT NOT NULL,
		quantity BIGINT NOT NULL,
		ore_name VARCHAR(100) NOT NULL DEFAULT '',
		volume DOUBLE NOT NULL DEFAULT 0,
		PRIMARY KEY (character_id, date, solar_system_id, type_id),
		KEY idx_mining_date (date),
		CONSTRAINT fk_mining_character FOREIGN KEY (character_id) REFERENCES characters (character_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

type MySQLRepository struct {
	DB *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{DB: db}
}

func (s *MySQLRepository) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *MySQLRepository) SaveCharacter(ctx context.Context, c *models.Character) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO characters (
			character_id, character_owner_hash, character_name,
			access_token, access_token_expires, refresh_token, latest_seen
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			character_owner_hash = VALUES(character_owner_hash),
			character_name = VALUES(character_name),
			access_token = VALUES(access_token),
			access_token_expires = VALUES(access_token_expires),
			refresh_token = VALUES(refresh_token),
			latest_seen = VALUES(latest_seen)
	`,
		c.CharacterID,
		c.OwnerHash,
		c.Name,
		c.AccessToken,
		toNullTime(c.AccessTokenExpires),
		c.RefreshToken,
		toNullTime(c.LatestSeen),
	)
	if err != nil {
		return fmt.Errorf("save character %d: %w", c.CharacterID, err)
	}
	return nil
}

const characterColumns = `
	character_id, character_owner_hash, character_name,
	COALESCE(access_token, ''), access_token_expires, COALESCE(refresh_token, ''), latest_seen`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row rowScanner) (*models.Character, error) {
	var (
		c       models.Character
		expires sql.NullTime
		seen    sql.NullTime
	)
	err := row.Scan(&c.CharacterID, &c.OwnerHash, &c.Name, &c.AccessToken, &expires, &c.RefreshToken, &seen)
	if err != nil {
		return nil, err
	}
	c.AccessTokenExpires = expires.Time
	c.LatestSeen = seen.Time
	return &c, nil
}

func (s *MySQLRepository) GetCharacter(ctx context.Context, characterID int64) (*models.Character, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+characterColumns+` FROM characters WHERE character_id = ?`, characterID)
	c, err := scanCharacter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCharacterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get character %d: %w", characterID, err)
	}
	return c, nil
}

func (s *MySQLRepository) ListCharacters(ctx context.Context) ([]*models.Character, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+characterColumns+` FROM characters ORDER BY character_name, character_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Character
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SaveMiningRecords relies on MySQL reporting 1 affected row for an insert
// and 2 for an update in ON DUPLICATE KEY UPDATE.
func (s *MySQLRepository) SaveMiningRecords(ctx context.Context, records []models.MiningRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO mining_data (character_id, date, solar_system_id, type_id, quantity, ore_name, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			quantity = VALUES(quantity),
			ore_name = VALUES(ore_name),
			volume = VALUES(volume)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	created := 0
	for _, r := range records {
		res, err := stmt.ExecContext(ctx, r.CharacterID, r.Date, r.SolarSystemID, r.TypeID, r.Quantity, r.OreName, r.Volume)
		if err != nil {
			return 0, fmt.Errorf("save mining record %s: %w", r.Key(), err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 1 {
			created++
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return created, nil
}

func (s *MySQLRepository) ListLedgerRows(ctx context.Context) ([]models.LedgerRow, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT m.date, COALESCE(c.character_name, ''), m.ore_name, m.quantity, m.volume
		FROM mining_data m
		LEFT JOIN characters c ON c.character_id = m.character_id
		ORDER BY m.date DESC, m.character_id, m.solar_system_id, m.type_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LedgerRow
	for rows.Next() {
		var r models.LedgerRow
		if err := rows.Scan(&r.Date, &r.CharacterName, &r.OreName, &r.Quantity, &r.Volume); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *MySQLRepository) VolumeByDateAndOre(ctx context.Context) ([]models.OreVolume, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT date, ore_name, SUM(quantity * volume)
		FROM mining_data
		GROUP BY date, ore_name
		ORDER BY date, ore_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.OreVolume
	for rows.Next() {
		var v models.OreVolume
		if err := rows.Scan(&v.Date, &v.OreName, &v.Volume); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *MySQLRepository) VolumeByCharacterAndOre(ctx context.Context) ([]models.CharacterOreVolume, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT character_id, ore_name, SUM(quantity * volume)
		FROM mining_data
		GROUP BY character_id, ore_name
		ORDER BY character_id, ore_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CharacterOreVolume
	for rows.Next() {
		var v models.CharacterOreVolume
		if err := rows.Scan(&v.CharacterID, &v.OreName, &v.Volume); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func toNullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
