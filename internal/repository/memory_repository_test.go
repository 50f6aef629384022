package repository

import (
	"context"
	"minedash/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func record(charID int64, date time.Time, system, typeID, qty int64, ore string, vol float64) models.MiningRecord {
	return models.MiningRecord{
		CharacterID:   charID,
		Date:          date,
		SolarSystemID: system,
		TypeID:        typeID,
		Quantity:      qty,
		OreName:       ore,
		Volume:        vol,
	}
}

func seededRepository(t *testing.T) *MemoryRepository {
	t.Helper()
	ctx := context.Background()
	repo := NewMemoryRepository()
	require.NoError(t, repo.SaveCharacter(ctx, &models.Character{CharacterID: 1, Name: "Bravo"}))
	require.NoError(t, repo.SaveCharacter(ctx, &models.Character{CharacterID: 2, Name: "Alpha"}))

	_, err := repo.SaveMiningRecords(ctx, []models.MiningRecord{
		record(1, day(2018, 4, 14), 100, 10, 100, "Prime Arkonor", 16),
		record(1, day(2018, 4, 15), 100, 10, 50, "Prime Arkonor", 16),
		record(2, day(2018, 4, 14), 100, 10, 10, "Prime Arkonor", 16),
		record(2, day(2018, 4, 14), 200, 20, 200, "Obsidian Ochre", 8),
	})
	require.NoError(t, err)
	return repo
}

func TestMemoryRepository_GetCharacter(t *testing.T) {
	repo := seededRepository(t)

	c, err := repo.GetCharacter(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Bravo", c.Name)

	c.Name = "mutated"
	again, _ := repo.GetCharacter(context.Background(), 1)
	assert.Equal(t, "Bravo", again.Name, "returned characters are copies")

	_, err = repo.GetCharacter(context.Background(), 99)
	assert.ErrorIs(t, err, ErrCharacterNotFound)
}

func TestMemoryRepository_ListCharactersOrderedByName(t *testing.T) {
	repo := seededRepository(t)

	chars, err := repo.ListCharacters(context.Background())
	require.NoError(t, err)
	require.Len(t, chars, 2)
	assert.Equal(t, "Alpha", chars[0].Name)
	assert.Equal(t, "Bravo", chars[1].Name)
}

func TestMemoryRepository_SaveMiningRecordsUpserts(t *testing.T) {
	repo := seededRepository(t)
	ctx := context.Background()

	created, err := repo.SaveMiningRecords(ctx, []models.MiningRecord{
		record(1, day(2018, 4, 14), 100, 10, 400, "Prime Arkonor", 16),
		record(1, day(2018, 4, 16), 100, 10, 1, "Prime Arkonor", 16),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	rows, err := repo.ListLedgerRows(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 5)

	var updated models.LedgerRow
	for _, r := range rows {
		if r.CharacterName == "Bravo" && r.Date.Equal(day(2018, 4, 14)) {
			updated = r
		}
	}
	assert.Equal(t, int64(400), updated.Quantity)
}

func TestMemoryRepository_ListLedgerRowsNewestFirst(t *testing.T) {
	repo := seededRepository(t)

	rows, err := repo.ListLedgerRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, day(2018, 4, 15), rows[0].Date)
	assert.Equal(t, "Bravo", rows[0].CharacterName)
	for i := 1; i < len(rows); i++ {
		assert.False(t, rows[i].Date.After(rows[i-1].Date))
	}
}

func TestMemoryRepository_VolumeByDateAndOre(t *testing.T) {
	repo := seededRepository(t)

	vols, err := repo.VolumeByDateAndOre(context.Background())
	require.NoError(t, err)

	got := map[string]float64{}
	for i, v := range vols {
		if i > 0 {
			assert.False(t, v.Date.Before(vols[i-1].Date), "ordered by date")
		}
		got[v.Date.Format(models.DateLayout)+"|"+v.OreName] = v.Volume
	}
	assert.Equal(t, map[string]float64{
		"2018-04-14|Prime Arkonor":  1760,
		"2018-04-14|Obsidian Ochre": 1600,
		"2018-04-15|Prime Arkonor":  800,
	}, got)
}

func TestMemoryRepository_VolumeByCharacterAndOre(t *testing.T) {
	repo := seededRepository(t)

	vols, err := repo.VolumeByCharacterAndOre(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.CharacterOreVolume{
		{CharacterID: 1, OreName: "Prime Arkonor", Volume: 2400},
		{CharacterID: 2, OreName: "Obsidian Ochre", Volume: 1600},
		{CharacterID: 2, OreName: "Prime Arkonor", Volume: 160},
	}, vols)
}

func TestMemoryRepository_SnapshotRestore(t *testing.T) {
	repo := seededRepository(t)
	snap := repo.Snapshot()
	assert.Equal(t, models.SnapshotVersion, snap.Version)
	assert.Len(t, snap.Characters, 2)
	assert.Len(t, snap.Records, 4)

	restored := NewMemoryRepository()
	restored.Restore(snap)

	want, _ := repo.ListLedgerRows(context.Background())
	got, err := restored.ListLedgerRows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMemoryRepository_EmptyAggregates(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	vols, err := repo.VolumeByDateAndOre(ctx)
	require.NoError(t, err)
	assert.Empty(t, vols)

	rows, err := repo.ListLedgerRows(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
