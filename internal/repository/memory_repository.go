package repository

import (
	"context"
	"minedash/internal/models"
	"sort"
	"sync"
	"time"
)

type MemoryRepository struct {
	mu         sync.RWMutex
	characters map[int64]*models.Character
	records    map[string]models.MiningRecord
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		characters: make(map[int64]*models.Character),
		records:    make(map[string]models.MiningRecord),
	}
}

func (m *MemoryRepository) SaveCharacter(_ context.Context, character *models.Character) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *character
	m.characters[c.CharacterID] = &c
	return nil
}

func (m *MemoryRepository) GetCharacter(_ context.Context, characterID int64) (*models.Character, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.characters[characterID]
	if !ok {
		return nil, ErrCharacterNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MemoryRepository) ListCharacters(_ context.Context) ([]*models.Character, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Character, 0, len(m.characters))
	for _, c := range m.characters {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].CharacterID < out[j].CharacterID
	})
	return out, nil
}

func (m *MemoryRepository) SaveMiningRecords(_ context.Context, records []models.MiningRecord) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := 0
	for _, r := range records {
		key := r.Key()
		if _, ok := m.records[key]; !ok {
			created++
		}
		m.records[key] = r
	}
	return created, nil
}

func (m *MemoryRepository) ListLedgerRows(_ context.Context) ([]models.LedgerRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	records := m.sortedRecords()
	rows := make([]models.LedgerRow, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		name := ""
		if c, ok := m.characters[r.CharacterID]; ok {
			name = c.Name
		}
		rows = append(rows, models.LedgerRow{
			Date:          r.Date,
			CharacterName: name,
			OreName:       r.OreName,
			Quantity:      r.Quantity,
			Volume:        r.Volume,
		})
	}
	return rows, nil
}

func (m *MemoryRepository) VolumeByDateAndOre(_ context.Context) ([]models.OreVolume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type key struct {
		date time.Time
		ore  string
	}
	sums := make(map[key]float64)
	var order []key
	for _, r := range m.sortedRecords() {
		k := key{date: r.Date, ore: r.OreName}
		if _, ok := sums[k]; !ok {
			order = append(order, k)
		}
		sums[k] += r.TotalVolume()
	}

	out := make([]models.OreVolume, 0, len(order))
	for _, k := range order {
		out = append(out, models.OreVolume{Date: k.date, OreName: k.ore, Volume: sums[k]})
	}
	return out, nil
}

func (m *MemoryRepository) VolumeByCharacterAndOre(_ context.Context) ([]models.CharacterOreVolume, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type key struct {
		id  int64
		ore string
	}
	sums := make(map[key]float64)
	for _, r := range m.records {
		sums[key{id: r.CharacterID, ore: r.OreName}] += r.TotalVolume()
	}

	out := make([]models.CharacterOreVolume, 0, len(sums))
	for k, v := range sums {
		out = append(out, models.CharacterOreVolume{CharacterID: k.id, OreName: k.ore, Volume: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CharacterID != out[j].CharacterID {
			return out[i].CharacterID < out[j].CharacterID
		}
		return out[i].OreName < out[j].OreName
	})
	return out, nil
}

// sortedRecords orders by date, then by key so that equal dates are stable.
// Callers hold the lock.
func (m *MemoryRepository) sortedRecords() []models.MiningRecord {
	out := make([]models.MiningRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Key() < out[j].Key()
	})
	return out
}

func (m *MemoryRepository) Snapshot() *models.LedgerSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := &models.LedgerSnapshot{
		Version:    models.SnapshotVersion,
		Characters: make([]*models.Character, 0, len(m.characters)),
		Records:    m.sortedRecords(),
	}
	for _, c := range m.characters {
		cp := *c
		snap.Characters = append(snap.Characters, &cp)
	}
	sort.Slice(snap.Characters, func(i, j int) bool {
		return snap.Characters[i].CharacterID < snap.Characters[j].CharacterID
	})
	return snap
}

func (m *MemoryRepository) Restore(snapshot *models.LedgerSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.characters = make(map[int64]*models.Character, len(snapshot.Characters))
	m.records = make(map[string]models.MiningRecord, len(snapshot.Records))
	for _, c := range snapshot.Characters {
		if c == nil {
			continue
		}
		cp := *c
		m.characters[cp.CharacterID] = &cp
	}
	for _, r := range snapshot.Records {
		m.records[r.Key()] = r
	}
}
