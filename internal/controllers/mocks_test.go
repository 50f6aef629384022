package controllers

import (
	"context"
	"minedash/internal/models"
	"sync"
)

// --- local mocks (scoped to controller tests) ---

type mockChartService struct {
	series     []models.Series
	chart      *models.CharacterChartData
	rows       []models.LedgerRow
	characters []*models.Character
	err        error
	calls      int
}

func (m *mockChartService) TimeSeries(_ context.Context) ([]models.Series, error) {
	m.calls++
	return m.series, m.err
}

func (m *mockChartService) CharacterChart(_ context.Context) (*models.CharacterChartData, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.chart == nil {
		return &models.CharacterChartData{}, nil
	}
	return m.chart, nil
}

func (m *mockChartService) LedgerRows(_ context.Context) ([]models.LedgerRow, error) {
	return m.rows, m.err
}

func (m *mockChartService) Characters(_ context.Context) ([]*models.Character, error) {
	return m.characters, m.err
}

type mockLedgerService struct {
	mu     sync.Mutex
	result *models.UpdateResult
	err    error
	calls  []int64
}

func (m *mockLedgerService) UpdateCharacter(_ context.Context, characterID int64) (*models.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, characterID)
	return m.result, m.err
}
