package services

import (
	"context"
	"fmt"
	"minedash/internal/models"
	"minedash/internal/repository"
	"slices"
	"sort"
)

type ChartServiceInterface interface {
	TimeSeries(ctx context.Context) ([]models.Series, error)
	CharacterChart(ctx context.Context) (*models.CharacterChartData, error)
	LedgerRows(ctx context.Context) ([]models.LedgerRow, error)
	Characters(ctx context.Context) ([]*models.Character, error)
}

type ChartService struct {
	repo repository.LedgerRepositoryInterface
}

func NewChartService(repo repository.LedgerRepositoryInterface) *ChartService {
	return &ChartService{repo: repo}
}

// TimeSeries returns one series per ore with the m3 mined per day. Known ores
// come first in their fixed order, unknown ones follow by name.
func (s *ChartService) TimeSeries(ctx context.Context) ([]models.Series, error) {
	volumes, err := s.repo.VolumeByDateAndOre(ctx)
	if err != nil {
		return nil, fmt.Errorf("volume by date: %w", err)
	}

	byOre := make(map[string]*models.Series)
	for _, v := range volumes {
		series, ok := byOre[v.OreName]
		if !ok {
			series = &models.Series{Name: v.OreName, Color: models.OreColor(v.OreName)}
			byOre[v.OreName] = series
		}
		series.Data = append(series.Data, models.Point{Date: models.NewChartDate(v.Date), Value: v.Volume})
	}

	names := make([]string, 0, len(byOre))
	for name := range byOre {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return oreLess(names[i], names[j])
	})

	result := make([]models.Series, 0, len(names))
	for _, name := range names {
		result = append(result, *byOre[name])
	}
	return result, nil
}

func oreLess(a, b string) bool {
	ia, ib := slices.Index(models.Ores, a), slices.Index(models.Ores, b)
	switch {
	case ia >= 0 && ib >= 0:
		return ia < ib
	case ia >= 0:
		return true
	case ib >= 0:
		return false
	default:
		return a < b
	}
}

// CharacterChart lays out the m3 of every ore in models.Ores per character.
// Characters that never mined an ore get 0.
func (s *ChartService) CharacterChart(ctx context.Context) (*models.CharacterChartData, error) {
	characters, err := s.repo.ListCharacters(ctx)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	volumes, err := s.repo.VolumeByCharacterAndOre(ctx)
	if err != nil {
		return nil, fmt.Errorf("volume by character: %w", err)
	}

	mined := make(map[int64]map[string]float64)
	for _, v := range volumes {
		if mined[v.CharacterID] == nil {
			mined[v.CharacterID] = make(map[string]float64)
		}
		mined[v.CharacterID][v.OreName] += v.Volume
	}

	data := &models.CharacterChartData{
		Names:  make([]string, 0, len(characters)),
		Series: make([]models.CategorySeries, 0, len(models.Ores)),
	}
	for _, c := range characters {
		data.Names = append(data.Names, c.Name)
	}
	for _, ore := range models.Ores {
		values := make([]float64, len(characters))
		for i, c := range characters {
			values[i] = mined[c.CharacterID][ore]
		}
		data.Series = append(data.Series, models.CategorySeries{
			Name:   ore,
			Color:  models.OreColor(ore),
			Values: values,
		})
	}
	return data, nil
}

func (s *ChartService) LedgerRows(ctx context.Context) ([]models.LedgerRow, error) {
	return s.repo.ListLedgerRows(ctx)
}

func (s *ChartService) Characters(ctx context.Context) ([]*models.Character, error) {
	return s.repo.ListCharacters(ctx)
}
