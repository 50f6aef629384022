package persistence

import (
	"encoding/json"
	"errors"
	"minedash/internal/repository"
	"minedash/internal/structures"
	"minedash/internal/testutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(filePath string, interval time.Duration) *structures.Config {
	return &structures.Config{
		Persistence: structures.Persistence{
			FilePath:     filePath,
			SaveInterval: interval,
		},
	}
}

func TestScheduler_Restore_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restore.dat")
	data, err := json.Marshal(sampleSnapshot())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	repo := repository.NewMemoryRepository()
	s := NewScheduler(testConfig(path, time.Second), &testutil.MockLogger{}, repo, &testutil.MockCompressor{}, &testutil.MockMetrics{})
	require.NoError(t, s.Restore())

	c, err := repo.GetCharacter(t.Context(), 90000001)
	require.NoError(t, err)
	assert.Equal(t, "Miner One", c.Name)
}

func TestScheduler_Restore_FileNotExist(t *testing.T) {
	repo := repository.NewMemoryRepository()
	s := NewScheduler(testConfig("/nonexistent/file.dat", time.Second), &testutil.MockLogger{}, repo, &testutil.MockCompressor{}, &testutil.MockMetrics{})
	assert.NoError(t, s.Restore())
}

func TestScheduler_Persist_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.dat")
	metrics := &testutil.MockMetrics{}
	repo := repository.NewMemoryRepository()
	repo.Restore(sampleSnapshot())

	s := NewScheduler(testConfig(path, time.Second), &testutil.MockLogger{}, repo, &testutil.MockCompressor{}, metrics)
	require.NoError(t, s.Persist())

	_, err := os.Stat(path)
	assert.NoError(t, err)
	assert.Equal(t, 1, metrics.PersistenceCalls)
}

func TestScheduler_Persist_Error(t *testing.T) {
	comp := &testutil.MockCompressor{
		CompressFn: func([]byte) ([]byte, error) { return nil, errors.New("compress error") },
	}
	logger := &testutil.MockLogger{}
	s := NewScheduler(testConfig(filepath.Join(t.TempDir(), "x.dat"), time.Second), logger, repository.NewMemoryRepository(), comp, &testutil.MockMetrics{})

	assert.Error(t, s.Persist())
	assert.Equal(t, 1, logger.Count("error"))
}

func TestScheduler_StopWithoutInit(t *testing.T) {
	s := NewScheduler(testConfig("/tmp/x.dat", time.Second), &testutil.MockLogger{}, repository.NewMemoryRepository(), &testutil.MockCompressor{}, &testutil.MockMetrics{})
	s.Stop()
}

func TestScheduler_PeriodicPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tick.dat")
	metrics := &testutil.MockMetrics{}
	s := NewScheduler(testConfig(path, 20*time.Millisecond), &testutil.MockLogger{}, repository.NewMemoryRepository(), &testutil.MockCompressor{}, metrics)

	s.Init()
	assert.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
	s.Stop()
	s.Stop()
}

type sqlOnlyRepository struct {
	repository.LedgerRepositoryInterface
}

func TestNewScheduler_NonSnapshotRepositoryIsNoop(t *testing.T) {
	s := NewScheduler(testConfig("/tmp/x.dat", time.Second), &testutil.MockLogger{}, &sqlOnlyRepository{}, &testutil.MockCompressor{}, &testutil.MockMetrics{})
	assert.IsType(t, &noopScheduler{}, s)
	assert.NoError(t, s.Restore())
	assert.NoError(t, s.Persist())
	s.Init()
	s.Stop()
}
