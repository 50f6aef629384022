package persistence

import (
	"errors"
	"minedash/internal/models"
	"minedash/internal/repository"
	"minedash/internal/testutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() *models.LedgerSnapshot {
	return &models.LedgerSnapshot{
		Version: models.SnapshotVersion,
		Characters: []*models.Character{
			{CharacterID: 90000001, Name: "Miner One", RefreshToken: "r1"},
		},
		Records: []models.MiningRecord{
			{
				CharacterID:   90000001,
				Date:          time.Date(2018, time.April, 14, 0, 0, 0, 0, time.UTC),
				SolarSystemID: 30000142,
				TypeID:        46675,
				Quantity:      1200,
				OreName:       "Prime Arkonor",
				Volume:        16,
			},
		},
	}
}

func TestFileManager_SaveToFile_AtomicWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.dat")
	fm := NewFileManager(&testutil.MockCompressor{}, &testutil.MockSnapshotter{Current: sampleSnapshot()}, &testutil.MockLogger{})

	require.NoError(t, fm.SaveToFile(path))

	_, err := os.Stat(path)
	assert.NoError(t, err)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileManager_RoundTripWithZstd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.dat")
	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	defer comp.Close()

	source := repository.NewMemoryRepository()
	source.Restore(sampleSnapshot())
	require.NoError(t, NewFileManager(comp, source, &testutil.MockLogger{}).SaveToFile(path))

	target := repository.NewMemoryRepository()
	require.NoError(t, NewFileManager(comp, target, &testutil.MockLogger{}).LoadFromFile(path))

	assert.Equal(t, source.Snapshot(), target.Snapshot())
}

func TestFileManager_LoadFromFile_FileNotExist(t *testing.T) {
	snap := &testutil.MockSnapshotter{}
	fm := NewFileManager(&testutil.MockCompressor{}, snap, &testutil.MockLogger{})

	assert.NoError(t, fm.LoadFromFile("/nonexistent/path/file.dat"))
	assert.Empty(t, snap.Restored)
}

func TestFileManager_LoadFromFile_Corrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.dat")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	fm := NewFileManager(&testutil.MockCompressor{}, &testutil.MockSnapshotter{}, &testutil.MockLogger{})
	assert.Error(t, fm.LoadFromFile(path))
}

func TestFileManager_LoadFromFile_FutureVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future.dat")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":99}`), 0644))

	snap := &testutil.MockSnapshotter{}
	fm := NewFileManager(&testutil.MockCompressor{}, snap, &testutil.MockLogger{})
	assert.Error(t, fm.LoadFromFile(path))
	assert.Empty(t, snap.Restored)
}

func TestFileManager_SaveToFile_CompressError(t *testing.T) {
	comp := &testutil.MockCompressor{
		CompressFn: func([]byte) ([]byte, error) { return nil, errors.New("compress error") },
	}
	fm := NewFileManager(comp, &testutil.MockSnapshotter{}, &testutil.MockLogger{})
	assert.Error(t, fm.SaveToFile(filepath.Join(t.TempDir(), "x.dat")))
}

func TestFileManager_LoadFromFile_DecompressError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.dat")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0644))
	comp := &testutil.MockCompressor{
		DecompressFn: func([]byte) ([]byte, error) { return nil, errors.New("bad frame") },
	}
	fm := NewFileManager(comp, &testutil.MockSnapshotter{}, &testutil.MockLogger{})
	assert.Error(t, fm.LoadFromFile(path))
}
