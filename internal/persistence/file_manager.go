package persistence

import (
	"fmt"
	"minedash/internal/models"
	"minedash/internal/persistence/interfaces"
	"minedash/internal/providers"
	"minedash/internal/repository"
	"os"

	json "github.com/goccy/go-json"
)

type FileManager struct {
	store      repository.Snapshotter
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, store repository.Snapshotter, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		store:      store,
		logger:     logger,
	}
}

// SaveToFile writes the snapshot to a temp file and renames it over the
// target so a crash never leaves a half-written file.
func (f *FileManager) SaveToFile(fileName string) error {
	jsonData, err := json.Marshal(f.store.Snapshot())
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile restores a snapshot. A missing file is not an error: the
// ledger simply starts empty.
func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return fmt.Errorf("decompress %s: %w", fileName, err)
	}

	var snapshot models.LedgerSnapshot
	if err := json.Unmarshal(decompressed, &snapshot); err != nil {
		return fmt.Errorf("decode %s: %w", fileName, err)
	}
	if snapshot.Version > models.SnapshotVersion {
		return fmt.Errorf("snapshot %s has version %d, newest supported is %d", fileName, snapshot.Version, models.SnapshotVersion)
	}

	f.store.Restore(&snapshot)
	f.logger.Infof(providers.TypeApp, "Restored %d characters and %d mining records", len(snapshot.Characters), len(snapshot.Records))
	return nil
}
