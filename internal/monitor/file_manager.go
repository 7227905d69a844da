package monitor

import (
	json "github.com/goccy/go-json"
	"igmond/internal/models"
	"igmond/internal/monitor/interfaces"
	"igmond/internal/providers"
	"igmond/internal/services"
	"os"
)

// FileManager persists the store as one zstd-compressed JSON document.
// Saves go through a temp file and rename, so a crash mid-write never
// leaves a truncated store behind.
type FileManager struct {
	store      services.StoreServiceInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, store services.StoreServiceInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		store:      store,
		logger:     logger,
	}
}

func (f *FileManager) SaveToFile(fileName string) error {
	storage := f.store.Snapshot()

	jsonData, err := json.Marshal(storage)
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

// LoadFromFile replaces the store contents with the persisted document.
// A missing file is a fresh start. Uncompressed files are accepted for
// compatibility with the legacy data.json layout, which used the same
// top-level keys.
func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	jsonData, err := f.compressor.Decompress(data)
	if err != nil {
		f.logger.Warnf(providers.TypeApp, "Store file not compressed, trying legacy plain JSON")
		jsonData = data
	}

	var storage models.Storage
	if err := json.Unmarshal(jsonData, &storage); err != nil {
		return err
	}
	if storage.Subscribers == nil && storage.Counters == nil && storage.Stats == nil {
		f.logger.Warnf(providers.TypeApp, "Store file has no recognizable sections, starting empty")
		return nil
	}

	f.store.Replace(&storage)
	return nil
}
