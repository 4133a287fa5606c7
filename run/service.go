package run

import (
	"fmt"

	"github.com/xhd2015/partsearch/data/storage"
	"github.com/xhd2015/partsearch/data/storage/filestore"
	"github.com/xhd2015/partsearch/data/storage/memory"
	"github.com/xhd2015/partsearch/data/storage/sqlite"
	"github.com/xhd2015/partsearch/internal/config"
)

func createHistoryService(historyType string) (storage.HistoryService, error) {
	switch historyType {
	case "sqlite":
		sqliteFile, err := config.GetSqliteFile()
		if err != nil {
			return nil, err
		}
		return sqlite.NewHistoryService(sqliteFile)
	case "file":
		historyFile, err := config.GetHistoryJSONFile()
		if err != nil {
			return nil, err
		}
		return filestore.NewHistoryService(historyFile)
	case "none":
		// views are kept for the session only
		return memory.NewHistoryService(), nil
	default:
		return nil, fmt.Errorf("unsupported history type: %s, available: sqlite, file, none", historyType)
	}
}
