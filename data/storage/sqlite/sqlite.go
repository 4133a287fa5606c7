package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/xhd2015/partsearch/data/storage"
	"github.com/xhd2015/partsearch/models"
)

type SQLiteStore struct {
	db *sql.DB
}

type HistorySQLiteStore struct {
	*SQLiteStore
}

func New(filePath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}

	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) createTables() error {
	createHistoryTable := `
	CREATE TABLE IF NOT EXISTS view_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id TEXT NOT NULL,
		part_number TEXT NOT NULL DEFAULT '',
		brand_name TEXT NOT NULL DEFAULT '',
		view_time DATETIME NOT NULL
	);`

	if _, err := s.db.Exec(createHistoryTable); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func NewHistoryService(filePath string) (storage.HistoryService, error) {
	store, err := New(filePath)
	if err != nil {
		return nil, err
	}
	return &HistorySQLiteStore{SQLiteStore: store}, nil
}

func (hs *HistorySQLiteStore) Add(entry models.HistoryEntry) (int64, error) {
	if entry.ViewTime.IsZero() {
		entry.ViewTime = time.Now()
	}

	query := `INSERT INTO view_history (product_id, part_number, brand_name, view_time) VALUES (?, ?, ?, ?)`
	result, err := hs.db.Exec(query, string(entry.ProductID), entry.PartNumber, entry.BrandName, formatTime(entry.ViewTime))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (hs *HistorySQLiteStore) List(options storage.HistoryListOptions) ([]models.HistoryEntry, error) {
	query := `SELECT id, product_id, part_number, brand_name, view_time FROM view_history ORDER BY view_time DESC, id DESC`
	if options.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", options.Limit)
	}

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var entry models.HistoryEntry
		var productID string
		var viewTime string
		if err := rows.Scan(&entry.ID, &productID, &entry.PartNumber, &entry.BrandName, &viewTime); err != nil {
			return nil, err
		}
		entry.ProductID = models.PartID(productID)
		if entry.ViewTime, err = tryParseTime(viewTime); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (hs *HistorySQLiteStore) Clear() error {
	_, err := hs.db.Exec(`DELETE FROM view_history`)
	return err
}
