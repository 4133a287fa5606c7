package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// PartID identifies a product. The catalog sends it either as a JSON
// number or a JSON string; both decode to the same textual form.
type PartID string

func (id *PartID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = PartID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("part id: %w", err)
	}
	*id = PartID(n.String())
	return nil
}

func (id PartID) String() string {
	return string(id)
}

// Suggestion is one autocomplete candidate, in the order the catalog
// returned it.
type Suggestion struct {
	ID    PartID `json:"part_id"`
	Label string `json:"partNumber"`
}

// Product is the detail record of a selected suggestion.
type Product struct {
	ID                  PartID `json:"-"`
	PartNumber          string `json:"partNumber"`
	BrandName           string `json:"BrandName"`
	PartTerminologyName string `json:"PartTerminologyName"`
	CategoryName        string `json:"categoryName"`
	SubCategoryName     string `json:"SubCategoryName"`
	ImageRef            string `json:"fileName"`
}

type HistoryEntry struct {
	ID         int64     `json:"id"`
	ProductID  PartID    `json:"product_id"`
	PartNumber string    `json:"part_number"`
	BrandName  string    `json:"brand_name"`
	ViewTime   time.Time `json:"view_time"`
}

// Config is persisted in config.toml. Durations are milliseconds.
type Config struct {
	APIBaseURL    string `toml:"api_base_url,omitempty"`
	AssetBaseURL  string `toml:"asset_base_url,omitempty"`
	History       string `toml:"history,omitempty"`
	DebounceMs    int    `toml:"debounce_ms,omitempty"`
	BlurDelayMs   int    `toml:"blur_delay_ms,omitempty"`
	TimeoutMs     int    `toml:"timeout_ms,omitempty"`
	DisableImages bool   `toml:"disable_images,omitempty"`
	RunningPID    int    `toml:"running_pid,omitempty"`
}

type InputState struct {
	Value          string
	Focused        bool
	CursorPosition int
}

func (s *InputState) Reset() {
	s.Value = ""
	s.CursorPosition = 0
}
