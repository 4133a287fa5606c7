package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/xhd2015/partsearch/models"
)

// CatalogService is the remote product catalog.
type CatalogService interface {
	Suggestions(ctx context.Context, query string) ([]models.Suggestion, error)
	Product(ctx context.Context, id models.PartID) (*models.Product, error)
}

type HistoryListOptions struct {
	Limit int
}

// HistoryService records which products were viewed, newest first.
type HistoryService interface {
	Add(entry models.HistoryEntry) (int64, error)
	List(options HistoryListOptions) ([]models.HistoryEntry, error)
	Clear() error
	Close() error
}

var (
	ErrNetwork   = errors.New("network error")
	ErrStatus    = errors.New("unexpected status")
	ErrMalformed = errors.New("malformed payload")
)

// FetchError classifies a failed catalog request. Kind is one of
// ErrNetwork, ErrStatus or ErrMalformed.
type FetchError struct {
	Kind       error
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: %v: %d", e.Op, e.URL, e.Kind, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v: %v", e.Op, e.URL, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Kind)
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindName returns a short label for err's classification, or "" when err
// is not a FetchError.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrStatus):
		return "status"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	}
	return ""
}
