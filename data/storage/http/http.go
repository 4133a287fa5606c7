package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xhd2015/partsearch/data/storage"
	"github.com/xhd2015/partsearch/models"
)

const DefaultTimeout = 10 * time.Second

// bodies larger than this are rejected as malformed
const maxBodySize = 4 << 20

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// getJSON issues a GET and decodes the JSON body into respData,
// classifying failures into storage.FetchError kinds.
func (c *Client) getJSON(ctx context.Context, op string, reqURL string, respData any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &storage.FetchError{Kind: storage.ErrNetwork, Op: op, URL: reqURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &storage.FetchError{Kind: storage.ErrNetwork, Op: op, URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return &storage.FetchError{Kind: storage.ErrStatus, Op: op, URL: reqURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return &storage.FetchError{Kind: storage.ErrNetwork, Op: op, URL: reqURL, Err: err}
	}
	if len(body) > maxBodySize {
		return &storage.FetchError{Kind: storage.ErrMalformed, Op: op, URL: reqURL, Err: fmt.Errorf("body exceeds %d bytes", maxBodySize)}
	}
	if err := json.Unmarshal(body, respData); err != nil {
		return &storage.FetchError{Kind: storage.ErrMalformed, Op: op, URL: reqURL, Err: err}
	}
	return nil
}

// CatalogHttpService implements storage.CatalogService
type CatalogHttpService struct {
	client *Client
}

func NewCatalogService(client *Client) storage.CatalogService {
	return &CatalogHttpService{client: client}
}

func (s *CatalogHttpService) Suggestions(ctx context.Context, query string) ([]models.Suggestion, error) {
	reqURL := s.client.baseURL + "/suggestions?q=" + url.QueryEscape(query)

	var suggestions []models.Suggestion
	err := s.client.getJSON(ctx, "suggestions", reqURL, &suggestions)
	if err != nil {
		return nil, err
	}
	if suggestions == nil {
		// a literal null is not a list
		return nil, &storage.FetchError{Kind: storage.ErrMalformed, Op: "suggestions", URL: reqURL, Err: fmt.Errorf("expected array")}
	}
	return suggestions, nil
}

func (s *CatalogHttpService) Product(ctx context.Context, id models.PartID) (*models.Product, error) {
	reqURL := s.client.baseURL + "/product/" + url.PathEscape(id.String())

	var product *models.Product
	err := s.client.getJSON(ctx, "product", reqURL, &product)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &storage.FetchError{Kind: storage.ErrMalformed, Op: "product", URL: reqURL, Err: fmt.Errorf("expected object")}
	}
	product.ID = id
	return product, nil
}
