// Package apiclient talks to the SAEP inventory API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/saep/inventory-console/internal/catalog"
	"github.com/saep/inventory-console/internal/observability"
)

// Payload is the flat JSON object sent on create and update.
type Payload map[string]any

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("apiclient: %s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("apiclient: %s %s: status %d", e.Method, e.Path, e.Status)
}

// UserMessage returns the backend's own message, when it sent one.
func (e *StatusError) UserMessage() string {
	return e.Message
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound
}

// Client wraps the list and write endpoints of the inventory API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
}

// NewClient constructs a client for baseURL. A nil httpClient uses a client
// without timeout; callers bound requests through the context.
func NewClient(baseURL string, httpClient *http.Client, metrics *observability.Metrics) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		metrics:    metrics,
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListProducts fetches every product.
func (c *Client) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	return list[catalog.Product](ctx, c, Products)
}

// ListCategories fetches every category.
func (c *Client) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return list[catalog.Category](ctx, c, Categories)
}

// ListManufacturers fetches every manufacturer.
func (c *Client) ListManufacturers(ctx context.Context) ([]catalog.Manufacturer, error) {
	return list[catalog.Manufacturer](ctx, c, Manufacturers)
}

// ListStock fetches every stock record.
func (c *Client) ListStock(ctx context.Context) ([]catalog.StockRecord, error) {
	return list[catalog.StockRecord](ctx, c, Stock)
}

// SpecSheetsByProduct fetches the spec sheet entries of one product.
func (c *Client) SpecSheetsByProduct(ctx context.Context, productID catalog.ID) ([]catalog.SpecSheetEntry, error) {
	body, err := c.do(ctx, SpecSheets, http.MethodGet, "/ficha-tecnica/produto/"+productID.String(), nil)
	if err != nil {
		return nil, err
	}
	entries, err := decodeList[catalog.SpecSheetEntry](body, SpecSheets.Alias)
	if err != nil {
		return nil, fmt.Errorf("apiclient: spec sheets of product %d: %w", productID, err)
	}
	return entries, nil
}

// SpecSheet fetches a single spec sheet entry by id.
func (c *Client) SpecSheet(ctx context.Context, id catalog.ID) (catalog.SpecSheetEntry, error) {
	body, err := c.do(ctx, SpecSheets, http.MethodGet, SpecSheets.ItemPath(id), nil)
	if err != nil {
		return catalog.SpecSheetEntry{}, err
	}
	entry, err := decodeOne[catalog.SpecSheetEntry](body)
	if err != nil {
		return catalog.SpecSheetEntry{}, fmt.Errorf("apiclient: spec sheet %d: %w", id, err)
	}
	return entry, nil
}

// Create POSTs payload and returns the identity the API assigned, or zero
// when the response does not carry one.
func (c *Client) Create(ctx context.Context, res Resource, payload Payload) (catalog.ID, error) {
	body, err := c.do(ctx, res, http.MethodPost, res.ItemPath(0), payload)
	if err != nil {
		return 0, err
	}
	created, err := decodeOne[struct {
		ID catalog.ID `json:"id"`
	}](body)
	if err != nil {
		return 0, nil
	}
	return created.ID, nil
}

// Update PUTs payload to the entity path.
func (c *Client) Update(ctx context.Context, res Resource, id catalog.ID, payload Payload) error {
	if id == 0 {
		return fmt.Errorf("apiclient: update %s: missing id", res.Name)
	}
	_, err := c.do(ctx, res, http.MethodPut, res.ItemPath(id), payload)
	return err
}

// Delete removes the entity.
func (c *Client) Delete(ctx context.Context, res Resource, id catalog.ID) error {
	if id == 0 {
		return fmt.Errorf("apiclient: delete %s: missing id", res.Name)
	}
	_, err := c.do(ctx, res, http.MethodDelete, res.ItemPath(id), nil)
	return err
}

func list[T any](ctx context.Context, c *Client, res Resource) ([]T, error) {
	body, err := c.do(ctx, res, http.MethodGet, res.ListPath, nil)
	if err != nil {
		return nil, err
	}
	rows, err := decodeList[T](body, res.Alias)
	if err != nil {
		return nil, fmt.Errorf("apiclient: list %s: %w", res.ListPath, err)
	}
	return rows, nil
}

func (c *Client) do(ctx context.Context, res Resource, method, path string, payload Payload) (body []byte, err error) {
	start := time.Now()
	defer func() {
		c.metrics.ObserveAPICall(res.Name, method, err, time.Since(start))
	}()

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("apiclient: encode %s payload: %w", res.Name, err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: %s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Method: method, Path: path, Status: resp.StatusCode, Message: errorMessage(body)}
	}
	return body, nil
}
