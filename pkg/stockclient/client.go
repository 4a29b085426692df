package stockclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"StockLookup/internal/stock"
)

var (
	ErrNotFound    = errors.New("stock record not found")
	ErrBadRequest  = errors.New("stock request rejected")
	ErrBadStatus   = errors.New("stock api bad status")
	ErrUnavailable = errors.New("stock api unavailable")
)

// Query mirrors the /api/stock parameters. Zero Top leaves the server
// default in place.
type Query struct {
	Product      string
	StockType    string
	Batch        string
	HandlingUnit string
	StorageBin   string
	Skip         int
	Top          int
}

func (q Query) values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("product", q.Product)
	set("EWMStockType", q.StockType)
	set("Batch", q.Batch)
	set("HandlingUnitNumber", q.HandlingUnit)
	set("EWMStorageBin", q.StorageBin)
	if q.Skip != 0 {
		v.Set("skip", strconv.Itoa(q.Skip))
	}
	if q.Top != 0 {
		v.Set("top", strconv.Itoa(q.Top))
	}
	return v
}

type Client struct {
	BaseURL string
	Client  *http.Client
}

func New(baseURL string) *Client {
	if u, err := url.Parse(baseURL); err == nil && u.Scheme != "" && u.Host != "" {
		baseURL = strings.TrimRight(baseURL, "/")
	}
	return &Client{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 3 * time.Second},
	}
}

func (c *Client) Search(ctx context.Context, q Query) (stock.SearchResult, error) {
	var out stock.SearchResult
	err := c.getJSON(ctx, "/api/stock?"+q.values().Encode(), &out)
	return out, err
}

func (c *Client) Get(ctx context.Context, id string) (stock.Record, error) {
	var out stock.Record
	err := c.getJSON(ctx, "/api/stock/"+url.PathEscape(id), &out)
	return out, err
}

func (c *Client) Metadata(ctx context.Context) (stock.Metadata, error) {
	var out stock.Metadata
	err := c.getJSON(ctx, "/api/metadata", &out)
	return out, err
}

// Ready reports whether /readyz answers 200.
func (c *Client) Ready(ctx context.Context) error {
	var out map[string]any
	return c.getJSON(ctx, "/readyz", &out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		var ne net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
			return fmt.Errorf("%w: timeout", ErrUnavailable)
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrNotFound
	case http.StatusUnprocessableEntity:
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrBadRequest
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status=%d", ErrBadStatus, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
