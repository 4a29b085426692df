package stock_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"StockLookup/internal/stock"
)

const testSeed = 42

type testEnv struct {
	ts    *httptest.Server
	store *stock.Store
}

func newTestEnv(t *testing.T, deps stock.HTTPDeps) testEnv {
	t.Helper()

	store := stock.LoadStore(context.Background(), stock.NewGenerator(stock.DefaultGeneratorSize, testSeed), zap.NewNop())
	if store.Len() != stock.DefaultGeneratorSize {
		t.Fatalf("store len=%d", store.Len())
	}

	var m *stock.Metrics
	if deps.Registry != nil {
		m = stock.NewMetrics(deps.Registry)
	}

	s := &stock.Server{
		Service: stock.NewService(store, zap.NewNop(), m),
		Log:     zap.NewNop(),
	}

	deps.Log = zap.NewNop()
	deps.Service = "stock"

	ts := httptest.NewServer(stock.NewHandler(s, deps))
	t.Cleanup(ts.Close)

	return testEnv{ts: ts, store: store}
}

func get(t *testing.T, url string, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

type searchResp struct {
	Value []stock.Record `json:"value"`
	Count int            `json:"count"`
	Skip  int            `json:"skip"`
	Top   int            `json:"top"`
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode: %v body=%s", err, string(raw))
	}
	return v
}

func TestAPI_Root(t *testing.T) {
	env := newTestEnv(t, stock.HTTPDeps{})

	resp, raw := get(t, env.ts.URL+"/api/", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}

	body := decode[map[string]string](t, raw)
	if body["message"] != "EWM Warehouse Stock Lookup API" {
		t.Fatalf("message=%q", body["message"])
	}
}

func TestAPI_SearchByProduct(t *testing.T) {
	env := newTestEnv(t, stock.HTTPDeps{})

	want := 0
	for _, r := range env.store.Records() {
		if strings.HasPrefix(r.Product, "MAT") {
			want++
		}
	}

	resp, raw := get(t, env.ts.URL+"/api/stock?product=MAT&top=5&skip=0", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, string(raw))
	}

	got := decode[searchResp](t, raw)
	if got.Count != want {
		t.Fatalf("count=%d want=%d", got.Count, want)
	}
	if len(got.Value) != min(5, want) {
		t.Fatalf("len(value)=%d want=%d", len(got.Value), min(5, want))
	}
	if got.Skip != 0 || got.Top != 5 {
		t.Fatalf("skip=%d top=%d", got.Skip, got.Top)
	}
	for _, r := range got.Value {
		if !strings.HasPrefix(r.Product, "MAT") {
			t.Fatalf("unexpected product %q", r.Product)
		}
	}
}

func TestAPI_SearchDefaultsAndParams(t *testing.T) {
	env := newTestEnv(t, stock.HTTPDeps{})

	_, raw := get(t, env.ts.URL+"/api/stock", nil)
	all := decode[searchResp](t, raw)
	if all.Count != stock.DefaultGeneratorSize || len(all.Value) != stock.DefaultTop || all.Top != stock.DefaultTop {
		t.Fatalf("count=%d len=%d top=%d", all.Count, len(all.Value), all.Top)
	}

	wantF1 := len(stock.Filter(env.store.Records(), stock.Criteria{StockType: "F1"}))

	for _, q := range []string{"EWMStockType=F1", "EWMStockType=f1", "stockType=F1"} {
		_, raw := get(t, env.ts.URL+"/api/stock?top=100&"+q, nil)
		got := decode[searchResp](t, raw)
		if got.Count != wantF1 {
			t.Fatalf("%s: count=%d want=%d", q, got.Count, wantF1)
		}
		for _, r := range got.Value {
			if r.StockType != "F1" {
				t.Fatalf("%s: stock type %q", q, r.StockType)
			}
		}
	}

	_, raw = get(t, env.ts.URL+"/api/stock?EWMStockType=F", nil)
	if got := decode[searchResp](t, raw); got.Count != 0 {
		t.Fatalf("exact stock type match expected, count=%d", got.Count)
	}

	wantBatch := len(stock.Filter(env.store.Records(), stock.Criteria{Batch: "batch001", StorageBin: "bin-a"}))
	for _, q := range []string{"Batch=batch001&EWMStorageBin=bin-a", "batch=batch001&storageBin=bin-a"} {
		_, raw := get(t, env.ts.URL+"/api/stock?"+q, nil)
		if got := decode[searchResp](t, raw); got.Count != wantBatch {
			t.Fatalf("%s: count=%d want=%d", q, got.Count, wantBatch)
		}
	}
}

func TestAPI_SearchSkipBeyondTotal(t *testing.T) {
	env := newTestEnv(t, stock.HTTPDeps{})

	resp, raw := get(t, env.ts.URL+"/api/stock?skip=1000", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}

	got := decode[searchResp](t, raw)
	if got.Count != stock.DefaultGeneratorSize {
		t.Fatalf("count=%d", got.Count)
	}
	if got.Value == nil || len(got.Value) != 0 {
		t.Fatalf("value=%v, want empty list", got.Value)
	}
	if !strings.Contains(string(raw), `"value":[]`) {
		t.Fatalf("value not encoded as empty array: %s", string(raw))
	}
}

func TestAPI_SearchRejectsBadPagination(t *testing.T) {
	env := newTestEnv(t, stock.HTTPDeps{})

	for _, q := range []string{"top=0", "top=101", "skip=-1", "top=abc", "skip=1.5"} {
		resp, raw := get(t, env.ts.URL+"/api/stock?"+q, map[string]string{"X-Request-Id": "req-1"})
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Fatalf("%s: status=%d body=%s", q, resp.StatusCode, string(raw))
		}

		body := decode[map[string]any](t, raw)
		if body["error"] != "invalid pagination" {
			t.Fatalf("%s: error=%v", q, body["error"])
		}
		if body["request_id"] != "req-1" {
			t.Fatalf("%s: request_id=%v", q, body["request_id"])
		}
	}
}

func TestAPI_GetByID(t *testing.T) {
	env := newTestEnv(t, stock.HTTPDeps{})
	want := env.store.Records()[17]

	resp, raw := get(t, env.ts.URL+"/api/stock/"+want.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if got := decode[stock.Record](t, raw); got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}

	for _, field := range []string{`"id"`, `"Product"`, `"EWMWarehouse"`, `"EWMStockType"`, `"EWMStorageBin"`,
		`"EWMStockQuantityInBaseUnit"`, `"EWMStockQuantityBaseUnit"`, `"HandlingUnitNumber"`, `"EWMStockOwner"`} {
		if !strings.Contains(string(raw), field) {
			t.Fatalf("missing field %s in %s", field, string(raw))
		}
	}
}

func TestAPI_GetUnknownID(t *testing.T) {
	env := newTestEnv(t, stock.HTTPDeps{})

	resp, raw := get(t, env.ts.URL+"/api/stock/does-not-exist", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d", resp.StatusCode)
	}

	body := decode[map[string]any](t, raw)
	if body["error"] != "stock record not found" {
		t.Fatalf("error=%v", body["error"])
	}
	if _, ok := body["Product"]; ok {
		t.Fatalf("partial record returned: %s", string(raw))
	}
}

func TestAPI_Metadata(t *testing.T) {
	env := newTestEnv(t, stock.HTTPDeps{})

	resp, raw := get(t, env.ts.URL+"/api/metadata", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}

	got := decode[stock.Metadata](t, raw)
	if got.TotalRecords != stock.DefaultGeneratorSize {
		t.Fatalf("totalRecords=%d", got.TotalRecords)
	}
	if len(got.Warehouses) == 0 || len(got.Warehouses) > 3 {
		t.Fatalf("warehouses=%v", got.Warehouses)
	}
	for i := 1; i < len(got.StorageBins); i++ {
		if got.StorageBins[i-1] >= got.StorageBins[i] {
			t.Fatalf("storage bins not strictly ascending: %v", got.StorageBins)
		}
	}
}

func TestAPI_CORS(t *testing.T) {
	env := newTestEnv(t, stock.HTTPDeps{CORSOrigins: []string{"http://allowed.example"}})

	resp, _ := get(t, env.ts.URL+"/api/stock", map[string]string{"Origin": "http://allowed.example"})
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://allowed.example" {
		t.Fatalf("allow-origin=%q", got)
	}

	resp, _ = get(t, env.ts.URL+"/api/stock", map[string]string{"Origin": "http://other.example"})
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("allow-origin=%q for foreign origin", got)
	}
}

func TestAPI_MetricsRequiresToken(t *testing.T) {
	env := newTestEnv(t, stock.HTTPDeps{
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: true,
		MetricsToken:   "secret",
	})

	get(t, env.ts.URL+"/api/stock?product=MAT", nil)

	resp, _ := get(t, env.ts.URL+"/metrics", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status=%d", resp.StatusCode)
	}

	resp, raw := get(t, env.ts.URL+"/metrics", map[string]string{"Authorization": "Bearer secret"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	for _, want := range []string{"stock_store_records 150", "stock_searches_total 1", "http_requests_total"} {
		if !strings.Contains(string(raw), want) {
			t.Fatalf("metrics missing %q", want)
		}
	}
}

func TestAPI_RateLimit(t *testing.T) {
	env := newTestEnv(t, stock.HTTPDeps{RateLimitPerMin: 2})

	for i := 0; i < 2; i++ {
		if resp, _ := get(t, env.ts.URL+"/api/metadata", nil); resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d status=%d", i, resp.StatusCode)
		}
	}

	resp, _ := get(t, env.ts.URL+"/api/metadata", nil)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Fatalf("missing Retry-After")
	}

	if resp, _ := get(t, env.ts.URL+"/healthz", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz limited: status=%d", resp.StatusCode)
	}
}

func TestAPI_Readyz(t *testing.T) {
	env := newTestEnv(t, stock.HTTPDeps{})

	resp, raw := get(t, env.ts.URL+"/readyz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if body := decode[map[string]any](t, raw); body["records"] != float64(stock.DefaultGeneratorSize) {
		t.Fatalf("records=%v", body["records"])
	}
}

func TestAPI_RateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	env := newTestEnv(t, stock.HTTPDeps{RateLimitPerMin: 2})

	codes := make([]int, 0, 4)
	for _, xff := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3", "203.0.113.4"} {
		resp, _ := get(t, env.ts.URL+"/api/metadata", map[string]string{"X-Forwarded-For": xff})
		codes = append(codes, resp.StatusCode)
	}

	if codes[2] != http.StatusTooManyRequests || codes[3] != http.StatusTooManyRequests {
		t.Fatalf("statuses=%v, rotating X-Forwarded-For bypassed the limit", codes)
	}
}

func TestAPI_RateLimitTrustProxy(t *testing.T) {
	env := newTestEnv(t, stock.HTTPDeps{RateLimitPerMin: 1, TrustProxy: true})

	for _, xff := range []string{"203.0.113.1", "203.0.113.2"} {
		resp, _ := get(t, env.ts.URL+"/api/metadata", map[string]string{"X-Forwarded-For": xff})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("client %s status=%d", xff, resp.StatusCode)
		}
	}

	resp, _ := get(t, env.ts.URL+"/api/metadata", map[string]string{"X-Forwarded-For": "203.0.113.1"})
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("repeat client status=%d", resp.StatusCode)
	}
}

func TestAPI_MetricsUnmatchedPathLabel(t *testing.T) {
	env := newTestEnv(t, stock.HTTPDeps{
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: true,
		MetricsToken:   "secret",
	})

	get(t, env.ts.URL+"/no/such/path-12345", nil)

	_, raw := get(t, env.ts.URL+"/metrics", map[string]string{"Authorization": "Bearer secret"})
	body := string(raw)
	if strings.Contains(body, "path-12345") {
		t.Fatalf("raw path leaked into metric labels")
	}
	if !strings.Contains(body, `path="unmatched"`) {
		t.Fatalf("metrics missing unmatched route label")
	}
}
