package stock

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"StockLookup/pkg/kit"
)

const rootMessage = "EWM Warehouse Stock Lookup API"

type Server struct {
	Service *Service
	Log     *zap.Logger
}

// Routes serves the /api surface; NewHandler mounts it.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.root)
	r.Get("/stock", s.search)
	r.Get("/stock/{id}", s.get)
	r.Get("/metadata", s.metadata)

	return r
}

func (s *Server) root(w http.ResponseWriter, _ *http.Request) {
	kit.WriteJSON(w, http.StatusOK, map[string]string{"message": rootMessage})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var res SearchResult
	page, err := pageFromQuery(q)
	if err == nil {
		res, err = s.Service.Search(r.Context(), criteriaFromQuery(q), page)
	}
	if errors.Is(err, ErrInvalidPage) {
		kit.WriteError(w, r, http.StatusUnprocessableEntity, "invalid pagination", map[string]any{
			"skip":  "integer >= 0",
			"top":   "integer between 1 and " + strconv.Itoa(MaxTop),
			"cause": err.Error(),
		})
		return
	}
	if err != nil {
		if s.Log != nil {
			s.Log.Error("stock search failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, res)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := s.Service.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		kit.WriteError(w, r, http.StatusNotFound, "stock record not found", map[string]any{"id": id})
		return
	}
	if err != nil {
		if s.Log != nil {
			s.Log.Error("get stock record failed", zap.Error(err), zap.String("id", id))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, rec)
}

func (s *Server) metadata(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, s.Service.Metadata(r.Context()))
}

// Query parameter names follow the EWM API; the lower-case aliases are what
// browser clients tend to send.
var (
	paramProduct      = []string{"product", "Product"}
	paramStockType    = []string{"EWMStockType", "stockType"}
	paramBatch        = []string{"Batch", "batch"}
	paramHandlingUnit = []string{"HandlingUnitNumber", "handlingUnit"}
	paramStorageBin   = []string{"EWMStorageBin", "storageBin"}
)

func criteriaFromQuery(q url.Values) Criteria {
	return Criteria{
		Product:      firstParam(q, paramProduct),
		StockType:    firstParam(q, paramStockType),
		Batch:        firstParam(q, paramBatch),
		HandlingUnit: firstParam(q, paramHandlingUnit),
		StorageBin:   firstParam(q, paramStorageBin),
	}
}

func firstParam(q url.Values, names []string) string {
	for _, n := range names {
		if v := q.Get(n); v != "" {
			return v
		}
	}
	return ""
}

func pageFromQuery(q url.Values) (PageRequest, error) {
	p := DefaultPage()

	var err error
	if v := q.Get("skip"); v != "" {
		if p.Skip, err = strconv.Atoi(v); err != nil {
			return PageRequest{}, fmt.Errorf("%w: skip %q is not an integer", ErrInvalidPage, v)
		}
	}
	if v := q.Get("top"); v != "" {
		if p.Top, err = strconv.Atoi(v); err != nil {
			return PageRequest{}, fmt.Errorf("%w: top %q is not an integer", ErrInvalidPage, v)
		}
	}
	return p, nil
}
