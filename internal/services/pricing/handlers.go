package pricing

import (
	"net/http"
	"strings"

	apperrors "github.com/officialpathway/pathwei-website/internal/platform/errors"
	"github.com/officialpathway/pathwei-website/internal/platform/httpx"
)

// Route paths served by Handlers.
const (
	PathPrice      = "/api/ab/price"
	PathClick      = "/api/ab/click"
	PathConversion = "/api/ab/conversion"
	PathStats      = "/api/ab/stats"
)

// Handlers exposes the experiment over HTTP.
type Handlers struct {
	experiment *Experiment
	stats      *StatsStore
}

// NewHandlers builds the tracking handlers.
func NewHandlers(experiment *Experiment, stats *StatsStore) *Handlers {
	return &Handlers{experiment: experiment, stats: stats}
}

// RegisterPublic mounts the visitor-facing tracking routes.
func (h *Handlers) RegisterPublic(mux *http.ServeMux) {
	mux.HandleFunc("GET "+PathPrice, h.servePrice)
	mux.HandleFunc("POST "+PathClick, h.serveEvent(EventClick))
	mux.HandleFunc("POST "+PathConversion, h.serveEvent(EventConversion))
}

// ServeStats writes the experiment report as JSON. It is mounted behind
// authentication by the back-office.
func (h *Handlers) ServeStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Snapshot(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"stats":  stats,
		"report": BuildReport(stats),
	})
}

type priceResponse struct {
	Price string `json:"price"`
}

type eventRequest struct {
	Price string `json:"price"`
}

type eventResponse struct {
	Price       string `json:"price"`
	Clicks      int64  `json:"clicks"`
	Conversions int64  `json:"conversions"`
}

func (h *Handlers) servePrice(w http.ResponseWriter, r *http.Request) {
	price, ok := PriceFromContext(r.Context())
	if !ok {
		var isNew bool
		price, isNew = h.experiment.Assign(r)
		if isNew {
			h.experiment.SetCookie(w, r, price)
		}
	}
	_ = httpx.WriteJSON(w, http.StatusOK, priceResponse{Price: price})
}

func (h *Handlers) serveEvent(event Event) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		price, err := h.eventPrice(r)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		stat, err := h.stats.Record(r.Context(), price, event)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		_ = httpx.WriteJSON(w, http.StatusOK, eventResponse{
			Price:       price,
			Clicks:      stat.Clicks,
			Conversions: stat.Conversions,
		})
	}
}

// eventPrice resolves the price a tracking call refers to: the pinned
// cookie first, then an explicit body value. A price drawn for this request
// alone was never shown to the visitor and is not counted.
func (h *Handlers) eventPrice(r *http.Request) (string, error) {
	if price, ok := h.experiment.Assigned(r); ok {
		return price, nil
	}
	if r.ContentLength != 0 && httpx.IsJSONRequest(r) {
		var body eventRequest
		if err := httpx.DecodeJSON(r, &body); err != nil {
			return "", err
		}
		if price := strings.TrimSpace(body.Price); price != "" {
			return price, nil
		}
	}
	return "", apperrors.New(apperrors.CodePriceUnknown, "no price assigned to this visitor")
}
