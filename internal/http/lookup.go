package http

import (
	"net/http"

	"github.com/hanriver/zipview/internal/lookup"
	"github.com/hanriver/zipview/pkg/httpx"
	"github.com/hanriver/zipview/pkg/slogx"
)

// TradesHandler proxies GET /v1/trades to the apartment sale-price provider.
// The route is bearer-protected; by the time this runs the access token has
// already been verified.
type TradesHandler struct {
	Client *lookup.TradeClient
}

func (h *TradesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	region := r.URL.Query().Get("region")
	yearMonth := r.URL.Query().Get("yearMonth")
	if region == "" || yearMonth == "" {
		errMissingFields.WriteError(w)
		return
	}

	trades, err := h.Client.Query(ctx, lookup.TradeQuery{
		RegionCode: region,
		YearMonth:  yearMonth,
	})
	if err != nil {
		log.Error("trade lookup failed", "err", err)
		errUpstreamFailed.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": trades})
}

// GeocodeHandler proxies GET /v1/geocode to the geocoding provider.
type GeocodeHandler struct {
	Client *lookup.GeocodeClient
}

func (h *GeocodeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	address := r.URL.Query().Get("address")
	if address == "" {
		errMissingFields.WriteError(w)
		return
	}

	coords, err := h.Client.Query(ctx, address)
	if err != nil {
		log.Error("geocode lookup failed", "err", err)
		errUpstreamFailed.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, coords)
}
