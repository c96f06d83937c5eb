package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hanriver/zipview/internal/lookup"
	"github.com/stretchr/testify/require"
)

func newLookupRouter(t *testing.T) *Router {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/trades":
			_, _ = w.Write([]byte(`{"items":[{"complex_name":"Hangang Apartments","dong":"Apgujeong-dong","price_won":2450000000,"area_sqm":84.9,"floor":12,"dealt_at":"2024-01-15"}]}`))
		case "/geocode":
			_, _ = w.Write([]byte(`{"address":"110 Sejong-daero","latitude":37.5663,"longitude":126.9779}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(upstream.Close)

	router, st := newTestRouter(t, func(r *Router) {
		r.TradeClient = lookup.NewTradeClient(upstream.URL, "")
		r.GeocodeClient = lookup.NewGeocodeClient(upstream.URL, "")
	})
	seedTestUser(t, st, "alice")
	return router
}

func getWithBearer(router *Router, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestTradesRoute(t *testing.T) {
	router := newLookupRouter(t)
	pair := loginFor(t, router, "alice")

	t.Run("requires a bearer token", func(t *testing.T) {
		rec := getWithBearer(router, "/v1/trades?region=11680&yearMonth=202401", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("rejects a refresh token", func(t *testing.T) {
		rec := getWithBearer(router, "/v1/trades?region=11680&yearMonth=202401", pair.RefreshToken)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("proxies with a valid access token", func(t *testing.T) {
		rec := getWithBearer(router, "/v1/trades?region=11680&yearMonth=202401", pair.AccessToken)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Hangang Apartments")
	})

	t.Run("missing query params", func(t *testing.T) {
		rec := getWithBearer(router, "/v1/trades?region=11680", pair.AccessToken)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGeocodeRoute(t *testing.T) {
	router := newLookupRouter(t)
	pair := loginFor(t, router, "alice")

	t.Run("proxies with a valid access token", func(t *testing.T) {
		rec := getWithBearer(router, "/v1/geocode?address=Seoul+City+Hall", pair.AccessToken)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "37.5663")
	})

	t.Run("missing address", func(t *testing.T) {
		rec := getWithBearer(router, "/v1/geocode", pair.AccessToken)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("upstream outage maps to 502", func(t *testing.T) {
		down, st := newTestRouter(t, func(r *Router) {
			r.GeocodeClient = lookup.NewGeocodeClient("http://127.0.0.1:1", "")
			r.TradeClient = lookup.NewTradeClient("http://127.0.0.1:1", "")
		})
		seedTestUser(t, st, "alice")
		downPair := loginFor(t, down, "alice")

		rec := getWithBearer(down, "/v1/geocode?address=anywhere", downPair.AccessToken)
		require.Equal(t, http.StatusBadGateway, rec.Code)
	})
}
