// Package lookup holds the thin clients for the external data providers:
// apartment sale-price records and address geocoding. Both are stateless
// pass-through calls (HTTP request in, DTO out) made on behalf of an already
// authenticated caller.
package lookup

import (
	"errors"
	"net/http"
	"time"
)

// ErrUpstream reports that the external provider answered with a non-2xx
// status or an undecodable body. It is not an authentication failure.
var ErrUpstream = errors.New("lookup: upstream request failed")

const defaultTimeout = 10 * time.Second

func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}
