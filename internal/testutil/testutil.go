// Package testutil provides testing utilities for nexus tests.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// RecordedRequest is what LookupServer saw of one request.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
}

// LookupServer is an httptest server standing in for the lookup service.
// It records every request before delegating to its handler.
type LookupServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
	handler  http.Handler
}

// NewLookupServer starts a server answering with h. The server is closed
// when the test completes.
func NewLookupServer(t *testing.T, h http.Handler) *LookupServer {
	t.Helper()

	s := &LookupServer{handler: h}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *LookupServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
	})
	s.mu.Unlock()

	s.handler.ServeHTTP(w, r)
}

// Requests returns a copy of the requests received so far.
func (s *LookupServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns the number of requests received so far.
func (s *LookupServer) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Respond returns a handler writing status and body as JSON.
func Respond(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = fmt.Fprint(w, body)
	})
}

// Records holds fixture rows keyed by UF, used by Directory.
var Records = map[string]string{
	"SP": `{"estado":"SP","regiao":"Sudeste","vl_uf":1234.5,"vl_regiao":987.654,"vl_brasil":800,"dt_competencia":"2024-01","dt_atualizacao":"2024-02-10T12:00:00Z"}`,
	"RJ": `{"estado":"RJ","regiao":"Sudeste","vl_uf":1100,"vl_regiao":987.654,"vl_brasil":800,"dt_competencia":"2024-01","dt_atualizacao":"2024-02-10T12:00:00Z"}`,
	"AM": `{"estado":"AM","regiao":"Norte","vl_uf":0.005,"vl_regiao":12,"vl_brasil":800,"dt_competencia":"2024-01","dt_atualizacao":"2024-02-10T12:00:00Z"}`,
}

// FoundBody is the success envelope around a fixture row.
func FoundBody(record string) string {
	return `{"status":"success","data":` + record + `}`
}

// NotFoundBody is the not_found envelope echoing uf.
func NotFoundBody(uf string) string {
	return fmt.Sprintf(`{"status":"not_found","uf":%q}`, uf)
}

// Directory returns a handler that serves Records by the estado query
// parameter and answers not_found for anything else.
func Directory() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uf := r.URL.Query().Get("estado")
		w.Header().Set("Content-Type", "application/json")
		if rec, ok := Records[uf]; ok {
			_, _ = fmt.Fprint(w, FoundBody(rec))
			return
		}
		_, _ = fmt.Fprint(w, NotFoundBody(uf))
	})
}
