package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/joshjon/kit/log"
	"github.com/joshjon/kit/server"
	"github.com/joshjon/kit/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ospoc/ospoc/constants"
	"github.com/ospoc/ospoc/order"
	"github.com/ospoc/ospoc/provision"
	"github.com/ospoc/ospoc/sqlite"
)

const (
	testTimeout = 5 * time.Second
	testToken   = "Bearer test-token"
)

// platformStub records namespace requests sent by the provisioning client
// and answers with a configurable status.
type platformStub struct {
	mu       sync.Mutex
	status   int
	requests []provision.NamespaceRequest
	auth     []string
}

func (p *platformStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var req provision.NamespaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	p.requests = append(p.requests, req)
	p.auth = append(p.auth, r.Header.Get("Authorization"))

	w.WriteHeader(p.status)
	_, _ = w.Write([]byte(`{"kind":"Project"}`))
}

func (p *platformStub) setStatus(status int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = status
}

func (p *platformStub) Requests() []provision.NamespaceRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]provision.NamespaceRequest(nil), p.requests...)
}

type HTTPHandlerTestFixture struct {
	Server   *server.Server
	Store    *order.Store
	Platform *platformStub
	t        *testing.T
}

func NewHTTPHandlerTestFixture(t *testing.T) *HTTPHandlerTestFixture {
	t.Helper()

	platform := &platformStub{status: http.StatusCreated}
	platformSrv := httptest.NewServer(platform)
	t.Cleanup(platformSrv.Close)

	client, err := provision.NewClient(provision.Config{URL: platformSrv.URL, Token: testToken})
	require.NoError(t, err)

	logger := log.NewLogger(log.WithDevelopment())
	store := sqlite.NewTestOrderStore(t)
	svc := order.NewService(store, client, order.WithLogger(logger))

	srv, err := server.NewServer(testutil.GetFreePort(t),
		server.WithLogger(logger),
		server.WithRequestTimeout(testTimeout),
	)
	require.NoError(t, err)
	srv.Register(constants.APIPathPrefix, NewHTTPHandler(svc))

	go srv.Start()
	err = srv.WaitHealthy(10, time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() {
		srv.Stop(context.Background()) //nolint:errcheck
	})

	return &HTTPHandlerTestFixture{
		Server:   srv,
		Store:    store,
		Platform: platform,
		t:        t,
	}
}

func (f *HTTPHandlerTestFixture) OrdersURL() string {
	return f.Server.Address() + constants.APIPathPrefix + "/orders"
}

func (f *HTTPHandlerTestFixture) OrderURL(id string) string {
	return f.OrdersURL() + "/" + id
}

func (f *HTTPHandlerTestFixture) AddOrder(ctx context.Context, fields order.Fields) *order.Order {
	o := order.NewOrder(fields)
	require.NoError(f.t, f.Store.CreateOrder(ctx, o))
	return o
}

// Do sends a request with an optional JSON body and returns the response
// status and raw body.
func (f *HTTPHandlerTestFixture) Do(method string, url string, body any) (int, []byte) {
	f.t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(f.t, err)
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(f.t.Context(), method, url, r)
	require.NoError(f.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	require.NoError(f.t, err)
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	require.NoError(f.t, err)
	return res.StatusCode, resBody
}

// DoJSON is like Do but asserts the status and decodes the response data.
func DoJSON[T any](f *HTTPHandlerTestFixture, method string, url string, body any, wantStatus int) T {
	f.t.Helper()
	status, resBody := f.Do(method, url, body)
	require.Equal(f.t, wantStatus, status, strings.TrimSpace(string(resBody)))

	var res server.Response[T]
	require.NoError(f.t, json.Unmarshal(resBody, &res))
	return res.Data
}

func assertStatus(t *testing.T, want int, got int, body []byte) {
	t.Helper()
	assert.Equal(t, want, got, strings.TrimSpace(string(body)))
}
