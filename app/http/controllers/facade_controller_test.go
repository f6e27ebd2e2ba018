package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-facade/app/providers"
	"github.com/km-arc/go-facade/app/services"
	"github.com/km-arc/go-facade/framework/container"
	"github.com/km-arc/go-facade/framework/facade"
	"github.com/km-arc/go-facade/framework/routing"
)

type harness struct {
	c      *container.Container
	reg    *facade.Registry
	router *routing.Router
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	c := container.New()
	logger := zerolog.Nop()
	router := routing.New(logger)
	c.Instance("logger", &logger)
	c.Instance("router", router)

	reg := facade.NewRegistry(facade.ContainerOf(c))
	reg.RegisterServiceType(facade.KeyOf[*services.Store]())
	reg.RegisterServiceType(providers.TicketKey)

	pr := container.NewProviderRegistry(c)
	pr.Register(&providers.AppServiceProvider{})
	pr.Register(&providers.InspectionServiceProvider{Registry: reg})
	pr.Boot()
	return &harness{c: c, reg: reg, router: router}
}

func (h *harness) do(t *testing.T, method, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	var body map[string]any
	if rr.Body.Len() > 0 && rr.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	}
	return rr, body
}

func storePath(suffix string) string {
	return "/facades/" + url.PathEscape(string(facade.KeyOf[*services.Store]())) + suffix
}

func TestIndex_ListsRegisteredKeys(t *testing.T) {
	h := newHarness(t)

	rr, body := h.do(t, http.MethodGet, "/facades")
	require.Equal(t, http.StatusOK, rr.Code)
	list, ok := body["facades"].([]any)
	require.True(t, ok)
	assert.Len(t, list, 2)
}

func TestIndex_PhaseFilter(t *testing.T) {
	h := newHarness(t)
	_, err := h.reg.GetInstance(facade.KeyOf[*services.Store]())
	require.NoError(t, err)

	_, body := h.do(t, http.MethodGet, "/facades?phase=cached")
	list := body["facades"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, string(facade.KeyOf[*services.Store]()), list[0].(map[string]any)["key"])
}

func TestIndex_YAML(t *testing.T) {
	h := newHarness(t)

	rr, _ := h.do(t, http.MethodGet, "/facades?format=yaml")
	assert.Equal(t, "application/yaml", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "phase: uninitialized")
}

func TestShow(t *testing.T) {
	h := newHarness(t)

	rr, body := h.do(t, http.MethodGet, storePath(""))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "uninitialized", body["phase"])

	rr, _ = h.do(t, http.MethodGet, "/facades/unknown")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestResolveThenRelease(t *testing.T) {
	h := newHarness(t)

	rr, body := h.do(t, http.MethodPost, storePath("/resolve"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*services.Store", body["type"])
	assert.Equal(t, "cached", body["state"].(map[string]any)["phase"])

	rr, body = h.do(t, http.MethodPost, storePath("/release"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "uncached", body["phase"])
	assert.Equal(t, true, body["released"])

	rr, _ = h.do(t, http.MethodPost, storePath("/release"))
	assert.Equal(t, http.StatusConflict, rr.Code, "nothing left to release")
}

func TestResolve_Transient(t *testing.T) {
	h := newHarness(t)

	rr, body := h.do(t, http.MethodPost, "/facades/ticket/resolve")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "uncached", body["state"].(map[string]any)["phase"])

	rr, _ = h.do(t, http.MethodPost, "/facades/ticket/release")
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestResolve_Unregistered(t *testing.T) {
	h := newHarness(t)

	rr, _ := h.do(t, http.MethodPost, "/facades/nope/resolve")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr, _ = h.do(t, http.MethodPost, "/facades/nope/release")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestResolve_ContainerError(t *testing.T) {
	h := newHarness(t)
	h.reg.RegisterServiceType("unbound")

	rr, body := h.do(t, http.MethodPost, "/facades/unbound/resolve")
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, body["message"], "unresolvable")
}
