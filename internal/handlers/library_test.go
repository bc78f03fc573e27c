package handlers_test

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ImageLibrary/internal/cli/api"
	"ImageLibrary/internal/cli/model"
	"ImageLibrary/internal/cli/service"
	"ImageLibrary/internal/cli/store"
	"ImageLibrary/internal/handlers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memWorkspace struct {
	saved [][]model.ImageRecord
}

func (m *memWorkspace) LoadAll() ([]model.ImageRecord, error) { return nil, nil }
func (m *memWorkspace) SaveAll(r []model.ImageRecord) error {
	m.saved = append(m.saved, r)
	return nil
}
func (m *memWorkspace) Close() error { return nil }

// fakeBackend — минимальный бэкенд библиотеки изображений.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/images" && r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`[{"globalId":1,"name":"hero banner","category":"ui"},{"globalId":2,"name":"logo","isDeleted":true}]`))
		case r.URL.Path == "/api/images/1/update":
			w.WriteHeader(http.StatusOK)
		case r.URL.Path == "/api/images/2/update":
			http.Error(w, "nope", http.StatusInternalServerError)
		case r.URL.Path == "/api/images/sync-deleted":
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newServer(t *testing.T) (*httptest.Server, *memWorkspace, *service.Library) {
	t.Helper()
	backend := fakeBackend(t)
	gw := api.NewClient(backend.URL, 5*time.Second, nil)
	lib := service.NewLibrary(gw, nil, nil, zap.NewNop().Sugar(), service.Options{})
	ws := &memWorkspace{}
	h := handlers.NewHandler(lib, ws, zap.NewNop().Sugar())
	srv := httptest.NewServer(h.Router)
	t.Cleanup(srv.Close)
	return srv, ws, lib
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func TestLoadListAndFilter(t *testing.T) {
	srv, ws, _ := newServer(t)

	resp := post(t, srv.URL+"/api/library/load?apps=B2B", "")
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, ws.saved, 1)

	resp, err := http.Get(srv.URL + "/api/library/images?q=BANNER")
	require.NoError(t, err)
	defer resp.Body.Close()
	var list struct {
		Count  int                   `json:"count"`
		Images []service.ExportImage `json:"images"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, int64(1), list.Images[0].GlobalID)

	resp2, err := http.Get(srv.URL + "/api/library/images?deleted=true")
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&list))
	assert.Equal(t, 2, list.Count)
}

func TestDeleteRestoreAndSync(t *testing.T) {
	srv, ws, lib := newServer(t)
	resp := post(t, srv.URL+"/api/library/load", "")
	resp.Body.Close()

	resp = post(t, srv.URL+"/api/library/images/1/delete", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	// запись 2 пришла удалённой, теперь скрыта и 1
	assert.Equal(t, 2, lib.Stats().Deleted)
	assert.Empty(t, lib.Filter(store.Query{}))

	resp = post(t, srv.URL+"/api/library/sync", "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sr map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sr))
	assert.Equal(t, float64(1), sr["reconciled"])
	assert.GreaterOrEqual(t, len(ws.saved), 3)

	resp3 := post(t, srv.URL+"/api/library/images/99/restore", "")
	resp3.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp3.StatusCode)

	resp4 := post(t, srv.URL+"/api/library/images/abc/restore", "")
	resp4.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp4.StatusCode)
}

func TestEdit(t *testing.T) {
	srv, _, lib := newServer(t)
	resp := post(t, srv.URL+"/api/library/load", "")
	resp.Body.Close()

	resp = post(t, srv.URL+"/api/library/images/1/edit", `{"description":"new","tags":["a"]}`)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	r, err := lib.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "new", r.Description)

	resp = post(t, srv.URL+"/api/library/images/2/edit", `{"description":"x"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	resp = post(t, srv.URL+"/api/library/images/1/edit", `{`)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSettingsRoundTrip(t *testing.T) {
	srv, _, _ := newServer(t)
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/library/settings", bytes.NewBufferString(`{"apps":["B2C"]}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/library/settings")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(b), `"apps":["B2C"]`)
	assert.Contains(t, string(b), `"langs":[]`)
}

func TestStatsAndExportAreGzipped(t *testing.T) {
	srv, _, _ := newServer(t)
	resp := post(t, srv.URL+"/api/library/load", "")
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/library/export", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	tr := &http.Transport{DisableCompression: true}
	resp, err := (&http.Client{Transport: tr}).Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
	gr, err := gzip.NewReader(resp.Body)
	require.NoError(t, err)
	var m service.Manifest
	require.NoError(t, json.NewDecoder(gr).Decode(&m))
	assert.Equal(t, 1, m.Count)
	assert.Equal(t, 1, m.Stats.Total)
}

func TestLoad_BackendFailureKeepsSavedWorkspace(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "storage down", http.StatusInternalServerError)
	}))
	t.Cleanup(backend.Close)

	staged := model.ImageRecord{
		GlobalID:   -1001,
		Name:       "hero",
		IsActive:   true,
		SyncStatus: model.StatusPending,
		File:       &model.FilePayload{FileName: "hero.png", MIMEType: "image/png", Data: []byte{1, 2, 3}},
	}
	lib := service.NewLibrary(api.NewClient(backend.URL, 5*time.Second, nil), nil, nil, zap.NewNop().Sugar(), service.Options{})
	lib.Seed([]model.ImageRecord{staged})
	ws := &memWorkspace{saved: [][]model.ImageRecord{{staged}}}
	srv := httptest.NewServer(handlers.NewHandler(lib, ws, zap.NewNop().Sugar()).Router)
	t.Cleanup(srv.Close)

	resp := post(t, srv.URL+"/api/library/load", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	// пустой набор после неудачной загрузки не записан поверх сохранённого
	require.Len(t, ws.saved, 1)
	require.Len(t, ws.saved[0], 1)
	assert.Equal(t, int64(-1001), ws.saved[0][0].GlobalID)
	assert.NotNil(t, ws.saved[0][0].File)
}
