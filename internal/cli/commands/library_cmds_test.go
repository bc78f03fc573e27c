package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"ImageLibrary/internal/cli/bootstrap"
	"ImageLibrary/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend — минимальный бэкенд библиотеки изображений.
type fakeBackend struct {
	mu       sync.Mutex
	nextID   int64
	uploads  []string
	deleted  []json.RawMessage
	updates  map[string]string
	tagsSent []string
	failSync bool
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{nextID: 5000, updates: map[string]string{}}
	ts := httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(ts.Close)
	return fb, ts
}

func (fb *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/images":
		_, _ = w.Write([]byte(`[
			{"globalId":7,"name":"logo","category":"ui","tags":["brand"],"syncStatus":"up-to-date","imageWidth":64,"imageHeight":32},
			{"globalId":8,"name":"banner","category":"marketing","description":"summer sale"}
		]`))
	case r.URL.Path == "/api/images/categories":
		_, _ = w.Write([]byte(`["ui","marketing"]`))
	case r.Method == http.MethodGet && r.URL.Path == "/api/images/tags":
		_, _ = w.Write([]byte(`["brand"]`))
	case r.Method == http.MethodPost && r.URL.Path == "/api/images/tags":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		fb.tagsSent = append(fb.tagsSent, body["tag"])
		w.WriteHeader(http.StatusCreated)
	case r.URL.Path == "/api/images/sync-image":
		if fb.failSync {
			http.Error(w, "storage down", http.StatusServiceUnavailable)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fb.uploads = append(fb.uploads, r.Header.Get("X-Correlation-Id"))
		fb.nextID++
		fmt.Fprintf(w, `{"metadata":{"GlobalId":%d,"AzureBlobUrl":"https://blob/%d.png"}}`, fb.nextID, fb.nextID)
	case r.URL.Path == "/api/images/sync-deleted":
		b, _ := io.ReadAll(r.Body)
		fb.deleted = append(fb.deleted, b)
		w.WriteHeader(http.StatusOK)
	case r.URL.Path == "/api/images/7/update":
		b, _ := io.ReadAll(r.Body)
		fb.updates["7"] = string(b)
		w.WriteHeader(http.StatusOK)
	case r.URL.Path == "/api/images/7/linked-products":
		_, _ = w.Write([]byte(`[4,5]`))
	case r.URL.Path == "/api/products", r.URL.Path == "/api/get-products":
		_, _ = w.Write([]byte(`[{"globalId":3,"moduleID":"M3","moduleName":"Capsule"}]`))
	default:
		http.NotFound(w, r)
	}
}

func run(t *testing.T, cfg *config.Config, args ...string) (string, int) {
	t.Helper()
	var code int
	out := withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, args) })
	return out, code
}

func TestLibraryWorkflow_LoadStageEditDeleteSync(t *testing.T) {
	dir := withTempConfig(t)
	fb, ts := newFakeBackend(t)
	cfg := testConfig(dir, ts.URL)

	out, code := run(t, cfg, "load", "--apps", "B2B")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Загружено изображений: 2")

	out, code = run(t, cfg, "list")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "logo")
	assert.Contains(t, out, "banner")
	assert.Contains(t, out, "Всего: 2")

	out, _ = run(t, cfg, "list", "--q", "SALE", "--mode", "list")
	assert.Contains(t, out, "banner")
	assert.NotContains(t, out, "logo")

	img := writePNG(t, dir, "hero.png", 40, 20)
	out, code = run(t, cfg, "stage", "--category", "ui", "--tags", "hero,web", img)
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "hero (40x20, image/png)")
	assert.Contains(t, out, "Ожидают загрузки: 1")

	out, code = run(t, cfg, "edit", "7", "--description", "new logo", "--products", "4,5")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "сохранена на бэкенде")
	assert.Contains(t, fb.updates["7"], `"description":"new logo"`)
	assert.NotContains(t, fb.updates["7"], "null")

	out, code = run(t, cfg, "delete", "8")
	require.Equal(t, 0, code, out)
	out, _ = run(t, cfg, "stats")
	assert.Contains(t, out, "Total:     2")
	assert.Contains(t, out, "Pending:   1")
	assert.Contains(t, out, "Deleted:   1")

	out, code = run(t, cfg, "sync")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Загружено: 1")
	assert.Contains(t, out, "Состояние удаления отправлено: 1")
	require.Len(t, fb.uploads, 1)
	assert.True(t, strings.HasPrefix(fb.uploads[0], "-"), "correlation id must be the staged id")
	require.Len(t, fb.deleted, 1)
	assert.Contains(t, string(fb.deleted[0]), "8")

	// новая запись получила id бэкенда, повторный sync ничего не делает
	out, code = run(t, cfg, "show", "5001")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "hero")
	assert.Contains(t, out, "https://blob/5001.png")
	assert.Contains(t, out, "hero, web")

	out, _ = run(t, cfg, "sync")
	assert.Contains(t, out, "Нечего синхронизировать")
	assert.Len(t, fb.uploads, 1)
}

func TestSync_FailureKeepsRecordForRetry(t *testing.T) {
	dir := withTempConfig(t)
	fb, ts := newFakeBackend(t)
	fb.failSync = true
	cfg := testConfig(dir, ts.URL)

	img := writePNG(t, dir, "a.png", 8, 8)
	_, code := run(t, cfg, "stage", img)
	require.Equal(t, 0, code)

	out, code := run(t, cfg, "sync")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "sync error:")

	// статус ошибки сохранился между запусками
	out, _ = run(t, cfg, "list", "--status", "error")
	assert.Contains(t, out, "Sync Error")

	fb.mu.Lock()
	fb.failSync = false
	fb.mu.Unlock()
	out, code = run(t, cfg, "sync")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Загружено: 1")
}

func TestDeleteRestore_RoundTripIsNotDirty(t *testing.T) {
	dir := withTempConfig(t)
	fb, ts := newFakeBackend(t)
	cfg := testConfig(dir, ts.URL)
	_, code := run(t, cfg, "load")
	require.Equal(t, 0, code)

	_, code = run(t, cfg, "delete", "7", "8")
	require.Equal(t, 0, code)
	_, code = run(t, cfg, "restore", "7", "8")
	require.Equal(t, 0, code)

	out, _ := run(t, cfg, "sync")
	assert.Contains(t, out, "Нечего синхронизировать")
	assert.Empty(t, fb.deleted)

	out, code = run(t, cfg, "delete", "99")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "not found")
}

func TestCatalogCommands(t *testing.T) {
	dir := withTempConfig(t)
	fb, ts := newFakeBackend(t)
	cfg := testConfig(dir, ts.URL)

	out, _ := run(t, cfg, "categories")
	assert.Contains(t, out, "- marketing")
	out, _ = run(t, cfg, "tags")
	assert.Contains(t, out, "- brand")

	out, code := run(t, cfg, "tag-add", "  seasonal ")
	require.Equal(t, 0, code, out)
	assert.Equal(t, []string{"seasonal"}, fb.tagsSent)

	out, _ = run(t, cfg, "products", "--search", "caps")
	assert.Contains(t, out, "3  M3 - Capsule")
	out, _ = run(t, cfg, "products", "--all")
	assert.Contains(t, out, "M3 - Capsule")

	_, code = run(t, cfg, "load")
	require.Equal(t, 0, code)
	out, code = run(t, cfg, "links", "7")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "[4 5]")
}

func TestCatalog_UnreachableBackendDegrades(t *testing.T) {
	dir := withTempConfig(t)
	cfg := testConfig(dir, "http://127.0.0.1:1")
	out, code := run(t, cfg, "categories")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Список пуст")

	out, code = run(t, cfg, "load")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "load error:")
}

func TestSettings_SetAndStageUsesDefaults(t *testing.T) {
	dir := withTempConfig(t)
	_, ts := newFakeBackend(t)
	cfg := testConfig(dir, ts.URL)

	out, code := run(t, cfg, "settings", "set", "--apps", "B2B,Shopify", "--langs", "EN")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "B2B, Shopify")
	_, err := os.Stat(cfg.SettingsFile)
	require.NoError(t, err)

	out, _ = run(t, cfg, "settings")
	assert.Contains(t, out, "apps:        B2B, Shopify")

	img := writePNG(t, dir, "b.png", 4, 4)
	_, code = run(t, cfg, "stage", "--langs", "HE", img)
	require.Equal(t, 0, code)

	s, done, err := bootstrap.OpenLibrary(cfg, nil)
	require.NoError(t, err)
	defer done()
	all := s.Library.Snapshot()
	require.Len(t, all, 1)
	assert.Equal(t, []string{"B2B", "Shopify"}, all[0].AppMetadata.Apps)
	assert.Equal(t, []string{"HE"}, all[0].AppMetadata.Langs)
}

func TestExport_WritesManifest(t *testing.T) {
	dir := withTempConfig(t)
	_, ts := newFakeBackend(t)
	cfg := testConfig(dir, ts.URL)
	_, code := run(t, cfg, "load")
	require.Equal(t, 0, code)

	target := filepath.Join(dir, "export.json")
	out, code := run(t, cfg, "export", "--out", target, "--category", "ui")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Экспортировано 1 записей")

	b, err := os.ReadFile(target)
	require.NoError(t, err)
	var m struct {
		Count  int `json:"count"`
		Images []struct {
			Name string `json:"name"`
		} `json:"images"`
	}
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, 1, m.Count)
	assert.Equal(t, "logo", m.Images[0].Name)

	// без --out манифест идёт в stdout
	out, code = run(t, cfg, "export")
	require.Equal(t, 0, code)
	assert.Contains(t, out, `"count": 2`)

	// s3 без настроек — ошибка
	out, code = run(t, cfg, "export", "--s3")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "not configured")
}

func TestListModes(t *testing.T) {
	dir := withTempConfig(t)
	_, ts := newFakeBackend(t)
	cfg := testConfig(dir, ts.URL)
	_, code := run(t, cfg, "load")
	require.Equal(t, 0, code)

	out, _ := run(t, cfg, "list", "--mode", "table")
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "64x32")

	out, _ = run(t, cfg, "list", "--mode", "grid")
	assert.Contains(t, out, "#7 logo")
	assert.Contains(t, out, "Up to Date")

	out, _ = run(t, cfg, "list", "--category", "nothing")
	assert.Contains(t, out, "Нет изображений")
}
