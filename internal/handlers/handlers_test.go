package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/auth"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/cache"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/catalog"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/config"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/models"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/signer"
)

// testEnv bundles a router under test with the raw gorm handle backing its
// catalog, so tests can seed shares/schemas/tables directly.
type testEnv struct {
	deps *Deps
	gdb  *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&models.Share{}, &models.Schema{}, &models.Table{}, &models.BearerPrincipal{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	cfg := &config.Config{
		PageTokenSecret:         "test-secret-at-least-32-characters-long",
		DefaultPageSize:         500,
		MaxPageSize:             2000,
		SnapshotCacheCapacity:   256,
		SnapshotCacheTTLSeconds: 300,
		URLTTLSeconds:           900,
		ConfiguredBearerToken:   "test-bearer-token",
		AuthEnabled:             true,
		DisableCacheSweeper:     true,
	}

	cat := catalog.NewGormCatalog(gdb, cfg.PageTokenSecret, cfg.DefaultPageSize, cfg.MaxPageSize)
	snapshots := cache.New(cfg.SnapshotCacheCapacity, time.Duration(cfg.SnapshotCacheTTLSeconds)*time.Second)
	fileSigner := signer.NewFileSigner("file-signing-secret", "/files")
	authenticator := auth.NewAuthenticator(cfg.ConfiguredBearerToken, nil, cfg.AuthEnabled)

	deps := &Deps{
		Config:        cfg,
		Catalog:       cat,
		Snapshots:     snapshots,
		Authenticator: authenticator,
		FileSigner:    fileSigner,
	}
	return &testEnv{deps: deps, gdb: gdb}
}

// seedTable creates a share/schema/table row and returns the table's
// storage root, a freshly created temp directory the caller populates
// with a _delta_log.
func (e *testEnv) seedTable(t *testing.T, shareName, schemaName, tableName string) string {
	t.Helper()
	storageRoot := t.TempDir()

	share := models.Share{Name: shareName, Active: true}
	if err := e.gdb.Create(&share).Error; err != nil {
		t.Fatalf("create share: %v", err)
	}
	schema := models.Schema{ShareID: share.ID, Name: schemaName}
	if err := e.gdb.Create(&schema).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	tbl := models.Table{SchemaID: schema.ID, Name: tableName, StorageURI: storageRoot}
	if err := e.gdb.Create(&tbl).Error; err != nil {
		t.Fatalf("create table: %v", err)
	}
	return storageRoot
}

func writeDeltaLog(t *testing.T, root string, version int64, lines []string) {
	t.Helper()
	dir := filepath.Join(root, "_delta_log")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	digits := "00000000000000000000"
	suffix := []byte(digits)
	v := version
	for i := len(suffix) - 1; i >= 0 && v > 0; i-- {
		suffix[i] = byte('0' + v%10)
		v /= 10
	}
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	name := filepath.Join(dir, string(suffix)+".json")
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatalf("write version file: %v", err)
	}
}

func doRequest(r http.Handler, method, path, body, authHeader string) *httptest.ResponseRecorder {
	return doRequestWithHeaders(r, method, path, body, authHeader, nil)
}

func doRequestWithHeaders(r http.Handler, method, path, body, authHeader string, extraHeaders map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Reader
	if body != "" {
		reqBody = bytes.NewReader([]byte(body))
	} else {
		reqBody = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reqBody)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return m
}

func decodeNDJSON(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var lines []map[string]interface{}
	for _, raw := range bytes.Split(bytes.TrimSpace(w.Body.Bytes()), []byte("\n")) {
		if len(raw) == 0 {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal(raw, &m); err != nil {
			t.Fatalf("decode ndjson line %q: %v", raw, err)
		}
		lines = append(lines, m)
	}
	return lines
}

const authHeader = "Bearer test-bearer-token"
