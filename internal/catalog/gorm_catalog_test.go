package catalog

import (
	"context"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/models"
)

func newTestCatalog(t *testing.T) (*GormCatalog, *gorm.DB) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&models.Share{}, &models.Schema{}, &models.Table{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return NewGormCatalog(gdb, "test-secret", 2, 10), gdb
}

func seedShareSchemaTables(t *testing.T, gdb *gorm.DB, shareName string, tableNames ...string) {
	t.Helper()
	share := models.Share{Name: shareName, Active: true}
	if err := gdb.Create(&share).Error; err != nil {
		t.Fatalf("create share: %v", err)
	}
	schema := models.Schema{ShareID: share.ID, Name: "default"}
	if err := gdb.Create(&schema).Error; err != nil {
		t.Fatalf("create schema: %v", err)
	}
	for _, n := range tableNames {
		tbl := models.Table{SchemaID: schema.ID, Name: n, StorageURI: "file:///data/" + n}
		if err := gdb.Create(&tbl).Error; err != nil {
			t.Fatalf("create table %s: %v", n, err)
		}
	}
}

func TestGormCatalog_ListShares_Pagination(t *testing.T) {
	cat, gdb := newTestCatalog(t)
	for _, n := range []string{"alpha", "beta", "gamma"} {
		seedShareSchemaTables(t, gdb, n)
	}

	res, err := cat.ListShares(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Items) != 2 || res.NextPageToken == "" {
		t.Fatalf("expected first page of 2 with next token, got %+v", res)
	}
	if res.Items[0].Name != "alpha" || res.Items[1].Name != "beta" {
		t.Fatalf("unexpected order: %+v", res.Items)
	}

	res2, err := cat.ListShares(context.Background(), res.NextPageToken, 0)
	if err != nil {
		t.Fatalf("unexpected error on page 2: %v", err)
	}
	if len(res2.Items) != 1 || res2.Items[0].Name != "gamma" || res2.NextPageToken != "" {
		t.Fatalf("expected final page with just gamma, got %+v", res2)
	}
}

func TestGormCatalog_GetShare_NotFound(t *testing.T) {
	cat, _ := newTestCatalog(t)
	if _, err := cat.GetShare(context.Background(), "missing"); err == nil {
		t.Fatal("expected not-found error")
	}
}

func TestGormCatalog_ListTables_And_ResolveTable(t *testing.T) {
	cat, gdb := newTestCatalog(t)
	seedShareSchemaTables(t, gdb, "demo-share", "events", "users")

	res, err := cat.ListTables(context.Background(), "demo-share", "default", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Items) != 2 {
		t.Fatalf("expected 2 tables, got %+v", res.Items)
	}

	tbl, err := cat.ResolveTable(context.Background(), "demo-share", "default", "events")
	if err != nil {
		t.Fatalf("unexpected error resolving table: %v", err)
	}
	if tbl.StorageURI != "file:///data/events" {
		t.Fatalf("unexpected storage uri: %s", tbl.StorageURI)
	}
}

func TestGormCatalog_ListAllTables_OrdersBySchemaThenTable(t *testing.T) {
	cat, gdb := newTestCatalog(t)
	share := models.Share{Name: "multi-schema", Active: true}
	if err := gdb.Create(&share).Error; err != nil {
		t.Fatalf("create share: %v", err)
	}
	schemaA := models.Schema{ShareID: share.ID, Name: "a"}
	schemaB := models.Schema{ShareID: share.ID, Name: "b"}
	if err := gdb.Create(&schemaA).Error; err != nil {
		t.Fatal(err)
	}
	if err := gdb.Create(&schemaB).Error; err != nil {
		t.Fatal(err)
	}
	if err := gdb.Create(&models.Table{SchemaID: schemaB.ID, Name: "t1", StorageURI: "file:///b/t1"}).Error; err != nil {
		t.Fatal(err)
	}
	if err := gdb.Create(&models.Table{SchemaID: schemaA.ID, Name: "t1", StorageURI: "file:///a/t1"}).Error; err != nil {
		t.Fatal(err)
	}

	res, err := cat.ListAllTables(context.Background(), "multi-schema", "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Items) != 2 || res.Items[0].Schema != "a" || res.Items[1].Schema != "b" {
		t.Fatalf("expected schema-a before schema-b, got %+v", res.Items)
	}
}

func TestGormCatalog_ResolveTable_UnknownSchema(t *testing.T) {
	cat, gdb := newTestCatalog(t)
	seedShareSchemaTables(t, gdb, "demo", "t1")
	if _, err := cat.ResolveTable(context.Background(), "demo", "nope", "t1"); err == nil {
		t.Fatal("expected not-found error for unknown schema")
	}
}
