package deltalog

import (
	"os"
	"path/filepath"
	"testing"
)

func writeVersion(t *testing.T, root string, version int64, lines []string) {
	t.Helper()
	dir := filepath.Join(root, "_delta_log")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	name := filepath.Join(dir, fileNameFor(version))
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatalf("write version file: %v", err)
	}
}

func fileNameFor(version int64) string {
	digits := "00000000000000000000"
	s := digits[:versionFileDigits]
	suffix := []byte(s)
	v := version
	for i := len(suffix) - 1; i >= 0 && v > 0; i-- {
		suffix[i] = byte('0' + v%10)
		v /= 10
	}
	return string(suffix) + ".json"
}

func TestLoad_EmptyLogDirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "_delta_log"), 0o755); err != nil {
		t.Fatal(err)
	}

	snap, err := Load(root, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Version != 0 || len(snap.Files) != 0 {
		t.Fatalf("expected empty versionless snapshot, got %+v", snap)
	}
}

func TestLoad_MissingLogDirectory(t *testing.T) {
	root := t.TempDir()
	snap, err := Load(root, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Version != 0 || len(snap.Files) != 0 {
		t.Fatalf("expected empty snapshot for missing log dir, got %+v", snap)
	}
}

func TestLoad_ReplaysAddsAndRemoves(t *testing.T) {
	root := t.TempDir()
	writeVersion(t, root, 0, []string{
		`{"protocol":{"minReaderVersion":1,"minWriterVersion":2}}`,
		`{"metaData":{"id":"t1","name":"t1","format":{"provider":"parquet","options":{}},"schemaString":"{}","partitionColumns":[],"configuration":{}}}`,
		`{"add":{"path":"a.parquet","partitionValues":{},"size":10,"modificationTime":1,"dataChange":true}}`,
		`{"add":{"path":"b.parquet","partitionValues":{},"size":20,"modificationTime":1,"dataChange":true}}`,
	})
	writeVersion(t, root, 1, []string{
		`{"remove":{"path":"a.parquet","dataChange":true}}`,
	})

	snap, err := Load(root, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Version != 1 {
		t.Fatalf("expected version 1, got %d", snap.Version)
	}
	if len(snap.Files) != 1 || snap.Files[0].Path != "b.parquet" {
		t.Fatalf("expected only b.parquet to survive, got %+v", snap.Files)
	}
}

func TestLoad_SpecificVersion(t *testing.T) {
	root := t.TempDir()
	writeVersion(t, root, 0, []string{
		`{"protocol":{"minReaderVersion":1,"minWriterVersion":2}}`,
		`{"metaData":{"id":"t1","name":"t1","format":{"provider":"parquet","options":{}},"schemaString":"{}","partitionColumns":[],"configuration":{}}}`,
		`{"add":{"path":"a.parquet","partitionValues":{},"size":10,"modificationTime":1,"dataChange":true}}`,
	})
	writeVersion(t, root, 1, []string{
		`{"remove":{"path":"a.parquet","dataChange":true}}`,
	})

	snap, err := Load(root, int64Ptr(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Files) != 1 {
		t.Fatalf("expected a.parquet still present at version 0, got %+v", snap.Files)
	}
}

func TestLoad_UnknownVersionReturnsNotFound(t *testing.T) {
	root := t.TempDir()
	writeVersion(t, root, 0, []string{
		`{"protocol":{"minReaderVersion":1,"minWriterVersion":2}}`,
		`{"metaData":{"id":"t1","name":"t1","format":{"provider":"parquet","options":{}},"schemaString":"{}","partitionColumns":[],"configuration":{}}}`,
	})

	if _, err := Load(root, int64Ptr(5)); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLoad_MalformedLineIsSkipped(t *testing.T) {
	root := t.TempDir()
	writeVersion(t, root, 0, []string{
		`{"protocol":{"minReaderVersion":1,"minWriterVersion":2}}`,
		`{"metaData":{"id":"t1","name":"t1","format":{"provider":"parquet","options":{}},"schemaString":"{}","partitionColumns":[],"configuration":{}}}`,
		`not json at all`,
		`{"add":{"path":"a.parquet","partitionValues":{},"size":10,"modificationTime":1,"dataChange":true}}`,
	})

	snap, err := Load(root, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Files) != 1 {
		t.Fatalf("expected malformed line skipped and add kept, got %+v", snap.Files)
	}
}

func TestLatestVersion(t *testing.T) {
	root := t.TempDir()
	writeVersion(t, root, 0, []string{`{"protocol":{"minReaderVersion":1,"minWriterVersion":2}}`})
	writeVersion(t, root, 3, []string{`{"commitInfo":{"timestamp":1000}}`})

	v, err := LatestVersion(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 3 {
		t.Fatalf("expected latest version 3, got %d", v)
	}
}

func int64Ptr(v int64) *int64 { return &v }
