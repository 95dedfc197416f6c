package deltalog

import "testing"

func TestVersionAsOf_PicksLatestCommitAtOrBeforeTimestamp(t *testing.T) {
	root := t.TempDir()
	writeVersion(t, root, 0, []string{
		`{"protocol":{"minReaderVersion":1,"minWriterVersion":2}}`,
		`{"metaData":{"id":"t1","name":"t1","format":{"provider":"parquet","options":{}},"schemaString":"{}","partitionColumns":[],"configuration":{}}}`,
		`{"commitInfo":{"timestamp":1000}}`,
	})
	writeVersion(t, root, 1, []string{
		`{"commitInfo":{"timestamp":2000}}`,
	})
	writeVersion(t, root, 2, []string{
		`{"commitInfo":{"timestamp":3000}}`,
	})

	v, err := VersionAsOf(root, 2500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1 {
		t.Fatalf("expected version 1 (last commit <= 2500), got %d", v)
	}
}

func TestVersionAsOf_BeforeEarliestCommitFallsBackToEarliest(t *testing.T) {
	root := t.TempDir()
	writeVersion(t, root, 0, []string{
		`{"protocol":{"minReaderVersion":1,"minWriterVersion":2}}`,
		`{"metaData":{"id":"t1","name":"t1","format":{"provider":"parquet","options":{}},"schemaString":"{}","partitionColumns":[],"configuration":{}}}`,
		`{"commitInfo":{"timestamp":5000}}`,
	})

	v, err := VersionAsOf(root, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0 {
		t.Fatalf("expected fallback to version 0, got %d", v)
	}
}

func TestVersionAsOf_NoLogReturnsZero(t *testing.T) {
	root := t.TempDir()
	v, err := VersionAsOf(root, 999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0 {
		t.Fatalf("expected version 0 for empty log, got %d", v)
	}
}
