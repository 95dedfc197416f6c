package deltalog

import "testing"

func TestLoadChanges_DisabledReturnsSentinel(t *testing.T) {
	root := t.TempDir()
	writeVersion(t, root, 0, []string{
		`{"protocol":{"minReaderVersion":1,"minWriterVersion":2}}`,
		`{"metaData":{"id":"t1","name":"t1","format":{"provider":"parquet","options":{}},"schemaString":"{}","partitionColumns":[],"configuration":{}}}`,
	})

	_, _, err := LoadChanges(root, 0, 0)
	if !IsChangeDataFeedDisabled(err) {
		t.Fatalf("expected change-data-feed-disabled sentinel, got %v", err)
	}
}

func TestLoadChanges_CollectsEntriesAcrossRange(t *testing.T) {
	root := t.TempDir()
	writeVersion(t, root, 0, []string{
		`{"protocol":{"minReaderVersion":1,"minWriterVersion":2}}`,
		`{"metaData":{"id":"t1","name":"t1","format":{"provider":"parquet","options":{}},"schemaString":"{}","partitionColumns":[],"configuration":{"delta.enableChangeDataFeed":"true"}}}`,
		`{"add":{"path":"a.parquet","partitionValues":{},"size":10,"modificationTime":1,"dataChange":true}}`,
	})
	writeVersion(t, root, 1, []string{
		`{"commitInfo":{"timestamp":5000}}`,
		`{"remove":{"path":"a.parquet","dataChange":true}}`,
		`{"add":{"path":"b.parquet","partitionValues":{},"size":20,"modificationTime":2,"dataChange":true}}`,
	})

	snap, entries, err := LoadChanges(root, 0, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Version != 1 {
		t.Fatalf("expected snapshot version 1, got %d", snap.Version)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 change entries (1 insert + 1 remove + 1 insert), got %d: %+v", len(entries), entries)
	}

	var sawRemove, sawInsertB bool
	for _, e := range entries {
		if e.ChangeType == ChangeRemove && e.Path == "a.parquet" {
			sawRemove = true
			if e.Timestamp != 5000 {
				t.Fatalf("expected remove timestamp 5000, got %d", e.Timestamp)
			}
		}
		if e.ChangeType == ChangeInsert && e.Path == "b.parquet" {
			sawInsertB = true
		}
	}
	if !sawRemove || !sawInsertB {
		t.Fatalf("expected both remove(a) and insert(b) entries, got %+v", entries)
	}
}

func TestLoadChanges_RespectsStartingVersionFloor(t *testing.T) {
	root := t.TempDir()
	writeVersion(t, root, 0, []string{
		`{"protocol":{"minReaderVersion":1,"minWriterVersion":2}}`,
		`{"metaData":{"id":"t1","name":"t1","format":{"provider":"parquet","options":{}},"schemaString":"{}","partitionColumns":[],"configuration":{"delta.enableChangeDataFeed":"true"}}}`,
		`{"add":{"path":"a.parquet","partitionValues":{},"size":10,"modificationTime":1,"dataChange":true}}`,
	})
	writeVersion(t, root, 1, []string{
		`{"add":{"path":"b.parquet","partitionValues":{},"size":20,"modificationTime":2,"dataChange":true}}`,
	})

	_, entries, err := LoadChanges(root, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "b.parquet" {
		t.Fatalf("expected only version-1 entries, got %+v", entries)
	}
}
