package deltalog

// Protocol is a table's minimum reader/writer protocol versions.
type Protocol struct {
	MinReaderVersion int
	MinWriterVersion int
}

// Metadata is a table's schema and partitioning description at a version.
type Metadata struct {
	ID               string
	Name             string
	Description      string
	FormatProvider   string
	FormatOptions    map[string]string
	SchemaString     string
	PartitionColumns []string
	Configuration    map[string]string
	CreatedTime      *int64
}

// FileEntry is one live data file in a snapshot.
type FileEntry struct {
	Path             string
	PartitionValues  map[string]string
	Size             int64
	ModificationTime int64
	Stats            *FileStatistics
	RawStats         string
	Tags             map[string]string
	HasDeletionVector bool
}

// Snapshot is the immutable, consistent view of a table at one version.
type Snapshot struct {
	Version  int64
	Protocol Protocol
	Metadata Metadata
	Files    []FileEntry
}

// RequiresDeltaFormat reports whether this snapshot can only be served
// correctly through the "delta" response-format envelope: column mapping
// enabled, or any surviving file carrying a deletion vector (C10).
func (s Snapshot) RequiresDeltaFormat() bool {
	if mode, ok := s.Metadata.Configuration["delta.columnMapping.mode"]; ok && mode != "none" && mode != "" {
		return true
	}
	for _, f := range s.Files {
		if f.HasDeletionVector {
			return true
		}
	}
	return false
}
