package deltalog

import (
	"encoding/json"
	"log"
)

// action is the envelope every transaction log line unmarshals into; only
// one of the pointer fields will be non-nil.
type action struct {
	Protocol   *protocolAction `json:"protocol,omitempty"`
	MetaData   *metaDataAction `json:"metaData,omitempty"`
	Add        *addAction      `json:"add,omitempty"`
	Remove     *removeAction   `json:"remove,omitempty"`
	CDC        *cdcAction      `json:"cdc,omitempty"`
	CommitInfo json.RawMessage `json:"commitInfo,omitempty"`
}

type protocolAction struct {
	MinReaderVersion int `json:"minReaderVersion"`
	MinWriterVersion int `json:"minWriterVersion"`
}

type metaDataAction struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	Format           formatSpec        `json:"format"`
	SchemaString     string            `json:"schemaString"`
	PartitionColumns []string          `json:"partitionColumns"`
	Configuration    map[string]string `json:"configuration"`
	CreatedTime      *int64            `json:"createdTime,omitempty"`
}

type formatSpec struct {
	Provider string            `json:"provider"`
	Options  map[string]string `json:"options"`
}

type deletionVector struct {
	StorageType string `json:"storageType"`
	PathOrInlineDv string `json:"pathOrInlineDv"`
	SizeInBytes int64 `json:"sizeInBytes"`
	Cardinality int64 `json:"cardinality"`
}

type addAction struct {
	Path             string            `json:"path"`
	PartitionValues  map[string]string `json:"partitionValues"`
	Size             int64             `json:"size"`
	ModificationTime int64             `json:"modificationTime"`
	DataChange       bool              `json:"dataChange"`
	Stats            string            `json:"stats,omitempty"`
	Tags             map[string]string `json:"tags,omitempty"`
	DeletionVector   *deletionVector   `json:"deletionVector,omitempty"`
}

type removeAction struct {
	Path             string `json:"path"`
	DeletionTimestamp *int64 `json:"deletionTimestamp,omitempty"`
	DataChange       bool   `json:"dataChange"`
}

type cdcAction struct {
	Path            string            `json:"path"`
	PartitionValues map[string]string `json:"partitionValues"`
	Size            int64             `json:"size"`
	Tags            map[string]string `json:"tags,omitempty"`
}

// FileStatistics is the parsed form of an add action's stats JSON string.
type FileStatistics struct {
	NumRecords int64                  `json:"numRecords"`
	MinValues  map[string]interface{} `json:"minValues,omitempty"`
	MaxValues  map[string]interface{} `json:"maxValues,omitempty"`
	NullCount  map[string]interface{} `json:"nullCount,omitempty"`
}

// parseStats parses the raw stats JSON string carried by an add action.
// Failures are logged and treated as absent stats; they never fail the read.
func parseStats(path, raw string) *FileStatistics {
	if raw == "" {
		return nil
	}
	var stats FileStatistics
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		log.Printf("[deltalog] warn: failed to parse stats for %s: %v", path, err)
		return nil
	}
	return &stats
}
