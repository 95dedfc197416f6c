// Package synthesize implements the Response Synthesizer (C7): building
// the pull-based sequence of NDJSON StreamLine values for the metadata,
// query, and changes endpoints, independent of any HTTP machinery.
package synthesize

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/capability"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/deltalog"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/signer"
)

// StreamLine is one NDJSON line of a streaming response.
type StreamLine interface {
	// Marshal returns the single JSON line (no trailing newline).
	Marshal() ([]byte, error)
}

type rawLine struct{ v interface{} }

func (r rawLine) Marshal() ([]byte, error) { return json.Marshal(r.v) }

// BuildProtocolLine renders the "protocol" line for the selected format.
func BuildProtocolLine(p deltalog.Protocol, format capability.ResponseFormat) StreamLine {
	if format == capability.FormatDelta {
		return rawLine{map[string]interface{}{
			"protocol": map[string]interface{}{
				"deltaProtocol": map[string]interface{}{
					"minReaderVersion": p.MinReaderVersion,
					"minWriterVersion": p.MinWriterVersion,
				},
			},
		}}
	}
	return rawLine{map[string]interface{}{
		"protocol": map[string]interface{}{"minReaderVersion": 1},
	}}
}

// BuildMetadataLine renders the "metaData" line. numFiles/size are only
// emitted in delta envelopes, computed from the surviving file set.
func BuildMetadataLine(m deltalog.Metadata, files []deltalog.FileEntry, format capability.ResponseFormat) StreamLine {
	inner := metadataFields(m)

	if format == capability.FormatDelta {
		var size int64
		for _, f := range files {
			size += f.Size
		}
		return rawLine{map[string]interface{}{
			"metaData": map[string]interface{}{
				"deltaMetadata": inner,
			},
			"size":     size,
			"numFiles": len(files),
		}}
	}
	return rawLine{map[string]interface{}{"metaData": inner}}
}

func metadataFields(m deltalog.Metadata) map[string]interface{} {
	fields := map[string]interface{}{
		"id":   m.ID,
		"name": m.Name,
		"format": map[string]interface{}{
			"provider": m.FormatProvider,
			"options":  emptyMap(m.FormatOptions),
		},
		"schemaString":     m.SchemaString,
		"partitionColumns": nonNilStrings(m.PartitionColumns),
		"configuration":    emptyMap(m.Configuration),
	}
	if m.Description != "" {
		fields["description"] = m.Description
	}
	return fields
}

// BuildFileLine renders one "file" line, parquet or delta envelope.
func BuildFileLine(f deltalog.FileEntry, url signer.SignedURL, format capability.ResponseFormat) StreamLine {
	id := fileID(f.Path)

	if format == capability.FormatDelta {
		add := map[string]interface{}{
			"path":            url.URL,
			"partitionValues": emptyMap(f.PartitionValues),
			"size":            f.Size,
		}
		if f.RawStats != "" {
			add["stats"] = f.RawStats
		}
		return rawLine{map[string]interface{}{
			"file": map[string]interface{}{
				"id":                   id,
				"size":                 f.Size,
				"expirationTimestamp":  url.ExpirationTimestampMs,
				"deltaSingleAction": map[string]interface{}{
					"add": add,
				},
			},
		}}
	}

	fileFields := map[string]interface{}{
		"url":                 url.URL,
		"id":                  id,
		"partitionValues":     emptyMap(f.PartitionValues),
		"size":                f.Size,
		"expirationTimestamp": url.ExpirationTimestampMs,
	}
	if f.Stats != nil {
		fileFields["stats"] = map[string]interface{}{
			"numRecords": f.Stats.NumRecords,
			"minValues":  f.Stats.MinValues,
			"maxValues":  f.Stats.MaxValues,
			"nullCount":  f.Stats.NullCount,
		}
	}
	return rawLine{map[string]interface{}{"file": fileFields}}
}

// BuildEndStreamLine renders the optional trailing endStreamAction line.
func BuildEndStreamLine(minURLExpirationMs int64, nextPageToken, errorMessage string) StreamLine {
	fields := map[string]interface{}{
		"minUrlExpirationTimestamp": minURLExpirationMs,
	}
	if nextPageToken != "" {
		fields["nextPageToken"] = nextPageToken
	}
	if errorMessage != "" {
		fields["errorMessage"] = errorMessage
	}
	return rawLine{map[string]interface{}{"endStreamAction": fields}}
}

// BuildChangeLine renders one change-data-feed file line.
func BuildChangeLine(e deltalog.ChangeEntry, url signer.SignedURL) StreamLine {
	return rawLine{map[string]interface{}{
		"file": map[string]interface{}{
			"url":             url.URL,
			"id":              fileID(e.Path),
			"partitionValues": emptyMap(e.PartitionValues),
			"size":            e.Size,
			"version":         e.Version,
			"timestamp":       e.Timestamp,
			"changeType":      string(e.ChangeType),
			"expirationTimestamp": url.ExpirationTimestampMs,
		},
	}}
}

func fileID(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:16])
}

func emptyMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
