// Package capability implements the Capability Negotiator (C10): parsing
// the delta-sharing-capabilities request header and selecting the response
// format variant a snapshot must be served in.
package capability

import "strings"

// ResponseFormat is the envelope family a stream is rendered in.
type ResponseFormat string

const (
	FormatParquet ResponseFormat = "parquet"
	FormatDelta   ResponseFormat = "delta"
)

// Capabilities is the parsed form of one request's capabilities header.
type Capabilities struct {
	ResponseFormats        []ResponseFormat
	ReaderFeatures         []string
	IncludeEndStreamAction bool
}

// Parse parses "k1=v1[,v2];k2=v3" into Capabilities. An empty header
// defaults to responseformat=parquet, includeendstreamaction=false.
func Parse(header string) Capabilities {
	caps := Capabilities{
		ResponseFormats: []ResponseFormat{FormatParquet},
	}
	header = strings.TrimSpace(header)
	if header == "" {
		return caps
	}

	for _, clause := range strings.Split(header, ";") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		kv := strings.SplitN(clause, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(kv[0]))
		value := strings.TrimSpace(kv[1])

		switch key {
		case "responseformat":
			var formats []ResponseFormat
			for _, f := range strings.Split(value, ",") {
				switch strings.ToLower(strings.TrimSpace(f)) {
				case "parquet":
					formats = append(formats, FormatParquet)
				case "delta":
					formats = append(formats, FormatDelta)
				}
			}
			if len(formats) > 0 {
				caps.ResponseFormats = formats
			}
		case "readerfeatures":
			for _, f := range strings.Split(value, ",") {
				if f = strings.TrimSpace(f); f != "" {
					caps.ReaderFeatures = append(caps.ReaderFeatures, f)
				}
			}
		case "includeendstreamaction":
			caps.IncludeEndStreamAction = strings.EqualFold(value, "true")
		}
	}
	return caps
}

// SelectFormat picks the concrete format to serve a snapshot in: when both
// formats are advertised, "delta" wins iff the table's metadata requires
// it; "parquet" otherwise.
func (c Capabilities) SelectFormat(requiresDelta bool) ResponseFormat {
	hasParquet, hasDelta := false, false
	for _, f := range c.ResponseFormats {
		switch f {
		case FormatParquet:
			hasParquet = true
		case FormatDelta:
			hasDelta = true
		}
	}
	switch {
	case hasDelta && hasParquet:
		if requiresDelta {
			return FormatDelta
		}
		return FormatParquet
	case hasDelta:
		return FormatDelta
	default:
		return FormatParquet
	}
}

// ResponseHeader is the value this server always advertises back on NDJSON
// endpoints, optionally echoing includeendstreamaction.
func ResponseHeader(includeEndStreamAction bool) string {
	if includeEndStreamAction {
		return "responseformat=parquet,delta;includeendstreamaction=true"
	}
	return "responseformat=parquet,delta"
}
