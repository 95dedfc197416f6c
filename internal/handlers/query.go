package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/capability"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/catalog"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/deltalog"
	apperrors "github.com/efranceschi/delta-sharing-gateway-sub001/internal/errors"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/skipping"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/synthesize"
)

// queryRequest is the POST body of the table query endpoint.
type queryRequest struct {
	PredicateHints []string `json:"predicateHints"`
	LimitHint      *int     `json:"limitHint"`
	Version        *int64   `json:"version"`
	Timestamp      string   `json:"timestamp"`
}

// tableQuery serves POST .../tables/{table}/query: an NDJSON stream of
// protocol, metaData and one line per surviving file after data skipping.
func (d *Deps) tableQuery(c *gin.Context) {
	table, ok := d.resolveTable(c)
	if !ok {
		return
	}

	var req queryRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.HandleError(c, apperrors.InvalidParameter("malformed query request body"))
			return
		}
	}

	ctx := c.Request.Context()
	version, snap, err := d.resolveQuerySnapshot(ctx, table, req)
	if err != nil {
		apperrors.HandleError(c, translateSnapshotErr(err, tableResource(table.Share, table.Schema, table.Name)))
		return
	}

	predicates := skipping.ParseHints(req.PredicateHints)
	files := skipping.Prune(snap.Files, predicates, snap.Metadata.PartitionColumns)
	if req.LimitHint != nil && *req.LimitHint >= 0 && *req.LimitHint < len(files) {
		files = files[:*req.LimitHint]
	}

	caps := capabilitiesOf(c)
	format := caps.SelectFormat(snap.RequiresDeltaFormat())
	ttl := d.urlTTL()
	fileSigner := d.signerFor(table)

	lines := []synthesize.StreamLine{
		synthesize.BuildProtocolLine(snap.Protocol, format),
		synthesize.BuildMetadataLine(snap.Metadata, files, format),
	}
	minExpiration := int64(0)
	for _, f := range files {
		select {
		case <-ctx.Done():
			return
		default:
		}
		signed, err := fileSigner.Sign(ctx, table.StorageURI, f.Path, ttl)
		if err != nil {
			apperrors.HandleError(c, apperrors.Unavailable("could not sign file URL", err))
			return
		}
		if minExpiration == 0 || signed.ExpirationTimestampMs < minExpiration {
			minExpiration = signed.ExpirationTimestampMs
		}
		lines = append(lines, synthesize.BuildFileLine(f, signed, format))
	}
	if caps.IncludeEndStreamAction {
		lines = append(lines, synthesize.BuildEndStreamLine(minExpiration, "", ""))
	}

	writeNDJSON(c, version, capability.ResponseHeader(caps.IncludeEndStreamAction), lines)
}

// resolveQuerySnapshot picks the snapshot version a query request targets:
// an explicit version wins, then a timestamp, then the latest commit.
func (d *Deps) resolveQuerySnapshot(ctx context.Context, table catalog.Table, req queryRequest) (int64, *deltalog.Snapshot, error) {
	var version int64
	var err error

	switch {
	case req.Version != nil:
		version = *req.Version
	case req.Timestamp != "":
		var t int64
		t, err = parseQueryTimestamp(req.Timestamp)
		if err != nil {
			return 0, nil, err
		}
		version, err = deltalog.VersionAsOf(table.StorageURI, t)
	default:
		version, err = deltalog.LatestVersion(table.StorageURI)
	}
	if err != nil {
		return 0, nil, err
	}

	snap, err := d.Snapshots.GetOrLoad(ctx, table.ID, version, func(ctx context.Context) (*deltalog.Snapshot, error) {
		return deltalog.Load(table.StorageURI, &version)
	})
	if err != nil {
		return 0, nil, err
	}
	return version, snap, nil
}

// parseQueryTimestamp accepts the RFC3339 timestamps Delta Sharing clients
// send for time-travel queries and returns Unix milliseconds.
func parseQueryTimestamp(raw string) (int64, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return 0, apperrors.InvalidParameter("timestamp must be RFC3339")
	}
	return t.UnixMilli(), nil
}
