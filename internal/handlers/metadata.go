package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/capability"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/deltalog"
	apperrors "github.com/efranceschi/delta-sharing-gateway-sub001/internal/errors"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/synthesize"
)

// loadLatestSnapshot fetches (through the cache) the snapshot for a
// table's latest committed version.
func (d *Deps) loadLatestSnapshot(ctx context.Context, table string, storageURI string) (*deltalog.Snapshot, error) {
	version, err := deltalog.LatestVersion(storageURI)
	if err != nil {
		return nil, err
	}
	return d.Snapshots.GetOrLoad(ctx, table, version, func(ctx context.Context) (*deltalog.Snapshot, error) {
		return deltalog.Load(storageURI, &version)
	})
}

// tableMetadata serves GET .../tables/{table}/metadata: a two-line NDJSON
// response (protocol, metaData) describing the table's current schema.
func (d *Deps) tableMetadata(c *gin.Context) {
	table, ok := d.resolveTable(c)
	if !ok {
		return
	}

	snap, err := d.loadLatestSnapshot(c.Request.Context(), table.ID, table.StorageURI)
	if err != nil {
		apperrors.HandleError(c, translateSnapshotErr(err, tableResource(table.Share, table.Schema, table.Name)))
		return
	}

	caps := capabilitiesOf(c)
	format := caps.SelectFormat(snap.RequiresDeltaFormat())

	lines := []synthesize.StreamLine{
		synthesize.BuildProtocolLine(snap.Protocol, format),
		synthesize.BuildMetadataLine(snap.Metadata, snap.Files, format),
	}
	writeNDJSON(c, snap.Version, capability.ResponseHeader(caps.IncludeEndStreamAction), lines)
}
