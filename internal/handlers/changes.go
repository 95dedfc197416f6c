package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/capability"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/deltalog"
	apperrors "github.com/efranceschi/delta-sharing-gateway-sub001/internal/errors"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/synthesize"
)

// tableChanges serves GET .../tables/{table}/changes: an NDJSON change
// data feed over [startingVersion, endingVersion].
func (d *Deps) tableChanges(c *gin.Context) {
	table, ok := d.resolveTable(c)
	if !ok {
		return
	}

	startingVersion, err := strconv.ParseInt(c.Query("startingVersion"), 10, 64)
	if err != nil {
		apperrors.HandleError(c, apperrors.InvalidParameter("startingVersion is required and must be an integer"))
		return
	}

	endingVersion := startingVersion
	if raw := c.Query("endingVersion"); raw != "" {
		endingVersion, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			apperrors.HandleError(c, apperrors.InvalidParameter("endingVersion must be an integer"))
			return
		}
	} else {
		endingVersion, err = deltalog.LatestVersion(table.StorageURI)
		if err != nil {
			apperrors.HandleError(c, translateSnapshotErr(err, tableResource(table.Share, table.Schema, table.Name)))
			return
		}
	}
	if endingVersion < startingVersion {
		apperrors.HandleError(c, apperrors.InvalidParameter("endingVersion must be >= startingVersion"))
		return
	}

	ctx := c.Request.Context()
	snap, entries, err := deltalog.LoadChanges(table.StorageURI, startingVersion, endingVersion)
	if err != nil {
		apperrors.HandleError(c, translateSnapshotErr(err, tableResource(table.Share, table.Schema, table.Name)))
		return
	}

	caps := capabilitiesOf(c)
	format := caps.SelectFormat(snap.RequiresDeltaFormat())
	ttl := d.urlTTL()
	fileSigner := d.signerFor(table)

	lines := []synthesize.StreamLine{
		synthesize.BuildProtocolLine(snap.Protocol, format),
		synthesize.BuildMetadataLine(snap.Metadata, snap.Files, format),
	}
	for _, e := range entries {
		select {
		case <-ctx.Done():
			return
		default:
		}
		signed, err := fileSigner.Sign(ctx, table.StorageURI, e.Path, ttl)
		if err != nil {
			apperrors.HandleError(c, apperrors.Unavailable("could not sign file URL", err))
			return
		}
		lines = append(lines, synthesize.BuildChangeLine(e, signed))
	}

	writeNDJSON(c, snap.Version, capability.ResponseHeader(caps.IncludeEndStreamAction), lines)
}
