package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/duckdb"
	apperrors "github.com/efranceschi/delta-sharing-gateway-sub001/internal/errors"
)

// consistencyReport is the response body of the consistency check endpoint.
type consistencyReport struct {
	Version           int64 `json:"version"`
	SnapshotRowCount  int64 `json:"snapshotRowCount"`
	DuckDBRowCount    int64 `json:"duckdbRowCount"`
	FilesMissingStats int   `json:"filesMissingStats"`
	Consistent        bool  `json:"consistent"`
}

// tableConsistency serves the admin-only Snapshot Consistency Checker
// (C12): it cross-checks the sum of this server's snapshot file statistics
// against DuckDB's own delta_scan row count for the same storage root. Only
// mounted when ENABLE_DUCKDB_CHECK is set; never part of the client-facing
// sharing protocol.
func (d *Deps) tableConsistency(c *gin.Context) {
	table, ok := d.resolveTable(c)
	if !ok {
		return
	}

	snap, err := d.loadLatestSnapshot(c.Request.Context(), table.ID, table.StorageURI)
	if err != nil {
		apperrors.HandleError(c, translateSnapshotErr(err, tableResource(table.Share, table.Schema, table.Name)))
		return
	}

	pool, err := duckdb.GetPool()
	if err != nil {
		apperrors.HandleError(c, apperrors.Unavailable("duckdb consistency checker unavailable", err))
		return
	}

	var snapshotRows int64
	var missingStats int
	for _, f := range snap.Files {
		if f.Stats == nil {
			missingStats++
			continue
		}
		snapshotRows += f.Stats.NumRecords
	}

	duckRows, err := pool.RowCount(c.Request.Context(), table.StorageURI)
	if err != nil {
		apperrors.HandleError(c, apperrors.Unavailable("duckdb row count failed", err))
		return
	}

	c.JSON(http.StatusOK, consistencyReport{
		Version:           snap.Version,
		SnapshotRowCount:  snapshotRows,
		DuckDBRowCount:    duckRows,
		FilesMissingStats: missingStats,
		Consistent:        missingStats == 0 && snapshotRows == duckRows,
	})
}
