package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/deltalog"
	apperrors "github.com/efranceschi/delta-sharing-gateway-sub001/internal/errors"
)

// tableVersion serves GET .../tables/{table}/version. An optional
// startingTimestamp query parameter resolves to the latest version
// committed at or before that instant.
func (d *Deps) tableVersion(c *gin.Context) {
	table, ok := d.resolveTable(c)
	if !ok {
		return
	}

	var version int64
	var err error
	if ts := c.Query("startingTimestamp"); ts != "" {
		t, perr := time.Parse(time.RFC3339, ts)
		if perr != nil {
			apperrors.HandleError(c, apperrors.InvalidParameter("startingTimestamp must be RFC3339"))
			return
		}
		version, err = deltalog.VersionAsOf(table.StorageURI, t.UnixMilli())
	} else {
		version, err = deltalog.LatestVersion(table.StorageURI)
	}
	if err != nil {
		apperrors.HandleError(c, translateSnapshotErr(err, tableResource(table.Share, table.Schema, table.Name)))
		return
	}

	c.Header("Delta-Table-Version", strconv.FormatInt(version, 10))
	c.JSON(http.StatusOK, gin.H{"deltaTableVersion": version})
}
