package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/capability"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/catalog"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/deltalog"
	apperrors "github.com/efranceschi/delta-sharing-gateway-sub001/internal/errors"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/signer"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/utils"
)

// resolveTable validates the three path segments and looks up the table,
// mapping catalog misses and bad segments onto the protocol error taxonomy.
func (d *Deps) resolveTable(c *gin.Context) (catalog.Table, bool) {
	share, schema, table := c.Param("share"), c.Param("schema"), c.Param("table")

	segments := []struct{ kind, name string }{
		{"share", share}, {"schema", schema}, {"table", table},
	}
	for _, s := range segments {
		if err := utils.ValidatePathSegment(s.kind, s.name); err != nil {
			apperrors.HandleError(c, apperrors.InvalidParameter(err.Error()))
			return catalog.Table{}, false
		}
	}

	t, err := d.Catalog.ResolveTable(c.Request.Context(), share, schema, table)
	if err != nil {
		apperrors.HandleError(c, err)
		return catalog.Table{}, false
	}
	return t, true
}

// capabilitiesOf parses the request's negotiation header.
func capabilitiesOf(c *gin.Context) capability.Capabilities {
	return capability.Parse(c.GetHeader("Delta-Sharing-Capabilities"))
}

// signerFor picks the URL signer backing a table's storage scheme.
func (d *Deps) signerFor(t catalog.Table) signer.Signer {
	return signer.Select(t.StorageURI, d.FileSigner, d.S3Signer)
}

func (d *Deps) urlTTL() time.Duration {
	return time.Duration(d.Config.URLTTLSeconds) * time.Second
}

func tableResource(share, schema, table string) string {
	return fmt.Sprintf("table %s.%s.%s", share, schema, table)
}

// translateSnapshotErr maps the deltalog reader's sentinel errors onto the
// protocol error taxonomy; any other error is a 503, since it most often
// means the storage backend is unreachable.
func translateSnapshotErr(err error, resource string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, deltalog.ErrNotFound):
		return apperrors.NotFound(resource)
	case errors.Is(err, deltalog.ErrIncompleteLog), errors.Is(err, deltalog.ErrCorruptLog):
		return apperrors.Internal("table transaction log is corrupt or incomplete", err)
	case deltalog.IsChangeDataFeedDisabled(err):
		return apperrors.InvalidParameter("Change data feed is not enabled on this table")
	default:
		return apperrors.Unavailable("could not read table storage", err)
	}
}
