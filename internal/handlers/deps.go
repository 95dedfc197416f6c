// Package handlers implements the Protocol Router (C8): mapping HTTP
// paths to handlers, parsing query/body, and emitting NDJSON framing.
package handlers

import (
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/auth"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/cache"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/catalog"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/config"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/signer"
)

// Deps bundles every collaborator the router wires into request handling.
type Deps struct {
	Config        *config.Config
	Catalog       catalog.Catalog
	Snapshots     *cache.SnapshotCache
	Authenticator *auth.Authenticator
	FileSigner    signer.Signer
	S3Signer      signer.Signer
}
