package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/catalog"
	apperrors "github.com/efranceschi/delta-sharing-gateway-sub001/internal/errors"
	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/utils"
)

type schemaDTO struct {
	Name  string `json:"name"`
	Share string `json:"share"`
}

type tableDTO struct {
	Name   string `json:"name"`
	Schema string `json:"schema"`
	Share  string `json:"share"`
	ID     string `json:"id"`
}

// validateSegments rejects malformed share/schema path params before they
// reach the catalog layer, mirroring resolveTable's validation in resolve.go.
func validateSegments(c *gin.Context, segments ...struct{ kind, name string }) bool {
	for _, s := range segments {
		if err := utils.ValidatePathSegment(s.kind, s.name); err != nil {
			apperrors.HandleError(c, apperrors.InvalidParameter(err.Error()))
			return false
		}
	}
	return true
}

func (d *Deps) listSchemas(c *gin.Context) {
	share := c.Param("share")
	if !validateSegments(c, struct{ kind, name string }{"share", share}) {
		return
	}

	pageToken, maxResults := pageParams(c)
	result, err := d.Catalog.ListSchemas(c.Request.Context(), share, pageToken, maxResults)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	items := make([]schemaDTO, 0, len(result.Items))
	for _, s := range result.Items {
		items = append(items, schemaDTO{Name: s.Name, Share: s.Share})
	}
	c.JSON(http.StatusOK, listEnvelope{Items: items, NextPageToken: result.NextPageToken})
}

func (d *Deps) listTables(c *gin.Context) {
	share, schema := c.Param("share"), c.Param("schema")
	if !validateSegments(c,
		struct{ kind, name string }{"share", share},
		struct{ kind, name string }{"schema", schema},
	) {
		return
	}

	pageToken, maxResults := pageParams(c)
	result, err := d.Catalog.ListTables(c.Request.Context(), share, schema, pageToken, maxResults)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, listEnvelope{Items: toTableDTOs(result.Items), NextPageToken: result.NextPageToken})
}

func (d *Deps) listAllTables(c *gin.Context) {
	share := c.Param("share")
	if !validateSegments(c, struct{ kind, name string }{"share", share}) {
		return
	}

	pageToken, maxResults := pageParams(c)
	result, err := d.Catalog.ListAllTables(c.Request.Context(), share, pageToken, maxResults)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, listEnvelope{Items: toTableDTOs(result.Items), NextPageToken: result.NextPageToken})
}

func toTableDTOs(tables []catalog.Table) []tableDTO {
	dtos := make([]tableDTO, 0, len(tables))
	for _, t := range tables {
		dtos = append(dtos, tableDTO{Name: t.Name, Schema: t.Schema, Share: t.Share, ID: t.ID})
	}
	return dtos
}
