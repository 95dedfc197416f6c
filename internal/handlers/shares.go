package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/efranceschi/delta-sharing-gateway-sub001/internal/errors"
)

type shareDTO struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

func (d *Deps) listShares(c *gin.Context) {
	pageToken, maxResults := pageParams(c)
	result, err := d.Catalog.ListShares(c.Request.Context(), pageToken, maxResults)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}

	items := make([]shareDTO, 0, len(result.Items))
	for _, s := range result.Items {
		items = append(items, shareDTO{Name: s.Name, ID: s.ID})
	}
	c.JSON(http.StatusOK, listEnvelope{Items: items, NextPageToken: result.NextPageToken})
}

func (d *Deps) getShare(c *gin.Context) {
	share, err := d.Catalog.GetShare(c.Request.Context(), c.Param("share"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"share": shareDTO{Name: share.Name, ID: share.ID}})
}
