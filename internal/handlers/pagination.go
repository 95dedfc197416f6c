package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

func pageParams(c *gin.Context) (pageToken string, maxResults int) {
	pageToken = c.Query("pageToken")
	if raw := c.Query("maxResults"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			maxResults = n
		}
	}
	return pageToken, maxResults
}

type listEnvelope struct {
	Items         interface{} `json:"items"`
	NextPageToken string      `json:"nextPageToken,omitempty"`
}
