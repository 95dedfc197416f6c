package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/efranceschi/delta-sharing-gateway-sub001/internal/errors"
)

// SetupRouter configures the Gin engine serving the Delta Sharing protocol
// surface. Exposed for tests.
func SetupRouter(deps *Deps) *gin.Engine {
	r := gin.Default()
	r.Use(apperrors.ErrorHandler())
	r.Use(corsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	shares := r.Group("/delta-sharing", deps.Authenticator.Middleware())
	{
		shares.GET("/shares", deps.listShares)
		shares.GET("/shares/:share", deps.getShare)
		shares.GET("/shares/:share/schemas", deps.listSchemas)
		shares.GET("/shares/:share/all-tables", deps.listAllTables)
		shares.GET("/shares/:share/schemas/:schema/tables", deps.listTables)
		shares.GET("/shares/:share/schemas/:schema/tables/:table/version", deps.tableVersion)
		shares.GET("/shares/:share/schemas/:schema/tables/:table/metadata", deps.tableMetadata)
		shares.POST("/shares/:share/schemas/:schema/tables/:table/query", deps.tableQuery)
		shares.GET("/shares/:share/schemas/:schema/tables/:table/changes", deps.tableChanges)

		if deps.Config.EnableDuckDBCheck {
			shares.GET("/admin/shares/:share/schemas/:schema/tables/:table/consistency", deps.tableConsistency)
		}
	}

	return r
}

// corsMiddleware allows browser-based clients (e.g. notebook front ends)
// to call the sharing endpoints from a different origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization,Delta-Sharing-Capabilities")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
