package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/synthesize"
)

// writeNDJSON sets the protocol's streaming response headers and writes one
// StreamLine per line, flushing after each so a slow client can apply
// backpressure without the server buffering the whole response. It stops
// early if the client disconnects.
func writeNDJSON(c *gin.Context, version int64, capabilitiesHeader string, lines []synthesize.StreamLine) {
	c.Writer.Header().Set("Content-Type", "application/x-ndjson; charset=utf-8")
	c.Writer.Header().Set("Delta-Table-Version", strconv.FormatInt(version, 10))
	c.Writer.Header().Set("Delta-Sharing-Capabilities", capabilitiesHeader)
	c.Writer.WriteHeader(http.StatusOK)

	flusher, canFlush := c.Writer.(http.Flusher)
	for _, line := range lines {
		select {
		case <-c.Request.Context().Done():
			return
		default:
		}

		b, err := line.Marshal()
		if err != nil {
			continue
		}
		c.Writer.Write(b)
		c.Writer.Write([]byte("\n"))
		if canFlush {
			flusher.Flush()
		}
	}
}
