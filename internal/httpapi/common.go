package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseIDParam extracts a positive int64 path parameter or responds 400.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, fmt.Errorf("invalid %s: %q", name, raw))
		return 0, false
	}
	return id, true
}
