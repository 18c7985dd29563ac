package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shareloop/service-sharing/internal/domain/sharederr"
)

// writeError maps a domain error kind to its transport status. Access-denied
// not-founds carry their diagnostic reason only in server logs, never here.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch sharederr.KindOf(err) {
	case sharederr.KindNotFound:
		status = http.StatusNotFound
	case sharederr.KindInvalidState, sharederr.KindInvalidParameters:
		status = http.StatusBadRequest
	case sharederr.KindConflict:
		status = http.StatusConflict
	}
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	c.JSON(status, gin.H{"error": message})
}

// pageQuery reads the optional from/size pagination pair. Presence is
// forwarded as-is; the service layer validates the combination.
func pageQuery(c *gin.Context) (*int, *int, error) {
	var from, size *int
	if raw, ok := c.GetQuery("from"); ok {
		v, err := parseIntParam(raw, "from")
		if err != nil {
			return nil, nil, err
		}
		from = &v
	}
	if raw, ok := c.GetQuery("size"); ok {
		v, err := parseIntParam(raw, "size")
		if err != nil {
			return nil, nil, err
		}
		size = &v
	}
	return from, size, nil
}

func parseIntParam(raw, name string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, sharederr.NewInvalidParametersError("malformed " + name + " parameter: " + raw)
	}
	return v, nil
}
