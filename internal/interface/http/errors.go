package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/hireboard/internal/application"
	"github.com/oksasatya/hireboard/pkg/response"
	"github.com/oksasatya/hireboard/pkg/validation"
)

var kindStatus = map[application.Kind]int{
	application.KindValidation:     http.StatusBadRequest,
	application.KindAuthentication: http.StatusUnauthorized,
	application.KindAuthorization:  http.StatusForbidden,
	application.KindNotFound:       http.StatusNotFound,
	application.KindConflict:       http.StatusConflict,
}

// writeError maps a service error onto the response envelope. Unclassified
// errors are logged and answered with a generic 500.
func writeError(c *gin.Context, logger logrus.FieldLogger, err error) {
	status, ok := kindStatus[application.KindOf(err)]
	if !ok {
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"path":       c.FullPath(),
				"request_id": c.GetString("request_id"),
			}).Error("request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
		return
	}
	var details any
	if fields := application.FieldsOf(err); len(fields) > 0 {
		details = gin.H{"fields": fields}
	}
	response.Error[any](c, status, application.PublicMessage(err), details)
}

func bindError(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

// pageParams reads limit/offset query parameters; bad values fall back to defaults.
func pageParams(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
