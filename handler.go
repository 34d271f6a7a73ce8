package datatables

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Source yields the record collection a request runs against
type Source func(c *gin.Context) Queryable

// Handler wraps Process as a gin handler. Query parameters are taken from
// the request URL and the envelope is rendered as JSON.
func Handler(cols Columns, source Source) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := Process(cols, c.Request.URL.Query(), source(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
