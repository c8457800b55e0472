package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Entelsac/ENTEL-SAC/internal/constants"
)

// PageQuery is a validated page/limit pair read from a list request.
type PageQuery struct {
	Page  int
	Limit int
}

// ParsePageQuery reads page and limit from the query string. Out-of-range
// or unparseable values fall back to the defaults rather than erroring, so
// a sloppy client still gets a sane listing.
func ParsePageQuery(c *gin.Context) PageQuery {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))
	if err != nil || limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PageQuery{Page: page, Limit: limit}
}
