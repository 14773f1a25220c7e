package handler

import (
	"enddit/backend/internal/repository"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	maxPageNumber   = 1_000_000

	totalCountHeader = "X-Total-Count"
	totalPagesHeader = "X-Total-Pages"
)

// pageFromQuery reads the page and limit query parameters. Without either
// of them the whole listing is selected.
func pageFromQuery(c *gin.Context) repository.Page {
	pageStr, hasPage := c.GetQuery("page")
	limitStr, hasLimit := c.GetQuery("limit")
	if !hasPage && !hasLimit {
		return repository.Page{}
	}

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	if page > maxPageNumber {
		page = maxPageNumber
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize // Max limit
	}

	return repository.Page{Number: page, Limit: limit}
}

// setPaginationHeaders reports the listing size next to a plain array body.
func setPaginationHeaders(c *gin.Context, totalItems int64, page repository.Page) {
	c.Header(totalCountHeader, strconv.FormatInt(totalItems, 10))
	if page.Limit > 0 {
		totalPages := (int(totalItems) + page.Limit - 1) / page.Limit
		c.Header(totalPagesHeader, strconv.Itoa(totalPages))
	}
}
