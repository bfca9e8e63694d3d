package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// PageSize is the fixed page size for list views
const PageSize = 10

// Pagination describes one page of a filtered result set. Total is the
// true count under the filter predicate, not a page-derived estimate.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// pageParam reads the 1-indexed page query parameter, defaulting to 1
func pageParam(c echo.Context) int {
	page := 1
	if raw := c.QueryParam("page"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil && p > 0 {
			page = p
		}
	}
	return page
}

// paginationMeta builds the response metadata for a filtered total
func paginationMeta(page int, total int64) Pagination {
	totalPages := int((total + int64(PageSize) - 1) / int64(PageSize))
	return Pagination{
		Page:       page,
		PageSize:   PageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
