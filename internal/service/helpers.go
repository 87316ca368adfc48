package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/edupress/academy-api/internal/apperr"
)

// notFoundOr translates a missing record into the NotFound kind so callers
// cannot distinguish "absent" from "outside your scope".
func notFoundOr(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFoundf(format, args...)
	}
	return err
}

// pageCount derives the total number of pages for a 1-based pagination meta.
func pageCount(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if pages < 1 {
		pages = 1
	}
	return pages
}

// normalizePage clamps page/limit query values to sane defaults.
func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
