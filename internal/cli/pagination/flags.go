package pagination

import (
	"errors"
	"fmt"
	"strings"
)

// Sort orders and the sort string separator.
const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"

	sortPartsMax = 2
)

// Common validation errors.
var (
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'kwh:desc')")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortField  = errors.New("invalid sort field")
)

// Params holds the paging flags. Offset mode (--limit, --offset) and page
// mode (--page, --page-size) are mutually exclusive. A zero Limit means
// no limit.
type Params struct {
	Limit    int
	Offset   int
	Page     int
	PageSize int
}

// Validate checks bounds and that the two modes are not mixed.
func (p Params) Validate() error {
	if p.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	if p.Offset < 0 {
		return errors.New("offset cannot be negative")
	}
	if p.Page < 0 {
		return errors.New("page cannot be negative")
	}
	if p.PageSize < 0 {
		return errors.New("page-size cannot be negative")
	}
	if p.Page > 0 && p.Offset > 0 {
		return errors.New("page and offset parameters are mutually exclusive")
	}
	if p.Page == 0 && p.PageSize > 0 {
		return errors.New("page must be specified when using page-size")
	}
	if p.PageSize == 0 && p.Page > 0 {
		return errors.New("page-size must be specified when using page")
	}
	return nil
}

// IsPageBased returns true if page mode is active.
func (p Params) IsPageBased() bool {
	return p.Page > 0
}

// IsEnabled returns true if any paging flag is set.
func (p Params) IsEnabled() bool {
	return p.Limit > 0 || p.Offset > 0 || p.Page > 0
}

// OffsetLimit returns the effective offset and limit for either mode.
//
//nolint:nonamedreturns // Named returns document the pair.
func (p Params) OffsetLimit() (offset, limit int) {
	if p.IsPageBased() {
		return (p.Page - 1) * p.PageSize, p.PageSize
	}
	return p.Offset, p.Limit
}

// Apply returns the window of items selected by p. In page mode a page past
// the end is clamped to the last page; in offset mode it yields nothing.
func Apply[T any](p Params, items []T) []T {
	if len(items) == 0 {
		return items
	}

	offset, limit := p.OffsetLimit()
	if p.IsPageBased() && offset >= len(items) {
		offset = ((len(items) - 1) / p.PageSize) * p.PageSize
	}
	if offset >= len(items) {
		return []T{}
	}

	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// ParseSort parses "field" or "field:order". An empty string yields
// defaultOrder with no field.
//
//nolint:nonamedreturns // Named returns document the pair.
func ParseSort(sortStr, defaultOrder string) (field, order string, err error) {
	if strings.TrimSpace(sortStr) == "" {
		return "", defaultOrder, nil
	}

	parts := strings.Split(sortStr, ":")
	switch len(parts) {
	case 1:
		field = strings.TrimSpace(parts[0])
		order = defaultOrder
	case sortPartsMax:
		field = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	if field == "" {
		return "", "", ErrEmptySortField
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}
	return field, order, nil
}
