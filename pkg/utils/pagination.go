package utils

import "math"

const (
	// DefaultPageSize applies when the client sends no limit.
	DefaultPageSize = 20
	// MaxPageSize caps a single list page.
	MaxPageSize = 100
)

// PaginationParams is a normalized page request
type PaginationParams struct {
	Page  int
	Limit int
}

// PaginationMeta is returned in the meta block of list responses
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

// GetPaginationParams clamps page to >= 1 and limit to [1, MaxPageSize],
// using DefaultPageSize for a missing or negative limit.
func GetPaginationParams(page, limit int) PaginationParams {
	if page < 1 {
		page = 1
	}
	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	return PaginationParams{Page: page, Limit: limit}
}

// CalculateOffset returns the SQL offset
func (p PaginationParams) CalculateOffset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta builds the response metadata for totalCount rows.
func (p PaginationParams) Meta(totalCount int64) PaginationMeta {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int(math.Ceil(float64(totalCount) / float64(p.Limit)))
	}
	return PaginationMeta{
		Page:       p.Page,
		Limit:      p.Limit,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
