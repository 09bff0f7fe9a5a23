package pagination

// Meta describes the page of results that was returned.
type Meta struct {
	CurrentPage int  `json:"current_page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	TotalItems  int  `json:"total_items"`
	HasPrevious bool `json:"has_previous"`
	HasNext     bool `json:"has_next"`
}

// NewMeta builds paging metadata for totalCount items.
func NewMeta(p Params, totalCount int) Meta {
	pageSize := p.PageSize
	if pageSize == 0 {
		pageSize = p.Limit
	}
	if pageSize == 0 {
		pageSize = totalCount
	}

	currentPage := p.Page
	if currentPage == 0 && p.Offset > 0 && pageSize > 0 {
		currentPage = p.Offset/pageSize + 1
	}
	if currentPage == 0 {
		currentPage = 1
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}

	return Meta{
		CurrentPage: currentPage,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		TotalItems:  totalCount,
		HasPrevious: currentPage > 1,
		HasNext:     currentPage < totalPages,
	}
}
