package service

// Pagination is the envelope attached to every paged listing.
type Pagination struct {
	TotalDocuments int64 `json:"totalDocuments"`
	CurrentPage    int   `json:"currentPage"`
	PageSize       int   `json:"pageSize"`
	TotalPages     int64 `json:"totalPages"`
}

// NewPagination derives the envelope from a total count and the requested
// window. An empty result set reports zero total pages, not one.
func NewPagination(total int64, page, pageSize int) Pagination {
	var totalPages int64
	if total > 0 {
		totalPages = (total + int64(pageSize) - 1) / int64(pageSize)
	}

	return Pagination{
		TotalDocuments: total,
		CurrentPage:    page,
		PageSize:       pageSize,
		TotalPages:     totalPages,
	}
}
