package common

// PaginationResponse represents pagination metadata
type PaginationResponse struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
}

// CountResponse reports how many records an operation touched
type CountResponse struct {
	Count int `json:"count"`
}

// URLResponse carries a single download URL
type URLResponse struct {
	URL string `json:"url"`
}
