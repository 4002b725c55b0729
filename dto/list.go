package dto

import "github.com/customeros/mailbridge/internal/utils"

const DefaultPageSize = 10

// ListQuery carries the list filters as received on the query string.
// Empty strings and nil pointers mean "not supplied".
type ListQuery struct {
	LabelIDs        string `form:"label_ids"`
	MaxResults      *int64 `form:"max_results"`
	Q               string `form:"q"`
	PageToken       string `form:"page_token"`
	PageNumber      *int   `form:"page_number"`
	CollapseThreads bool   `form:"collapse_threads"`
}

// Page returns the 1-based page number, defaulting to 1.
func (q ListQuery) Page() int {
	if q.PageNumber == nil || *q.PageNumber < 1 {
		return 1
	}
	return *q.PageNumber
}

// PageSize returns max_results or DefaultPageSize.
func (q ListQuery) PageSize() int64 {
	if q.MaxResults == nil || *q.MaxResults <= 0 {
		return DefaultPageSize
	}
	return *q.MaxResults
}

// Labels splits the comma separated label filter.
func (q ListQuery) Labels() []string {
	return utils.StringToSlice(q.LabelIDs)
}

type ListResult struct {
	Messages           []MessageSummary `json:"messages"`
	NextPageToken      string           `json:"nextPageToken,omitempty"`
	Page               int              `json:"page"`
	NextPage           *int             `json:"next_page,omitempty"`
	ResultSizeEstimate int64            `json:"resultSizeEstimate"`
	Warning            string           `json:"warning,omitempty"`
	FailedIDs          []string         `json:"failed_ids,omitempty"`
}

// EmptyListResult is a page with no messages.
func EmptyListResult(page int) *ListResult {
	return &ListResult{
		Messages: []MessageSummary{},
		Page:     page,
	}
}
