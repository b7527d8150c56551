package listview

import "github.com/cmlabs-hris/employee-directory/internal/pkg/validator"

// ViewResponse is returned when a view is opened.
type ViewResponse struct {
	ID       string   `json:"id"`
	Snapshot Snapshot `json:"snapshot"`
}

// PageResponse reports whether a page change was applied.
type PageResponse struct {
	Accepted bool     `json:"accepted"`
	Snapshot Snapshot `json:"snapshot"`
}

type SearchRequest struct {
	Query string `json:"query"`
}

type PageRequest struct {
	Page *int `json:"page"`
}

func (r *PageRequest) Validate() error {
	if r.Page == nil {
		return ErrInvalidPageParam
	}
	return nil
}

type SelectRequest struct {
	ID      string `json:"id"`
	Checked bool   `json:"checked"`
}

func (r *SelectRequest) Validate() error {
	if validator.IsEmpty(r.ID) {
		return validator.ValidationErrors{{Field: "id", Message: "id is required"}}
	}
	return nil
}

type SelectAllRequest struct {
	Checked bool `json:"checked"`
}

type ViewModeRequest struct {
	Mode string `json:"mode"`
}

// ViewportRequest carries either the compact flag or the viewport width it is derived from.
type ViewportRequest struct {
	Compact bool `json:"compact"`
	Width   int  `json:"width,omitempty"`
}

// IsCompact prefers Width when given: below CompactViewportWidth the table no longer fits.
func (r ViewportRequest) IsCompact() bool {
	if r.Width > 0 {
		return r.Width < CompactViewportWidth
	}
	return r.Compact
}

type DeleteRequest struct {
	ID string `json:"id"`
}

func (r *DeleteRequest) Validate() error {
	if validator.IsEmpty(r.ID) {
		return validator.ValidationErrors{{Field: "id", Message: "id is required"}}
	}
	return nil
}
