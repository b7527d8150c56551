package listview

import "github.com/cmlabs-hris/employee-directory/internal/domain/employee"

const (
	DefaultItemsPerPage = 10

	// CompactViewportWidth is the width (px) under which the table layout no longer fits.
	CompactViewportWidth = 1110
)

type ViewMode string

const (
	ViewModeTable       ViewMode = "table"
	ViewModeCompactList ViewMode = "compact-list"
)

// ParseViewMode accepts the stored/requested form. "list" is the older name of compact-list.
func ParseViewMode(s string) (ViewMode, error) {
	switch s {
	case string(ViewModeTable):
		return ViewModeTable, nil
	case string(ViewModeCompactList), "list":
		return ViewModeCompactList, nil
	}
	return "", ErrInvalidViewMode
}

// Snapshot is what the presentation layer renders for one view.
type Snapshot struct {
	Items         []employee.Employee `json:"items"`
	TotalItems    int                 `json:"totalItems"`
	TotalPages    int                 `json:"totalPages"`
	CurrentPage   int                 `json:"currentPage"`
	ItemsPerPage  int                 `json:"itemsPerPage"`
	SearchQuery   string              `json:"searchQuery"`
	SelectedIDs   []string            `json:"selectedIds"`
	ViewMode      ViewMode            `json:"viewMode"`
	Compact       bool                `json:"compact"`
	PendingDelete *employee.Employee  `json:"pendingDelete,omitempty"`
}
