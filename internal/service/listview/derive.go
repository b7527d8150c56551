package listview

import (
	"strings"

	"github.com/cmlabs-hris/employee-directory/internal/domain/employee"
)

// View is the part of a list view computed from data, query and page alone.
type View struct {
	Filtered   []employee.Employee
	TotalPages int
	Items      []employee.Employee
}

// Derive filters employees by query and cuts out page. It has no side effects and never
// modifies its input. TotalPages is 0 when nothing matches; Items is empty for any page
// outside 1..TotalPages.
func Derive(employees []employee.Employee, query string, page, perPage int) View {
	if perPage < 1 {
		perPage = 1
	}

	filtered := Filter(employees, query)
	totalPages := (len(filtered) + perPage - 1) / perPage

	items := []employee.Employee{}
	if page >= 1 && page <= totalPages {
		start := (page - 1) * perPage
		end := start + perPage
		if end > len(filtered) {
			end = len(filtered)
		}
		items = append(items, filtered[start:end]...)
	}

	return View{
		Filtered:   filtered,
		TotalPages: totalPages,
		Items:      items,
	}
}

// Filter keeps employees whose first name, last name, email, department or position contains
// query, ignoring case. An empty query keeps everything.
func Filter(employees []employee.Employee, query string) []employee.Employee {
	out := make([]employee.Employee, 0, len(employees))
	if query == "" {
		return append(out, employees...)
	}

	q := strings.ToLower(query)
	for _, e := range employees {
		if matches(e, q) {
			out = append(out, e)
		}
	}
	return out
}

func matches(e employee.Employee, lowerQuery string) bool {
	for _, field := range []string{
		e.FirstName,
		e.LastName,
		e.Email,
		string(e.Department),
		string(e.Position),
	} {
		if strings.Contains(strings.ToLower(field), lowerQuery) {
			return true
		}
	}
	return false
}
