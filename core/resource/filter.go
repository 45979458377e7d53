package resource

import (
	"strings"

	"github.com/trezcool/studyhub/core"
)

// Any is the filter value meaning "no constraint".
const Any = "All"

// QueryFilter narrows a resource listing.
// Empty or "All" fields are ignored, Search is a case-insensitive match on Title or Description.
type QueryFilter struct {
	Branch   string `query:"branch"`
	Year     string `query:"year"`
	Semester string `query:"semester"`
	Subject  string `query:"subject"`
	Search   string `query:"search"`
}

func (qf *QueryFilter) Clean() {
	qf.Branch = core.CleanString(qf.Branch)
	qf.Year = core.CleanString(qf.Year)
	qf.Semester = core.CleanString(qf.Semester)
	qf.Subject = core.CleanString(qf.Subject)
	qf.Search = core.CleanString(qf.Search)
}

func (qf QueryFilter) IsEmpty() bool {
	return isAny(qf.Branch) && isAny(qf.Year) && isAny(qf.Semester) && isAny(qf.Subject) && qf.Search == ""
}

// Match applies every set field of the filter on r.
func (qf QueryFilter) Match(r Resource) bool {
	if !isAny(qf.Branch) && r.Branch != qf.Branch {
		return false
	}
	if !isAny(qf.Year) && r.Year != qf.Year {
		return false
	}
	if !isAny(qf.Semester) && r.Semester != qf.Semester {
		return false
	}
	if !isAny(qf.Subject) && r.Subject != qf.Subject {
		return false
	}
	if qf.Search != "" {
		search := strings.ToLower(qf.Search)
		if !(strings.Contains(strings.ToLower(r.Title), search) ||
			strings.Contains(strings.ToLower(r.Description), search)) {
			return false
		}
	}
	return true
}

// Filter returns the resources matching qf, in their original order.
// It never returns nil and never modifies rs.
func Filter(rs []Resource, qf QueryFilter) []Resource {
	filtered := make([]Resource, 0, len(rs))
	for _, r := range rs {
		if qf.Match(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func isAny(v string) bool {
	return v == "" || v == Any
}
