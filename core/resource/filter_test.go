package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	rs := []Resource{
		{ID: "1", Title: "Data Structures and Algorithms", Description: "trees and graphs", Branch: "Computer Science", Year: "2", Semester: "1", Subject: "Data Structures"},
		{ID: "2", Title: "Database Management Systems", Description: "SQL queries", Branch: "Computer Science", Year: "2", Semester: "2", Subject: "DBMS"},
		{ID: "3", Title: "Circuits", Description: "Kirchhoff laws", Branch: "Electrical Engineering", Year: "1", Semester: "1", Subject: "Circuits"},
	}

	tests := []struct {
		name    string
		filter  QueryFilter
		wantIDs []string
	}{
		{name: "empty", filter: QueryFilter{}, wantIDs: []string{"1", "2", "3"}},
		{name: "all values", filter: QueryFilter{Branch: Any, Year: Any, Semester: Any, Subject: Any}, wantIDs: []string{"1", "2", "3"}},
		{name: "branch", filter: QueryFilter{Branch: "Computer Science"}, wantIDs: []string{"1", "2"}},
		{name: "branch is exact", filter: QueryFilter{Branch: "computer science"}, wantIDs: []string{}},
		{name: "year and semester", filter: QueryFilter{Year: "2", Semester: "2"}, wantIDs: []string{"2"}},
		{name: "subject", filter: QueryFilter{Subject: "Circuits"}, wantIDs: []string{"3"}},
		{name: "search title", filter: QueryFilter{Search: "DATA"}, wantIDs: []string{"1", "2"}},
		{name: "search description", filter: QueryFilter{Search: "kirchhoff"}, wantIDs: []string{"3"}},
		{name: "combined", filter: QueryFilter{Branch: "Computer Science", Search: "sql"}, wantIDs: []string{"2"}},
		{name: "no match", filter: QueryFilter{Year: "4"}, wantIDs: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(rs, tt.filter)
			assert.NotNil(t, got)
			ids := make([]string, 0, len(got))
			for _, r := range got {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
	assert.Len(t, rs, 3, "input untouched")
}

func TestFilter_nilInput(t *testing.T) {
	got := Filter(nil, QueryFilter{Search: "x"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestQueryFilter_IsEmpty(t *testing.T) {
	assert.True(t, QueryFilter{}.IsEmpty())
	assert.True(t, QueryFilter{Branch: Any, Year: Any}.IsEmpty())
	assert.False(t, QueryFilter{Search: "x"}.IsEmpty())
	assert.False(t, QueryFilter{Semester: "1"}.IsEmpty())
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, err := ParseCategory(string(c))
		assert.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseCategory("books")
	assert.EqualError(t, err, "invalid resource type: books")
}
