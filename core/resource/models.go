package resource

import (
	"time"

	"github.com/trezcool/studyhub/core"
)

// Category is an independent collection of resources.
type Category string

// Categories
const (
	Notes    Category = "notes"
	Syllabus Category = "syllabus"
	Videos   Category = "videos"
	PYQs     Category = "pyqs" // previous year questions
)

var Categories = []Category{Notes, Syllabus, Videos, PYQs}

func (c Category) IsValid() bool {
	for _, cat := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// ParseCategory fails with a core.ErrNotFound error for unknown categories.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", errInvalidCategory(c)
	}
	return c, nil
}

func errInvalidCategory(c Category) error {
	return core.NewError(core.ErrNotFound, "invalid resource type: "+string(c))
}

// NotFoundError is the error of a missing resource `id`.
func NotFoundError(id string) error {
	return core.NewError(core.ErrNotFound, "resource not found with ID: "+id)
}

// Action is an engagement of a user with a resource. Each one increments its own counter.
type Action string

// Actions
const (
	Like     Action = "like"
	View     Action = "view"
	Download Action = "download"
	Bookmark Action = "bookmark"
)

var Actions = []Action{Like, View, Download, Bookmark}

func (a Action) IsValid() bool {
	for _, act := range Actions {
		if a == act {
			return true
		}
	}
	return false
}

// Stats are the engagement counters of a resource. Videos have no Downloads until downloaded.
type Stats struct {
	Likes     int  `json:"likes"`
	Views     int  `json:"views"`
	Downloads *int `json:"downloads,omitempty"`
	Bookmarks int  `json:"bookmarks"`
}

// Downloads returns a downloads counter starting at n.
func Downloads(n int) *int { return &n }

// NewStats returns the zeroed stats of a new resource of c.
func NewStats(c Category) Stats {
	if c == Videos {
		return Stats{}
	}
	return Stats{Downloads: Downloads(0)}
}

// Counter returns the counter incremented by act.
func (s *Stats) Counter(act Action) *int {
	switch act {
	case Like:
		return &s.Likes
	case View:
		return &s.Views
	case Download:
		// copies of s keep their own count, a video's counter starts on its first download
		n := 0
		if s.Downloads != nil {
			n = *s.Downloads
		}
		s.Downloads = Downloads(n)
		return s.Downloads
	case Bookmark:
		return &s.Bookmarks
	}
	return nil
}

func (s Stats) Add(o Stats) Stats {
	sum := Stats{
		Likes:     s.Likes + o.Likes,
		Views:     s.Views + o.Views,
		Bookmarks: s.Bookmarks + o.Bookmarks,
	}
	if s.Downloads != nil || o.Downloads != nil {
		n := 0
		for _, d := range []*int{s.Downloads, o.Downloads} {
			if d != nil {
				n += *d
			}
		}
		sum.Downloads = &n
	}
	return sum
}

// Resource is a study material. Its ID is unique within its Category only.
type Resource struct {
	ID           string    `json:"id"`
	Category     Category  `json:"category"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Branch       string    `json:"branch"`
	Year         string    `json:"year"`
	Semester     string    `json:"semester"`
	Subject      string    `json:"subject,omitempty"`
	FileURL      string    `json:"fileUrl,omitempty"`
	VideoURL     string    `json:"videoUrl,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	Duration     string    `json:"duration,omitempty"`
	UploadedBy   string    `json:"uploadedBy"`
	UploadDate   time.Time `json:"uploadDate"` // UTC
	Stats        Stats     `json:"stats"`
}

// NewResource contains information needed to upload a Resource.
type NewResource struct {
	Title        string `json:"title" validate:"required,notblank"`
	Description  string `json:"description"`
	Branch       string `json:"branch" validate:"required,notblank"`
	Year         string `json:"year"`
	Semester     string `json:"semester"`
	Subject      string `json:"subject"`
	FileURL      string `json:"fileUrl" validate:"omitempty,url"`
	VideoURL     string `json:"videoUrl" validate:"omitempty,url"`
	ThumbnailURL string `json:"thumbnailUrl" validate:"omitempty,url"`
	Duration     string `json:"duration"`
	UploadedBy   string `json:"uploadedBy"`
}

func (nr *NewResource) Clean() {
	nr.Title = core.CleanString(nr.Title)
	nr.Description = core.CleanString(nr.Description)
	nr.Branch = core.CleanString(nr.Branch)
	nr.Year = core.CleanString(nr.Year)
	nr.Semester = core.CleanString(nr.Semester)
	nr.Subject = core.CleanString(nr.Subject)
	nr.FileURL = core.CleanString(nr.FileURL)
	nr.VideoURL = core.CleanString(nr.VideoURL)
	nr.ThumbnailURL = core.CleanString(nr.ThumbnailURL)
	nr.UploadedBy = core.CleanString(nr.UploadedBy)
}

// Overview sums up one category.
type Overview struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
	Stats    Stats    `json:"stats"`
}
