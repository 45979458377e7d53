package announcement

import (
	"strings"
	"time"

	"github.com/trezcool/studyhub/core"
)

// TargetAll addresses an announcement to every branch.
const TargetAll = "all"

type Priority string

// Priorities
const (
	Low    Priority = "low"
	Medium Priority = "medium"
	High   Priority = "high"
)

func (p Priority) IsValid() bool {
	return p == Low || p == Medium || p == High
}

type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Target    []string  `json:"target"` // TargetAll or branch names
	Priority  Priority  `json:"priority"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"` // UTC
}

// IsFor reports whether the announcement targets branch. An empty branch only sees announcements for all.
func (a Announcement) IsFor(branch string) bool {
	for _, t := range a.Target {
		if strings.EqualFold(t, TargetAll) || (branch != "" && strings.EqualFold(t, branch)) {
			return true
		}
	}
	return false
}

func (a Announcement) IsForAll() bool {
	return a.IsFor("")
}

// NewAnnouncement contains information needed to publish an Announcement.
// Target defaults to TargetAll and Priority to Medium.
type NewAnnouncement struct {
	Title     string   `json:"title" validate:"required,notblank"`
	Content   string   `json:"content" validate:"required,notblank"`
	Target    []string `json:"target" validate:"dive,notblank"`
	Priority  Priority `json:"priority" validate:"omitempty,priority"`
	CreatedBy string   `json:"createdBy"`
}

func (na *NewAnnouncement) Clean() {
	na.Title = core.CleanString(na.Title)
	na.Content = core.CleanString(na.Content)
	na.Priority = Priority(core.CleanString(string(na.Priority), true /* lower */))
	for i, t := range na.Target {
		na.Target[i] = core.CleanString(t)
	}
	if len(na.Target) == 0 {
		na.Target = []string{TargetAll}
	}
	if na.Priority == "" {
		na.Priority = Medium
	}
}

// QueryFilter narrows an announcement listing. Branch keeps the announcements targeting it.
type QueryFilter struct {
	Branch string
}
