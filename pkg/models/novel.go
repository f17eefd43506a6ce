package models

import (
	"strings"

	"github.com/uptrace/bun"
)

const (
	NovelStatusOngoing   = "Ongoing"
	NovelStatusCompleted = "Completed"
	NovelStatusUnknown   = "Unknown"
)

var NovelStatuses = []string{NovelStatusOngoing, NovelStatusCompleted, NovelStatusUnknown}

type Novel struct {
	bun.BaseModel `bun:"table:novels,alias:n"`

	ID            string     `bun:",pk" json:"id"`
	Title         string     `bun:",notnull" json:"title"`
	OriginalTitle *string    `json:"originalTitle,omitempty"`
	Cover         *string    `json:"cover,omitempty"`
	Source        string     `bun:",notnull" json:"source"`
	URL           string     `bun:"url,notnull" json:"url"`
	Summary       string     `bun:",notnull" json:"summary"`
	Author        *string    `json:"author,omitempty"`
	Status        *string    `json:"status,omitempty"`
	Genres        StringList `bun:"type:text,notnull" json:"genres"`
	ChaptersCount int        `bun:",notnull" json:"chaptersCount"`
	LastUpdated   int64      `bun:",notnull" json:"lastUpdated"`
	DateAdded     int64      `bun:",notnull" json:"dateAdded"`
}

// NormalizeNovelStatus maps free text onto one of the known statuses,
// falling back to NovelStatusUnknown.
func NormalizeNovelStatus(s string) string {
	s = strings.TrimSpace(s)
	for _, status := range NovelStatuses {
		if strings.EqualFold(s, status) {
			return status
		}
	}
	switch strings.ToLower(s) {
	case "complete", "finished", "完结", "完本", "已完结", "完結":
		return NovelStatusCompleted
	case "serializing", "in progress", "连载", "连载中", "連載", "連載中":
		return NovelStatusOngoing
	}
	return NovelStatusUnknown
}
