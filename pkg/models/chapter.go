package models

import (
	"github.com/uptrace/bun"
)

type Chapter struct {
	bun.BaseModel `bun:"table:chapters,alias:ch"`

	ID             string  `bun:",pk" json:"id"`
	NovelID        string  `bun:",notnull" json:"novelId"`
	Number         int     `bun:",notnull" json:"number"`
	Title          string  `bun:",notnull" json:"title"`
	OriginalTitle  *string `json:"originalTitle,omitempty"`
	Content        string  `bun:",notnull" json:"content"`
	DateTranslated int64   `bun:",notnull" json:"dateTranslated"`
	WordCount      *int    `json:"wordCount,omitempty"`
	URL            *string `bun:"url" json:"url,omitempty"`
}
