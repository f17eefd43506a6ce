package models

import (
	"github.com/uptrace/bun"
)

const (
	LanguageChinese  = "Chinese"
	LanguageJapanese = "Japanese"
	LanguageKorean   = "Korean"
	LanguageOther    = "Other"
)

type Source struct {
	bun.BaseModel `bun:"table:sources,alias:s"`

	ID       string  `bun:",pk" json:"id"`
	Name     string  `bun:",notnull" json:"name"`
	URL      string  `bun:"url,notnull" json:"url"`
	Language string  `bun:",notnull" json:"language"`
	Icon     *string `json:"icon,omitempty"`
}
