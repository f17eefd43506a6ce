package sources

import (
	"github.com/arcanetranslator/arcane/pkg/models"
)

// Defaults are the sites the scraper knows how to read.
func Defaults() []*models.Source {
	return []*models.Source{
		{ID: "69shuba", Name: "69Shuba", URL: "https://www.69shuba.com", Language: models.LanguageChinese},
		{ID: "69yue", Name: "69Yue", URL: "https://www.69yue.top", Language: models.LanguageChinese},
		{ID: "doupo", Name: "Doupo", URL: "https://doupo.935666.xyz", Language: models.LanguageChinese},
		{ID: "shuhaige", Name: "Shuhaige", URL: "https://m.shuhaige.net", Language: models.LanguageChinese},
		{ID: "syosetu", Name: "Syosetu", URL: "https://ncode.syosetu.com", Language: models.LanguageJapanese},
		{ID: "twkan", Name: "Twkan", URL: "https://twkan.com", Language: models.LanguageChinese},
	}
}
