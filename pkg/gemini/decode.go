package gemini

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/arcanetranslator/arcane/pkg/translation"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

type novelDetailsResponse struct {
	TitleOriginal     string   `json:"novel_title_original"`
	TitleTranslated   string   `json:"novel_title_translated"`
	SummaryTranslated string   `json:"novel_summary_translated"`
	AuthorTranslated  string   `json:"novel_author_translated"`
	Genres            []string `json:"possible_novel_genres"`
	ChapterCount      count    `json:"number_of_chapters"`
	Status            string   `json:"status"`
}

type chapterResponse struct {
	TranslatedTitle   string   `json:"translated_chapter_title"`
	OriginalTitle     string   `json:"original_chapter_title"`
	TranslatedContent string   `json:"translated_chapter_contents"`
	NewGenres         []string `json:"possible_new_genres"`
}

// count accepts both 120 and "120". Anything else unmarshals to 0.
type count int

func (c *count) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			*c = 0
			return nil
		}
		n = int(f)
	}
	*c = count(n)
	return nil
}

func decodeNovelDetails(text string) (*translation.NovelDetails, error) {
	var res novelDetailsResponse
	if err := json.Unmarshal(cleanJSON(text), &res); err != nil {
		return nil, errors.Wrap(err, "failed to decode novel details")
	}
	return &translation.NovelDetails{
		TitleOriginal:     res.TitleOriginal,
		TitleTranslated:   res.TitleTranslated,
		SummaryTranslated: res.SummaryTranslated,
		AuthorTranslated:  res.AuthorTranslated,
		Genres:            res.Genres,
		ChapterCount:      int(res.ChapterCount),
		Status:            res.Status,
	}, nil
}

func decodeChapter(text string) (*translation.ChapterTranslation, error) {
	var res chapterResponse
	if err := json.Unmarshal(cleanJSON(text), &res); err != nil {
		return nil, errors.Wrap(err, "failed to decode chapter translation")
	}
	return &translation.ChapterTranslation{
		TranslatedTitle:   res.TranslatedTitle,
		OriginalTitle:     res.OriginalTitle,
		TranslatedContent: res.TranslatedContent,
		NewGenres:         res.NewGenres,
	}, nil
}

// cleanJSON drops a markdown code fence around the object, which models
// sometimes add even when asked for JSON.
func cleanJSON(text string) []byte {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return []byte(strings.TrimSpace(s))
}
