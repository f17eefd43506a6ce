package gemini

import (
	"strings"

	"google.golang.org/genai"
)

func novelDetailsPrompt(content string) string {
	return `You translate web novels into English.
Read the novel page below and pull out its details, translating them into English.

Page content:
` + content + `

Respond with a single JSON object containing:
- novel_title_original: the title in its original language
- novel_title_translated: the title in English
- novel_summary_translated: the summary in English as HTML paragraphs (<p>...</p>)
- novel_author_translated: the author's name in English, or an empty string if the page doesn't say
- possible_novel_genres: a list of genres that fit the novel
- number_of_chapters: the total number of chapters as an integer, 0 if unknown
- status: one of "Ongoing", "Completed" or "Unknown"

Return only the JSON object with no commentary.`
}

func chapterPrompt(knownGenres []string, content string) string {
	genres := "none"
	if len(knownGenres) > 0 {
		genres = strings.Join(knownGenres, ", ")
	}
	return `You are an experienced web novel translator and editor.
Translate the chapter below into natural, fluent English. Translate names of places, techniques, abilities and other terms instead of leaving them in the source language.
Smooth out awkward phrasing and make dialogue read naturally, but keep every part of the original. Don't add content of your own and don't skip or summarize anything.
Stop when the chapter ends.

Genres already known for this novel: ` + genres + `

Chapter content:
` + content + `

Respond with a single JSON object containing:
- translated_chapter_title: the chapter title in English (always required)
- original_chapter_title: the chapter title in the source language
- translated_chapter_contents: the full translated chapter as HTML paragraphs (<p>...</p>)
- possible_new_genres: genres that fit the chapter and aren't already known, or an empty list

Return only the JSON object with no commentary.`
}

var novelDetailsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"novel_title_original": {
			Type:        genai.TypeString,
			Description: "Title in the original language",
			Nullable:    genai.Ptr(false),
		},
		"novel_title_translated": {
			Type:        genai.TypeString,
			Description: "Title in English",
			Nullable:    genai.Ptr(false),
		},
		"novel_summary_translated": {
			Type:        genai.TypeString,
			Description: "Summary in English as HTML paragraphs",
			Nullable:    genai.Ptr(false),
		},
		"novel_author_translated": {
			Type:        genai.TypeString,
			Description: "Author name in English",
		},
		"possible_novel_genres": {
			Type:        genai.TypeArray,
			Description: "Genres that fit the novel",
			Items:       &genai.Schema{Type: genai.TypeString},
			Nullable:    genai.Ptr(false),
		},
		"number_of_chapters": {
			Type:        genai.TypeInteger,
			Description: "Total number of chapters",
			Nullable:    genai.Ptr(false),
		},
		"status": {
			Type:        genai.TypeString,
			Description: "Publication status",
			Enum:        []string{"Ongoing", "Completed", "Unknown"},
			Nullable:    genai.Ptr(false),
		},
	},
	Required: []string{"novel_title_original", "novel_title_translated", "novel_summary_translated", "possible_novel_genres", "number_of_chapters", "status"},
}

var chapterSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"translated_chapter_title": {
			Type:        genai.TypeString,
			Description: "Chapter title in English",
			Nullable:    genai.Ptr(false),
		},
		"original_chapter_title": {
			Type:        genai.TypeString,
			Description: "Chapter title in the source language",
			Nullable:    genai.Ptr(false),
		},
		"translated_chapter_contents": {
			Type:        genai.TypeString,
			Description: "Full chapter in English as HTML paragraphs",
			Nullable:    genai.Ptr(false),
		},
		"possible_new_genres": {
			Type:        genai.TypeArray,
			Description: "Genres not already known",
			Items:       &genai.Schema{Type: genai.TypeString},
			Nullable:    genai.Ptr(false),
		},
	},
	Required: []string{"translated_chapter_title", "translated_chapter_contents", "possible_new_genres"},
}
