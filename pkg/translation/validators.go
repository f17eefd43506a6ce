package translation

type ExtractNovelPayload struct {
	URL    string `query:"url" json:"url" mod:"trim" validate:"required,url"`
	Source string `query:"source" json:"source" mod:"trim" validate:"required,max=100"`
	// HTMLContent is only accepted in a JSON body.
	HTMLContent string `query:"-" json:"htmlContent,omitempty" mod:"trim"`
}

type TranslateChapterPayload struct {
	NovelID         string `query:"novelId" json:"novelId" mod:"trim" validate:"required,max=200"`
	ChapterNumber   int    `query:"chapterNumber" json:"chapterNumber" validate:"required,min=1"`
	ChapterURL      string `query:"chapterUrl" json:"chapterUrl,omitempty" mod:"trim" validate:"required_without=OriginalContent,omitempty,url"`
	OriginalContent string `query:"originalContent" json:"originalContent,omitempty" mod:"trim"`
}
