// Package gemini implements the translation provider on top of Google's
// Gemini models.
package gemini

import (
	"context"
	"strings"

	"github.com/arcanetranslator/arcane/pkg/translation"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"google.golang.org/genai"
)

const (
	DefaultModel     = "gemini-2.5-flash"
	responseMIMEType = "application/json"
	maxOutputTokens  = 65000
	temperature      = 0.3
)

// generator is the part of *genai.Models the client needs.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Client struct {
	models generator
	model  string
}

// New creates a client for the Gemini API. The key is only checked by the
// API on the first request.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key is empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gemini client")
	}
	return newClient(client.Models, model), nil
}

func newClient(models generator, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{models: models, model: model}
}

func (c *Client) ExtractNovelDetails(ctx context.Context, content string) (*translation.NovelDetails, error) {
	text, err := c.generate(ctx, novelDetailsPrompt(content), novelDetailsSchema)
	if err != nil {
		return nil, err
	}
	return decodeNovelDetails(text)
}

func (c *Client) TranslateChapter(ctx context.Context, knownGenres []string, content string) (*translation.ChapterTranslation, error) {
	text, err := c.generate(ctx, chapterPrompt(knownGenres, content), chapterSchema)
	if err != nil {
		return nil, err
	}
	return decodeChapter(text)
}

func (c *Client) generate(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	log := logger.FromContext(ctx)

	resp, err := c.models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(temperature)),
			MaxOutputTokens:  maxOutputTokens,
			ResponseMIMEType: responseMIMEType,
			ResponseSchema:   schema,
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "gemini request failed")
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("gemini returned an empty response")
	}

	data := logger.Data{"model": c.model, "response_chars": len(text)}
	if resp.UsageMetadata != nil {
		data["prompt_tokens"] = resp.UsageMetadata.PromptTokenCount
		data["output_tokens"] = resp.UsageMetadata.CandidatesTokenCount
	}
	log.Debug("gemini response", data)

	return text, nil
}
