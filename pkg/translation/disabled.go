package translation

import (
	"context"

	"github.com/pkg/errors"
)

// ErrProviderNotConfigured is returned by the disabled provider.
var ErrProviderNotConfigured = errors.New("translation provider is not configured")

type disabledProvider struct {
	reason string
}

// NewDisabledProvider returns a Provider that fails every call. It stands in
// when no API key is configured so the rest of the service still runs.
func NewDisabledProvider(reason string) Provider {
	return &disabledProvider{reason}
}

func (p *disabledProvider) ExtractNovelDetails(_ context.Context, _ string) (*NovelDetails, error) {
	return nil, p.err()
}

func (p *disabledProvider) TranslateChapter(_ context.Context, _ []string, _ string) (*ChapterTranslation, error) {
	return nil, p.err()
}

func (p *disabledProvider) err() error {
	if p.reason == "" {
		return ErrProviderNotConfigured
	}
	return errors.Wrap(ErrProviderNotConfigured, p.reason)
}
