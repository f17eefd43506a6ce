package scraper

import (
	"context"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type Options struct {
	UserAgent string
	Timeout   time.Duration
}

// Collector fetches single pages. A fresh colly collector is built for every
// fetch so calls share no state and can run concurrently.
type Collector struct {
	opts Options
}

func NewCollector(opts Options) *Collector {
	return &Collector{opts}
}

// Fetch downloads and parses the page at pageURL. Any transport error, non-2xx
// status or non-text body is returned as an error; nothing is retried.
func (col *Collector) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.AllowURLRevisit(),
	)
	// Hand every status to OnResponse. Left alone, colly fails anything from
	// 203 up, including successful 2xx codes; the range check below decides.
	c.ParseHTTPErrorResponse = true
	if col.opts.UserAgent != "" {
		c.UserAgent = col.opts.UserAgent
	}
	if col.opts.Timeout > 0 {
		c.SetRequestTimeout(col.opts.Timeout)
	}

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "zh-CN,zh;q=0.9,ja;q=0.8,en;q=0.7")
	})

	var (
		body        []byte
		contentType string
		status      int
		fetchErr    error
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
		contentType = r.Headers.Get("Content-Type")
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = err
	})

	if err := c.Visit(pageURL); err != nil && fetchErr == nil {
		fetchErr = err
	}
	c.Wait()

	if fetchErr != nil {
		if status != 0 {
			return nil, errors.Wrapf(fetchErr, "failed to fetch %s (status %d)", pageURL, status)
		}
		return nil, errors.Wrapf(fetchErr, "failed to fetch %s", pageURL)
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, errors.Errorf("failed to fetch %s (status %d)", pageURL, status)
	}

	page, err := ParsePage(pageURL, body, contentType)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", pageURL)
	}

	log.Info("fetched page", logger.Data{
		"url":         pageURL,
		"bytes":       len(body),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return page, nil
}
