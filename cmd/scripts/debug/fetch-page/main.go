package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/arcanetranslator/arcane/pkg/htmlutil"
	"github.com/arcanetranslator/arcane/pkg/scraper"
	"github.com/arcanetranslator/arcane/pkg/sources"
	"github.com/jessevdk/go-flags"
	"github.com/robinjoseph08/golib/logger"
)

func main() {
	log := logger.New()

	var opts struct {
		Source    string        `short:"s" long:"source" description:"Source ID used to derive the novel ID"`
		HTMLFile  string        `short:"f" long:"html-file" description:"Parse this file instead of fetching the URL"`
		UserAgent string        `long:"user-agent" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36" description:"User-Agent header to send"`
		Timeout   time.Duration `short:"t" long:"timeout" default:"30s" description:"Request timeout"`
		TextRunes int           `long:"text-runes" default:"500" description:"How much of the page text to print"`
	}

	args, err := flags.Parse(&opts)
	if err != nil {
		log.Err(err).Fatal("flags parse error")
	}

	if len(args) != 1 {
		fmt.Println("go run ./cmd/scripts/debug/fetch-page [-s source] [-f page.html] <url>")
		os.Exit(1)
	}
	url := args[0]

	var page *scraper.Page
	if opts.HTMLFile != "" {
		b, err := os.ReadFile(opts.HTMLFile)
		if err != nil {
			log.Err(err).Fatal("read file error")
		}
		page, err = scraper.ParsePage(url, b, "")
		if err != nil {
			log.Err(err).Fatal("page parse error")
		}
	} else {
		ctx := log.WithContext(context.Background())
		col := scraper.NewCollector(scraper.Options{UserAgent: opts.UserAgent, Timeout: opts.Timeout})
		page, err = col.Fetch(ctx, url)
		if err != nil {
			log.Err(err).Fatal("fetch error")
		}
	}

	fmt.Printf("Title: %s\nDescription: %s\nCover: %s\nNext chapter: %s\nWords: %d\n",
		page.Title, page.Description, page.CoverURL, page.NextChapterURL, htmlutil.CountWords(page.Text))
	if opts.Source != "" {
		fmt.Printf("Novel ID: %s\n", sources.NovelIDFromURL(opts.Source, url))
	}
	fmt.Printf("\n%s\n", htmlutil.TruncateRunes(page.Text, opts.TextRunes))
}
