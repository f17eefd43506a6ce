package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/arcanetranslator/arcane/pkg/config"
	"github.com/arcanetranslator/arcane/pkg/database"
	"github.com/arcanetranslator/arcane/pkg/ingest"
	"github.com/arcanetranslator/arcane/pkg/schema"
	"github.com/arcanetranslator/arcane/pkg/sources"
	"github.com/arcanetranslator/arcane/pkg/stats"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	app := &cli.App{
		Name:        "novelctl",
		Usage:       "CLI to manage the novel store",
		Description: "Creates the schema and loads novels, chapters and sources into the database.",
		Before: func(c *cli.Context) error {
			// Every command but init expects the tables to be there.
			if c.Args().First() == "init" {
				return nil
			}
			return errors.WithStack(schema.Initialize(logger.New().WithContext(c.Context), db))
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create the tables and indexes if they don't exist",
				Action: func(c *cli.Context) error {
					if err := schema.Initialize(c.Context, db); err != nil {
						return err
					}
					fmt.Printf("Schema is up to date at %s\n", cfg.DatabaseFilePath)
					return nil
				},
			},
			{
				Name:      "import",
				Usage:     "import sources, novels and chapters from a JSON bundle",
				ArgsUsage: "<path/to/bundle.json>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("expected exactly one bundle path", 1)
					}
					bundle, err := ingest.DecodeFile(c.Args().First())
					if err != nil {
						return err
					}
					ctx := logger.New().WithContext(c.Context)
					res, err := ingest.NewImporter(db).Import(ctx, bundle)
					if err != nil {
						return err
					}
					fmt.Printf("Imported %d sources, %d novels (%d skipped), %d chapters\n",
						res.SourcesCreated, res.NovelsCreated, res.NovelsSkipped, res.ChaptersCreated)
					return nil
				},
			},
			{
				Name:  "sources",
				Usage: "manage sources",
				Subcommands: []*cli.Command{
					{
						Name:  "seed",
						Usage: "add the built-in sources that aren't stored yet",
						Action: func(c *cli.Context) error {
							n, err := sources.NewService(db).EnsureSources(c.Context, sources.Defaults())
							if err != nil {
								return err
							}
							fmt.Printf("Added %d sources\n", n)
							return nil
						},
					},
					{
						Name:  "list",
						Usage: "list stored sources",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "language", Usage: "only list sources in this language"},
						},
						Action: func(c *cli.Context) error {
							opts := sources.ListSourcesOptions{}
							if lang := c.String("language"); lang != "" {
								opts.Language = &lang
							}
							list, err := sources.NewService(db).ListSources(c.Context, opts)
							if err != nil {
								return err
							}
							w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
							fmt.Fprintln(w, "ID\tNAME\tLANGUAGE\tURL")
							for _, s := range list {
								fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Language, s.URL)
							}
							return errors.WithStack(w.Flush())
						},
					},
				},
			},
			{
				Name:  "stats",
				Usage: "print novel, chapter and source counts",
				Action: func(c *cli.Context) error {
					s, err := stats.NewService(db).NovelStats(c.Context)
					if err != nil {
						return err
					}
					fmt.Printf("Novels: %d\nChapters: %d\nSources: %d\n", s.NovelCount, s.ChapterCount, s.SourceCount)
					return nil
				},
			},
		},
	}

	err = app.Run(os.Args)
	if closeErr := db.Close(); closeErr != nil {
		log.Err(closeErr).Error("database close error")
	}
	if err != nil {
		log.Err(err).Fatal("failed to run app")
	}
}
