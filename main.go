package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/grc-lexicon-parser/internal/analyze"
	"github.com/dtnitsch/grc-lexicon-parser/internal/common"
	dbactions "github.com/dtnitsch/grc-lexicon-parser/internal/db"
	"github.com/dtnitsch/grc-lexicon-parser/internal/scrape"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{Name: "format", Value: "yaml", Usage: "output format (yaml, json)"}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "grc-lexicon",
		Usage: "extract Ancient Greek paradigms from inflection tables and resolve forms against them",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "YAML config file (optional)"},
			&cli.StringFlag{Name: "db", Usage: "lexicon database path"},
			&cli.StringFlag{Name: "terms", Usage: "classifier terms file replacing the built-in rules"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "log errors only"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log debug output"},
		},
		Commands: []*cli.Command{
			{
				Name:      "scrape",
				Usage:     "fetch lemma pages, build their paradigms and store them",
				ArgsUsage: "<lemma>[,<lemma>...]",
				Flags:     append(scrape.Flags(), common.DeclensionFlags(true)...),
				Action:    scrape.ScrapeAction,
			},
			{
				Name:      "parse-table",
				Usage:     "build a paradigm tree from a saved HTML page",
				ArgsUsage: "<file.html>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "pos", Required: true, Usage: "part of speech of the tables"},
					&cli.StringFlag{Name: "title", Usage: "title applied to tables outside an Ancient Greek section"},
					&cli.StringFlag{Name: "lemma", Usage: "store the tree as an entry of this lemma"},
					formatFlag(),
				},
				Action: analyze.ParseTableAction,
			},
			{
				Name:      "inflect",
				Usage:     "resolve a declension against a stored entry",
				ArgsUsage: "<lemma>",
				Flags: append([]cli.Flag{
					&cli.BoolFlag{Name: "fetch", Usage: "scrape the lemma when it is not stored"},
					formatFlag(),
				}, common.DeclensionFlags(true)...),
				Action: analyze.InflectAction,
			},
			{
				Name:      "match",
				Usage:     "rank the forms of a declension against an observed spelling",
				ArgsUsage: "<lemma> <observed>",
				Flags: append([]cli.Flag{
					&cli.BoolFlag{Name: "fetch", Usage: "scrape the lemma when it is not stored"},
					&cli.BoolFlag{Name: "plausible", Usage: "drop forms with nothing in common with the observed spelling"},
					formatFlag(),
				}, common.DeclensionFlags(true)...),
				Action: analyze.MatchAction,
			},
			{
				Name:      "lookup",
				Usage:     "find the stored entries holding an observed form",
				ArgsUsage: "<form>",
				Flags: append([]cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 5, Usage: "readings listed per entry (0 for all)"},
					formatFlag(),
				}, common.DeclensionFlags(false)...),
				Action: analyze.LookupAction,
			},
			{
				Name:  "entries",
				Usage: "list stored entries",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 50, Usage: "entries listed (0 for all)"},
				},
				Action: dbactions.EntriesAction,
			},
			{
				Name:  "db",
				Usage: "inspect the lexicon store",
				Subcommands: []*cli.Command{
					{
						Name:      "entry",
						Usage:     "print a stored entry",
						ArgsUsage: "<lemma>",
						Flags:     []cli.Flag{formatFlag()},
						Action:    dbactions.EntryAction,
					},
					{
						Name:      "delete",
						Usage:     "delete a stored entry",
						ArgsUsage: "<lemma>",
						Action:    dbactions.DeleteAction,
					},
					{
						Name:      "page",
						Usage:     "show the page recorded for a url or lemma",
						ArgsUsage: "<url|lemma>",
						Flags:     []cli.Flag{formatFlag()},
						Action:    dbactions.PageAction,
					},
				},
			},
		},
	}
}
