package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/grc-lexicon-parser/internal/common"
	dbpkg "github.com/dtnitsch/grc-lexicon-parser/pkg/db"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/extractors"
	"github.com/dtnitsch/grc-lexicon-parser/pkg/lexicon"
)

func openDatabase(c *cli.Context) (*dbpkg.DB, error) {
	config, err := common.LoadConfig(c)
	if err != nil {
		return nil, err
	}
	database, err := dbpkg.Open(config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// ResolveLemma returns the entry stored for arg, accepting any
// accentuation when exactly one stored lemma matches.
func ResolveLemma(database *dbpkg.DB, arg string) (*lexicon.Entry, error) {
	lemma := common.SanitizeWord(arg)
	e, err := database.GetEntryByLemma(lemma)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, dbpkg.ErrNotFound) {
		return nil, err
	}

	similar, err := database.FindEntriesByLemmaKey(lemma)
	if err != nil {
		return nil, err
	}
	switch len(similar) {
	case 0:
		return nil, cli.Exit(fmt.Sprintf("no entry for %s. Run 'grc-lexicon scrape --pos <pos> %s' first", lemma, lemma), 1)
	case 1:
		return similar[0], nil
	}
	var names []string
	for _, s := range similar {
		names = append(names, s.Lemma)
	}
	return nil, cli.Exit(fmt.Sprintf("%s is ambiguous: %s", lemma, strings.Join(names, ", ")), 1)
}

// PageURL returns arg when it is already a url, otherwise the page url of
// the lemma it names.
func PageURL(arg, pageBaseURL string) string {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return arg
	}
	return extractors.NewWiktionary(pageBaseURL, "").PageURL(common.SanitizeWord(arg))
}
