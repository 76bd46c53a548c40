package db

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/grc-lexicon-parser/internal/common"
	dbpkg "github.com/dtnitsch/grc-lexicon-parser/pkg/db"
)

// EntriesAction lists the stored entries.
func EntriesAction(c *cli.Context) error {
	database, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	limit := c.Int("limit")
	entries, err := database.ListEntries(limit)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No entries found")
		return nil
	}

	// Print table header
	fmt.Printf("%-28s %-24s %-10s %-24s %-20s\n",
		"ID", "Lemma", "Paradigms", "Parts of speech", "Updated")
	fmt.Println(strings.Repeat("-", 110))

	for _, e := range entries {
		fmt.Printf("%-28s %-24s %-10d %-24s %-20s\n",
			e.EntryID,
			e.Lemma,
			e.Paradigms,
			strings.Join(e.Parts, ","),
			e.UpdatedAt.Format("2006-01-02 15:04:05"),
		)
	}

	fmt.Printf("\nTotal: %d entries\n", len(entries))
	fmt.Printf("\nTip: Use 'grc-lexicon db entry <lemma>' to see details\n")

	return nil
}

// EntryAction prints one stored entry with its paradigms.
func EntryAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: grc-lexicon db entry <lemma>", 1)
	}
	database, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	e, err := ResolveLemma(database, c.Args().First())
	if err != nil {
		return err
	}
	return common.Write(os.Stdout, c.String("format"), e)
}

// DeleteAction removes a stored entry.
func DeleteAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: grc-lexicon db delete <lemma>", 1)
	}
	database, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer database.Close()

	lemma := common.SanitizeWord(c.Args().First())
	if err := database.DeleteEntry(lemma); err != nil {
		if errors.Is(err, dbpkg.ErrNotFound) {
			return cli.Exit(fmt.Sprintf("no entry for %s", lemma), 1)
		}
		return err
	}
	fmt.Printf("Deleted %s\n", lemma)
	return nil
}

// PageAction shows the page recorded for a url or lemma.
func PageAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: grc-lexicon db page <url|lemma>", 1)
	}
	config, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	database, err := dbpkg.Open(config.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	page, err := database.GetPage(PageURL(c.Args().First(), config.PageBaseURL))
	if errors.Is(err, dbpkg.ErrNotFound) {
		return cli.Exit(err.Error(), 1)
	}
	if err != nil {
		return err
	}
	return common.Write(os.Stdout, c.String("format"), page)
}
