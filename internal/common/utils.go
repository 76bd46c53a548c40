package common

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode"

	"github.com/urfave/cli/v2"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/grc-lexicon-parser/models"
)

// declensionFlags maps each flag to the dimension it sets.
var declensionFlags = []struct {
	name string
	dim  models.Dimension
}{
	{"pos", models.DimPOS},
	{"degree", models.DimDegree},
	{"tense", models.DimTense},
	{"theme", models.DimTheme},
	{"contraction", models.DimContraction},
	{"mood", models.DimMood},
	{"voice", models.DimVoice},
	{"gender", models.DimGender},
	{"number", models.DimNumber},
	{"case", models.DimCase},
	{"person", models.DimPerson},
	{"class", models.DimDeclension},
	{"dialect", models.DimDialect},
}

// DeclensionFlags returns one flag per grammatical dimension. requirePOS
// makes --pos mandatory.
func DeclensionFlags(requirePOS bool) []cli.Flag {
	flags := make([]cli.Flag, 0, len(declensionFlags))
	for _, f := range declensionFlags {
		usage := fmt.Sprintf("%s (%s)", f.dim, strings.Join(models.ValuesOf(f.dim), ", "))
		if f.dim == models.DimPOS {
			usage = "part of speech, optionally with a kind (e.g. noun, noun:proper, adjective:comparative)"
		}
		flags = append(flags, &cli.StringFlag{
			Name:     f.name,
			Usage:    usage,
			Required: requirePOS && f.dim == models.DimPOS,
		})
	}
	return flags
}

// Declension reads the declension flags.
func Declension(c *cli.Context) (models.Declension, error) {
	var d models.Declension
	for _, f := range declensionFlags {
		v := strings.ToLower(strings.TrimSpace(c.String(f.name)))
		if v == "" {
			continue
		}
		if err := d.Set(f.dim, v); err != nil {
			return d, fmt.Errorf("invalid --%s: %w", f.name, err)
		}
	}
	return d, nil
}

// NewLogger builds the JSON stderr logger used by every action.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// LoadConfig reads --config and applies the flag overrides.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	config, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("db") {
		config.DBPath = c.String("db")
	}
	if c.IsSet("cache-dir") {
		config.CacheDir = c.String("cache-dir")
	}
	if c.IsSet("terms") {
		config.TermsFile = c.String("terms")
	}
	if c.IsSet("workers") {
		config.WorkerCount = c.Int("workers")
	}
	if c.IsSet("interval") {
		config.RequestInterval = c.Duration("interval")
	}
	return config, nil
}

// SanitizeWord cleans a word pasted from running text: surrounding
// whitespace and punctuation are removed and the result is NFC normalised.
func SanitizeWord(raw string) string {
	cleaned := strings.TrimFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	return norm.NFC.String(cleaned)
}

// SplitWords splits comma separated arguments into sanitized words, dropping
// empty ones.
func SplitWords(args []string) []string {
	var words []string
	for _, arg := range args {
		for _, w := range strings.Split(arg, ",") {
			if w = SanitizeWord(w); w != "" {
				words = append(words, w)
			}
		}
	}
	return words
}

// Write encodes v as yaml (the default) or json.
func Write(w io.Writer, format string, v interface{}) error {
	switch format {
	case "", "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown format %q (yaml, json)", format)
	}
}
