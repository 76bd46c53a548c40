package paradigm

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/grc-lexicon-parser/models"
)

// ClassificationConflictError means a cell's tags name more than one part of
// speech. The cell is dropped.
type ClassificationConflictError struct {
	Text  string
	Kinds []models.POSKind
}

func (e *ClassificationConflictError) Error() string {
	kinds := make([]string, len(e.Kinds))
	for i, k := range e.Kinds {
		kinds[i] = string(k)
	}
	return fmt.Sprintf("form %q is tagged with conflicting parts of speech: %s", e.Text, strings.Join(kinds, ", "))
}

// MissingDimensionError means a cell lacks a tag its part of speech requires.
// The cell is dropped.
type MissingDimensionError struct {
	Text string
	POS  models.POSKind
	Dim  models.Dimension
}

func (e *MissingDimensionError) Error() string {
	return fmt.Sprintf("form %q has no %s, required for %s", e.Text, e.Dim, e.POS)
}

// MissingRequiredDimensionError means a query left a required dimension
// unspecified.
type MissingRequiredDimensionError struct {
	Dim models.Dimension
}

func (e *MissingRequiredDimensionError) Error() string {
	return fmt.Sprintf("query is missing required dimension %s", e.Dim)
}

// FormNotAttestedError means the paradigm holds nothing at Path. Path ends at
// the first label that is absent.
type FormNotAttestedError struct {
	Path []string
}

func (e *FormNotAttestedError) Error() string {
	return fmt.Sprintf("form not attested at %s", strings.Join(e.Path, "."))
}

// UnsupportedPartOfSpeechError means no schema is declared for a part of
// speech.
type UnsupportedPartOfSpeechError struct {
	POS models.POSKind
}

func (e *UnsupportedPartOfSpeechError) Error() string {
	return fmt.Sprintf("no paradigm schema for part of speech %q", e.POS)
}
