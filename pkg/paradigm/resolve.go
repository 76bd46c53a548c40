package paradigm

import (
	"fmt"
	"strings"

	"github.com/dtnitsch/grc-lexicon-parser/models"
)

// Path returns the labels leading to the leaf q addresses, starting with the
// part of speech. Store queries use the same path, so it is computed from the
// schema alone, without a tree.
func Path(q models.Declension) ([]string, error) {
	kind := q.PartOfSpeech.Kind
	s, err := SchemaFor(kind)
	if err != nil {
		return nil, err
	}

	path := []string{string(kind)}
	for s != nil {
		v := q.Value(s.Dim)
		if v == "" {
			v = s.Default
		}
		if v == "" {
			if s.Required {
				return nil, &MissingRequiredDimensionError{Dim: s.Dim}
			}
			return nil, &FormNotAttestedError{Path: path}
		}
		path = append(path, v)
		s = s.next(v)
	}
	return path, nil
}

// Resolve returns the forms of t that q addresses. The result is a copy and
// never empty on success.
func Resolve(t *Tree, q models.Declension) ([]SurfaceForm, error) {
	path, err := Path(q)
	if err != nil {
		return nil, err
	}

	n, ok := t.Parts[models.POSKind(path[0])]
	if !ok {
		return nil, &FormNotAttestedError{Path: path[:1]}
	}
	for i, label := range path[1:] {
		c, ok := n.Children[label]
		if !ok {
			return nil, &FormNotAttestedError{Path: path[:i+2]}
		}
		n = c
	}
	if len(n.Forms) == 0 {
		return nil, &FormNotAttestedError{Path: path}
	}

	out := make([]SurfaceForm, len(n.Forms))
	for i, f := range n.Forms {
		out[i] = SurfaceForm{Contracted: f.Contracted, Uncontracted: append([]string(nil), f.Uncontracted...)}
	}
	return out, nil
}

// DeclensionAt is the inverse of Path: it reads the labels of a leaf path
// back into a declension.
func DeclensionAt(path []string) (models.Declension, error) {
	var d models.Declension
	if len(path) == 0 {
		return d, fmt.Errorf("empty paradigm path")
	}
	kind := models.POSKind(path[0])
	s, err := SchemaFor(kind)
	if err != nil {
		return d, err
	}
	d.PartOfSpeech = models.PartOfSpeech{Kind: kind}

	for _, label := range path[1:] {
		if s == nil {
			return d, fmt.Errorf("path %s is deeper than the %s schema", strings.Join(path, "."), kind)
		}
		if err := d.Set(s.Dim, label); err != nil {
			return d, fmt.Errorf("failed to read path %s: %w", strings.Join(path, "."), err)
		}
		s = s.next(label)
	}
	if s != nil {
		return d, fmt.Errorf("path %s stops before the %s leaf", strings.Join(path, "."), kind)
	}
	return d, nil
}
