package paradigm

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/dtnitsch/grc-lexicon-parser/models"
)

// SurfaceForm is one spelled-out form. Uncontracted, when known, holds the
// morpheme pieces the contracted form was built from.
type SurfaceForm struct {
	Contracted   string   `json:"contracted,omitempty" yaml:"contracted,omitempty"`
	Uncontracted []string `json:"uncontracted,omitempty" yaml:"uncontracted,omitempty"`
}

func (f SurfaceForm) equal(o SurfaceForm) bool {
	if f.Contracted != o.Contracted || len(f.Uncontracted) != len(o.Uncontracted) {
		return false
	}
	for i := range f.Uncontracted {
		if f.Uncontracted[i] != o.Uncontracted[i] {
			return false
		}
	}
	return true
}

// Node is a branch keyed by dimension values, or a leaf holding forms.
// Branches exist only when some form populated them.
type Node struct {
	Children map[string]*Node
	Forms    []SurfaceForm
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

func (n *Node) child(label string) *Node {
	if n.Children == nil {
		n.Children = make(map[string]*Node)
	}
	c, ok := n.Children[label]
	if !ok {
		c = &Node{}
		n.Children[label] = c
	}
	return c
}

// addForm appends f unless the leaf already holds it.
func (n *Node) addForm(f SurfaceForm) bool {
	for _, have := range n.Forms {
		if have.equal(f) {
			return false
		}
	}
	n.Forms = append(n.Forms, f)
	return true
}

// Labels returns the child labels in sorted order.
func (n *Node) Labels() []string {
	labels := make([]string, 0, len(n.Children))
	for l := range n.Children {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Walk calls fn for every leaf with the labels leading to it.
func (n *Node) Walk(fn func(path []string, forms []SurfaceForm)) {
	n.walk(nil, fn)
}

func (n *Node) walk(prefix []string, fn func([]string, []SurfaceForm)) {
	if len(n.Forms) > 0 {
		fn(append([]string(nil), prefix...), n.Forms)
	}
	for _, l := range n.Labels() {
		n.Children[l].walk(append(prefix, l), fn)
	}
}

// MarshalJSON writes a leaf as an array of forms and a branch as an object.
func (n *Node) MarshalJSON() ([]byte, error) {
	if n.IsLeaf() {
		forms := n.Forms
		if forms == nil {
			forms = []SurfaceForm{}
		}
		return json.Marshal(forms)
	}
	return json.Marshal(n.Children)
}

func (n *Node) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &n.Forms)
	}
	return json.Unmarshal(data, &n.Children)
}

// MarshalYAML mirrors the JSON layout.
func (n *Node) MarshalYAML() (interface{}, error) {
	if n.IsLeaf() {
		return n.Forms, nil
	}
	return n.Children, nil
}

// Tree is the paradigm of one lemma for one dialect set. Parts holds one
// root per part of speech the tables produced: an adjective table also
// yields its adverb.
type Tree struct {
	Dialects []string                 `json:"dialects,omitempty" yaml:"dialects,omitempty"`
	Class    string                   `json:"class,omitempty" yaml:"class,omitempty"`
	Parts    map[models.POSKind]*Node `json:"parts" yaml:"parts"`
}

// NewTree returns an empty tree for the given dialects.
func NewTree(dialects ...string) *Tree {
	t := &Tree{Parts: make(map[models.POSKind]*Node)}
	t.addDialects(dialects)
	return t
}

// Invariant returns the tree of an uninflected word: a single leaf holding
// the lemma.
func Invariant(kind models.POSKind, lemma string) *Tree {
	t := NewTree()
	t.part(kind).addForm(SurfaceForm{Contracted: lemma})
	return t
}

func (t *Tree) part(kind models.POSKind) *Node {
	if t.Parts == nil {
		t.Parts = make(map[models.POSKind]*Node)
	}
	n, ok := t.Parts[kind]
	if !ok {
		n = &Node{}
		t.Parts[kind] = n
	}
	return n
}

func (t *Tree) addDialects(dialects []string) {
	for _, d := range dialects {
		if !containsString(t.Dialects, d) {
			t.Dialects = append(t.Dialects, d)
		}
	}
	sort.Strings(t.Dialects)
}

// IsEmpty reports whether no form was inserted.
func (t *Tree) IsEmpty() bool {
	for _, n := range t.Parts {
		empty := true
		n.Walk(func([]string, []SurfaceForm) { empty = false })
		if !empty {
			return false
		}
	}
	return true
}

// SameDialects reports whether t and o belong to the same dialect set.
func (t *Tree) SameDialects(o *Tree) bool {
	if len(t.Dialects) != len(o.Dialects) {
		return false
	}
	for i := range t.Dialects {
		if t.Dialects[i] != o.Dialects[i] {
			return false
		}
	}
	return true
}

// Merge unions src into t. Dialects are unioned too; callers decide whether
// two trees belong together.
func (t *Tree) Merge(src *Tree) {
	if src == nil {
		return
	}
	t.addDialects(src.Dialects)
	if t.Class == "" {
		t.Class = src.Class
	}
	for kind, n := range src.Parts {
		mergeNode(t.part(kind), n)
	}
}

func mergeNode(dst, src *Node) {
	for _, f := range src.Forms {
		dst.addForm(f)
	}
	for label, c := range src.Children {
		mergeNode(dst.child(label), c)
	}
}

// Count returns the number of forms in the tree.
func (t *Tree) Count() int {
	total := 0
	for _, n := range t.Parts {
		n.Walk(func(_ []string, forms []SurfaceForm) { total += len(forms) })
	}
	return total
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
