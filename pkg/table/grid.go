// Package table turns inflection tables (rows of header and data cells with
// row and column spans) into a dense grid, then attaches to every data cell
// the grammatical tags of the headers that govern it.
package table

import (
	"fmt"
	"strconv"
	"strings"
)

// CellKind distinguishes header cells from data cells.
type CellKind int

const (
	Header CellKind = iota
	Data
)

func (k CellKind) String() string {
	if k == Header {
		return "header"
	}
	return "data"
}

// RawCell is a cell as read from the source document. RowSpan and ColSpan
// hold the raw attribute strings; empty means 1.
type RawCell struct {
	Kind    CellKind
	Text    string
	RowSpan string
	ColSpan string
}

// Row is one table row, left to right.
type Row []RawCell

// Table is one inflection table with its (optional) title.
type Table struct {
	Title string
	Rows  []Row
}

// Point is a grid coordinate; X grows rightwards, Y downwards.
type Point struct {
	X, Y int
}

// PlacedCell is a source cell with the rectangle of coordinates it claimed.
type PlacedCell struct {
	ID     int
	Kind   CellKind
	Text   string
	Origin Point
	Coords []Point
}

// Grid is the dense 2-D placement of a table's cells.
type Grid struct {
	Cells  []PlacedCell
	Width  int
	Height int
	owner  map[Point]int
}

// At returns the cell claiming (x, y).
func (g *Grid) At(x, y int) (*PlacedCell, bool) {
	id, ok := g.owner[Point{x, y}]
	if !ok {
		return nil, false
	}
	return &g.Cells[id], true
}

// FormatError reports a span attribute that is not a positive integer. It is
// fatal for the table it occurs in.
type FormatError struct {
	Row   int
	Cell  int
	Attr  string
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed %s %q at row %d, cell %d", e.Attr, e.Value, e.Row, e.Cell)
}

func parseSpan(attr, raw string, row, cell int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &FormatError{Row: row, Cell: cell, Attr: attr, Value: raw}
	}
	return n, nil
}

// BuildGrid places every cell with first-fit semantics: the cursor of each
// row skips coordinates already claimed by row spans from above, and a cell
// never takes over a coordinate another cell owns.
func BuildGrid(rows []Row) (*Grid, error) {
	g := &Grid{owner: make(map[Point]int)}

	for y, row := range rows {
		x := 0
		for i, raw := range row {
			height, err := parseSpan("rowspan", raw.RowSpan, y, i)
			if err != nil {
				return nil, err
			}
			width, err := parseSpan("colspan", raw.ColSpan, y, i)
			if err != nil {
				return nil, err
			}

			for g.claimed(x, y) {
				x++
			}

			cell := PlacedCell{
				ID:     len(g.Cells),
				Kind:   raw.Kind,
				Text:   raw.Text,
				Origin: Point{x, y},
			}
			for dy := 0; dy < height; dy++ {
				for dx := 0; dx < width; dx++ {
					p := Point{x + dx, y + dy}
					if g.claimed(p.X, p.Y) {
						continue
					}
					g.owner[p] = cell.ID
					cell.Coords = append(cell.Coords, p)
					if p.X+1 > g.Width {
						g.Width = p.X + 1
					}
					if p.Y+1 > g.Height {
						g.Height = p.Y + 1
					}
				}
			}
			g.Cells = append(g.Cells, cell)
			x += width
		}
	}

	return g, nil
}

func (g *Grid) claimed(x, y int) bool {
	_, ok := g.owner[Point{x, y}]
	return ok
}
