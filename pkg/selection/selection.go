// Package selection models the multi-cell pick a user builds with
// modifier-clicks before merging, and decides whether that pick is a solid
// rectangle.
package selection

import "math"

// Coord addresses a grid position.
type Coord struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// Set is an ordered set of coordinates. The zero value is an empty selection.
// Methods never mutate the receiver.
type Set struct {
	coords []Coord
}

// Of builds a set from coords, dropping duplicates.
func Of(coords ...Coord) Set {
	var s Set
	for _, coord := range coords {
		s = s.Add(coord)
	}
	return s
}

// Len returns the number of selected coordinates.
func (s Set) Len() int {
	return len(s.coords)
}

// Empty reports whether nothing is selected.
func (s Set) Empty() bool {
	return len(s.coords) == 0
}

// Contains reports whether coord is selected.
func (s Set) Contains(coord Coord) bool {
	for _, existing := range s.coords {
		if existing == coord {
			return true
		}
	}
	return false
}

// Coords returns a copy of the selected coordinates in insertion order.
func (s Set) Coords() []Coord {
	if len(s.coords) == 0 {
		return nil
	}
	return append([]Coord(nil), s.coords...)
}

// Add appends coord when it is not already selected.
func (s Set) Add(coord Coord) Set {
	if s.Contains(coord) {
		return s
	}
	next := make([]Coord, len(s.coords), len(s.coords)+1)
	copy(next, s.coords)
	return Set{coords: append(next, coord)}
}

// Remove drops coord from the selection.
func (s Set) Remove(coord Coord) Set {
	if !s.Contains(coord) {
		return s
	}
	next := make([]Coord, 0, len(s.coords)-1)
	for _, existing := range s.coords {
		if existing != coord {
			next = append(next, existing)
		}
	}
	return Set{coords: next}
}

// Toggle applies a modifier-click on coord:
//   - a selected coordinate is deselected;
//   - an empty selection becomes {coord};
//   - a single selected coordinate expands to the full rectangle between it
//     and coord (the corner-to-corner gesture);
//   - otherwise coord is added on its own.
func (s Set) Toggle(coord Coord) Set {
	if s.Contains(coord) {
		return s.Remove(coord)
	}
	switch len(s.coords) {
	case 0:
		return Set{coords: []Coord{coord}}
	case 1:
		return Span(s.coords[0], coord)
	default:
		return s.Add(coord)
	}
}

// Span returns every coordinate of the inclusive rectangle between a and b in
// row-major order.
func Span(a, b Coord) Set {
	rect := Rect{
		R0: min(a.Row, b.Row), R1: max(a.Row, b.Row),
		C0: min(a.Col, b.Col), C1: max(a.Col, b.Col),
	}
	return rect.Coords()
}

// Rectangle returns the bounding box of the selection when every position
// inside it is selected. Empty selections, gaps and L-shapes yield false.
func (s Set) Rectangle() (Rect, bool) {
	if len(s.coords) == 0 {
		return Rect{}, false
	}
	rect := Rect{R0: math.MaxInt, R1: math.MinInt, C0: math.MaxInt, C1: math.MinInt}
	for _, coord := range s.coords {
		rect.R0 = min(rect.R0, coord.Row)
		rect.R1 = max(rect.R1, coord.Row)
		rect.C0 = min(rect.C0, coord.Col)
		rect.C1 = max(rect.C1, coord.Col)
	}
	for row := rect.R0; row <= rect.R1; row++ {
		for col := rect.C0; col <= rect.C1; col++ {
			if !s.Contains(Coord{Row: row, Col: col}) {
				return Rect{}, false
			}
		}
	}
	return rect, true
}

// Mergeable returns the selection rectangle when it can be merged.
func (s Set) Mergeable() (Rect, bool) {
	rect, ok := s.Rectangle()
	if !ok || !rect.CanMerge() {
		return Rect{}, false
	}
	return rect, true
}

// Rect is an inclusive rectangle of grid positions.
type Rect struct {
	R0 int `json:"r0" yaml:"r0"`
	R1 int `json:"r1" yaml:"r1"`
	C0 int `json:"c0" yaml:"c0"`
	C1 int `json:"c1" yaml:"c1"`
}

// CanMerge reports whether the rectangle spans more than one row or column.
func (r Rect) CanMerge() bool {
	return r.R0 < r.R1 || r.C0 < r.C1
}

// Coords lists the rectangle's positions in row-major order.
func (r Rect) Coords() Set {
	if r.R1 < r.R0 || r.C1 < r.C0 {
		return Set{}
	}
	coords := make([]Coord, 0, (r.R1-r.R0+1)*(r.C1-r.C0+1))
	for row := r.R0; row <= r.R1; row++ {
		for col := r.C0; col <= r.C1; col++ {
			coords = append(coords, Coord{Row: row, Col: col})
		}
	}
	return Set{coords: coords}
}
