// Package grid implements the merge-aware grid model shared by the canvas and
// by nested tables. A Grid is a plain value: rows of cells where a cell with a
// span larger than 1×1 owns a rectangle and every other position inside that
// rectangle is a widget-less placeholder. Ownership is recovered by scanning
// (see OriginCellAt) instead of storing back-pointers, so grids can be copied,
// compared and serialised freely.
//
// The package knows nothing about widgets; the payload type parameter W is
// only carried along and cleared or relocated by merge and unmerge.
package grid
