// Package grid implements a virtualized photo grid for desktop apps.
//
// The grid renders only the rows that intersect the current viewport
// (plus an overscan margin), so collections of hundreds of thousands of
// items stay cheap to display. Item content is mounted lazily when an
// item nears the viewport, and a shared selection model rides on top of
// the rendered cells.
package grid

import (
	"fyne.io/fyne/v2"
)

// Item is an entry displayed by the grid. Implementations must return a
// unique, stable identifier: cells are keyed and recycled by ID, never
// by position.
type Item interface {
	ItemID() string
}

// RenderFunc builds the real content for an item once it nears the
// viewport. It is only invoked for items that become visible.
type RenderFunc func(item Item, index int) fyne.CanvasObject

// Config controls the grid geometry. Zero fields fall back to the
// package defaults.
type Config struct {
	// Columns is the requested maximum column count. The effective
	// count is reduced when the container is too narrow.
	Columns int

	// MinItemWidth is the responsive floor used when deriving the
	// effective column count from the container width. Defaults to
	// ItemWidth.
	MinItemWidth float32

	ItemWidth  float32
	ItemHeight float32

	// Gap is the spacing between cells, horizontally and vertically.
	Gap float32

	// Overscan is the number of extra rows rendered beyond each
	// viewport edge to mask scroll-induced pop-in.
	Overscan int
}

const (
	DefaultColumns    = 4
	DefaultItemWidth  = float32(160)
	DefaultItemHeight = float32(160)
	DefaultGap        = float32(16)
	DefaultOverscan   = 3
)

func (c Config) withDefaults() Config {
	if c.Columns <= 0 {
		c.Columns = DefaultColumns
	}
	if c.ItemWidth <= 0 {
		c.ItemWidth = DefaultItemWidth
	}
	if c.ItemHeight <= 0 {
		c.ItemHeight = DefaultItemHeight
	}
	if c.MinItemWidth <= 0 {
		c.MinItemWidth = c.ItemWidth
	}
	if c.Gap < 0 {
		c.Gap = 0
	} else if c.Gap == 0 {
		c.Gap = DefaultGap
	}
	if c.Overscan <= 0 {
		c.Overscan = DefaultOverscan
	}
	return c
}
