package grid

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// cellHost is the grid-side contract a cell interacts with. It is an
// interface so cells can be exercised against a stub in tests.
type cellHost interface {
	itemTapped(item Item, index int)
	itemDoubleTapped(item Item, index int)
	renderContent(item Item, index int) fyne.CanvasObject
	markRevealed(id string)
	dragGuardActive() bool
}

// revealState is the per-cell visibility lifecycle. It is one
// directional: once a cell has been revealed it never returns to a
// placeholder, trading memory for scroll-back smoothness.
type revealState int

const (
	stateNotObserved revealState = iota
	stateObserving
	stateVisible
)

// lazyCell is the per-item shell. Until the visibility monitor signals
// that the cell nears the viewport it renders a placeholder with the
// exact footprint of the real content, so row size estimates stay
// accurate and nothing shifts when content mounts.
type lazyCell struct {
	widget.BaseWidget
	host cellHost

	item  Item
	index int

	state       revealState
	placeholder *canvas.Rectangle
	selected    *canvas.Rectangle
	content     fyne.CanvasObject

	lastClick time.Time
}

func newLazyCell(host cellHost, item Item, index int) *lazyCell {
	c := &lazyCell{
		host:        host,
		item:        item,
		index:       index,
		placeholder: canvas.NewRectangle(theme.Color(theme.ColorNameInputBorder)),
		selected:    canvas.NewRectangle(translucent(theme.Color(theme.ColorNameSelection), 96)),
	}
	// Drawn above the content as a ring so it stays visible over
	// full-bleed thumbnails.
	c.selected.StrokeColor = theme.Color(theme.ColorNamePrimary)
	c.selected.StrokeWidth = 3
	c.selected.Hide()
	c.ExtendBaseWidget(c)
	return c
}

// reveal mounts the real content. It is idempotent: late or duplicate
// visibility signals after the first are ignored.
func (c *lazyCell) reveal() {
	if c.state == stateVisible {
		return
	}
	c.state = stateVisible

	if content := c.host.renderContent(c.item, c.index); content != nil {
		c.content = content
	}
	c.placeholder.Hide()
	c.host.markRevealed(c.item.ItemID())
	c.Refresh()
}

func (c *lazyCell) setSelected(selected bool) {
	if selected == c.selected.Visible() {
		return
	}
	if selected {
		c.selected.Show()
	} else {
		c.selected.Hide()
	}
	c.Refresh()
}

func (c *lazyCell) Tapped(e *fyne.PointEvent) {
	// Ignore the click that ends a marquee drag.
	if c.host.dragGuardActive() {
		return
	}

	now := time.Now()
	if now.Sub(c.lastClick) < fyne.CurrentApp().Driver().DoubleTapDelay() {
		c.lastClick = now
		c.host.itemDoubleTapped(c.item, c.index)
		return
	}
	c.lastClick = now
	c.host.itemTapped(c.item, c.index)
}

func (c *lazyCell) CreateRenderer() fyne.WidgetRenderer {
	return &lazyCellRenderer{cell: c}
}

var _ fyne.Tappable = (*lazyCell)(nil)

type lazyCellRenderer struct {
	cell *lazyCell
}

func (r *lazyCellRenderer) Layout(size fyne.Size) {
	r.cell.selected.Resize(size)
	r.cell.placeholder.Resize(size)
	if r.cell.content != nil {
		r.cell.content.Resize(size)
		r.cell.content.Move(fyne.NewPos(0, 0))
	}
}

func (r *lazyCellRenderer) MinSize() fyne.Size {
	return fyne.NewSize(0, 0)
}

func (r *lazyCellRenderer) Refresh() {
	r.cell.selected.Refresh()
	r.cell.placeholder.Refresh()
	if r.cell.content != nil {
		r.cell.content.Resize(r.cell.Size())
		r.cell.content.Refresh()
	}
}

func (r *lazyCellRenderer) Objects() []fyne.CanvasObject {
	objs := []fyne.CanvasObject{r.cell.placeholder}
	if r.cell.content != nil {
		objs = append(objs, r.cell.content)
	}
	return append(objs, r.cell.selected)
}

func (r *lazyCellRenderer) Destroy() {}
