package grid

import (
	"image/color"
	"math"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

func translucent(c color.Color, alpha uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: alpha}
}

// marqueeOverlay wraps the scrolled viewport and turns drags into a
// rubber-band selection rectangle. It implements fyne.Draggable only,
// so taps fall through to the cells underneath and the scrollbar keeps
// priority for its own drags.
type marqueeOverlay struct {
	widget.BaseWidget
	content fyne.CanvasObject

	rect *canvas.Rectangle

	startPos fyne.Position
	curPos   fyne.Position
	dragging bool

	onChanged func(start, cur fyne.Position)
	onEnd     func()
}

func newMarqueeOverlay(content fyne.CanvasObject, onChanged func(start, cur fyne.Position), onEnd func()) *marqueeOverlay {
	m := &marqueeOverlay{
		content:   content,
		rect:      canvas.NewRectangle(translucent(theme.Color(theme.ColorNameFocus), 64)),
		onChanged: onChanged,
		onEnd:     onEnd,
	}
	m.rect.StrokeColor = theme.Color(theme.ColorNamePrimary)
	m.rect.StrokeWidth = 2
	m.rect.Hide()
	m.ExtendBaseWidget(m)
	return m
}

func (m *marqueeOverlay) Dragged(e *fyne.DragEvent) {
	if !m.dragging {
		m.dragging = true
		m.startPos = e.PointEvent.Position.Subtract(e.Dragged)
		m.rect.Show()
	}

	m.curPos = e.PointEvent.Position
	m.refreshRect()

	if m.onChanged != nil {
		m.onChanged(m.startPos, m.curPos)
	}
}

func (m *marqueeOverlay) DragEnd() {
	if !m.dragging {
		return
	}
	m.dragging = false
	m.rect.Hide()
	m.rect.Refresh()

	if m.onEnd != nil {
		m.onEnd()
	}
}

// setStartPos re-anchors the visible rectangle while the content
// scrolls underneath an active drag.
func (m *marqueeOverlay) setStartPos(pos fyne.Position) {
	m.startPos = pos
	m.refreshRect()
}

func (m *marqueeOverlay) refreshRect() {
	tl := fyne.NewPos(min32(m.startPos.X, m.curPos.X), min32(m.startPos.Y, m.curPos.Y))
	br := fyne.NewPos(max32(m.startPos.X, m.curPos.X), max32(m.startPos.Y, m.curPos.Y))
	m.rect.Move(tl)
	m.rect.Resize(fyne.NewSize(br.X-tl.X, br.Y-tl.Y))
}

func (m *marqueeOverlay) CreateRenderer() fyne.WidgetRenderer {
	return &marqueeOverlayRenderer{m: m}
}

var _ fyne.Draggable = (*marqueeOverlay)(nil)

type marqueeOverlayRenderer struct {
	m *marqueeOverlay
}

func (r *marqueeOverlayRenderer) Layout(size fyne.Size) {
	r.m.content.Resize(size)
	r.m.content.Move(fyne.NewPos(0, 0))
}

func (r *marqueeOverlayRenderer) MinSize() fyne.Size {
	return r.m.content.MinSize()
}

func (r *marqueeOverlayRenderer) Refresh() {
	r.m.content.Refresh()
	r.m.rect.Refresh()
}

func (r *marqueeOverlayRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.m.content, r.m.rect}
}

func (r *marqueeOverlayRenderer) Destroy() {}

// Marquee drag handling on the grid side. Positions arrive in viewport
// coordinates; the anchor is converted to content coordinates once, at
// drag start, so it stays fixed while auto-scroll moves the content.

func (g *Grid) onMarqueeDrag(start, cur fyne.Position) {
	dragStart := !g.dragSelecting
	g.dragSelecting = true

	if len(g.items) == 0 {
		return
	}

	g.dragCurViewport = cur
	if dragStart {
		offset := g.scroll.Offset.Y
		g.dragStartContent = fyne.NewPos(start.X, start.Y+offset)
		g.sel.SetMode(true)
	}

	g.updateAutoScroll()
	g.updateMarqueeSelection()
}

func (g *Grid) updateMarqueeSelection() {
	if !g.dragSelecting || len(g.items) == 0 {
		return
	}

	offset := g.scroll.Offset.Y

	// Keep the on-screen rectangle anchored to the original content
	// position even as the grid auto-scrolls underneath the pointer.
	g.overlay.setStartPos(fyne.NewPos(g.dragStartContent.X, g.dragStartContent.Y-offset))

	curContent := fyne.NewPos(g.dragCurViewport.X, g.dragCurViewport.Y+offset)

	tl := fyne.NewPos(min32(g.dragStartContent.X, curContent.X), min32(g.dragStartContent.Y, curContent.Y))
	br := fyne.NewPos(max32(g.dragStartContent.X, curContent.X), max32(g.dragStartContent.Y, curContent.Y))

	cols := g.cols
	if cols < 1 {
		cols = 1
	}

	itemW := g.itemWidth()
	itemH := g.itemHeight()
	gap := g.cfg.Gap
	stepX := itemW + gap
	stepY := g.rowHeight()
	blockX := rowBlockOffset(g.viewportSize().Width, cols, itemW, gap)

	// Work out the touched row/column ranges first, then do a strict
	// intersection test per cell inside them.
	startRow := int(tl.Y / stepY)
	endRow := int(br.Y / stepY)
	maxRow := (len(g.items) - 1) / cols
	if startRow < 0 {
		startRow = 0
	}
	if endRow > maxRow {
		endRow = maxRow
	}

	startCol := int((tl.X - blockX) / stepX)
	endCol := int((br.X - blockX) / stepX)
	if startCol < 0 {
		startCol = 0
	}
	if endCol > cols-1 {
		endCol = cols - 1
	}

	var ids []string
	for row := startRow; row <= endRow; row++ {
		for col := startCol; col <= endCol; col++ {
			i := row*cols + col
			if i < 0 || i >= len(g.items) {
				continue
			}

			x1 := blockX + float32(col)*stepX
			y1 := float32(row) * stepY
			x2 := x1 + itemW
			y2 := y1 + itemH

			if x1 < br.X && x2 > tl.X && y1 < br.Y && y2 > tl.Y {
				ids = append(ids, g.items[i].ItemID())
			}
		}
	}

	if sameIDs(g.lastDragSelection, ids) {
		return
	}
	g.lastDragSelection = ids

	g.sel.Replace(ids)
}

func (g *Grid) onMarqueeEnd() {
	g.stopAutoScroll()
	g.lastDragSelection = nil
	g.dragSelecting = false
	g.lastDragTime = time.Now()
}

// dragGuardActive suppresses the spurious click that some platforms
// deliver when a marquee drag ends on top of a cell.
func (g *Grid) dragGuardActive() bool {
	return g.dragSelecting || time.Since(g.lastDragTime) < 200*time.Millisecond
}

func (g *Grid) maxScrollOffset() float32 {
	max := g.vr.totalSize() - g.viewportSize().Height
	if max < 0 {
		return 0
	}
	return max
}

func (g *Grid) updateAutoScroll() {
	if !g.dragSelecting {
		g.stopAutoScroll()
		return
	}

	size := g.overlay.Size()
	if size.Height <= 0 {
		g.stopAutoScroll()
		return
	}

	zone := theme.Padding() * 4
	if zone < 24 {
		zone = 24
	}
	if zone > size.Height/2 {
		zone = size.Height / 2
	}

	var dir int
	var intensity float32
	if g.dragCurViewport.Y < zone {
		dir = -1
		intensity = (zone - g.dragCurViewport.Y) / zone
	} else if g.dragCurViewport.Y > size.Height-zone {
		dir = 1
		intensity = (g.dragCurViewport.Y - (size.Height - zone)) / zone
	}
	if intensity > 1 {
		intensity = 1
	}

	if dir == 0 || intensity <= 0 {
		g.stopAutoScroll()
		return
	}

	maxStep := g.itemHeight() * 0.5
	if maxStep < 12 {
		maxStep = 12
	}
	if maxStep > 80 {
		maxStep = 80
	}

	g.autoScrollDir = dir
	g.autoScrollStep = intensity * maxStep
	g.startAutoScroll()
}

func (g *Grid) startAutoScroll() {
	if g.autoScrollTicker != nil {
		return
	}
	g.autoScrollTicker = time.NewTicker(30 * time.Millisecond)
	g.autoScrollStop = make(chan struct{})

	stop := g.autoScrollStop
	ticker := g.autoScrollTicker
	go func() {
		for {
			select {
			case <-ticker.C:
				fyne.Do(func() {
					g.autoScrollTick()
				})
			case <-stop:
				return
			}
		}
	}()
}

func (g *Grid) stopAutoScroll() {
	if g.autoScrollTicker == nil {
		return
	}
	g.autoScrollTicker.Stop()
	g.autoScrollTicker = nil
	if g.autoScrollStop != nil {
		close(g.autoScrollStop)
		g.autoScrollStop = nil
	}
	g.autoScrollDir = 0
	g.autoScrollStep = 0
}

func (g *Grid) autoScrollTick() {
	if !g.dragSelecting || g.autoScrollDir == 0 || g.autoScrollStep <= 0 {
		g.stopAutoScroll()
		return
	}

	offset := g.scroll.Offset.Y
	maxOffset := g.maxScrollOffset()
	if maxOffset <= 0 {
		g.stopAutoScroll()
		return
	}

	next := offset + float32(g.autoScrollDir)*g.autoScrollStep
	if next < 0 {
		next = 0
	} else if next > maxOffset {
		next = maxOffset
	}

	if next == offset {
		// Hit the end, no need to keep ticking.
		g.stopAutoScroll()
		return
	}

	g.scroll.ScrollToOffset(fyne.NewPos(g.scroll.Offset.X, next))
	g.refreshWindow()

	// Scrolling shifts the content under the stationary pointer, so the
	// selection rectangle has to be recomputed.
	g.updateMarqueeSelection()
}

func min32(a, b float32) float32 {
	return float32(math.Min(float64(a), float64(b)))
}

func max32(a, b float32) float32 {
	return float32(math.Max(float64(a), float64(b)))
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
