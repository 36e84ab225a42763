package grid

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// cellSpan is the vertical extent of a mounted cell in content
// coordinates, used by the visibility monitor for intersection tests.
type cellSpan struct {
	top    float32
	bottom float32
}

// Grid is the virtualized photo grid widget. It renders only the rows
// intersecting the viewport plus an overscan margin, recycles cells by
// stable item ID, reveals item content lazily and carries a shared
// selection model.
type Grid struct {
	widget.BaseWidget

	cfg    Config
	render RenderFunc

	scroll  *container.Scroll
	surface *gridSurface
	overlay *marqueeOverlay
	zoomOv  *zoomScrollOverlay
	empty   fyne.CanvasObject

	items []Item
	sel   *SelectionModel

	monitor    VisibilityMonitor
	sm         *scrollMonitor // non-nil while the built-in monitor is installed
	placements map[fyne.CanvasObject]cellSpan
	revealed   map[string]struct{}

	vr   rowVirtualizer
	cols int
	zoom int

	measuredItemHeight float32 // feedback from MeasureElement, 0 when unset
	lastTotalSize      float32

	rows  map[int]*fyne.Container
	cells map[string]*lazyCell

	anchor int // shift-extend anchor, -1 when unset

	onItemClick       func(Item, int)
	onItemDoubleClick func(Item, int)
	onSelection       func(selected []string)

	// Marquee drag state, see marquee.go.
	dragSelecting     bool
	lastDragTime      time.Time
	lastDragSelection []string
	dragStartContent  fyne.Position
	dragCurViewport   fyne.Position
	autoScrollTicker  *time.Ticker
	autoScrollStop    chan struct{}
	autoScrollDir     int
	autoScrollStep    float32
}

// NewGrid creates a grid that renders items through the supplied
// RenderFunc. The render callback runs lazily, only for items that
// near the viewport.
func NewGrid(cfg Config, render RenderFunc) *Grid {
	g := &Grid{
		cfg:        cfg.withDefaults(),
		render:     render,
		sel:        newSelectionModel(),
		placements: make(map[fyne.CanvasObject]cellSpan),
		revealed:   make(map[string]struct{}),
		rows:       make(map[int]*fyne.Container),
		cells:      make(map[string]*lazyCell),
		anchor:     -1,
		zoom:       defaultZoomLevelIndex,
	}
	g.sel.onChanged = g.selectionChanged

	g.surface = newGridSurface(g)
	g.scroll = container.NewVScroll(g.surface)
	g.scroll.OnScrolled = func(fyne.Position) {
		g.refreshWindow()
	}
	g.overlay = newMarqueeOverlay(g.scroll, g.onMarqueeDrag, g.onMarqueeEnd)
	g.zoomOv = newZoomScrollOverlay(g.AdjustZoom)

	sm := newScrollMonitor(g.spanOf, g.revealMargin())
	g.sm = sm
	g.monitor = sm

	g.ExtendBaseWidget(g)
	return g
}

// SetItems replaces the displayed collection. Selection and reveal
// state survive for items whose IDs persist; state for removed IDs is
// dropped.
func (g *Grid) SetItems(items []Item) {
	g.items = append(g.items[:0:0], items...)

	keep := make(map[string]struct{}, len(g.items))
	for _, it := range g.items {
		keep[it.ItemID()] = struct{}{}
	}
	for id := range g.revealed {
		if _, ok := keep[id]; !ok {
			delete(g.revealed, id)
		}
	}
	g.sel.prune(keep)

	if g.anchor >= len(g.items) {
		g.anchor = -1
	}

	g.refreshLayout()
	g.Refresh() // empty-state may have toggled
}

// Items returns the currently displayed collection.
func (g *Grid) Items() []Item {
	return g.items
}

// Selection exposes the shared selection model.
func (g *Grid) Selection() *SelectionModel {
	return g.sel
}

// SetOnItemClick registers the host click callback, invoked when
// selection mode is off.
func (g *Grid) SetOnItemClick(fn func(item Item, index int)) {
	g.onItemClick = fn
}

// SetOnItemDoubleClick registers the host double-click callback,
// invoked when selection mode is off.
func (g *Grid) SetOnItemDoubleClick(fn func(item Item, index int)) {
	g.onItemDoubleClick = fn
}

// SetOnSelectionChanged registers a notification fired with the sorted
// selected IDs after every selection change.
func (g *Grid) SetOnSelectionChanged(fn func(selected []string)) {
	g.onSelection = fn
}

// SetEmptyContent installs host-provided content shown instead of the
// grid while the item list is empty.
func (g *Grid) SetEmptyContent(obj fyne.CanvasObject) {
	g.empty = obj
	g.Refresh()
}

// SetVisibilityMonitor replaces the built-in scroll-driven monitor,
// mainly so tests and other platforms can drive visibility signals
// explicitly.
func (g *Grid) SetVisibilityMonitor(m VisibilityMonitor) {
	if m == nil {
		return
	}
	if g.monitor != nil {
		g.monitor.Disconnect()
	}
	g.monitor = m
	g.sm, _ = m.(*scrollMonitor)
}

// SelectAll puts every item ID into the selection and enables
// selection mode.
func (g *Grid) SelectAll() {
	if len(g.items) == 0 {
		return
	}
	ids := make([]string, len(g.items))
	for i, it := range g.items {
		ids[i] = it.ItemID()
	}
	g.sel.SetMode(true)
	g.sel.Replace(ids)
}

// ScrollToIndex scrolls so the row containing the given item index is
// at the top of the viewport, clamped to the valid scroll range.
func (g *Grid) ScrollToIndex(index int) {
	if len(g.items) == 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= len(g.items) {
		index = len(g.items) - 1
	}

	target := g.vr.rowStart(g.vr.rowForIndex(index))
	if max := g.maxScrollOffset(); target > max {
		target = max
	}
	if target < 0 {
		target = 0
	}

	g.scroll.ScrollToOffset(fyne.NewPos(g.scroll.Offset.X, target))
	g.refreshWindow()
}

// MeasureElement feeds a real rendered element back into the row size
// estimate. The default estimate is the configured item height; a
// measurement replaces it for every row.
func (g *Grid) MeasureElement(obj fyne.CanvasObject) {
	if obj == nil {
		return
	}
	h := obj.MinSize().Height
	if h <= 0 || h == g.measuredItemHeight {
		return
	}
	g.measuredItemHeight = h
	g.refreshLayout()
}

// VisibleItemCount reports how many cells are currently materialized.
// It is bounded by the viewport and overscan, never by the collection
// size.
func (g *Grid) VisibleItemCount() int {
	return len(g.cells)
}

// Geometry helpers. All cell metrics scale with the zoom level.

func (g *Grid) itemWidth() float32 {
	return g.cfg.ItemWidth * g.ZoomScale()
}

func (g *Grid) itemHeight() float32 {
	base := g.cfg.ItemHeight
	if g.measuredItemHeight > 0 {
		base = g.measuredItemHeight
	}
	return base * g.ZoomScale()
}

func (g *Grid) minItemWidth() float32 {
	return g.cfg.MinItemWidth * g.ZoomScale()
}

func (g *Grid) rowHeight() float32 {
	return g.itemHeight() + g.cfg.Gap
}

func (g *Grid) revealMargin() float32 {
	// One row ahead of the viewport, sized to hide thumbnail latency.
	return g.rowHeight()
}

func (g *Grid) viewportSize() fyne.Size {
	size := g.scroll.Size()
	if size.Width <= 0 || size.Height <= 0 {
		size = g.Size()
	}
	return size
}

func (g *Grid) spanOf(obj fyne.CanvasObject) (top, bottom float32, ok bool) {
	span, ok := g.placements[obj]
	return span.top, span.bottom, ok
}

// refreshLayout recomputes everything, including the effective column
// count. Used after item, size, zoom or measurement changes.
func (g *Grid) refreshLayout() {
	g.reflow()
}

// refreshWindow is the scroll-path recompute. Column inputs are
// unchanged, so the virtualizer memo makes an unchanged window free.
func (g *Grid) refreshWindow() {
	g.reflow()
}

// reflow derives the effective column count, asks the virtualizer for
// the visible rows, and mounts exactly the cells those rows contain.
// Cells are keyed by item ID so identity survives list mutation;
// everything outside the window is unmounted.
func (g *Grid) reflow() {
	vp := g.viewportSize()
	width, height := vp.Width, vp.Height

	g.cols = effectiveColumns(width, g.cfg.Columns, g.minItemWidth(), g.cfg.Gap)
	g.vr.configure(len(g.items), g.cols, g.rowHeight(), g.cfg.Overscan)

	offset := g.scroll.Offset.Y
	rows := g.vr.visibleRows(offset, height)

	itemW := g.itemWidth()
	itemH := g.itemHeight()
	gap := g.cfg.Gap
	blockX := rowBlockOffset(width, g.cols, itemW, gap)

	needed := make(map[string]struct{})
	activeRows := make(map[int]struct{})

	for _, row := range rows {
		activeRows[row.Index] = struct{}{}
		rc := g.rows[row.Index]
		if rc == nil {
			rc = container.NewWithoutLayout()
			g.rows[row.Index] = rc
		}
		rc.Objects = rc.Objects[:0]

		for _, cl := range cellsForRow(row.Index, g.cols, len(g.items)) {
			item := g.items[cl.GlobalIndex]
			id := item.ItemID()
			needed[id] = struct{}{}

			c := g.cells[id]
			if c == nil {
				c = newLazyCell(g, item, cl.GlobalIndex)
				g.cells[id] = c
				if _, done := g.revealed[id]; done {
					c.reveal()
				} else {
					c.state = stateObserving
					g.monitor.Observe(c, c.reveal)
				}
			} else {
				c.item = item
				c.index = cl.GlobalIndex
			}

			c.setSelected(g.sel.IsSelected(id))
			c.Resize(fyne.NewSize(itemW, itemH))
			c.Move(fyne.NewPos(blockX+float32(cl.ColumnIndex)*(itemW+gap), 0))
			g.placements[c] = cellSpan{top: row.Start, bottom: row.Start + itemH}

			rc.Objects = append(rc.Objects, c)
		}

		rc.Resize(fyne.NewSize(width, row.Size))
		rc.Move(fyne.NewPos(0, row.Start))
	}

	for idx := range g.rows {
		if _, ok := activeRows[idx]; !ok {
			delete(g.rows, idx)
		}
	}
	for id, c := range g.cells {
		if _, ok := needed[id]; !ok {
			if c.state == stateObserving {
				g.monitor.Unobserve(c)
				c.state = stateNotObserved
			}
			delete(g.placements, c)
			delete(g.cells, id)
		}
	}

	g.surface.Refresh()

	// The scroll container caches its content extent; re-layout it when
	// the logical size changes so offset clamping sees the new range.
	if total := g.vr.totalSize(); total != g.lastTotalSize {
		g.lastTotalSize = total
		g.scroll.Refresh()
	}

	if g.sm != nil {
		g.sm.setMargin(g.revealMargin())
		g.sm.update(offset, height)
	}
}

// Cell interaction (cellHost).

func (g *Grid) itemTapped(item Item, index int) {
	id := item.ItemID()
	mod := currentModifiers()

	switch {
	case mod&fyne.KeyModifierShortcutDefault != 0 || mod&fyne.KeyModifierControl != 0:
		g.anchor = index
		g.sel.Toggle(id)
	case mod&fyne.KeyModifierShift != 0 && g.anchor >= 0:
		g.extendSelection(index)
	case g.sel.Mode():
		g.anchor = index
		g.sel.Toggle(id)
	default:
		g.anchor = index
		if g.onItemClick != nil {
			g.onItemClick(item, index)
		}
	}
}

func (g *Grid) itemDoubleTapped(item Item, index int) {
	if g.sel.Mode() {
		// In selection mode the second click is just another toggle.
		g.anchor = index
		g.sel.Toggle(item.ItemID())
		return
	}
	if g.onItemDoubleClick != nil {
		g.onItemDoubleClick(item, index)
	}
}

func (g *Grid) extendSelection(index int) {
	if index < 0 || index >= len(g.items) {
		return
	}
	start, end := g.anchor, index
	if start < 0 {
		start = 0
	}
	if start > end {
		start, end = end, start
	}

	ids := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		ids = append(ids, g.items[i].ItemID())
	}
	g.sel.Replace(ids)
}

func (g *Grid) renderContent(item Item, index int) fyne.CanvasObject {
	if g.render == nil {
		return nil
	}
	return g.render(item, index)
}

func (g *Grid) markRevealed(id string) {
	g.revealed[id] = struct{}{}
}

func (g *Grid) selectionChanged(selected []string) {
	for id, c := range g.cells {
		c.setSelected(g.sel.IsSelected(id))
	}
	if g.onSelection != nil {
		g.onSelection(selected)
	}
}

var _ cellHost = (*Grid)(nil)

func currentModifiers() fyne.KeyModifier {
	if d, ok := fyne.CurrentApp().Driver().(desktop.Driver); ok {
		return d.CurrentKeyModifiers()
	}
	return 0
}

// Widget plumbing.

func (g *Grid) CreateRenderer() fyne.WidgetRenderer {
	return &gridRenderer{g: g}
}

type gridRenderer struct {
	g *Grid

	lastSize  fyne.Size
	lastFired time.Time
	timer     *time.Timer
}

func (r *gridRenderer) Layout(size fyne.Size) {
	r.g.overlay.Resize(size)
	r.g.overlay.Move(fyne.NewPos(0, 0))
	r.g.zoomOv.Resize(size)
	if r.g.empty != nil {
		r.g.empty.Resize(size)
	}

	changed := abs32(size.Width-r.lastSize.Width) >= 0.5 || abs32(size.Height-r.lastSize.Height) >= 0.5
	if !changed {
		return
	}
	r.lastSize = size
	r.scheduleReflow()
}

// scheduleReflow defers window recomputation out of the layout pass
// (mutating the tree mid-layout can panic the driver) and coalesces the
// burst of layouts produced by interactive window resizing.
func (r *gridRenderer) scheduleReflow() {
	const minInterval = 60 * time.Millisecond

	now := time.Now()
	if now.Sub(r.lastFired) >= minInterval {
		r.lastFired = now
		fyne.Do(r.g.refreshLayout)
		return
	}

	delay := minInterval - now.Sub(r.lastFired)
	if r.timer == nil {
		r.timer = time.AfterFunc(delay, func() {
			fyne.Do(func() {
				r.timer = nil
				r.lastFired = time.Now()
				r.g.refreshLayout()
			})
		})
		return
	}
	r.timer.Reset(delay)
}

func (r *gridRenderer) MinSize() fyne.Size {
	return fyne.NewSize(r.g.itemWidth(), r.g.itemHeight())
}

func (r *gridRenderer) Refresh() {
	r.g.overlay.Refresh()
}

func (r *gridRenderer) Objects() []fyne.CanvasObject {
	if len(r.g.items) == 0 && r.g.empty != nil {
		return []fyne.CanvasObject{r.g.empty}
	}
	return []fyne.CanvasObject{r.g.overlay, r.g.zoomOv}
}

func (r *gridRenderer) Destroy() {
	if r.timer != nil {
		r.timer.Stop()
	}
	r.g.stopAutoScroll()
	r.g.monitor.Disconnect()
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// gridSurface is the scrolled content: a canvas whose minimum height is
// the grid's total size, holding only the materialized row containers.
type gridSurface struct {
	widget.BaseWidget
	g *Grid
}

func newGridSurface(g *Grid) *gridSurface {
	s := &gridSurface{g: g}
	s.ExtendBaseWidget(s)
	return s
}

func (s *gridSurface) CreateRenderer() fyne.WidgetRenderer {
	return &gridSurfaceRenderer{s: s}
}

type gridSurfaceRenderer struct {
	s *gridSurface
}

// Layout is a no-op: rows are positioned absolutely during reflow using
// the virtualizer's precomputed offsets.
func (r *gridSurfaceRenderer) Layout(fyne.Size) {}

// MinSize reports the total logical extent so the scrollbar reflects
// the whole collection even though only a window is materialized.
func (r *gridSurfaceRenderer) MinSize() fyne.Size {
	g := r.s.g
	return fyne.NewSize(g.itemWidth(), g.vr.totalSize())
}

func (r *gridSurfaceRenderer) Refresh() {
	for _, rc := range r.s.g.rows {
		rc.Refresh()
	}
}

func (r *gridSurfaceRenderer) Objects() []fyne.CanvasObject {
	g := r.s.g
	objs := make([]fyne.CanvasObject, 0, len(g.rows))
	for _, rc := range g.rows {
		objs = append(objs, rc)
	}
	return objs
}

func (r *gridSurfaceRenderer) Destroy() {}
