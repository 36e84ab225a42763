package grid

import (
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

var zoomLevels = []float32{
	0.75,
	1.0,
	1.25,
	1.5,
	1.75,
	2.0,
}

const defaultZoomLevelIndex = 1 // 1.0

func clampZoomLevelIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(zoomLevels) {
		return len(zoomLevels) - 1
	}
	return i
}

// ZoomLevelCount returns the number of discrete zoom steps.
func ZoomLevelCount() int {
	return len(zoomLevels)
}

// ZoomLevel returns the current zoom step index.
func (g *Grid) ZoomLevel() int {
	return g.zoom
}

// ZoomScale returns the current cell scale factor.
func (g *Grid) ZoomScale() float32 {
	return zoomLevels[clampZoomLevelIndex(g.zoom)]
}

// SetZoomLevel changes the cell scale, re-deriving columns and rows.
func (g *Grid) SetZoomLevel(level int) {
	level = clampZoomLevelIndex(level)
	if g.zoom == level {
		return
	}
	g.zoom = level
	g.refreshLayout()
}

// AdjustZoom moves the zoom level by the given number of steps.
func (g *Grid) AdjustZoom(steps int) {
	if steps == 0 {
		return
	}
	g.SetZoomLevel(g.zoom + steps)
}

func isZoomModifierActive() bool {
	d, ok := fyne.CurrentApp().Driver().(desktop.Driver)
	if !ok {
		return false
	}

	mods := d.CurrentKeyModifiers()
	if mods&fyne.KeyModifierControl != 0 {
		return true
	}
	// Honor Command+scroll on macOS via the platform shortcut modifier.
	return mods&fyne.KeyModifierShortcutDefault != 0
}

// zoomScrollOverlay sits above the grid and captures scroll events only
// while the zoom modifier is held, converting wheel notches into zoom
// steps. Without the modifier it reports itself invisible so scrolling
// reaches the grid underneath.
type zoomScrollOverlay struct {
	widget.BaseWidget
	onStep func(steps int)
	accDY  float32
}

func newZoomScrollOverlay(onStep func(steps int)) *zoomScrollOverlay {
	z := &zoomScrollOverlay{onStep: onStep}
	z.ExtendBaseWidget(z)
	return z
}

func (z *zoomScrollOverlay) Visible() bool {
	if !z.BaseWidget.Visible() {
		return false
	}
	return isZoomModifierActive()
}

func (z *zoomScrollOverlay) Scrolled(e *fyne.ScrollEvent) {
	if z.onStep == nil {
		return
	}

	// Scroll deltas are scaled; a typical wheel notch is ~40. Accumulate
	// so touchpads don't zoom too quickly.
	const notch = float32(40)

	if math.IsNaN(float64(e.Scrolled.DY)) || math.IsInf(float64(e.Scrolled.DY), 0) {
		return
	}

	z.accDY += e.Scrolled.DY

	var steps int
	for z.accDY >= notch {
		steps++
		z.accDY -= notch
	}
	for z.accDY <= -notch {
		steps--
		z.accDY += notch
	}

	if steps != 0 {
		z.onStep(steps)
	}
}

func (z *zoomScrollOverlay) CreateRenderer() fyne.WidgetRenderer {
	return &zoomScrollOverlayRenderer{}
}

var _ fyne.Scrollable = (*zoomScrollOverlay)(nil)

type zoomScrollOverlayRenderer struct{}

func (r *zoomScrollOverlayRenderer) Layout(fyne.Size) {}
func (r *zoomScrollOverlayRenderer) MinSize() fyne.Size {
	return fyne.NewSize(0, 0)
}
func (r *zoomScrollOverlayRenderer) Refresh()                     {}
func (r *zoomScrollOverlayRenderer) Objects() []fyne.CanvasObject { return nil }
func (r *zoomScrollOverlayRenderer) Destroy()                     {}
