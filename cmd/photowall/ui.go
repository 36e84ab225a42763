package main

import (
	"fmt"
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/sarvarunajvm/ideal-goggles-sub001/grid"
	"github.com/sarvarunajvm/ideal-goggles-sub001/internal/config"
	"github.com/sarvarunajvm/ideal-goggles-sub001/internal/library"
	"github.com/sarvarunajvm/ideal-goggles-sub001/internal/thumbs"
)

type ui struct {
	cfg    *config.Config
	win    fyne.Window
	grid   *grid.Grid
	thumbs *thumbs.Manager
	status *widget.Label

	photos []*library.Photo
}

func runUI(cfg *config.Config) {
	a := app.NewWithID("com.github.sarvarunajvm.photowall")
	win := a.NewWindow("Photowall")
	win.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))

	u := &ui{
		cfg:    cfg,
		win:    win,
		status: widget.NewLabel(""),
		thumbs: thumbs.NewManager(thumbs.Options{
			CacheDir:      cfg.Thumbnails.CacheDir,
			FFmpegPath:    cfg.Thumbnails.FFmpegPath,
			TargetSize:    cfg.Thumbnails.TargetSize,
			Workers:       cfg.Thumbnails.Workers,
			MaxCacheBytes: cfg.Thumbnails.MaxCacheMB * 1024 * 1024,
			MaxCacheFiles: cfg.Thumbnails.MaxCacheFiles,
		}),
	}

	u.grid = grid.NewGrid(grid.Config{
		Columns:      cfg.Grid.Columns,
		MinItemWidth: cfg.Grid.MinItemWidth,
		ItemWidth:    cfg.Grid.ItemWidth,
		ItemHeight:   cfg.Grid.ItemHeight,
		Gap:          cfg.Grid.Gap,
		Overscan:     cfg.Grid.Overscan,
	}, u.renderPhoto)

	u.grid.SetEmptyContent(container.NewCenter(widget.NewLabel("Open a folder to browse photos")))
	u.grid.SetOnItemDoubleClick(func(item grid.Item, index int) {
		if p, ok := item.(*library.Photo); ok {
			_ = openExternally(p.Path)
		}
	})
	win.SetContent(container.NewBorder(u.toolbar(), u.status, nil, nil, u.grid))

	if cfg.Library != "" {
		u.loadFolder(cfg.Library)
	}

	win.ShowAndRun()
	u.thumbs.Close()
}

func (u *ui) toolbar() fyne.CanvasObject {
	selectMode := widget.NewCheck("Select", func(on bool) {
		u.grid.Selection().SetMode(on)
	})

	open := widget.NewButtonWithIcon("Open Folder", theme.FolderOpenIcon(), func() {
		chooseFolder(u.win, func(dir string) {
			if dir != "" {
				u.loadFolder(dir)
			}
		})
	})
	selectAll := widget.NewButtonWithIcon("All", theme.ContentCopyIcon(), func() {
		u.grid.SelectAll()
		selectMode.SetChecked(true)
	})
	clearSel := widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), func() {
		u.grid.Selection().Clear()
	})
	zoomOut := widget.NewButtonWithIcon("", theme.ZoomOutIcon(), func() {
		u.grid.AdjustZoom(-1)
	})
	zoomIn := widget.NewButtonWithIcon("", theme.ZoomInIcon(), func() {
		u.grid.AdjustZoom(1)
	})

	u.grid.SetOnSelectionChanged(func(selected []string) {
		u.updateStatus(len(selected))
		if mode := u.grid.Selection().Mode(); mode != selectMode.Checked {
			selectMode.SetChecked(mode)
		}
	})

	return container.NewHBox(open, selectMode, selectAll, clearSel, widget.NewSeparator(), zoomOut, zoomIn)
}

func (u *ui) loadFolder(dir string) {
	photos, err := library.Scan(dir)
	if err != nil {
		u.status.SetText(fmt.Sprintf("Failed to open %s: %v", dir, err))
		return
	}

	u.photos = photos
	items := make([]grid.Item, len(photos))
	for i, p := range photos {
		items[i] = p
	}
	u.grid.SetItems(items)
	u.thumbs.Prewarm(library.Paths(photos))
	u.updateStatus(u.grid.Selection().Count())
	u.win.SetTitle("Photowall - " + dir)
}

func (u *ui) updateStatus(selected int) {
	if selected > 0 {
		u.status.SetText(fmt.Sprintf("%d of %d selected", selected, len(u.photos)))
		return
	}
	u.status.SetText(fmt.Sprintf("%d photos", len(u.photos)))
}

// renderPhoto builds the cell content for one photo. The image object
// mounts immediately; the decoded thumbnail arrives asynchronously from
// the worker pool.
func (u *ui) renderPhoto(item grid.Item, index int) fyne.CanvasObject {
	p, ok := item.(*library.Photo)
	if !ok {
		return nil
	}

	img := canvas.NewImageFromResource(theme.FileImageIcon())
	img.FillMode = canvas.ImageFillContain

	if cached := u.thumbs.LoadCached(p.Path); cached != nil {
		img.Image = cached
		img.Resource = nil
	} else {
		u.thumbs.Load(p.Path, func(thumb image.Image) {
			fyne.Do(func() {
				img.Image = thumb
				img.Resource = nil
				img.Refresh()
			})
		})
	}

	label := widget.NewLabel(p.Name)
	label.Truncation = fyne.TextTruncateEllipsis
	label.Alignment = fyne.TextAlignCenter

	return container.NewBorder(nil, label, nil, nil, img)
}
