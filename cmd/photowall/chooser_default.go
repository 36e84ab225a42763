//go:build !(flatpak && linux)

package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
)

func chooseFolder(win fyne.Window, callback func(dir string)) {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			callback("")
			return
		}
		callback(uri.Path())
	}, win)
}
