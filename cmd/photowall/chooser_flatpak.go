//go:build flatpak && linux

package main

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"

	"github.com/rymdport/portal"
	"github.com/rymdport/portal/filechooser"
)

// chooseFolder asks the XDG desktop portal for a folder, so a
// sandboxed flatpak build gets real filesystem access to the choice.
func chooseFolder(win fyne.Window, callback func(dir string)) {
	options := &filechooser.OpenFileOptions{
		AcceptLabel: "Open",
		Directory:   true,
	}
	windowHandle := windowHandleForPortal(win)

	go func() {
		uris, err := filechooser.OpenFile(windowHandle, "Open Folder", options)
		if err != nil || len(uris) == 0 {
			fyne.Do(func() { callback("") })
			return
		}

		dir := strings.TrimPrefix(uris[0], "file://")
		fyne.Do(func() { callback(dir) })
	}()
}

func windowHandleForPortal(window fyne.Window) string {
	native, ok := window.(driver.NativeWindow)
	if !ok {
		return ""
	}

	windowHandle := ""
	native.RunNative(func(context any) {
		if x11, ok := context.(driver.X11WindowContext); ok {
			windowHandle = portal.FormatX11WindowHandle(x11.WindowHandle)
		}
	})
	return windowHandle
}
