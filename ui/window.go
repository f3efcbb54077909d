package ui

import (
	"fyne.io/fyne/v2"
)

// CreateMainWindow creates the fixed-size main window showing start.
func CreateMainWindow(a App, fyneApp fyne.App, title string, size fyne.Size, start fyne.CanvasObject) fyne.Window {
	if title == "" {
		title = fyneApp.Metadata().Name
	}
	w := fyneApp.NewWindow(title)

	w.Canvas().SetOnTypedRune(a.HandleKeyRune)
	w.Canvas().SetOnTypedKey(a.HandleKey)

	w.SetContent(start)
	w.Resize(size)
	w.SetFixedSize(true)
	return w
}
