package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"focustimer/history"
	"focustimer/i18n"
	"focustimer/timer"
)

// SubjectView asks for the focus subject and lists past sessions.
type SubjectView struct {
	entry       *widget.Entry
	addButton   *widget.Button
	clearButton *widget.Button
	historyList *widget.List
	content     fyne.CanvasObject

	records []history.Record // fyne goroutine only
}

// NewSubjectView builds the subject screen.
func NewSubjectView(a App) *SubjectView {
	v := &SubjectView{}

	title := canvas.NewText(i18n.T("What would you like to focus on?"), theme.Color(theme.ColorNameForeground))
	title.TextSize = timer.FontSizeTask
	title.TextStyle.Bold = true
	title.Alignment = fyne.TextAlignCenter

	submit := func() {
		subject := strings.TrimSpace(v.entry.Text)
		if subject == "" {
			return
		}
		v.entry.SetText("")
		a.SetSubject(subject)
	}

	v.entry = widget.NewEntry()
	v.entry.OnSubmitted = func(string) { submit() }
	v.addButton = widget.NewButtonWithIcon("", theme.ContentAddIcon(), submit)
	v.addButton.Importance = widget.HighImportance

	v.historyList = widget.NewList(
		func() int { return len(v.records) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, o fyne.CanvasObject) {
			if id < 0 || id >= len(v.records) {
				return
			}
			o.(*widget.Label).SetText(formatRecord(v.records[id]))
		},
	)

	historyTitle := widget.NewLabelWithStyle(i18n.T("Things we've focused on"), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	v.clearButton = widget.NewButtonWithIcon(i18n.T("Clear"), theme.DeleteIcon(), a.ClearHistory)
	v.clearButton.Disable()

	listSize := canvas.NewRectangle(theme.Color(theme.ColorNameBackground))
	listSize.SetMinSize(fyne.NewSize(0, timer.HistoryListHeight))

	top := container.NewVBox(
		layout.NewSpacer(),
		title,
		container.NewBorder(nil, nil, nil, v.addButton, v.entry),
	)
	bottom := container.NewHBox(layout.NewSpacer(), v.clearButton, layout.NewSpacer())

	v.content = container.NewPadded(container.NewBorder(
		top,
		bottom,
		nil, nil,
		container.NewBorder(historyTitle, nil, nil, nil, container.NewStack(listSize, v.historyList)),
	))
	return v
}

// CanvasObject returns the root of the screen.
func (v *SubjectView) CanvasObject() fyne.CanvasObject {
	return v.content
}

// SetHistory replaces the listed records. It may be called from any
// goroutine.
func (v *SubjectView) SetHistory(records []history.Record) {
	fyne.Do(func() { v.renderHistory(records) })
}

func (v *SubjectView) renderHistory(records []history.Record) {
	v.records = records
	if len(records) == 0 {
		v.clearButton.Disable()
	} else {
		v.clearButton.Enable()
	}
	v.historyList.Refresh()
}

func formatRecord(r history.Record) string {
	return fmt.Sprintf("%s  %s  (%s, %s)",
		r.EndedAt.Local().Format("15:04"),
		r.Subject,
		timer.FormatMillis(r.ElapsedMs),
		i18n.T(string(r.Outcome)),
	)
}
