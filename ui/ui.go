package ui

import (
	"fmt"
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"focustimer/control"
	"focustimer/i18n"
	"focustimer/timer"
)

// App is what the widgets need from the hosting application.
type App interface {
	EnqueueCommand(cmd control.Command)
	SetSubject(subject string)
	ClearHistory()
	HandleKeyRune(rune)
	HandleKey(*fyne.KeyEvent)
}

// TimerView is the timer screen. It implements timer.Display; its setters
// may be called from any goroutine.
type TimerView struct {
	subjectText   *canvas.Text
	timeText      *canvas.Text
	progressBar   *widget.ProgressBar
	toggleButton  *widget.Button
	toggleShade   *canvas.Rectangle
	cancelButton  *widget.Button
	presetButtons []*widget.Button
	countdown     *TappableContainer
	cover         *canvas.Rectangle
	content       fyne.CanvasObject

	fade    *fyne.Animation
	fadeOut *fyne.Animation
}

var _ timer.Display = (*TimerView)(nil)

// NewTimerView builds the timer screen with one button per preset.
func NewTimerView(a App, presets []float64) *TimerView {
	v := &TimerView{}

	v.timeText = canvas.NewText(timer.FormatClock(0, 0), color.White)
	v.timeText.TextStyle.Bold = true
	v.timeText.TextSize = timer.FontSizeTime
	v.timeText.Alignment = fyne.TextAlignCenter

	panel := canvas.NewRectangle(timer.CountdownColor)
	panel.CornerRadius = timer.CornerRadius
	v.countdown = NewTappableContainer(
		container.NewStack(panel, container.NewPadded(container.NewPadded(v.timeText))),
		func() { a.EnqueueCommand(control.Command{Type: control.CmdToggle}) },
		func(_ *fyne.PointEvent) { a.EnqueueCommand(control.Command{Type: control.CmdCancel}) },
	)

	focusTitle := canvas.NewText(i18n.T("Focus:"), timer.TrackColor)
	focusTitle.TextSize = timer.FontSizeTitle
	focusTitle.Alignment = fyne.TextAlignCenter

	v.subjectText = canvas.NewText("", color.White)
	v.subjectText.TextStyle.Bold = true
	v.subjectText.TextSize = timer.FontSizeTask
	v.subjectText.Alignment = fyne.TextAlignCenter

	v.progressBar = widget.NewProgressBar()
	v.progressBar.TextFormatter = func() string { return "" }
	v.progressBar.SetValue(1)

	presetRow := container.NewHBox(layout.NewSpacer())
	for _, p := range presets {
		minutes := p
		label := fmt.Sprintf(i18n.T("%s min"), strconv.FormatFloat(minutes, 'f', -1, 64))
		btn := widget.NewButtonWithIcon(label, theme.HistoryIcon(), func() {
			a.EnqueueCommand(control.Command{Type: control.CmdSelect, Minutes: minutes})
		})
		v.presetButtons = append(v.presetButtons, btn)
		presetRow.Add(btn)
		presetRow.Add(layout.NewSpacer())
	}

	v.toggleButton = widget.NewButtonWithIcon(i18n.T("Start"), theme.MediaPlayIcon(), func() {
		a.EnqueueCommand(control.Command{Type: control.CmdToggle})
	})
	v.toggleButton.Importance = widget.HighImportance
	v.toggleShade = canvas.NewRectangle(color.Transparent)
	toggleSize := canvas.NewRectangle(color.Transparent)
	toggleSize.SetMinSize(fyne.NewSize(timer.ToggleButtonSize, timer.ToggleButtonSize/2))
	toggle := container.NewStack(toggleSize, v.toggleButton, v.toggleShade)

	v.cancelButton = widget.NewButtonWithIcon(i18n.T("Cancel Task"), theme.CancelIcon(), func() {
		a.EnqueueCommand(control.Command{Type: control.CmdCancel})
	})
	v.cancelButton.Importance = widget.DangerImportance

	spacer := canvas.NewRectangle(color.Transparent)
	spacer.SetMinSize(fyne.NewSize(0, timer.SpacingLarge))

	v.cover = canvas.NewRectangle(color.Transparent)
	v.content = container.NewStack(container.NewVBox(
		spacer,
		container.NewCenter(v.countdown),
		layout.NewSpacer(),
		focusTitle,
		v.subjectText,
		layout.NewSpacer(),
		container.NewPadded(v.progressBar),
		presetRow,
		layout.NewSpacer(),
		container.NewCenter(toggle),
		container.NewHBox(v.cancelButton, layout.NewSpacer()),
	), v.cover)
	return v
}

// CanvasObject returns the root of the screen.
func (v *TimerView) CanvasObject() fyne.CanvasObject {
	return v.content
}

// SetSubject shows the focus subject label and clears a previous fade out.
func (v *TimerView) SetSubject(subject string) {
	fyne.Do(func() {
		if v.fadeOut != nil {
			v.fadeOut.Stop()
			v.fadeOut = nil
		}
		v.cover.FillColor = color.Transparent
		v.cover.Refresh()
		v.subjectText.Text = subject
		v.subjectText.Refresh()
	})
}

// SetKeepAwake disables screen blanking while on is true.
func (v *TimerView) SetKeepAwake(on bool) {
	fyne.Do(func() {
		if a := fyne.CurrentApp(); a != nil {
			a.Driver().SetDisableScreenBlanking(on)
		}
	})
}

// FadeOut fades the screen to the background color and then calls done on
// the Fyne goroutine.
func (v *TimerView) FadeOut(done func()) {
	fyne.Do(func() {
		if v.fadeOut != nil {
			v.fadeOut.Stop()
		}
		v.fadeOut = fyne.NewAnimation(timer.FadeDuration, v.fadeOutStep(done))
		v.fadeOut.Start()
	})
}

func (v *TimerView) fadeOutStep(done func()) func(float32) {
	finished := false
	return func(f float32) {
		if finished {
			return
		}
		v.cover.FillColor = withAlpha(timer.BackgroundColor, uint8(f*255))
		v.cover.Refresh()
		if f >= 1 {
			finished = true
			done()
		}
	}
}

// SetProgress updates the progress bar.
func (v *TimerView) SetProgress(fraction float64) {
	fyne.Do(func() { v.renderProgress(fraction) })
}

// SetTime updates the countdown text.
func (v *TimerView) SetTime(minutes, seconds int) {
	fyne.Do(func() { v.renderTime(minutes, seconds) })
}

// SetRunning switches the toggle button between start and pause and fades
// it while the countdown runs.
func (v *TimerView) SetRunning(running bool) {
	fyne.Do(func() { v.renderRunning(running) })
}

func (v *TimerView) renderProgress(fraction float64) {
	v.progressBar.SetValue(fraction)
}

func (v *TimerView) renderTime(minutes, seconds int) {
	v.timeText.Text = timer.FormatClock(minutes, seconds)
	v.timeText.Refresh()
}

func (v *TimerView) renderRunning(running bool) {
	if running {
		v.toggleButton.SetText(i18n.T("Pause"))
		v.toggleButton.SetIcon(theme.MediaPauseIcon())
	} else {
		v.toggleButton.SetText(i18n.T("Start"))
		v.toggleButton.SetIcon(theme.MediaPlayIcon())
	}

	opacity := 1.0
	if running {
		opacity = timer.RunningOpacity
	}
	target := uint8((1 - opacity) * 255)
	_, _, _, a := v.toggleShade.FillColor.RGBA()
	from := uint8(a >> 8)

	if v.fade != nil {
		v.fade.Stop()
	}
	v.fade = fyne.NewAnimation(timer.FadeDuration, func(f float32) {
		alpha := float32(from) + (float32(target)-float32(from))*f
		v.toggleShade.FillColor = withAlpha(timer.BackgroundColor, uint8(alpha))
		v.toggleShade.Refresh()
	})
	v.fade.Start()
}

// TappableContainer forwards primary and secondary taps on its content.
type TappableContainer struct {
	widget.BaseWidget
	Content           fyne.CanvasObject
	OnTappedPrimary   func()
	OnTappedSecondary func(e *fyne.PointEvent)
}

func NewTappableContainer(c fyne.CanvasObject, onP func(), onS func(e *fyne.PointEvent)) *TappableContainer {
	t := &TappableContainer{
		Content:           c,
		OnTappedPrimary:   onP,
		OnTappedSecondary: onS,
	}
	t.ExtendBaseWidget(t)
	return t
}

func (t *TappableContainer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.Content)
}

func (t *TappableContainer) Tapped(_ *fyne.PointEvent) {
	if t.OnTappedPrimary != nil {
		t.OnTappedPrimary()
	}
}

func (t *TappableContainer) TappedSecondary(e *fyne.PointEvent) {
	if t.OnTappedSecondary != nil {
		t.OnTappedSecondary(e)
	}
}

func withAlpha(c color.Color, alpha uint8) color.NRGBA {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: alpha}
}
