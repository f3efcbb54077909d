// Package main contains the application wiring and the AppManager which
// hosts the focus timer: it owns the focus subject, the session history,
// the audio alert and the window, and implements timer.Host.
//
// Maintenance notes / tips:
//   - Concurrency model: every session mutation runs on the control.Loop
//     goroutine (see `loop.Run`). UI callbacks only enqueue commands; ticks
//     are enqueued by the loop's own tickers. The timer.Host methods below
//     are therefore called on the loop goroutine and may touch the
//     controller directly, but must hand widget updates to fyne.Do.
//   - `subject` is written from the Fyne goroutine (SetSubject) and read on
//     the loop goroutine, so it is guarded by subjectLock.
//   - The history store is optional. When it fails to open, the app runs
//     without history and logs why. Store calls run on their own
//     goroutine, tracked by storeWG; Shutdown waits for them.
package main

import (
	"context"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"

	"focustimer/alert"
	"focustimer/config"
	"focustimer/control"
	"focustimer/history"
	"focustimer/i18n"
	"focustimer/timer"
	"focustimer/ui"
)

const (
	historyLimit   = 20
	historyTimeout = 2 * time.Second
)

// AppManager is the main application struct, holding all state.
type AppManager struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	cfg        *config.Config

	loop       *control.Loop
	controller *timer.Controller
	player     *alert.Player
	store      *history.Store

	timerView   *ui.TimerView
	subjectView *ui.SubjectView

	subjectLock sync.Mutex
	subject     string

	storeWG sync.WaitGroup
}

var _ timer.Host = (*AppManager)(nil)

// NewAppManager creates a new application manager.
func NewAppManager(fyneApp fyne.App, cfg *config.Config) *AppManager {
	a := &AppManager{fyneApp: fyneApp, cfg: cfg}

	a.loop = control.NewLoop()
	a.player = alert.NewPlayer(cfg.AlertSettings())
	log.Printf("Alert pattern: %s", a.player.Pattern())

	store, err := history.Open(cfg.Storage.Path)
	if err != nil {
		log.Printf("History disabled: %v", err)
	} else {
		a.store = store
	}

	a.timerView = ui.NewTimerView(a, cfg.Timer.Presets)
	a.subjectView = ui.NewSubjectView(a)
	a.controller = timer.NewController(a.loop, a, a.timerView, a.player, cfg.Timer.DefaultMinutes)
	a.loop.OnCommand = func(t control.CommandType) {
		switch t {
		case control.CmdSelect, control.CmdToggle, control.CmdCancel:
			log.Printf("%s: session %s, %.2f min", t, a.controller.State(), a.controller.Minutes())
		}
	}

	return a
}

// Run executes the session loop until ctx is cancelled.
func (a *AppManager) Run(ctx context.Context) {
	a.refreshHistory()
	a.loop.Run(ctx, a.controller)
}

// EnqueueCommand posts a command to the session loop.
func (a *AppManager) EnqueueCommand(cmd control.Command) {
	a.loop.Enqueue(cmd)
}

// SetSubject starts a new session for subject and shows the timer screen.
func (a *AppManager) SetSubject(subject string) {
	a.subjectLock.Lock()
	a.subject = subject
	a.subjectLock.Unlock()

	a.timerView.SetSubject(subject)
	a.EnqueueCommand(control.Command{Type: control.CmdMount})
	a.showScreen(a.timerView.CanvasObject())
}

func (a *AppManager) currentSubject() string {
	a.subjectLock.Lock()
	defer a.subjectLock.Unlock()
	return a.subject
}

func (a *AppManager) clearSubjectState() string {
	a.subjectLock.Lock()
	defer a.subjectLock.Unlock()
	s := a.subject
	a.subject = ""
	return s
}

// OnTimerEnd records the completed session and returns to the subject
// screen. Called on the loop goroutine.
func (a *AppManager) OnTimerEnd() {
	subject := a.clearSubjectState()
	last := a.controller.LastSession()
	a.controller.Stop()

	a.recordAsync(subject, last, history.OutcomeCompleted)
	a.fyneApp.SendNotification(fyne.NewNotification(i18n.T("Time is up!"), subject))
	a.showScreen(a.subjectView.CanvasObject())
}

// ClearSubject records a cancelled session, if it was ever started, fades
// out the timer screen and returns to the subject screen. Called on the loop
// goroutine.
func (a *AppManager) ClearSubject() {
	subject := a.clearSubjectState()
	last := a.controller.LastSession()
	a.controller.Stop()

	if last.Started {
		a.recordAsync(subject, last, history.OutcomeCancelled)
	}
	a.timerView.FadeOut(func() {
		if a.mainWindow != nil {
			a.mainWindow.SetContent(a.subjectView.CanvasObject())
		}
	})
}

// NotifyAlertFailure shows a non-blocking notice that the alert could not
// be played.
func (a *AppManager) NotifyAlertFailure(err error) {
	fyne.Do(func() {
		if a.mainWindow == nil {
			return
		}
		dialog.ShowInformation(
			i18n.T("Vibration Failed"),
			i18n.T("Unable to trigger vibration. Please check device settings."),
			a.mainWindow,
		)
	})
}

// ClearHistory deletes all recorded sessions.
func (a *AppManager) ClearHistory() {
	if a.store == nil {
		return
	}
	a.storeWG.Add(1)
	go func() {
		defer a.storeWG.Done()
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()
		if err := a.store.Clear(ctx); err != nil {
			a.showError(err)
			return
		}
		a.subjectView.SetHistory(nil)
	}()
}

func (a *AppManager) recordAsync(subject string, s timer.Session, outcome history.Outcome) {
	if a.store == nil || subject == "" {
		return
	}
	a.storeWG.Add(1)
	go func() {
		defer a.storeWG.Done()
		a.record(subject, s, outcome)
	}()
}

func (a *AppManager) record(subject string, s timer.Session, outcome history.Outcome) {
	if a.store == nil || subject == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()

	r := &history.Record{
		Subject:   subject,
		Minutes:   s.Minutes,
		ElapsedMs: s.ElapsedMs,
		Outcome:   outcome,
	}
	if err := a.store.Add(ctx, r); err != nil {
		log.Printf("Failed to record session: %v", err)
		a.showError(err)
		return
	}
	a.refreshHistory()
}

func (a *AppManager) refreshHistory() {
	if a.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
	defer cancel()
	records, err := a.store.Recent(ctx, historyLimit)
	if err != nil {
		log.Printf("Failed to load history: %v", err)
		return
	}
	a.subjectView.SetHistory(records)
}

func (a *AppManager) showScreen(content fyne.CanvasObject) {
	fyne.Do(func() {
		if a.mainWindow != nil {
			a.mainWindow.SetContent(content)
		}
	})
}

func (a *AppManager) showError(err error) {
	fyne.Do(func() {
		if a.mainWindow != nil {
			dialog.ShowError(err, a.mainWindow)
		}
	})
}

// HandleKeyRune handles key presses on the timer screen.
func (a *AppManager) HandleKeyRune(r rune) {
	if a.currentSubject() == "" {
		return
	}

	switch r {
	case ' ':
		a.EnqueueCommand(control.Command{Type: control.CmdToggle})
	case '1', '2', '3', '4', '5', '6', '7', '8', '9':
		index := int(r - '1')
		if index < len(a.cfg.Timer.Presets) {
			a.EnqueueCommand(control.Command{Type: control.CmdSelect, Minutes: a.cfg.Timer.Presets[index]})
		}
	}
}

// HandleKey handles non-rune keys.
func (a *AppManager) HandleKey(ev *fyne.KeyEvent) {
	if ev.Name == fyne.KeyEscape && a.currentSubject() != "" {
		a.EnqueueCommand(control.Command{Type: control.CmdCancel})
	}
}

// Shutdown releases the audio device and the history database. The loop
// stops when the context passed to Run is cancelled.
func (a *AppManager) Shutdown() {
	if a.player != nil {
		a.player.Silence()
	}
	a.storeWG.Wait()
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			log.Printf("Failed to close history: %v", err)
		}
	}
}
