package control

import (
	"context"
	"errors"
	"log"
	"time"

	"focustimer/timer"
)

// ErrTimeout is returned by Submit when the loop did not confirm a command in
// time.
var ErrTimeout = errors.New("control: command timed out")

const (
	defaultBufferSize  = 256
	defaultSendTimeout = 150 * time.Millisecond
)

// Loop serializes session commands and tick events onto one goroutine.
//
// Notes:
//   - cmdCh is buffered. Enqueue drops a command when the channel stays full
//     for sendTimeout so the UI never blocks indefinitely. Tick sends block
//     until they are accepted or their ticker is stopped.
//   - Tickers created by Every are only stopped from the loop goroutine
//     (Countdown.SetRunning runs there), and the stopped flag is only read
//     there, so a tick that was already queued when Stop ran is dropped.
type Loop struct {
	cmdCh       chan Command
	sendTimeout time.Duration

	// OnCommand, if set, runs on the loop goroutine after every executed
	// command.
	OnCommand func(CommandType)
}

var _ timer.Scheduler = (*Loop)(nil)

// NewLoop creates a loop with the default buffer size.
func NewLoop() *Loop {
	return &Loop{
		cmdCh:       make(chan Command, defaultBufferSize),
		sendTimeout: defaultSendTimeout,
	}
}

// Run executes commands against h until ctx is cancelled. On return h.Stop
// has been called, releasing any tick driver.
func (l *Loop) Run(ctx context.Context, h Handler) {
	defer h.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-l.cmdCh:
			l.dispatch(h, cmd)
		}
	}
}

func (l *Loop) dispatch(h Handler, cmd Command) {
	switch cmd.Type {
	case CmdSelect:
		h.SelectDuration(cmd.Minutes)
	case CmdToggle:
		h.ToggleRun()
	case CmdCancel:
		h.Cancel()
	case CmdMount:
		h.Start()
	case CmdUnmount:
		h.Stop()
	case cmdTick:
		t := cmd.ticker
		if t == nil || t.stopped {
			return
		}
		t.fn()
	default:
		log.Printf("Unknown command type %d", cmd.Type)
	}

	if l.OnCommand != nil {
		l.OnCommand(cmd.Type)
	}

	// send reply if requested
	if cmd.Reply != nil {
		select {
		case cmd.Reply <- nil:
		default:
		}
	}
}

// Enqueue posts a command to the loop.
func (l *Loop) Enqueue(cmd Command) {
	// Try to enqueue the command but avoid blocking UI indefinitely. If the
	// channel stays full for the configured short timeout, drop and log.
	select {
	case l.cmdCh <- cmd:
	case <-time.After(l.sendTimeout):
		log.Printf("Enqueue timeout: dropping %s command", cmd.Type)
	}
}

// Submit enqueues cmd and waits up to wait for the loop to execute it.
func (l *Loop) Submit(cmd Command, wait time.Duration) error {
	reply := make(chan error, 1)
	cmd.Reply = reply
	l.Enqueue(cmd)
	select {
	case err := <-reply:
		return err
	case <-time.After(wait):
		return ErrTimeout
	}
}

// Every starts a ticker whose callbacks run on the loop goroutine. It must
// be called from the loop goroutine.
func (l *Loop) Every(period time.Duration, fn func()) timer.Ticker {
	ctx, cancel := context.WithCancel(context.Background())
	t := &loopTicker{fn: fn, cancel: cancel}
	go l.drive(ctx, t, period)
	return t
}

func (l *Loop) drive(ctx context.Context, t *loopTicker, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case l.cmdCh <- Command{Type: cmdTick, ticker: t}:
			case <-ctx.Done():
				return
			}
		}
	}
}

type loopTicker struct {
	fn      func()
	cancel  context.CancelFunc
	stopped bool // loop goroutine only
}

func (t *loopTicker) Stop() {
	t.stopped = true
	t.cancel()
}
