// Package control defines the command messages used by the UI to request
// actions from the session command loop, and the loop itself. The loop is
// the single goroutine on which the session state is mutated.
package control

// CommandType enumerates supported command operations.
type CommandType int

const (
	CmdSelect CommandType = iota
	CmdToggle
	CmdCancel
	CmdMount
	CmdUnmount
	cmdTick
)

func (t CommandType) String() string {
	switch t {
	case CmdSelect:
		return "select"
	case CmdToggle:
		return "toggle"
	case CmdCancel:
		return "cancel"
	case CmdMount:
		return "mount"
	case CmdUnmount:
		return "unmount"
	case cmdTick:
		return "tick"
	}
	return "unknown"
}

// Command is the message sent from the UI to Loop.Run. The optional Reply
// channel is used by the loop to confirm completion back to the sender
// (useful for keeping UI state in sync).
type Command struct {
	Type    CommandType
	Minutes float64    // CmdSelect only
	Reply   chan error // optional reply channel

	ticker *loopTicker
}

// Handler receives the commands executed by the loop. timer.Controller
// implements it.
type Handler interface {
	Start()
	Stop()
	SelectDuration(minutes float64)
	ToggleRun()
	Cancel()
}
