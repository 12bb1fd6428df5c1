// Package shell implements the interactive shell loop: a cooperative task
// alternating between an authentication phase and a command phase, consuming
// the event bridge and driving the filesystem and the credential store.
package shell

import (
	"fmt"
	"strings"

	"github.com/jorgeandrecastro/jcos/internal/auth"
	"github.com/jorgeandrecastro/jcos/internal/console"
	"github.com/jorgeandrecastro/jcos/internal/events"
	"github.com/jorgeandrecastro/jcos/internal/task"
	"github.com/jorgeandrecastro/jcos/internal/vfs"
)

type state uint8

const (
	statePromptUser state = iota
	stateReadUser
	statePromptPass
	stateReadPass
	statePromptCmd
	stateReadLine
)

// TaskCounter reports the number of ready tasks, for the stats command.
type TaskCounter interface {
	TaskCount() int
}

// Shell is a [task.Future] implementing the two-phase shell state machine.
// Every poll consumes at most one key event or prints one prompt, then
// yields, so sibling tasks are resumed between any two units of shell work.
type Shell struct {
	bridge *events.Bridge
	fs     *vfs.Filesystem
	auth   *auth.Manager
	con    *console.Console
	tasks  TaskCounter
	host   string

	st       state
	line     []rune
	username string
}

// New returns a pointer to a new [Shell] starting in the unauthenticated
// state.
func New(bridge *events.Bridge, fs *vfs.Filesystem, authMgr *auth.Manager,
	con *console.Console, tasks TaskCounter, host string,
) *Shell {
	return &Shell{
		bridge: bridge,
		fs:     fs,
		auth:   authMgr,
		con:    con,
		tasks:  tasks,
		host:   host,
	}
}

// Poll advances the state machine by one unit of visible work and always
// reports Pending: the shell runs for the kernel's lifetime.
func (s *Shell) Poll() task.Poll {
	switch s.st {
	case statePromptUser:
		s.con.Println("")
		s.con.Println("--- LOGIN REQUIRED ---")
		s.con.Print("Username: ")
		s.line = s.line[:0]
		s.st = stateReadUser

	case stateReadUser:
		s.pollField(false, func(entered string) {
			s.username = entered
			s.st = statePromptPass
		})

	case statePromptPass:
		s.con.Print("Password: ")
		s.line = s.line[:0]
		s.st = stateReadPass

	case stateReadPass:
		s.pollField(true, func(entered string) {
			if s.auth.Login(s.username, entered) {
				s.con.Println(fmt.Sprintf("Welcome back, %s!", s.username))
				s.st = statePromptCmd
			} else {
				s.con.Errorln("[ERROR] Invalid credentials.")
				s.st = statePromptUser
			}
		})

	case statePromptCmd:
		s.con.Prompt(fmt.Sprintf("%s@%s:%s$ ",
			s.auth.CurrentUsername(), s.host, s.fs.WorkingDirectory()))
		s.line = s.line[:0]
		s.st = stateReadLine

	case stateReadLine:
		s.pollCommandKey()
	}

	return task.Pending
}

// pollField consumes at most one key event of a login field, echoing typed
// characters (masked for passwords) and calling submit on Enter.
func (s *Shell) pollField(mask bool, submit func(entered string)) {
	ev, ok := s.bridge.Pop()
	if !ok {
		return
	}

	switch {
	case ev.Code == events.CodeEnter:
		s.con.Println("")
		submit(strings.TrimSpace(string(s.line)))

	case ev.Code == events.CodeBackspace:
		if len(s.line) > 0 {
			s.line = s.line[:len(s.line)-1]
			s.con.Backspace()
		}

	case ev.Code == events.CodeNone && ev.Rune >= ' ':
		s.line = append(s.line, ev.Rune)
		if mask {
			s.con.Print("*")
		} else {
			s.con.Print(string(ev.Rune))
		}
	}
}

// pollCommandKey consumes at most one key event of the command line.
func (s *Shell) pollCommandKey() {
	ev, ok := s.bridge.Pop()
	if !ok {
		return
	}

	switch {
	case ev.Code == events.CodeEnter:
		s.con.Println("")
		s.dispatch(strings.TrimSpace(string(s.line)))

		// A dispatched logout re-enters the login state without a prompt.
		if s.st == stateReadLine {
			s.st = statePromptCmd
		}

	case ev.Code == events.CodeBackspace:
		if len(s.line) > 0 {
			s.line = s.line[:len(s.line)-1]
			s.con.Backspace()
		}

	case ev.Code == events.CodeEscape:
		s.line = s.line[:0]
		s.con.Clear()
		s.st = statePromptCmd

	case ev.Code == events.CodeNone && ev.Rune >= ' ':
		s.line = append(s.line, ev.Rune)
		s.con.Print(string(ev.Rune))
	}
}
