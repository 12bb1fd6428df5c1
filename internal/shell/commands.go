package shell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jorgeandrecastro/jcos/internal/auth"
	"github.com/jorgeandrecastro/jcos/internal/vfs"
)

const (
	osName    = "JC-OS"
	osVersion = "0.4"
)

// dispatch interprets one accumulated command line. Every filesystem and
// credential error is recovered here and rendered as a one-line message;
// nothing that happens in a command is fatal to the kernel.
func (s *Shell) dispatch(line string) {
	if line == "" {
		return
	}

	verb, args := splitVerb(line)

	switch verb {
	case "help":
		s.cmdHelp()

	case "info":
		s.cmdInfo()

	case "whoami":
		s.con.Println(s.auth.CurrentUsername())

	case "clear":
		s.con.Clear()

	case "stats":
		s.cmdStats()

	case "neofetch":
		s.cmdNeofetch()

	case "logout":
		s.auth.Logout()
		s.con.Println("Logged out.")
		s.st = statePromptUser

	case "useradd":
		s.cmdUserAdd(args)

	case "userdel":
		s.cmdUserDel(args)

	case "look", "ls":
		s.cmdList()

	case "open", "cd":
		s.cmdChangeDir(args)

	case "room", "mkdir":
		s.cmdMakeDir(args)

	case "note", "touch":
		s.cmdCreate(args, false)

	case "read", "cat":
		s.cmdRead(args)

	case "drop", "rm":
		s.cmdRemove(args)

	case "edit":
		s.cmdCreate(args, true)

	default:
		s.con.Errorln("Unknown command: " + verb)
	}
}

func splitVerb(line string) (string, string) {
	verb, args, _ := strings.Cut(line, " ")

	return verb, strings.TrimSpace(args)
}

func (s *Shell) cmdHelp() {
	s.con.Println("Available commands:")
	s.con.Println("  help, info, stats, whoami, clear, neofetch, logout")
	s.con.Println("  look/ls, open/cd <dir>, room/mkdir <dir>")
	s.con.Println("  note/touch <file> <text>, read/cat <file>, edit <file> <text>, drop/rm <name>")
	s.con.Println("  useradd <user> <pass>, userdel <user>  (admin only)")
}

func (s *Shell) cmdInfo() {
	s.con.Println(fmt.Sprintf("%s v%s - Andre Edition", osName, osVersion))
	s.con.Println("Kernel Status: Stable (Multitasking Enabled)")
	s.con.Println("Scheduling: cooperative, single thread of control")
}

func (s *Shell) cmdStats() {
	files, bytes := s.fs.Stats()

	s.con.Println("--- SYSTEM STATS ---")
	s.con.Println(fmt.Sprintf("Stored Files : %d", files))
	s.con.Println(fmt.Sprintf("Used FS Mem  : %s", humanize.Bytes(bytes)))

	if s.tasks != nil {
		s.con.Println(fmt.Sprintf("Active Tasks : %d", s.tasks.TaskCount()))
	}
}

func (s *Shell) cmdNeofetch() {
	s.con.Println(fmt.Sprintf("   _/_/    %s v%s", osName, osVersion))
	s.con.Println("  _/       OS: Go cooperative kernel")
	s.con.Println(fmt.Sprintf(" _/_/_/    User: %s", s.auth.CurrentUsername()))
	s.con.Println(fmt.Sprintf("           Host: %s", s.host))
}

func (s *Shell) cmdUserAdd(args string) {
	if !s.requireAdmin() {
		return
	}

	username, password := splitVerb(args)
	if username == "" || password == "" {
		s.con.Println("Usage: useradd <user> <pass>")

		return
	}

	uid, err := s.auth.AddUser(username, password)
	if err != nil {
		s.renderAuthErr(err)

		return
	}

	s.con.Println(fmt.Sprintf("User '%s' created (uid %d).", username, uid))
}

func (s *Shell) cmdUserDel(args string) {
	if !s.requireAdmin() {
		return
	}

	if args == "" {
		s.con.Println("Usage: userdel <user>")

		return
	}

	if err := s.auth.DeleteUser(args); err != nil {
		s.renderAuthErr(err)

		return
	}

	s.con.Println(fmt.Sprintf("User '%s' deleted.", args))
}

func (s *Shell) cmdList() {
	entries := s.fs.List()
	if len(entries) == 0 {
		s.con.Println("Nothing here.")

		return
	}

	for _, e := range entries {
		name := e.Name
		if e.Kind == vfs.KindDirectory {
			name += "/"
		}
		s.con.Println("- " + name)
	}
}

func (s *Shell) cmdChangeDir(args string) {
	if args == "" {
		s.con.Println("Usage: open <dir>")

		return
	}

	if err := s.fs.ChangeDirectory(args); err != nil {
		s.con.Errorln(fmt.Sprintf("Error: No such room '%s'.", args))

		return
	}
}

func (s *Shell) cmdMakeDir(args string) {
	if args == "" {
		s.con.Println("Usage: room <dir>")

		return
	}

	err := s.fs.MakeDirectory(args, s.auth.CurrentUID())

	switch {
	case errors.Is(err, vfs.ErrNameConflict):
		s.con.Errorln(fmt.Sprintf("Error: '%s' already exists.", args))
	case errors.Is(err, vfs.ErrInvalidName):
		s.con.Errorln("Error: invalid name.")
	case err != nil:
		s.con.Errorln("Error: " + err.Error())
	default:
		s.con.Println(fmt.Sprintf("Room '%s' created.", args))
	}
}

// cmdCreate backs both the create verbs and edit; edit additionally requires
// the file to already exist.
func (s *Shell) cmdCreate(args string, mustExist bool) {
	name, content := splitVerb(args)
	if name == "" {
		if mustExist {
			s.con.Println("Usage: edit <file> <new_content>")
		} else {
			s.con.Println("Usage: note <file> <text>")
		}

		return
	}

	if mustExist {
		if _, ok := s.fs.ReadFile(name); !ok {
			s.con.Errorln(fmt.Sprintf("Error: File '%s' does not exist.", name))

			return
		}
	}

	err := s.fs.CreateFile(name, content, s.auth.CurrentUID())

	switch {
	case errors.Is(err, vfs.ErrNameConflict):
		s.con.Errorln(fmt.Sprintf("Error: '%s' is a directory.", name))
	case errors.Is(err, vfs.ErrInvalidName):
		s.con.Errorln("Error: invalid name.")
	case err != nil:
		s.con.Errorln("Error: " + err.Error())
	case mustExist:
		s.con.Println(fmt.Sprintf("File '%s' updated.", name))
	default:
		s.con.Println(fmt.Sprintf("File '%s' created.", name))
	}
}

func (s *Shell) cmdRead(args string) {
	if args == "" {
		s.con.Println("Usage: read <file>")

		return
	}

	content, ok := s.fs.ReadFile(args)
	if !ok {
		s.con.Errorln(fmt.Sprintf("Error: File '%s' not found.", args))

		return
	}

	s.con.Println(content)
}

func (s *Shell) cmdRemove(args string) {
	if args == "" {
		s.con.Println("Usage: drop <name>")

		return
	}

	if !s.fs.Remove(args) {
		s.con.Errorln("Error: File not found.")

		return
	}

	s.con.Println(fmt.Sprintf("'%s' deleted.", args))
}

func (s *Shell) requireAdmin() bool {
	if !s.auth.IsAdmin() {
		s.con.Errorln("Permission denied: admin role required.")

		return false
	}

	return true
}

func (s *Shell) renderAuthErr(err error) {
	switch {
	case errors.Is(err, auth.ErrUserExists):
		s.con.Errorln("Error: This user already exists!")
	case errors.Is(err, auth.ErrUserProtected):
		s.con.Errorln("Error: " + err.Error())
	case errors.Is(err, auth.ErrUserNotFound):
		s.con.Errorln("Error: User not found.")
	default:
		s.con.Errorln("Error: " + err.Error())
	}
}
