// Package console implements the line-oriented text sink the kernel writes
// through. Rendering is plain ANSI plus lipgloss styling; nothing here is
// part of the core contracts beyond "human-readable lines come out".
package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

const (
	ansiClear         = "\x1b[2J\x1b[H"
	ansiSaveCursor    = "\x1b7"
	ansiRestoreCursor = "\x1b8"
)

var (
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14")).
			Border(lipgloss.DoubleBorder()).
			Padding(0, 2)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))
)

// Console is a shared text sink over an [io.Writer]. Raw-mode terminals need
// explicit carriage returns, so line-writing methods emit "\r\n".
type Console struct {
	sync.Mutex
	w io.Writer
}

// New returns a pointer to a new [Console] writing to w.
func New(w io.Writer) *Console {
	return &Console{w: w}
}

// Print writes s as-is.
func (c *Console) Print(s string) {
	c.Lock()
	defer c.Unlock()

	fmt.Fprint(c.w, s)
}

// Printf writes a formatted string.
func (c *Console) Printf(format string, args ...any) {
	c.Lock()
	defer c.Unlock()

	fmt.Fprintf(c.w, format, args...)
}

// Println writes s followed by a line break.
func (c *Console) Println(s string) {
	c.Lock()
	defer c.Unlock()

	fmt.Fprint(c.w, s+"\r\n")
}

// Errorln writes an error line in the error style.
func (c *Console) Errorln(s string) {
	c.Println(errorStyle.Render(s))
}

// Prompt writes s in the prompt style, without a line break.
func (c *Console) Prompt(s string) {
	c.Print(promptStyle.Render(s))
}

// Backspace erases the character left of the cursor.
func (c *Console) Backspace() {
	c.Print("\b \b")
}

// Clear wipes the screen and homes the cursor.
func (c *Console) Clear() {
	c.Print(ansiClear)
}

// Banner writes the boxed startup banner.
func (c *Console) Banner(title string) {
	c.Lock()
	defer c.Unlock()

	block := bannerStyle.Render(title)
	for _, line := range splitLines(block) {
		fmt.Fprint(c.w, line+"\r\n")
	}
}

// Status writes s into the top-right corner without moving the cursor,
// used for the clock display.
func (c *Console) Status(s string) {
	c.Lock()
	defer c.Unlock()

	styled := statusStyle.Render(s)
	fmt.Fprintf(c.w, "%s\x1b[1;%dH%s%s", ansiSaveCursor, statusColumn(s), styled, ansiRestoreCursor)
}

// statusColumn right-aligns the status text on a standard 80-column display.
func statusColumn(s string) int {
	col := 80 - len(s)
	if col < 1 {
		col = 1
	}

	return col
}

func splitLines(s string) []string {
	var lines []string

	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}

	return append(lines, s[start:])
}
