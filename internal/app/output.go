package app

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/fpt/deskpilot/pkg/agent/loop"
)

// BannerInfo is shown once at startup.
type BannerInfo struct {
	Model   string
	Driver  string
	Host    string
	Session string
}

// TerminalWidth returns the stdout width, falling back to 80.
func TerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// WriteBanner writes the startup banner framed to width columns.
// When colored is true, the title uses ANSI color codes.
func WriteBanner(w io.Writer, info BannerInfo, width int, colored bool) {
	if w == nil {
		return
	}
	if width <= 0 || width > 60 {
		width = 60
	}

	title := "DESKPILOT · desktop automation agent"
	prefix, suffix := "", ""
	if colored {
		prefix = "\x1b[36m"
		suffix = "\x1b[0m"
	}

	rule := strings.Repeat("=", width)
	fmt.Fprintln(w, rule)
	pad := (width - runeLen(title)) / 2
	if pad < 0 {
		pad = 0
	}
	fmt.Fprintf(w, "%s%s%s%s\n", strings.Repeat(" ", pad), prefix, title, suffix)
	fmt.Fprintln(w, rule)

	rows := [][2]string{
		{"🧠 Model", info.Model},
		{"🖱️ Driver", info.Driver},
		{"☁️ Images", info.Host},
		{"🔖 Session", info.Session},
	}
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", padRight(r[0], 10), truncateRunes(r[1], width-12))
	}
	fmt.Fprintln(w, rule)
}

// WriteResult writes the closing line for a run.
func WriteResult(w io.Writer, res loop.Result) {
	if w == nil {
		return
	}
	switch res.Status {
	case loop.StatusCompleted:
		if res.Succeeded() {
			fmt.Fprintf(w, "✅ Task completed successfully after %d step(s)\n", res.Iterations)
		} else {
			fmt.Fprintf(w, "❌ Task ended with an error reported by the model after %d step(s)\n", res.Iterations)
		}
	case loop.StatusExited:
		if res.Cause != nil {
			fmt.Fprintf(w, "🛑 Stopped after error: %v\n", res.Cause)
		} else {
			fmt.Fprintln(w, "👋 Task ended by user")
		}
	case loop.StatusFailed:
		fmt.Fprintf(w, "❌ Task failed: %v\n", res.Cause)
	}
}

// FormatUsage creates a right-aligned run statistics line, colored by how
// much of the error budget was used.
func FormatUsage(res loop.Result, maxErrors, terminalWidth int) string {
	var colorCode string
	resetCode := "\033[0m"

	switch {
	case res.Errors == 0:
		colorCode = "\033[32m" // Green
	case res.Errors < maxErrors:
		colorCode = "\033[33m" // Yellow
	default:
		colorCode = "\033[31m" // Red
	}

	in, out, total := res.Conversation.TokenUsage()
	visible := fmt.Sprintf("Steps: %d  Errors: %d/%d  Tokens: %d (in %d, out %d)",
		res.Iterations, res.Errors, maxErrors, total, in, out)

	padding := terminalWidth - len(visible)
	if padding < 0 {
		padding = 0
	}
	return strings.Repeat(" ", padding) + colorCode + visible + resetCode
}

// runeLen returns the number of runes in s.
func runeLen(s string) int { return utf8.RuneCountInString(s) }

// padRight pads s with spaces on the right to width runes.
func padRight(s string, width int) string {
	n := runeLen(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func truncateRunes(s string, n int) string {
	if n <= 3 || runeLen(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}
