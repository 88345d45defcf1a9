package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	newStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	updStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	trkStyle     = lipgloss.NewStyle().Faint(true)
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	delStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	idStyle      = lipgloss.NewStyle().Bold(true)
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	keywordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

func NewLine(w io.Writer, path string) {
	fmt.Fprintln(w, newStyle.Render("new")+"  "+path)
}

func UpdLine(w io.Writer, path string) {
	fmt.Fprintln(w, updStyle.Render("upd")+"  "+path)
}

func TrkLine(w io.Writer, path string) {
	fmt.Fprintln(w, trkStyle.Render("trk")+"  "+path)
}

func DelLine(w io.Writer, path string) {
	fmt.Fprintln(w, delStyle.Render("del")+"  "+path)
}

// ErrLine reports a file that failed to parse.
func ErrLine(w io.Writer, path string, err error) {
	fmt.Fprintln(w, errStyle.Render("err")+"  "+path+": "+err.Error())
}

func SummaryLine(w io.Writer, count, failed int) {
	if failed > 0 {
		fmt.Fprintf(w, "synced %d files, %d failed\n", count, failed)
		return
	}
	fmt.Fprintf(w, "synced %d files\n", count)
}

// Tags renders tag names with their @ prefix.
func Tags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return tagStyle.Render("@" + strings.Join(tags, " @"))
}

// ListRow prints one scenario of the list command in aligned columns.
func ListRow(w io.Writer, id int64, fileName, name string, outline bool, tags []string, idWidth, fileWidth, nameWidth int) {
	kind := " "
	if outline {
		kind = "O"
	}
	idCol := fmt.Sprintf("%-*s", idWidth, fmt.Sprintf("#%d", id))
	line := fmt.Sprintf("%s  %s  %-*s  %-*s", idStyle.Render(idCol), kind, fileWidth, fileName, nameWidth, name)
	if len(tags) > 0 {
		line += "  " + Tags(tags)
	}
	fmt.Fprintln(w, strings.TrimRight(line, " "))
}

func ShowHeader(w io.Writer, id int64, fileName string, line int) {
	fmt.Fprintln(w, idStyle.Render(fmt.Sprintf("#%d", id))+"  "+trkStyle.Render(fmt.Sprintf("%s:%d", fileName, line)))
}

// ShowGherkin prints content with its keyword lines highlighted.
func ShowGherkin(w io.Writer, content string) {
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintln(w, highlight(line))
	}
}

func highlight(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	indent := line[:len(line)-len(trimmed)]
	for _, kw := range []string{"Scenario Outline:", "Scenario:", "Background:", "Feature:", "Examples:"} {
		if len(trimmed) >= len(kw) && strings.EqualFold(trimmed[:len(kw)], kw) {
			return indent + keywordStyle.Render(trimmed[:len(kw)]) + trimmed[len(kw):]
		}
	}
	for _, kw := range []string{"Given ", "When ", "Then ", "And ", "But ", "* "} {
		if strings.HasPrefix(trimmed, kw) {
			return indent + keywordStyle.Render(strings.TrimSpace(kw)) + trimmed[len(kw)-1:]
		}
	}
	return line
}

// Heading prints a section title.
func Heading(w io.Writer, title string) {
	fmt.Fprintln(w, headerStyle.Render(title))
}
