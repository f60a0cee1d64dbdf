package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	newStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	trkStyle    = lipgloss.NewStyle().Faint(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	labelStyle  = lipgloss.NewStyle().Bold(true)
	kindStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	insertStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	deleteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	headerStyle = lipgloss.NewStyle().Bold(true)
)

func NewLine(w io.Writer, path string) {
	fmt.Fprintln(w, newStyle.Render("new")+"  "+path)
}

func TrkLine(w io.Writer, path string) {
	fmt.Fprintln(w, trkStyle.Render("trk")+"  "+path)
}

func DelLine(w io.Writer, path string) {
	fmt.Fprintln(w, failStyle.Render("del")+"  "+path)
}

func SummaryLine(w io.Writer, count, failing int) {
	if failing == 0 {
		fmt.Fprintf(w, "synced %d files\n", count)
		return
	}
	fmt.Fprintf(w, "synced %d files, %d failing\n", count, failing)
}

// OkLine and FailLine report the outcome for one file.
func OkLine(w io.Writer, path string) {
	fmt.Fprintln(w, okStyle.Render("ok")+"    "+path)
}

func FailLine(w io.Writer, path string) {
	fmt.Fprintln(w, failStyle.Render("fail")+"  "+path)
}

// DoneLine confirms a completed write.
func DoneLine(w io.Writer, msg string) {
	fmt.Fprintln(w, okStyle.Render(msg))
}

// FindingLine prints one problem under a FailLine.
func FindingLine(w io.Writer, msg string) {
	fmt.Fprintln(w, "      "+msg)
}

// Field prints a bold label followed by a value, as in "Feature: Login".
func Field(w io.Writer, label, value string) {
	fmt.Fprintln(w, labelStyle.Render(label+":")+" "+value)
}

// DiffLine colors a rendered diff line by its leading marker.
func DiffLine(w io.Writer, line string) {
	switch {
	case strings.HasPrefix(line, "+"):
		fmt.Fprintln(w, insertStyle.Render(line))
	case strings.HasPrefix(line, "-"):
		fmt.Fprintln(w, deleteStyle.Render(line))
	default:
		fmt.Fprintln(w, line)
	}
}

// ShowHeader introduces a catalogued scenario.
func ShowHeader(w io.Writer, id int64, fileName, kind string) {
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("#%d", id))+"  "+fileName+"  "+kindStyle.Render(kind))
}

// ShowFindings prints the finding count of a scenario, then each message.
func ShowFindings(w io.Writer, messages []string) {
	if len(messages) == 0 {
		fmt.Fprintln(w, okStyle.Render("no findings"))
		return
	}
	fmt.Fprintln(w, failStyle.Render(fmt.Sprintf("%d findings", len(messages))))
	for _, m := range messages {
		fmt.Fprintln(w, "  "+m)
	}
}

// ListRow prints one catalog row, padding columns to the given display widths.
func ListRow(w io.Writer, id int64, fileName, title, kind string, findings, idWidth, fileWidth, titleWidth int) {
	idCol := runewidth.FillRight(fmt.Sprintf("#%d", id), idWidth)
	fileCol := runewidth.FillRight(fileName, fileWidth)
	titleCol := runewidth.FillRight(title, titleWidth)
	kindCol := kindStyle.Render(runewidth.FillRight(kind, len("scenario")))

	status := okStyle.Render("ok")
	if findings > 0 {
		status = failStyle.Render(fmt.Sprintf("%d findings", findings))
	}
	fmt.Fprintln(w, strings.Join([]string{idCol, fileCol, titleCol, kindCol, status}, "  "))
}

// Row prints cells separated by two spaces, padding each to its width.
// The last cell is never padded.
func Row(w io.Writer, widths []int, cells ...string) {
	cols := make([]string, len(cells))
	for i, c := range cells {
		if i < len(widths) && i < len(cells)-1 {
			c = runewidth.FillRight(c, widths[i])
		}
		cols[i] = c
	}
	fmt.Fprintln(w, strings.Join(cols, "  "))
}

// Width is the display width of s, for column sizing.
func Width(s string) int {
	return runewidth.StringWidth(s)
}
