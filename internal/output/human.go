package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abatilo/crtodo/internal/task"
)

// HumanFormatter formats output for human-readable terminal display.
type HumanFormatter struct {
	header   lipgloss.Style
	done     lipgloss.Style
	errStyle lipgloss.Style
}

// NewHumanFormatter creates a HumanFormatter for w. Styling is only applied
// when w is a color-capable terminal.
func NewHumanFormatter(w io.Writer) *HumanFormatter {
	r := lipgloss.NewRenderer(w)
	return &HumanFormatter{
		header:   r.NewStyle().Bold(true),
		done:     r.NewStyle().Faint(true),
		errStyle: r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// FormatTask formats a single task for display.
func (f *HumanFormatter) FormatTask(position int, t task.Task) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%d] %s\n", position, t.Description))
	sb.WriteString(fmt.Sprintf("  Priority: %d\n", t.Priority))
	sb.WriteString(fmt.Sprintf("  Done:     %t\n", t.Done))

	return sb.String()
}

// FormatTaskList formats a list of tasks for display.
func (f *HumanFormatter) FormatTaskList(tasks []task.Task) string {
	if len(tasks) == 0 {
		return "There are no tasks in the to-do list yet.\n"
	}

	var sb strings.Builder
	sb.WriteString(f.header.Render("To-do list:"))
	sb.WriteString("\n")
	for i, t := range tasks {
		sb.WriteString(f.formatTaskLine(i+1, t))
	}
	return sb.String()
}

// formatTaskLine formats a single task as a compact one-liner.
func (f *HumanFormatter) formatTaskLine(position int, t task.Task) string {
	line := fmt.Sprintf("%s P%d [%d] %s", statusIcon(t.Done), t.Priority, position, t.Description)
	if t.Done {
		line = f.done.Render(line)
	}
	return line + "\n"
}

func statusIcon(done bool) string {
	if done {
		return "[X]"
	}
	return "[ ]"
}

// FormatError formats an error for display.
func (f *HumanFormatter) FormatError(err error) string {
	return f.errStyle.Render("Error: "+err.Error()) + "\n"
}

// FormatMessage formats a simple message.
func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}
