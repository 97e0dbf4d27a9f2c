package output

import (
	"encoding/json"

	todoerrors "github.com/abatilo/crtodo/internal/errors"
	"github.com/abatilo/crtodo/internal/task"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// marshalJSON marshals a value to indented JSON with a trailing newline.
func marshalJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data) + "\n"
}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// taskJSON is the JSON representation of a task.
type taskJSON struct {
	Position    int    `json:"position"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Done        bool   `json:"done"`
}

func toTaskJSON(position int, t task.Task) taskJSON {
	return taskJSON{
		Position:    position,
		Description: t.Description,
		Priority:    t.Priority,
		Done:        t.Done,
	}
}

// FormatTask formats a single task as JSON.
func (f *JSONFormatter) FormatTask(position int, t task.Task) string {
	return marshalJSON(toTaskJSON(position, t))
}

// FormatTaskList formats a list of tasks as JSON.
func (f *JSONFormatter) FormatTaskList(tasks []task.Task) string {
	jsonTasks := make([]taskJSON, len(tasks))
	for i, t := range tasks {
		jsonTasks[i] = toTaskJSON(i+1, t)
	}
	return marshalJSON(jsonTasks)
}

// errorJSON is the JSON representation of an error.
type errorJSON struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(err error) string {
	return marshalJSON(errorJSON{Error: err.Error(), Status: int(todoerrors.Code(err))})
}

// messageJSON is the JSON representation of a message.
type messageJSON struct {
	Message string `json:"message"`
}

// FormatMessage formats a simple message as JSON.
func (f *JSONFormatter) FormatMessage(msg string) string {
	return marshalJSON(messageJSON{Message: msg})
}
