package task

import "strings"

const (
	MinPriority     = 1
	MaxPriority     = 3
	DefaultPriority = 2
)

// Task represents a single to-do entry. Field names double as the JSON keys
// of the database file.
type Task struct {
	Description string `json:"Description"`
	Priority    int    `json:"Priority"`
	Done        bool   `json:"Done"`
}

// New creates an open task from description tokens.
func New(tokens []string, priority int) Task {
	return Task{
		Description: JoinDescription(tokens),
		Priority:    priority,
		Done:        false,
	}
}

// JoinDescription joins description words with single spaces and terminates
// the sentence with a period.
func JoinDescription(tokens []string) string {
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok = strings.TrimSpace(tok); tok != "" {
			words = append(words, tok)
		}
	}
	text := strings.Join(words, " ")
	if !strings.HasSuffix(text, ".") {
		text += "."
	}
	return text
}

// IsValidPriority reports whether p is accepted on the command line.
func IsValidPriority(p int) bool {
	return p >= MinPriority && p <= MaxPriority
}
