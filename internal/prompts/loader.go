// Package prompts provides a loader for externalized LLM prompt templates.
// Prompts are stored as plain-text files and embedded at compile time, so
// prompt tuning never touches Go code.
package prompts

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed *.txt
var promptFiles embed.FS

// Get retrieves a prompt template by name ("strategy_schedule" loads
// strategy_schedule.txt). Returns an error if the template is missing.
func Get(name string) (string, error) {
	data, err := promptFiles.ReadFile(name + ".txt")
	if err != nil {
		return "", fmt.Errorf("failed to read prompt %s: %w", name, err)
	}
	return string(data), nil
}

// MustGet retrieves a prompt template, panicking if it is missing.
// Use for prompts that are required at initialization time.
func MustGet(name string) string {
	prompt, err := Get(name)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format replaces template placeholders in the form {{.Key}} with values
// from data. This is a simple substitution system; prompts have no
// conditionals or loops.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		placeholder := fmt.Sprintf("{{.%s}}", key)
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}
