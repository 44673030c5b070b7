// Package message renders WhatsApp message bodies from configurable
// templates. Templates carry {{NOME}} and {{TAREFAS}} placeholders, with
// optional whitespace inside the braces.
package message

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/igor325/AGROTASKv2/internal/domain"
)

var (
	namePattern  = regexp.MustCompile(`\{\{\s*NOME\s*\}\}`)
	tasksPattern = regexp.MustCompile(`\{\{\s*TAREFAS\s*\}\}`)
)

// Render substitutes the recipient name and task list into a template.
// Placeholders absent from the template are simply left untouched by the
// replacement, so a reminder template without {{TAREFAS}} works as-is.
func Render(template, recipientName, taskList string) string {
	out := namePattern.ReplaceAllString(template, recipientName)
	out = tasksPattern.ReplaceAllString(out, taskList)
	return out
}

// FormatTaskList renders tasks as a bulleted list, one per line, with the
// description indented under its title when present.
func FormatTaskList(tasks []domain.Schedulable) string {
	lines := make([]string, 0, len(tasks))
	for _, task := range tasks {
		line := "• " + task.Title
		if task.Description != "" {
			line += "\n  " + task.Description
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// DefaultIndividual is the fallback body for individual task alerts when
// the task carries no message of its own.
func DefaultIndividual(title, timeOfDay string) string {
	if timeOfDay == "" {
		timeOfDay = "não definido"
	}
	return fmt.Sprintf("Oi {{NOME}}! \n\nLembrete: %s\nHorário: %s\n\nAgroTask", title, timeOfDay)
}

// DefaultReminder is the fallback body for admin reminders without a
// configured message.
func DefaultReminder(title, description, timeOfDay string) string {
	if timeOfDay == "" {
		timeOfDay = "não definido"
	}
	return fmt.Sprintf("🔔 Lembrete Admin\n\n%s\n%s\n\nHorário: %s\n\nAgroTask", title, description, timeOfDay)
}
