package message

import (
	"strings"
	"testing"

	"github.com/igor325/AGROTASKv2/internal/domain"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		template string
		want     string
	}{
		{
			name:     "plain placeholders",
			template: "Oi {{NOME}}, suas tarefas:\n{{TAREFAS}}",
			want:     "Oi Maria, suas tarefas:\n• Irrigar",
		},
		{
			name:     "spaced placeholders",
			template: "Oi {{ NOME }}, suas tarefas:\n{{ TAREFAS}}",
			want:     "Oi Maria, suas tarefas:\n• Irrigar",
		},
		{
			name:     "repeated placeholder",
			template: "{{NOME}} e {{NOME}}",
			want:     "Maria e Maria",
		},
		{
			name:     "no placeholders",
			template: "mensagem fixa",
			want:     "mensagem fixa",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.template, "Maria", "• Irrigar")
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatTaskList(t *testing.T) {
	tasks := []domain.Schedulable{
		{Title: "Irrigar estufa"},
		{Title: "Colher tomates", Description: "setor 3"},
	}

	got := FormatTaskList(tasks)
	want := "• Irrigar estufa\n• Colher tomates\n  setor 3"
	if got != want {
		t.Errorf("FormatTaskList() = %q, want %q", got, want)
	}

	if got := FormatTaskList(nil); got != "" {
		t.Errorf("FormatTaskList(nil) = %q, want empty", got)
	}
}

func TestDefaultIndividual(t *testing.T) {
	got := DefaultIndividual("Vacinar gado", "08:00")
	if !strings.Contains(got, "{{NOME}}") {
		t.Errorf("DefaultIndividual() missing name placeholder: %q", got)
	}
	if !strings.Contains(got, "Lembrete: Vacinar gado") {
		t.Errorf("DefaultIndividual() missing title: %q", got)
	}
	if !strings.Contains(got, "Horário: 08:00") {
		t.Errorf("DefaultIndividual() missing time: %q", got)
	}

	got = DefaultIndividual("Vacinar gado", "")
	if !strings.Contains(got, "Horário: não definido") {
		t.Errorf("DefaultIndividual() without time = %q", got)
	}
}

func TestDefaultReminder(t *testing.T) {
	got := DefaultReminder("Folha de pagamento", "conferir horas", "17:30")
	for _, part := range []string{"🔔 Lembrete Admin", "Folha de pagamento", "conferir horas", "Horário: 17:30"} {
		if !strings.Contains(got, part) {
			t.Errorf("DefaultReminder() missing %q in %q", part, got)
		}
	}
}
