package tui

import (
	"strings"

	"github.com/MKhiriev/deepguard/models"
	"github.com/charmbracelet/bubbles/textinput"
)

// formModel is a vertical stack of inputs with one focused field.
type formModel struct {
	labels     []string
	inputs     []textinput.Model
	focus      int
	submitting bool
}

func newInput(placeholder string, secret bool) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 256
	in.Width = 40
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '*'
	}
	return in
}

func newLoginForm() formModel {
	m := formModel{
		labels: []string{"Email", "Password"},
		inputs: []textinput.Model{
			newInput("you@example.com", false),
			newInput("password", true),
		},
	}
	m.inputs[0].Focus()
	return m
}

func newSignupForm() formModel {
	m := formModel{
		labels: []string{"Name", "Email", "Password", "Confirm password"},
		inputs: []textinput.Model{
			newInput("Jane Doe", false),
			newInput("you@example.com", false),
			newInput("at least 6 characters", true),
			newInput("repeat password", true),
		},
	}
	m.inputs[0].Focus()
	return m
}

func (m formModel) value(i int) string {
	return m.inputs[i].Value()
}

func (m formModel) loginRequest() models.LoginRequest {
	return models.LoginRequest{
		Email:    strings.TrimSpace(m.value(0)),
		Password: m.value(1),
	}
}

func (m formModel) signupRequest() models.SignupRequest {
	return models.SignupRequest{
		Name:            strings.TrimSpace(m.value(0)),
		Email:           strings.TrimSpace(m.value(1)),
		Password:        m.value(2),
		ConfirmPassword: m.value(3),
	}
}

func (m formModel) moveFocus(delta int) formModel {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
	return m
}

func (m formModel) View(title, busyText string, spinnerView string) string {
	var b strings.Builder
	for i, in := range m.inputs {
		b.WriteString(m.labels[i])
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}
	if m.submitting {
		b.WriteString(spinnerView + " " + busyText + "\n")
	}
	return renderPage(title, b.String(), "tab: next field  enter: submit  esc: back")
}
