package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"webchat-client/internal/session"
)

type authMode int

const (
	modeSignIn authMode = iota
	modeSignUp
)

type formField struct {
	label  string
	value  string
	masked bool
}

// loginForm is the sign-in / sign-up screen. Fields are plain editable
// lines; tab moves focus, ctrl+r flips between the two modes.
type loginForm struct {
	mode   authMode
	fields []formField
	focus  int
	err    error
	busy   bool
}

func newLoginForm() loginForm {
	f := loginForm{}
	f.setMode(modeSignIn)
	return f
}

func (f *loginForm) setMode(mode authMode) {
	f.mode = mode
	f.focus = 0
	f.err = nil
	switch mode {
	case modeSignIn:
		f.fields = []formField{
			{label: "Email"},
			{label: "Password", masked: true},
		}
	case modeSignUp:
		f.fields = []formField{
			{label: "Name"},
			{label: "Username"},
			{label: "Email"},
			{label: "Avatar URL"},
			{label: "Password", masked: true},
			{label: "Repeat password", masked: true},
		}
	}
}

func (f *loginForm) value(label string) string {
	for _, fl := range f.fields {
		if fl.label == label {
			return fl.value
		}
	}
	return ""
}

// handleKey edits the form. It reports whether the form was submitted.
func (f *loginForm) handleKey(msg tea.KeyMsg) bool {
	if f.busy {
		return false
	}

	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		f.focus = (f.focus + 1) % len(f.fields)
	case tea.KeyShiftTab, tea.KeyUp:
		f.focus = (f.focus - 1 + len(f.fields)) % len(f.fields)
	case tea.KeyCtrlR:
		if f.mode == modeSignIn {
			f.setMode(modeSignUp)
		} else {
			f.setMode(modeSignIn)
		}
	case tea.KeyBackspace:
		f.fields[f.focus].value = trimLastRune(f.fields[f.focus].value)
	case tea.KeySpace:
		f.fields[f.focus].value += " "
	case tea.KeyRunes:
		f.fields[f.focus].value += string(msg.Runes)
	case tea.KeyEnter:
		return true
	}
	return false
}

func (f *loginForm) registerInput() session.RegisterInput {
	return session.RegisterInput{
		Name:           f.value("Name"),
		Username:       f.value("Username"),
		Email:          f.value("Email"),
		AvatarURL:      f.value("Avatar URL"),
		Password:       f.value("Password"),
		RepeatPassword: f.value("Repeat password"),
	}
}

func (f *loginForm) view(width int) string {
	var b strings.Builder

	title := "Sign in"
	hint := "ctrl+r: create an account"
	if f.mode == modeSignUp {
		title = "Create account"
		hint = "ctrl+r: back to sign in"
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")

	for i, fl := range f.fields {
		value := fl.value
		if fl.masked {
			value = strings.Repeat("*", len(value))
		}
		line := labelStyle.Render(fl.label+": ") + value
		if i == f.focus {
			line += selectedStyle.Render(" ")
		}
		b.WriteString(" " + line + "\n")
	}

	b.WriteString("\n")
	if f.busy {
		b.WriteString(hintStyle.Render(" working...") + "\n")
	}
	if f.err != nil {
		b.WriteString(" " + errorStyle.Render(f.err.Error()) + "\n")
	}
	b.WriteString("\n " + hintStyle.Render("enter: submit  tab: next field  "+hint) + "\n")

	return paneStyle.Width(width - 2).Render(b.String())
}
