package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

// DirPromptModel asks for a directory path. Recent directories are offered
// as tab completions and the most recent one is the default.
type DirPromptModel struct {
	title    string
	input    textinput.Model
	recent   []string
	validate func(string) error
	value    string
	err      error
	done     bool
}

// NewDirPromptModel creates a directory prompt
func NewDirPromptModel(title string, recent []string) DirPromptModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.ShowSuggestions = true
	ti.SetSuggestions(recent)
	if len(recent) > 0 {
		ti.Placeholder = recent[0]
	} else {
		ti.Placeholder = "/path/to/videos"
	}
	ti.Focus()

	return DirPromptModel{
		title:    title,
		input:    ti,
		recent:   recent,
		validate: ValidateDir,
	}
}

func (m DirPromptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m DirPromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.done = true
			return m, tea.Quit
		case tea.KeyEnter:
			value := strings.TrimSpace(m.input.Value())
			if value == "" && len(m.recent) > 0 {
				value = m.recent[0]
			}
			path := ExpandHome(value)
			if err := m.validate(path); err != nil {
				m.err = err
				return m, nil
			}
			m.value = path
			m.done = true
			return m, tea.Quit
		}
	}

	m.err = nil
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m DirPromptModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "? %s\n\n%s\n", m.title, m.input.View())
	if m.err != nil {
		b.WriteString(errorStyle.Render("  "+m.err.Error()) + "\n")
	}
	if len(m.recent) > 0 {
		b.WriteString(hintStyle.Render("\nRecent:") + "\n")
		for _, dir := range m.recent {
			b.WriteString(hintStyle.Render("  "+dir) + "\n")
		}
	}
	b.WriteString(hintStyle.Render("\n(tab to complete, enter to confirm, esc to cancel)") + "\n")
	return b.String()
}

// Value returns the confirmed directory, empty if the prompt was cancelled
func (m DirPromptModel) Value() string {
	return m.value
}

// RunDirPrompt displays the prompt and returns the chosen directory
func RunDirPrompt(title string, recent []string) (string, error) {
	p := tea.NewProgram(NewDirPromptModel(title, recent))

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	return finalModel.(DirPromptModel).Value(), nil
}

// ValidateDir checks that path names an existing directory
func ValidateDir(path string) error {
	if path == "" {
		return fmt.Errorf("enter a directory path")
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("directory not found: %s", path)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", path)
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
