package tui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuOption represents a menu choice
type MenuOption struct {
	Label string
	Value string
}

// MenuModel is the bubbletea model for a single-choice menu.
// Options can also be picked with their 1-based number.
type MenuModel struct {
	title    string
	options  []MenuOption
	cursor   int
	selected string
}

// NewMenuModel creates a new menu
func NewMenuModel(title string, options []MenuOption) MenuModel {
	return MenuModel{
		title:   title,
		options: options,
	}
}

func (m MenuModel) Init() tea.Cmd {
	return nil
}

func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
		case "enter":
			if len(m.options) > 0 {
				m.selected = m.options[m.cursor].Value
			}
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		default:
			if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.options) {
				m.cursor = n - 1
				m.selected = m.options[m.cursor].Value
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m MenuModel) View() string {
	s := fmt.Sprintf("? %s\n\n", m.title)

	for i, opt := range m.options {
		cursor := "  "
		style := normalStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedStyle
		}
		s += fmt.Sprintf("%s%d. %s\n", cursor, i+1, style.Render(opt.Label))
	}

	s += hintStyle.Render(fmt.Sprintf("\n(up/down or 1-%d to choose, enter to select, q to quit)", len(m.options))) + "\n"
	return s
}

// Selected returns the selected value, empty if the menu was cancelled
func (m MenuModel) Selected() string {
	return m.selected
}

// RunMenu displays the menu and returns the selection
func RunMenu(title string, options []MenuOption) (string, error) {
	model := NewMenuModel(title, options)
	p := tea.NewProgram(model)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	return finalModel.(MenuModel).Selected(), nil
}
