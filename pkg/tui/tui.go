// Package tui provides a terminal user interface for midi2beep
package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dottspace12/midi2beep/pkg/converter"
	"github.com/dottspace12/midi2beep/pkg/player"
)

// Chiptune color scheme (PC-speaker nostalgia)
var (
	beeperGold = lipgloss.Color("#FFD369")
	beeperPink = lipgloss.Color("#FF6F91")
	deepNavy   = lipgloss.Color("#1A1A2E")
	dimGray    = lipgloss.Color("#666666")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(beeperGold).
			Background(deepNavy).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#C0C0C0")).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(beeperGold).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(beeperPink).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(beeperGold).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(dimGray).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(beeperGold).
			Padding(1, 2)
)

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateConverting
	StateResult
)

// MenuItem represents a policy choice in the main menu
type MenuItem struct {
	Title       string
	Description string
	Policy      converter.Policy
}

var menuItems = []MenuItem{
	{Title: "Highest note", Description: "Chords collapse to their top voice (melody-friendly)", Policy: converter.PolicyHighest},
	{Title: "Lowest note", Description: "Chords collapse to their bass voice", Policy: converter.PolicyLowest},
	{Title: "Average note", Description: "Chords collapse to their mean pitch", Policy: converter.PolicyAverage},
	{Title: "Exit", Description: "Exit the application"},
}

// Model represents the TUI model
type Model struct {
	state        State
	menuIndex    int
	filePicker   filepicker.Model
	spinner      spinner.Model
	selectedFile string
	outputFile   string
	policy       converter.Policy
	warning      string
	err          error
	player       *player.Player
	playing      bool
	width        int
	height       int
}

// conversionDoneMsg signals conversion completion
type conversionDoneMsg struct {
	outputFile string
	warning    string
	err        error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model
func New() Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".mid", ".midi"}
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(beeperGold)

	return Model{
		state:      StateMenu,
		menuIndex:  0,
		filePicker: fp,
		spinner:    s,
		player:     player.New(),
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The file picker needs to see every message while active
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				m.player.Stop()
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateConverting
			return m, tea.Batch(m.spinner.Tick, m.performConversion())
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case conversionDoneMsg:
		m.state = StateResult
		m.outputFile = msg.outputFile
		m.warning = msg.warning
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		if m.menuIndex == len(menuItems)-1 {
			m.player.Stop()
			return m, tea.Quit
		}
		m.policy = menuItems[m.menuIndex].Policy
		m.state = StateFilePicker
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		m.player.Stop()
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "p":
		if m.err == nil && m.outputFile != "" {
			if err := m.player.Start(m.outputFile); err != nil {
				m.err = err
			} else {
				m.playing = true
			}
		}
		return m, nil
	case "s":
		m.player.Stop()
		m.playing = false
		return m, nil
	case "enter", "esc":
		m.player.Stop()
		m.playing = false
		m.state = StateMenu
		m.err = nil
		m.warning = ""
		m.selectedFile = ""
		m.outputFile = ""
		return m, nil
	case "q", "ctrl+c":
		m.player.Stop()
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) performConversion() tea.Cmd {
	policy := m.policy
	inputFile := m.selectedFile
	return func() tea.Msg {
		conv, err := converter.New(policy)
		if err != nil {
			return conversionDoneMsg{err: err}
		}

		base := strings.TrimSuffix(inputFile, filepath.Ext(inputFile))
		outputFile := base + ".sh"

		if err := conv.ConvertFile(inputFile, outputFile); err != nil {
			if errors.Is(err, converter.ErrNoSoundableEvents) {
				return conversionDoneMsg{warning: "No note events found: nothing to play"}
			}
			return conversionDoneMsg{err: err}
		}

		return conversionDoneMsg{outputFile: outputFile}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateConverting:
		s.WriteString(m.viewConverting())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT OVERLAP POLICY "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(beeperPink).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT MIDI FILE "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewConverting() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" CONVERTING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Converting %s...\n", m.spinner.View(), filepath.Base(m.selectedFile)))
	s.WriteString(statusStyle.Render(fmt.Sprintf("  policy: %s", m.policy)))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	switch {
	case m.err != nil:
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Conversion failed: %s", m.err.Error())))
	case m.warning != "":
		s.WriteString(titleStyle.Render(" NOTHING TO PLAY "))
		s.WriteString("\n\n")
		s.WriteString(statusStyle.Render(fmt.Sprintf("⚠ %s", m.warning)))
	default:
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Conversion complete!"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Input:  %s\n", filepath.Base(m.selectedFile)))
		s.WriteString(fmt.Sprintf("Output: %s", filepath.Base(m.outputFile)))
		if m.playing {
			s.WriteString("\n\n")
			s.WriteString(statusStyle.Render("♪ playing..."))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("p: play • s: stop • enter: back"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
   __  __ ___ ____ ___ ____  ____  _____ _____ ____
  |  \/  |_ _|  _ \_ _|___ \| __ )| ____| ____|  _ \
  | |\/| || || | | | |  __) |  _ \|  _| |  _| | |_) |
  | |  | || || |_| | | / __/| |_) | |___| |___|  __/
  |_|  |_|___|____/___|_____|____/|_____|_____|_|
`
	return lipgloss.NewStyle().Foreground(beeperGold).Render(logo)
}

// Run starts the TUI application
func Run() error {
	p := tea.NewProgram(New(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
