package cli

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/classcanvas/classcanvas/pkg/parsers"
)

var (
	listCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// fileListModel is the bubbletea model for interactive source file
// selection. Every file starts selected; space toggles, enter confirms.
type fileListModel struct {
	files    []parsers.SourceFile
	selected []bool
	cursor   int
	height   int
	offset   int
	confirm  bool
}

func newFileListModel(files []parsers.SourceFile) fileListModel {
	selected := make([]bool, len(files))
	for i := range selected {
		selected[i] = true
	}
	return fileListModel{files: files, selected: selected, height: 15}
}

func (m fileListModel) Init() tea.Cmd {
	return nil
}

func (m fileListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.files)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case " ":
			m.selected[m.cursor] = !m.selected[m.cursor]
		case "enter":
			m.confirm = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m fileListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Source Files"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ␣ toggle  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.files) {
		end = len(m.files)
	}

	for i := m.offset; i < end; i++ {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		mark := "[ ]"
		if m.selected[i] {
			mark = "[x]"
		}
		line := cursor + mark + " " + m.files[i].Name
		if i == m.cursor {
			b.WriteString(listCursorStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// pickSourceFiles runs the interactive picker and returns the files the
// user kept. A cancelled picker returns no files.
func pickSourceFiles(files []parsers.SourceFile) ([]parsers.SourceFile, error) {
	final, err := tea.NewProgram(newFileListModel(files)).Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(fileListModel)
	if !ok || !m.confirm {
		return nil, nil
	}
	var kept []parsers.SourceFile
	for i, f := range files {
		if m.selected[i] {
			kept = append(kept, f)
		}
	}
	return kept, nil
}
