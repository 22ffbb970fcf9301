package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/rigidsim/internal/config"
	"github.com/san-kum/rigidsim/internal/scene"
)

const (
	canvasWidth     = 64
	canvasHeight    = 22
	historyCap      = 400
	defaultWorldTop = 12.0
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(40)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model drives the live side-view of the drop scenario.
type Model struct {
	cfg     *config.Config
	scene   *scene.Scene
	fps     int
	running bool
	err     error

	heights []float64
}

// NewModel builds the scene from cfg and prepares the live view.
func NewModel(cfg *config.Config, fps int) (Model, error) {
	sc, err := scene.Build(cfg)
	if err != nil {
		return Model{}, err
	}
	if fps <= 0 {
		fps = 60
	}

	return Model{
		cfg:     cfg,
		scene:   sc,
		fps:     fps,
		running: true,
		heights: make([]float64, 0, historyCap),
	}, nil
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			sc, err := scene.Build(m.cfg)
			if err == nil {
				m.scene = sc
				m.err = nil
				m.heights = m.heights[:0]
			}
		}
	case TickMsg:
		if m.running && m.err == nil {
			if err := m.scene.Step(m.cfg.Dt); err != nil {
				m.err = err
				m.running = false
			}
			m.heights = append(m.heights, m.scene.Box.Position.Y())
			if len(m.heights) > historyCap {
				m.heights = m.heights[1:]
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) View() string {
	canvas := canvasStyle.Render(m.drawSideView())

	box := m.scene.Box
	var s strings.Builder
	s.WriteString(headerStyle.Render("FALLING BOX") + "\n")

	status := "RUNNING"
	if m.err != nil {
		status = errorStyle.Render(fmt.Sprintf("FAILED: %v", m.err))
	} else if !m.running {
		status = "PAUSED"
	} else if !box.Enabled() {
		status = "AT REST (auto-disabled)"
	}
	s.WriteString(status + "\n\n")

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.scene.World.Time())) + "\n")
	s.WriteString(labelStyle.Render("Position") + valueStyle.Render(fmt.Sprintf("(%.2f, %.2f, %.2f)", box.Position.X(), box.Position.Y(), box.Position.Z())) + "\n")
	s.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%.3f", box.LinearVel.Len())) + "\n")
	s.WriteString(labelStyle.Render("Spin") + valueStyle.Render(fmt.Sprintf("%.3f", box.AngularVel.Len())) + "\n")
	s.WriteString(labelStyle.Render("Contacts") + valueStyle.Render(fmt.Sprintf("%d", m.scene.World.ContactCount())) + "\n")

	if len(m.heights) > 1 {
		chart := asciigraph.Plot(m.heights, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("height"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(helpStyle.Render("space pause · r reset · q quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvas, statsStyle.Render(s.String()))
}

// drawSideView renders the box and ground on a rune grid, world y up.
func (m Model) drawSideView() string {
	grid := make([][]rune, canvasHeight)
	for i := range grid {
		grid[i] = make([]rune, canvasWidth)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	top := m.cfg.Box.Position.Y + m.cfg.Box.HalfExtents.Y + 1
	if top < defaultWorldTop {
		top = defaultWorldTop
	}
	scaleY := float64(canvasHeight-1) / top

	// Ground line at world y = ground offset.
	groundRow := canvasHeight - 1 - int(m.cfg.Ground.Offset*scaleY)
	if groundRow >= 0 && groundRow < canvasHeight {
		for j := 0; j < canvasWidth; j++ {
			grid[groundRow][j] = '─'
		}
	}

	// Box cross-section, centered horizontally.
	box := m.scene.Box
	hy := m.cfg.Box.HalfExtents.Y
	hx := m.cfg.Box.HalfExtents.X
	yLo := box.Position.Y() - hy
	yHi := box.Position.Y() + hy
	rowLo := canvasHeight - 1 - int(yHi*scaleY)
	rowHi := canvasHeight - 1 - int(yLo*scaleY)
	halfCols := int(hx * scaleY * 2)
	if halfCols < 1 {
		halfCols = 1
	}
	center := canvasWidth / 2
	for row := rowLo; row <= rowHi; row++ {
		if row < 0 || row >= canvasHeight {
			continue
		}
		for col := center - halfCols; col <= center+halfCols; col++ {
			if col >= 0 && col < canvasWidth {
				grid[row][col] = '█'
			}
		}
	}

	lines := make([]string, canvasHeight)
	for i, row := range grid {
		lines[i] = string(row)
	}
	return strings.Join(lines, "\n")
}
