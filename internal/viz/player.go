package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/odestep/internal/dynamo"
)

const (
	playerWidth  = 60
	playerHeight = 16
	// playback covers the whole trajectory in about this many frames
	playbackFrames = 300
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(44)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type tickMsg time.Time

// Player replays a recorded trajectory: the selected component against time,
// or a phase portrait of two consecutive components.
type Player struct {
	traj      dynamo.Trajectory
	model     string
	method    string
	times     []float64
	comps     [][]float64
	pos       int
	stride    int
	component int
	playing   bool
	phase     bool
	fps       int
	canvas    *Canvas
}

func NewPlayer(traj dynamo.Trajectory, model, method string, fps int) Player {
	if fps <= 0 {
		fps = 30
	}
	comps := make([][]float64, traj.Dim())
	for i := range comps {
		comps[i] = traj.Component(i)
	}
	return Player{
		traj:    traj,
		model:   model,
		method:  method,
		times:   traj.Times(),
		comps:   comps,
		stride:  max(1, len(traj)/playbackFrames),
		playing: true,
		fps:     fps,
		canvas:  NewCanvas(playerWidth, playerHeight),
	}
}

func (p Player) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(p.fps), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (p Player) Init() tea.Cmd {
	return p.tick()
}

func (p Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return p, tea.Quit
		case " ":
			p.playing = !p.playing
			if p.playing && p.pos == len(p.traj)-1 {
				p.pos = 0
			}
		case "right", "l":
			p.playing = false
			p.seek(1)
		case "left", "h":
			p.playing = false
			p.seek(-1)
		case "]":
			p.seek(max(1, len(p.traj)/10))
		case "[":
			p.seek(-max(1, len(p.traj)/10))
		case "tab":
			if n := len(p.comps); n > 0 {
				p.component = (p.component + 1) % n
			}
		case "p":
			p.phase = !p.phase && len(p.comps) > 1
		}
		return p, nil

	case tickMsg:
		if p.playing {
			p.seek(p.stride)
			if p.pos == len(p.traj)-1 {
				p.playing = false
			}
		}
		return p, p.tick()
	}
	return p, nil
}

// seek moves the play head by delta samples, clamped to the trajectory.
func (p *Player) seek(delta int) {
	p.pos = min(max(p.pos+delta, 0), max(len(p.traj)-1, 0))
}

// Position reports the current sample index.
func (p Player) Position() int { return p.pos }

func (p Player) draw() {
	p.canvas.Clear()
	if len(p.traj) == 0 {
		return
	}
	end := p.pos + 1

	if p.phase {
		xi, yi := p.component, (p.component+1)%len(p.comps)
		xlo, xhi := bounds(p.comps[xi])
		ylo, yhi := bounds(p.comps[yi])
		p.canvas.PathWithin(p.comps[xi][:end], p.comps[yi][:end], xlo, xhi, ylo, yhi)
		return
	}

	ys := p.comps[p.component]
	ylo, yhi := bounds(ys)
	p.canvas.PathWithin(p.times[:end], ys[:end], p.times[0], p.times[len(p.times)-1], ylo, yhi)
}

func (p Player) View() string {
	if len(p.traj) == 0 {
		return "empty trajectory\n"
	}
	p.draw()

	status := StatusPaused.Render("PAUSED")
	if p.playing {
		status = StatusRunning.Render("PLAYING")
	}

	sample := p.traj[p.pos]
	var s strings.Builder
	s.WriteString(Heading(strings.ToUpper(p.model)+" / "+p.method) + "\n")
	s.WriteString(status + "\n\n")
	s.WriteString(KeyValue("sample", fmt.Sprintf("%d/%d", p.pos, len(p.traj)-1)) + "\n")
	s.WriteString(KeyValue("t", fmt.Sprintf("%.6g", sample.T)) + "\n")
	s.WriteString(ProgressBar(float64(p.pos)/float64(max(len(p.traj)-1, 1)), 30) + "\n\n")

	for i, v := range sample.X {
		line := fmt.Sprintf("%-16s %12.6g", ComponentLabel(p.model, i), v)
		if i == p.component {
			s.WriteString(MetricValue.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + Subtle.Render(line) + "\n")
		}
	}
	s.WriteString("\n" + Sparkline(p.comps[p.component], 30) + "\n")

	view := "time"
	if p.phase {
		view = "phase"
	}
	s.WriteString(helpStyle.Render(fmt.Sprintf("view: %s\nSP:Play ←→:Step []:Jump\nTab:Component P:Phase Q:Quit", view)))

	canvasView := canvasStyle.Render(p.canvas.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

// RunPlayer opens the player full screen and blocks until it quits.
func RunPlayer(traj dynamo.Trajectory, model, method string, fps int) error {
	_, err := tea.NewProgram(NewPlayer(traj, model, method, fps), tea.WithAltScreen()).Run()
	return err
}
