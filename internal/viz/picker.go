package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/orbitsim/internal/config"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	descStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#e4572e"))
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// Picker lists the built-in systems, lets the user tune the timestep and
// speed, then hands over to the live view.
type Picker struct {
	state    int
	cursor   int
	presets  []string
	selected *config.Config
	opts     Options
	paramIdx int
	err      error
	width    int
	height   int
	live     Model
}

var pickerParams = []string{"dt", "steps/frame", "theme"}

func NewPicker(opts Options) Picker {
	return Picker{
		state:   stateMenu,
		presets: config.ListPresets(),
		opts:    opts,
	}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width, p.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch p.state {
		case stateMenu:
			return p.menuKey(msg)
		case stateConfig:
			return p.configKey(msg)
		}
	}

	if p.state == stateSim {
		next, cmd := p.live.Update(msg)
		p.live = next.(Model)
		return p, cmd
	}
	return p, nil
}

func (p Picker) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.presets)-1 {
			p.cursor++
		}
	case "enter", " ", "space":
		p.selected = config.GetPreset(p.presets[p.cursor])
		p.opts.Name = p.selected.Name
		p.opts.Dt = p.selected.Dt
		p.state, p.paramIdx, p.err = stateConfig, 0, nil
	}
	return p, nil
}

func (p Picker) configKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return p, tea.Quit
	case "esc", "q":
		p.state = stateMenu
	case "up", "k":
		p.paramIdx = (p.paramIdx + len(pickerParams) - 1) % len(pickerParams)
	case "down", "j":
		p.paramIdx = (p.paramIdx + 1) % len(pickerParams)
	case "left", "h":
		p.adjust(-1)
	case "right", "l":
		p.adjust(1)
	case "enter", "s":
		return p.start()
	}
	return p, nil
}

func (p *Picker) adjust(dir int) {
	switch pickerParams[p.paramIdx] {
	case "dt":
		if dir > 0 {
			p.opts.Dt *= 2
		} else {
			p.opts.Dt /= 2
		}
	case "steps/frame":
		if dir > 0 {
			p.opts.StepsPerFrame = min(max(p.opts.StepsPerFrame, 1)*2, maxStepsPerTick)
		} else {
			p.opts.StepsPerFrame = max(p.opts.StepsPerFrame/2, 1)
		}
	case "theme":
		idx := 0
		for i, t := range Themes {
			if t.Name == p.opts.Theme {
				idx = i
			}
		}
		p.opts.Theme = Themes[(idx+dir+len(Themes))%len(Themes)].Name
	}
}

func (p Picker) start() (tea.Model, tea.Cmd) {
	_, integ, err := p.selected.Build()
	if err != nil {
		p.err = err
		return p, nil
	}

	opts := p.opts
	if p.width > 0 && p.height > 0 {
		opts.Width, opts.Height = p.width, p.height
	}
	p.live = NewModel(integ, opts)
	p.state = stateSim
	return p, p.live.Init()
}

func (p Picker) View() string {
	switch p.state {
	case stateConfig:
		return p.viewConfig()
	case stateSim:
		return p.live.View()
	}
	return p.viewMenu()
}

func (p Picker) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("ORBITSIM") + "\n    " + subStyle.Render("central-body gravity") + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range p.presets {
		desc := presetSummary(name)
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-12s", name)), descStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", idleStyle.Render(fmt.Sprintf("%-12s", name)), subStyle.Render(desc)))
		}
	}
	b.WriteString("\n    " + keyStyle.Render("j/k") + idleStyle.Render(" navigate  ") + keyStyle.Render("enter") + idleStyle.Render(" select  ") + keyStyle.Render("q") + idleStyle.Render(" quit") + "\n")
	return b.String()
}

func (p Picker) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render(strings.ToUpper(p.selected.Name)) + "\n    " + subStyle.Render(presetSummary(p.selected.Name)) + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range pickerParams {
		var val string
		switch name {
		case "dt":
			val = fmt.Sprintf("%g yr", p.opts.Dt)
		case "steps/frame":
			val = fmt.Sprintf("%d", max(p.opts.StepsPerFrame, 1))
		case "theme":
			val = GetTheme(p.opts.Theme).Name
		}
		if i == p.paramIdx {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-12s", name)), descStyle.Render(val)))
		} else {
			b.WriteString(fmt.Sprintf("      %s %s\n", idleStyle.Render(fmt.Sprintf("%-12s", name)), subStyle.Render(val)))
		}
	}
	if p.err != nil {
		b.WriteString("\n    " + errStyle.Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyStyle.Render("j/k") + idleStyle.Render(" select  ") + keyStyle.Render("h/l") + idleStyle.Render(" adjust  ") + keyStyle.Render("enter") + idleStyle.Render(" start  ") + keyStyle.Render("esc") + idleStyle.Render(" back") + "\n")
	return b.String()
}

func presetSummary(name string) string {
	cfg := config.GetPreset(name)
	if cfg == nil {
		return ""
	}
	names := make([]string, 0, len(cfg.Bodies))
	for _, b := range cfg.Bodies {
		names = append(names, b.Name)
	}
	return strings.Join(names, ", ")
}

// RunPicker opens the preset menu in the alternate screen.
func RunPicker(opts Options) error {
	_, err := tea.NewProgram(NewPicker(opts), tea.WithAltScreen()).Run()
	return err
}
