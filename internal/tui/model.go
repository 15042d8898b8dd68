package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/patientdb/internal/hover"
	"github.com/dshills/patientdb/internal/patients"
	"github.com/dshills/patientdb/pkg/types"
)

// Card geometry in terminal cells
var (
	CardSize   = hover.Size{W: 36, H: 12}
	CardMargin = 1
)

// listTop is the first screen row holding a patient; row 0 is the header
const listTop = 1

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	helpStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)
	cardTitleStyle = lipgloss.NewStyle().Bold(true)
)

// Options configures the browser
type Options struct {
	Delay     time.Duration
	Scheduler hover.Scheduler
}

// patientsLoadedMsg carries a fresh listing
type patientsLoadedMsg struct {
	patients []types.Patient
	err      error
}

// hoverMsg carries a controller transition that happened off the UI goroutine
type hoverMsg struct {
	snap hover.Snapshot
}

// Model implements tea.Model
type Model struct {
	svc     *patients.Service
	hover   *hover.Controller
	changes chan hover.Snapshot

	all    []types.Patient
	shown  []types.Patient
	sortBy patients.SortBy
	search string
	typing bool

	width, height int
	snap          hover.Snapshot
	hoverRow      int
	onCard        bool
	err           error
}

// NewModel creates a browser over svc
func NewModel(svc *patients.Service, opts Options) Model {
	ctrl := hover.NewController(hover.Config{
		Delay:     opts.Delay,
		Card:      CardSize,
		Margin:    CardMargin,
		Scheduler: opts.Scheduler,
	})

	changes := make(chan hover.Snapshot, 16)
	ctrl.OnChange(func(s hover.Snapshot) {
		select {
		case changes <- s:
		default:
		}
	})

	return Model{
		svc:      svc,
		hover:    ctrl,
		changes:  changes,
		sortBy:   patients.SortByName,
		hoverRow: -1,
	}
}

// Run starts the browser and blocks until the user quits or ctx ends
func Run(ctx context.Context, svc *patients.Service, opts Options) error {
	model := NewModel(svc, opts)
	defer model.hover.Close()

	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	_, err := program.Run()
	return err
}

// Init implements tea.Model
func (model Model) Init() tea.Cmd {
	return tea.Batch(loadPatients(model.svc), listenForHover(model.changes))
}

func loadPatients(svc *patients.Service) tea.Cmd {
	return func() tea.Msg {
		list, err := svc.ListPatients(context.Background())
		return patientsLoadedMsg{patients: list, err: err}
	}
}

// listenForHover blocks until the controller reports a transition
func listenForHover(changes <-chan hover.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-changes
		if !ok {
			return nil
		}
		return hoverMsg{snap: snap}
	}
}

// Update implements tea.Model
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		return model.handleKey(message)

	case tea.MouseMsg:
		if message.Action == tea.MouseActionMotion && message.Button == tea.MouseButtonNone {
			model.handleMotion(message.X, message.Y)
		}

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height

	case patientsLoadedMsg:
		model.err = message.err
		if message.err == nil {
			model.all = message.patients
			model.refresh()
		}

	case hoverMsg:
		model.snap = model.hover.Snapshot()
		return model, listenForHover(model.changes)
	}
	return model, nil
}

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if model.typing {
		switch message.Type {
		case tea.KeyEnter:
			model.typing = false
		case tea.KeyEsc:
			model.typing = false
			model.search = ""
		case tea.KeyBackspace:
			if r := []rune(model.search); len(r) > 0 {
				model.search = string(r[:len(r)-1])
			}
		case tea.KeyRunes, tea.KeySpace:
			model.search += string(message.Runes)
		case tea.KeyCtrlC:
			model.hover.Close()
			return model, tea.Quit
		}
		model.refresh()
		return model, nil
	}

	switch message.String() {
	case "q", "ctrl+c":
		model.hover.Close()
		return model, tea.Quit
	case "/":
		model.typing = true
	case "esc":
		model.search = ""
		model.refresh()
	case "s":
		if model.sortBy == patients.SortByName {
			model.sortBy = patients.SortByAge
		} else {
			model.sortBy = patients.SortByName
		}
		model.refresh()
	case "r":
		return model, loadPatients(model.svc)
	}
	return model, nil
}

// refresh recomputes the visible rows. The list changes under the pointer,
// so the current row hover is dropped.
func (model *Model) refresh() {
	model.shown = patients.Browse(model.all, model.search, model.sortBy)
	if model.hoverRow >= 0 {
		model.hover.LeaveRow()
		model.hoverRow = -1
	}
	model.snap = model.hover.Snapshot()
}

// handleMotion turns pointer motion into row and card enter/leave events
func (model *Model) handleMotion(x, y int) {
	defer func() { model.snap = model.hover.Snapshot() }()

	if model.insideCard(x, y) {
		if !model.onCard {
			if model.hoverRow >= 0 {
				model.hover.LeaveRow()
				model.hoverRow = -1
			}
			model.onCard = true
			model.hover.EnterDetail()
		}
		return
	}
	if model.onCard {
		model.onCard = false
		model.hover.LeaveDetail()
	}

	row := model.rowAt(y)
	if row == model.hoverRow {
		return
	}
	if model.hoverRow >= 0 {
		model.hover.LeaveRow()
	}
	model.hoverRow = row
	if row >= 0 {
		model.hover.EnterRow(model.shown[row],
			hover.Point{X: x, Y: y},
			hover.Size{W: model.width, H: model.height})
	}
}

func (model Model) insideCard(x, y int) bool {
	snap := model.hover.Snapshot()
	if !snap.Visible() {
		return false
	}
	return x >= snap.Position.X && x < snap.Position.X+CardSize.W &&
		y >= snap.Position.Y && y < snap.Position.Y+CardSize.H
}

// rowAt returns the index into shown under screen row y, or -1
func (model Model) rowAt(y int) int {
	i := y - listTop
	if i < 0 || i >= len(model.shown) || i >= model.visibleRows() {
		return -1
	}
	return i
}

// visibleRows is the number of list rows between the header and the help line
func (model Model) visibleRows() int {
	return max(model.height-listTop-1, 0)
}

// View implements tea.Model
func (model Model) View() string {
	if model.width == 0 {
		return "Loading..."
	}

	lines := make([]string, 0, model.height)
	header := fmt.Sprintf(" %-5s %-24s %-5s %-8s %s", "ID", "NAME", "AGE", "GENDER", "ADDRESS")
	lines = append(lines, headerStyle.Render(fit(header, model.width)))

	for i := 0; i < model.visibleRows(); i++ {
		if i >= len(model.shown) {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, fit(formatRow(model.shown[i]), model.width))
	}

	if model.snap.Visible() && model.snap.Patient != nil {
		card := strings.Split(renderCard(*model.snap.Patient), "\n")
		lines = overlay(lines, card, model.snap.Position.X, model.snap.Position.Y)
	}

	lines = append(lines, model.renderHelp())
	return strings.Join(lines, "\n")
}

func (model Model) renderHelp() string {
	if model.err != nil {
		return errorStyle.Render(fit(" error: "+model.err.Error(), model.width))
	}
	status := fmt.Sprintf(" %d/%d patients  sort:%s", len(model.shown), len(model.all), model.sortBy)
	if model.typing || model.search != "" {
		status += "  filter:" + model.search
		if model.typing {
			status += "_"
		}
	}
	status += "  / filter  s sort  r reload  q quit"
	return helpStyle.Render(fit(status, model.width))
}

func formatRow(p types.Patient) string {
	age := "-"
	if p.Age != nil {
		age = fmt.Sprint(*p.Age)
	}
	return fmt.Sprintf(" %-5d %-24s %-5s %-8s %s", p.ID, truncate(p.Name, 24), age, truncate(p.Gender, 8), p.Address)
}

func renderCard(p types.Patient) string {
	inner := CardSize.W - 4 // border and padding
	age := "unknown"
	if p.Age != nil {
		age = fmt.Sprintf("%d years", *p.Age)
	}
	body := []string{
		cardTitleStyle.Render(truncate(p.Initials()+"  "+p.Name, inner)),
		"",
		"ID      " + truncate(fmt.Sprint(p.ID), inner-8),
		"Age     " + truncate(age, inner-8),
		"Gender  " + truncate(orDash(p.Gender), inner-8),
		"Address",
		truncate(orDash(p.Address), inner),
	}
	return cardStyle.
		Width(CardSize.W - 2).
		Height(CardSize.H - 2).
		Render(strings.Join(body, "\n"))
}

// overlay splices box onto the plain-text lines with its top-left at (x, y)
func overlay(lines, box []string, x, y int) []string {
	x = max(x, 0)
	for i, boxLine := range box {
		row := y + i
		if row < 0 || row >= len(lines) {
			continue
		}
		base := []rune(lines[row])
		for len(base) < x {
			base = append(base, ' ')
		}
		end := x + lipgloss.Width(boxLine)
		rest := ""
		if end < len(base) {
			rest = string(base[end:])
		}
		lines[row] = string(base[:x]) + boxLine + rest
	}
	return lines
}

func fit(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
