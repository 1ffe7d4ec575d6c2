// internal/tui/progress.go
//
// Terminal progress view for generation runs. It follows bubbletea's Elm
// Architecture: the generator reports each finished experiment on a
// channel, every report becomes a message, and Update folds it into the
// model that View renders.

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MetOffice/dreqgen/internal/logbook"
	"github.com/MetOffice/dreqgen/internal/varlist"
)

const logTailLines = 8

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")).MarginBottom(1)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	faintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	spinStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	logHeadStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	logBodyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444444")).Padding(0, 1)
)

type eventMsg varlist.Event

// eventsClosedMsg reports that the generator stopped producing events
// and its result is ready to collect.
type eventsClosedMsg struct{}

// RunResult carries the generator's return values back to the caller.
type RunResult struct {
	Summary varlist.Summary
	Err     error
}

// RunView is the model for one generation run. The generator goroutine
// feeds events; once it returns, the caller closes events and sends the
// RunResult on results. Closing events before sending the result lets the
// view drain every buffered report before it shows the summary.
type RunView struct {
	version string
	total   int

	events  <-chan varlist.Event
	results <-chan RunResult
	abort   func()
	logbook *logbook.Logbook

	// UI components
	spin spinner.Model
	bar  progress.Model

	// Run state folded from events
	completed int
	generated int
	failures  []varlist.Failure
	lastName  string
	lastLines int

	aborting bool
	finished bool
	result   RunResult

	width  int
	height int
}

// NewRunView builds the progress model for a run over total experiments.
// abort is called when the user cancels; it should stop the generator.
func NewRunView(version string, total int, events <-chan varlist.Event, results <-chan RunResult, abort func(), lb *logbook.Logbook) *RunView {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = spinStyle

	bar := progress.New(progress.WithDefaultGradient())

	return &RunView{
		version: version,
		total:   total,
		events:  events,
		results: results,
		abort:   abort,
		logbook: lb,
		spin:    spin,
		bar:     bar,
	}
}

// Result returns the run outcome. It is the only reader of the results
// channel; when the program quit before the run finished it waits here
// for the generator, which the abort callback has already asked to stop.
func (v *RunView) Result() (varlist.Summary, error) {
	if !v.finished {
		v.result = <-v.results
		v.finished = true
	}
	return v.result.Summary, v.result.Err
}

// Init is called once when the program starts.
func (v *RunView) Init() tea.Cmd {
	return tea.Batch(v.spin.Tick, v.waitForEvent())
}

// Update is called when a message is received.
func (v *RunView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.bar.Width = clamp(msg.Width-8, 20, 64)
		return v, nil

	case spinner.TickMsg:
		if v.finished {
			return v, nil
		}
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return v, cmd

	case eventMsg:
		ev := varlist.Event(msg)
		v.completed = ev.Done
		if ev.Total > 0 {
			v.total = ev.Total
		}
		if ev.Err != nil {
			v.failures = append(v.failures, varlist.Failure{Experiment: ev.Experiment, Err: ev.Err})
		} else {
			v.generated++
			v.lastName = ev.Experiment
			v.lastLines = ev.Lines
		}
		return v, v.waitForEvent()

	case eventsClosedMsg:
		v.Result()
		return v, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if v.finished {
				return v, tea.Quit
			}
			if v.aborting {
				// Second press stops waiting for the generator.
				return v, tea.Quit
			}
			v.aborting = true
			if v.abort != nil {
				v.abort()
			}
			return v, nil
		}
	}

	return v, nil
}

// waitForEvent reads the next generator report. A closed event channel
// means the run has returned and the result is ready. The command never
// reads results itself: quitting mid-run leaves one of these parked on
// the event channel, and it must not swallow the outcome Result waits
// for.
func (v *RunView) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-v.events; ok {
			return eventMsg(ev)
		}
		return eventsClosedMsg{}
	}
}

// View renders the current state to a string.
func (v *RunView) View() string {
	sections := []string{headerStyle.Render("⬡ DREQGEN")}
	if v.finished {
		sections = append(sections, panelStyle.Render(v.renderSummary()))
	} else {
		sections = append(sections, panelStyle.Render(v.renderRun()))
	}
	if logPanel := v.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	if !v.finished {
		footer := faintStyle.MarginTop(1).Render("q → abort run")
		sections = append(sections, footer)
	}
	return strings.Join(sections, "\n")
}

func (v *RunView) renderRun() string {
	status := "generating variable lists"
	if v.aborting {
		status = "aborting run, waiting for in-flight experiments"
	}
	counts := fmt.Sprintf("%d/%d experiments · %d generated", v.completed, v.total, v.generated)
	if n := len(v.failures); n > 0 {
		counts += " · " + failStyle.Render(fmt.Sprintf("%d failed", n))
	}
	lines := []string{
		fmt.Sprintf("Data request %s · %d experiment(s)", v.version, v.total),
		"",
		fmt.Sprintf("%s %s", v.spin.View(), status),
		v.bar.ViewAs(v.percent()),
		counts,
	}
	if v.lastName != "" {
		lines = append(lines, faintStyle.Render(fmt.Sprintf("last: %s.txt (%d lines)", v.lastName, v.lastLines)))
	}
	if len(v.failures) > 0 {
		lines = append(lines, "", failStyle.Render("FAILED:"))
		for _, f := range v.failures {
			lines = append(lines, failStyle.Render(fmt.Sprintf("  ✗ %s: %v", f.Experiment, f.Err)))
		}
	}
	return strings.Join(lines, "\n")
}

func (v *RunView) renderSummary() string {
	summary := v.result.Summary
	lines := []string{
		fmt.Sprintf("Run complete · data request %s", summary.Version),
		faintStyle.Render(fmt.Sprintf("output: %s", summary.OutDir)),
		"",
	}
	if v.result.Err != nil {
		lines = append(lines, failStyle.Render(fmt.Sprintf("Run aborted: %v", v.result.Err)))
	}
	if n := len(summary.Failed); n > 0 {
		lines = append(lines, failStyle.Render(fmt.Sprintf("%d FAILED:", n)))
		for _, f := range summary.Failed {
			lines = append(lines, failStyle.Render(fmt.Sprintf("  - %s: %v", f.Experiment, f.Err)))
		}
		lines = append(lines, "")
	}
	lines = append(lines, okStyle.Render(fmt.Sprintf("SUCCESSFULLY GENERATED %d FILES", summary.Generated)))
	return strings.Join(lines, "\n")
}

func (v *RunView) renderLogPanel() string {
	if v.logbook == nil {
		return ""
	}
	lines := v.logbook.Tail(logTailLines)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(v.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := logHeadStyle.Render(fmt.Sprintf("LOG · %s", fileName))
	body := logBodyStyle.Render(strings.Join(lines, "\n"))
	return panelStyle.Render(fmt.Sprintf("%s\n%s", head, body))
}

func (v *RunView) percent() float64 {
	if v.total <= 0 {
		return 1
	}
	return float64(v.completed) / float64(v.total)
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
