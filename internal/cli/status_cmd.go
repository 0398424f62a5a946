package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/repository"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *App) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show tracked time",
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch {
				model := newWatchModel(app)
				p := tea.NewProgram(model, tea.WithOutput(app.Out), tea.WithContext(cmd.Context()))
				_, err := p.Run()
				return err
			}

			seconds, err := app.Counters.Get(cmd.Context(), repository.AccruedSecondsCounter, 0)
			if err != nil {
				return fmt.Errorf("reading tracked time: %w", err)
			}
			fmt.Fprintf(app.Out, "Tracked time: %s\n", domain.FormatSeconds(seconds))
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Live view that refreshes every second")
	return cmd
}

// ── live view ────────────────────────────────────────────────────────────────

// watchTickMsg carries the freshly read counter once per second.
type watchTickMsg struct {
	seconds int
	err     error
}

// watchModel renders the live tracked-time readout. The daemon persists the
// counter on every counted second, so a total that stopped moving means the
// clock is paused (or the daemon is not running).
type watchModel struct {
	app     *App
	keyQuit key.Binding
	seconds int
	prev    int
	timing  bool
	err     error
}

func newWatchModel(app *App) *watchModel {
	return &watchModel{
		app:     app,
		keyQuit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		prev:    -1,
	}
}

func (m *watchModel) readTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		seconds, err := m.app.Counters.Get(context.Background(), repository.AccruedSecondsCounter, 0)
		return watchTickMsg{seconds: seconds, err: err}
	})
}

func (m *watchModel) Init() tea.Cmd {
	return m.readTick()
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keyQuit) {
			return m, tea.Quit
		}
	case watchTickMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, m.readTick()
		}
		m.err = nil
		m.timing = m.prev >= 0 && msg.seconds > m.prev
		m.prev = msg.seconds
		m.seconds = msg.seconds
		return m, m.readTick()
	}
	return m, nil
}

func (m *watchModel) View() string {
	if m.err != nil {
		return styleRed.Render("● tally: "+m.err.Error()) + "\n"
	}

	state := "paused"
	style := styleYellow
	if m.timing {
		state = "timing"
		style = styleGreen
	}

	line := fmt.Sprintf("● tally: %s (%s)", domain.FormatSeconds(m.seconds), state)
	help := m.keyQuit.Help()
	return style.Render(line) + "\n" + styleDim.Render(help.Key+" to "+help.Desc) + "\n"
}
