package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	cl "github.com/qualityslop/backend/internal/cli"
	"github.com/qualityslop/backend/internal/game"
)

const watchPollInterval = 2 * time.Second

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	badStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

func newWatchCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live dashboard of your player, refreshed every few seconds",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession()
			if err != nil {
				return err
			}
			model := newWatchModel(newClient(apiBase), sess)
			_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}
}

type pollMsg struct {
	view game.PollView
	err  error
}

type watchModel struct {
	client  *cl.Client
	session cl.Session
	spinner spinner.Model
	view    game.PollView
	loaded  bool
	err     error
}

func newWatchModel(client *cl.Client, sess cl.Session) watchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return watchModel{client: client, session: sess, spinner: sp}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.poll())
}

func (m watchModel) poll() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), watchPollInterval)
		defer cancel()
		view, err := m.client.Poll(ctx, m.session)
		return pollMsg{view: view, err: err}
	}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "p":
			return m, m.setSpeed(0)
		case "r":
			return m, m.setSpeed(1)
		}
		return m, nil
	case pollMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.view = msg.view
			m.loaded = true
		}
		return m, tea.Tick(watchPollInterval, func(time.Time) tea.Msg {
			return m.poll()()
		})
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m watchModel) setSpeed(multiplier int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), watchPollInterval)
		defer cancel()
		if err := m.client.SetTimeProgressionMultiplier(ctx, m.session, multiplier); err != nil {
			return pollMsg{err: err}
		}
		view, err := m.client.Poll(ctx, m.session)
		return pollMsg{view: view, err: err}
	}
}

func (m watchModel) View() string {
	if !m.loaded {
		if m.err != nil {
			return badStyle.Render("poll failed: "+m.err.Error()) + "\n"
		}
		return m.spinner.View() + " connecting...\n"
	}

	v := m.view
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Session %s", v.SessionID)))
	b.WriteString(labelStyle.Render(fmt.Sprintf("  %s  %s  %dx",
		v.SessionStatus, v.Time.Format("2006-01-02 15:04"), v.TimeProgressionMultiplier)))
	b.WriteString("\n\n")

	money := fmt.Sprintf("%s %s\n%s %s\n%s %s\n%s %s",
		labelStyle.Render("Balance "), styledMoney(v.Balance),
		labelStyle.Render("Equity  "), styledMoney(v.Equity),
		labelStyle.Render("Net/mo  "), styledMoney(v.MonthlyNetIncome),
		labelStyle.Render("Divid/mo"), styledMoney(v.MonthlyDividends))

	lifestyle := strings.Join([]string{
		watchBar("Health", v.HealthLevel),
		watchBar("Happy", v.HappinessLevel),
		watchBar("Energy", v.EnergyLevel),
		watchBar("Social", v.SocialLifeLevel),
		watchBar("Stress", v.StressLevel),
		watchBar("Comfort", v.LivingComfortLevel),
		watchBar("Career", v.CareerProgressLevel),
		watchBar("Skills", v.SkillsEducationLevel),
	}, "\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		borderStyle.Render(money),
		borderStyle.Render(lifestyle),
	))
	b.WriteString("\n")

	var stocks strings.Builder
	stocks.WriteString(labelStyle.Render(fmt.Sprintf("%-6s %9s %6s %11s", "SYM", "PRICE", "SIZE", "P/L")))
	for _, s := range v.Stocks {
		stocks.WriteString(fmt.Sprintf("\n%-6s %9.2f %6d %s", s.Symbol, s.LastPrice, s.Size, styledMoney(s.Pnl)))
	}
	b.WriteString(borderStyle.Render(stocks.String()))
	b.WriteString("\n")

	for _, e := range v.Events {
		b.WriteString(badStyle.Render("! " + e.Title))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(badStyle.Render("poll failed: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("p pause • r resume • q quit"))
	b.WriteString("\n")
	return b.String()
}

func styledMoney(v float64) string {
	text := fmt.Sprintf("%11.2f", v)
	if v < 0 {
		return badStyle.Render(text)
	}
	return goodStyle.Render(text)
}

func watchBar(label string, level int) string {
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	filled := level / 10
	return fmt.Sprintf("%-8s %s%s %3d", label,
		goodStyle.Render(strings.Repeat("▰", filled)),
		labelStyle.Render(strings.Repeat("▱", 10-filled)),
		level)
}
