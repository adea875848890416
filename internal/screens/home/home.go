package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizdoc/internal/router"
	"github.com/abhisek/quizdoc/internal/screen"
	"github.com/abhisek/quizdoc/internal/screens/history"
	"github.com/abhisek/quizdoc/internal/screens/quizflow"
	"github.com/abhisek/quizdoc/internal/store"
	"github.com/abhisek/quizdoc/internal/ui/components"
	"github.com/abhisek/quizdoc/internal/ui/theme"
)

const banner = `  ___        _     ____
 / _ \ _   _(_)___|  _ \  ___   ___
| | | | | | | |_  / | | |/ _ \ / __|
| |_| | |_| | |/ /| |_| | (_) | (__
 \__\_\\__,_|_/___|____/ \___/ \___|`

// Deps are the collaborators of the home screen. Quizzes may be nil, in
// which case history is unavailable.
type Deps struct {
	Flow    quizflow.Deps
	Quizzes store.QuizRepo
}

type statsLoadedMsg struct {
	count int
	last  *store.QuizRecord
	err   error
}

// HomeScreen is the main menu.
type HomeScreen struct {
	menu  components.Menu
	deps  Deps
	count int
	last  *store.QuizRecord
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	items := []components.MenuItem{
		{Label: "New quiz", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: quizflow.New(deps.Flow)}
			}
		}},
		{Label: "History", Disabled: deps.Quizzes == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(deps.Quizzes)}
			}
		}},
		{Label: "Quit", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	return &HomeScreen{menu: components.NewMenu(items), deps: deps}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) loadStats() tea.Cmd {
	if h.deps.Quizzes == nil {
		return nil
	}
	repo := h.deps.Quizzes
	return func() tea.Msg {
		recs, err := repo.ListQuizzes(context.Background(), store.QueryOpts{})
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		msg := statsLoadedMsg{count: len(recs)}
		if len(recs) > 0 {
			msg.last = &recs[0]
		}
		return msg
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.err == nil {
			h.count, h.last = msg.count, msg.last
		}
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string
	if height >= 20 {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(banner))
	} else {
		sections = append(sections, theme.Title.Render("quizdoc"))
	}
	sections = append(sections, theme.Subtitle.Render("Turn scans, PDFs and Word documents into quizzes."))

	if h.count > 0 {
		stats := fmt.Sprintf("%d quizzes saved", h.count)
		if h.last != nil {
			stats += fmt.Sprintf("  ·  last: %s (%s)", h.last.Title, h.last.Timestamp.Format("Jan 02"))
		}
		sections = append(sections, theme.Hint.Render(stats))
	}

	menu := theme.Card.Width(30).Render(strings.TrimRight(h.menu.View(), "\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, strings.Join(sections, "\n\n"), "", menu))
}

// Resume refreshes the counters when a child screen is popped.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) Title() string {
	return "Home"
}
