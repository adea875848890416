package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizdoc/internal/router"
)

func TestAppModel_EscPopsOnlyAboveHome(t *testing.T) {
	m := newAppModel(Options{})

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd)

	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	m.Update(cmd())
	require.Equal(t, 2, m.router.Depth())
	assert.Equal(t, "Upload", m.router.Active().Title())

	_, cmd = m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PopScreenMsg)
	assert.True(t, ok)
	m.Update(router.PopScreenMsg{})
	assert.Equal(t, 1, m.router.Depth())
}

func TestAppModel_RenderHeader(t *testing.T) {
	model, _ := newAppModel(Options{Status: "claude-test"}).Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m := model.(AppModel)

	frame := m.render()
	assert.Contains(t, frame, "quizdoc")
	assert.Contains(t, frame, "claude-test")
}

func TestAppModel_TooSmall(t *testing.T) {
	model, _ := newAppModel(Options{}).Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.Contains(t, model.(AppModel).render(), "Terminal too small")
}

func TestAppModel_FooterUsesScreenHints(t *testing.T) {
	model, _ := newAppModel(Options{}).Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m := model.(AppModel)

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	m.Update(cmd())
	t.Cleanup(func() { m.Update(router.PopScreenMsg{}) })

	assert.Contains(t, m.render(), "Read files")
}
