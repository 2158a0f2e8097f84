package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/arbor/pkg/conversation"
	"github.com/go-go-golems/arbor/pkg/generate"
	"github.com/go-go-golems/arbor/pkg/inference"
	"github.com/go-go-golems/arbor/pkg/models"
	"github.com/go-go-golems/arbor/pkg/session"
	"github.com/go-go-golems/arbor/pkg/threads"
)

func TestCollapsedSummaryUsesFirstLine(t *testing.T) {
	msg := conversation.NewUserMessage("first line\nsecond line",
		conversation.WithReplies(
			conversation.NewAIMessage("a", "m"),
			conversation.NewAIMessage("b", "m"),
		))

	require.Equal(t, "first line (2 replies)", CollapsedSummary(msg))
}

func TestCollapsedSummaryTruncatesLongContent(t *testing.T) {
	msg := conversation.NewUserMessage(strings.Repeat("x", 80))

	summary := CollapsedSummary(msg)
	require.True(t, strings.HasPrefix(summary, strings.Repeat("x", 50)+"..."))
	require.True(t, strings.HasSuffix(summary, "(0 replies)"))
}

func TestCollapsedSummarySingularReply(t *testing.T) {
	msg := conversation.NewUserMessage("q",
		conversation.WithReplies(conversation.NewAIMessage("a", "m")))

	require.Equal(t, "q (1 reply)", CollapsedSummary(msg))
}

func newTestModel() model {
	registry := models.NewRegistry()
	store := threads.NewStore(registry)
	sess := session.New(store)
	orchestrator := generate.NewOrchestrator(store, registry, inference.NewEchoEngine())
	return InitialModel(sess, orchestrator)
}

func TestNewThreadEntersTitleEditing(t *testing.T) {
	m := newTestModel()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	mm := updated.(model)

	require.Equal(t, StateRenaming, mm.state)
	require.Equal(t, threads.DefaultTitle, mm.textArea.Value())

	current, ok := mm.session.Store().Current()
	require.True(t, ok)
	require.Equal(t, threads.DefaultTitle, current.Title)
}

func TestSubmittedTitleAfterNewThreadIsStored(t *testing.T) {
	m := newTestModel()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	mm := updated.(model)

	mm.textArea.SetValue("Research")
	updated, _ = mm.Update(tea.KeyMsg{Type: tea.KeyTab})
	mm = updated.(model)

	require.Equal(t, StateBrowsing, mm.state)
	current, ok := mm.session.Store().Current()
	require.True(t, ok)
	require.Equal(t, "Research", current.Title)
}
