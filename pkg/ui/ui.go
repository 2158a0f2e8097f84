package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/arbor/pkg/conversation"
	"github.com/go-go-golems/arbor/pkg/events"
	"github.com/go-go-golems/arbor/pkg/generate"
	"github.com/go-go-golems/arbor/pkg/session"
)

// states:
// - browsing the tree
// - editing a message draft
// - renaming the current thread
// - asking for a reply count
// - waiting for a generation run

type State string

const (
	StateBrowsing    State = "browsing"
	StateEditing     State = "editing"
	StateRenaming    State = "renaming"
	StateCountPrompt State = "count_prompt"
	StateGenerating  State = "generating"
)

// EventMsg wraps a bus event for delivery into the update loop. The event
// router forwards everything published on the ui topic through Program.Send.
type EventMsg struct {
	Event events.Event
}

type generationDoneMsg struct {
	err error
}

type model struct {
	session      *session.Session
	orchestrator *generate.Orchestrator

	viewport viewport.Model
	textArea textarea.Model
	help     help.Model

	keyMap KeyMap
	style  *Style

	renderer *glamour.TermRenderer

	width  int
	height int

	state  State
	status string

	// cancels the in-flight generation run
	cancelGeneration context.CancelFunc

	quitReceived bool
}

func InitialModel(sess *session.Session, orchestrator *generate.Orchestrator) model {
	ret := model{
		session:      sess,
		orchestrator: orchestrator,
		style:        DefaultStyles(),
		keyMap:       DefaultKeyMap,
		viewport:     viewport.New(0, 0),
		help:         help.New(),
		state:        StateBrowsing,
	}

	ret.textArea = textarea.New()
	ret.textArea.Placeholder = "Write a message..."

	ret.updateKeyBindings()
	return ret
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case StateEditing, StateRenaming, StateCountPrompt:
			return m.updateInput(msg)
		case StateGenerating:
			return m.updateGenerating(msg)
		default:
			return m.updateBrowsing(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recomputeSize()

	case EventMsg:
		return m.handleEvent(msg.Event)

	case generationDoneMsg:
		m.state = StateBrowsing
		m.cancelGeneration = nil
		if msg.err != nil {
			m.status = m.style.StatusError.Render(msg.err.Error())
		}
		m.updateKeyBindings()
		m.refreshViewport()
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session
	m.status = ""

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.SelectParent):
		s.MoveToParent()
	case key.Matches(msg, m.keyMap.SelectFirstChild):
		s.MoveToFirstChild()
	case key.Matches(msg, m.keyMap.SelectPrevSibling):
		s.MoveToPrevSibling()
	case key.Matches(msg, m.keyMap.SelectNextSibling):
		s.MoveToNextSibling()

	case key.Matches(msg, m.keyMap.ToggleCollapse):
		if selected, ok := s.Selected(); ok {
			s.Store().ToggleCollapse(s.Store().CurrentID(), selected.ID)
		}

	case key.Matches(msg, m.keyMap.Reply):
		if _, ok := s.Reply(); ok {
			return m.enterEditing()
		}

	case key.Matches(msg, m.keyMap.EditMessage):
		if _, ok := s.Selected(); ok {
			s.BeginEdit()
			return m.enterEditing()
		}

	case key.Matches(msg, m.keyMap.DeleteMessage):
		s.Delete(false)
	case key.Matches(msg, m.keyMap.DeleteSubtree):
		s.Delete(true)

	case key.Matches(msg, m.keyMap.GenerateOne):
		return m.startGeneration(1)
	case key.Matches(msg, m.keyMap.GenerateThrice):
		return m.startGeneration(3)
	case key.Matches(msg, m.keyMap.GenerateCustom):
		if _, ok := s.Selected(); ok {
			m.state = StateCountPrompt
			m.textArea.SetValue("")
			m.textArea.Focus()
			m.updateKeyBindings()
		}

	case key.Matches(msg, m.keyMap.NewThread):
		// a fresh thread's placeholder title goes straight into edit mode
		t := s.NewThread()
		m.state = StateRenaming
		m.textArea.SetValue(t.Title)
		m.textArea.Focus()
		m.updateKeyBindings()
	case key.Matches(msg, m.keyMap.NextThread):
		m.switchThread(1)
	case key.Matches(msg, m.keyMap.PrevThread):
		m.switchThread(-1)
	case key.Matches(msg, m.keyMap.TogglePin):
		s.Store().TogglePin(s.Store().CurrentID())
	case key.Matches(msg, m.keyMap.DeleteThread):
		s.DeleteThread(s.Store().CurrentID())
	case key.Matches(msg, m.keyMap.RenameThread):
		if t, ok := s.Store().Current(); ok {
			m.state = StateRenaming
			m.textArea.SetValue(t.Title)
			m.textArea.Focus()
			m.updateKeyBindings()
		}

	case key.Matches(msg, m.keyMap.CancelEdit):
		s.ClearSelection()

	case key.Matches(msg, m.keyMap.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.recomputeSize()

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	m.refreshViewport()
	return m, nil
}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.SubmitEdit):
		switch m.state {
		case StateRenaming:
			m.session.Store().RenameThread(m.session.Store().CurrentID(), m.textArea.Value())
		case StateCountPrompt:
			value := strings.TrimSpace(m.textArea.Value())
			m.state = StateBrowsing
			m.textArea.Blur()
			m.textArea.SetValue("")
			m.updateKeyBindings()
			count, err := strconv.Atoi(value)
			if err != nil || count < 1 {
				m.status = m.style.StatusError.Render("reply count must be a positive number")
				m.refreshViewport()
				return m, nil
			}
			return m.startGeneration(count)
		default:
			m.session.SetDraft(m.textArea.Value())
			m.session.CommitEdit()
		}
		return m.leaveInput()

	case key.Matches(msg, m.keyMap.CancelEdit):
		if m.state == StateEditing {
			m.session.CancelEdit()
		}
		return m.leaveInput()
	}

	var cmd tea.Cmd
	m.textArea, cmd = m.textArea.Update(msg)
	return m, cmd
}

func (m model) updateGenerating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		if !m.quitReceived {
			m.quitReceived = true
			if m.cancelGeneration != nil {
				m.cancelGeneration()
			}
		}
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.CancelEdit):
		if m.cancelGeneration != nil {
			m.cancelGeneration()
		}
	}
	return m, nil
}

func (m model) enterEditing() (tea.Model, tea.Cmd) {
	m.state = StateEditing
	m.textArea.SetValue(m.session.Draft())
	cmd := m.textArea.Focus()
	m.updateKeyBindings()
	m.refreshViewport()
	return m, tea.Batch(cmd, textarea.Blink)
}

func (m model) leaveInput() (tea.Model, tea.Cmd) {
	m.state = StateBrowsing
	m.textArea.Blur()
	m.textArea.SetValue("")
	m.updateKeyBindings()
	m.refreshViewport()
	return m, nil
}

func (m model) startGeneration(count int) (tea.Model, tea.Cmd) {
	selected, ok := m.session.Selected()
	if !ok {
		m.status = m.style.StatusInfo.Render("select a message to generate replies")
		return m, nil
	}
	threadID := m.session.Store().CurrentID()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelGeneration = cancel
	m.state = StateGenerating
	m.status = m.style.StatusInfo.Render(fmt.Sprintf("generating %d replies...", count))
	m.updateKeyBindings()

	orchestrator := m.orchestrator
	targetID := selected.ID
	return m, func() tea.Msg {
		err := orchestrator.GenerateReplies(ctx, threadID, targetID, count)
		return generationDoneMsg{err: err}
	}
}

func (m model) handleEvent(event events.Event) (tea.Model, tea.Cmd) {
	switch event := event.(type) {
	case *events.EventGenerationReply:
		if id, err := conversation.ParseNodeID(event.MessageID); err == nil {
			m.session.Select(id)
		}
	case *events.EventError:
		m.status = m.style.StatusError.Render(event.ErrorMsg)
	case *events.EventThreadUpdated:
		// re-rendered below
	default:
		log.Debug().Str("type", string(event.Type())).Msg("unhandled ui event")
	}

	m.refreshViewport()
	return m, nil
}

func (m *model) switchThread(offset int) {
	store := m.session.Store()
	listing := store.Threads()
	if len(listing) == 0 {
		return
	}

	current := 0
	for i, t := range listing {
		if t.ID == store.CurrentID() {
			current = i
			break
		}
	}
	next := (current + offset + len(listing)) % len(listing)
	m.session.SwitchThread(listing[next].ID)
}

func (m *model) updateKeyBindings() {
	browsing := m.state == StateBrowsing
	input := m.state == StateEditing || m.state == StateRenaming || m.state == StateCountPrompt

	m.keyMap.SelectParent.SetEnabled(browsing)
	m.keyMap.SelectFirstChild.SetEnabled(browsing)
	m.keyMap.SelectPrevSibling.SetEnabled(browsing)
	m.keyMap.SelectNextSibling.SetEnabled(browsing)
	m.keyMap.ToggleCollapse.SetEnabled(browsing)
	m.keyMap.Reply.SetEnabled(browsing)
	m.keyMap.GenerateOne.SetEnabled(browsing)
	m.keyMap.GenerateThrice.SetEnabled(browsing)
	m.keyMap.GenerateCustom.SetEnabled(browsing)
	m.keyMap.EditMessage.SetEnabled(browsing)
	m.keyMap.DeleteMessage.SetEnabled(browsing)
	m.keyMap.DeleteSubtree.SetEnabled(browsing)
	m.keyMap.NewThread.SetEnabled(browsing)
	m.keyMap.NextThread.SetEnabled(browsing)
	m.keyMap.PrevThread.SetEnabled(browsing)
	m.keyMap.RenameThread.SetEnabled(browsing)
	m.keyMap.TogglePin.SetEnabled(browsing)
	m.keyMap.DeleteThread.SetEnabled(browsing)

	m.keyMap.SubmitEdit.SetEnabled(input)
	m.keyMap.CancelEdit.SetEnabled(input || browsing || m.state == StateGenerating)
}

func (m *model) recomputeSize() {
	headerHeight := lipgloss.Height(m.headerView())
	footerHeight := lipgloss.Height(m.footerView())

	newHeight := m.height - headerHeight - footerHeight
	if newHeight < 0 {
		newHeight = 0
	}
	m.viewport.Width = m.width
	m.viewport.Height = newHeight

	m.textArea.SetWidth(m.width - 4)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(m.width-4),
	)
	if err == nil {
		m.renderer = renderer
	}

	m.refreshViewport()
}

func (m *model) refreshViewport() {
	m.viewport.SetContent(m.treeView())
}

func (m model) View() string {
	return m.headerView() + "\n" + m.viewport.View() + "\n" + m.footerView()
}

func (m model) headerView() string {
	store := m.session.Store()
	listing := store.Threads()
	if len(listing) == 0 {
		return m.style.ThreadTitle.Render("arbor") + "\n" +
			m.style.StatusInfo.Render("no threads, ctrl+n to create one")
	}

	parts := make([]string, 0, len(listing))
	for _, t := range listing {
		title := t.Title
		if t.Pinned {
			title = m.style.PinnedThread.Render("* " + title)
		}
		if t.ID == store.CurrentID() {
			title = m.style.ThreadTitle.Render("[" + title + "]")
		}
		parts = append(parts, title)
	}

	return m.style.ThreadTitle.Render("arbor") + "  " + strings.Join(parts, "  ")
}

func (m model) footerView() string {
	helpView := m.help.View(m.keyMap)

	switch m.state {
	case StateEditing:
		return m.style.EditingMessage.Render(m.textArea.View()) + "\n" + helpView
	case StateRenaming:
		return m.style.EditingMessage.Render("rename: "+m.textArea.View()) + "\n" + helpView
	case StateCountPrompt:
		return m.style.EditingMessage.Render("replies: "+m.textArea.View()) + "\n" + helpView
	}

	detail := m.detailView()
	if m.status != "" {
		detail = m.status + "\n" + detail
	}
	if detail != "" {
		return detail + "\n" + helpView
	}
	return helpView
}

// detailView renders the selected message's full content as markdown.
func (m model) detailView() string {
	selected, ok := m.session.Selected()
	if !ok || selected.Content == "" {
		return ""
	}

	if m.renderer != nil {
		if rendered, err := m.renderer.Render(selected.Content); err == nil {
			return strings.TrimRight(rendered, "\n")
		}
	}
	width := m.width - 4
	if width < 20 {
		width = 20
	}
	return wordwrap.String(selected.Content, width)
}

func (m model) treeView() string {
	store := m.session.Store()
	forest, ok := store.Messages(store.CurrentID())
	if !ok {
		return ""
	}

	var sb strings.Builder
	m.renderForest(&sb, forest, 0)
	return sb.String()
}

func (m model) renderForest(sb *strings.Builder, forest conversation.Forest, depth int) {
	for _, msg := range forest {
		sb.WriteString(m.renderLine(msg, depth))
		sb.WriteString("\n")
		if !msg.Collapsed {
			m.renderForest(sb, msg.Replies, depth+1)
		}
	}
}

func (m model) renderLine(msg *conversation.Message, depth int) string {
	indent := strings.Repeat("  ", depth)

	badge := m.style.UserBadge.Render("you")
	if msg.Publisher == conversation.PublisherAI {
		name := msg.ModelName
		if name == "" {
			name = "ai"
		}
		badge = m.style.AIBadge.Render(name)
	}

	var body string
	if msg.Collapsed {
		body = m.style.CollapsedSummary.Render(CollapsedSummary(msg))
	} else {
		body = firstLine(msg.Content)
		if body == "" {
			body = m.style.StatusInfo.Render("(empty)")
		}
	}

	marker := "·"
	if len(msg.Replies) > 0 {
		marker = "▾"
		if msg.Collapsed {
			marker = "▸"
		}
	}

	line := fmt.Sprintf("%s%s %s: %s", indent, marker, badge, body)
	if msg.ID == m.session.SelectedID() {
		return m.style.SelectedMessage.Render(line)
	}
	return m.style.UnselectedMessage.Render(line)
}

// CollapsedSummary is the one-line stand-in for a collapsed subtree: the
// message's first line truncated to 50 characters, plus the number of hidden
// descendants.
func CollapsedSummary(msg *conversation.Message) string {
	summary := firstLine(msg.Content)
	if runes := []rune(summary); len(runes) > 50 {
		summary = string(runes[:50]) + "..."
	}

	count := conversation.CountDescendants(msg)
	suffix := fmt.Sprintf(" (%d replies)", count)
	if count == 1 {
		suffix = " (1 reply)"
	}
	return summary + suffix
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
