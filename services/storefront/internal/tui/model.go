// Package tui is the terminal rendition of the product listing.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Skotchmaster/storefront/services/storefront/internal/listing"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	priceStyle    = lipgloss.NewStyle().Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	toastStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// loadedMsg arrives once the view's fetch has settled.
type loadedMsg struct{}

type Model struct {
	ctx   context.Context
	view  *listing.View
	inbox *listing.Inbox

	input  textinput.Model
	snap   listing.Snapshot
	cursor int
	toasts []listing.Notification

	// Navigated is the route chosen by the last purchase, empty until then.
	Navigated string
}

// New builds a model over a mounted view. inbox must be the view's notifier.
func New(ctx context.Context, view *listing.View, inbox *listing.Inbox) Model {
	in := textinput.New()
	in.Placeholder = listing.SearchPlaceholder
	in.Prompt = listing.SearchLabel + ": "
	in.Focus()

	return Model{
		ctx:   ctx,
		view:  view,
		inbox: inbox,
		input: in,
		snap:  view.Snapshot(),
	}
}

func (m Model) Init() tea.Cmd {
	done := m.view.Loaded()
	return tea.Batch(textinput.Blink, func() tea.Msg {
		<-done
		return loadedMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.snap = m.view.Snapshot()
		m.toasts = append(m.toasts, m.inbox.Drain()...)
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.view.Unmount()
			return m, tea.Quit
		case tea.KeyUp:
			m.cursor--
			m.clampCursor()
			return m, nil
		case tea.KeyDown:
			m.cursor++
			m.clampCursor()
			return m, nil
		case tea.KeyEnter:
			return m.purchase()
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.snap = m.view.SetQuery(m.input.Value())
		m.cursor = 0
	}
	return m, cmd
}

// purchase leaves the listing: whatever route the gate picks, the view is
// unmounted and the program exits so the caller can show the route.
func (m Model) purchase() (tea.Model, tea.Cmd) {
	if len(m.snap.Cards) == 0 {
		return m, nil
	}
	card := m.snap.Cards[m.cursor]
	m.Navigated = m.view.Purchase(m.ctx, card.ID)
	m.toasts = append(m.toasts, m.inbox.Drain()...)
	m.view.Unmount()
	return m, tea.Quit
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.snap.Cards) {
		m.cursor = len(m.snap.Cards) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Toasts returns the notifications shown so far.
func (m Model) Toasts() []listing.Notification {
	return m.toasts
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(listing.PageTitle))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.snap.Empty:
		b.WriteString(mutedStyle.Render(listing.EmptyMessage))
		b.WriteString("\n")
	default:
		for i, card := range m.snap.Cards {
			line := fmt.Sprintf("%s  %s  %s", card.Name, priceStyle.Render(card.Price), mutedStyle.Render(card.Stock))
			if i == m.cursor {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
			if card.Description != "" {
				b.WriteString("    " + mutedStyle.Render(card.Description) + "\n")
			}
		}
	}

	for _, t := range m.toasts {
		b.WriteString("\n")
		b.WriteString(RenderToast(t))
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("↑/↓ chọn • enter " + listing.PurchaseLabel + " • esc thoát"))
	b.WriteString("\n")
	return b.String()
}

func RenderToast(n listing.Notification) string {
	title := n.Title
	if n.Variant == listing.VariantDestructive {
		title = errorStyle.Render(title)
	}
	return toastStyle.Render(title + "\n" + n.Description)
}
