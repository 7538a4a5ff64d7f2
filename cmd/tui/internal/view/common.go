package view

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/till/internal/posapi"
)

type CommonModel struct {
	Width  int
	Height int
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// Settings are the runtime knobs the screens share.
type Settings struct {
	Timeout   time.Duration
	PageSize  int
	ExportDir string
}

// requestCtx bounds a single API call.
func (s Settings) requestCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.Timeout)
}

const noticeTimeout = 3 * time.Second

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeSuccess
	noticeError
)

// Notice is the transient status line of a screen. Every new message bumps seq,
// so the clear tick of an older message leaves a newer one alone.
type Notice struct {
	owner string
	text  string
	kind  noticeKind
	seq   int
}

type clearNoticeMsg struct {
	owner string
	seq   int
}

// newNotice is shared by every copy of the owning model.
func newNotice(owner string) *Notice {
	return &Notice{owner: owner}
}

func (n *Notice) show(kind noticeKind, text string) tea.Cmd {
	n.seq++
	n.kind = kind
	n.text = text

	msg := clearNoticeMsg{owner: n.owner, seq: n.seq}

	return tea.Tick(noticeTimeout, func(time.Time) tea.Msg { return msg })
}

func (n *Notice) Info(text string) tea.Cmd    { return n.show(noticeInfo, text) }
func (n *Notice) Success(text string) tea.Cmd { return n.show(noticeSuccess, text) }
func (n *Notice) Error(text string) tea.Cmd   { return n.show(noticeError, text) }

func (n *Notice) clear(msg clearNoticeMsg) {
	if msg.owner == n.owner && msg.seq == n.seq {
		n.text = ""
	}
}

func (n *Notice) View() string {
	if n.text == "" {
		return ""
	}

	style := lipgloss.NewStyle().Faint(true)

	switch n.kind {
	case noticeSuccess:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	case noticeError:
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	}

	return style.Render(n.text)
}

// errMessage returns the explanation the server gave for err, or fallback
// when there is none.
func errMessage(err error, fallback string) string {
	var apiErr *posapi.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	return fallback
}

func newTable(columns []table.Column, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func boxed(s string) string {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(s)
}

func panel(s string) string {
	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(48).
		Render(s)
}

func titleStyle(s string) string {
	return lipgloss.NewStyle().Bold(true).Render(s)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func helpStyle(s string) string {
	return lipgloss.NewStyle().Faint(true).Render(s)
}
