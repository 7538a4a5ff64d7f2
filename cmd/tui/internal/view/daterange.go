package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const dateLayout = "2006-01-02"

// DateRange is a predefined or custom span of days.
type DateRange int

const (
	RangeToday DateRange = iota
	RangeThisWeek
	RangeLastWeek
	RangeThisMonth
	RangeLastMonth
	RangeAll
	RangeCustom
)

func (r DateRange) String() string {
	switch r {
	case RangeToday:
		return "Today"
	case RangeThisWeek:
		return "This Week"
	case RangeLastWeek:
		return "Last Week"
	case RangeThisMonth:
		return "This Month"
	case RangeLastMonth:
		return "Last Month"
	case RangeAll:
		return "All Time"
	case RangeCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// bounds returns the first and last day of r relative to now as YYYY-MM-DD.
// Both are empty for RangeAll. Weeks start on Monday.
func (r DateRange) bounds(now time.Time) (string, string) {
	var from, to time.Time

	switch r {
	case RangeToday:
		from, to = now, now
	case RangeThisWeek:
		from = now.AddDate(0, 0, -daysSinceMonday(now))
		to = now
	case RangeLastWeek:
		to = now.AddDate(0, 0, -daysSinceMonday(now)-1)
		from = to.AddDate(0, 0, -6)
	case RangeThisMonth:
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		to = now
	case RangeLastMonth:
		from = time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
		to = from.AddDate(0, 1, -1)
	default:
		return "", ""
	}

	return from.Format(dateLayout), to.Format(dateLayout)
}

func daysSinceMonday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// DateRangeSelectedMsg carries the chosen bounds. Empty strings leave that side
// of the range open.
type DateRangeSelectedMsg struct {
	From string
	To   string
}

// DateRangeCanceledMsg is emitted when the picker is dismissed.
type DateRangeCanceledMsg struct{}

type dateRangeState int

const (
	dateRangeStateSelect dateRangeState = iota
	dateRangeStateCustom
)

// DateRangePicker lets the user pick a preset range or type custom bounds.
type DateRangePicker struct {
	state    dateRangeState
	selected DateRange
	now      func() time.Time

	fromInput  textinput.Model
	toInput    textinput.Model
	focusIndex int

	err error
}

func NewDateRangePicker() DateRangePicker {
	fi := textinput.New()
	fi.Placeholder = "YYYY-MM-DD"
	fi.CharLimit = 10
	fi.Width = 12
	fi.Prompt = "From: "

	ti := textinput.New()
	ti.Placeholder = "YYYY-MM-DD"
	ti.CharLimit = 10
	ti.Width = 12
	ti.Prompt = "To:   "

	return DateRangePicker{
		selected:  RangeToday,
		now:       time.Now,
		fromInput: fi,
		toInput:   ti,
	}
}

func (m DateRangePicker) Update(msg tea.Msg) (DateRangePicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case dateRangeStateSelect:
			return m.updateSelect(keyMsg)
		case dateRangeStateCustom:
			if picker, cmd, handled := m.updateCustom(keyMsg); handled {
				return picker, cmd
			}
		}
	}

	if m.state == dateRangeStateCustom {
		return m.updateInputs(msg)
	}

	return m, nil
}

func (m DateRangePicker) updateSelect(msg tea.KeyMsg) (DateRangePicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, func() tea.Msg { return DateRangeCanceledMsg{} }
	case tea.KeyUp:
		if m.selected > RangeToday {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < RangeCustom {
			m.selected++
		}
	case tea.KeyEnter:
		if m.selected == RangeCustom {
			m.state = dateRangeStateCustom
			m.focusIndex = 0
			m.toInput.Blur()
			m.fromInput.Focus()

			return m, textinput.Blink
		}

		from, to := m.selected.bounds(m.now())

		return m, func() tea.Msg {
			return DateRangeSelectedMsg{From: from, To: to}
		}
	}

	return m, nil
}

func (m DateRangePicker) updateCustom(msg tea.KeyMsg) (DateRangePicker, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focusIndex = (m.focusIndex + 1) % 2
		m.fromInput.Blur()
		m.toInput.Blur()

		if m.focusIndex == 0 {
			m.fromInput.Focus()
		} else {
			m.toInput.Focus()
		}

		return m, textinput.Blink, true

	case "enter":
		from, to, err := parseCustomRange(m.fromInput.Value(), m.toInput.Value())
		if err != nil {
			m.err = err
			return m, nil, true
		}

		m.err = nil

		return m, func() tea.Msg {
			return DateRangeSelectedMsg{From: from, To: to}
		}, true

	case "esc":
		m.state = dateRangeStateSelect
		m.err = nil

		return m, nil, true
	}

	return m, nil, false
}

// parseCustomRange checks typed bounds. Either may be blank.
func parseCustomRange(from, to string) (string, string, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)

	if from != "" {
		if _, err := time.Parse(dateLayout, from); err != nil {
			return "", "", fmt.Errorf("invalid from date (YYYY-MM-DD)")
		}
	}

	if to != "" {
		if _, err := time.Parse(dateLayout, to); err != nil {
			return "", "", fmt.Errorf("invalid to date (YYYY-MM-DD)")
		}
	}

	if from != "" && to != "" && from > to {
		return "", "", fmt.Errorf("from date is after to date")
	}

	return from, to, nil
}

func (m DateRangePicker) updateInputs(msg tea.Msg) (DateRangePicker, tea.Cmd) {
	var cmds []tea.Cmd
	var c tea.Cmd

	m.fromInput, c = m.fromInput.Update(msg)
	cmds = append(cmds, c)
	m.toInput, c = m.toInput.Update(msg)
	cmds = append(cmds, c)

	return m, tea.Batch(cmds...)
}

func (m DateRangePicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("\n\nError: %v", m.err))
	}

	if m.state == dateRangeStateCustom {
		return fmt.Sprintf(
			"Enter Custom Range (leave a side blank to keep it open):\n\n%s\n%s\n\n(Enter to confirm, Tab to switch, Esc to back)%s",
			m.fromInput.View(),
			m.toInput.View(),
			errStr,
		)
	}

	s := "Select Date Range:\n\n"
	for r := RangeToday; r <= RangeCustom; r++ {
		cursor := " "
		if m.selected == r {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, r.String())
	}

	s += "\n(Enter to select, Esc to cancel)"

	return s + errStr
}

// Reset returns the picker to the preset list with the inputs prefilled from
// the current bounds.
func (m *DateRangePicker) Reset(from, to string) {
	m.state = dateRangeStateSelect
	m.err = nil
	m.fromInput.SetValue(from)
	m.toInput.SetValue(to)
}
