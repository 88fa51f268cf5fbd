package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/pthm/shiftview/lib/api"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ea3c12"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4040"))
	cursorStyle = lipgloss.NewStyle().Bold(true)
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#ffaf8b")).
			Padding(0, 1).
			Width(36)
	closedCardStyle = cardStyle.BorderForeground(lipgloss.Color("241")).Foreground(lipgloss.Color("241"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			Padding(0, 2)
)

const helpKeys = "↑/↓ move · ←/→ page · enter open · r reload · q quit"

func won(n int) string {
	return humanize.Comma(int64(n)) + "원"
}

func schedule(start time.Time, hours int, loc *time.Location) string {
	if start.IsZero() {
		return ""
	}
	start = start.In(loc)
	end := start.Add(time.Duration(hours) * time.Hour)
	return fmt.Sprintf("%s~%s (%d hours)", start.Format("2006-01-02 15:04"), end.Format("15:04"), hours)
}

func increase(n api.Notice) string {
	p := n.IncreasePercent()
	if p <= 0 {
		return ""
	}
	return fmt.Sprintf(" ↑%d%%", p)
}
