package ui

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nissyi-gh/duedeck/internal/calendar"
)

var (
	weekdayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true)
	todayStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true).Underline(true)
	dayStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	moreStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	categoryColor = map[string]lipgloss.Color{}
)

const maxEventsPerCell = 2

// categoryStyle colors an event by its category class.
func categoryStyle(category string) lipgloss.Style {
	class := calendar.CategoryClass(category)
	if class == "" {
		return dayStyle
	}
	c, ok := categoryColor[class]
	if !ok {
		h := fnv.New32a()
		h.Write([]byte(class))
		c = lipgloss.Color(tagColorPalette[h.Sum32()%uint32(len(tagColorPalette))])
		categoryColor[class] = c
	}
	return lipgloss.NewStyle().Foreground(c)
}

func renderMonth(m calendar.Month, today time.Time, width int) string {
	cellWidth := (width - 8) / 7
	if cellWidth < 6 {
		cellWidth = 6
	}
	if cellWidth > 20 {
		cellWidth = 20
	}
	cell := lipgloss.NewStyle().Width(cellWidth).Height(maxEventsPerCell + 2).PaddingRight(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render(time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.Local).Format("January 2006")))
	b.WriteString("\n\n")

	var header []string
	for _, wd := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		header = append(header, cell.Height(1).Render(weekdayStyle.Render(wd)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))
	b.WriteString("\n")

	for _, week := range m.Weeks {
		var cells []string
		for _, d := range week {
			cells = append(cells, cell.Render(renderDay(m, d, today, cellWidth)))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}
	return b.String()
}

func renderDay(m calendar.Month, d calendar.Day, today time.Time, width int) string {
	if d.Day == 0 {
		return ""
	}
	num := dayStyle.Render(fmt.Sprintf("%2d", d.Day))
	if today.Year() == m.Year && today.Month() == m.Month && today.Day() == d.Day {
		num = todayStyle.Render(fmt.Sprintf("%2d", d.Day))
	}
	lines := []string{num}
	for i, e := range d.Events {
		if i == maxEventsPerCell {
			lines = append(lines, moreStyle.Render(fmt.Sprintf("+%d more", len(d.Events)-i)))
			break
		}
		lines = append(lines, categoryStyle(e.Category).Render(truncate(e.Title, width-1)))
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
