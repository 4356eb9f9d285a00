package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/givers/console/internal/enquiry"
	"github.com/givers/console/internal/model"
	"github.com/givers/console/internal/notify"
)

// Theme holds the console's colors.
type Theme struct {
	Accent   lipgloss.Color
	Muted    lipgloss.Color
	Success  lipgloss.Color
	Error    lipgloss.Color
	Info     lipgloss.Color
	Selected lipgloss.Color
}

// DefaultTheme is used by every Model.
var DefaultTheme = Theme{
	Accent:   lipgloss.Color("#3B82F6"),
	Muted:    lipgloss.Color("#6B7280"),
	Success:  lipgloss.Color("#10B981"),
	Error:    lipgloss.Color("#EF4444"),
	Info:     lipgloss.Color("#0EA5E9"),
	Selected: lipgloss.Color("#1F2937"),
}

// StatusColor returns the badge color for an enquiry status.
func (t Theme) StatusColor(status model.EnquiryStatus) lipgloss.Color {
	switch status {
	case model.StatusNew:
		return t.Accent
	case model.StatusReplied:
		return t.Success
	default:
		return t.Muted
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.focus == focusDetail {
		if e, ok := m.view.Item(m.detailID); ok {
			b.WriteString(m.renderDetail(e))
			b.WriteString("\n")
			b.WriteString(m.renderStatusBar())
			return b.String()
		}
	}

	b.WriteString(m.renderToolbar())
	b.WriteString("\n")
	if banner := m.renderErrorBanner(); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderList())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

// renderHeader renders the title with the badge counts and the newest enquiries.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(DefaultTheme.Accent).Render("Contact Enquiries")

	badge := lipgloss.NewStyle().Bold(true).Foreground(DefaultTheme.Error)
	muted := lipgloss.NewStyle().Foreground(DefaultTheme.Muted)

	header := title
	if n := m.counts[enquiry.CategoryContactEnquiries]; n > 0 {
		header += "  " + badge.Render(fmt.Sprintf("● %d new", n))
	}
	if total, ok := m.counts[enquiry.CategoryTotalEnquiries]; ok {
		header += "  " + muted.Render(fmt.Sprintf("%d total", total))
	}

	if len(m.latest) > 0 {
		names := make([]string, 0, len(m.latest))
		for _, e := range m.latest {
			names = append(names, fmt.Sprintf("%s (%s)", e.Name, relativeTime(e.CreatedAt, m.now())))
		}
		header += "\n" + muted.Render("Latest: "+strings.Join(names, ", "))
	}
	return header
}

// renderToolbar renders the search field, the active filter and the page position.
func (m Model) renderToolbar() string {
	muted := lipgloss.NewStyle().Foreground(DefaultTheme.Muted)

	search := string(m.searchText)
	if m.focus == focusSearch {
		search += "▏"
	}
	if search == "" {
		search = muted.Render("press / to search")
	}

	filter := "All"
	if m.view.Query.Status != "" {
		filter = string(m.view.Query.Status)
	}

	position := fmt.Sprintf("Page %d of %d · %d %s",
		m.view.Query.Page, m.view.TotalPages, m.view.TotalItems, pluralWord(m.view.TotalItems, "enquiry", "enquiries"))
	if m.view.Phase == enquiry.PhaseLoading {
		position += "  " + lipgloss.NewStyle().Foreground(DefaultTheme.Info).Bold(true).Render("Loading…")
	}

	return fmt.Sprintf("Search: %s   Filter: %s   %s", search, filter, muted.Render(position))
}

// renderErrorBanner is shown after a failed fetch. Any earlier page stays visible below it.
func (m Model) renderErrorBanner() string {
	if m.view.Phase != enquiry.PhaseError {
		return ""
	}
	style := lipgloss.NewStyle().Foreground(DefaultTheme.Error).Bold(true)
	return style.Render("Failed to load contact enquiries") +
		lipgloss.NewStyle().Foreground(DefaultTheme.Muted).Render("  press r to retry")
}

func (m Model) renderList() string {
	if m.view.Empty() {
		return m.renderEmpty()
	}
	if len(m.view.Items) == 0 {
		if !m.view.Loaded && m.view.Phase != enquiry.PhaseError {
			return lipgloss.NewStyle().Foreground(DefaultTheme.Muted).Render("  Loading enquiries…")
		}
		return ""
	}

	muted := lipgloss.NewStyle().Foreground(DefaultTheme.Muted)
	warn := lipgloss.NewStyle().Foreground(DefaultTheme.Error)
	now := m.now()
	width := max(m.width-6, 20)

	var rows []string
	for i, e := range m.view.Items {
		marker := "  "
		nameStyle := lipgloss.NewStyle().Bold(true)
		if i == m.cursor {
			marker = "> "
			nameStyle = nameStyle.Background(DefaultTheme.Selected)
		}

		status := lipgloss.NewStyle().Foreground(DefaultTheme.StatusColor(e.Status)).Render(string(e.Status))
		line := marker + nameStyle.Render(e.Name) + "  " + muted.Render(e.Email) + "  " + status +
			"  " + muted.Render(relativeTime(e.CreatedAt, now))
		if slices.Contains(m.view.Diverged, e.ID) {
			line += "  " + warn.Render("(not synced)")
		}
		rows = append(rows, line)
		rows = append(rows, "    "+muted.Render(truncate(e.Message, width)))
	}
	return strings.Join(rows, "\n")
}

// renderEmpty distinguishes "nothing matches the filters" from "nothing at all".
func (m Model) renderEmpty() string {
	title := lipgloss.NewStyle().Bold(true).Render("  No enquiries found")
	hint := "  There are no contact enquiries yet."
	if m.view.Filtered() {
		hint = "  Try adjusting your search or filter to find what you're looking for."
	}
	return title + "\n" + lipgloss.NewStyle().Foreground(DefaultTheme.Muted).Render(hint)
}

func (m Model) renderDetail(e model.Enquiry) string {
	label := lipgloss.NewStyle().Foreground(DefaultTheme.Muted).Width(10)
	now := m.now()

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(e.Name))
	b.WriteString("  ")
	b.WriteString(lipgloss.NewStyle().Foreground(DefaultTheme.StatusColor(e.Status)).Render(string(e.Status)))
	b.WriteString("\n\n")

	field := func(name, value string) {
		if value == "" {
			return
		}
		b.WriteString(label.Render(name))
		b.WriteString(value)
		b.WriteString("\n")
	}
	field("Email", e.Email)
	field("Phone", e.Phone)
	field("Company", e.Company)
	field("Service", e.Service)
	field("Received", relativeTime(e.CreatedAt, now)+" ("+e.CreatedAt.Local().Format("2006-01-02 15:04")+")")

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(max(m.width-4, 20)).Render(e.Message))
	b.WriteString("\n")
	return b.String()
}

// renderStatusBar renders the notification, if any, and the key hints.
func (m Model) renderStatusBar() string {
	var lines []string
	if m.focus == focusConfirmDelete {
		name := m.deleteID
		if e, ok := m.view.Item(m.deleteID); ok {
			name = e.Name
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(DefaultTheme.Error).Bold(true).
			Render(fmt.Sprintf("Delete enquiry from %s? (y/N)", name)))
	}
	if m.notice != nil {
		lines = append(lines, m.renderNotice(*m.notice))
	}
	lines = append(lines, m.renderHelp())
	return strings.Join(lines, "\n")
}

func (m Model) renderNotice(n notify.Notification) string {
	color := DefaultTheme.Info
	switch n.Kind {
	case notify.KindSuccess:
		color = DefaultTheme.Success
	case notify.KindError:
		color = DefaultTheme.Error
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(n.Message)
}

func (m Model) renderHelp() string {
	style := lipgloss.NewStyle().Foreground(DefaultTheme.Muted)
	switch m.focus {
	case focusSearch:
		return style.Render(" [SEARCH] type to filter  enter done  esc clear")
	case focusDetail:
		return style.Render(" [DETAIL] esc back  m mark replied  e send email  d delete  q quit")
	case focusConfirmDelete:
		return style.Render(" [CONFIRM] y delete  any other key cancels")
	}
	return style.Render(" [LIST] q quit  ↑↓ select  ←→ page  / search  f filter  enter details  m mark replied  d delete  r reload")
}

// truncate shortens s to width runes, appending an ellipsis when cut.
func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

func pluralWord(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
