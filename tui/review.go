package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"confdesk-cli/ledger"
)

func (m appModel) reviewView() string {
	var b strings.Builder
	section := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	warn := lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	conf := m.ws.Conference.Value
	b.WriteString(section.Render("Review") + "\n\n")
	b.WriteString(fmt.Sprintf("%s (%s)\n", conf.Name, conf.Kind))
	if conf.City != "" || conf.Venue != "" {
		b.WriteString(strings.TrimSpace(conf.City+" "+conf.Venue) + "\n")
	}
	b.WriteString(fmt.Sprintf("%s → %s\n\n", conf.StartDate.Format(time.DateOnly), conf.EndDate.Format(time.DateOnly)))

	b.WriteString(section.Render("Tickets") + "\n")
	if len(m.ws.Tickets) == 0 {
		b.WriteString(hint("none") + "\n")
	}
	for i, record := range m.ws.Tickets {
		ticket := record.Value
		b.WriteString(fmt.Sprintf("  %s • %.2f • %d slots\n", ticket.Name, ticket.UnitPrice, ticket.TotalSlotQuota))
		phases := m.ws.TicketPhases(i)
		for _, phase := range phases {
			value := phase.Value
			b.WriteString(fmt.Sprintf("    %s • %d%% • %s → %s • %d slots\n",
				value.Name, value.PercentOfBase,
				value.StartDate.Format(time.DateOnly), value.EndDate.Format(time.DateOnly),
				value.SlotQuota))
		}
		if len(phases) > 0 {
			if sum := ledger.PhaseQuotaSum(phases); sum != ticket.TotalSlotQuota {
				b.WriteString(warn.Render(fmt.Sprintf("    phase quotas total %d of %d", sum, ticket.TotalSlotQuota)) + "\n")
			}
		}
	}
	b.WriteString("\n")

	b.WriteString(section.Render("Sessions") + "\n")
	if len(m.ws.Sessions) == 0 {
		b.WriteString(hint("none") + "\n")
	}
	for _, record := range m.ws.Sessions {
		session := record.Value
		speaker := ""
		if len(session.Speakers) > 0 {
			speaker = " • " + session.Speakers[0].Name
		}
		b.WriteString(fmt.Sprintf("  %s %s-%s • %s%s\n",
			session.Date.Format(time.DateOnly),
			session.StartTime.Format("15:04"), session.EndTime.Format("15:04"),
			session.Title, speaker))
	}
	if err := m.ws.FinalizeSessions(); err != nil {
		b.WriteString(warn.Render("  sessions missing on the opening or closing day") + "\n")
	}
	b.WriteString("\n")

	counts := []string{
		fmt.Sprintf("%d policies", len(m.ws.Policies)),
		fmt.Sprintf("%d refund policies", len(m.ws.RefundPolicies)),
		fmt.Sprintf("%d media items", len(m.ws.Media)),
		fmt.Sprintf("%d sponsors", len(m.ws.Sponsors)),
	}
	b.WriteString(hint(strings.Join(counts, " • ")) + "\n")

	pending := len(m.ws.Deleted.Tickets) + len(m.ws.Deleted.Sessions) + len(m.ws.Deleted.Policies) +
		len(m.ws.Deleted.Media) + len(m.ws.Deleted.Sponsors)
	if pending > 0 {
		b.WriteString(warn.Render(fmt.Sprintf("%d deletions will run on save", pending)) + "\n")
	}

	return b.String()
}
