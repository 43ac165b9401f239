package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"

	"confdesk-cli/model"
	"confdesk-cli/store"
	"confdesk-cli/wizard"
)

type modeItem struct {
	label  string
	detail string
	kind   model.ConferenceKind
	recent store.RecentConference
}

func (i modeItem) Title() string {
	return i.label
}

func (i modeItem) Description() string {
	return i.detail
}

func (i modeItem) FilterValue() string {
	return strings.ToLower(i.label + " " + i.detail)
}

func buildModeItems() []list.Item {
	items := []list.Item{
		modeItem{label: "New technical conference", detail: "talks, headline sessions", kind: model.ConferenceTechnical},
		modeItem{label: "New research conference", detail: "papers, presenters, author tickets", kind: model.ConferenceResearch},
	}
	recents, _ := store.LoadRecentConferences()
	for _, recent := range recents {
		detail := "Edit recent"
		if recent.City != "" {
			detail = fmt.Sprintf("Edit recent • %s", recent.City)
		}
		items = append(items, modeItem{label: recent.Name, detail: detail, recent: recent})
	}
	return items
}

type ticketItem struct {
	index  int
	ticket model.TicketType
	phases int
	saved  bool
}

func (i ticketItem) Title() string {
	return fmt.Sprintf("%s • %.2f", i.ticket.Name, i.ticket.UnitPrice)
}

func (i ticketItem) Description() string {
	parts := []string{fmt.Sprintf("%d slots", i.ticket.TotalSlotQuota)}
	if i.phases > 0 {
		parts = append(parts, fmt.Sprintf("%d phases", i.phases))
	}
	if i.ticket.IsAuthorTicket {
		parts = append(parts, "author ticket")
	}
	if !i.saved {
		parts = append(parts, "unsaved")
	}
	return strings.Join(parts, " • ")
}

func (i ticketItem) FilterValue() string {
	return strings.ToLower(i.ticket.Name + " " + i.ticket.Description)
}

func buildTicketItems(ws *wizard.WorkingSet) []list.Item {
	items := make([]list.Item, 0, len(ws.Tickets))
	for index, record := range ws.Tickets {
		items = append(items, ticketItem{
			index:  index,
			ticket: record.Value,
			phases: len(ws.TicketPhases(index)),
			saved:  record.Persisted(),
		})
	}
	return items
}

type phaseItem struct {
	index int
	phase model.PricePhase
	saved bool
}

func (i phaseItem) Title() string {
	return fmt.Sprintf("%s • %d%%", i.phase.Name, i.phase.PercentOfBase)
}

func (i phaseItem) Description() string {
	parts := []string{
		fmt.Sprintf("%s → %s", i.phase.StartDate.Format(time.DateOnly), i.phase.EndDate.Format(time.DateOnly)),
		fmt.Sprintf("%d slots", i.phase.SlotQuota),
	}
	if !i.saved {
		parts = append(parts, "unsaved")
	}
	return strings.Join(parts, " • ")
}

func (i phaseItem) FilterValue() string {
	return strings.ToLower(i.phase.Name)
}

func buildPhaseItems(phases []model.Record[model.PricePhase]) []list.Item {
	items := make([]list.Item, 0, len(phases))
	for index, record := range phases {
		items = append(items, phaseItem{index: index, phase: record.Value, saved: record.Persisted()})
	}
	return items
}

type sessionItem struct {
	index   int
	session model.Session
	saved   bool
}

func (i sessionItem) Title() string {
	return fmt.Sprintf("%s • %s %s", i.session.Title, i.session.Date.Format("Mon 02/01"), i.session.StartTime.Format("15:04"))
}

func (i sessionItem) Description() string {
	parts := []string{}
	if len(i.session.Speakers) > 0 {
		parts = append(parts, i.session.Speakers[0].Name)
	}
	if i.session.RoomId != "" {
		parts = append(parts, "room assigned")
	}
	if i.session.Headline {
		parts = append(parts, "headline")
	}
	if i.session.PaperTitle != "" {
		parts = append(parts, i.session.PaperTitle)
	}
	if !i.saved {
		parts = append(parts, "unsaved")
	}
	return strings.Join(parts, " • ")
}

func (i sessionItem) FilterValue() string {
	names := make([]string, 0, len(i.session.Speakers)+2)
	names = append(names, i.session.Title, i.session.PaperTitle)
	for _, speaker := range i.session.Speakers {
		names = append(names, speaker.Name)
	}
	return strings.ToLower(strings.Join(names, " "))
}

func buildSessionItems(sessions []model.Record[model.Session]) []list.Item {
	items := make([]list.Item, 0, len(sessions))
	for index, record := range sessions {
		items = append(items, sessionItem{index: index, session: record.Value, saved: record.Persisted()})
	}
	return items
}

type policyItem struct {
	index  int
	refund bool
	title  string
	detail string
}

func (i policyItem) Title() string {
	return i.title
}

func (i policyItem) Description() string {
	return i.detail
}

func (i policyItem) FilterValue() string {
	return strings.ToLower(i.title + " " + i.detail)
}

func buildPolicyItems(policies []model.Record[model.Policy], refunds []model.Record[model.RefundPolicy]) []list.Item {
	items := make([]list.Item, 0, len(policies)+len(refunds))
	for index, record := range policies {
		detail := record.Value.Description
		if !record.Persisted() {
			detail = strings.TrimPrefix(detail+" • unsaved", " • ")
		}
		items = append(items, policyItem{
			index:  index,
			title:  fmt.Sprintf("%d. %s", record.Value.Order, record.Value.Name),
			detail: detail,
		})
	}
	for index, record := range refunds {
		policy := record.Value
		items = append(items, policyItem{
			index:  index,
			refund: true,
			title:  fmt.Sprintf("Refund %d%% until %s", policy.PercentRefund, policy.Deadline.Format(time.DateOnly)),
			detail: policy.Description,
		})
	}
	return items
}

type mediaListItem struct {
	index int
	item  model.MediaItem
	saved bool
}

func (i mediaListItem) Title() string {
	return i.item.Caption
}

func (i mediaListItem) Description() string {
	parts := []string{}
	if i.item.Image.IsRemote() {
		parts = append(parts, i.item.Image.URL)
	} else if i.item.Image.IsLocal() {
		parts = append(parts, i.item.Image.Path)
	}
	if !i.saved {
		parts = append(parts, "unsaved")
	}
	return strings.Join(parts, " • ")
}

func (i mediaListItem) FilterValue() string {
	return strings.ToLower(i.item.Caption)
}

func buildMediaItems(media []model.Record[model.MediaItem]) []list.Item {
	items := make([]list.Item, 0, len(media))
	for index, record := range media {
		items = append(items, mediaListItem{index: index, item: record.Value, saved: record.Persisted()})
	}
	return items
}

type sponsorItem struct {
	index   int
	sponsor model.Sponsor
	saved   bool
}

func (i sponsorItem) Title() string {
	return i.sponsor.Name
}

func (i sponsorItem) Description() string {
	parts := []string{}
	if i.sponsor.Tier != "" {
		parts = append(parts, i.sponsor.Tier)
	}
	if !i.saved {
		parts = append(parts, "unsaved")
	}
	return strings.Join(parts, " • ")
}

func (i sponsorItem) FilterValue() string {
	return strings.ToLower(i.sponsor.Name + " " + i.sponsor.Tier)
}

func buildSponsorItems(sponsors []model.Record[model.Sponsor]) []list.Item {
	items := make([]list.Item, 0, len(sponsors))
	for index, record := range sponsors {
		items = append(items, sponsorItem{index: index, sponsor: record.Value, saved: record.Persisted()})
	}
	return items
}

type roomItem struct {
	room model.Room
}

func (i roomItem) Title() string {
	return i.room.Name
}

func (i roomItem) Description() string {
	parts := []string{}
	if i.room.Venue != "" {
		parts = append(parts, i.room.Venue)
	}
	if i.room.Capacity > 0 {
		parts = append(parts, fmt.Sprintf("%d seats", i.room.Capacity))
	}
	return strings.Join(parts, " • ")
}

func (i roomItem) FilterValue() string {
	return strings.ToLower(strings.Join([]string{i.room.Name, i.room.Venue, i.room.City}, " "))
}

func buildRoomItems(rooms []model.Room) []list.Item {
	items := make([]list.Item, 0, len(rooms))
	for _, room := range rooms {
		items = append(items, roomItem{room: room})
	}
	return items
}

type slotItem struct {
	slot model.DaySlot
}

func (i slotItem) Title() string {
	return fmt.Sprintf("%s → %s", i.slot.Start.Format("15:04"), i.slot.End.Format("15:04"))
}

func (i slotItem) Description() string {
	return i.slot.Date.Format(time.DateOnly)
}

func (i slotItem) FilterValue() string {
	return i.Title()
}

func buildSlotItems(slots []model.DaySlot) []list.Item {
	items := make([]list.Item, 0, len(slots))
	for _, slot := range slots {
		items = append(items, slotItem{slot: slot})
	}
	return items
}
