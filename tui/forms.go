package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"confdesk-cli/ledger"
	"confdesk-cli/model"
	"confdesk-cli/wizard"
)

// form is a vertical stack of text inputs with one focused field. Tab and
// arrow keys move focus; enter on the last field saves.
type form struct {
	title  string
	fields []formField
	focus  int
}

type formField struct {
	label string
	input textinput.Model
}

type fieldSpec struct {
	label       string
	placeholder string
	value       string
}

func field(label, placeholder, value string) fieldSpec {
	return fieldSpec{label: label, placeholder: placeholder, value: value}
}

func newForm(title string, specs ...fieldSpec) form {
	fields := make([]formField, len(specs))
	for i, spec := range specs {
		input := textinput.New()
		input.Placeholder = spec.placeholder
		input.SetValue(spec.value)
		input.CharLimit = 200
		fields[i] = formField{label: spec.label, input: input}
	}
	return form{title: title, fields: fields}
}

func (f form) focusCmd() tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.fields[f.focus].input.Focus()
	return textinput.Blink
}

func (f form) Update(msg tea.Msg) (form, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return f.nextField()
		case "shift+tab", "up":
			return f.prevField()
		}
	}
	if len(f.fields) == 0 {
		return f, nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return f, cmd
}

func (f form) nextField() (form, tea.Cmd) {
	return f.moveFocus((f.focus + 1) % len(f.fields))
}

func (f form) prevField() (form, tea.Cmd) {
	return f.moveFocus((f.focus - 1 + len(f.fields)) % len(f.fields))
}

func (f form) moveFocus(target int) (form, tea.Cmd) {
	if len(f.fields) == 0 {
		return f, nil
	}
	f.fields[f.focus].input.Blur()
	f.focus = target
	f.fields[f.focus].input.Focus()
	return f, textinput.Blink
}

func (f form) onLastField() bool {
	return len(f.fields) == 0 || f.focus == len(f.fields)-1
}

func (f form) value(index int) string {
	if index < 0 || index >= len(f.fields) {
		return ""
	}
	return strings.TrimSpace(f.fields[index].input.Value())
}

func (f *form) setValue(index int, value string) {
	if index < 0 || index >= len(f.fields) {
		return
	}
	f.fields[index].input.SetValue(value)
}

const (
	basicFieldName = iota
	basicFieldDescription
	basicFieldCity
	basicFieldVenue
	basicFieldStart
	basicFieldEnd
	basicFieldOrganizer
)

const (
	ticketFieldName = iota
	ticketFieldDescription
	ticketFieldPrice
	ticketFieldQuota
	ticketFieldSaleStart
	ticketFieldSaleEnd
	ticketFieldAuthor
)

const (
	phaseFieldName = iota
	phaseFieldPercent
	phaseFieldStart
	phaseFieldDuration
	phaseFieldQuota
)

const (
	sessionFieldTitle = iota
	sessionFieldDescription
	sessionFieldDate
	sessionFieldStart
	sessionFieldEnd
	sessionFieldSpeaker
	// Index 6 onward depends on the conference kind.
	sessionFieldHeadline   = 6
	sessionFieldPaperTitle = 6
	sessionFieldPresenter  = 7
)

const (
	policyFieldName = iota
	policyFieldDescription
)

const (
	refundFieldPercent = iota
	refundFieldDescription
	refundFieldDeadline
	refundFieldOrder
)

const (
	mediaFieldCaption = iota
	mediaFieldURL
	mediaFieldPath
)

const (
	sponsorFieldName = iota
	sponsorFieldTier
	sponsorFieldLogoURL
	sponsorFieldLogoPath
)

func (m *appModel) openBasicInfoForm() {
	conf := m.ws.Conference.Value
	m.form = newForm("Basic Info",
		field("Name", "GopherCon Lisbon", conf.Name),
		field("Description", "", conf.Description),
		field("City", "Lisbon", conf.City),
		field("Venue", "", conf.Venue),
		field("Start date", "2026-03-01", fmtDate(conf.StartDate)),
		field("End date", "2026-03-03", fmtDate(conf.EndDate)),
		field("Organizer", "", conf.Organizer),
	)
	m.formErr = nil
	m.state = stateBasicInfo
}

func (m *appModel) openTicketForm(ticket model.TicketType) {
	m.form = newForm("Ticket",
		field("Name", "Standard", ticket.Name),
		field("Description", "", ticket.Description),
		field("Unit price", "120.00", fmtFloat(ticket.UnitPrice)),
		field("Total slot quota", "100", fmtInt(ticket.TotalSlotQuota)),
		field("Sale start", "2026-01-01", fmtDate(ticket.SaleStart)),
		field("Sale end", "2026-02-28", fmtDate(ticket.SaleEnd)),
		field("Author ticket (y/n)", "n", fmtBool(ticket.IsAuthorTicket)),
	)
	m.formErr = nil
	m.state = stateTicketForm
}

func (m *appModel) openPhaseForm(phase model.PricePhase) {
	m.form = newForm("Price Phase",
		field("Name", "Early bird", phase.Name),
		field("Percent of base price", "80", fmtInt(phase.PercentOfBase)),
		field("Start date", "2026-01-01", fmtDate(phase.StartDate)),
		field("Duration (days)", "7", fmtInt(phase.DurationDays)),
		field("Slot quota", "40", fmtInt(phase.SlotQuota)),
	)
	m.formErr = nil
	m.state = statePhaseForm
}

func (m *appModel) openSessionForm(session model.Session) {
	speaker := ""
	if len(session.Speakers) > 0 {
		speaker = session.Speakers[0].Name
	}
	specs := []fieldSpec{
		field("Title", "Opening keynote", session.Title),
		field("Description", "", session.Description),
		field("Date", "2026-03-01", fmtDate(session.Date)),
		field("Start time", "09:00", fmtClock(session.StartTime)),
		field("End time", "10:00", fmtClock(session.EndTime)),
		field("Speaker", "", speaker),
	}
	if m.ws.Conference.Value.Kind == model.ConferenceResearch {
		specs = append(specs,
			field("Paper title", "", session.PaperTitle),
			field("Presenter email", "", session.PresenterEmail),
		)
	} else {
		specs = append(specs, field("Headline session (y/n)", "n", fmtBool(session.Headline)))
	}
	m.form = newForm("Session", specs...)
	m.formErr = nil
	m.state = stateSessionForm
}

func (m *appModel) openPolicyForm(policy model.Policy) {
	m.form = newForm("Policy",
		field("Name", "Code of Conduct", policy.Name),
		field("Description", "", policy.Description),
	)
	m.formErr = nil
	m.state = statePolicyForm
}

func (m *appModel) openRefundForm(policy model.RefundPolicy) {
	m.form = newForm("Refund Policy",
		field("Percent refunded", "50", fmtInt(policy.PercentRefund)),
		field("Description", "", policy.Description),
		field("Deadline", "2026-02-15", fmtDate(policy.Deadline)),
		field("Order", "", fmtInt(policy.Order)),
	)
	m.formErr = nil
	m.state = stateRefundForm
}

func (m *appModel) openMediaForm() {
	m.form = newForm("Media",
		field("Caption", "Venue entrance", ""),
		field("Image URL", "https://", ""),
		field("Local image path", "/path/to/image.png", ""),
	)
	m.formErr = nil
	m.state = stateMediaForm
}

func (m *appModel) openSponsorForm() {
	m.form = newForm("Sponsor",
		field("Name", "Acme", ""),
		field("Tier", "gold", ""),
		field("Logo URL", "https://", ""),
		field("Local logo path", "/path/to/logo.png", ""),
	)
	m.formErr = nil
	m.state = stateSponsorForm
}

func (m appModel) saveForm() (appModel, tea.Cmd, bool) {
	switch m.state {
	case stateBasicInfo:
		return m.saveBasicInfo()
	case stateTicketForm:
		return m.saveTicket()
	case statePhaseForm:
		return m.savePhase()
	case stateSessionForm:
		return m.saveSession()
	case statePolicyForm:
		return m.savePolicy()
	case stateRefundForm:
		return m.saveRefund()
	case stateMediaForm:
		return m.saveMedia()
	case stateSponsorForm:
		return m.saveSponsor()
	}
	return m, nil, false
}

func (m appModel) saveBasicInfo() (appModel, tea.Cmd, bool) {
	conf := m.ws.Conference.Value
	conf.Name = m.form.value(basicFieldName)
	if conf.Name == "" {
		m.formErr = ledger.ErrEmptyName
		return m, nil, true
	}
	conf.Description = m.form.value(basicFieldDescription)
	conf.City = m.form.value(basicFieldCity)
	conf.Venue = m.form.value(basicFieldVenue)
	conf.Organizer = m.form.value(basicFieldOrganizer)

	startRaw := m.form.value(basicFieldStart)
	if startRaw == "" {
		m.formErr = ledger.ErrMissingStartDate
		return m, nil, true
	}
	start, err := ledger.ParseDate(startRaw)
	if err != nil {
		m.formErr = err
		return m, nil, true
	}
	end := start
	if raw := m.form.value(basicFieldEnd); raw != "" {
		end, err = ledger.ParseDate(raw)
		if err != nil {
			m.formErr = err
			return m, nil, true
		}
	}
	if end.Before(start) {
		m.formErr = fmt.Errorf("end date %s is before start date %s", end.Format(time.DateOnly), start.Format(time.DateOnly))
		return m, nil, true
	}
	conf.StartDate = start
	conf.EndDate = end
	m.ws.Conference.Value = conf

	if !m.steps.Completed(wizard.StepBasicInfo) {
		m.steps = m.steps.Advance()
	}
	m.state = statePricing
	m.refreshTicketList()
	return m, nil, true
}

func (m appModel) saveTicket() (appModel, tea.Cmd, bool) {
	var ticket model.TicketType
	if m.ticketEdit >= 0 {
		ticket = m.ws.Tickets[m.ticketEdit].Value
	}
	ticket.Name = m.form.value(ticketFieldName)
	ticket.Description = m.form.value(ticketFieldDescription)
	ticket.IsAuthorTicket = parseYes(m.form.value(ticketFieldAuthor))

	price, err := strconv.ParseFloat(m.form.value(ticketFieldPrice), 64)
	if err != nil {
		m.formErr = ledger.ErrInvalidUnitPrice
		return m, nil, true
	}
	ticket.UnitPrice = price

	quota, err := strconv.Atoi(m.form.value(ticketFieldQuota))
	if err != nil {
		m.formErr = ledger.ErrInvalidQuota
		return m, nil, true
	}
	ticket.TotalSlotQuota = quota

	if ticket.SaleStart, err = parseOptionalDate(m.form.value(ticketFieldSaleStart)); err != nil {
		m.formErr = err
		return m, nil, true
	}
	if ticket.SaleEnd, err = parseOptionalDate(m.form.value(ticketFieldSaleEnd)); err != nil {
		m.formErr = err
		return m, nil, true
	}

	if err := m.ws.UpsertTicket(ticket, m.ticketEdit); err != nil {
		m.formErr = err
		return m, nil, true
	}
	m.state = statePricing
	m.refreshTicketList()
	return m, nil, true
}

func (m appModel) savePhase() (appModel, tea.Cmd, bool) {
	phases := m.ws.TicketPhases(m.selectedTicket)
	var phase model.PricePhase
	if m.phaseEdit >= 0 && m.phaseEdit < len(phases) {
		phase = phases[m.phaseEdit].Value
	}
	phase.Name = m.form.value(phaseFieldName)

	var err error
	if phase.PercentOfBase, err = parseOptionalInt(m.form.value(phaseFieldPercent)); err != nil {
		m.formErr = err
		return m, nil, true
	}
	if phase.StartDate, err = parseOptionalDate(m.form.value(phaseFieldStart)); err != nil {
		m.formErr = err
		return m, nil, true
	}
	if phase.DurationDays, err = parseOptionalInt(m.form.value(phaseFieldDuration)); err != nil {
		m.formErr = err
		return m, nil, true
	}
	quota, err := strconv.Atoi(m.form.value(phaseFieldQuota))
	if err != nil {
		m.formErr = ledger.ErrInvalidQuota
		return m, nil, true
	}
	phase.SlotQuota = quota

	if err := m.ws.UpsertPhase(m.selectedTicket, phase, m.phaseEdit); err != nil {
		m.formErr = err
		return m, nil, true
	}
	m.state = statePhases
	m.refreshPhaseList()
	return m, nil, true
}

func (m appModel) saveSession() (appModel, tea.Cmd, bool) {
	var session model.Session
	if m.sessionEdit >= 0 {
		session = m.ws.Sessions[m.sessionEdit].Value
	}
	if m.ws.Conference.Value.Kind == model.ConferenceResearch {
		session.Kind = model.SessionResearch
		session.PaperTitle = m.form.value(sessionFieldPaperTitle)
		session.PresenterEmail = m.form.value(sessionFieldPresenter)
	} else {
		session.Kind = model.SessionTech
		session.Headline = parseYes(m.form.value(sessionFieldHeadline))
	}
	session.Title = m.form.value(sessionFieldTitle)
	session.Description = m.form.value(sessionFieldDescription)
	if m.sessionRoomID != "" {
		session.RoomId = m.sessionRoomID
	}

	if name := m.form.value(sessionFieldSpeaker); name != "" {
		if len(session.Speakers) == 0 {
			session.Speakers = []model.Speaker{{Name: name}}
		} else {
			session.Speakers[0].Name = name
		}
	}

	var err error
	if session.Date, err = parseOptionalDate(m.form.value(sessionFieldDate)); err != nil {
		m.formErr = err
		return m, nil, true
	}
	if session.StartTime, err = parseOptionalClock(m.form.value(sessionFieldStart), session.Date); err != nil {
		m.formErr = err
		return m, nil, true
	}
	if session.EndTime, err = parseOptionalClock(m.form.value(sessionFieldEnd), session.Date); err != nil {
		m.formErr = err
		return m, nil, true
	}

	if m.sessionEdit >= 0 {
		err = m.ws.UpdateSession(session, m.sessionEdit)
	} else {
		err = m.ws.AddSession(session)
	}
	if err != nil {
		m.formErr = err
		return m, nil, true
	}
	m.sessionRoomID = ""
	m.state = stateSessions
	m.refreshSessionList()
	return m, nil, true
}

func (m appModel) savePolicy() (appModel, tea.Cmd, bool) {
	var policy model.Policy
	if m.policyEdit >= 0 {
		policy = m.ws.Policies[m.policyEdit].Value
	}
	policy.Name = m.form.value(policyFieldName)
	policy.Description = m.form.value(policyFieldDescription)

	if err := m.ws.UpsertPolicy(policy, m.policyEdit); err != nil {
		m.formErr = err
		return m, nil, true
	}
	m.state = statePolicies
	m.refreshPolicyList()
	return m, nil, true
}

func (m appModel) saveRefund() (appModel, tea.Cmd, bool) {
	var policy model.RefundPolicy
	if m.refundEdit >= 0 {
		policy = m.ws.RefundPolicies[m.refundEdit].Value
	}
	policy.Description = m.form.value(refundFieldDescription)

	percent, err := strconv.Atoi(m.form.value(refundFieldPercent))
	if err != nil {
		m.formErr = fmt.Errorf("invalid refund percentage")
		return m, nil, true
	}
	policy.PercentRefund = percent

	deadline, err := ledger.ParseDate(m.form.value(refundFieldDeadline))
	if err != nil {
		m.formErr = err
		return m, nil, true
	}
	policy.Deadline = deadline

	if raw := m.form.value(refundFieldOrder); raw != "" {
		if policy.Order, err = strconv.Atoi(raw); err != nil {
			m.formErr = fmt.Errorf("invalid order")
			return m, nil, true
		}
	} else if m.refundEdit < 0 {
		policy.Order = len(m.ws.RefundPolicies) + 1
	}

	if err := m.ws.UpsertRefundPolicy(policy, m.refundEdit); err != nil {
		m.formErr = err
		return m, nil, true
	}
	m.state = statePolicies
	m.refreshPolicyList()
	return m, nil, true
}

func (m appModel) saveMedia() (appModel, tea.Cmd, bool) {
	item := model.MediaItem{Caption: m.form.value(mediaFieldCaption)}
	if url := m.form.value(mediaFieldURL); url != "" {
		item.Image = model.RemoteImage(url)
	} else if path := m.form.value(mediaFieldPath); path != "" {
		item.Image = model.LocalImage(path)
	}
	if err := m.ws.AddMedia(item); err != nil {
		m.formErr = err
		return m, nil, true
	}
	m.state = stateMedia
	m.refreshMediaList()
	return m, nil, true
}

func (m appModel) saveSponsor() (appModel, tea.Cmd, bool) {
	sponsor := model.Sponsor{
		Name: m.form.value(sponsorFieldName),
		Tier: m.form.value(sponsorFieldTier),
	}
	if url := m.form.value(sponsorFieldLogoURL); url != "" {
		sponsor.Logo = model.RemoteImage(url)
	} else if path := m.form.value(sponsorFieldLogoPath); path != "" {
		sponsor.Logo = model.LocalImage(path)
	}
	if err := m.ws.AddSponsor(sponsor); err != nil {
		m.formErr = err
		return m, nil, true
	}
	m.state = stateSponsors
	m.refreshSponsorList()
	return m, nil, true
}

func (m appModel) formView() string {
	title := lipgloss.NewStyle().Bold(true).Render(m.form.title)
	lines := []string{title, ""}
	label := lipgloss.NewStyle().Faint(true)
	for i, f := range m.form.fields {
		marker := "  "
		if i == m.form.focus {
			marker = "> "
		}
		lines = append(lines, marker+label.Render(f.label), "  "+f.input.View())
	}
	if m.formErr != nil {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(m.formErr.Error()))
	}
	return strings.Join(lines, "\n")
}

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func fmtClock(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("15:04")
}

func fmtFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fmtInt(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func fmtBool(v bool) string {
	if v {
		return "y"
	}
	return "n"
}

func parseYes(value string) bool {
	switch strings.ToLower(value) {
	case "y", "yes", "true", "1":
		return true
	default:
		return false
	}
}

func parseOptionalDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return ledger.ParseDate(raw)
}

func parseOptionalClock(raw string, date time.Time) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return ledger.ParseClock(date, raw)
}

func parseOptionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	return value, nil
}
