package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"confdesk-cli/ledger"
	"confdesk-cli/logging"
	"confdesk-cli/model"
	"confdesk-cli/service"
	"confdesk-cli/store"
	"confdesk-cli/wizard"
)

type appState int

const (
	stateSelectMode appState = iota
	stateLoadingConference
	stateBasicInfo
	statePricing
	stateTicketForm
	statePhases
	statePhaseForm
	stateSessions
	stateSessionForm
	stateLoadingRooms
	stateSelectRoom
	stateLoadingSlots
	stateSelectSlot
	statePolicies
	statePolicyForm
	stateRefundForm
	stateMedia
	stateMediaForm
	stateSponsors
	stateSponsorForm
	stateReview
	stateSubmitting
	stateDone
	stateError
)

type appModel struct {
	client *service.Client
	log    zerolog.Logger

	state     appState
	lastState appState
	err       error

	width  int
	height int

	ws    *wizard.WorkingSet
	steps wizard.Steps

	modeList    list.Model
	ticketList  list.Model
	phaseList   list.Model
	sessionList list.Model
	policyList  list.Model
	mediaList   list.Model
	sponsorList list.Model
	roomList    list.Model
	slotList    list.Model

	form    form
	formErr error

	// Edit indices; -1 means the form appends.
	ticketEdit  int
	phaseEdit   int
	sessionEdit int
	policyEdit  int
	refundEdit  int

	selectedTicket int
	selectedRoom   model.Room
	sessionRoomID  string

	result wizard.Result

	spinner spinner.Model
}

type errMsg struct {
	err            error
	returnState    appState
	returnStateSet bool
}

type conferenceMsg struct {
	conf model.Conference
	err  error
}

type roomsMsg struct {
	rooms []model.Room
	err   error
}

type slotsMsg struct {
	slots []model.DaySlot
	err   error
}

type submitMsg struct {
	result wizard.Result
}

func New() tea.Model {
	m := appModel{
		client: service.NewClient(nil),
		log:    logging.New(),
		state:  stateSelectMode,

		ticketEdit:  -1,
		phaseEdit:   -1,
		sessionEdit: -1,
		policyEdit:  -1,
		refundEdit:  -1,
	}

	m.modeList = newList("Conference Desk")
	m.ticketList = newList("Tickets")
	m.phaseList = newList("Price Phases")
	m.sessionList = newList("Sessions")
	m.policyList = newList("Policies")
	m.mediaList = newList("Media")
	m.sponsorList = newList("Sponsors")
	m.roomList = newList("Available Rooms")
	m.slotList = newList("Free Slots")

	m.modeList.SetItems(buildModeItems())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	m.spinner = sp

	return m
}

func (m appModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		if m.handleFilterInput(msg) {
			return m, nil
		}
		var handled bool
		m, cmd, handled := m.handleKey(msg)
		if handled {
			return m, cmd
		}
		// fallthrough to component update
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.isLoadingState() {
			return m, cmd
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		if msg.returnStateSet {
			m.lastState = msg.returnState
		} else {
			m.lastState = recoverStateFrom(m.state)
		}
		m.state = stateError
		return m, nil

	case conferenceMsg:
		if msg.err != nil {
			return m, errWithOptionsCmd(msg.err, stateSelectMode)
		}
		m.ws = wizard.Hydrate(msg.conf)
		m.steps = wizard.NewSteps(wizard.ModeEdit)
		_ = store.RememberConference(msg.conf)
		m.openBasicInfoForm()
		return m, m.form.focusCmd()

	case roomsMsg:
		if msg.err != nil {
			return m, errWithOptionsCmd(msg.err, stateSessionForm)
		}
		if len(msg.rooms) == 0 {
			return m, errWithOptionsCmd(errors.New("no rooms available for the conference dates"), stateSessionForm)
		}
		m.roomList.SetItems(buildRoomItems(msg.rooms))
		m.roomList.Select(0)
		m.state = stateSelectRoom
		return m, nil

	case slotsMsg:
		if msg.err != nil {
			return m, errWithOptionsCmd(msg.err, stateSelectRoom)
		}
		if len(msg.slots) == 0 {
			return m, errWithOptionsCmd(errors.New("no free slots in this room on the selected day"), stateSelectRoom)
		}
		m.slotList.Title = fmt.Sprintf("Free Slots • %s", m.selectedRoom.Name)
		m.slotList.SetItems(buildSlotItems(msg.slots))
		m.slotList.Select(0)
		m.state = stateSelectSlot
		return m, nil

	case submitMsg:
		m.result = msg.result
		if m.result.ConferenceID != "" {
			conf := m.ws.Conference.Value
			conf.Id = m.result.ConferenceID
			_ = store.RememberConference(conf)
		}
		m.state = stateDone
		return m, nil
	}

	if m.isFormState() {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	if listPtr := m.activeList(); listPtr != nil {
		*listPtr, cmd = listPtr.Update(msg)
	}
	return m, cmd
}

func (m appModel) View() string {
	header := m.headerView()
	switch m.state {
	case stateLoadingConference, stateLoadingRooms, stateLoadingSlots, stateSubmitting:
		return header + "\n\n" + m.loadingView()
	case stateBasicInfo, stateTicketForm, statePhaseForm, stateSessionForm,
		statePolicyForm, stateRefundForm, stateMediaForm, stateSponsorForm:
		return header + "\n\n" + m.formView()
	case stateReview:
		return header + "\n\n" + m.reviewView()
	case stateDone:
		return header + "\n\n" + m.doneView()
	case stateError:
		return header + "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render(m.err.Error()) + "\n\n" + hint("Press esc to go back or ctrl+c to quit.")
	default:
		if listPtr := m.activeList(); listPtr != nil {
			return header + "\n\n" + listPtr.View()
		}
		return header
	}
}

func (m appModel) headerView() string {
	title := lipgloss.NewStyle().Bold(true).Render("Conference Desk")
	sub := []string{}
	if m.ws != nil {
		conf := m.ws.Conference.Value
		if conf.Name != "" {
			sub = append(sub, conf.Name)
		}
		if conf.Kind != "" {
			sub = append(sub, string(conf.Kind))
		}
		if !conf.StartDate.IsZero() {
			sub = append(sub, fmt.Sprintf("%s → %s", conf.StartDate.Format(time.DateOnly), conf.EndDate.Format(time.DateOnly)))
		}
		if m.steps.Mode == wizard.ModeEdit {
			sub = append(sub, "editing")
		}
		sub = append(sub, fmt.Sprintf("Step: %s", m.steps.Current))
	}
	meta := strings.Join(sub, " • ")
	if meta != "" {
		meta = "\n" + lipgloss.NewStyle().Faint(true).Render(meta)
	}

	hints := "ctrl+c quit • esc back"
	switch m.state {
	case stateSelectMode:
		hints = "ctrl+c quit • type to filter • enter select • ctrl+x forget recent"
	case statePricing:
		hints = "ctrl+c quit • esc back • ctrl+a add ticket • enter edit • ctrl+f phases • ctrl+x delete • ctrl+n next step"
	case statePhases:
		hints = "ctrl+c quit • esc back • ctrl+a add phase • enter edit • ctrl+x delete"
	case stateSessions:
		hints = "ctrl+c quit • esc back • ctrl+a add session • enter edit • ctrl+x delete • ctrl+n next step"
	case statePolicies:
		hints = "ctrl+c quit • esc back • ctrl+a add policy • ctrl+r add refund policy • enter edit • ctrl+x delete • ctrl+n next step"
	case stateMedia:
		hints = "ctrl+c quit • esc back • ctrl+a add media • ctrl+x delete • ctrl+n next step"
	case stateSponsors:
		hints = "ctrl+c quit • esc back • ctrl+a add sponsor • ctrl+x delete • ctrl+n next step"
	case stateSelectRoom:
		hints = "ctrl+c quit • esc back • type to filter • enter pick room"
	case stateSelectSlot:
		hints = "ctrl+c quit • esc back • enter seed session times"
	case stateSessionForm:
		hints = "ctrl+c quit • esc back • tab next field • ctrl+r pick room and slot • enter save"
	case stateBasicInfo, stateTicketForm, statePhaseForm, statePolicyForm, stateRefundForm, stateMediaForm, stateSponsorForm:
		hints = "ctrl+c quit • esc back • tab next field • enter save"
	case stateReview:
		hints = "ctrl+c quit • esc back • enter save conference"
	case stateDone:
		hints = "enter or ctrl+c quit"
	}

	filterLine := ""
	if listPtr := m.activeList(); listPtr != nil {
		if filter := listPtr.FilterValue(); filter != "" {
			filterLine = "\n" + hint(fmt.Sprintf("Filter: %s", filter))
		}
	}
	return title + meta + filterLine + "\n" + hint(hints)
}

func (m appModel) handleKey(msg tea.KeyMsg) (appModel, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit, true
	case "esc":
		if listPtr := m.activeList(); listPtr != nil {
			if listPtr.SettingFilter() || listPtr.IsFiltered() {
				listPtr.ResetFilter()
				return m, nil, true
			}
		}
		return m.goBack()
	case "ctrl+a":
		return m.openAddForm()
	case "ctrl+x":
		return m.deleteSelected()
	case "ctrl+f":
		if m.state == statePricing {
			return m.openPhases()
		}
	case "ctrl+r":
		if m.state == statePolicies {
			m.refundEdit = -1
			m.openRefundForm(model.RefundPolicy{})
			return m, m.form.focusCmd(), true
		}
		if m.state == stateSessionForm {
			return m.openRoomPicker()
		}
	case "ctrl+n":
		return m.nextStep()
	}

	if msg.Type == tea.KeyEnter {
		return m.handleEnter()
	}
	return m, nil, false
}

func (m appModel) handleEnter() (appModel, tea.Cmd, bool) {
	switch m.state {
	case stateSelectMode:
		item, ok := m.modeList.SelectedItem().(modeItem)
		if !ok {
			return m, nil, true
		}
		if item.recent.ID != "" {
			m.state = stateLoadingConference
			return m, tea.Batch(m.loadConferenceCmd(item.recent.ID), m.spinner.Tick), true
		}
		m.ws = wizard.NewWorkingSet(item.kind)
		m.steps = wizard.NewSteps(wizard.ModeCreate)
		m.openBasicInfoForm()
		return m, m.form.focusCmd(), true

	case statePricing:
		item, ok := m.ticketList.SelectedItem().(ticketItem)
		if !ok {
			return m, nil, true
		}
		m.ticketEdit = item.index
		m.openTicketForm(m.ws.Tickets[item.index].Value)
		return m, m.form.focusCmd(), true

	case statePhases:
		item, ok := m.phaseList.SelectedItem().(phaseItem)
		if !ok {
			return m, nil, true
		}
		m.phaseEdit = item.index
		m.openPhaseForm(m.ws.TicketPhases(m.selectedTicket)[item.index].Value)
		return m, m.form.focusCmd(), true

	case stateSessions:
		item, ok := m.sessionList.SelectedItem().(sessionItem)
		if !ok {
			return m, nil, true
		}
		m.sessionEdit = item.index
		session := m.ws.Sessions[item.index].Value
		m.sessionRoomID = session.RoomId
		m.openSessionForm(session)
		return m, m.form.focusCmd(), true

	case statePolicies:
		item, ok := m.policyList.SelectedItem().(policyItem)
		if !ok {
			return m, nil, true
		}
		if item.refund {
			m.refundEdit = item.index
			m.openRefundForm(m.ws.RefundPolicies[item.index].Value)
		} else {
			m.policyEdit = item.index
			m.openPolicyForm(m.ws.Policies[item.index].Value)
		}
		return m, m.form.focusCmd(), true

	case stateSelectRoom:
		item, ok := m.roomList.SelectedItem().(roomItem)
		if !ok {
			return m, nil, true
		}
		m.selectedRoom = item.room
		m.state = stateLoadingSlots
		return m, tea.Batch(m.fetchSlotsCmd(item.room.Id, m.slotDate()), m.spinner.Tick), true

	case stateSelectSlot:
		item, ok := m.slotList.SelectedItem().(slotItem)
		if !ok {
			return m, nil, true
		}
		m.sessionRoomID = item.slot.RoomId
		m.seedSessionTimes(item.slot)
		m.state = stateSessionForm
		return m, m.form.focusCmd(), true

	case stateBasicInfo, stateTicketForm, statePhaseForm, stateSessionForm,
		statePolicyForm, stateRefundForm, stateMediaForm, stateSponsorForm:
		if m.form.onLastField() {
			return m.saveForm()
		}
		var cmd tea.Cmd
		m.form, cmd = m.form.nextField()
		return m, cmd, true

	case stateReview:
		if err := m.ws.ValidateForSubmit(); err != nil {
			return m, errWithOptionsCmd(err, stateReview), true
		}
		m.state = stateSubmitting
		return m, tea.Batch(m.submitCmd(), m.spinner.Tick), true

	case stateDone:
		return m, tea.Quit, true
	}
	return m, nil, false
}

func (m appModel) goBack() (appModel, tea.Cmd, bool) {
	switch m.state {
	case stateBasicInfo:
		if m.steps.Mode == wizard.ModeCreate && !m.steps.Completed(wizard.StepBasicInfo) {
			m.state = stateSelectMode
		} else {
			m.state = statePricing
			m.refreshTicketList()
		}
	case statePricing:
		m.openBasicInfoForm()
		return m, m.form.focusCmd(), true
	case stateTicketForm:
		m.state = statePricing
	case statePhases:
		m.state = statePricing
		m.refreshTicketList()
	case statePhaseForm:
		m.state = statePhases
	case stateSessions:
		m.state = statePricing
		m.refreshTicketList()
	case stateSessionForm:
		m.state = stateSessions
	case stateSelectRoom:
		m.state = stateSessionForm
	case stateSelectSlot:
		m.state = stateSelectRoom
	case statePolicies:
		m.state = stateSessions
		m.refreshSessionList()
	case statePolicyForm, stateRefundForm:
		m.state = statePolicies
	case stateMedia:
		m.state = statePolicies
		m.refreshPolicyList()
	case stateMediaForm:
		m.state = stateMedia
	case stateSponsors:
		m.state = stateMedia
		m.refreshMediaList()
	case stateSponsorForm:
		m.state = stateSponsors
	case stateReview:
		m.state = stateSponsors
		m.refreshSponsorList()
	case stateError:
		m.state = m.lastState
	default:
		return m, nil, true
	}
	m.formErr = nil
	return m, nil, true
}

func (m appModel) nextStep() (appModel, tea.Cmd, bool) {
	switch m.state {
	case statePricing:
		m.steps = m.steps.Advance()
		m.state = stateSessions
		m.refreshSessionList()
		return m, nil, true
	case stateSessions:
		if err := m.ws.FinalizeSessions(); err != nil {
			return m, errWithOptionsCmd(err, stateSessions), true
		}
		m.steps = m.steps.Advance()
		m.state = statePolicies
		m.refreshPolicyList()
		return m, nil, true
	case statePolicies:
		m.steps = m.steps.Advance()
		m.state = stateMedia
		m.refreshMediaList()
		return m, nil, true
	case stateMedia:
		m.steps = m.steps.Advance()
		m.state = stateSponsors
		m.refreshSponsorList()
		return m, nil, true
	case stateSponsors:
		m.steps = m.steps.Advance()
		m.state = stateReview
		return m, nil, true
	}
	return m, nil, false
}

func (m appModel) openAddForm() (appModel, tea.Cmd, bool) {
	switch m.state {
	case statePricing:
		m.ticketEdit = -1
		m.openTicketForm(model.TicketType{})
	case statePhases:
		m.phaseEdit = -1
		m.openPhaseForm(model.PricePhase{})
	case stateSessions:
		m.sessionEdit = -1
		m.sessionRoomID = ""
		m.openSessionForm(model.Session{})
	case statePolicies:
		m.policyEdit = -1
		m.openPolicyForm(model.Policy{})
	case stateMedia:
		m.openMediaForm()
	case stateSponsors:
		m.openSponsorForm()
	default:
		return m, nil, false
	}
	return m, m.form.focusCmd(), true
}

func (m appModel) deleteSelected() (appModel, tea.Cmd, bool) {
	switch m.state {
	case stateSelectMode:
		item, ok := m.modeList.SelectedItem().(modeItem)
		if !ok || item.recent.ID == "" {
			return m, nil, true
		}
		_ = store.ForgetConference(item.recent.ID)
		m.modeList.SetItems(buildModeItems())
		return m, nil, true
	case statePricing:
		item, ok := m.ticketList.SelectedItem().(ticketItem)
		if !ok {
			return m, nil, true
		}
		m.ws.DeleteTicket(item.index)
		m.refreshTicketList()
		return m, nil, true
	case statePhases:
		item, ok := m.phaseList.SelectedItem().(phaseItem)
		if !ok {
			return m, nil, true
		}
		m.ws.DeletePhase(m.selectedTicket, item.index)
		m.refreshPhaseList()
		return m, nil, true
	case stateSessions:
		item, ok := m.sessionList.SelectedItem().(sessionItem)
		if !ok {
			return m, nil, true
		}
		m.ws.DeleteSession(item.index)
		m.refreshSessionList()
		return m, nil, true
	case statePolicies:
		item, ok := m.policyList.SelectedItem().(policyItem)
		if !ok {
			return m, nil, true
		}
		if item.refund {
			m.ws.DeleteRefundPolicy(item.index)
		} else {
			m.ws.DeletePolicy(item.index)
		}
		m.refreshPolicyList()
		return m, nil, true
	case stateMedia:
		item, ok := m.mediaList.SelectedItem().(mediaListItem)
		if !ok {
			return m, nil, true
		}
		m.ws.DeleteMedia(item.index)
		m.refreshMediaList()
		return m, nil, true
	case stateSponsors:
		item, ok := m.sponsorList.SelectedItem().(sponsorItem)
		if !ok {
			return m, nil, true
		}
		m.ws.DeleteSponsor(item.index)
		m.refreshSponsorList()
		return m, nil, true
	}
	return m, nil, false
}

func (m appModel) openPhases() (appModel, tea.Cmd, bool) {
	item, ok := m.ticketList.SelectedItem().(ticketItem)
	if !ok {
		return m, nil, true
	}
	m.selectedTicket = item.index
	m.phaseList.Title = fmt.Sprintf("Price Phases • %s", m.ws.Tickets[item.index].Value.Name)
	m.refreshPhaseList()
	m.state = statePhases
	return m, nil, true
}

func (m appModel) openRoomPicker() (appModel, tea.Cmd, bool) {
	conf := m.ws.Conference.Value
	if conf.StartDate.IsZero() || conf.EndDate.IsZero() {
		return m, errWithOptionsCmd(ledger.ErrMissingStartDate, stateSessionForm), true
	}
	m.state = stateLoadingRooms
	return m, tea.Batch(m.fetchRoomsCmd(conf), m.spinner.Tick), true
}

// slotDate picks the day whose free slots are fetched: the date already
// typed into the session form, else the conference opening day.
func (m appModel) slotDate() time.Time {
	if raw := strings.TrimSpace(m.form.value(sessionFieldDate)); raw != "" {
		if date, err := ledger.ParseDate(raw); err == nil {
			return date
		}
	}
	return m.ws.Conference.Value.StartDate
}

func (m *appModel) seedSessionTimes(slot model.DaySlot) {
	m.form.setValue(sessionFieldDate, slot.Date.Format(time.DateOnly))
	m.form.setValue(sessionFieldStart, slot.Start.Format("15:04"))
	m.form.setValue(sessionFieldEnd, slot.End.Format("15:04"))
}

func (m *appModel) handleFilterInput(msg tea.KeyMsg) bool {
	listPtr := m.activeList()
	if listPtr == nil {
		return false
	}
	if !listPtr.FilteringEnabled() {
		return false
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) == 0 {
			return false
		}
		m.appendFilter(listPtr, string(msg.Runes))
		return true
	case tea.KeySpace:
		m.appendFilter(listPtr, " ")
		return true
	case tea.KeyBackspace, tea.KeyDelete:
		if listPtr.FilterValue() == "" {
			return false
		}
		m.popFilter(listPtr)
		return true
	default:
		return false
	}
}

func (m *appModel) appendFilter(listPtr *list.Model, value string) {
	if value == "" {
		return
	}
	current := listPtr.FilterValue()
	listPtr.SetFilterText(current + value)
}

func (m *appModel) popFilter(listPtr *list.Model) {
	value := listPtr.FilterValue()
	if value == "" {
		return
	}
	value = trimLastRune(value)
	if value == "" {
		listPtr.ResetFilter()
		return
	}
	listPtr.SetFilterText(value)
}

func trimLastRune(value string) string {
	runes := []rune(value)
	if len(runes) <= 1 {
		return ""
	}
	return string(runes[:len(runes)-1])
}

func (m *appModel) activeList() *list.Model {
	switch m.state {
	case stateSelectMode:
		return &m.modeList
	case statePricing:
		return &m.ticketList
	case statePhases:
		return &m.phaseList
	case stateSessions:
		return &m.sessionList
	case statePolicies:
		return &m.policyList
	case stateMedia:
		return &m.mediaList
	case stateSponsors:
		return &m.sponsorList
	case stateSelectRoom:
		return &m.roomList
	case stateSelectSlot:
		return &m.slotList
	default:
		return nil
	}
}

func (m appModel) isLoadingState() bool {
	return m.state == stateLoadingConference ||
		m.state == stateLoadingRooms ||
		m.state == stateLoadingSlots ||
		m.state == stateSubmitting
}

func (m appModel) isFormState() bool {
	switch m.state {
	case stateBasicInfo, stateTicketForm, statePhaseForm, stateSessionForm,
		statePolicyForm, stateRefundForm, stateMediaForm, stateSponsorForm:
		return true
	default:
		return false
	}
}

func (m appModel) loadingView() string {
	title := "Loading"
	switch m.state {
	case stateLoadingConference:
		title = "Loading conference"
	case stateLoadingRooms:
		title = "Loading available rooms"
	case stateLoadingSlots:
		title = "Loading free slots"
	case stateSubmitting:
		title = "Saving conference"
	}
	return fmt.Sprintf("%s %s\n\n%s", m.spinner.View(), title, hint("Talking to the backend..."))
}

func (m appModel) doneView() string {
	if m.result.AllSaved() {
		ok := lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
		return ok.Render("Conference saved.") + "\n\n" + hint(fmt.Sprintf("id: %s", m.result.ConferenceID))
	}
	warn := lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	lines := []string{warn.Render(m.result.Warning()), ""}
	for _, failure := range m.result.Failures {
		lines = append(lines, fmt.Sprintf("  %s: %s", failure.Section, failure.Message))
	}
	lines = append(lines, "", hint("Completed sections stayed saved. Run the wizard again to retry the rest."))
	return strings.Join(lines, "\n")
}

func (m *appModel) resizeLists() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - 6
	if h < 6 {
		h = 6
	}
	m.modeList.SetSize(m.width, h)
	m.ticketList.SetSize(m.width, h)
	m.phaseList.SetSize(m.width, h)
	m.sessionList.SetSize(m.width, h)
	m.policyList.SetSize(m.width, h)
	m.mediaList.SetSize(m.width, h)
	m.sponsorList.SetSize(m.width, h)
	m.roomList.SetSize(m.width, h)
	m.slotList.SetSize(m.width, h)
}

func (m *appModel) refreshTicketList() {
	m.ticketList.SetItems(buildTicketItems(m.ws))
}

func (m *appModel) refreshPhaseList() {
	m.phaseList.SetItems(buildPhaseItems(m.ws.TicketPhases(m.selectedTicket)))
}

func (m *appModel) refreshSessionList() {
	m.sessionList.SetItems(buildSessionItems(m.ws.Sessions))
}

func (m *appModel) refreshPolicyList() {
	m.policyList.SetItems(buildPolicyItems(m.ws.Policies, m.ws.RefundPolicies))
}

func (m *appModel) refreshMediaList() {
	m.mediaList.SetItems(buildMediaItems(m.ws.Media))
}

func (m *appModel) refreshSponsorList() {
	m.sponsorList.SetItems(buildSponsorItems(m.ws.Sponsors))
}

func newList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = title
	l.Filter = caseInsensitiveFilter
	l.SetFilteringEnabled(true)
	l.SetShowFilter(true)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return l
}

func hint(text string) string {
	return lipgloss.NewStyle().Faint(true).Render(text)
}

func errCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err}
	}
}

func errWithOptionsCmd(err error, returnState appState) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: err, returnState: returnState, returnStateSet: true}
	}
}

func recoverStateFrom(state appState) appState {
	switch state {
	case stateLoadingConference:
		return stateSelectMode
	case stateLoadingRooms, stateLoadingSlots:
		return stateSessionForm
	case stateSubmitting:
		return stateReview
	case stateError:
		return stateSelectMode
	default:
		return state
	}
}

func caseInsensitiveFilter(term string, targets []string) []list.Rank {
	term = strings.ToLower(term)
	lower := make([]string, len(targets))
	for i, t := range targets {
		lower[i] = strings.ToLower(t)
	}
	return list.DefaultFilter(term, lower)
}

func (m appModel) loadConferenceCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		conf, err := m.client.GetConference(ctx, id)
		if err != nil {
			if service.IsNotFound(err) {
				_ = store.ForgetConference(id)
			}
			return conferenceMsg{err: err}
		}
		return conferenceMsg{conf: conf}
	}
}

func (m appModel) fetchRoomsCmd(conf model.Conference) tea.Cmd {
	return func() tea.Msg {
		if cached, fresh, err := store.LoadRoomCache(conf.City); err == nil && fresh && len(cached) > 0 {
			return roomsMsg{rooms: cached}
		}
		ctx := context.Background()
		rooms, err := m.client.AvailableRooms(ctx, conf.StartDate, conf.EndDate, conf.City, "")
		if err == nil && len(rooms) > 0 {
			_ = store.SaveRoomCache(conf.City, rooms)
		}
		return roomsMsg{rooms: rooms, err: err}
	}
}

func (m appModel) fetchSlotsCmd(roomID string, date time.Time) tea.Cmd {
	return func() tea.Msg {
		dateKey := date.Format(time.DateOnly)
		if cached, fresh, err := store.LoadSlotCache(roomID, dateKey); err == nil && fresh && len(cached) > 0 {
			return slotsMsg{slots: cached}
		}
		ctx := context.Background()
		slots, err := m.client.AvailableTimesInRoom(ctx, roomID, date)
		if err == nil && len(slots) > 0 {
			_ = store.SaveSlotCache(roomID, dateKey, slots)
		}
		return slotsMsg{slots: slots, err: err}
	}
}

func (m appModel) submitCmd() tea.Cmd {
	ws := m.ws
	submitter := wizard.NewSubmitter(m.client, m.log)
	return func() tea.Msg {
		ctx := context.Background()
		return submitMsg{result: submitter.Submit(ctx, ws)}
	}
}
