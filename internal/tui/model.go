// Package tui is the terminal rendition of the enquiry console: a paginated,
// searchable enquiry list with reply and delete actions, a detail view and the
// notification badges, built on bubbletea.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/givers/console/internal/enquiry"
	"github.com/givers/console/internal/model"
	"github.com/givers/console/internal/notify"
)

// noticeDuration is how long a notification stays in the status bar.
const noticeDuration = 4 * time.Second

// statusCycle is the order the filter key steps through. "" means all.
var statusCycle = []model.EnquiryStatus{"", model.StatusNew, model.StatusReplied, model.StatusArchived}

// Lister is the part of enquiry.Store the console drives.
type Lister interface {
	Snapshot() enquiry.View
	Load(ctx context.Context) error
	Retry(ctx context.Context) error
	NextPage(ctx context.Context) error
	PrevPage(ctx context.Context) error
	SetStatusFilter(ctx context.Context, status model.EnquiryStatus) error
	MarkReplied(ctx context.Context, id string) error
	DeleteEnquiry(ctx context.Context, id string) error
}

// Searcher receives every edit of the search text. *enquiry.Debouncer implements it.
type Searcher interface {
	Input(text string)
}

var _ Lister = (*enquiry.Store)(nil)
var _ Searcher = (*enquiry.Debouncer)(nil)

// Config wires a Model to the enquiry core. Store and Search are required.
type Config struct {
	Context context.Context
	Store   Lister
	Search  Searcher
	// Badges holds the poller counts. Optional.
	Badges *enquiry.NotificationState
	// Recent holds the dashboard poller's newest enquiries. Optional.
	Recent *Recent
	// Notifications delivers operator notifications, e.g. notify.Channel.C(). Optional.
	Notifications <-chan notify.Notification
	// Changes wakes the model when the store or pollers changed, e.g. Signal.C(). Optional.
	Changes <-chan struct{}
	Now     func() time.Time
}

type focus int

const (
	focusList focus = iota
	focusSearch
	focusDetail
	focusConfirmDelete
)

// Model implements tea.Model.
type Model struct {
	ctx    context.Context
	store  Lister
	search Searcher
	badges *enquiry.NotificationState
	recent *Recent
	notes  <-chan notify.Notification
	wakes  <-chan struct{}
	now    func() time.Time
	keys   KeyMap

	view   enquiry.View
	counts map[string]int
	latest []model.Enquiry

	focus      focus
	priorFocus focus
	cursor     int
	searchText []rune
	detailID   string
	deleteID   string
	notice     *notify.Notification
	noticeSeq  int
	width      int
	height     int
}

// Messages.
type (
	// storeChangedMsg arrives from the Changes channel.
	storeChangedMsg struct{}
	// fetchDoneMsg reports a list fetch started by a key press.
	fetchDoneMsg struct{ err error }
	// mutationResultMsg reports a reply or delete.
	mutationResultMsg struct {
		op  string
		id  string
		err error
	}
	notificationMsg struct{ n notify.Notification }
	noticeFadeMsg   struct{ seq int }
)

// NewModel creates a Model. The first page is fetched by Init.
func NewModel(cfg Config) Model {
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	m := Model{
		ctx:    ctx,
		store:  cfg.Store,
		search: cfg.Search,
		badges: cfg.Badges,
		recent: cfg.Recent,
		notes:  cfg.Notifications,
		wakes:  cfg.Changes,
		now:    now,
		keys:   DefaultKeyMap,
		width:  80,
	}
	m.refresh()
	m.searchText = []rune(m.view.Query.Search)
	return m
}

// Init implements tea.Model. Loads the first page and starts listening for
// background changes and notifications.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.fetch(m.store.Load)}
	if m.wakes != nil {
		cmds = append(cmds, listenForChange(m.wakes))
	}
	if m.notes != nil {
		cmds = append(cmds, listenForNotification(m.notes))
	}
	return tea.Batch(cmds...)
}

// listenForChange blocks until the channel fires, then delivers a storeChangedMsg.
func listenForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

// listenForNotification blocks until a notification arrives.
func listenForNotification(ch <-chan notify.Notification) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return notificationMsg{n: n}
	}
}

// fetch runs a blocking store call off the event loop.
func (m Model) fetch(call func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return fetchDoneMsg{err: call(ctx)}
	}
}

func (m Model) mutate(op, id string, call func(context.Context, string) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return mutationResultMsg{op: op, id: id, err: call(ctx, id)}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.focus {
		case focusSearch:
			return m.handleSearchKeys(msg)
		case focusConfirmDelete:
			return m.handleConfirmKeys(msg)
		case focusDetail:
			return m.handleDetailKeys(msg)
		}
		return m.handleListKeys(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case storeChangedMsg:
		m.refresh()
		return m, listenForChange(m.wakes)

	case fetchDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, enquiry.ErrStaleResponse) {
			slog.Debug("fetch failed", "error", msg.err)
		}
		m.refresh()

	case mutationResultMsg:
		m.refresh()
		if errors.Is(msg.err, enquiry.ErrUnknownEnquiry) {
			return m.showNotice(notify.KindError, "Enquiry is no longer on this page")
		}
		if msg.op == "delete" && msg.err == nil && m.detailID == msg.id {
			m.detailID = ""
			m.focus = focusList
		}

	case notificationMsg:
		n := msg.n
		m.notice = &n
		m.noticeSeq++
		return m, tea.Batch(fadeNotice(m.noticeSeq), listenForNotification(m.notes))

	case noticeFadeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = nil
		}
	}
	return m, nil
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.view.Items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.NextPage):
		if m.view.Query.Page < m.view.TotalPages {
			m.cursor = 0
			return m, m.fetch(m.store.NextPage)
		}

	case key.Matches(msg, m.keys.PrevPage):
		if m.view.Query.Page > 1 {
			m.cursor = 0
			return m, m.fetch(m.store.PrevPage)
		}

	case key.Matches(msg, m.keys.Search):
		m.focus = focusSearch

	case key.Matches(msg, m.keys.ClearSearch):
		if len(m.searchText) > 0 {
			m.searchText = nil
			m.cursor = 0
			m.search.Input("")
		}

	case key.Matches(msg, m.keys.Filter):
		next := nextStatus(m.view.Query.Status)
		m.cursor = 0
		return m, m.fetch(func(ctx context.Context) error {
			return m.store.SetStatusFilter(ctx, next)
		})

	case key.Matches(msg, m.keys.Reload):
		return m, m.fetch(m.store.Retry)

	case key.Matches(msg, m.keys.Open):
		if e, ok := m.selected(); ok {
			m.detailID = e.ID
			m.focus = focusDetail
		}

	case key.Matches(msg, m.keys.MarkReplied):
		if e, ok := m.selected(); ok {
			return m, m.mutate("reply", e.ID, m.store.MarkReplied)
		}

	case key.Matches(msg, m.keys.Delete):
		if e, ok := m.selected(); ok {
			m.askDelete(e.ID)
		}
	}
	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		// Esc clears the text; on an empty field it leaves search mode.
		if len(m.searchText) > 0 {
			m.searchText = nil
			m.cursor = 0
			m.search.Input("")
		} else {
			m.focus = focusList
		}

	case tea.KeyEnter:
		m.focus = focusList

	case tea.KeyBackspace:
		if len(m.searchText) > 0 {
			m.searchText = m.searchText[:len(m.searchText)-1]
			m.cursor = 0
			m.search.Input(string(m.searchText))
		}

	case tea.KeyRunes, tea.KeySpace:
		if msg.Type == tea.KeySpace {
			m.searchText = append(m.searchText, ' ')
		} else {
			m.searchText = append(m.searchText, msg.Runes...)
		}
		m.cursor = 0
		m.search.Input(string(m.searchText))
	}
	return m, nil
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e, ok := m.view.Item(m.detailID)
	if !ok {
		// The enquiry left the page (deleted, or a poll moved it).
		m.focus = focusList
		m.detailID = ""
		return m.handleListKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		m.focus = focusList
		m.detailID = ""

	case key.Matches(msg, m.keys.MarkReplied):
		return m, m.mutate("reply", e.ID, m.store.MarkReplied)

	case key.Matches(msg, m.keys.Delete):
		m.askDelete(e.ID)

	case key.Matches(msg, m.keys.SendEmail):
		// Mail delivery is simulated; the console only confirms it.
		slog.Info("email sent", "id", e.ID, "to", e.Email)
		return m.showNotice(notify.KindSuccess, "Email sent to "+e.Name)
	}
	return m, nil
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.deleteID
	m.deleteID = ""
	m.focus = m.priorFocus

	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if !key.Matches(msg, m.keys.Confirm) {
		return m, nil
	}
	return m, m.mutate("delete", id, m.store.DeleteEnquiry)
}

func (m *Model) askDelete(id string) {
	m.priorFocus = m.focus
	m.deleteID = id
	m.focus = focusConfirmDelete
}

func (m Model) showNotice(kind notify.Kind, text string) (tea.Model, tea.Cmd) {
	m.notice = &notify.Notification{Kind: kind, Message: text, At: m.now()}
	m.noticeSeq++
	return m, fadeNotice(m.noticeSeq)
}

func fadeNotice(seq int) tea.Cmd {
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeFadeMsg{seq: seq}
	})
}

// refresh copies the current store and badge state into the model.
func (m *Model) refresh() {
	m.view = m.store.Snapshot()
	if m.badges != nil {
		m.counts = m.badges.Counts()
	}
	if m.recent != nil {
		m.latest = m.recent.Items()
	}
	if m.cursor >= len(m.view.Items) {
		m.cursor = max(len(m.view.Items)-1, 0)
	}
}

func (m Model) selected() (model.Enquiry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Items) {
		return model.Enquiry{}, false
	}
	return m.view.Items[m.cursor], true
}

func nextStatus(current model.EnquiryStatus) model.EnquiryStatus {
	for i, s := range statusCycle {
		if s == current {
			return statusCycle[(i+1)%len(statusCycle)]
		}
	}
	return ""
}
