package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/xdoubleu/essentia/v2/pkg/logging"

	"aical.dev/aical/internal/dtos"
	"aical.dev/aical/internal/models"
	"aical.dev/aical/internal/tokencache"
	"aical.dev/aical/pkg/gcal"
)

var ErrNotLoggedIn = errors.New("not logged in")
var ErrUnknownCalendar = errors.New("unknown calendar")

// SessionService owns the authentication state, the subscribed calendars and
// their filters, the aggregated event list and the UI-adjacent view state.
// Every gateway call goes through here; auth failures reported by the gateway
// force a logout.
//
// One mutex guards all fields. The token, expiry and profile are always
// written together so the session invariant can never be observed half-set.
type SessionService struct {
	logger   *slog.Logger
	calendar gcal.Client
	cache    *tokencache.Cache

	mu          sync.Mutex
	session     models.Session
	calendars   []gcal.Calendar
	filters     map[string]bool
	events      []gcal.Event
	loading     bool
	lastError   string
	lastRefresh *time.Time
	view        models.ViewState

	// fetchGen invalidates in-flight aggregations: a response whose
	// generation is stale writes nothing, so an old fetch can never
	// overwrite the result of a newer one.
	fetchGen uint64

	subscribers map[uint64]chan dtos.StateMessageDto
	nextSubID   uint64
}

func NewSessionService(
	logger *slog.Logger,
	calendarClient gcal.Client,
	cache *tokencache.Cache,
) *SessionService {
	service := &SessionService{
		logger:      logger,
		calendar:    calendarClient,
		cache:       cache,
		session:     cache.Load(),
		filters:     make(map[string]bool),
		events:      []gcal.Event{},
		subscribers: make(map[uint64]chan dtos.StateMessageDto),
		view: models.ViewState{
			CurrentDate: time.Now(),
			ActiveView:  models.ViewMonth,
		},
	}

	service.CheckTokenExpiry(time.Now())

	return service
}

// SetLoginData enters the logged-in state. A cache write failure is a
// warning, not a failed login: the in-memory session is set regardless.
func (service *SessionService) SetLoginData(
	token string,
	expiresIn time.Duration,
	profile models.UserProfile,
) {
	err := service.cache.Save(token, expiresIn, profile)
	if err != nil {
		service.logger.Warn("failed to persist session", logging.ErrAttr(err))
	}

	service.mu.Lock()
	service.session = models.Session{
		AccessToken: token,
		TokenExpiry: time.Now().Add(expiresIn).UnixMilli(),
		Profile:     &profile,
	}
	service.lastError = ""
	service.mu.Unlock()

	service.notify()
}

func (service *SessionService) Logout() {
	service.mu.Lock()
	service.logoutLocked()
	service.mu.Unlock()

	service.notify()
}

func (service *SessionService) logoutLocked() {
	service.cache.Clear()

	service.session = models.Session{}
	service.calendars = nil
	service.filters = make(map[string]bool)
	service.events = []gcal.Event{}
	service.loading = false
	service.lastRefresh = nil
	service.view.EventModalOpen = false
	service.view.SelectedEvent = nil

	// invalidate whatever aggregation may still be in flight
	service.fetchGen++
}

// CheckTokenExpiry logs out when the stored expiry has passed. Called at
// startup and periodically from the job queue.
func (service *SessionService) CheckTokenExpiry(now time.Time) {
	service.mu.Lock()
	expired := service.session.IsExpired(now)
	if expired {
		service.logoutLocked()
	}
	service.mu.Unlock()

	if expired {
		service.logger.Info("session expired, logged out")
		service.notify()
	}
}

func (service *SessionService) LoggedIn() bool {
	service.mu.Lock()
	defer service.mu.Unlock()
	return !service.session.IsZero()
}

func (service *SessionService) token() (string, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	if service.session.IsZero() {
		return "", ErrNotLoggedIn
	}

	return service.session.AccessToken, nil
}

// LoadCalendars bootstraps the calendar list: fetch, derive the initial
// filter set from each entry's own selected/primary flag, then aggregate.
// List load and event load are sequenced because the filter set must exist
// before aggregation can run.
func (service *SessionService) LoadCalendars(ctx context.Context) error {
	token, err := service.token()
	if err != nil {
		return err
	}

	calendars, err := service.calendar.ListCalendars(ctx, token)
	if err != nil {
		return service.handleFetchError(err, "failed to fetch calendar list")
	}

	service.mu.Lock()
	service.calendars = calendars
	service.filters = make(map[string]bool, len(calendars))
	for _, calendar := range calendars {
		service.filters[calendar.ID] = calendar.DefaultSelected()
	}
	service.mu.Unlock()

	service.notify()

	return service.RefreshEvents(ctx)
}

// RefreshEvents re-aggregates: the whole event collection is replaced by a
// fresh fetch of the currently active calendars. No active calendars means an
// empty collection without any network call.
func (service *SessionService) RefreshEvents(ctx context.Context) error {
	service.mu.Lock()
	if service.session.IsZero() {
		service.mu.Unlock()
		return ErrNotLoggedIn
	}

	token := service.session.AccessToken
	service.fetchGen++
	gen := service.fetchGen
	service.loading = true
	service.lastError = ""

	activeIDs := make([]string, 0, len(service.filters))
	for _, calendar := range service.calendars {
		if service.filters[calendar.ID] {
			activeIDs = append(activeIDs, calendar.ID)
		}
	}
	service.mu.Unlock()

	service.notify()

	if len(activeIDs) == 0 {
		service.finishRefresh(gen, []gcal.Event{})
		return nil
	}

	events, err := service.calendar.ListEvents(ctx, token, activeIDs)
	if err != nil {
		service.mu.Lock()
		if gen != service.fetchGen {
			service.mu.Unlock()
			return nil
		}
		service.loading = false
		service.mu.Unlock()

		return service.handleFetchError(err, "failed to fetch calendar events")
	}

	service.finishRefresh(gen, events)
	return nil
}

func (service *SessionService) finishRefresh(gen uint64, events []gcal.Event) {
	now := time.Now()

	service.mu.Lock()
	if gen != service.fetchGen {
		service.mu.Unlock()
		return
	}

	service.events = events
	service.loading = false
	service.lastRefresh = &now
	service.mu.Unlock()

	service.notify()
}

// handleFetchError maps gateway failures: auth failures force a logout,
// everything else becomes a user-visible message with state left at
// last-known-good.
func (service *SessionService) handleFetchError(err error, message string) error {
	if errors.Is(err, gcal.ErrAuthExpired) ||
		errors.Is(err, gcal.ErrPermissionDenied) {
		service.logger.Info("authorization rejected, logging out", logging.ErrAttr(err))
		service.Logout()
		return err
	}

	service.mu.Lock()
	service.lastError = message
	service.mu.Unlock()

	service.notify()
	return err
}

// ToggleCalendar flips one filter and re-aggregates. Stale entries of a
// deselected calendar disappear because they are excluded from the refetch,
// not because of local filtering.
func (service *SessionService) ToggleCalendar(
	ctx context.Context,
	calendarID string,
) error {
	service.mu.Lock()
	included, ok := service.filters[calendarID]
	if !ok {
		service.mu.Unlock()
		return ErrUnknownCalendar
	}
	service.filters[calendarID] = !included
	service.mu.Unlock()

	return service.RefreshEvents(ctx)
}

func (service *SessionService) Events() []gcal.Event {
	service.mu.Lock()
	defer service.mu.Unlock()

	events := make([]gcal.Event, len(service.events))
	copy(events, service.events)
	return events
}

func (service *SessionService) Calendars() []dtos.CalendarEntryDto {
	service.mu.Lock()
	defer service.mu.Unlock()

	entries := make([]dtos.CalendarEntryDto, 0, len(service.calendars))
	for _, calendar := range service.calendars {
		entries = append(entries, dtos.CalendarEntryDto{
			Calendar: calendar,
			Active:   service.filters[calendar.ID],
		})
	}
	return entries
}

// AddEvent, ReplaceEvent and RemoveEvent keep the in-memory list consistent
// with a just-completed remote mutation without a full refetch. They are
// optimistic: the remote call already succeeded and is not re-validated.

func (service *SessionService) AddEvent(event gcal.Event) {
	service.mu.Lock()
	service.events = append(service.events, event)
	service.mu.Unlock()

	service.notify()
}

func (service *SessionService) ReplaceEvent(event gcal.Event) {
	service.mu.Lock()
	for i := range service.events {
		if service.events[i].ID == event.ID {
			service.events[i] = event
			break
		}
	}
	service.mu.Unlock()

	service.notify()
}

// RemoveEvent removes exactly one entry matched by id; an unknown id is a
// no-op.
func (service *SessionService) RemoveEvent(eventID string) {
	service.mu.Lock()
	for i := range service.events {
		if service.events[i].ID == eventID {
			service.events = append(service.events[:i], service.events[i+1:]...)
			break
		}
	}
	service.mu.Unlock()

	service.notify()
}

func (service *SessionService) CreateEvent(
	ctx context.Context,
	calendarID string,
	event gcal.Event,
) (*gcal.Event, error) {
	token, err := service.token()
	if err != nil {
		return nil, err
	}

	created, err := service.calendar.CreateEvent(ctx, token, calendarID, event)
	if err != nil {
		return nil, service.handleFetchError(err, "failed to create event")
	}

	service.AddEvent(*created)
	return created, nil
}

func (service *SessionService) UpdateEvent(
	ctx context.Context,
	calendarID string,
	eventID string,
	event gcal.Event,
) (*gcal.Event, error) {
	token, err := service.token()
	if err != nil {
		return nil, err
	}

	updated, err := service.calendar.UpdateEvent(ctx, token, calendarID, eventID, event)
	if err != nil {
		return nil, service.handleFetchError(err, "failed to update event")
	}

	service.ReplaceEvent(*updated)
	return updated, nil
}

func (service *SessionService) DeleteEvent(
	ctx context.Context,
	calendarID string,
	eventID string,
) error {
	token, err := service.token()
	if err != nil {
		return err
	}

	err = service.calendar.DeleteEvent(ctx, token, calendarID, eventID)
	if err != nil {
		return service.handleFetchError(err, "failed to delete event")
	}

	service.RemoveEvent(eventID)
	return nil
}

func (service *SessionService) SetActiveView(view string) error {
	mode, err := models.ParseViewMode(view)
	if err != nil {
		return err
	}

	service.mu.Lock()
	service.view.ActiveView = mode
	service.mu.Unlock()

	return nil
}

func (service *SessionService) SetCurrentDate(date time.Time) {
	service.mu.Lock()
	service.view.CurrentDate = date
	service.mu.Unlock()
}

func (service *SessionService) ToggleSidebar() bool {
	service.mu.Lock()
	defer service.mu.Unlock()

	service.view.SidebarOpen = !service.view.SidebarOpen
	return service.view.SidebarOpen
}

func (service *SessionService) OpenEventModal(event *gcal.Event) {
	service.mu.Lock()
	service.view.EventModalOpen = true
	service.view.SelectedEvent = event
	service.mu.Unlock()
}

func (service *SessionService) CloseEventModal() {
	service.mu.Lock()
	service.view.EventModalOpen = false
	service.view.SelectedEvent = nil
	service.mu.Unlock()
}

func (service *SessionService) State() dtos.SessionStateDto {
	calendars := service.Calendars()

	service.mu.Lock()
	defer service.mu.Unlock()

	return dtos.SessionStateDto{
		LoggedIn:   !service.session.IsZero(),
		Profile:    service.session.Profile,
		IsLoading:  service.loading,
		Error:      service.lastError,
		Calendars:  calendars,
		EventCount: len(service.events),
		View:       service.view,
	}
}

func (service *SessionService) stateMessageLocked() dtos.StateMessageDto {
	return dtos.StateMessageDto{
		LoggedIn:    !service.session.IsZero(),
		IsLoading:   service.loading,
		EventCount:  len(service.events),
		Error:       service.lastError,
		LastRefresh: service.lastRefresh,
	}
}

// Subscribe registers a websocket (or any other) listener for state
// snapshots. Sends never block: a slow subscriber just misses intermediate
// snapshots.
func (service *SessionService) Subscribe() (uint64, <-chan dtos.StateMessageDto) {
	service.mu.Lock()
	defer service.mu.Unlock()

	service.nextSubID++
	id := service.nextSubID

	ch := make(chan dtos.StateMessageDto, 8)
	service.subscribers[id] = ch
	ch <- service.stateMessageLocked()

	return id, ch
}

func (service *SessionService) Unsubscribe(id uint64) {
	service.mu.Lock()
	defer service.mu.Unlock()

	if ch, ok := service.subscribers[id]; ok {
		close(ch)
		delete(service.subscribers, id)
	}
}

func (service *SessionService) notify() {
	service.mu.Lock()
	defer service.mu.Unlock()

	message := service.stateMessageLocked()
	for _, ch := range service.subscribers {
		select {
		case ch <- message:
		default:
		}
	}
}
