package gallery

import (
	"github.com/lbuchert/photowall/internal/photo"
	"github.com/lbuchert/photowall/internal/provider"
)

// SeriesStatus is the load state of the edit form's series list.
type SeriesStatus int

// Series list states. SeriesFailed keeps the selector usable ("no series"
// stays selectable) and exposes a retry affordance.
const (
	SeriesNotLoaded SeriesStatus = iota
	SeriesLoading
	SeriesLoaded
	SeriesFailed
)

// EditDraft is the edit form's working copy of a photo's editable fields.
type EditDraft struct {
	PhotoID     string
	Title       string
	Description string
	Category    photo.Category
	Tags        []string
	IsPublic    bool
	SeriesID    *string // nil = no series
}

// Manager is the manage-mode controller: it owns the edit form lifecycle,
// the delete confirmation step and the series sub-flow. It is inert unless
// the store is in ModeManage; the backend routes input accordingly.
type Manager struct {
	draft   *EditDraft
	editErr error

	pendingDelete string // id awaiting confirmation, "" = none

	series       []photo.Series
	seriesStatus SeriesStatus
	seriesErr    error
}

// NewManager creates an idle Manager.
func NewManager() *Manager {
	return &Manager{}
}

// BeginEdit opens the edit form pre-populated from the item's current fields.
func (m *Manager) BeginEdit(item photo.Item) {
	tags := make([]string, len(item.Tags))
	copy(tags, item.Tags)

	var seriesID *string
	if item.SeriesID != nil {
		id := *item.SeriesID
		seriesID = &id
	}

	m.draft = &EditDraft{
		PhotoID:     item.ID,
		Title:       item.Title,
		Description: item.Description,
		Category:    item.Category,
		Tags:        tags,
		IsPublic:    item.IsPublic,
		SeriesID:    seriesID,
	}
	m.editErr = nil
}

// Draft returns the open edit draft, or nil when no form is open.
func (m *Manager) Draft() *EditDraft {
	return m.draft
}

// Patch builds the update request from the draft.
func (m *Manager) Patch() provider.PhotoPatch {
	d := m.draft
	return provider.PhotoPatch{
		Title:       &d.Title,
		Description: &d.Description,
		Category:    &d.Category,
		Tags:        d.Tags,
		IsPublic:    &d.IsPublic,
		SeriesID:    d.SeriesID,
		SetSeries:   true,
	}
}

// EditSucceeded closes the form after a successful submission.
func (m *Manager) EditSucceeded() {
	m.draft = nil
	m.editErr = nil
}

// EditFailed records a submission failure. The form stays open with the
// error surfaced inline; the working set is untouched.
func (m *Manager) EditFailed(err error) {
	m.editErr = err
}

// EditError returns the inline form error, if any.
func (m *Manager) EditError() error {
	return m.editErr
}

// CancelEdit discards the draft.
func (m *Manager) CancelEdit() {
	m.draft = nil
	m.editErr = nil
}

// BeginDelete stages a delete; nothing is sent until ConfirmDelete.
func (m *Manager) BeginDelete(id string) {
	m.pendingDelete = id
}

// PendingDelete returns the id staged for deletion, if any.
func (m *Manager) PendingDelete() (string, bool) {
	return m.pendingDelete, m.pendingDelete != ""
}

// ConfirmDelete resolves the confirmation step and returns the id whose
// delete request should now be sent.
func (m *Manager) ConfirmDelete() (string, bool) {
	id := m.pendingDelete
	m.pendingDelete = ""
	return id, id != ""
}

// CancelDelete abandons the staged delete.
func (m *Manager) CancelDelete() {
	m.pendingDelete = ""
}

// BeginSeriesLoad marks the series list as loading.
func (m *Manager) BeginSeriesLoad() {
	m.seriesStatus = SeriesLoading
	m.seriesErr = nil
}

// SeriesLoadSucceeded stores the fetched series list.
func (m *Manager) SeriesLoadSucceeded(series []photo.Series) {
	m.series = series
	m.seriesStatus = SeriesLoaded
	m.seriesErr = nil
}

// SeriesLoadFailed records the failure. The selector must still offer
// "no series" plus a retry; it never degrades to a dead control.
func (m *Manager) SeriesLoadFailed(err error) {
	m.seriesStatus = SeriesFailed
	m.seriesErr = err
}

// Series returns the loaded series list.
func (m *Manager) Series() []photo.Series {
	return m.series
}

// SeriesState returns the series list load state.
func (m *Manager) SeriesState() SeriesStatus {
	return m.seriesStatus
}

// SeriesError returns the series load error, if any.
func (m *Manager) SeriesError() error {
	return m.seriesErr
}

// SelectSeries sets the draft's series association (nil = no series).
func (m *Manager) SelectSeries(id *string) {
	if m.draft == nil {
		return
	}
	m.draft.SeriesID = id
}

// SeriesCreated adds a freshly created series to the list and pre-selects it
// in the pending draft.
func (m *Manager) SeriesCreated(s photo.Series) {
	m.series = append(m.series, s)
	if m.seriesStatus != SeriesLoaded {
		m.seriesStatus = SeriesLoaded
	}
	if m.draft != nil {
		id := s.ID
		m.draft.SeriesID = &id
	}
}
