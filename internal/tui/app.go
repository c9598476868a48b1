package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lbuchert/photowall/internal/gallery"
	"github.com/lbuchert/photowall/internal/layout"
	"github.com/lbuchert/photowall/internal/photo"
	"github.com/lbuchert/photowall/internal/pipeline"
	"github.com/lbuchert/photowall/internal/preview"
	"github.com/lbuchert/photowall/internal/provider"
	"github.com/lbuchert/photowall/internal/session"
)

const (
	settleTickInterval = 200 * time.Millisecond
	resizeDebounce     = 150 * time.Millisecond
)

// App is the main bubbletea model for the photo wall.
type App struct {
	store      *gallery.Store
	manager    *gallery.Manager
	viewer     *gallery.Viewer
	reconciler *gallery.Reconciler
	cells      *cellSet
	screen     *viewerScreen

	provider provider.Provider
	fetcher  *preview.Fetcher
	sess     *session.Session
	uploads  <-chan photo.Item

	keys   KeyMap
	styles Styles
	cfg    layout.LayoutConfig

	focus  Screen
	form   FormState
	series SeriesState
	notice string

	grid   layout.Grid
	cursor int

	// For gg command
	lastKeyWasG bool

	width     int
	height    int
	resizeSeq int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Provider provider.Provider
	Fetcher  *preview.Fetcher
	Session  *session.Session     // nil = signed out
	Uploads  <-chan photo.Item    // nil = no notification stream
	Keys     *KeyMap              // optional, uses default if nil
	Styles   *Styles              // optional, uses default if nil
	Config   *layout.LayoutConfig // optional, uses default if nil
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}

	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}

	cfg := layout.DefaultConfig()
	if params.Config != nil {
		cfg = *params.Config
	}

	fetcher := params.Fetcher
	if fetcher == nil {
		fetcher = preview.NewFetcher(nil, nil)
	}

	cells := newCellSet()
	screen := &viewerScreen{}

	return App{
		store:      gallery.NewStore(),
		manager:    gallery.NewManager(),
		viewer:     gallery.NewViewer(screen),
		reconciler: gallery.NewReconciler(cells.factory, cells, cfg.Grid),
		cells:      cells,
		screen:     screen,
		provider:   params.Provider,
		fetcher:    fetcher,
		sess:       params.Session,
		uploads:    params.Uploads,
		keys:       keys,
		styles:     styles,
		cfg:        cfg,
		form:       NewFormState(cfg),
		series:     NewSeriesState(cfg),
		width:      80,
		height:     24,
	}
}

// Store exposes the engine state for tests.
func (a App) Store() *gallery.Store { return a.store }

// Manager exposes the manage-mode controller for tests.
func (a App) Manager() *gallery.Manager { return a.manager }

// Cursor returns the current cursor position in the visible set.
func (a App) Cursor() int { return a.cursor }

// Focus returns the surface that currently has input focus.
func (a App) Focus() Screen { return a.focus }

// ViewerOpen reports whether the detail viewer is showing.
func (a App) ViewerOpen() bool { return a.viewer.IsOpen() }

// Notice returns the current status-line notice.
func (a App) Notice() string { return a.notice }

// Messages.

type pageMsg struct {
	ticket gallery.FetchTicket
	page   provider.Page
	err    error
}

type previewMsg struct {
	id     string
	lines  []string
	accent string
	err    error
}

type settleTickMsg time.Time

type tapTickMsg time.Time

type resizeMsg struct{ seq int }

type uploadMsg struct {
	item photo.Item
	ok   bool
}

type editDoneMsg struct {
	item photo.Item
	err  error
}

type deleteDoneMsg struct {
	id  string
	err error
}

type seriesListMsg struct {
	series []photo.Series
	err    error
}

type seriesCreatedMsg struct {
	series photo.Series
	err    error
}

// Commands.

func (a App) fetchCmd(ticket gallery.FetchTicket) tea.Cmd {
	prov := a.provider
	category := a.store.Selectors().Category
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		var page provider.Page
		var err error
		if ticket.Mode == gallery.ModeManage {
			page, err = prov.ListMyPhotos(ctx, ticket.Cursor, category)
		} else {
			page, err = prov.ListPhotos(ctx, ticket.Cursor)
		}
		return pageMsg{ticket: ticket, page: page, err: err}
	}
}

func (a App) loadPreviewCmd(id string) tea.Cmd {
	item := a.store.ItemByID(id)
	if item == nil {
		return nil
	}
	url := item.ThumbnailURL
	fetcher := a.fetcher
	cellWidth := a.grid.ColumnWidth - 2
	cellHeight := a.cfg.Grid.CellHeight - 3
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		lines, accent, err := fetcher.Fetch(ctx, url, cellWidth, cellHeight)
		return previewMsg{id: id, lines: lines, accent: accent, err: err}
	}
}

func (a App) submitEditCmd() tea.Cmd {
	prov := a.provider
	id := a.manager.Draft().PhotoID
	patch := a.manager.Patch()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		updated, err := prov.UpdatePhoto(ctx, id, patch)
		if err != nil {
			return editDoneMsg{err: err}
		}
		return editDoneMsg{item: updated}
	}
}

func (a App) deleteCmd(id string) tea.Cmd {
	prov := a.provider
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		return deleteDoneMsg{id: id, err: prov.DeletePhoto(ctx, id)}
	}
}

func (a App) loadSeriesCmd() tea.Cmd {
	prov := a.provider
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		series, err := prov.ListSeries(ctx)
		return seriesListMsg{series: series, err: err}
	}
}

func (a App) createSeriesCmd(title string) tea.Cmd {
	prov := a.provider
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		series, err := prov.CreateSeries(ctx, provider.SeriesInput{Title: title})
		return seriesCreatedMsg{series: series, err: err}
	}
}

func (a App) waitUploadCmd() tea.Cmd {
	uploads := a.uploads
	if uploads == nil {
		return nil
	}
	return func() tea.Msg {
		item, ok := <-uploads
		return uploadMsg{item: item, ok: ok}
	}
}

func settleTickCmd() tea.Cmd {
	return tea.Tick(settleTickInterval, func(t time.Time) tea.Msg {
		return settleTickMsg(t)
	})
}

func tapTickCmd(deadline time.Time) tea.Cmd {
	return tea.Tick(time.Until(deadline), func(t time.Time) tea.Msg {
		return tapTickMsg(t)
	})
}

// reconcile syncs the cells with the visible set and kicks off any preview
// loads and settle timers the pass produced.
func (a *App) reconcile() tea.Cmd {
	a.cells.setOrder(a.store.Visible())
	a.grid = a.reconciler.Reconcile(a.store.Visible(), a.contentWidth(), time.Now())
	a.clampCursor()
	return a.drainCells()
}

func (a *App) drainCells() tea.Cmd {
	var cmds []tea.Cmd
	for _, id := range a.cells.drainLoads() {
		if cmd := a.loadPreviewCmd(id); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if _, active := a.reconciler.PendingSettles(); active {
		cmds = append(cmds, settleTickCmd())
	}
	return tea.Batch(cmds...)
}

// maybeFetch starts a page fetch when the cursor is near the end of the
// loaded set.
func (a *App) maybeFetch() tea.Cmd {
	threshold := a.cfg.Grid.FetchMarginRows * a.grid.Columns
	if threshold <= 0 {
		threshold = a.cfg.Grid.FetchMarginRows
	}
	if !a.store.NearEnd(a.cursor, threshold) {
		return nil
	}
	ticket, ok := a.store.BeginFetch()
	if !ok {
		return nil
	}
	return a.fetchCmd(ticket)
}

func (a *App) clampCursor() {
	if n := len(a.store.Visible()); a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a App) contentWidth() int {
	w := a.width - 4 // App style padding
	if w < 1 {
		w = 1
	}
	return w
}

func (a App) selectedItem() *photo.Item {
	visible := a.store.Visible()
	if a.cursor < 0 || a.cursor >= len(visible) {
		return nil
	}
	return &visible[a.cursor]
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	var cmds []tea.Cmd
	if ticket, ok := a.store.BeginFetch(); ok {
		cmds = append(cmds, a.fetchCmd(ticket))
	}
	if cmd := a.waitUploadCmd(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizeSeq++
		seq := a.resizeSeq
		return a, tea.Tick(resizeDebounce, func(time.Time) tea.Msg {
			return resizeMsg{seq: seq}
		})

	case resizeMsg:
		// Only the last resize in a burst runs a relayout.
		if msg.seq != a.resizeSeq {
			return a, nil
		}
		a.grid = a.reconciler.Resize(a.contentWidth())
		return a, a.drainCells()

	case pageMsg:
		if msg.err != nil {
			a.store.FailFetch(msg.ticket)
			a.notice = "couldn't load photos, move to retry"
			return a, nil
		}
		if !a.store.ApplyPage(msg.ticket, msg.page) {
			return a, nil
		}
		return a, a.reconcile()

	case previewMsg:
		if msg.err == nil {
			a.cells.setPreview(msg.id, msg.lines, msg.accent)
		}
		// Failed loads settle too so one bad thumbnail cannot hold the
		// positioning pass until the fallback deadline.
		a.reconciler.ImageSettled(msg.id, time.Now())
		return a, nil

	case settleTickMsg:
		a.reconciler.Tick(time.Time(msg))
		if _, active := a.reconciler.PendingSettles(); active {
			return a, settleTickCmd()
		}
		return a, nil

	case tapTickMsg:
		a.viewer.ExpireTap(time.Time(msg))
		return a, nil

	case uploadMsg:
		if !msg.ok {
			return a, nil
		}
		// The manage-mode working set holds only the viewer's own photos,
		// so foreign uploads wait until the next browse fetch.
		mine := a.sess != nil && msg.item.OwnerName == a.sess.UserName
		var cmd tea.Cmd
		if a.store.Mode() == gallery.ModeBrowse || mine {
			a.store.PrependItem(msg.item)
			cmd = a.reconcile()
		}
		return a, tea.Batch(cmd, a.waitUploadCmd())

	case editDoneMsg:
		a.form.Saving = false
		if msg.err != nil {
			a.manager.EditFailed(msg.err)
			return a, nil
		}
		a.manager.EditSucceeded()
		a.store.ApplyUpdate(msg.item)
		a.form.Reset()
		a.focus = ScreenGrid
		return a, a.reconcile()

	case deleteDoneMsg:
		if msg.err != nil {
			a.notice = "delete failed: " + msg.err.Error()
			return a, nil
		}
		if item := a.store.ItemByID(msg.id); item != nil {
			a.fetcher.Invalidate(item.ThumbnailURL)
		}
		a.store.RemoveItem(msg.id)
		a.notice = "photo deleted"
		return a, a.reconcile()

	case seriesListMsg:
		if msg.err != nil {
			a.manager.SeriesLoadFailed(msg.err)
			return a, nil
		}
		a.manager.SeriesLoadSucceeded(msg.series)
		a.series.Refilter(a.manager.Series())
		return a, nil

	case seriesCreatedMsg:
		a.series.Creating = false
		if msg.err != nil {
			a.notice = "couldn't create series: " + msg.err.Error()
			return a, nil
		}
		a.manager.SeriesCreated(msg.series)
		a.focus = ScreenEdit
		a.series.Reset()
		return a, nil

	case tea.KeyMsg:
		a.notice = ""
		return a.handleKey(msg)
	}

	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.viewer.IsOpen() {
		return a.handleViewerKey(msg)
	}

	switch a.focus {
	case ScreenEdit:
		return a.handleEditKey(msg)
	case ScreenConfirmDelete:
		return a.handleConfirmKey(msg)
	case ScreenSeries:
		return a.handleSeriesKey(msg)
	case ScreenHelp:
		a.focus = ScreenGrid
		return a, nil
	}
	return a.handleGridKey(msg)
}

func (a App) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.cursor = 0
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.reconciler.Teardown()
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.focus = ScreenHelp
		return a, nil

	case key.Matches(msg, a.keys.Down):
		a.moveCursor(a.grid.Columns)
		return a, a.maybeFetch()

	case key.Matches(msg, a.keys.Up):
		a.moveCursor(-a.grid.Columns)
		return a, a.maybeFetch()

	case key.Matches(msg, a.keys.Right):
		a.moveCursor(1)
		return a, a.maybeFetch()

	case key.Matches(msg, a.keys.Left):
		a.moveCursor(-1)
		return a, a.maybeFetch()

	case key.Matches(msg, a.keys.Bottom):
		if n := len(a.store.Visible()); n > 0 {
			a.cursor = n - 1
		}
		return a, a.maybeFetch()

	case key.Matches(msg, a.keys.Open):
		a.viewer.Open(a.store.Visible(), a.cursor)
		return a, nil

	case key.Matches(msg, a.keys.Category):
		a.cycleCategory()
		return a, a.reconcile()

	case key.Matches(msg, a.keys.Filter):
		a.cycleFilter()
		return a, a.reconcile()

	case key.Matches(msg, a.keys.Sort):
		a.cycleSort()
		return a, a.reconcile()

	case key.Matches(msg, a.keys.ToggleManage):
		return a.toggleManage()

	case key.Matches(msg, a.keys.YankURL):
		if item := a.selectedItem(); item != nil {
			if err := clipboard.WriteAll(item.DisplayURL); err != nil {
				a.notice = "clipboard unavailable"
			} else {
				a.notice = "URL yanked"
			}
		}
		return a, nil

	case key.Matches(msg, a.keys.Edit):
		if a.store.Mode() != gallery.ModeManage {
			return a, nil
		}
		if item := a.selectedItem(); item != nil {
			a.manager.BeginEdit(*item)
			a.form.Populate(a.manager.Draft())
			a.focus = ScreenEdit
		}
		return a, nil

	case key.Matches(msg, a.keys.Delete):
		if a.store.Mode() != gallery.ModeManage {
			return a, nil
		}
		if item := a.selectedItem(); item != nil {
			a.manager.BeginDelete(item.ID)
			a.focus = ScreenConfirmDelete
		}
		return a, nil
	}

	return a, nil
}

func (a *App) moveCursor(delta int) {
	n := len(a.store.Visible())
	if n == 0 {
		return
	}
	next := a.cursor + delta
	if next < 0 || next >= n {
		return
	}
	a.cursor = next
}

func (a *App) cycleCategory() {
	cycle := append([]photo.Category{photo.CategoryAll}, photo.Categories...)
	current := a.store.Selectors().Category
	for i, c := range cycle {
		if c == current {
			a.store.SetCategory(cycle[(i+1)%len(cycle)])
			return
		}
	}
	a.store.SetCategory(photo.CategoryAll)
}

func (a *App) cycleFilter() {
	switch a.store.Selectors().Filter {
	case pipeline.FilterNone:
		a.store.SetFilter(pipeline.FilterPhotographer)
	case pipeline.FilterPhotographer:
		a.store.SetFilter(pipeline.FilterLocation)
	default:
		a.store.SetFilter(pipeline.FilterNone)
	}
}

func (a *App) cycleSort() {
	if a.store.Selectors().Sort == pipeline.SortLatest {
		a.store.SetSort(pipeline.SortPopular)
	} else {
		a.store.SetSort(pipeline.SortLatest)
	}
}

func (a App) toggleManage() (tea.Model, tea.Cmd) {
	if a.store.Mode() == gallery.ModeBrowse {
		if !a.sess.Valid() {
			a.notice = "sign in to manage photos"
			return a, nil
		}
		a.store.SetMode(gallery.ModeManage)
	} else {
		a.store.SetMode(gallery.ModeBrowse)
	}
	a.cursor = 0

	cmds := []tea.Cmd{a.reconcile()}
	if ticket, ok := a.store.BeginFetch(); ok {
		cmds = append(cmds, a.fetchCmd(ticket))
	}
	return a, tea.Batch(cmds...)
}

func (a App) handleViewerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit), key.Matches(msg, a.keys.Cancel):
		a.viewer.Close()
		return a, nil

	case key.Matches(msg, a.keys.Tap):
		a.viewer.Tap(time.Now())
		if deadline, open := a.viewer.TapDeadline(); open {
			return a, tapTickCmd(deadline)
		}
		return a, nil

	case key.Matches(msg, a.keys.Right):
		a.screen.Next()
		return a, nil

	case key.Matches(msg, a.keys.Left):
		a.screen.Prev()
		return a, nil

	case key.Matches(msg, a.keys.YankURL):
		if entry, ok := a.screen.Current(); ok {
			if err := clipboard.WriteAll(entry.Src); err != nil {
				a.notice = "clipboard unavailable"
			} else {
				a.notice = "URL yanked"
			}
		}
		return a, nil
	}
	return a, nil
}

func (a App) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.form.Saving {
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Cancel):
		a.manager.CancelEdit()
		a.form.Reset()
		a.focus = ScreenGrid
		return a, nil

	case key.Matches(msg, a.keys.Confirm):
		a.form.Apply(a.manager.Draft())
		a.form.Saving = true
		return a, a.submitEditCmd()

	case key.Matches(msg, a.keys.NextField):
		a.form.CycleFocus()
		return a, nil

	case key.Matches(msg, a.keys.TogglePublic):
		a.form.IsPublic = !a.form.IsPublic
		return a, nil

	case key.Matches(msg, a.keys.Series):
		a.focus = ScreenSeries
		a.series.Reset()
		a.series.FilterInput.Focus()
		if a.manager.SeriesState() == gallery.SeriesLoaded {
			a.series.Refilter(a.manager.Series())
			return a, nil
		}
		a.manager.BeginSeriesLoad()
		return a, a.loadSeriesCmd()
	}

	if msg.Type == tea.KeyCtrlC {
		a.reconciler.Teardown()
		return a, tea.Quit
	}
	if msg.Type == tea.KeyUp || msg.Type == tea.KeyDown {
		a.form.CycleCategory()
		return a, nil
	}

	var cmd tea.Cmd
	switch a.form.Focus {
	case fieldTitle:
		a.form.TitleInput, cmd = a.form.TitleInput.Update(msg)
	case fieldDescription:
		a.form.DescriptionInput, cmd = a.form.DescriptionInput.Update(msg)
	case fieldTags:
		a.form.TagsInput, cmd = a.form.TagsInput.Update(msg)
	}
	return a, cmd
}

func (a App) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Confirm):
		id, ok := a.manager.ConfirmDelete()
		a.focus = ScreenGrid
		if !ok {
			return a, nil
		}
		return a, a.deleteCmd(id)

	case key.Matches(msg, a.keys.Cancel):
		a.manager.CancelDelete()
		a.focus = ScreenGrid
		return a, nil
	}
	return a, nil
}

func (a App) handleSeriesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.series.Reset()
		a.focus = ScreenEdit
		return a, nil

	case tea.KeyCtrlC:
		a.reconciler.Teardown()
		return a, tea.Quit

	case tea.KeyUp:
		a.series.MoveCursor(-1)
		return a, nil

	case tea.KeyDown:
		a.series.MoveCursor(1)
		return a, nil

	case tea.KeyEnter:
		if a.manager.SeriesState() == gallery.SeriesFailed {
			// Retry the load; "no series" stays selectable below.
			if a.series.Cursor != 0 {
				a.manager.BeginSeriesLoad()
				return a, a.loadSeriesCmd()
			}
		}
		id, create := a.series.Selection()
		if create {
			a.series.Creating = true
			title := a.series.FilterInput.Value()
			return a, a.createSeriesCmd(title)
		}
		a.manager.SelectSeries(id)
		a.series.Reset()
		a.focus = ScreenEdit
		return a, nil
	}

	var cmd tea.Cmd
	a.series.FilterInput, cmd = a.series.FilterInput.Update(msg)
	a.series.Refilter(a.manager.Series())
	return a, cmd
}

// View implements tea.Model.
func (a App) View() string {
	return a.renderView()
}
