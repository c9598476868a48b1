package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sahilm/fuzzy"

	"github.com/lbuchert/photowall/internal/gallery"
	"github.com/lbuchert/photowall/internal/layout"
	"github.com/lbuchert/photowall/internal/photo"
)

// Screen identifies which surface has input focus.
type Screen int

const (
	ScreenGrid Screen = iota
	ScreenEdit
	ScreenConfirmDelete
	ScreenSeries
	ScreenHelp
)

// Form field focus order in the edit modal.
const (
	fieldTitle = iota
	fieldDescription
	fieldTags
	fieldCount
)

// FormState holds the edit modal's inputs. The authoritative draft lives in
// the gallery.Manager; the form copies into it on submit.
type FormState struct {
	TitleInput       textinput.Model
	DescriptionInput textinput.Model
	TagsInput        textinput.Model
	Focus            int
	CategoryIdx      int
	IsPublic         bool
	Saving           bool
}

// NewFormState creates a FormState with initialized inputs.
func NewFormState(cfg layout.LayoutConfig) FormState {
	titleInput := textinput.New()
	titleInput.Placeholder = "Title"
	titleInput.CharLimit = cfg.Input.TitleCharLimit
	titleInput.Width = cfg.Input.StandardWidth

	descInput := textinput.New()
	descInput.Placeholder = "Description"
	descInput.CharLimit = cfg.Input.DescriptionCharLimit
	descInput.Width = cfg.Input.StandardWidth

	tagsInput := textinput.New()
	tagsInput.Placeholder = "tag1, tag2, tag3"
	tagsInput.CharLimit = cfg.Input.TagsCharLimit
	tagsInput.Width = cfg.Input.StandardWidth

	return FormState{
		TitleInput:       titleInput,
		DescriptionInput: descInput,
		TagsInput:        tagsInput,
	}
}

// Populate fills the inputs from an open draft.
func (f *FormState) Populate(d *gallery.EditDraft) {
	f.TitleInput.SetValue(d.Title)
	f.DescriptionInput.SetValue(d.Description)
	f.TagsInput.SetValue(strings.Join(d.Tags, ", "))
	f.IsPublic = d.IsPublic
	f.CategoryIdx = 0
	for i, c := range photo.Categories {
		if c == d.Category {
			f.CategoryIdx = i
		}
	}
	f.Focus = fieldTitle
	f.Saving = false
	f.TitleInput.Focus()
	f.DescriptionInput.Blur()
	f.TagsInput.Blur()
}

// Apply copies the form values back into the draft.
func (f *FormState) Apply(d *gallery.EditDraft) {
	d.Title = f.TitleInput.Value()
	d.Description = f.DescriptionInput.Value()
	d.Category = photo.Categories[f.CategoryIdx]
	d.IsPublic = f.IsPublic

	d.Tags = nil
	for _, tag := range strings.Split(f.TagsInput.Value(), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			d.Tags = append(d.Tags, tag)
		}
	}
}

// CycleFocus moves focus to the next input.
func (f *FormState) CycleFocus() {
	f.Focus = (f.Focus + 1) % fieldCount
	f.TitleInput.Blur()
	f.DescriptionInput.Blur()
	f.TagsInput.Blur()
	switch f.Focus {
	case fieldTitle:
		f.TitleInput.Focus()
	case fieldDescription:
		f.DescriptionInput.Focus()
	case fieldTags:
		f.TagsInput.Focus()
	}
}

// CycleCategory advances the category selector.
func (f *FormState) CycleCategory() {
	f.CategoryIdx = (f.CategoryIdx + 1) % len(photo.Categories)
}

// Reset clears the form for the next edit session.
func (f *FormState) Reset() {
	f.TitleInput.Reset()
	f.DescriptionInput.Reset()
	f.TagsInput.Reset()
	f.Focus = fieldTitle
	f.CategoryIdx = 0
	f.IsPublic = false
	f.Saving = false
}

// SeriesState holds the series picker sub-flow: a fuzzy-filtered list with a
// leading "no series" entry and a trailing create-new entry when the query
// matches nothing exactly.
type SeriesState struct {
	FilterInput textinput.Model
	Filtered    []photo.Series
	Matches     [][]int // matched byte offsets per filtered entry, for highlighting
	Cursor      int     // 0 = "no series", 1..len(Filtered) = series, len+1 = create
	Creating    bool
}

// NewSeriesState creates a SeriesState with an initialized filter input.
func NewSeriesState(cfg layout.LayoutConfig) SeriesState {
	input := textinput.New()
	input.Placeholder = "Filter series..."
	input.CharLimit = cfg.Input.FilterCharLimit
	input.Width = cfg.Input.FilterWidth
	return SeriesState{FilterInput: input}
}

// Refilter rebuilds the filtered list from the query.
func (s *SeriesState) Refilter(all []photo.Series) {
	query := s.FilterInput.Value()
	if query == "" {
		s.Filtered = all
		s.Matches = make([][]int, len(all))
	} else {
		titles := make([]string, len(all))
		for i, series := range all {
			titles[i] = series.Title
		}
		matches := fuzzy.Find(query, titles)
		s.Filtered = make([]photo.Series, 0, len(matches))
		s.Matches = make([][]int, 0, len(matches))
		for _, m := range matches {
			s.Filtered = append(s.Filtered, all[m.Index])
			s.Matches = append(s.Matches, m.MatchedIndexes)
		}
	}
	if max := s.maxCursor(); s.Cursor > max {
		s.Cursor = max
	}
}

// CanCreate reports whether the create-new entry is offered.
func (s *SeriesState) CanCreate() bool {
	query := strings.TrimSpace(s.FilterInput.Value())
	if query == "" {
		return false
	}
	for _, series := range s.Filtered {
		if strings.EqualFold(series.Title, query) {
			return false
		}
	}
	return true
}

func (s *SeriesState) maxCursor() int {
	max := len(s.Filtered)
	if s.CanCreate() {
		max++
	}
	return max
}

// MoveCursor shifts the selection by delta, clamped.
func (s *SeriesState) MoveCursor(delta int) {
	s.Cursor += delta
	if s.Cursor < 0 {
		s.Cursor = 0
	}
	if max := s.maxCursor(); s.Cursor > max {
		s.Cursor = max
	}
}

// Selection resolves the cursor: a nil id with create=false means "no
// series", create=true means the query should become a new series.
func (s *SeriesState) Selection() (id *string, create bool) {
	if s.Cursor == 0 {
		return nil, false
	}
	if s.Cursor <= len(s.Filtered) {
		seriesID := s.Filtered[s.Cursor-1].ID
		return &seriesID, false
	}
	return nil, true
}

// Reset clears the picker for the next session.
func (s *SeriesState) Reset() {
	s.FilterInput.Reset()
	s.Filtered = nil
	s.Matches = nil
	s.Cursor = 0
	s.Creating = false
}
