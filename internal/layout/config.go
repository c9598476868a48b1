package layout

// LayoutConfig holds all layout-related configuration values.
type LayoutConfig struct {
	Grid  GridConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
}

// GridConfig holds photo grid configuration.
type GridConfig struct {
	// Breakpoints maps container widths to column counts,
	// ordered highest threshold first.
	Breakpoints []Breakpoint

	// Gutter is the spacing between columns and rows, in cells.
	Gutter int

	// CellHeight is the rendered height of one grid cell, in lines.
	CellHeight int

	// HeightReduction is subtracted from terminal height for grid content.
	// Accounts for: header (1) + status line (1) + help bar (2) = 4
	HeightReduction int

	// FetchMarginRows: a page fetch is triggered once the cursor enters the
	// last FetchMarginRows rows of the loaded set.
	FetchMarginRows int
}

// ModalConfig holds modal dialog configuration.
type ModalConfig struct {
	// DefaultWidthPercent is the standard modal width as percentage of terminal width.
	DefaultWidthPercent int

	// MinWidth is the minimum modal width in characters.
	MinWidth int

	// MaxWidth is the maximum modal width in characters.
	MaxWidth int

	// SeriesMaxVisible: max items shown in the series picker.
	SeriesMaxVisible int
}

// InputConfig holds text input configuration.
type InputConfig struct {
	// Character limits
	TitleCharLimit       int
	DescriptionCharLimit int
	TagsCharLimit        int
	FilterCharLimit      int

	// Display widths
	StandardWidth int
	FilterWidth   int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() LayoutConfig {
	return LayoutConfig{
		Grid: GridConfig{
			// Terminal-cell analogue of the usual web breakpoint table.
			Breakpoints: []Breakpoint{
				{MinWidth: 220, Columns: 5},
				{MinWidth: 160, Columns: 4},
				{MinWidth: 100, Columns: 3},
				{MinWidth: 0, Columns: 2},
			},
			Gutter:          2,
			CellHeight:      10,
			HeightReduction: 4,
			FetchMarginRows: 2,
		},
		Modal: ModalConfig{
			DefaultWidthPercent: 50,
			MinWidth:            50,
			MaxWidth:            80,
			SeriesMaxVisible:    8,
		},
		Input: InputConfig{
			TitleCharLimit:       100,
			DescriptionCharLimit: 500,
			TagsCharLimit:        200,
			FilterCharLimit:      50,
			StandardWidth:        40,
			FilterWidth:          30,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
