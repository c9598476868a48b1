package layout

import "testing"

func TestCompute_BreakpointSelection(t *testing.T) {
	bps := DefaultConfig().Grid.Breakpoints

	tests := []struct {
		name        string
		width       int
		wantColumns int
	}{
		{"very wide", 240, 5},
		{"exactly at 220", 220, 5},
		{"just below 220", 219, 4},
		{"exactly at 160", 160, 4},
		{"mid range", 120, 3},
		{"exactly at 100", 100, 3},
		{"narrow", 80, 2},
		{"tiny", 20, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.width, bps, 2)
			if got.Columns != tt.wantColumns {
				t.Errorf("Compute(%d) columns = %d, want %d",
					tt.width, got.Columns, tt.wantColumns)
			}
		})
	}
}

func TestCompute_ColumnWidth(t *testing.T) {
	bps := DefaultConfig().Grid.Breakpoints

	tests := []struct {
		name   string
		width  int
		gutter int
		want   int
	}{
		{"narrow two columns", 80, 2, 39},   // (80-2)/2 = 39
		{"three columns", 120, 2, 38},       // (120-4)/3 = 38, remainder 2
		{"four columns", 170, 2, 41},        // (170-6)/4 = 41
		{"five columns", 240, 2, 46},        // (240-8)/5 = 46, remainder 2
		{"zero gutter", 100, 0, 33},         // 100/3 = 33, remainder 1
		{"uneven remainder", 101, 2, 32},    // (101-4)/3 = 32, remainder 1
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.width, bps, tt.gutter)
			if got.ColumnWidth != tt.want {
				t.Errorf("Compute(%d, gutter %d) columnWidth = %d, want %d",
					tt.width, tt.gutter, got.ColumnWidth, tt.want)
			}
		})
	}
}

// The columns plus gutters must never exceed the container, for any width.
func TestCompute_NeverOverflows(t *testing.T) {
	bps := DefaultConfig().Grid.Breakpoints
	gutter := 2

	for width := 10; width <= 400; width++ {
		grid := Compute(width, bps, gutter)
		total := grid.ColumnWidth*grid.Columns + gutter*(grid.Columns-1)
		if total > width {
			t.Fatalf("width %d: %d columns of %d + gutters = %d overflows container",
				width, grid.Columns, grid.ColumnWidth, total)
		}
	}
}

// Repeated calls with identical inputs must yield identical results.
func TestCompute_Deterministic(t *testing.T) {
	bps := DefaultConfig().Grid.Breakpoints

	first := Compute(157, bps, 2)
	for i := 0; i < 10; i++ {
		got := Compute(157, bps, 2)
		if got != first {
			t.Fatalf("call %d: got %+v, want %+v", i, got, first)
		}
	}
}

func TestCalculateVisibleRows(t *testing.T) {
	tests := []struct {
		name       string
		height     int
		cellHeight int
		gutter     int
		want       int
	}{
		{"normal terminal", 24, 10, 1, 2},  // (24+1)/(10+1) = 2
		{"tall terminal", 50, 10, 1, 4},    // (50+1)/11 = 4
		{"too small clamps to one", 5, 10, 1, 1},
		{"zero cell height clamps", 24, 0, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateVisibleRows(tt.height, tt.cellHeight, tt.gutter)
			if got != tt.want {
				t.Errorf("CalculateVisibleRows(%d, %d, %d) = %d, want %d",
					tt.height, tt.cellHeight, tt.gutter, got, tt.want)
			}
		})
	}
}

func TestCalculateRowOffset(t *testing.T) {
	tests := []struct {
		name     string
		selected int
		total    int
		viewport int
		want     int
	}{
		{"all rows fit", 3, 4, 6, 0},
		{"selection at top", 0, 20, 6, 0},
		{"selection centered", 10, 20, 6, 7},
		{"selection at bottom clamps", 19, 20, 6, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateRowOffset(tt.selected, tt.total, tt.viewport)
			if got != tt.want {
				t.Errorf("CalculateRowOffset(%d, %d, %d) = %d, want %d",
					tt.selected, tt.total, tt.viewport, got, tt.want)
			}
		})
	}
}
