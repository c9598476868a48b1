package layout

import "testing"

func TestCalculateModalWidth(t *testing.T) {
	cfg := DefaultConfig().Modal

	tests := []struct {
		name          string
		terminalWidth int
		percent       int
		want          int
	}{
		{"normal terminal", 120, 50, 60},
		{"small terminal enforces min", 80, 50, 50},
		{"large terminal enforces max", 200, 50, 80},
		{"tiny terminal caps to width-4", 52, 50, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateModalWidth(tt.terminalWidth, tt.percent, cfg)
			if got != tt.want {
				t.Errorf("CalculateModalWidth(%d, %d) = %d, want %d",
					tt.terminalWidth, tt.percent, got, tt.want)
			}
		})
	}
}

func TestCalculateVisibleListItems(t *testing.T) {
	tests := []struct {
		name       string
		maxVisible int
		selected   int
		total      int
		wantStart  int
		wantEnd    int
	}{
		{"all items fit", 8, 2, 5, 0, 5},
		{"selection in first window", 8, 3, 20, 0, 8},
		{"selection past window scrolls", 8, 10, 20, 3, 11},
		{"selection at end clamps", 8, 19, 20, 12, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := CalculateVisibleListItems(tt.maxVisible, tt.selected, tt.total)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("CalculateVisibleListItems(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.maxVisible, tt.selected, tt.total, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}
