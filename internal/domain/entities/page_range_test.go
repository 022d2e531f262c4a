package entities_test

import (
	"reflect"
	"testing"

	"pdfcompressor/internal/domain/entities"
)

func TestParsePageRange(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		total    int
		expected entities.PageSelection
	}{
		{"Mixed ranges", "1-5,8,12-15", 20, entities.PageSelection{1, 2, 3, 4, 5, 8, 12, 13, 14, 15}},
		{"Spaces", " 1 - 3 , 5 ", 10, entities.PageSelection{1, 2, 3, 5}},
		{"Empty means all", "", 4, entities.PageSelection{1, 2, 3, 4}},
		{"Whitespace means all", "   ", 3, entities.PageSelection{1, 2, 3}},
		{"Clamp upper bound", "18-25", 20, entities.PageSelection{18, 19, 20}},
		{"Clamp lower bound", "0-2", 5, entities.PageSelection{1, 2}},
		{"Single page past end clamps to last", "25", 20, entities.PageSelection{20}},
		{"Span past end clamps to last", "22-30", 20, entities.PageSelection{20}},
		{"Single page zero clamps to first", "0", 5, entities.PageSelection{1}},
		{"Reversed span", "5-3", 10, entities.PageSelection{}},
		{"Duplicates", "3,1-3,2", 10, entities.PageSelection{1, 2, 3}},
		{"Unsorted input", "9,2,5", 10, entities.PageSelection{2, 5, 9}},
		{"Malformed skipped", "abc,2,x-4,1-2-3,,7", 10, entities.PageSelection{2, 7}},
		{"All malformed", "foo,bar", 10, entities.PageSelection{}},
		{"No pages in document", "1-3", 0, entities.PageSelection{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := entities.ParsePageRange(tt.expr, tt.total)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ParsePageRange(%q, %d) = %v, want %v", tt.expr, tt.total, got, tt.expected)
			}
		})
	}
}

func TestParsePageRange_Idempotent(t *testing.T) {
	exprs := []string{"1-5,8,12-15", "3,3,2-4", "18-25", "", "7,1,4-6"}

	for _, expr := range exprs {
		first := entities.ParsePageRange(expr, 20)
		second := entities.ParsePageRange(expr, 20)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Parsing %q twice differs: %v vs %v", expr, first, second)
		}

		// Каноническая запись разбирается в ту же выборку
		again := entities.ParsePageRange(first.String(), 20)
		if !reflect.DeepEqual(first, again) {
			t.Errorf("Round trip of %q via %q differs: %v vs %v", expr, first.String(), first, again)
		}
	}
}

func TestPageSelection_String(t *testing.T) {
	tests := []struct {
		selection entities.PageSelection
		expected  string
	}{
		{entities.PageSelection{1, 2, 3, 4, 5, 8, 12, 13, 14, 15}, "1-5,8,12-15"},
		{entities.PageSelection{4}, "4"},
		{entities.PageSelection{}, ""},
		{entities.PageSelection{1, 3, 5}, "1,3,5"},
	}

	for _, tt := range tests {
		if got := tt.selection.String(); got != tt.expected {
			t.Errorf("String() = %q, want %q", got, tt.expected)
		}
	}
}

func TestPageSelection_Contains(t *testing.T) {
	s := entities.PageSelection{2, 4, 6}
	if !s.Contains(4) || s.Contains(5) || s.Contains(7) {
		t.Errorf("Contains gave unexpected results for %v", s)
	}
}
