package paging

import (
	"net/http/httptest"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   Page
	}{
		{"defaults", "/", Page{Number: 1, Size: PageSize}},
		{"page and limit", "/?page=3&limit=20", Page{Number: 3, Size: 20}},
		{"invalid page", "/?page=abc", Page{Number: 1, Size: PageSize}},
		{"zero page", "/?page=0", Page{Number: 1, Size: PageSize}},
		{"negative limit", "/?limit=-5", Page{Number: 1, Size: PageSize}},
		{"limit capped", "/?limit=5000", Page{Number: 1, Size: MaxPageSize}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(httptest.NewRequest("GET", tt.target, nil))
			if got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPage_Offset(t *testing.T) {
	tests := []struct {
		page Page
		want int64
	}{
		{Page{Number: 1, Size: 50}, 0},
		{Page{Number: 2, Size: 50}, 50},
		{Page{Number: 4, Size: 20}, 60},
	}
	for _, tt := range tests {
		if got := tt.page.Offset(); got != tt.want {
			t.Errorf("%+v.Offset() = %d, want %d", tt.page, got, tt.want)
		}
	}
}

func TestTrimPage(t *testing.T) {
	p := Page{Number: 1, Size: 3}

	rows := []int{1, 2, 3, 4}
	if !TrimPage(&rows, p) {
		t.Error("expected hasNext with a look-ahead row")
	}
	if len(rows) != 3 {
		t.Errorf("len = %d, want 3", len(rows))
	}

	rows = []int{1, 2}
	if TrimPage(&rows, p) {
		t.Error("expected no next page")
	}
	if len(rows) != 2 {
		t.Errorf("len = %d, want 2", len(rows))
	}
}
