package assignments

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateField(t *testing.T) {
	bogota := time.FixedZone("COT", -5*60*60)
	tests := []struct {
		name        string
		json        string
		loc         *time.Location
		wantSet     bool
		want        *time.Time
		wantCleared bool
		wantErr     bool
	}{
		{"absent", `{}`, nil, false, nil, false, false},
		{"null", `{"d":null}`, nil, true, nil, true, false},
		{"empty", `{"d":""}`, nil, true, nil, true, false},
		{"date utc", `{"d":"2024-11-24"}`, nil, true, ptr(time.Date(2024, 11, 24, 0, 0, 0, 0, time.UTC)), false, false},
		{"date in display zone", `{"d":"2024-11-24"}`, bogota, true, ptr(time.Date(2024, 11, 24, 5, 0, 0, 0, time.UTC)), false, false},
		{"rfc3339 offset ignores zone", `{"d":"2024-11-24T10:00:00-05:00"}`, bogota, true, ptr(time.Date(2024, 11, 24, 15, 0, 0, 0, time.UTC)), false, false},
		{"bad", `{"d":"24/11/2024"}`, nil, true, nil, false, true},
		{"bad day", `{"d":"2024-02-30"}`, nil, true, nil, false, true},
		{"number", `{"d":20241124}`, nil, true, nil, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				D dateField `json:"d"`
			}
			err := json.Unmarshal([]byte(tt.json), &v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if v.D.Set != tt.wantSet {
				t.Errorf("Set = %v, want %v", v.D.Set, tt.wantSet)
			}
			if v.D.cleared() != tt.wantCleared {
				t.Errorf("cleared = %v, want %v", v.D.cleared(), tt.wantCleared)
			}
			got := v.D.In(tt.loc)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("In = %v, want nil", got)
			case tt.want != nil && (got == nil || !got.Equal(*tt.want)):
				t.Errorf("In = %v, want %v", got, tt.want)
			}
		})
	}
}

func ptr(t time.Time) *time.Time { return &t }
