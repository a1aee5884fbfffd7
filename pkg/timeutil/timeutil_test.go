package timeutil

import "testing"

func TestParseTimeToSeconds(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "90", want: 90},
		{in: "2.5", want: 2.5},
		{in: "1:30", want: 90},
		{in: "1:02.25", want: 62.25},
		{in: "1:01:01", want: 3661},
		{in: "0:00:03.5", want: 3.5},
		{in: " 12 ", want: 12},
		{in: "75:00", want: 4500},
		{in: "1:60", wantErr: true},
		{in: "1:61:00", wantErr: true},
		{in: "1:2:3:4", wantErr: true},
		{in: "-3", wantErr: true},
		{in: "a:10", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseTimeToSeconds(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTimeToSeconds(%q) = %v, want error", tt.in, got)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseTimeToSeconds(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00:00"},
		{90.9, "0:01:30"},
		{4282, "1:11:22"},
		{-5, "0:00:00"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.in); got != tt.want {
			t.Errorf("FormatTime(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPrecise(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00.000"},
		{3.003, "0:03.003"},
		{62.25, "1:02.250"},
		{59.9996, "1:00.000"},
		{3661.5, "1:01:01.500"},
		{-1, "0:00.000"},
	}
	for _, tt := range tests {
		if got := FormatPrecise(tt.in); got != tt.want {
			t.Errorf("FormatPrecise(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
