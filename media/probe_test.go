package media

import (
	"errors"
	"testing"
)

func TestParseProbe(t *testing.T) {
	tests := []struct {
		name          string
		json          string
		wantTicks     int64
		wantTimescale int32
		wantW, wantH  int
		wantErr       bool
	}{
		{
			name: "stream time base",
			json: `{"format":{"duration":"3.003000"},"streams":[{"codec_type":"video","codec_name":"h264",
				"width":1920,"height":1080,"r_frame_rate":"30000/1001","time_base":"1/30000","duration_ts":90090}]}`,
			wantTicks: 90090, wantTimescale: 30000, wantW: 1920, wantH: 1080,
		},
		{
			name: "falls back to format duration",
			json: `{"format":{"duration":"10.5"},"streams":[{"codec_type":"video","width":640,"height":360,
				"time_base":"1001/30000"}]}`,
			wantTicks: 6300, wantTimescale: 600, wantW: 640, wantH: 360,
		},
		{
			name: "rotate tag swaps dimensions",
			json: `{"format":{"duration":"2"},"streams":[{"codec_type":"video","width":1920,"height":1080,
				"tags":{"rotate":"90"}}]}`,
			wantTicks: 1200, wantTimescale: 600, wantW: 1080, wantH: 1920,
		},
		{
			name: "display matrix rotation swaps dimensions",
			json: `{"format":{"duration":"2"},"streams":[{"codec_type":"video","width":1920,"height":1080,
				"side_data_list":[{"rotation":-90}]}]}`,
			wantTicks: 1200, wantTimescale: 600, wantW: 1080, wantH: 1920,
		},
		{
			name: "skips audio streams",
			json: `{"format":{"duration":"4"},"streams":[{"codec_type":"audio"},{"codec_type":"video","width":320,"height":240,
				"time_base":"1/90000","duration_ts":360000}]}`,
			wantTicks: 360000, wantTimescale: 90000, wantW: 320, wantH: 240,
		},
		{
			name:    "no duration",
			json:    `{"format":{},"streams":[{"codec_type":"video","width":320,"height":240}]}`,
			wantErr: true,
		},
		{
			name:    "malformed json",
			json:    `{"format":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asset, err := ParseProbe([]byte(tt.json))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseProbe() = %+v, want error", asset)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseProbe() error: %v", err)
			}
			if asset.DurationTicks != tt.wantTicks || asset.Timescale != tt.wantTimescale {
				t.Errorf("duration = %d/%d, want %d/%d", asset.DurationTicks, asset.Timescale, tt.wantTicks, tt.wantTimescale)
			}
			if asset.Width != tt.wantW || asset.Height != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", asset.Width, asset.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestParseProbeNoVideo(t *testing.T) {
	_, err := ParseProbe([]byte(`{"format":{"duration":"3"},"streams":[{"codec_type":"audio"}]}`))
	if !errors.Is(err, ErrNoVideoStream) {
		t.Errorf("ParseProbe() = %v, want ErrNoVideoStream", err)
	}
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"30/1", 30},
		{"30000/1001", 30000.0 / 1001.0},
		{"25", 25},
		{"0/0", 0},
		{"", 0},
		{"abc/1", 0},
	}
	for _, tt := range tests {
		if got := ParseFrameRate(tt.in); got != tt.want {
			t.Errorf("ParseFrameRate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAssetTrack(t *testing.T) {
	a := &Asset{DurationTicks: 90090, Timescale: 30000}
	tr := a.Track(120)
	if tr.WidthPixels != 120 || tr.DurationTicks != 90090 || tr.Timescale != 30000 {
		t.Errorf("Track() = %+v", tr)
	}
	if got := a.DurationSeconds(); got != 3.003 {
		t.Errorf("DurationSeconds() = %v, want 3.003", got)
	}
}
