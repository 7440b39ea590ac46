package trialio

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/jmontp/LocoHub-sub016/internal/segmentation"
)

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		"time,force_left,force_right",
		"0.00,350,350",
		"0.01,348,352",
		"0.02,351,349",
	}, "\n")

	tbl, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}

	if tbl.Len() != 3 {
		t.Fatalf("expected 3 samples, got %d", tbl.Len())
	}
	if math.Abs(tbl.Dt()-0.01) > 1e-9 {
		t.Errorf("dt = %.4f, expected 0.01", tbl.Dt())
	}

	left, ok := tbl.Channel("force_left")
	if !ok {
		t.Fatal("force_left channel missing")
	}
	if left[1] != 348 {
		t.Errorf("force_left[1] = %.1f, expected 348", left[1])
	}
	if tbl.HasChannel("time") {
		t.Error("time must be the table's time column, not a channel")
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "missing time column",
			input: "force_left,force_right\n350,350\n",
		},
		{
			name:  "non-numeric sample",
			input: "time,force_left\n0.00,abc\n",
		},
		{
			name:  "ragged row",
			input: "time,force_left\n0.00,350,999\n",
		},
		{
			name:  "time not increasing",
			input: "time,force_left\n0.01,350\n0.01,350\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSegmentRoundTrip(t *testing.T) {
	segments := []segmentation.Segment{
		{
			Kind:       segmentation.KindJumpCycle,
			StartIndex: 230, EndIndex: 460,
			StartTime: 2.30, EndTime: 4.60,
			Duration: 2.30, FlightDuration: 0.28,
		},
		{
			Kind:       segmentation.KindSitToStand,
			StartIndex: 195, EndIndex: 305,
			StartTime: 1.95, EndTime: 3.05,
			Duration: 1.10, MidTime: 2.76,
		},
	}

	for _, format := range []Format{FormatJSON, FormatMsgpack} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteSegments(&buf, segments, format); err != nil {
				t.Fatal(err)
			}
			decoded, err := ReadSegments(&buf, format)
			if err != nil {
				t.Fatal(err)
			}
			if len(decoded) != len(segments) {
				t.Fatalf("expected %d segments, got %d", len(segments), len(decoded))
			}
			for i := range segments {
				if decoded[i] != segments[i] {
					t.Errorf("segment %d: expected %+v, got %+v", i, segments[i], decoded[i])
				}
			}
		})
	}
}

func TestWriteSegmentsCSVHeader(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSegments(&buf, []segmentation.Segment{
		{Kind: segmentation.KindGaitCycle, StartIndex: 10, EndIndex: 109, Duration: 0.99},
	}, FormatCSV)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "kind,start_index,end_index") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "gait_cycle,10,109") {
		t.Errorf("unexpected row: %s", lines[1])
	}
}

func TestParseFormat(t *testing.T) {
	if _, err := ParseFormat("parquet"); err == nil {
		t.Error("expected error for unsupported format")
	}
	f, err := ParseFormat("MSGPACK")
	if err != nil {
		t.Fatal(err)
	}
	if f != FormatMsgpack {
		t.Errorf("expected msgpack, got %s", f)
	}
}
