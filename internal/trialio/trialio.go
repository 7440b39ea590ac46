// Package trialio reads trial recordings from CSV and writes segment lists
// in the supported interchange formats. It is deliberately thin: unit
// conversion, sign conventions, and validation-range checks belong to the
// lab-specific tooling that produces these files, not here.
package trialio

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/jmontp/LocoHub-sub016/internal/segmentation"
	"github.com/jmontp/LocoHub-sub016/internal/timeseries"
)

// TimeColumn is the required name of the CSV time column, in seconds.
const TimeColumn = "time"

// Format identifies a segment-list serialization.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
	FormatCSV     Format = "csv"
)

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatMsgpack:
		return FormatMsgpack, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unknown format %q (want json, msgpack, or csv)", s)
}

// LoadCSV reads a trial recording: a header row naming the columns, one of
// which must be "time", followed by numeric sample rows.
func LoadCSV(path string) (*timeseries.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trial file: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses a trial recording from r. See LoadCSV.
func ReadCSV(r io.Reader) (*timeseries.Table, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	timeIdx := -1
	for i, name := range header {
		if strings.TrimSpace(name) == TimeColumn {
			timeIdx = i
			break
		}
	}
	if timeIdx < 0 {
		return nil, fmt.Errorf("no %q column in header %v", TimeColumn, header)
	}

	columns := make([][]float64, len(header))
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading samples: %w", err)
		}
		if len(record) != len(header) {
			return nil, fmt.Errorf("row has %d fields, header has %d", len(record), len(header))
		}
		for i, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", header[i], err)
			}
			columns[i] = append(columns[i], v)
		}
	}

	tbl, err := timeseries.NewTable(columns[timeIdx])
	if err != nil {
		return nil, err
	}
	for i, name := range header {
		if i == timeIdx {
			continue
		}
		if err := tbl.AddChannel(strings.TrimSpace(name), columns[i]); err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

// WriteSegments serializes segments to w in the given format.
func WriteSegments(w io.Writer, segments []segmentation.Segment, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(segments)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(segments)
	case FormatCSV:
		return writeSegmentsCSV(w, segments)
	}
	return fmt.Errorf("unknown format %q", format)
}

// ReadSegments deserializes a segment list written by WriteSegments in JSON
// or msgpack format.
func ReadSegments(r io.Reader, format Format) ([]segmentation.Segment, error) {
	var segments []segmentation.Segment
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&segments); err != nil {
			return nil, fmt.Errorf("decoding json segments: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&segments); err != nil {
			return nil, fmt.Errorf("decoding msgpack segments: %w", err)
		}
	default:
		return nil, fmt.Errorf("cannot read format %q", format)
	}
	return segments, nil
}

func writeSegmentsCSV(w io.Writer, segments []segmentation.Segment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"kind", "start_index", "end_index", "start_time", "end_time",
		"duration", "flight_duration", "mid_time",
	}); err != nil {
		return err
	}
	for _, s := range segments {
		record := []string{
			string(s.Kind),
			strconv.Itoa(s.StartIndex),
			strconv.Itoa(s.EndIndex),
			strconv.FormatFloat(s.StartTime, 'f', 6, 64),
			strconv.FormatFloat(s.EndTime, 'f', 6, 64),
			strconv.FormatFloat(s.Duration, 'f', 6, 64),
			strconv.FormatFloat(s.FlightDuration, 'f', 6, 64),
			strconv.FormatFloat(s.MidTime, 'f', 6, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
