// Command trial-simulator generates synthetic trial recordings for exercising
// the segmentation pipeline end to end without lab data.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
)

func main() {
	var (
		task    = flag.String("task", "jump", "Trial type: jump, sitstand, or gait")
		rate    = flag.Float64("rate", 100, "Sample rate in Hz")
		cycles  = flag.Int("cycles", 5, "Number of movement cycles to generate")
		outPath = flag.String("out", "trial.csv", "Output CSV path")
	)
	flag.Parse()

	var header []string
	var columns [][]float64

	switch *task {
	case "jump":
		header, columns = jumpTrial(*rate, *cycles)
	case "sitstand":
		header, columns = sitStandTrial(*rate, *cycles)
	case "gait":
		header, columns = gaitTrial(*rate, *cycles)
	default:
		fmt.Fprintf(os.Stderr, "unknown task %q (want jump, sitstand, or gait)\n", *task)
		os.Exit(2)
	}

	if err := writeCSV(*outPath, header, columns); err != nil {
		fmt.Fprintf(os.Stderr, "writing %s: %v\n", *outPath, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d samples to %s\n", len(columns[0]), *outPath)
}

// jumpTrial alternates 2 s of 700 N ground contact with 0.3 s flights.
func jumpTrial(rate float64, cycles int) ([]string, [][]float64) {
	ground := int(2.0 * rate)
	flight := int(0.3 * rate)

	var force []float64
	for i := 0; i < cycles; i++ {
		force = appendN(force, 350, ground)
		force = appendN(force, 0, flight)
	}
	force = appendN(force, 350, ground)

	n := len(force)
	return []string{"time", "force_left", "force_right"},
		[][]float64{timeColumn(n, rate), force, force}
}

// sitStandTrial alternates sitting at 300 N and standing at 700 N with 1 s
// ramps, plus a knee velocity channel active slightly beyond each ramp.
func sitStandTrial(rate float64, cycles int) ([]string, [][]float64) {
	hold := int(2.0 * rate)
	rampN := int(1.0 * rate)
	lead := int(0.1 * rate)

	var force []float64
	var ramps [][2]int
	level := 300.0
	for i := 0; i < cycles; i++ {
		next := 700.0
		if level == 700.0 {
			next = 300.0
		}
		force = appendN(force, level/2, hold)
		ramps = append(ramps, [2]int{len(force), len(force) + rampN})
		for j := 0; j < rampN; j++ {
			force = append(force, (level+(next-level)*float64(j)/float64(rampN))/2)
		}
		level = next
	}
	force = appendN(force, level/2, hold)

	velocity := make([]float64, len(force))
	for _, r := range ramps {
		for i := r[0] - lead; i < r[1]+lead; i++ {
			if i >= 0 && i < len(velocity) {
				velocity[i] = 25
			}
		}
	}

	n := len(force)
	return []string{"time", "force_left", "force_right", "knee_velocity_left"},
		[][]float64{timeColumn(n, rate), force, force, velocity}
}

// gaitTrial produces heel-strike percentage channels with ~1.05 s strides,
// the right limb offset by half a stride.
func gaitTrial(rate float64, cycles int) ([]string, [][]float64) {
	stride := int(1.05 * rate)
	n := stride * (cycles + 1)

	left := make([]float64, n)
	right := make([]float64, n)
	for i := 0; i < n; i++ {
		left[i] = percentThroughStride(i, stride, 0)
		right[i] = percentThroughStride(i, stride, stride/2)
	}

	return []string{"time", "hs_left", "hs_right"},
		[][]float64{timeColumn(n, rate), left, right}
}

func percentThroughStride(i, stride, offset int) float64 {
	phase := (i + offset) % stride
	return math.Floor(100 * float64(phase) / float64(stride))
}

func timeColumn(n int, rate float64) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = float64(i) / rate
	}
	return col
}

func appendN(s []float64, v float64, n int) []float64 {
	for i := 0; i < n; i++ {
		s = append(s, v)
	}
	return s
}

func writeCSV(path string, header []string, columns [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	record := make([]string, len(columns))
	for i := 0; i < len(columns[0]); i++ {
		for j, col := range columns {
			record[j] = strconv.FormatFloat(col[i], 'f', 4, 64)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
