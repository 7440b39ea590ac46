// Command locohub-segment runs movement-cycle detection on one trial
// recording and reports, stores, or exports the resulting segments.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/jmontp/LocoHub-sub016/internal/database"
	"github.com/jmontp/LocoHub-sub016/internal/exporter"
	"github.com/jmontp/LocoHub-sub016/internal/log"
	"github.com/jmontp/LocoHub-sub016/internal/segmentation"
	"github.com/jmontp/LocoHub-sub016/internal/trialio"
)

func main() {
	var (
		input      = flag.String("input", "", "Trial CSV file (required)")
		archetype  = flag.String("archetype", "", "Detection archetype: gait, standing, or sitstand (required)")
		subject    = flag.String("subject", "", "Subject identifier for stored trials")
		task       = flag.String("task", "", "Task label for stored trials")
		dbPath     = flag.String("db", "", "Optional sqlite trial store to append to")
		warehouse  = flag.String("warehouse", "", "Optional Postgres connection string to export to")
		outPath    = flag.String("out", "", "Optional segment output file")
		formatName = flag.String("format", "json", "Output format: json, msgpack, or csv")
		adaptive   = flag.Bool("adaptive", true, "Use adaptive IQR duration filtering")
		leftForce  = flag.String("left-force", "force_left", "Left vertical force column")
		rightForce = flag.String("right-force", "force_right", "Right vertical force column")
		leftHS     = flag.String("left-hs", "hs_left", "Left heel-strike percentage column")
		rightHS    = flag.String("right-hs", "hs_right", "Right heel-strike percentage column")
		velocities = flag.String("velocity-columns", "", "Comma-separated joint velocity columns (sitstand only)")
		debug      = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	if err := log.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *input == "" || *archetype == "" {
		flag.Usage()
		os.Exit(2)
	}

	tbl, err := trialio.LoadCSV(*input)
	if err != nil {
		log.Fatalf("loading trial: %v", err)
	}
	log.Infof("Loaded %s: %d samples, %d channels, dt=%.4fs",
		*input, tbl.Len(), len(tbl.ChannelNames()), tbl.Dt())

	seg, err := buildSegmenter(*archetype, segmenterOptions{
		adaptive:   *adaptive,
		leftForce:  *leftForce,
		rightForce: *rightForce,
		leftHS:     *leftHS,
		rightHS:    *rightHS,
		velocities: splitColumns(*velocities),
	})
	if err != nil {
		log.Fatalf("configuring detector: %v", err)
	}

	segments, err := seg.Detect(tbl)
	if err != nil {
		log.Fatalf("detection failed: %v", err)
	}

	printSummary(segments)

	if *outPath != "" {
		format, err := trialio.ParseFormat(*formatName)
		if err != nil {
			log.Fatalf("%v", err)
		}
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("creating output file: %v", err)
		}
		if err := trialio.WriteSegments(f, segments, format); err != nil {
			f.Close()
			log.Fatalf("writing segments: %v", err)
		}
		f.Close()
		log.Infof("Wrote %d segments to %s", len(segments), *outPath)
	}

	if *dbPath == "" && *warehouse == "" {
		return
	}

	sampleRate := 0.0
	if dt := tbl.Dt(); dt > 0 {
		sampleRate = 1.0 / dt
	}
	trial := database.Trial{
		Subject:    *subject,
		Task:       *task,
		Archetype:  *archetype,
		SourceFile: *input,
		SampleRate: sampleRate,
	}

	if *dbPath != "" {
		store, err := database.NewClient(*dbPath, log.GetSugaredLogger())
		if err != nil {
			log.Fatalf("opening trial store: %v", err)
		}
		defer store.Close()

		trial.ID, err = store.SaveTrial(context.Background(), trial, segments)
		if err != nil {
			log.Fatalf("storing trial: %v", err)
		}
		log.Infof("Stored trial %s in %s", trial.ID, *dbPath)

		if *warehouse != "" {
			records, err := store.GetSegments(context.Background(), trial.ID)
			if err != nil {
				log.Fatalf("reading stored segments: %v", err)
			}
			stored, _, err := store.GetTrial(context.Background(), trial.ID)
			if err != nil {
				log.Fatalf("reading stored trial: %v", err)
			}

			wh := exporter.NewClient(log.GetSugaredLogger())
			if err := wh.Connect(*warehouse); err != nil {
				log.Fatalf("%v", err)
			}
			if err := wh.ExportTrial(stored, records); err != nil {
				log.Fatalf("exporting trial: %v", err)
			}
		}
	} else {
		log.Warnf("-warehouse requires -db; skipping export")
	}
}

type segmenterOptions struct {
	adaptive   bool
	leftForce  string
	rightForce string
	leftHS     string
	rightHS    string
	velocities []string
}

func buildSegmenter(archetype string, opts segmenterOptions) (segmentation.Segmenter, error) {
	switch archetype {
	case "gait":
		cfg := segmentation.DefaultGaitConfig()
		cfg.LeftColumn = opts.leftHS
		cfg.RightColumn = opts.rightHS
		cfg.Filter.Adaptive = opts.adaptive
		return segmentation.NewGaitSegmenter(cfg)
	case "standing":
		cfg := segmentation.DefaultStandingConfig()
		cfg.LeftForceColumn = opts.leftForce
		cfg.RightForceColumn = opts.rightForce
		cfg.Filter.Adaptive = opts.adaptive
		return segmentation.NewStandingSegmenter(cfg)
	case "sitstand":
		cfg := segmentation.DefaultSitStandConfig()
		cfg.LeftForceColumn = opts.leftForce
		cfg.RightForceColumn = opts.rightForce
		if len(opts.velocities) > 0 {
			cfg.VelocityColumns = opts.velocities
		}
		cfg.Filter.Adaptive = opts.adaptive
		return segmentation.NewSitStandSegmenter(cfg)
	}
	return nil, fmt.Errorf("unknown archetype %q (want gait, standing, or sitstand)", archetype)
}

func splitColumns(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func printSummary(segments []segmentation.Segment) {
	summary := segmentation.Summarize(segments)
	fmt.Printf("Detected %d segments\n", len(segments))
	for kind, count := range summary {
		fmt.Printf("  %-14s %d\n", kind, count)
	}

	if len(segments) == 0 {
		return
	}
	durations := make([]float64, len(segments))
	for i, s := range segments {
		durations[i] = s.Duration
	}
	mean, std := stat.MeanStdDev(durations, nil)
	fmt.Printf("Duration: mean %.3fs, sd %.3fs\n", mean, std)
}
