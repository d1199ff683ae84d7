package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/app"
	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/config"
	"github.com/rlaaudgjs5638/mixAnalyzer/internal/mixer/infra"
	"github.com/rlaaudgjs5638/mixAnalyzer/shared/logger"
)

// Runs one analysis over a bounded batch and stores/exports the result.
//
//	analyze -input events.json -out result.json
//	analyze -config mixer.yaml          # kafka source etc. from config
func main() {
	configPath := flag.String("config", "", "config file path (optional)")
	inputPath := flag.String("input", "", "raw events file (overrides configured source)")
	outPath := flag.String("out", "", "write full result JSON here")
	noStore := flag.Bool("no-store", false, "skip persisting the run to the artifact store")
	quiet := flag.Bool("quiet", false, "suppress the text report")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Logging.Level)

	source, closeSource, err := buildSource(cfg, *inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "source: %v\n", err)
		os.Exit(1)
	}
	defer closeSource()

	analyzer, err := app.NewAnalyzer(cfg.Analysis)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analyzer: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	records, err := source.ReadBatch(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read batch: %v\n", err)
		os.Exit(1)
	}

	result, err := analyzer.Run(ctx, records)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		os.Exit(1)
	}

	if !*noStore {
		store, err := infra.NewBadgerArtifactStore(cfg.Store.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "artifact store: %v\n", err)
			os.Exit(1)
		}
		if err := store.SaveRun(result); err != nil {
			store.Close()
			fmt.Fprintf(os.Stderr, "save run: %v\n", err)
			os.Exit(1)
		}
		store.Close()
		logger.Infof("run %s stored at %s", result.RunID, cfg.Store.Path)
	}

	if *outPath != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "marshal result: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*outPath, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "write result: %v\n", err)
			os.Exit(1)
		}
		logger.Infof("result exported to %s", *outPath)
	}

	if !*quiet {
		fmt.Print(app.RenderTextReport(result))
	}
}

func buildSource(cfg *config.Config, inputOverride string) (infra.RawBatchSource, func(), error) {
	if inputOverride != "" {
		return infra.NewFileBatchSource(inputOverride), func() {}, nil
	}
	switch cfg.Source.Kind {
	case "file":
		if cfg.Source.Path == "" {
			return nil, nil, fmt.Errorf("file source needs -input or source.path")
		}
		return infra.NewFileBatchSource(cfg.Source.Path), func() {}, nil
	case "kafka":
		src := infra.NewKafkaBatchSource(infra.KafkaSourceConfig{
			Brokers:     cfg.Source.Brokers,
			Topic:       cfg.Source.Topic,
			GroupID:     cfg.Source.GroupID,
			MaxRecords:  cfg.Source.MaxRecords,
			IdleTimeout: cfg.Source.IdleTimeout,
		})
		return src, func() { _ = src.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}
