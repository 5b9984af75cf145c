// Command mobility-etl imports a raw trip CSV export into a MobilityDB
// append-only log, ready to be served by the mobilitydb binary.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/urbanlens/mobilitydb/internal/etl"
	"github.com/urbanlens/mobilitydb/internal/store"
	"github.com/urbanlens/mobilitydb/pkg/persistence"
)

func main() {
	csvPath := flag.String("csv", "train.csv", "Path of the source CSV file")
	logPath := flag.String("log-path", "mobilitydb.log", "Path of the append-only trip log to write")
	chunkSize := flag.Int("chunk-size", etl.DefaultChunkSize, "Rows to process per batch")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	st := store.New()
	if _, err := store.LoadFromLog(st, *logPath); err != nil {
		slog.Error("could not replay existing log", "path", *logPath, "error", err)
		os.Exit(1)
	}

	logWriter, err := persistence.NewLogWriter(*logPath)
	if err != nil {
		slog.Error("could not open trip log", "path", *logPath, "error", err)
		os.Exit(1)
	}

	pipeline := etl.NewPipeline(st,
		etl.WithLogWriter(logWriter),
		etl.WithChunkSize(*chunkSize),
	)

	res, err := pipeline.RunFile(*csvPath)
	if err != nil {
		slog.Error("import failed", "error", err)
		logWriter.Close()
		os.Exit(1)
	}
	if err := logWriter.Close(); err != nil {
		slog.Error("could not close trip log", "error", err)
		os.Exit(1)
	}

	slog.Info("import finished",
		"trips", res.Trips,
		"vendors", res.Vendors,
		"locations", res.Locations,
		"skipped", res.Skipped,
		"chunks", res.Chunks,
	)
}
