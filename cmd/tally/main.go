// Package main provides the tally CLI: it runs the fetch pipeline
// against a gateway and prints the playlist duration report.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"

	"github.com/playtally/playtally/internal/app/pipeline"
	"github.com/playtally/playtally/internal/domain/playlist"
	"github.com/playtally/playtally/internal/infra/logger"
	"github.com/playtally/playtally/internal/infra/youtube"
)

var (
	app         = kingpin.New("playtally", "Report the total running time of a YouTube playlist")
	gatewayAddr = app.Flag("gateway", "Gateway address").Default("http://localhost:3000").String()
	verbose     = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	reference   = app.Arg("playlist", "Playlist URL (or any URL carrying a list= parameter)").Required().String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	level := "error"
	if *verbose {
		level = "debug"
	}
	if err := logger.Init(logger.Config{Output: "stderr", Level: level}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	id, ok := playlist.ExtractID(*reference)
	if !ok {
		fmt.Fprintln(os.Stderr, "Invalid YouTube playlist URL")
		os.Exit(1)
	}

	client, err := youtube.New(youtube.Config{BaseURL: *gatewayAddr})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	report, err := pipeline.New(client, pipeline.Config{}).Run(context.Background(), id)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrNoValidItems):
			fmt.Fprintln(os.Stderr, "The playlist contains no usable videos")
		default:
			fmt.Fprintln(os.Stderr, "An error occurred while fetching the playlist data")
		}
		fmt.Fprintf(os.Stderr, "Cause: %v\n", err)
		os.Exit(1)
	}

	printReport(report)
}

func printReport(report *playlist.Report) {
	fmt.Printf("Total Duration: %s\n\n", report.Total.Format())
	for i, v := range report.Videos {
		fmt.Printf("%3d. %s (%s)\n     %s\n", i+1, v.Title, v.Duration.Format(), v.URL)
	}
}
