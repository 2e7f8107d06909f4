// Command sample-predict runs one prediction from a CSV file and
// prints the result. Useful for smoke-testing an artifact bundle
// without standing up the HTTP server.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/gridsense/powercast/powercast"
)

func main() {
	artifactDir := flag.String("artifacts", "artifacts", "artifact bundle directory")
	csvPath := flag.String("csv", "", "CSV file holding one lookback window")
	policy := flag.String("plausibility", "warn", "out-of-range policy: off, warn or reject")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if *csvPath == "" {
		log.Fatal().Msg("-csv is required")
	}

	arts, err := powercast.LoadArtifacts(*artifactDir)
	if err != nil {
		log.Fatal().Err(err).Msg("artifact load failed")
	}

	file, err := os.Open(*csvPath)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open csv")
	}
	defer file.Close()

	raw, err := powercast.ReadCSV(file)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot parse csv")
	}

	predictor := powercast.NewPredictor(arts, powercast.PlausibilityWarn)
	switch *policy {
	case "off":
		predictor = powercast.NewPredictor(arts, powercast.PlausibilityOff)
	case "warn":
	case "reject":
		predictor = powercast.NewPredictor(arts, powercast.PlausibilityReject)
	default:
		log.Fatal().Str("plausibility", *policy).Msg("unknown policy")
	}

	result, err := predictor.Predict(raw)
	if err != nil {
		log.Fatal().Err(err).Msg("prediction failed")
	}

	for _, w := range result.Warnings {
		log.Warn().Msg(w.String())
	}

	fmt.Printf("predicted next-hour %s: %.3f kW\n", arts.Config.TargetColumn, result.PredictedKW)
	fmt.Printf("last %d hourly values (kW):", len(result.HistoryKW))
	for _, v := range result.HistoryKW {
		fmt.Printf(" %.3f", v)
	}
	fmt.Println()
}
