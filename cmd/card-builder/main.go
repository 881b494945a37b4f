// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Command card-builder turns a generated persona profile into the four
// personalized content cards rendered by the web app.
package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/persona-cards/relay/pkg/persona"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	profilePath := flag.String("profile", "outputs/kirana_shop_output.json", "generated profile JSON file")
	outPath := flag.String("out", "cards_output.json", "cards output file")
	model := flag.String("model", persona.DefaultModel, "model identifier")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	apiKey := strings.TrimSpace(os.Getenv("OPENROUTER_API_KEY"))
	baseURL := strings.TrimSpace(os.Getenv("RELAY_UPSTREAM_BASE_URL"))

	builder, err := persona.NewBuilder(apiKey, baseURL, *model)
	if err != nil {
		log.Fatal().Err(err).Msg("OPENROUTER_API_KEY must be set")
	}

	count, err := builder.BuildCards(context.Background(), *profilePath, *outPath)
	if err != nil {
		log.Fatal().Err(err).Msg("card generation failed")
	}

	log.Info().Str("output", *outPath).Int("cards", count).Msg("card builder finished")
}
