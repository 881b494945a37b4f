// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Command profile-builder loads a persona document, injects it into the
// memory-builder prompt template, and asks the configured model to generate
// a user profile saved under the output directory.
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

	personaPath := flag.String("persona", "personas/kirana_shop.json", "persona JSON file")
	templatePath := flag.String("template", "prompt/memory_builder.md", "prompt template with {CONTEXT_DATA} placeholder")
	outDir := flag.String("out", "outputs", "output directory")
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

	outPath, err := builder.BuildProfile(context.Background(), *personaPath, *templatePath, *outDir)
	if err != nil {
		log.Fatal().Err(err).Msg("profile generation failed")
	}

	log.Info().Str("output", outPath).Msg("profile builder finished")
}
