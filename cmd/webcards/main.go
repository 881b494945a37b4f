// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Command webcards splices the latest generated cards into the static web
// app HTML. Run it after card-builder has produced a new cards_output.json.
package main

import (
	"flag"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/persona-cards/relay/pkg/webcards"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	cardsPath := flag.String("cards", "frontend/cards/cards_output.json", "generated cards JSON file")
	htmlPath := flag.String("html", "web-app/index.html", "web app HTML file to update")
	flag.Parse()

	count, err := webcards.UpdateFile(*cardsPath, *htmlPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to update web app")
	}

	log.Info().
		Str("html", *htmlPath).
		Int("cards", count).
		Msg("web app updated")
}
