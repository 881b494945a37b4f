// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package persona

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/valyala/fastjson"
)

const profilePlaceholder = "{USER_PROFILE_JSON}"

// cardPromptTemplate asks the model for the four card types the web app
// renders. The profile document is injected at the placeholder.
const cardPromptTemplate = `You are a personalization expert creating relevant, helpful content cards for a mobile app user in India.

Based on the user profile and context below, generate 4 personalized cards with content that is:
- Highly relevant to the user's current situation and needs
- Written in simple Hindi (Hinglish if technical terms needed)
- Actionable and helpful
- Appropriate for their device constraints and context

USER PROFILE DATA:
{USER_PROFILE_JSON}

REQUIRED OUTPUT FORMAT:
Generate exactly 4 cards with these types: "money", "kids", "govt", "phone"

Each card must have:
- type: one of ["money", "kids", "govt", "phone"]
- title: Short Hindi title (2-5 words)
- body: Helpful content in Hindi (20-40 words, simple language)

CARD GUIDELINES:
1. "money" card: Financial tips, savings advice, EMI reminders, cashflow management for small shop owners
2. "kids" card: Education tips, school information, scholarship opportunities, learning resources
3. "govt" card: Relevant government schemes, subsidies, benefits applicable to their situation
4. "phone" card: Phone optimization, battery saving, data saving tips, app management

Return ONLY valid JSON with a top-level "cards" array of 4 card objects.`

// BuildCards loads a generated profile document, asks the model for the card
// set, validates the reply, and writes it to outPath. Returns the number of
// cards generated.
func (b *Builder) BuildCards(ctx context.Context, profilePath, outPath string) (int, error) {
	start := time.Now()

	profile, err := os.ReadFile(profilePath)
	if err != nil {
		return 0, fmt.Errorf("read profile file: %w", err)
	}

	prompt, err := injectProfile(profile)
	if err != nil {
		return 0, err
	}

	b.logger.Info().
		Str("profile", profilePath).
		Str("model", b.model).
		Msg("requesting card generation")

	content, err := b.complete(ctx, prompt)
	if err != nil {
		return 0, err
	}

	count, err := validateCards([]byte(content))
	if err != nil {
		return 0, err
	}

	if err := writeJSONFile(outPath, normalizeModelJSON(content)); err != nil {
		return 0, err
	}

	b.logger.Info().
		Str("output", outPath).
		Int("cards", count).
		Dur("duration", time.Since(start)).
		Msg("cards written")

	return count, nil
}

func injectProfile(profile []byte) (string, error) {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, profile, "", "  "); err != nil {
		return "", fmt.Errorf("profile data is not valid JSON: %w", err)
	}
	return strings.ReplaceAll(cardPromptTemplate, profilePlaceholder, pretty.String()), nil
}

// validateCards checks that the model reply carries a non-empty cards array.
func validateCards(payload []byte) (int, error) {
	var parser fastjson.Parser
	v, err := parser.ParseBytes(payload)
	if err != nil {
		return 0, fmt.Errorf("model reply is not valid JSON: %w", err)
	}

	cards := v.GetArray("cards")
	if len(cards) == 0 {
		return 0, errors.New("model reply carries no cards")
	}
	return len(cards), nil
}
