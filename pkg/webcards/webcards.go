// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

// Package webcards splices a generated cards document into the static web
// app by replacing its embedded CARD_DATA constant with the latest JSON.
package webcards

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// cardDataPattern matches the CARD_DATA constant embedded in the web app's
// HTML, including the cards array it wraps.
var cardDataPattern = regexp.MustCompile(`(?s)const CARD_DATA = \{[^}]*"cards": \[[^\]]*\][^}]*\};`)

// cardIndent mirrors the indentation depth of the script block the constant
// lives in, so the spliced JSON lines up with the surrounding source.
var cardIndent = strings.Repeat(" ", 12)

// Card is one rendered tile in the web app.
type Card struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

type cardsDocument struct {
	Cards []Card `json:"cards"`
}

// Load reads the cards array from a generated cards JSON artifact.
func Load(path string) ([]Card, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cards file: %w", err)
	}

	var doc cardsDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse cards file: %w", err)
	}
	return doc.Cards, nil
}

// Splice replaces the CARD_DATA block in the HTML document with the given
// cards. Returns an error when the block cannot be located, leaving the
// document untouched.
func Splice(html []byte, cards []Card) ([]byte, error) {
	if !cardDataPattern.Match(html) {
		return nil, errors.New("CARD_DATA block not found in document")
	}

	payload, err := json.MarshalIndent(cardsDocument{Cards: cards}, "", cardIndent)
	if err != nil {
		return nil, fmt.Errorf("encode cards: %w", err)
	}

	replacement := []byte("const CARD_DATA = " + string(payload) + ";")
	return cardDataPattern.ReplaceAllLiteral(html, replacement), nil
}

// UpdateFile loads cards from cardsPath and rewrites the CARD_DATA block in
// the HTML file at htmlPath in place. Returns the number of cards spliced.
func UpdateFile(cardsPath, htmlPath string) (int, error) {
	cards, err := Load(cardsPath)
	if err != nil {
		return 0, err
	}
	if len(cards) == 0 {
		return 0, errors.New("no cards to splice")
	}

	html, err := os.ReadFile(htmlPath)
	if err != nil {
		return 0, fmt.Errorf("read web app html: %w", err)
	}

	updated, err := Splice(html, cards)
	if err != nil {
		return 0, err
	}

	if err := os.WriteFile(htmlPath, updated, 0o644); err != nil {
		return 0, fmt.Errorf("write web app html: %w", err)
	}
	return len(cards), nil
}
