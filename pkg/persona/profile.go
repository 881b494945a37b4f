// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package persona

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const contextPlaceholder = "{CONTEXT_DATA}"

// InjectContext replaces the {CONTEXT_DATA} placeholder in the prompt
// template with the persona document pretty-printed as two-space-indented
// JSON, preserving the document's own key order.
func InjectContext(template string, contextData []byte) (string, error) {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, contextData, "", "  "); err != nil {
		return "", fmt.Errorf("persona data is not valid JSON: %w", err)
	}
	return strings.ReplaceAll(template, contextPlaceholder, pretty.String()), nil
}

// OutputPath derives the profile output filename from the persona filename
// stem, e.g. personas/kirana_shop.json -> <outDir>/kirana_shop_output.json.
func OutputPath(personaPath, outDir string) string {
	base := filepath.Base(personaPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, stem+"_output.json")
}

// BuildProfile loads the persona document and the prompt template, injects
// the persona into the template, asks the model for a profile, and saves the
// result under outDir. Returns the path of the written file.
func (b *Builder) BuildProfile(ctx context.Context, personaPath, templatePath, outDir string) (string, error) {
	start := time.Now()

	personaData, err := os.ReadFile(personaPath)
	if err != nil {
		return "", fmt.Errorf("read persona file: %w", err)
	}
	template, err := os.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("read prompt template: %w", err)
	}

	prompt, err := InjectContext(string(template), personaData)
	if err != nil {
		return "", err
	}

	b.logger.Info().
		Str("persona", personaPath).
		Str("model", b.model).
		Msg("requesting profile generation")

	content, err := b.complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	outPath := OutputPath(personaPath, outDir)
	if err := writeJSONFile(outPath, normalizeModelJSON(content)); err != nil {
		return "", err
	}

	b.logger.Info().
		Str("output", outPath).
		Dur("duration", time.Since(start)).
		Msg("profile written")

	return outPath, nil
}

// normalizeModelJSON returns the model reply as an indented JSON document. A
// reply that is not valid JSON is wrapped rather than rejected, matching the
// best-effort contract of the generation flow.
func normalizeModelJSON(content string) []byte {
	raw := []byte(content)
	if json.Valid(raw) {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, raw, "", "  "); err == nil {
			return pretty.Bytes()
		}
	}

	wrapped, err := json.MarshalIndent(map[string]string{
		"raw_response": content,
		"note":         "response was not valid JSON",
	}, "", "  ")
	if err != nil {
		// Marshalling two string fields cannot fail; keep the raw reply if it
		// somehow does.
		return raw
	}
	return wrapped
}

func writeJSONFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}
