// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package webcards

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHTML = `<html>
<body>
<script>
        const CARD_DATA = {
            "cards": [
                {"type": "money", "title": "old", "body": "stale"}
            ]
        };
        renderCards(CARD_DATA);
</script>
</body>
</html>`

func TestSpliceReplacesCardData(t *testing.T) {
	cards := []Card{
		{Type: "money", Title: "नया टिप", Body: "कुछ बचत सलाह"},
		{Type: "phone", Title: "डाटा", Body: "डाटा बचाने का तरीका"},
	}

	updated, err := Splice([]byte(sampleHTML), cards)
	require.NoError(t, err)

	out := string(updated)
	assert.NotContains(t, out, `"title": "old"`)
	assert.Contains(t, out, `"title": "नया टिप"`)
	assert.Contains(t, out, "const CARD_DATA = {")
	// The surrounding script survives unchanged.
	assert.Contains(t, out, "renderCards(CARD_DATA);")
	assert.True(t, strings.HasPrefix(out, "<html>"))
}

func TestSpliceRequiresMarker(t *testing.T) {
	_, err := Splice([]byte("<html><body>no constant here</body></html>"), []Card{{Type: "money"}})
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cards_output.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cards":[
		{"type":"money","title":"t","body":"b"},
		{"type":"govt","title":"t2","body":"b2"}
	]}`), 0o644))

	cards, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "govt", cards[1].Type)
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cards_output.json")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestUpdateFile(t *testing.T) {
	dir := t.TempDir()
	cardsPath := filepath.Join(dir, "cards_output.json")
	htmlPath := filepath.Join(dir, "index.html")

	require.NoError(t, os.WriteFile(cardsPath, []byte(`{"cards":[{"type":"kids","title":"पढ़ाई","body":"स्कूल टिप"}]}`), 0o644))
	require.NoError(t, os.WriteFile(htmlPath, []byte(sampleHTML), 0o644))

	count, err := UpdateFile(cardsPath, htmlPath)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	html, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), `"title": "पढ़ाई"`)
	assert.NotContains(t, string(html), `"title": "old"`)
}

func TestUpdateFileRejectsEmptyCards(t *testing.T) {
	dir := t.TempDir()
	cardsPath := filepath.Join(dir, "cards_output.json")
	htmlPath := filepath.Join(dir, "index.html")

	require.NoError(t, os.WriteFile(cardsPath, []byte(`{"cards":[]}`), 0o644))
	require.NoError(t, os.WriteFile(htmlPath, []byte(sampleHTML), 0o644))

	_, err := UpdateFile(cardsPath, htmlPath)
	assert.Error(t, err)
}
