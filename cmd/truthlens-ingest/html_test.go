package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Caia-Tech/truthlens-ingest/pkg/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const savedPage = `<html><body><nav>Home | World | Science</nav><article><p>
The national weather service confirmed on Thursday that last month was the wettest
September since records began, with several regions receiving more than twice their
usual rainfall. Farmers in the river valleys reported flooded fields and delayed
harvests, while city engineers worked through the weekend to clear blocked drains.
Forecasters expect calmer conditions next week, but they advised residents in low lying
areas to keep sandbags ready and to follow local guidance, as published by Jones et al. (2022).
</p></article><footer>Contact us</footer></body></html>`

func TestHTMLCmd_WritesRecords(t *testing.T) {
	dir := t.TempDir()
	pagePath := filepath.Join(dir, "weather.html")
	reportPath := filepath.Join(dir, "out", "report.json")
	require.NoError(t, os.WriteFile(pagePath, []byte(savedPage), 0644))

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"html", "--log-level", "error", "--report", reportPath, pagePath, pagePath})

	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1, "the second copy is a duplicate")

	var record document.EnrichedDocument
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.True(t, strings.HasPrefix(record.SourceURL, "file://"))
	assert.True(t, record.HasCitations)
	assert.NotContains(t, record.Text, "contact us")

	report, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(report), `"state": "DONE"`)
}

func TestHTMLCmd_MissingFile(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"html", filepath.Join(t.TempDir(), "nope.html")})

	assert.Error(t, cmd.Execute())
}
