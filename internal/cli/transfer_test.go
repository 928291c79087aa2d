package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noyllopa/LiquidNewtab/internal/config"
	"github.com/Noyllopa/LiquidNewtab/internal/logger"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		StoreBackend:   config.BackendSQLite,
		SQLitePath:     filepath.Join(t.TempDir(), "liquidtab.db"),
		SystemTheme:    "dark",
		PageBackground: "#1f2937",
		EnginesEnabled: true,
	}
}

func TestImportThenExportAcrossOpens(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)
	log := logger.NewNop()

	in := `{
	  "shortcuts": [{"name": "GitHub", "url": "https://github.com"}],
	  "gridCols": 5,
	  "colorMode": "light",
	  "favicons": {"favicon_github.com": "data:image/png;base64,AA=="}
	}`
	report, err := runImport(ctx, cfg, log, strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Favicons)

	var out bytes.Buffer
	require.NoError(t, runExport(ctx, cfg, log, &out))

	body := out.String()
	assert.Contains(t, body, `"https://github.com"`)
	assert.Contains(t, body, `"favicon_github.com"`)
	assert.Contains(t, body, `"colorMode"`)
}

func TestImportMalformedFails(t *testing.T) {
	_, err := runImport(context.Background(), sqliteConfig(t), logger.NewNop(), strings.NewReader("{"))
	assert.Error(t, err)
}

func TestExportCommandWritesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LIQUIDTAB_STORE", "sqlite")
	t.Setenv("LIQUIDTAB_SQLITE_PATH", filepath.Join(dir, "liquidtab.db"))
	t.Setenv("LIQUIDTAB_LOG_LEVEL", "error")

	output := filepath.Join(dir, "export.json")
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"export", "-o", output})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.JSONEq(t, `{"customBg": null, "favicons": {}}`, string(data))
}

func TestImportCommandRequiresFile(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"import"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}
