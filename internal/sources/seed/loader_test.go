package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoaderLoad(t *testing.T) {
	path := writeSeed(t, `---
shortcuts:
  - Daily:
      - GitHub:
          href: https://github.com
      - Mail:
          href: mail.example.com
          icon: https://mail.example.com/icon.png
engines:
  - bing:
      name: Bing
      url: https://www.bing.com/search?q=%s
preferredEngine: bing
`)

	file, err := NewLoader(path).Load()
	require.NoError(t, err)

	require.Len(t, file.Shortcuts, 1)
	assert.Len(t, file.Shortcuts[0]["Daily"], 2)
	require.Len(t, file.Engines, 1)
	assert.Equal(t, "Bing", file.Engines[0]["bing"].Name)
	assert.Equal(t, "bing", file.PreferredEngine)
}

func TestLoaderAcceptsHomepageServices(t *testing.T) {
	path := writeSeed(t, `---
- Infrastructure:
    - AdGuard Home:
        icon: adguard-home.svg
        href: https://adguard.domain.ext
        description: Network-wide ads & trackers blocking DNS server
`)

	file, err := NewLoader(path).Load()
	require.NoError(t, err)
	require.Len(t, file.Shortcuts, 1)
	assert.Equal(t, "https://adguard.domain.ext", file.Shortcuts[0]["Infrastructure"][0]["AdGuard Home"].Href)
}

func TestLoaderStripsTemplateVariables(t *testing.T) {
	path := writeSeed(t, `---
- Infrastructure:
    - AdGuard Home:
        href: {{HOMEPAGE_VAR_ADGUARD_URL}}
`)

	file, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "", file.Shortcuts[0]["Infrastructure"][0]["AdGuard Home"].Href)
}

func TestLoaderErrors(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "missing.yaml")).Load()
	assert.Error(t, err)

	_, err = NewLoader(writeSeed(t, "shortcuts: [")).Load()
	assert.Error(t, err)

	_, err = NewLoader(writeSeed(t, "just a string")).Load()
	assert.Error(t, err)
}

func TestParseEmpty(t *testing.T) {
	file, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, file.Shortcuts)
}
