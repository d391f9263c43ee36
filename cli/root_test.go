package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "storefront", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"serve", "migrate", "seed", "export-products"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)

	export, _, err := cmd.Find([]string{"export-products"})
	require.NoError(t, err)
	out := export.Flags().Lookup("out")
	require.NotNil(t, out)
	assert.Equal(t, "products.xlsx", out.DefValue)

	seedCmd, _, err := cmd.Find([]string{"seed"})
	require.NoError(t, err)
	assert.NotNil(t, seedCmd.Flags().Lookup("file"))
}

func TestLoadCatalog(t *testing.T) {
	builtin, err := loadCatalog("")
	require.NoError(t, err)
	assert.NotEmpty(t, builtin.Products)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
categories:
  - name: Lamps
    slug: lamps
products:
  - sku: LMP-001
    title: Desk Lamp
    description: A lamp
    category: lamps
    price: 24.5
`), 0o600))
	custom, err := loadCatalog(path)
	require.NoError(t, err)
	require.Len(t, custom.Products, 1)
	assert.Equal(t, "LMP-001", custom.Products[0].SKU)

	_, err = loadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
