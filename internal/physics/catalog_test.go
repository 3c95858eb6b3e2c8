package physics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Lookup(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()
	assert.Equal(t, []string{"Silicon", "Germanium", "MXene (Ti3C2Tx)"}, c.Names())

	for _, name := range []string{"silicon", " SILICON ", "Silicon"} {
		p, ok := c.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, Silicon, p)
	}
	p, ok := c.Lookup("mxene")
	require.True(t, ok)
	assert.Equal(t, MXene, p)

	_, ok = c.Lookup("Custom")
	assert.False(t, ok)
	assert.Equal(t, Silicon, c.Default())
}

func TestCatalog_WithDoesNotMutate(t *testing.T) {
	t.Parallel()

	base := DefaultCatalog()
	diamond := MaterialProfile{Name: "Diamond", SoundVelocity: 12000, DebyeTemperature: 2230, ImpurityCoeff: 1e-46, UmklappCoeff: 5e-25}
	next := base.With(diamond)

	_, ok := base.Lookup("Diamond")
	assert.False(t, ok)
	got, ok := next.Lookup("diamond")
	require.True(t, ok)
	assert.Equal(t, diamond, got)
	assert.Len(t, next.Names(), 4)
}

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "materials.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadCatalogFile(t *testing.T) {
	t.Parallel()

	path := writeCatalog(t, `
default: Diamond
materials:
  - name: Diamond
    v_s: 12000
    theta_d: 2230
    a: 1.0e-46
    b: 5.0e-25
  - name: Silicon
    v_s: 8400
    theta_d: 645
    a: 1.32e-45
    b: 1.73e-24
`)

	c, err := LoadCatalogFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "Diamond", c.Default().Name)
	assert.Equal(t, 2230.0, c.Default().DebyeTemperature)

	si, ok := c.Lookup("silicon")
	require.True(t, ok)
	assert.Equal(t, 8400.0, si.SoundVelocity)
	assert.Len(t, c.Names(), 4)
}

func TestLoadCatalogFile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"missing name", "materials:\n  - v_s: 1\n    theta_d: 1\n"},
		{"invalid coefficient", "materials:\n  - name: X\n    v_s: -1\n    theta_d: 100\n"},
		{"duplicate", "materials:\n  - {name: X, v_s: 1, theta_d: 1}\n  - {name: x, v_s: 1, theta_d: 1}\n"},
		{"unknown default", "default: Nope\nmaterials: []\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadCatalogFile(writeCatalog(t, tt.body), nil)
			assert.Error(t, err)
		})
	}

	_, err := LoadCatalogFile(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}
