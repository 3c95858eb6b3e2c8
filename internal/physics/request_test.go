package physics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest_Defaults(t *testing.T) {
	t.Parallel()

	req, err := NewRequest(nil, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Request{TemperatureK: 300, DiameterNM: 100, Material: Silicon}, req)
}

func TestNewRequest_FromDecodedJSON(t *testing.T) {
	t.Parallel()

	var fields map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"T":300,"D":22,"material_props":{"v_s":8433,"Theta_D":645,"A":1.32e-45,"B":1.73e-24,"name":"Silicon"}}`), &fields))

	req, err := NewRequest(fields["T"], fields["D"], fields["material_props"], DefaultCatalog())
	require.NoError(t, err)
	assert.Equal(t, 300.0, req.TemperatureK)
	assert.Equal(t, 22.0, req.DiameterNM)
	assert.Equal(t, Silicon, req.Material)
}

func TestNewRequest_CatalogNameWithOverrides(t *testing.T) {
	t.Parallel()

	req, err := NewRequest("77", json.Number("15"), map[string]any{"name": "germanium", "b": "3e-23"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 77.0, req.TemperatureK)
	assert.Equal(t, 15.0, req.DiameterNM)

	want := Germanium
	want.UmklappCoeff = 3e-23
	assert.Equal(t, want, req.Material)
}

func TestNewRequest_MaterialByName(t *testing.T) {
	t.Parallel()

	req, err := NewRequest(300, 50, "MXene", nil)
	require.NoError(t, err)
	assert.Equal(t, MXene, req.Material)

	_, err = NewRequest(300, 50, "Unobtainium", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewRequest_CustomNameStartsFromDefault(t *testing.T) {
	t.Parallel()

	req, err := NewRequest(300, 50, map[string]any{"name": "Custom", "v_s": 9000.0}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Custom", req.Material.Name)
	assert.Equal(t, 9000.0, req.Material.SoundVelocity)
	assert.Equal(t, Silicon.DebyeTemperature, req.Material.DebyeTemperature)
}

func TestNewRequest_RejectsNonNumeric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		t, d  any
		props any
	}{
		{"bool temperature", true, 22, nil},
		{"word diameter", 300, "thin", nil},
		{"object temperature", map[string]any{"v": 1}, 22, nil},
		{"bool coefficient", 300, 22, map[string]any{"A": false}},
		{"numeric name", 300, 22, map[string]any{"name": 4}},
		{"list props", 300, 22, []any{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewRequest(tt.t, tt.d, tt.props, nil)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestNewRequest_RejectsCaseCollidingKeys(t *testing.T) {
	t.Parallel()

	for i := 0; i < 20; i++ {
		_, err := NewRequest(300, 22, map[string]any{"name": "Silicon", "B": 1e-24, "b": 2e-24}, nil)
		require.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), `duplicate material key "B" and "b"`)
	}

	_, err := NewRequest(300, 22, map[string]any{"Name": "Silicon", "name": "Germanium"}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req, err := NewRequest(300, 22, map[string]any{"NAME": "Germanium", "B": 2e-24}, nil)
	require.NoError(t, err)
	assert.Equal(t, Germanium.Name, req.Material.Name)
	assert.Equal(t, 2e-24, req.Material.UmklappCoeff)
}

func TestRequest_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Request{TemperatureK: 1, DiameterNM: 1, Material: Silicon}.Validate())
	assert.ErrorIs(t, Request{TemperatureK: 1, DiameterNM: -1, Material: Silicon}.Validate(), ErrInvalidInput)
}
