package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotais(t *testing.T) {
	m := PresenceMap{
		"a1": {Presente: true, HoraRegistro: "08:00"},
		"a2": {Presente: false, Justificativa: "atestado médico"},
		"a3": {Presente: true, HoraRegistro: "08:15"},
		"a4": {Presente: false},
	}
	presentes, faltas := m.Totais()
	assert.Equal(t, 2, presentes)
	assert.Equal(t, 2, faltas)

	presentes, faltas = PresenceMap{}.Totais()
	assert.Zero(t, presentes)
	assert.Zero(t, faltas)
}

func TestPresenceMapValueScan(t *testing.T) {
	original := PresenceMap{
		"a1": {Presente: true, HoraRegistro: "08:00"},
		"a2": {Presente: false, Justificativa: "falta justificada", AtestadoID: "at-1"},
	}

	v, err := original.Value()
	require.NoError(t, err)

	var lido PresenceMap
	require.NoError(t, lido.Scan(v))
	assert.Equal(t, original, lido)
}

func TestPresenceMapScanNulo(t *testing.T) {
	var m PresenceMap
	require.NoError(t, m.Scan(nil))
	assert.NotNil(t, m)
	assert.Empty(t, m)
}

func TestPresenceMapScanString(t *testing.T) {
	var m PresenceMap
	require.NoError(t, m.Scan(`{"a1":{"presente":true,"justificativa":"","atestado_id":"","hora_registro":"07:55"}}`))
	assert.True(t, m["a1"].Presente)
	assert.Equal(t, "07:55", m["a1"].HoraRegistro)
}

func TestPresenceMapScanTipoInvalido(t *testing.T) {
	var m PresenceMap
	assert.Error(t, m.Scan(42))
}
