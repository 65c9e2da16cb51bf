package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestDecodeCSVUTF8(t *testing.T) {
	in := []byte("nome,cpf\nJoão,123")
	assert.Equal(t, "nome,cpf\nJoão,123", decodeCSV(in))
}

func TestDecodeCSVWindows1252(t *testing.T) {
	// "José" exportado pelo Excel em Windows-1252
	raw, err := charmap.Windows1252.NewEncoder().Bytes([]byte("José,ação"))
	require.NoError(t, err)

	assert.Equal(t, "José,ação", decodeCSV(raw))
}

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, ',', detectDelimiter("nome,cpf,curso\na,b,c"))
	assert.Equal(t, ';', detectDelimiter("nome;cpf;curso\na;b;c"))
	// vírgula ganha quando as duas aparecem no cabeçalho
	assert.Equal(t, ',', detectDelimiter("nome,cpf;curso"))
}

func TestCleanCell(t *testing.T) {
	assert.Equal(t, "Maria", cleanCell("  Maria  "))
	assert.Equal(t, "Maria", cleanCell("\ufeff"+"Maria"))
	assert.Equal(t, "Maria", cleanCell("\ufffd\ufffd"+"Maria"))
	assert.Equal(t, "", cleanCell("   "))
}

func TestConvertBRDate(t *testing.T) {
	tests := []struct {
		in   string
		out  string
		fail bool
	}{
		{"25/12/2008", "2008-12-25", false},
		{"5/3/2010", "2010-03-05", false},
		{"2008-12-25", "2008-12-25", false}, // ISO passa direto
		{"25/12/08", "", true},
		{"25/12", "", true},
		{"1/2/3/4", "", true},
	}
	for _, tc := range tests {
		got, err := convertBRDate(tc.in)
		if tc.fail {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.out, got)
	}
}
