package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidarNomeCompleto(t *testing.T) {
	assert.NoError(t, validarNomeCompleto("Maria Silva"))
	assert.NoError(t, validarNomeCompleto("  Ana  "))

	assert.Error(t, validarNomeCompleto("Jo"))
	assert.Error(t, validarNomeCompleto(""))
	assert.Error(t, validarNomeCompleto("Aluno 1"))
	assert.Error(t, validarNomeCompleto("aluno teste"))
	assert.Error(t, validarNomeCompleto("ALUNO 2"))
}
