package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEhDiaDeAula(t *testing.T) {
	dias := []string{"segunda", "quarta", "sexta"}

	segunda := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	terca := segunda.AddDate(0, 0, 1)
	quarta := segunda.AddDate(0, 0, 2)
	sabado := segunda.AddDate(0, 0, 5)
	domingo := segunda.AddDate(0, 0, 6)

	assert.True(t, ehDiaDeAula(segunda, dias))
	assert.False(t, ehDiaDeAula(terca, dias))
	assert.True(t, ehDiaDeAula(quarta, dias))
	assert.False(t, ehDiaDeAula(sabado, dias))
	assert.False(t, ehDiaDeAula(domingo, dias))

	assert.True(t, ehDiaDeAula(sabado, []string{"sabado"}))
	assert.True(t, ehDiaDeAula(domingo, []string{"domingo"}))
	assert.False(t, ehDiaDeAula(segunda, nil))
}
