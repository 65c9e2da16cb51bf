package handlers

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decodeCSV resolve o encoding do arquivo: UTF-8, com fallback para
// Windows-1252 (padrão de planilhas Excel brasileiras) e ISO-8859-1.
func decodeCSV(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	if out, err := charmap.Windows1252.NewDecoder().Bytes(raw); err == nil {
		return string(out)
	}
	out, _ := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	return string(out)
}

// detectDelimiter olha a linha de cabeçalho: vírgula ou ponto e vírgula.
func detectDelimiter(content string) rune {
	header, _, _ := strings.Cut(content, "\n")
	if strings.ContainsRune(header, ',') {
		return ','
	}
	return ';'
}

// cleanCell remove BOM e sujeira de encoding que planilhas costumam deixar.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.TrimLeft(s, "\ufffd")
	return strings.TrimSpace(s)
}

// convertBRDate aceita dd/mm/yyyy (formato brasileiro) ou ISO e devolve
// sempre yyyy-mm-dd.
func convertBRDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, "/") {
		return s, nil
	}
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return "", fmt.Errorf("data inválida: %s", s)
	}
	day, month, year := parts[0], parts[1], parts[2]
	if len(year) != 4 {
		return "", fmt.Errorf("data inválida: %s", s)
	}
	if len(day) == 1 {
		day = "0" + day
	}
	if len(month) == 1 {
		month = "0" + month
	}
	return fmt.Sprintf("%s-%s-%s", year, month, day), nil
}
