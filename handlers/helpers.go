package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
)

// Validator pluga o go-playground/validator no Echo (c.Validate).
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{v: validator.New()}
}

func (cv *Validator) Validate(i any) error {
	if err := cv.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": err.Error()})
	}
	return nil
}

// atoiOr: string -> int com default quando vazio/inválido.
func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// paginacao lê skip/limit da query; limit tem teto de 1000.
func paginacao(c echo.Context) (skip, limit int) {
	skip = atoiOr(c.QueryParam("skip"), 0)
	limit = atoiOr(c.QueryParam("limit"), 100)
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	return skip, limit
}

func badRequest(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, map[string]any{"error": msg})
}

func forbidden(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": msg})
}

func notFound(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusNotFound, map[string]any{"error": msg})
}

func conflict(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusConflict, map[string]any{"error": msg})
}

func internal(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": msg})
}

func strptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func pqArray(s []string) pq.StringArray {
	return pq.StringArray(s)
}
