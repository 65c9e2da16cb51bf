package handlers

import (
	"encoding/base64"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/middlewares"
	"github.com/eventos-alt/Chamada-pronta-para-o-gcp/models"
)

type UploadHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewUploadHandler(db *gorm.DB, log *zap.Logger) *UploadHandler {
	return &UploadHandler{DB: db, Log: log}
}

var atestadoContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

const maxAtestadoBytes = 5 << 20

// POST /upload/atestado — recebe o atestado (jpeg, png ou pdf) e devolve o id
// para anexar na justificativa da chamada.
func (h *UploadHandler) Atestado(c echo.Context) error {
	cu := middlewares.CurrentUser(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest("Arquivo é obrigatório")
	}
	if fileHeader.Size > maxAtestadoBytes {
		return badRequest("Arquivo muito grande (máximo 5MB)")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !atestadoContentTypes[contentType] {
		return badRequest("Formato inválido. Apenas JPEG, PNG ou PDF")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return badRequest("Falha ao abrir arquivo")
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return badRequest("Falha ao ler arquivo")
	}

	atestado := models.Atestado{
		ID:          uuid.NewString(),
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Data:        base64.StdEncoding.EncodeToString(raw),
		UploadedBy:  cu.ID,
	}
	if err := h.DB.Create(&atestado).Error; err != nil {
		return internal(err.Error())
	}

	h.Log.Info("atestado recebido",
		zap.String("por", cu.Email),
		zap.String("arquivo", atestado.Filename))

	return c.JSON(http.StatusCreated, map[string]any{
		"atestado_id": atestado.ID,
		"filename":    atestado.Filename,
	})
}

// GET /upload/atestado/:id — devolve o arquivo original.
func (h *UploadHandler) Download(c echo.Context) error {
	var atestado models.Atestado
	if err := h.DB.First(&atestado, "id = ?", c.Param("id")).Error; err != nil {
		return notFound("Atestado não encontrado")
	}

	raw, err := base64.StdEncoding.DecodeString(atestado.Data)
	if err != nil {
		return internal("atestado corrompido")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="`+atestado.Filename+`"`)
	return c.Blob(http.StatusOK, atestado.ContentType, raw)
}
