package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/munidigital/tramites-api/internal/service"
	appErrors "github.com/munidigital/tramites-api/pkg/errors"
	"github.com/munidigital/tramites-api/pkg/response"
)

// DocumentHandler exposes document endpoints.
type DocumentHandler struct {
	service *service.DocumentService
}

// NewDocumentHandler constructs the handler.
func NewDocumentHandler(svc *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: svc}
}

// ListByProcedure godoc
// @Summary Documents of a procedure
// @Description Documents ordered by date descending
// @Tags Documents
// @Produce json
// @Param procedureId path string true "Procedure ID"
// @Success 200 {object} response.Envelope
// @Router /documents/procedure/{procedureId} [get]
func (h *DocumentHandler) ListByProcedure(c *gin.Context) {
	documents, err := h.service.ListByProcedure(c.Request.Context(), c.Param("procedureId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, documents, nil)
}

// Upload godoc
// @Summary Upload document
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param procedureId formData string true "Procedure ID"
// @Param date formData string true "Document date (YYYY-MM-DD)"
// @Param file formData file true "Document content"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /documents/upload [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file"))
		return
	}
	defer src.Close()

	upload := service.DocumentUpload{
		ProcedureID: c.PostForm("procedureId"),
		Date:        c.PostForm("date"),
		Filename:    fileHeader.Filename,
		Size:        fileHeader.Size,
		MimeType:    fileHeader.Header.Get("Content-Type"),
		Content:     src,
	}
	doc, err := h.service.Upload(c.Request.Context(), upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, doc)
}

// Download godoc
// @Summary Download document
// @Description Stream the stored file under its original name
// @Tags Documents
// @Produce octet-stream
// @Param id path string true "Document ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /documents/download/{id} [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	result, err := h.service.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer result.File.Close() //nolint:errcheck

	var size int64 = -1
	if info, statErr := result.File.Stat(); statErr == nil {
		size = info.Size()
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, size, result.MediaType, result.File, nil)
}

// Delete godoc
// @Summary Delete document
// @Description Remove the document row and its stored file
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
