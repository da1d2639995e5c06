package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/munidigital/tramites-api/internal/middleware"
	"github.com/munidigital/tramites-api/internal/service"
	appErrors "github.com/munidigital/tramites-api/pkg/errors"
	"github.com/munidigital/tramites-api/pkg/response"
)

// PersonHandler exposes person endpoints.
type PersonHandler struct {
	service *service.PersonService
}

// NewPersonHandler constructs the handler.
func NewPersonHandler(svc *service.PersonService) *PersonHandler {
	return &PersonHandler{service: svc}
}

// List godoc
// @Summary List persons
// @Description List all persons with their procedure and document counts
// @Tags Persons
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /persons [get]
func (h *PersonHandler) List(c *gin.Context) {
	persons, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, persons, nil)
}

// Search godoc
// @Summary Search persons
// @Description Case-insensitive substring search over name and national ID
// @Tags Persons
// @Produce json
// @Param q query string false "Search text"
// @Success 200 {object} response.Envelope
// @Router /persons/search [get]
func (h *PersonHandler) Search(c *gin.Context) {
	persons, hit, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, persons, nil, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get person
// @Description Fetch one person with counts
// @Tags Persons
// @Produce json
// @Param id path string true "Person ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /persons/{id} [get]
func (h *PersonHandler) Get(c *gin.Context) {
	person, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, person, nil)
}

// Create godoc
// @Summary Create person
// @Tags Persons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreatePersonRequest true "Person payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /persons [post]
func (h *PersonHandler) Create(c *gin.Context) {
	var req service.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid person payload"))
		return
	}
	person, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, person)
}

// Update godoc
// @Summary Update person
// @Tags Persons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Person ID"
// @Param payload body service.UpdatePersonRequest true "Person payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /persons/{id} [put]
func (h *PersonHandler) Update(c *gin.Context) {
	var req service.UpdatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid person payload"))
		return
	}
	person, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, person, nil)
}

// Delete godoc
// @Summary Delete person
// @Description Delete a person together with their procedures and documents
// @Tags Persons
// @Produce json
// @Security BearerAuth
// @Param id path string true "Person ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /persons/{id} [delete]
func (h *PersonHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ExportCSV godoc
// @Summary Export persons as CSV
// @Tags Persons
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} binary
// @Router /persons/export [get]
func (h *PersonHandler) ExportCSV(c *gin.Context) {
	data, err := h.service.ExportCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("persons-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/csv", data)
}

// HistoryPDF godoc
// @Summary Person history report
// @Description PDF report of a person's procedures
// @Tags Persons
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Person ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /persons/{id}/report [get]
func (h *PersonHandler) HistoryPDF(c *gin.Context) {
	data, err := h.service.ExportHistoryPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("history-%s.pdf", c.Param("id"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", data)
}
