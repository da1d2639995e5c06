package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/munidigital/tramites-api/internal/service"
	appErrors "github.com/munidigital/tramites-api/pkg/errors"
	"github.com/munidigital/tramites-api/pkg/response"
)

// ProcedureHandler exposes procedure endpoints.
type ProcedureHandler struct {
	service *service.ProcedureService
}

// NewProcedureHandler constructs the handler.
func NewProcedureHandler(svc *service.ProcedureService) *ProcedureHandler {
	return &ProcedureHandler{service: svc}
}

// ListRecent godoc
// @Summary Recent procedures
// @Description The ten most recently created procedures with person info
// @Tags Procedures
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /procedures [get]
func (h *ProcedureHandler) ListRecent(c *gin.Context) {
	procedures, err := h.service.ListRecent(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, procedures, nil)
}

// ListByPerson godoc
// @Summary Procedures of a person
// @Tags Procedures
// @Produce json
// @Param personId path string true "Person ID"
// @Success 200 {object} response.Envelope
// @Router /procedures/person/{personId} [get]
func (h *ProcedureHandler) ListByPerson(c *gin.Context) {
	procedures, err := h.service.ListByPerson(c.Request.Context(), c.Param("personId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, procedures, nil)
}

// Get godoc
// @Summary Get procedure
// @Tags Procedures
// @Produce json
// @Param id path string true "Procedure ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /procedures/{id} [get]
func (h *ProcedureHandler) Get(c *gin.Context) {
	procedure, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, procedure, nil)
}

// Create godoc
// @Summary Create procedure
// @Tags Procedures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateProcedureRequest true "Procedure payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /procedures [post]
func (h *ProcedureHandler) Create(c *gin.Context) {
	var req service.CreateProcedureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid procedure payload"))
		return
	}
	procedure, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, procedure)
}

// Update godoc
// @Summary Update procedure
// @Tags Procedures
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Procedure ID"
// @Param payload body service.UpdateProcedureRequest true "Procedure payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /procedures/{id} [put]
func (h *ProcedureHandler) Update(c *gin.Context) {
	var req service.UpdateProcedureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid procedure payload"))
		return
	}
	procedure, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, procedure, nil)
}

// Delete godoc
// @Summary Delete procedure
// @Description Delete a procedure together with its documents
// @Tags Procedures
// @Produce json
// @Security BearerAuth
// @Param id path string true "Procedure ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /procedures/{id} [delete]
func (h *ProcedureHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
