package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dbmshealthcare/clinic-portal/internal/core/domain"
	"github.com/dbmshealthcare/clinic-portal/internal/core/ports"
)

// RecordLister lists the records visible to a user, with the degraded
// fallback applied.
type RecordLister interface {
	Records(ctx context.Context, user *domain.User) ([]domain.MedicalRecord, bool, error)
}

// ClinicalAPI is the slice of the clinic API for records and requisitions.
type ClinicalAPI interface {
	ports.RecordAPI
	ports.RequisitionAPI
}

// ClinicalHandler serves medical records and lab requisitions. Doctors
// write; doctors and patients read.
type ClinicalHandler struct {
	api     ClinicalAPI
	records RecordLister
}

func NewClinicalHandler(api ClinicalAPI, records RecordLister) *ClinicalHandler {
	return &ClinicalHandler{api: api, records: records}
}

// --- Medical records ---

// ListRecords handles GET /manage/records.
//
// @Summary      Medical records of the signed-in user
// @Tags         records
// @Produce      json
// @Success      200  {object}  recordsResponse
// @Failure      403  {object}  errorResponse
// @Router       /manage/records [get]
func (h *ClinicalHandler) ListRecords(c echo.Context) error {
	_, user, err := ctxUser(c)
	if err != nil {
		return err
	}
	list, degraded, err := h.records.Records(c.Request().Context(), user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recordsResponse{Records: orEmpty(list), Degraded: degraded})
}

// GetRecord handles GET /manage/records/:id. Patients only see their own.
//
// @Summary      Get a medical record
// @Tags         records
// @Produce      json
// @Param        id   path      string  true  "Record ID"
// @Success      200  {object}  domain.MedicalRecord
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /manage/records/{id} [get]
func (h *ClinicalHandler) GetRecord(c echo.Context) error {
	_, user, err := ctxUser(c)
	if err != nil {
		return err
	}
	rec, err := h.api.GetRecord(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if role, _ := user.PrimaryRole(); role == domain.RolePatient && rec.PatientID != user.ProfileID() {
		return domain.ErrForbidden
	}
	return c.JSON(http.StatusOK, rec)
}

// CreateRecord handles POST /manage/records. The record is filed under the
// signed-in doctor.
//
// @Summary      Create a medical record
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        body  body      recordRequest  true  "Record"
// @Success      201   {object}  domain.MedicalRecord
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /manage/records [post]
func (h *ClinicalHandler) CreateRecord(c echo.Context) error {
	var req recordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	_, user, err := ctxUser(c)
	if err != nil {
		return err
	}
	doctorID := user.ProfileID()
	if doctorID == "" {
		return domain.ErrNoProfile
	}

	rec, err := h.api.CreateRecord(c.Request().Context(), toRecordCreate(req, doctorID))
	if err != nil {
		return &FormError{Err: err, Form: req}
	}
	return c.JSON(http.StatusCreated, rec)
}

// UpdateRecord handles PUT /manage/records/:id.
//
// @Summary      Update notes, diagnosis, prescriptions or billing
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Record ID"
// @Param        body  body      recordUpdateRequest  true  "Changed fields"
// @Success      200   {object}  messageResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /manage/records/{id} [put]
func (h *ClinicalHandler) UpdateRecord(c echo.Context) error {
	var req recordUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.api.UpdateRecord(c.Request().Context(), c.Param("id"), toRecordUpdate(req)); err != nil {
		return &FormError{Err: err, Form: req}
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "record updated"})
}

// DeleteRecord handles DELETE /manage/records/:id.
//
// @Summary      Delete a medical record
// @Tags         records
// @Param        id   path  string  true  "Record ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /manage/records/{id} [delete]
func (h *ClinicalHandler) DeleteRecord(c echo.Context) error {
	if err := h.api.DeleteRecord(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Requisitions ---

// ListRequisitions handles GET /manage/requisitions.
//
// @Summary      List requisitions by record or status
// @Tags         requisitions
// @Produce      json
// @Param        recordId  query     string  false  "Medical record ID"
// @Param        status    query     string  false  "Pending, Pending_result or Completed"
// @Success      200       {object}  requisitionsResponse
// @Failure      400       {object}  errorResponse
// @Router       /manage/requisitions [get]
func (h *ClinicalHandler) ListRequisitions(c echo.Context) error {
	f := domain.RequisitionFilter{
		MedicalRecordID: c.QueryParam("recordId"),
		Status:          domain.RequisitionStatus(c.QueryParam("status")),
	}
	switch f.Status {
	case "", domain.RequisitionPending, domain.RequisitionPendingResult, domain.RequisitionCompleted:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "invalid requisition status")
	}

	list, err := h.api.ListRequisitions(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, requisitionsResponse{Requisitions: orEmpty(list)})
}

// GetRequisition handles GET /manage/requisitions/:id.
//
// @Summary      Get a requisition
// @Tags         requisitions
// @Produce      json
// @Param        id   path      string  true  "Requisition ID"
// @Success      200  {object}  domain.Requisition
// @Failure      404  {object}  errorResponse
// @Router       /manage/requisitions/{id} [get]
func (h *ClinicalHandler) GetRequisition(c echo.Context) error {
	r, err := h.api.GetRequisition(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

// CreateRequisition handles POST /manage/requisitions.
//
// @Summary      Order a lab test
// @Tags         requisitions
// @Accept       json
// @Produce      json
// @Param        body  body      requisitionRequest  true  "Requisition"
// @Success      201   {object}  domain.Requisition
// @Failure      422   {object}  errorResponse
// @Router       /manage/requisitions [post]
func (h *ClinicalHandler) CreateRequisition(c echo.Context) error {
	var req requisitionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	r, err := h.api.CreateRequisition(c.Request().Context(), domain.RequisitionCreate{
		MedicalRecordID: req.MedicalRecordID,
		TestName:        req.TestName,
	})
	if err != nil {
		return &FormError{Err: err, Form: req}
	}
	return c.JSON(http.StatusCreated, r)
}

// RecordResult handles PUT /manage/requisitions/:id/result and completes
// the requisition.
//
// @Summary      File a lab result
// @Tags         requisitions
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "Requisition ID"
// @Param        body  body      requisitionResultRequest  true  "Result"
// @Success      200   {object}  domain.Requisition
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /manage/requisitions/{id}/result [put]
func (h *ClinicalHandler) RecordResult(c echo.Context) error {
	var req requisitionResultRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	r, err := h.api.UpdateRequisition(c.Request().Context(), c.Param("id"), domain.RequisitionUpdate{
		Status: domain.RequisitionCompleted,
		Result: &domain.RequisitionOutcome{Description: req.Description, Conclusion: req.Conclusion},
	})
	if err != nil {
		return &FormError{Err: err, Form: req}
	}
	return c.JSON(http.StatusOK, r)
}

// DeleteRequisition handles DELETE /manage/requisitions/:id.
//
// @Summary      Delete a requisition
// @Tags         requisitions
// @Param        id   path  string  true  "Requisition ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /manage/requisitions/{id} [delete]
func (h *ClinicalHandler) DeleteRequisition(c echo.Context) error {
	if err := h.api.DeleteRequisition(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
