package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/mediq-health/mediq-api/internal/domain/medicine"
	"github.com/mediq-health/mediq-api/internal/service"
)

type MedicineHandler struct {
	svc *service.MedicineService
}

func NewMedicineHandler(svc *service.MedicineService) *MedicineHandler {
	return &MedicineHandler{svc: svc}
}

type createMedicineRequest struct {
	Name                 string  `json:"name" binding:"required"`
	GenericName          string  `json:"generic_name"`
	Form                 string  `json:"form" binding:"required"`
	Strength             string  `json:"strength"`
	Manufacturer         string  `json:"manufacturer"`
	Price                float64 `json:"price"`
	RequiresPrescription *bool   `json:"requires_prescription"`
}

func (h *MedicineHandler) Create(c *gin.Context) {
	callerID, callerRole, _, ok := caller(c)
	if !ok {
		return
	}

	var req createMedicineRequest
	if !bindJSON(c, &req) {
		return
	}

	requiresRx := true
	if req.RequiresPrescription != nil {
		requiresRx = *req.RequiresPrescription
	}

	m, err := h.svc.CreateMedicine(c.Request.Context(), &medicine.CreateMedicineCommand{
		Name:                 req.Name,
		GenericName:          req.GenericName,
		Form:                 medicine.Form(req.Form),
		Strength:             req.Strength,
		Manufacturer:         req.Manufacturer,
		Price:                req.Price,
		RequiresPrescription: requiresRx,
		CreatedBy:            callerID,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, m)
}

func (h *MedicineHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	m, err := h.svc.GetMedicine(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, m)
}

type updateMedicineRequest struct {
	Name                 *string        `json:"name"`
	GenericName          *string        `json:"generic_name"`
	Form                 *medicine.Form `json:"form"`
	Strength             *string        `json:"strength"`
	Manufacturer         *string        `json:"manufacturer"`
	Price                *float64       `json:"price"`
	InStock              *bool          `json:"in_stock"`
	RequiresPrescription *bool          `json:"requires_prescription"`
}

func (h *MedicineHandler) Update(c *gin.Context) {
	callerID, callerRole, _, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateMedicineRequest
	if !bindJSON(c, &req) {
		return
	}

	m, err := h.svc.UpdateMedicine(c.Request.Context(), id, &medicine.UpdateMedicineCommand{
		Name:                 req.Name,
		GenericName:          req.GenericName,
		Form:                 req.Form,
		Strength:             req.Strength,
		Manufacturer:         req.Manufacturer,
		Price:                req.Price,
		InStock:              req.InStock,
		RequiresPrescription: req.RequiresPrescription,
		UpdatedBy:            callerID,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, m)
}

func (h *MedicineHandler) Delete(c *gin.Context) {
	callerID, callerRole, _, ok := caller(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.svc.DeleteMedicine(c.Request.Context(), id, callerID, callerRole, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"message": "medicine removed"})
}

func (h *MedicineHandler) List(c *gin.Context) {
	q := &medicine.ListMedicinesQuery{
		Search:      c.Query("search"),
		InStockOnly: c.Query("in_stock") == "true",
		Page:        parseQueryInt(c, "page", 1),
		PageSize:    parseQueryInt(c, "page_size", 20),
	}

	page, err := h.svc.ListMedicines(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"medicines":   page.Medicines,
		"total_count": page.TotalCount,
		"page":        page.Page,
		"page_size":   page.PageSize,
		"total_pages": page.TotalPages,
	})
}
