package lenders

import (
	"errors"

	lendersvc "dealdesk-backend/internal/application/lenders"
	"dealdesk-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *lendersvc.Service
}

// POST /api/v1/lenders/create-lender
func (h *Handlers) CreateLender(c *fiber.Ctx) error {
	var body struct {
		Name           string `json:"name"`
		AnnualRate     string `json:"annual_rate"`
		OriginationFee string `json:"origination_fee"`
		LoanServiceFee string `json:"loan_service_fee"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	lender, err := h.Service.CreateLender(c.Context(), lendersvc.CreateLenderInput{
		Name:           body.Name,
		AnnualRate:     body.AnnualRate,
		OriginationFee: body.OriginationFee,
		LoanServiceFee: body.LoanServiceFee,
	})
	if err != nil {
		if errors.Is(err, lendersvc.ErrInvalidTerms) {
			return response.Error(c, err.Error(), 400, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Lender created successfully", lender, nil)
}

// GET /api/v1/lenders/get-all-lenders
func (h *Handlers) GetAllLenders(c *fiber.Ctx) error {
	list, err := h.Service.GetAllLenders(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Lenders fetched successfully", list, nil)
}

// GET /api/v1/lenders/get-lender/:lender_id
func (h *Handlers) GetLender(c *fiber.Ctx) error {
	lenderID, err := uuid.Parse(c.Params("lender_id"))
	if err != nil {
		return response.Error(c, "Invalid lender_id format", 400, nil)
	}
	lender, err := h.Service.GetLender(c.Context(), lenderID)
	if err != nil {
		if errors.Is(err, lendersvc.ErrNotFound) {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Lender fetched successfully", lender, nil)
}
