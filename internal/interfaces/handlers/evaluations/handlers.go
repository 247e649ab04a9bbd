package evaluations

import (
	"errors"

	"dealdesk-backend/internal/application/comps"
	dealsvc "dealdesk-backend/internal/application/deals"
	"dealdesk-backend/internal/infrastructure/provider"
	"dealdesk-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *dealsvc.Service
}

type evaluateBody struct {
	PropertyID string   `json:"property_id"`
	LenderID   *string  `json:"lender_id"`
	Keywords   string   `json:"keywords"`
	CapRate    *float64 `json:"cap_rate"`
	CashOnCash *float64 `json:"cash_on_cash"`
}

// POST /api/v1/evaluations/evaluate
func (h *Handlers) Evaluate(c *fiber.Ctx) error {
	var body evaluateBody
	if err := c.BodyParser(&body); err != nil || body.PropertyID == "" {
		return response.Error(c, "property_id is required", 400, nil)
	}
	propertyID, err := uuid.Parse(body.PropertyID)
	if err != nil {
		return response.Error(c, "Invalid property_id format", 400, nil)
	}
	var lenderID *uuid.UUID
	if body.LenderID != nil && *body.LenderID != "" {
		id, err := uuid.Parse(*body.LenderID)
		if err != nil {
			return response.Error(c, "Invalid lender_id format", 400, nil)
		}
		lenderID = &id
	}

	evaluation, err := h.Service.EvaluateProperty(c.Context(), propertyID, dealsvc.EvaluateOptions{
		LenderID:   lenderID,
		Keywords:   body.Keywords,
		CapRate:    body.CapRate,
		CashOnCash: body.CashOnCash,
	})
	if err != nil {
		return evaluationError(c, err)
	}
	return response.SuccessCreated(c, "Evaluation created successfully", evaluation, nil)
}

// GET /api/v1/evaluations/get-evaluation/:evaluation_id
func (h *Handlers) GetEvaluation(c *fiber.Ctx) error {
	evaluationID, err := uuid.Parse(c.Params("evaluation_id"))
	if err != nil {
		return response.Error(c, "Invalid evaluation_id format", 400, nil)
	}
	evaluation, err := h.Service.GetEvaluation(c.Context(), evaluationID)
	if err != nil {
		if errors.Is(err, dealsvc.ErrEvaluationNotFound) {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Evaluation fetched successfully", evaluation, nil)
}

// GET /api/v1/evaluations/get-property-evaluations/:property_id
func (h *Handlers) GetPropertyEvaluations(c *fiber.Ctx) error {
	propertyID, err := uuid.Parse(c.Params("property_id"))
	if err != nil {
		return response.Error(c, "Invalid property_id format", 400, nil)
	}
	list, err := h.Service.ListByProperty(c.Context(), propertyID)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Evaluations fetched successfully", list, nil)
}

// evaluationError maps the evaluation error kinds onto HTTP statuses.
func evaluationError(c *fiber.Ctx, err error) error {
	var insufficient *comps.InsufficientComparablesError
	switch {
	case errors.Is(err, dealsvc.ErrPropertyNotFound), errors.Is(err, dealsvc.ErrLenderNotFound):
		return response.Error(c, err.Error(), 404, nil)
	case errors.Is(err, comps.ErrNoMarketData):
		return response.Error(c, err.Error(), 422, nil)
	case errors.As(err, &insufficient):
		return response.Error(c, err.Error(), 422, fiber.Map{"best_match_count": insufficient.Best})
	case errors.Is(err, dealsvc.ErrInvalidInput):
		return response.Error(c, err.Error(), 400, nil)
	case errors.Is(err, provider.ErrProviderUnavailable):
		return response.Error(c, err.Error(), 502, nil)
	default:
		return response.Error(c, "Internal Server Error", 500, nil)
	}
}
