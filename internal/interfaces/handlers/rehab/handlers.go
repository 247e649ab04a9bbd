package rehab

import (
	"errors"

	rehabsvc "dealdesk-backend/internal/application/rehab"
	"dealdesk-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *rehabsvc.Service
}

type lineItemBody struct {
	Category string  `json:"category"`
	Tier     string  `json:"tier"`
	Quantity int     `json:"quantity"`
	UnitCost int64   `json:"unit_cost"`
	Note     *string `json:"note"`
}

func toInputs(items []lineItemBody) []rehabsvc.LineItemInput {
	out := make([]rehabsvc.LineItemInput, len(items))
	for i, it := range items {
		out[i] = rehabsvc.LineItemInput{
			Category: it.Category,
			Tier:     it.Tier,
			Quantity: it.Quantity,
			UnitCost: it.UnitCost,
			Note:     it.Note,
		}
	}
	return out
}

// POST /api/v1/rehab-estimates/create-estimate
func (h *Handlers) CreateEstimate(c *fiber.Ctx) error {
	var body struct {
		PropertyID string         `json:"property_id"`
		LineItems  []lineItemBody `json:"line_items"`
	}
	if err := c.BodyParser(&body); err != nil || body.PropertyID == "" {
		return response.Error(c, "property_id and line_items are required", 400, nil)
	}
	propertyID, err := uuid.Parse(body.PropertyID)
	if err != nil {
		return response.Error(c, "Invalid property_id format", 400, nil)
	}

	estimate, err := h.Service.CreateEstimate(c.Context(), propertyID, toInputs(body.LineItems))
	if err != nil {
		if errors.Is(err, rehabsvc.ErrInvalidLineItem) {
			return response.Error(c, err.Error(), 400, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.SuccessCreated(c, "Rehab estimate created successfully", withTotal(estimate), nil)
}

// GET /api/v1/rehab-estimates/get-estimate/:property_id
func (h *Handlers) GetEstimate(c *fiber.Ctx) error {
	propertyID, err := uuid.Parse(c.Params("property_id"))
	if err != nil {
		return response.Error(c, "Invalid property_id format", 400, nil)
	}
	estimate, err := h.Service.GetByProperty(c.Context(), propertyID)
	if err != nil {
		if errors.Is(err, rehabsvc.ErrNotFound) {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Rehab estimate fetched successfully", withTotal(estimate), nil)
}

// PUT /api/v1/rehab-estimates/replace-items/:estimate_id
func (h *Handlers) ReplaceLineItems(c *fiber.Ctx) error {
	estimateID, err := uuid.Parse(c.Params("estimate_id"))
	if err != nil {
		return response.Error(c, "Invalid estimate_id format", 400, nil)
	}
	var body struct {
		LineItems []lineItemBody `json:"line_items"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "line_items are required", 400, nil)
	}
	estimate, err := h.Service.ReplaceLineItems(c.Context(), estimateID, toInputs(body.LineItems))
	if err != nil {
		switch {
		case errors.Is(err, rehabsvc.ErrNotFound):
			return response.Error(c, err.Error(), 404, nil)
		case errors.Is(err, rehabsvc.ErrInvalidLineItem):
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "Rehab estimate updated successfully", withTotal(estimate), nil)
}

// withTotal attaches the recomputed total; it is never stored.
func withTotal(e interface {
	TotalCost() int64
}) fiber.Map {
	return fiber.Map{"estimate": e, "total_cost": e.TotalCost()}
}
