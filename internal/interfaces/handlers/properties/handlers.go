package properties

import (
	"errors"

	propsvc "dealdesk-backend/internal/application/properties"
	"dealdesk-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *propsvc.Service
}

type createPropertyBody struct {
	Street       string   `json:"street"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Zip          string   `json:"zip"`
	PropertyType string   `json:"property_type"`
	Beds         *int     `json:"beds"`
	Baths        *float64 `json:"baths"`
	Sqft         *int     `json:"sqft"`
	Notes        string   `json:"notes"`
}

// POST /api/v1/properties/create-property
func (h *Handlers) CreateProperty(c *fiber.Ctx) error {
	var body createPropertyBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	if body.Street == "" || body.City == "" || body.State == "" || body.Zip == "" || body.PropertyType == "" {
		return response.Error(c, "street, city, state, zip and property_type are required", 400, nil)
	}

	property, evaluation, err := h.Service.CreateProperty(c.Context(), propsvc.CreatePropertyInput{
		Street:       body.Street,
		City:         body.City,
		State:        body.State,
		Zip:          body.Zip,
		PropertyType: body.PropertyType,
		Beds:         body.Beds,
		Baths:        body.Baths,
		Sqft:         body.Sqft,
		Notes:        body.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, propsvc.ErrInvalidAddress),
			errors.Is(err, propsvc.ErrInvalidZip),
			errors.Is(err, propsvc.ErrInvalidType):
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}

	data := fiber.Map{"property": property, "evaluation": evaluation}
	if evaluation == nil {
		return response.SuccessCreated(c, "Property created; automatic evaluation skipped (not enough market data)", data, nil)
	}
	return response.SuccessCreated(c, "Property created and evaluated", data, nil)
}

// GET /api/v1/properties/get-all-properties
func (h *Handlers) GetAllProperties(c *fiber.Ctx) error {
	list, err := h.Service.GetAllProperties(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Properties fetched successfully", list, nil)
}

// GET /api/v1/properties/get-property/:property_id
func (h *Handlers) GetProperty(c *fiber.Ctx) error {
	propertyID, err := uuid.Parse(c.Params("property_id"))
	if err != nil {
		return response.Error(c, "Invalid property_id format", 400, nil)
	}
	property, err := h.Service.GetProperty(c.Context(), propertyID)
	if err != nil {
		if errors.Is(err, propsvc.ErrNotFound) {
			return response.Error(c, err.Error(), 404, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Property fetched successfully", property, nil)
}

// PATCH /api/v1/properties/update-property/:property_id
func (h *Handlers) UpdateProperty(c *fiber.Ctx) error {
	propertyID, err := uuid.Parse(c.Params("property_id"))
	if err != nil {
		return response.Error(c, "Invalid property_id format", 400, nil)
	}
	var body struct {
		Beds  *int     `json:"beds"`
		Baths *float64 `json:"baths"`
		Sqft  *int     `json:"sqft"`
		Notes *string  `json:"notes"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	property, err := h.Service.UpdateProperty(c.Context(), propertyID, propsvc.UpdatePropertyInput{
		Beds:  body.Beds,
		Baths: body.Baths,
		Sqft:  body.Sqft,
		Notes: body.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, propsvc.ErrNotFound):
			return response.Error(c, err.Error(), 404, nil)
		case err.Error() == "No valid changes provided":
			return response.Error(c, err.Error(), 400, nil)
		default:
			return response.Error(c, "Internal Server Error", 500, nil)
		}
	}
	return response.Success(c, "Property updated successfully", property, nil)
}
