package marketdata

import (
	"errors"

	mktsvc "dealdesk-backend/internal/application/marketdata"
	"dealdesk-backend/internal/domain"
	"dealdesk-backend/internal/infrastructure/provider"
	"dealdesk-backend/internal/pkg/response"
	"dealdesk-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *mktsvc.Service
}

func parseKey(c *fiber.Ctx) (string, domain.PropertyType, string, error) {
	zip := c.Query("zip")
	if !validation.IsValidZip(zip) {
		return "", "", "", errors.New("Invalid zip code")
	}
	homeType, ok := domain.ParsePropertyType(c.Query("home_type"))
	if !ok {
		return "", "", "", errors.New("Invalid home_type")
	}
	return zip, homeType, c.Query("keywords"), nil
}

// GET /api/v1/market-data/get-listings?zip=&home_type=&keywords=
func (h *Handlers) GetListings(c *fiber.Ctx) error {
	zip, homeType, keywords, err := parseKey(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	listings, err := h.Service.GetListings(c.Context(), zip, homeType, keywords)
	if err != nil {
		if errors.Is(err, provider.ErrProviderUnavailable) {
			return response.Error(c, err.Error(), 502, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Listings fetched successfully", listings, fiber.Map{"count": len(listings)})
}

// POST /api/v1/market-data/refresh?zip=&home_type=&keywords=
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	zip, homeType, keywords, err := parseKey(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	listings, err := h.Service.Refresh(c.Context(), zip, homeType, keywords)
	if err != nil {
		if errors.Is(err, provider.ErrProviderUnavailable) {
			return response.Error(c, err.Error(), 502, nil)
		}
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Market data refreshed successfully", listings, fiber.Map{"count": len(listings)})
}

// GET /api/v1/market-data/is-fresh?zip=&home_type=&keywords=
func (h *Handlers) IsFresh(c *fiber.Ctx) error {
	zip, homeType, keywords, err := parseKey(c)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	fresh, err := h.Service.IsFresh(c.Context(), zip, homeType, keywords)
	if err != nil {
		return response.Error(c, "Internal Server Error", 500, nil)
	}
	return response.Success(c, "Freshness checked", fiber.Map{"fresh": fresh}, nil)
}
