package tables

import (
	"strings"

	"github.com/appetiteclub/comandas/pkg/enums/tablestatus"
)

func ValidateTableCreate(req TableCreateRequest) []string {
	var errors []string

	if strings.TrimSpace(req.RestaurantID) == "" {
		errors = append(errors, "restaurantId is required")
	}

	if strings.TrimSpace(req.Number) == "" {
		errors = append(errors, "number is required")
	}

	if req.Zone != "" && req.Zone != ZoneIndoor && req.Zone != ZoneOutdoor {
		errors = append(errors, "zone must be indoor or outdoor")
	}

	return errors
}

func ValidateAppendOrder(req AppendOrderRequest) []string {
	var errors []string

	if len(req.Items) == 0 {
		errors = append(errors, "items are required")
	}

	for _, item := range req.Items {
		if strings.TrimSpace(item.ProductName) == "" {
			errors = append(errors, "productName is required")
		}
		if item.Quantity <= 0 {
			errors = append(errors, "quantity must be greater than 0")
		}
		if item.UnitPrice < 0 || item.LineTotal < 0 {
			errors = append(errors, "prices cannot be negative")
		}
	}

	return errors
}

func ValidateStatusUpdate(req StatusUpdateRequest) []string {
	if tablestatus.ByName(req.Status) == nil {
		return []string{"invalid status"}
	}
	return nil
}
