package delivery

import (
	"strings"

	"github.com/google/uuid"

	"github.com/appetiteclub/comandas/pkg/enums/deliverystatus"
)

func ValidateCreate(req CreateRequest) []string {
	var errors []string

	if strings.TrimSpace(req.RestaurantID) == "" {
		errors = append(errors, "restaurantId is required")
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		errors = append(errors, "customerName is required")
	}

	if strings.TrimSpace(req.Address) == "" {
		errors = append(errors, "address is required")
	}

	for _, item := range req.Items {
		if strings.TrimSpace(item.Name) == "" || item.Quantity <= 0 {
			errors = append(errors, "items need a name and a positive quantity")
			break
		}
	}

	if req.SourceKitchenOrderID != "" {
		if _, err := uuid.Parse(req.SourceKitchenOrderID); err != nil {
			errors = append(errors, "sourceKitchenOrderId must be a valid UUID")
		}
	}

	return errors
}

func ValidateStatusUpdate(req StatusUpdateRequest) []string {
	if deliverystatus.ByName(req.Status) == nil {
		return []string{"invalid status"}
	}
	return nil
}

func (req CreateRequest) ToInput() CreateInput {
	in := CreateInput{
		RestaurantID:  req.RestaurantID,
		CustomerName:  req.CustomerName,
		Address:       req.Address,
		Phone:         req.Phone,
		Items:         req.Items,
		Total:         req.Total,
		PaymentMethod: req.PaymentMethod,
	}
	if id, err := uuid.Parse(req.SourceKitchenOrderID); err == nil {
		in.SourceKitchenOrderID = &id
	}
	return in
}
