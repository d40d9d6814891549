package kitchen

import (
	"strings"

	"github.com/google/uuid"

	"github.com/appetiteclub/comandas/pkg/enums/kitchenstatus"
)

func ValidateSubmit(req SubmitRequest) []string {
	var errors []string

	if strings.TrimSpace(req.RestaurantID) == "" {
		errors = append(errors, "restaurantId is required")
	}

	if strings.TrimSpace(req.Destination) == "" {
		errors = append(errors, "destination is required")
	}

	if len(req.Items) == 0 {
		errors = append(errors, "items are required")
	}

	if req.Total < 0 {
		errors = append(errors, "total cannot be negative")
	}

	if req.ParentOrderID != "" {
		if _, err := uuid.Parse(req.ParentOrderID); err != nil {
			errors = append(errors, "parentOrderId must be a valid UUID")
		}
	}

	return errors
}

func ValidateStatusChange(req StatusChangeRequest) []string {
	var errors []string

	if strings.TrimSpace(req.RestaurantID) == "" {
		errors = append(errors, "restaurantId is required")
	}

	if _, err := uuid.Parse(req.OrderID); err != nil {
		errors = append(errors, "orderId must be a valid UUID")
	}

	if kitchenstatus.ByName(req.NewStatus) == nil {
		errors = append(errors, "newStatus is invalid")
	}

	if req.Version < 0 {
		errors = append(errors, "version cannot be negative")
	}

	return errors
}

func ValidateRemove(req RemoveRequest) []string {
	var errors []string

	if strings.TrimSpace(req.RestaurantID) == "" {
		errors = append(errors, "restaurantId is required")
	}

	if _, err := uuid.Parse(req.OrderID); err != nil {
		errors = append(errors, "orderId must be a valid UUID")
	}

	return errors
}

// ToInput converts a validated request.
func (req SubmitRequest) ToInput() SubmitInput {
	in := SubmitInput{
		RestaurantID:  strings.TrimSpace(req.RestaurantID),
		Destination:   ParseDestination(req.Destination),
		Items:         req.Items,
		Total:         req.Total,
		CustomerName:  req.CustomerName,
		Notes:         req.Notes,
		PaymentMethod: req.PaymentMethod,
		Address:       req.Address,
		Phone:         req.Phone,
		IsAdditional:  req.IsAdditional,
	}
	if parentID, err := uuid.Parse(req.ParentOrderID); err == nil {
		in.ParentOrderID = &parentID
	}
	return in
}
