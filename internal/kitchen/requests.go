package kitchen

type SubmitRequest struct {
	RestaurantID  string  `json:"restaurantId"`
	Destination   string  `json:"destination"`
	Items         []Item  `json:"items"`
	Total         float64 `json:"total"`
	CustomerName  string  `json:"customerName,omitempty"`
	Notes         string  `json:"notes,omitempty"`
	Address       string  `json:"address,omitempty"`
	Phone         string  `json:"phone,omitempty"`
	PaymentMethod string  `json:"paymentMethod,omitempty"`
	IsAdditional  bool    `json:"isAdditional,omitempty"`
	ParentOrderID string  `json:"parentOrderId,omitempty"`
}

type StatusChangeRequest struct {
	RestaurantID string `json:"restaurantId"`
	OrderID      string `json:"orderId"`
	NewStatus    string `json:"newStatus"`
	Version      int    `json:"version,omitempty"`
}

type RemoveRequest struct {
	RestaurantID string `json:"restaurantId"`
	OrderID      string `json:"orderId"`
}
