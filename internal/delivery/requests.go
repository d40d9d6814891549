package delivery

type CreateRequest struct {
	RestaurantID         string  `json:"restaurantId"`
	CustomerName         string  `json:"customerName"`
	Address              string  `json:"address"`
	Phone                string  `json:"phone,omitempty"`
	Items                []Item  `json:"items"`
	Total                float64 `json:"total"`
	PaymentMethod        string  `json:"paymentMethod,omitempty"`
	SourceKitchenOrderID string  `json:"sourceKitchenOrderId,omitempty"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}
