package tables

type TableCreateRequest struct {
	RestaurantID string `json:"restaurantId"`
	Number       string `json:"number"`
	Zone         string `json:"zone,omitempty"`
}

type AppendOrderRequest struct {
	CustomerName string     `json:"customerName,omitempty"`
	Items        []LineItem `json:"items"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}
