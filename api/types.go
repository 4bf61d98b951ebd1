package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler projectHandler
	adminHandler   adminHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Success    bool   `json:"success" example:"false"`
	Message    string `json:"message" example:"project not found"`
	Status     string `json:"status" example:"error"`
	Field      string `json:"field,omitempty" example:"name"`
	Violations []any  `json:"violations,omitempty"`
}
