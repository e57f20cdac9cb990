package http

// APIResponse is the envelope every endpoint returns. Status mirrors the
// HTTP status so clients behind buffering proxies can still branch on it.
type APIResponse struct {
	Status  int         `json:"status" example:"200"`
	Message string      `json:"message" example:"OK"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationError is one failed validation rule on a request field.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"source"`
	Message string                 `json:"message,omitempty" example:"Source is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// ListDataResponse wraps list endpoints with a total for pagination.
type ListDataResponse struct {
	Rows  interface{} `json:"rows"`
	Total int64       `json:"total"`
}
