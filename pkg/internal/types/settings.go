package types

// SettingsPayload 全局设置的读写载荷.
type SettingsPayload struct {
	IsPublic bool `json:"isPublic"`
}

// HealthResponse 健康检查响应.
type HealthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model"`
}

// ErrorResponse 统一错误响应体.
type ErrorResponse struct {
	Error string `json:"error"`
}
