package models

import "time"

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type ConvertResponse struct {
	Success         bool             `json:"success"`
	ConvertedImages []ConvertedImage `json:"convertedImages"`
}

// HealthCheck maps each backend name to "healthy", "not configured" or "unhealthy: <reason>".
type HealthCheck struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}
