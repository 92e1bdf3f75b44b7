package rest

import "report-assembler/domain"

type MountViewRequest struct {
	ReportID string `json:"report_id" validate:"required,report_id"`
}

type ResizeRequest struct {
	Width  int `json:"width" validate:"gte=0,lte=100000"`
	Height int `json:"height" validate:"gte=0,lte=100000"`
}

type ViewResponse struct {
	ViewID   string             `json:"view_id"`
	ReportID string             `json:"report_id"`
	State    domain.ReportState `json:"state"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	PolisAPI    string `json:"polis_api"`
	ActiveViews int    `json:"active_views"`
	RedisCache  string `json:"redis_cache,omitempty"`
}
