package models

import "github.com/kova98/threadtext/enums"

type TranscriptResponse struct {
	Source   string      `json:"source"`
	Shape    enums.Shape `json:"shape"`
	Language string      `json:"language,omitempty"`
	Text     string      `json:"text"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
