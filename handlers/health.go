package handlers

import (
	"net/http"

	"github.com/kova98/threadtext/models"
)

func GetHealth(w http.ResponseWriter, r *http.Request) Result {
	return Ok(models.HealthResponse{Status: "ok"})
}
