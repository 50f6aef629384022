package controllers

import (
	"fmt"
	"minedash/internal/services"
	"minedash/internal/structures"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	service   services.ChartServiceInterface
	storage   string
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Storage       string  `json:"storage"`
	Characters    int     `json:"characters"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		Storage:       hc.storage,
	}
	status := http.StatusOK

	characters, err := hc.service.Characters(r.Context())
	if err != nil {
		resp.Status = "storage unavailable"
		status = http.StatusServiceUnavailable
	}
	resp.Characters = len(characters)

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(conf *structures.Config, service services.ChartServiceInterface) *HealthController {
	storage := conf.Storage.Driver
	if storage == "" {
		storage = "memory"
	}
	return &HealthController{
		service:   service,
		storage:   storage,
		startTime: time.Now(),
	}
}
