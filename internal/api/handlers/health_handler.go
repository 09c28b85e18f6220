package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports liveness, store reachability and host load.
type HealthHandler struct {
	db      Pinger
	started time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

// HealthReport is the body of the health endpoint.
type HealthReport struct {
	Status   string      `json:"status"`
	Database string      `json:"database"`
	Uptime   string      `json:"uptime"`
	Host     *HostReport `json:"host,omitempty"`
}

// HostReport holds host resource usage, best effort.
type HostReport struct {
	CPUPercent    float64 `json:"cpuPercent"`
	MemoryPercent float64 `json:"memoryPercent"`
}

// Check handles the health request.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	report := HealthReport{
		Status:   "ok",
		Database: "ok",
		Uptime:   time.Since(h.started).Round(time.Second).String(),
		Host:     hostReport(ctx),
	}
	status := http.StatusOK
	if err := h.db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("Health check: database unreachable")
		report.Status = "degraded"
		report.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, report)
}

func hostReport(ctx context.Context) *HostReport {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("Health check: memory stats unavailable")
		return nil
	}
	report := &HostReport{MemoryPercent: vm.UsedPercent}
	// Interval 0 compares against the previous call, so it never blocks.
	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		report.CPUPercent = percents[0]
	}
	return report
}
