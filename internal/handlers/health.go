// internal/handlers/health.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/wms-ledger/internal/core/ports"
	"github.com/ammerola/wms-ledger/internal/pkg/config"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDegraded  = "degraded"
)

// QueueInspector is the subset of *asynq.Inspector used for health reporting
type QueueInspector interface {
	Queues() ([]string, error)
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
	Servers() ([]*asynq.ServerInfo, error)
}

// HealthHandler reports the state of the ledger's dependencies
type HealthHandler struct {
	db        ports.Database
	redis     *redis.Client
	queues    QueueInspector
	config    *config.Config
	logger    *slog.Logger
	startTime time.Time
}

// NewHealthHandler creates a new health handler. inspector may be nil when
// the API runs without a task queue.
func NewHealthHandler(
	database ports.Database,
	redisClient *redis.Client,
	inspector QueueInspector,
	cfg *config.Config,
	logger *slog.Logger,
) *HealthHandler {
	return &HealthHandler{
		db:        database,
		redis:     redisClient,
		queues:    inspector,
		config:    cfg,
		logger:    logger.With(slog.String("handler", "health")),
		startTime: time.Now(),
	}
}

// HealthStatus is the body of GET /health
type HealthStatus struct {
	Status      string                 `json:"status"`
	Version     string                 `json:"version"`
	Environment string                 `json:"environment"`
	Uptime      string                 `json:"uptime"`
	Timestamp   time.Time              `json:"timestamp"`
	Services    map[string]ServiceInfo `json:"services"`
	System      SystemInfo             `json:"system"`
}

// ServiceInfo is the status of one dependency
type ServiceInfo struct {
	Status       string                 `json:"status"`
	Message      string                 `json:"message,omitempty"`
	ResponseTime string                 `json:"response_time,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

type SystemInfo struct {
	GoVersion     string `json:"go_version"`
	NumGoroutines int    `json:"num_goroutines"`
	NumCPU        int    `json:"num_cpu"`
	MemoryAllocMB uint64 `json:"memory_alloc_mb"`
	NumGC         uint32 `json:"num_gc"`
}

type dependencyCheck func(ctx context.Context) ServiceInfo

func (h *HealthHandler) checks() map[string]dependencyCheck {
	checks := map[string]dependencyCheck{
		"database": h.checkDatabase,
		"redis":    h.checkRedis,
	}
	if h.queues != nil {
		checks["queue"] = h.checkQueue
	}
	return checks
}

// runChecks runs every dependency check concurrently
func (h *HealthHandler) runChecks(ctx context.Context) map[string]ServiceInfo {
	checks := h.checks()
	results := make(map[string]ServiceInfo, len(checks))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, check := range checks {
		wg.Add(1)
		go func(name string, check dependencyCheck) {
			defer wg.Done()
			start := time.Now()
			info := check(ctx)
			info.ResponseTime = time.Since(start).String()

			mu.Lock()
			results[name] = info
			mu.Unlock()
		}(name, check)
	}
	wg.Wait()
	return results
}

// Health handles GET /api/v1/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := HealthStatus{
		Status:      statusHealthy,
		Version:     h.config.App.Version,
		Environment: h.config.App.Environment,
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		Timestamp:   time.Now().UTC(),
		Services:    h.runChecks(ctx),
		System:      systemInfo(),
	}
	for _, svc := range health.Services {
		if svc.Status != statusHealthy {
			health.Status = statusDegraded
		}
	}

	statusCode := http.StatusOK
	if health.Status != statusHealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respondJSON(w, r, h.logger, statusCode, health)
}

// Readiness handles GET /api/v1/ready. Only the database and Redis gate
// readiness; a stalled queue must not take the API out of rotation.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ready := true
	details := map[string]string{"database": "ready", "redis": "ready"}

	if err := h.db.Ping(ctx); err != nil {
		ready = false
		details["database"] = "not ready"
	}
	if err := h.redis.Ping(ctx).Err(); err != nil {
		ready = false
		details["redis"] = "not ready"
	}

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
		h.logger.WarnContext(ctx, "readiness check failed", slog.Any("details", details))
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respondJSON(w, r, h.logger, statusCode, map[string]interface{}{
		"ready":   ready,
		"details": details,
	})
}

func unhealthy(err error) ServiceInfo {
	return ServiceInfo{Status: statusUnhealthy, Message: err.Error()}
}

func (h *HealthHandler) checkDatabase(ctx context.Context) ServiceInfo {
	if err := h.db.Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "database health check failed", slog.String("error", err.Error()))
		return unhealthy(err)
	}
	return ServiceInfo{Status: statusHealthy, Details: h.db.Health(ctx)}
}

func (h *HealthHandler) checkRedis(ctx context.Context) ServiceInfo {
	if err := h.redis.Ping(ctx).Err(); err != nil {
		h.logger.ErrorContext(ctx, "redis health check failed", slog.String("error", err.Error()))
		return unhealthy(err)
	}

	stats := h.redis.PoolStats()
	return ServiceInfo{
		Status: statusHealthy,
		Details: map[string]interface{}{
			"total_conns": stats.TotalConns,
			"idle_conns":  stats.IdleConns,
			"stale_conns": stats.StaleConns,
		},
	}
}

// checkQueue reports queue depth. Archived tasks are movement checks or
// audits that exhausted their retries and need an operator.
func (h *HealthHandler) checkQueue(ctx context.Context) ServiceInfo {
	queues, err := h.queues.Queues()
	if err != nil {
		h.logger.ErrorContext(ctx, "queue health check failed", slog.String("error", err.Error()))
		return unhealthy(err)
	}

	archived := 0
	stats := make(map[string]interface{}, len(queues))
	for _, queue := range queues {
		q, err := h.queues.GetQueueInfo(queue)
		if err != nil {
			continue
		}
		archived += q.Archived
		stats[queue] = map[string]int{
			"pending":   q.Pending,
			"active":    q.Active,
			"scheduled": q.Scheduled,
			"retry":     q.Retry,
			"archived":  q.Archived,
		}
	}

	info := ServiceInfo{
		Status:  statusHealthy,
		Details: map[string]interface{}{"queues": stats, "archived_total": archived},
	}
	if servers, err := h.queues.Servers(); err == nil {
		info.Details["servers"] = len(servers)
	}
	return info
}

func systemInfo() SystemInfo {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return SystemInfo{
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		NumCPU:        runtime.NumCPU(),
		MemoryAllocMB: mem.Alloc / 1024 / 1024,
		NumGC:         mem.NumGC,
	}
}
