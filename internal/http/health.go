package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lexreader/internal/database"
	"github.com/mrlokans/lexreader/internal/tasks"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db      *database.Database
	tasks   *tasks.Client
	version string
}

func NewHealthController(db *database.Database, taskClient *tasks.Client, version string) *HealthController {
	return &HealthController{
		db:      db,
		tasks:   taskClient,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["dictionary"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["dictionary"] = "ok"
		}
	} else {
		checks["dictionary"] = "not configured"
	}

	switch {
	case h.tasks == nil:
		checks["tasks"] = "disabled"
	case h.tasks.Started():
		checks["tasks"] = "ok"
	default:
		checks["tasks"] = "stopped"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
