package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"skillswap/internal/domain/repository"
)

const healthProbeKey = "healthcheck"

type HealthHandler struct {
	store  repository.RecordStore
	driver string
}

var healthHandler *HealthHandler

func NewHealthHandler(store repository.RecordStore, driver string) *HealthHandler {
	return &HealthHandler{
		store:  store,
		driver: driver,
	}
}

func SetupHealthHandler(store repository.RecordStore, driver string) {
	healthHandler = NewHealthHandler(store, driver)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "Server is running",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// CheckStoreHealth does one read against the record store.
func (h *HealthHandler) CheckStoreHealth(c echo.Context) error {
	if _, _, err := h.store.Get(c.Request().Context(), healthProbeKey); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "Record store unreachable",
			"driver": h.driver,
			"error":  err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "Record store reachable",
		"driver": h.driver,
	})
}
