package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	settingsports "github.com/AhmetSulu/online-shopping-api/internal/domains/settings/ports"
)

// SettingsAPI wires HTTP transport with the settings bounded context service.
type SettingsAPI struct {
	service settingsports.Service
}

// NewSettingsAPI creates a SettingsAPI backed by the provided service.
func NewSettingsAPI(service settingsports.Service) SettingsAPI {
	return SettingsAPI{service: service}
}

type settingsView struct {
	MaintenanceMode bool `json:"maintenanceMode"`
}

// Get /api/v1/settings
// Report the current operator switches
func (api *SettingsAPI) GetSettings(c *gin.Context) {
	setting, err := api.service.Get(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, settingsView{MaintenanceMode: setting.MaintenanceMode})
}

// Put /api/v1/settings/maintenance
// Toggle maintenance mode
func (api *SettingsAPI) ToggleMaintenance(c *gin.Context) {
	setting, err := api.service.ToggleMaintenance(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, settingsView{MaintenanceMode: setting.MaintenanceMode})
}
