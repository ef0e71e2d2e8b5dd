package tasks

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"contact-importer/auth"
	"contact-importer/ccapi"
)

type handler struct {
	api *ccapi.Client
}

// RegisterRoutes wires the remote task endpoints onto the router group. The
// provider tracks exports/imports it runs itself as "activities"; these
// handlers proxy them for the UI's tasks page.
func RegisterRoutes(rg *gin.RouterGroup, api *ccapi.Client) {
	h := &handler{api: api}

	rg.GET("", h.listTasks)
	rg.POST("/export-contacts", h.exportContacts)
	rg.GET("/:task_id", h.getTask)
	rg.GET("/:task_id/download", h.downloadTask)
}

// listTasks godoc
// @Summary List remote tasks
// @Description Lists the provider's asynchronous export/import tasks
// @Tags tasks
// @Produce json
// @Success 200 {object} ccapi.ActivityList "Task list"
// @Failure 502 {object} map[string]string "Remote API error"
// @Router /tasks [get]
func (h *handler) listTasks(c *gin.Context) {
	list, err := h.api.ListActivities(c.Request.Context(), auth.TokenFromContext(c))
	if err != nil {
		remoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// exportContacts godoc
// @Summary Start a remote contact export
// @Description Asks the provider to export the full contact list; progress is tracked as a task
// @Tags tasks
// @Produce json
// @Success 202 {object} ccapi.Activity "Created task"
// @Failure 502 {object} map[string]string "Remote API error"
// @Router /tasks/export-contacts [post]
func (h *handler) exportContacts(c *gin.Context) {
	activity, err := h.api.CreateContactExport(c.Request.Context(), auth.TokenFromContext(c))
	if err != nil {
		remoteError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, activity)
}

// getTask godoc
// @Summary Get one remote task
// @Tags tasks
// @Produce json
// @Param task_id path string true "Task ID"
// @Success 200 {object} ccapi.Activity "Task details"
// @Failure 502 {object} map[string]string "Remote API error"
// @Router /tasks/{task_id} [get]
func (h *handler) getTask(c *gin.Context) {
	activity, err := h.api.GetActivity(c.Request.Context(), auth.TokenFromContext(c), c.Param("task_id"))
	if err != nil {
		remoteError(c, err)
		return
	}

	c.JSON(http.StatusOK, activity)
}

// downloadTask godoc
// @Summary Download a completed task's results
// @Tags tasks
// @Produce octet-stream
// @Param task_id path string true "Task ID"
// @Success 200 {file} file "Task results"
// @Failure 404 {object} map[string]string "No results available"
// @Router /tasks/{task_id}/download [get]
func (h *handler) downloadTask(c *gin.Context) {
	token := auth.TokenFromContext(c)

	activity, err := h.api.GetActivity(c.Request.Context(), token, c.Param("task_id"))
	if err != nil {
		remoteError(c, err)
		return
	}

	if activity.Links.Results.Href == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task has no downloadable results"})
		return
	}

	body, contentType, err := h.api.DownloadResults(c.Request.Context(), token, activity.Links.Results.Href)
	if err != nil {
		remoteError(c, err)
		return
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, body)
}

// remoteError maps remote API failures onto this service's responses,
// passing the provider's status through when it sent one
func remoteError(c *gin.Context, err error) {
	if apiErr, ok := err.(*ccapi.APIError); ok {
		c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Error()})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}
