package imports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"contact-importer/auth"
	"contact-importer/ccapi"
	"contact-importer/common"
	"contact-importer/contacts"
)

// CreateImportResponse represents the response for import job creation
type CreateImportResponse struct {
	JobID        string `json:"job_id"`
	Status       string `json:"status"`
	TotalRecords int    `json:"total_records"`
	CreatedAt    string `json:"created_at"`
}

// GetImportResponse represents the response for import job status
type GetImportResponse struct {
	JobID          string                       `json:"job_id"`
	FileName       string                       `json:"file_name,omitempty"`
	SkipDuplicates bool                         `json:"skip_duplicates"`
	Status         string                       `json:"status"`
	TotalRecords   int                          `json:"total_records"`
	ProcessedCount int                          `json:"processed_count"`
	SuccessCount   int                          `json:"success_count"`
	FailCount      int                          `json:"fail_count"`
	Items          []contacts.ContactWithStatus `json:"items,omitempty"`
	Errors         common.ValidationErrors      `json:"errors,omitempty"`
	CreatedAt      string                       `json:"created_at"`
	UpdatedAt      string                       `json:"updated_at"`
	CompletedAt    *string                      `json:"completed_at,omitempty"`
}

// sessionRetention is how long a settled session stays readable through
// GET /imports/:job_id before its per-item statuses are released
const sessionRetention = 10 * time.Minute

type handler struct {
	api        *ccapi.Client
	registry   *Registry
	notifier   common.Notifier
	uploadsDir string
	retention  time.Duration
}

// RegisterRoutes wires the import endpoints onto the router group
func RegisterRoutes(rg *gin.RouterGroup, api *ccapi.Client, uploadsDir string) {
	h := &handler{
		api:        api,
		registry:   NewRegistry(),
		notifier:   common.LogNotifier{},
		uploadsDir: uploadsDir,
		retention:  sessionRetention,
	}

	rg.POST("", h.createImport)
	rg.GET("/:job_id", h.getImport)
	rg.POST("/:job_id/cancel", h.cancelImport)
}

// createImport godoc
// @Summary Create a new contact import job
// @Description Parses and validates an uploaded CSV of contacts, then starts a sequential upload of the batch to the remote contact API
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file of contacts"
// @Param skip_duplicates formData bool false "Drop repeated emails instead of rejecting the batch"
// @Success 202 {object} CreateImportResponse "Import job created"
// @Failure 400 {object} map[string]interface{} "Parse or validation failure"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /imports [post]
func (h *handler) createImport(c *gin.Context) {
	db := common.GetDB()
	token := auth.TokenFromContext(c)

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}

	// Keep the raw upload on disk alongside the job record
	if err := os.MkdirAll(h.uploadsDir, 0750); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save uploaded file"})
		return
	}
	filePath := filepath.Join(h.uploadsDir, fmt.Sprintf("%s_%s", uuid.New().String(), filepath.Base(header.Filename)))
	if err := c.SaveUploadedFile(header, filePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save uploaded file"})
		return
	}

	file, err := os.Open(filePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	policy := contacts.DuplicateReject
	if c.PostForm("skip_duplicates") == "true" {
		policy = contacts.DuplicateSkip
	}

	batch, err := BuildBatch(file, policy)
	if err != nil {
		var parseErr *ParseError
		var failures common.ValidationErrors

		switch {
		case errors.As(err, &parseErr):
			h.notifier.Notify(common.Notification{Level: common.NotifyError, Message: "Failed to parse CSV file"})
			c.JSON(http.StatusBadRequest, gin.H{"error": parseErr.Error()})
		case errors.As(err, &failures):
			h.notifier.Notify(common.Notification{Level: common.NotifyError, Message: "Some contacts have validation errors"})
			c.JSON(http.StatusBadRequest, gin.H{
				"error":             "Some contacts have validation errors",
				"validation_errors": failures,
			})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to process CSV file."})
		}
		return
	}

	c.Set("rows_processed", len(batch))

	job := common.ImportJob{
		ID:             uuid.New().String(),
		FileName:       header.Filename,
		FilePath:       filePath,
		SkipDuplicates: policy == contacts.DuplicateSkip,
		Status:         common.JobStatusPending,
		TotalRecords:   len(batch),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := db.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create import job"})
		return
	}

	session := NewSession(batch, h.createContactFunc(token), h.persistProgress(job.ID), h.notifier)
	h.registry.Add(job.ID, session)

	go h.runUpload(job.ID, session)

	c.JSON(http.StatusAccepted, CreateImportResponse{
		JobID:        job.ID,
		Status:       job.Status,
		TotalRecords: job.TotalRecords,
		CreatedAt:    job.CreatedAt.Format(time.RFC3339),
	})
}

// getImport godoc
// @Summary Get import job status
// @Description Retrieves aggregate progress of an import job, plus per-item statuses while the session is live
// @Tags imports
// @Produce json
// @Param job_id path string true "Import Job ID"
// @Success 200 {object} GetImportResponse "Import job details"
// @Failure 404 {object} map[string]string "Job not found"
// @Router /imports/{job_id} [get]
func (h *handler) getImport(c *gin.Context) {
	db := common.GetDB()
	jobID := c.Param("job_id")

	var job common.ImportJob
	if err := db.Where("id = ?", jobID).First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Import job not found"})
		return
	}

	c.Set("rows_processed", job.ProcessedCount)

	response := GetImportResponse{
		JobID:          job.ID,
		FileName:       job.FileName,
		SkipDuplicates: job.SkipDuplicates,
		Status:         job.Status,
		TotalRecords:   job.TotalRecords,
		ProcessedCount: job.ProcessedCount,
		SuccessCount:   job.SuccessCount,
		FailCount:      job.FailCount,
		CreatedAt:      job.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      job.UpdatedAt.Format(time.RFC3339),
	}

	if job.CompletedAt != nil {
		completedStr := job.CompletedAt.Format(time.RFC3339)
		response.CompletedAt = &completedStr
	}

	// Per-item detail only exists while the session is held in memory
	if session, ok := h.registry.Get(jobID); ok {
		response.Items = session.Snapshot()
		progress := session.Progress()
		response.ProcessedCount = progress.ProcessedCount
		response.SuccessCount = progress.SuccessCount
		response.FailCount = progress.FailureCount
	}

	if job.Errors != "" {
		var failures common.ValidationErrors
		if err := json.Unmarshal([]byte(job.Errors), &failures); err == nil {
			response.Errors = failures
		}
	}

	c.JSON(http.StatusOK, response)
}

// cancelImport godoc
// @Summary Cancel a running import
// @Description Requests a halt of the upload loop; settled items keep their status and unattempted items stay pending
// @Tags imports
// @Produce json
// @Param job_id path string true "Import Job ID"
// @Success 202 {object} map[string]string "Cancellation requested"
// @Failure 404 {object} map[string]string "Job or session not found"
// @Router /imports/{job_id}/cancel [post]
func (h *handler) cancelImport(c *gin.Context) {
	jobID := c.Param("job_id")

	session, ok := h.registry.Get(jobID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active upload session for this job"})
		return
	}

	session.Cancel()

	c.JSON(http.StatusAccepted, gin.H{"job_id": jobID, "status": "canceling"})
}

// createContactFunc binds the caller's token into the remote create call
func (h *handler) createContactFunc(token string) CreateContactFunc {
	return func(ctx context.Context, contact contacts.Contact) (*contacts.Contact, error) {
		return h.api.CreateContact(ctx, token, contact)
	}
}

// persistProgress saves the session counters to the job row after every
// settled item
func (h *handler) persistProgress(jobID string) ProgressFunc {
	return func(p Progress) {
		common.GetDB().Model(&common.ImportJob{}).Where("id = ?", jobID).Updates(map[string]interface{}{
			"processed_count": p.ProcessedCount,
			"success_count":   p.SuccessCount,
			"fail_count":      p.FailureCount,
			"updated_at":      time.Now(),
		})
	}
}

// runUpload drives the session to completion and records the final outcome
func (h *handler) runUpload(jobID string, session *Session) {
	db := common.GetDB()

	db.Model(&common.ImportJob{}).Where("id = ?", jobID).Updates(map[string]interface{}{
		"status":     common.JobStatusProcessing,
		"updated_at": time.Now(),
	})

	session.Upload(context.Background())

	status := common.JobStatusCompleted
	if session.State() == StateCanceled {
		status = common.JobStatusCanceled
	}

	// Record per-item failures for when the session is gone
	var failures common.ValidationErrors
	for i, item := range session.Snapshot() {
		if item.Status == contacts.StatusError {
			failures = append(failures, common.ValidationError{
				Field:   "email_address.address",
				Message: item.ErrorMessage,
			}.RowPrefixed(i + 1))
		}
	}

	progress := session.Progress()
	now := time.Now()

	db.Model(&common.ImportJob{}).Where("id = ?", jobID).Updates(map[string]interface{}{
		"status":          status,
		"processed_count": progress.ProcessedCount,
		"success_count":   progress.SuccessCount,
		"fail_count":      progress.FailureCount,
		"errors":          failures.ToJSON(),
		"updated_at":      now,
		"completed_at":    now,
	})

	// The aggregate outcome is persisted above; keep the per-item detail
	// around long enough for status polling, then let the session go
	time.AfterFunc(h.retention, func() {
		h.registry.Remove(jobID)
	})
}
