package exports

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"contact-importer/auth"
	"contact-importer/ccapi"
	"contact-importer/common"
	"contact-importer/contacts"
)

// PageSize is the number of contacts fetched from the remote API per request
const PageSize = 500

// CreateExportRequest selects the output format for a local export
type CreateExportRequest struct {
	Format string `json:"format" binding:"omitempty,oneof=csv ndjson"`
}

// CreateExportResponse represents the response for export job creation
type CreateExportResponse struct {
	JobID     string    `json:"job_id"`
	Status    string    `json:"status"`
	Format    string    `json:"format"`
	CreatedAt time.Time `json:"created_at"`
}

type handler struct {
	api        *ccapi.Client
	exportsDir string
}

// RegisterRoutes wires the local export endpoints onto the router group
func RegisterRoutes(rg *gin.RouterGroup, api *ccapi.Client, exportsDir string) {
	h := &handler{api: api, exportsDir: exportsDir}

	rg.POST("", h.createExport)
	rg.GET("/:job_id", h.getExport)
	rg.GET("/files/:filename", h.downloadExport)
}

// createExport godoc
// @Summary Create async export job
// @Description Pages the full remote contact list into a local CSV or NDJSON file and publishes a download URL
// @Tags exports
// @Accept json
// @Produce json
// @Param export body CreateExportRequest false "Export configuration"
// @Success 202 {object} CreateExportResponse "Export job created"
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /exports [post]
func (h *handler) createExport(c *gin.Context) {
	var req CreateExportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.Format == "" {
		req.Format = "csv"
	}

	job := common.ExportJob{
		ID:        uuid.New().String(),
		Format:    req.Format,
		Status:    common.JobStatusPending,
		CreatedAt: time.Now(),
	}

	if err := common.GetDB().Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create export job"})
		return
	}

	go h.processExportJob(job.ID, auth.TokenFromContext(c), req.Format)

	c.JSON(http.StatusAccepted, CreateExportResponse{
		JobID:     job.ID,
		Status:    job.Status,
		Format:    job.Format,
		CreatedAt: job.CreatedAt,
	})
}

// getExport godoc
// @Summary Get export job status
// @Description Retrieves the status and download URL of an export job
// @Tags exports
// @Produce json
// @Param job_id path string true "Export Job ID"
// @Success 200 {object} map[string]interface{} "Export job details with download URL"
// @Failure 404 {object} map[string]string "Job not found"
// @Router /exports/{job_id} [get]
func (h *handler) getExport(c *gin.Context) {
	jobID := c.Param("job_id")

	var job common.ExportJob
	if err := common.GetDB().Where("id = ?", jobID).First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Export job not found"})
		return
	}

	c.Set("rows_processed", job.TotalRecords)

	response := gin.H{
		"job_id":        job.ID,
		"format":        job.Format,
		"status":        job.Status,
		"total_records": job.TotalRecords,
		"created_at":    job.CreatedAt,
	}

	if job.CompletedAt != nil {
		response["completed_at"] = job.CompletedAt
	}
	if job.DownloadURL != "" {
		response["download_url"] = job.DownloadURL
	}
	if job.Errors != "" {
		response["errors"] = job.Errors
	}

	c.JSON(http.StatusOK, response)
}

// downloadExport godoc
// @Summary Download a generated export file
// @Tags exports
// @Produce text/csv
// @Produce application/x-ndjson
// @Param filename path string true "Export file name"
// @Success 200 {file} file "Export file"
// @Failure 404 {object} map[string]string "File not found"
// @Router /exports/files/{filename} [get]
func (h *handler) downloadExport(c *gin.Context) {
	filename := filepath.Base(c.Param("filename"))
	path := filepath.Join(h.exportsDir, filename)

	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Export file not found"})
		return
	}

	c.FileAttachment(path, filename)
}

// processExportJob pages the remote contact list into a local file
func (h *handler) processExportJob(jobID, token, format string) {
	db := common.GetDB()

	var job common.ExportJob
	if err := db.Where("id = ?", jobID).First(&job).Error; err != nil {
		return
	}

	job.Status = common.JobStatusProcessing
	db.Save(&job)

	if err := os.MkdirAll(h.exportsDir, 0750); err != nil {
		failExport(db, &job, err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", slug.Make("contacts export"), timestamp, format)
	path := filepath.Join(h.exportsDir, filename)

	file, err := os.Create(path)
	if err != nil {
		failExport(db, &job, err)
		return
	}
	defer file.Close()

	var exportErr error
	if format == "csv" {
		exportErr = h.writeCSV(file, token, &job)
	} else {
		exportErr = h.writeNDJSON(file, token, &job)
	}

	now := time.Now()
	job.CompletedAt = &now

	if exportErr != nil {
		job.Status = common.JobStatusFailed
		job.Errors = exportErr.Error()
	} else {
		job.Status = common.JobStatusCompleted
		job.FilePath = path
		job.DownloadURL = fmt.Sprintf("/exports/files/%s", filename)
	}

	db.Save(&job)
}

// failExport marks the job failed with the underlying error
func failExport(db *gorm.DB, job *common.ExportJob, err error) {
	now := time.Now()
	job.Status = common.JobStatusFailed
	job.Errors = err.Error()
	job.CompletedAt = &now
	db.Save(job)
}

// writeCSV streams every remote contact as one CSV row
func (h *handler) writeCSV(file *os.File, token string, job *common.ExportJob) error {
	db := common.GetDB()

	writer := csv.NewWriter(file)
	writer.Write([]string{
		"contact_id", "first_name", "last_name", "email",
		"address_line_1", "address_city", "address_state", "address_zip", "address_country",
		"phone_number", "created_at", "updated_at",
	})
	writer.Flush()

	return h.eachPage(token, func(page []contacts.Contact) error {
		for _, contact := range page {
			writer.Write(csvRow(contact))
			job.TotalRecords++
		}
		writer.Flush()
		db.Model(job).Update("total_records", job.TotalRecords)
		return writer.Error()
	})
}

// writeNDJSON streams every remote contact as one JSON line
func (h *handler) writeNDJSON(file *os.File, token string, job *common.ExportJob) error {
	db := common.GetDB()
	encoder := json.NewEncoder(file)

	return h.eachPage(token, func(page []contacts.Contact) error {
		for _, contact := range page {
			if err := encoder.Encode(contact); err != nil {
				return err
			}
			job.TotalRecords++
		}
		db.Model(job).Update("total_records", job.TotalRecords)
		return nil
	})
}

// eachPage walks the remote contact listing cursor by cursor
func (h *handler) eachPage(token string, fn func(page []contacts.Contact) error) error {
	cursor := ""
	for {
		list, err := h.api.ListContacts(context.Background(), token, cursor, fmt.Sprint(PageSize))
		if err != nil {
			return err
		}

		if err := fn(list.Contacts); err != nil {
			return err
		}

		cursor = nextCursor(list.Links.Next.Href)
		if cursor == "" {
			return nil
		}
	}
}

// nextCursor extracts the cursor parameter from a _links.next href
func nextCursor(href string) string {
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return u.Query().Get("cursor")
}

// csvRow flattens a contact onto the import column set, using the first
// street address and phone entry when present
func csvRow(contact contacts.Contact) []string {
	var street contacts.StreetAddress
	if len(contact.StreetAddresses) > 0 {
		street = contact.StreetAddresses[0]
	}

	var phone contacts.PhoneNumber
	if len(contact.PhoneNumbers) > 0 {
		phone = contact.PhoneNumbers[0]
	}

	return []string{
		contact.ContactID,
		contact.FirstName,
		contact.LastName,
		contact.EmailAddress.Address,
		street.Street,
		street.City,
		street.State,
		street.PostalCode,
		street.Country,
		phone.Number,
		contact.CreatedAt,
		contact.UpdatedAt,
	}
}
