package common

import (
	"time"

	"gorm.io/gorm"
)

// Job statuses shared by import and export jobs
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusCanceled   = "canceled"
	JobStatusFailed     = "failed"
)

// ImportJob tracks one CSV import attempt: the validated batch size and the
// upload counters updated as the sequential upload loop settles each contact.
// Per-item statuses live in the in-memory upload session; only the aggregate
// survives a restart.
type ImportJob struct {
	ID             string     `gorm:"primaryKey;type:text" json:"id"`
	FileName       string     `json:"file_name"`
	FilePath       string     `json:"file_path,omitempty"`
	SkipDuplicates bool       `gorm:"not null" json:"skip_duplicates"`
	Status         string     `gorm:"not null" json:"status"`
	TotalRecords   int        `gorm:"default:0" json:"total_records"`
	ProcessedCount int        `gorm:"default:0" json:"processed_count"`
	SuccessCount   int        `gorm:"default:0" json:"success_count"`
	FailCount      int        `gorm:"default:0" json:"fail_count"`
	Errors         string     `gorm:"type:text" json:"errors,omitempty"` // JSON array of errors
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// ExportJob tracks a local export of the remote contact list to a file
type ExportJob struct {
	ID           string     `gorm:"primaryKey;type:text" json:"id"`
	Format       string     `gorm:"not null" json:"format"` // csv, ndjson
	Status       string     `gorm:"not null" json:"status"`
	FilePath     string     `json:"file_path,omitempty"`
	DownloadURL  string     `json:"download_url,omitempty"`
	TotalRecords int        `gorm:"default:0" json:"total_records"`
	Errors       string     `gorm:"type:text" json:"errors,omitempty"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// ApiMetric tracks API performance metrics
type ApiMetric struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Endpoint      string    `gorm:"not null" json:"endpoint"`
	Method        string    `gorm:"not null" json:"method"`
	StatusCode    int       `gorm:"not null" json:"status_code"`
	DurationMs    int       `gorm:"not null" json:"duration_ms"`
	RowsProcessed int       `gorm:"default:0" json:"rows_processed"`
	Timestamp     time.Time `gorm:"not null" json:"timestamp"`
}

func (ImportJob) TableName() string { return "import_jobs" }
func (ExportJob) TableName() string { return "export_jobs" }
func (ApiMetric) TableName() string { return "api_metrics" }

// AutoMigrateJobs creates job tracking tables
func AutoMigrateJobs(db *gorm.DB) error {
	return db.AutoMigrate(&ImportJob{}, &ExportJob{}, &ApiMetric{})
}
