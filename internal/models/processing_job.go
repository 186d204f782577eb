package models

import (
	"time"

	"github.com/google/uuid"
)

type JobInput struct {
	Filename string `json:"filename"`
	Key      string `json:"key"`
}

type JobResult struct {
	OriginalName string `json:"originalName"`
	URL          string `json:"url"`
	Key          string `json:"key"`
	Format       Format `json:"format"`
	Size         int64  `json:"size"`
}

type ConversionJob struct {
	ID        string      `json:"id"`
	Status    string      `json:"status"`
	Format    Format      `json:"format"`
	Quality   int         `json:"quality"`
	Inputs    []JobInput  `json:"inputs"`
	Results   []JobResult `json:"results,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

func NewConversionJob(format Format, quality int) *ConversionJob {
	now := time.Now()
	return &ConversionJob{
		ID:        uuid.New().String(),
		Status:    StatusPending,
		Format:    format,
		Quality:   NormalizeQuality(quality),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetStatus moves the job to status and stamps UpdatedAt.
func (j *ConversionJob) SetStatus(status string) {
	j.Status = status
	j.UpdatedAt = time.Now()
}
