package models

import (
	"github.com/google/uuid"
)

// process an uploaded csv file end to end
type ProcessUploadArgs struct {
	UploadId uuid.UUID `json:"upload_id"`
}

func (ProcessUploadArgs) Kind() string { return "process_csv_upload" }
