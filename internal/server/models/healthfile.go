package models

import "time"

// HealthFile describes one uploaded document. Filename is the stored name
// in the upload directory and identifies the record within its owner's list;
// OriginalFilename is what the user uploaded and is only for display.
type HealthFile struct {
	Filename         string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	UploadedAt       time.Time `json:"uploaded_at"`
}
