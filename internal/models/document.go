package models

import "time"

// Document is a file attached as evidence or output of one procedure. The
// storage path is server-generated and independent of the displayed name.
type Document struct {
	ID          string    `db:"id" json:"id"`
	ProcedureID string    `db:"procedure_id" json:"procedureId"`
	DisplayName string    `db:"display_name" json:"displayName"`
	MediaType   string    `db:"media_type" json:"mediaType"`
	Date        time.Time `db:"date" json:"date"`
	StoragePath string    `db:"storage_path" json:"storagePath"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
