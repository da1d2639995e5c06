package models

import "time"

// Procedure status labels. The set is suggested, not enforced: any string may
// be stored and any value may follow any other.
const (
	StatusPendiente  = "Pendiente"
	StatusEnRevision = "En Revisión"
	StatusAprobado   = "Aprobado"
	StatusRechazado  = "Rechazado"
	StatusCompletado = "Completado"
)

// Procedure is an administrative case ("trámite") belonging to one person.
type Procedure struct {
	ID               string    `db:"id" json:"id"`
	PersonID         string    `db:"person_id" json:"personId"`
	Type             string    `db:"type" json:"type"`
	Description      *string   `db:"description" json:"description,omitempty"`
	DocumentDate     time.Time `db:"document_date" json:"documentDate"`
	ResponsibleParty string    `db:"responsible_party" json:"responsibleParty"`
	Status           string    `db:"status" json:"status"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}

// ProcedureDetail adds owner identification and the document count.
type ProcedureDetail struct {
	Procedure
	PersonName       *string `db:"person_name" json:"personName,omitempty"`
	PersonNationalID *string `db:"person_national_id" json:"personNationalId,omitempty"`
	DocumentosCount  int     `db:"documentos_count" json:"documentosCount"`
}
