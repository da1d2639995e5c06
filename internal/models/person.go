package models

import "time"

// Person is an individual tracked by national identifier.
type Person struct {
	ID         string    `db:"id" json:"id"`
	FullName   string    `db:"full_name" json:"fullName"`
	NationalID string    `db:"national_id" json:"nationalId"`
	Phone      *string   `db:"phone" json:"phone,omitempty"`
	Address    *string   `db:"address" json:"address,omitempty"`
	Email      *string   `db:"email" json:"email,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// PersonDetail is a person enriched with derived counts: how many procedures
// the person owns and how many documents hang off those procedures.
type PersonDetail struct {
	Person
	TramitesCount   int `db:"tramites_count" json:"tramitesCount"`
	DocumentosCount int `db:"documentos_count" json:"documentosCount"`
}
