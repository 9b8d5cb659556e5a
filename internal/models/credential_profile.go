package models

import (
	"time"
)

// CredentialProfileID is the fixed primary key of the single stored
// credential set. Saves are last-write-wins against this row.
const CredentialProfileID = "default"

// CredentialProfile stores the operator's Ruckus One API credentials.
// The client secret is encrypted at rest; everything else is plain.
type CredentialProfile struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	TenantID        string    `gorm:"column:tenant_id" json:"tenant_id"`
	ClientID        string    `gorm:"column:client_id" json:"client_id"`
	ClientSecretEnc string    `gorm:"column:client_secret_enc" json:"-"` // Encrypted, never expose in JSON
	Mode            string    `json:"mode"`   // regular or msp
	MspID           string    `gorm:"column:msp_id" json:"msp_id"`
	TargetTenantID  string    `gorm:"column:target_tenant_id" json:"target_tenant_id"`
	VenueID         string    `gorm:"column:venue_id" json:"venue_id"`
	Region          string    `json:"region"` // na, eu or asia
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (CredentialProfile) TableName() string {
	return "credential_profiles"
}
