package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusPending = "pending"
	StatusSigned  = "signed"

	PartnershipGrowth    = "growth"
	PartnershipStrategic = "strategic"
)

// Agreement is one vendor's submitted partnership record. Rows are
// write-once: no exposed operation mutates or deletes an agreement after
// the submission handler inserts it.
type Agreement struct {
	ID                 string     `gorm:"primaryKey;column:id" json:"id"`
	VendorName         string     `gorm:"not null;column:vendor_name" json:"vendor_name"`
	VendorEmail        string     `gorm:"not null;column:vendor_email" json:"vendor_email"`
	VendorRegistration string     `gorm:"not null;column:vendor_registration" json:"vendor_registration"`
	VendorAddress      string     `gorm:"column:vendor_address" json:"vendor_address"`
	VendorCity         string     `gorm:"column:vendor_city" json:"vendor_city"`
	VendorCountry      string     `gorm:"column:vendor_country" json:"vendor_country"`
	VendorPhone        string     `gorm:"column:vendor_phone" json:"vendor_phone"`
	ContactPerson      string     `gorm:"not null;column:contact_person" json:"contact_person"`
	ContactTitle       string     `gorm:"column:contact_title" json:"contact_title"`
	PartnershipLevel   string     `gorm:"column:partnership_level" json:"partnership_level"`
	EffectiveDate      string     `gorm:"column:effective_date" json:"effective_date"`
	PDFPath            string     `gorm:"column:pdf_path" json:"pdf_path"`
	SignaturePath      string     `gorm:"column:signature_path" json:"signature_path"`
	Status             string     `gorm:"not null;default:pending;column:status" json:"status"`
	CreatedAt          time.Time  `gorm:"not null;column:created_at" json:"created_at"`
	ZnznowSignedDate   *time.Time `gorm:"column:znznow_signed_date" json:"znznow_signed_date"`
	VendorSignedDate   *time.Time `gorm:"column:vendor_signed_date" json:"vendor_signed_date"`
	Notes              string     `gorm:"column:notes" json:"notes"`
}

func (Agreement) TableName() string { return "agreements" }

// AgreementLog is an append-only audit entry. Entries are never updated or
// deleted.
type AgreementLog struct {
	ID          int64          `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	AgreementID string         `gorm:"not null;index;column:agreement_id" json:"agreement_id"`
	Action      string         `gorm:"not null;column:action" json:"action"`
	Timestamp   time.Time      `gorm:"not null;column:timestamp" json:"timestamp"`
	Details     datatypes.JSON `gorm:"column:details" json:"details,omitempty"`
}

func (AgreementLog) TableName() string { return "agreement_logs" }

// AgreementInput is the submission payload. Field names mirror the public
// API (camelCase), unlike the stored record (snake_case).
type AgreementInput struct {
	VendorName         string `json:"vendorName" validate:"required"`
	VendorEmail        string `json:"vendorEmail" validate:"required"`
	VendorRegistration string `json:"vendorRegistration" validate:"required"`
	VendorAddress      string `json:"vendorAddress"`
	VendorCity         string `json:"vendorCity"`
	VendorCountry      string `json:"vendorCountry"`
	VendorPhone        string `json:"vendorPhone"`
	ContactPerson      string `json:"contactPerson" validate:"required"`
	ContactTitle       string `json:"contactTitle"`
	PartnershipLevel   string `json:"partnershipLevel"`
	EffectiveDate      string `json:"effectiveDate"`
	Signature          string `json:"signature" validate:"required"`
	Notes              string `json:"notes"`
}

type RecentAgreement struct {
	ID         string    `json:"id"`
	VendorName string    `json:"vendor_name"`
	CreatedAt  time.Time `json:"created_at"`
}

type AgreementStats struct {
	Total         int64             `json:"total"`
	ByStatus      map[string]int64  `json:"by_status"`
	ByPartnership map[string]int64  `json:"by_partnership"`
	Recent        []RecentAgreement `json:"recent"`
}

type AgreementPage struct {
	Agreements []*Agreement `json:"agreements"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PerPage    int          `json:"per_page"`
	Pages      int          `json:"pages"`
}

type PartnershipTier struct {
	Code              string `json:"code"`
	Label             string `json:"label"`
	CommissionPercent int    `json:"commission_percent"`
}

func PartnershipTiers() []PartnershipTier {
	return []PartnershipTier{
		{Code: PartnershipGrowth, Label: "Growth Partner", CommissionPercent: 25},
		{Code: PartnershipStrategic, Label: "Strategic Partner", CommissionPercent: 30},
	}
}

// PartnershipLabel maps a level code to its contract wording. The mapping
// is binary: "growth" is the 25% tier, every other value (including empty)
// is the 30% tier.
func PartnershipLabel(level string) string {
	if level == PartnershipGrowth {
		return "Growth Partner (25% Commission)"
	}
	return "Strategic Partner (30% Commission)"
}
