package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	agreementrepo "github.com/znznow/agreements-backend/internal/data/repos/agreement"
	"github.com/znznow/agreements-backend/internal/domain"
	"github.com/znznow/agreements-backend/internal/platform/logger"
	"github.com/znznow/agreements-backend/internal/platform/storage"
)

// Messages match the public API error bodies, so handlers can surface
// err.Error() directly.
var (
	ErrAgreementNotFound = errors.New("Agreement not found")
	ErrPDFNotFound       = errors.New("PDF not found")
	ErrPDFFileMissing    = errors.New("PDF file not found")
)

// ValidationError names the first missing mandatory field by its payload
// (camelCase) name.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "Missing required field: " + e.Field
}

var inputValidator = newInputValidator()

func newInputValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateInput(input domain.AgreementInput) error {
	err := inputValidator.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Field: verrs[0].Field()}
	}
	return err
}

type CreateResult struct {
	ID          string
	PDFURL      string
	DownloadURL string
}

type AgreementService interface {
	Create(ctx context.Context, input domain.AgreementInput) (*CreateResult, error)
	Preview(input domain.AgreementInput) (*bytes.Buffer, string, error)
	Get(ctx context.Context, id string) (*domain.Agreement, error)
	List(ctx context.Context, page, perPage int, status string) (*domain.AgreementPage, error)
	Stats(ctx context.Context) (*domain.AgreementStats, error)
	ResolvePDF(ctx context.Context, id string) (path string, vendorName string, err error)
}

type agreementService struct {
	db         *gorm.DB
	log        *logger.Logger
	repo       agreementrepo.AgreementRepo
	signatures SignatureService
	documents  DocumentService
	files      storage.FileStore
}

func NewAgreementService(
	db *gorm.DB,
	log *logger.Logger,
	repo agreementrepo.AgreementRepo,
	signatures SignatureService,
	documents DocumentService,
	files storage.FileStore,
) AgreementService {
	serviceLog := log.With("service", "AgreementService")
	return &agreementService{
		db:         db,
		log:        serviceLog,
		repo:       repo,
		signatures: signatures,
		documents:  documents,
		files:      files,
	}
}

// Create runs the full submission pipeline: validate, decode signature,
// render, persist artifacts, insert the record, append the audit entry.
// Artifact writes and the row insert are sequential and non-atomic; a
// crash in between leaves an orphan file with no matching record.
func (as *agreementService) Create(ctx context.Context, input domain.AgreementInput) (*CreateResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	sig := as.signatures.Decode(input.Signature)

	doc, err := as.documents.Render(input, sig)
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}

	signaturePath := ""
	if len(sig) > 0 {
		p, err := as.files.Save(storage.CategorySignature, id+".png", sig)
		if err != nil {
			as.log.Warn("save signature image failed (ignored)", "agreement_id", id, "error", err)
		} else {
			signaturePath = p
		}
	}

	pdfPath, err := as.files.Save(storage.CategoryPDF, id+".pdf", doc.Bytes())
	if err != nil {
		return nil, fmt.Errorf("store pdf: %w", err)
	}

	now := time.Now().UTC()
	rec := &domain.Agreement{
		ID:                 id,
		VendorName:         input.VendorName,
		VendorEmail:        input.VendorEmail,
		VendorRegistration: input.VendorRegistration,
		VendorAddress:      input.VendorAddress,
		VendorCity:         input.VendorCity,
		VendorCountry:      input.VendorCountry,
		VendorPhone:        input.VendorPhone,
		ContactPerson:      input.ContactPerson,
		ContactTitle:       input.ContactTitle,
		PartnershipLevel:   input.PartnershipLevel,
		EffectiveDate:      input.EffectiveDate,
		PDFPath:            pdfPath,
		SignaturePath:      signaturePath,
		Status:             domain.StatusSigned,
		CreatedAt:          now,
		VendorSignedDate:   &now,
		Notes:              input.Notes,
	}
	if err := as.repo.Create(ctx, nil, rec); err != nil {
		return nil, fmt.Errorf("store agreement: %w", err)
	}

	as.logAction(ctx, id, "created", map[string]any{
		"vendor": input.VendorName,
		"email":  input.VendorEmail,
	})

	return &CreateResult{
		ID:          id,
		PDFURL:      "/api/agreements/" + id + "/pdf",
		DownloadURL: "/api/agreements/" + id + "/download",
	}, nil
}

// Preview renders the document without touching storage or the database.
func (as *agreementService) Preview(input domain.AgreementInput) (*bytes.Buffer, string, error) {
	if err := validateInput(input); err != nil {
		return nil, "", err
	}
	sig := as.signatures.Decode(input.Signature)
	doc, err := as.documents.Render(input, sig)
	if err != nil {
		return nil, "", fmt.Errorf("generate pdf: %w", err)
	}
	return doc, DownloadFilename(input.VendorName), nil
}

func (as *agreementService) Get(ctx context.Context, id string) (*domain.Agreement, error) {
	rec, err := as.repo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgreementNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (as *agreementService) List(ctx context.Context, page, perPage int, status string) (*domain.AgreementPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	rows, total, err := as.repo.List(ctx, nil, page, perPage, status)
	if err != nil {
		return nil, err
	}
	return &domain.AgreementPage{
		Agreements: rows,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		Pages:      int((total + int64(perPage) - 1) / int64(perPage)),
	}, nil
}

func (as *agreementService) Stats(ctx context.Context) (*domain.AgreementStats, error) {
	return as.repo.Aggregate(ctx, nil)
}

// ResolvePDF distinguishes a missing record/path from a record whose file
// has since vanished from disk; both are not-found to the caller.
func (as *agreementService) ResolvePDF(ctx context.Context, id string) (string, string, error) {
	rec, err := as.repo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrPDFNotFound
		}
		return "", "", err
	}
	if rec.PDFPath == "" {
		return "", "", ErrPDFNotFound
	}
	if !as.files.Exists(rec.PDFPath) {
		return "", "", ErrPDFFileMissing
	}
	return rec.PDFPath, rec.VendorName, nil
}

func (as *agreementService) logAction(ctx context.Context, id, action string, details map[string]any) {
	if err := as.repo.AppendLog(ctx, nil, id, action, details); err != nil {
		as.log.Warn("audit log append failed (ignored)", "agreement_id", id, "action", action, "error", err)
	}
}

// DownloadFilename derives the attachment name from the vendor and the
// current year, e.g. ZNZNOW_Agreement_Spice_Tours_2026.pdf.
func DownloadFilename(vendorName string) string {
	name := strings.ReplaceAll(strings.TrimSpace(vendorName), " ", "_")
	if name == "" {
		name = "Vendor"
	}
	return fmt.Sprintf("ZNZNOW_Agreement_%s_%d.pdf", name, time.Now().Year())
}
