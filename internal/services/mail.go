package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"gorm.io/gorm"

	agreementrepo "github.com/znznow/agreements-backend/internal/data/repos/agreement"
	"github.com/znznow/agreements-backend/internal/domain"
	"github.com/znznow/agreements-backend/internal/platform/logger"
	"github.com/znznow/agreements-backend/internal/platform/sendgrid"
	"github.com/znznow/agreements-backend/internal/platform/storage"
)

var (
	ErrMailNotConfigured  = errors.New("email delivery not configured")
	ErrVendorPhoneMissing = errors.New("vendor phone missing")
)

// MailService delivers a finished agreement to the vendor. Delivery state
// is recorded in the audit log; the agreement row itself stays write-once.
type MailService interface {
	SendAgreement(ctx context.Context, id string) error
	WhatsAppLink(ctx context.Context, id string) (string, error)
}

type mailService struct {
	log      *logger.Logger
	repo     agreementrepo.AgreementRepo
	files    storage.FileStore
	sendgrid sendgrid.Client // nil when SENDGRID_API_KEY is unset
}

func NewMailService(log *logger.Logger, repo agreementrepo.AgreementRepo, files storage.FileStore, sg sendgrid.Client) MailService {
	serviceLog := log.With("service", "MailService")
	return &mailService{log: serviceLog, repo: repo, files: files, sendgrid: sg}
}

func (ms *mailService) SendAgreement(ctx context.Context, id string) error {
	if ms.sendgrid == nil {
		return ErrMailNotConfigured
	}

	rec, err := ms.lookup(ctx, id)
	if err != nil {
		return err
	}
	if rec.PDFPath == "" || !ms.files.Exists(rec.PDFPath) {
		return ErrPDFNotFound
	}
	raw, err := ms.files.Read(rec.PDFPath)
	if err != nil {
		return fmt.Errorf("read pdf: %w", err)
	}

	_, err = ms.sendgrid.Send(ctx, sendgrid.SendEmailRequest{
		To:      []sendgrid.EmailAddress{{Email: rec.VendorEmail, Name: rec.VendorName}},
		Subject: "Your ZNZNOW Vendor Partnership Agreement",
		HTML:    agreementEmailHTML(rec),
		Attachments: []sendgrid.Attachment{{
			Filename: DownloadFilename(rec.VendorName),
			MIMEType: "application/pdf",
			Content:  raw,
		}},
	})
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	if err := ms.repo.AppendLog(ctx, nil, id, "email_sent", map[string]any{"to": rec.VendorEmail}); err != nil {
		ms.log.Warn("audit log append failed (ignored)", "agreement_id", id, "action", "email_sent", "error", err)
	}
	ms.log.Info("agreement emailed", "agreement_id", id, "to_email", rec.VendorEmail)
	return nil
}

func (ms *mailService) WhatsAppLink(ctx context.Context, id string) (string, error) {
	rec, err := ms.lookup(ctx, id)
	if err != nil {
		return "", err
	}
	phone := digitsOnly(rec.VendorPhone)
	if phone == "" {
		return "", ErrVendorPhoneMissing
	}
	msg := fmt.Sprintf(
		"Hello %s, your ZNZNOW vendor partnership agreement is ready. Download it here: /api/agreements/%s/download",
		rec.VendorName, rec.ID,
	)
	return "https://wa.me/" + phone + "?text=" + url.QueryEscape(msg), nil
}

func (ms *mailService) lookup(ctx context.Context, id string) (*domain.Agreement, error) {
	rec, err := ms.repo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgreementNotFound
		}
		return nil, err
	}
	return rec, nil
}

func agreementEmailHTML(rec *domain.Agreement) string {
	var b strings.Builder
	b.WriteString("<h2>Your ZNZNOW Vendor Partnership Agreement</h2>")
	b.WriteString("<p>Dear " + htmlEscape(rec.ContactPerson) + ",</p>")
	b.WriteString("<p>Thank you for partnering with ZNZNOW Tours &amp; Activities. ")
	b.WriteString("Your signed partnership agreement for <strong>" + htmlEscape(rec.VendorName) + "</strong> is attached.</p>")
	b.WriteString("<p>Partnership level: " + htmlEscape(domain.PartnershipLabel(rec.PartnershipLevel)) + "</p>")
	b.WriteString("<p>Agreement reference: " + htmlEscape(rec.ID) + "</p>")
	b.WriteString("<p>The ZNZNOW Team</p>")
	return b.String()
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
