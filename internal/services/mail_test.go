package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/znznow/agreements-backend/internal/data/repos/agreement"
	"github.com/znznow/agreements-backend/internal/data/repos/testutil"
	"github.com/znznow/agreements-backend/internal/domain"
	"github.com/znznow/agreements-backend/internal/platform/sendgrid"
	"github.com/znznow/agreements-backend/internal/platform/storage"
)

type mailFixture struct {
	agreements AgreementService
	repo       agreement.AgreementRepo
	files      storage.FileStore
	newMail    func(sg sendgrid.Client) MailService
}

func newMailFixture(t *testing.T) *mailFixture {
	t.Helper()
	gdb, log := testutil.OpenDB(t)
	repo := agreement.NewAgreementRepo(gdb, log)
	files, err := storage.NewFileStore(log, t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	agreements := NewAgreementService(gdb, log, repo, NewSignatureService(log), NewDocumentService(log), files)
	return &mailFixture{
		agreements: agreements,
		repo:       repo,
		files:      files,
		newMail: func(sg sendgrid.Client) MailService {
			return NewMailService(log, repo, files, sg)
		},
	}
}

func (f *mailFixture) create(t *testing.T, mod func(*domain.AgreementInput)) string {
	t.Helper()
	input := signedInput(t)
	if mod != nil {
		mod(&input)
	}
	res, err := f.agreements.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return res.ID
}

func newTestSendgrid(t *testing.T, baseURL string) sendgrid.Client {
	t.Helper()
	c, err := sendgrid.New(testutil.Logger(t), sendgrid.Config{
		APIKey:           "test-key",
		BaseURL:          baseURL,
		DefaultFromEmail: "agreements@znznow.com",
		Timeout:          5 * time.Second,
	})
	if err != nil {
		t.Fatalf("sendgrid.New: %v", err)
	}
	return c
}

func TestSendAgreementUnconfigured(t *testing.T) {
	f := newMailFixture(t)
	mail := f.newMail(nil)

	id := f.create(t, nil)
	if err := mail.SendAgreement(context.Background(), id); !errors.Is(err, ErrMailNotConfigured) {
		t.Fatalf("err = %v, want ErrMailNotConfigured", err)
	}
}

func TestSendAgreementNotFound(t *testing.T) {
	f := newMailFixture(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()
	mail := f.newMail(newTestSendgrid(t, srv.URL))

	err := mail.SendAgreement(context.Background(), "no-such-id")
	if !errors.Is(err, ErrAgreementNotFound) {
		t.Fatalf("err = %v, want ErrAgreementNotFound", err)
	}
}

func TestSendAgreementDelivers(t *testing.T) {
	f := newMailFixture(t)

	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()
	mail := f.newMail(newTestSendgrid(t, srv.URL))

	id := f.create(t, nil)
	if err := mail.SendAgreement(context.Background(), id); err != nil {
		t.Fatalf("SendAgreement: %v", err)
	}
	if calls != 1 {
		t.Fatalf("sendgrid calls = %d, want 1", calls)
	}

	// Delivery lands in the audit log, not on the record.
	rec, err := f.agreements.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.Status != domain.StatusSigned {
		t.Fatalf("status = %q, delivery must not mutate the record", rec.Status)
	}
}

func TestWhatsAppLinkFormat(t *testing.T) {
	f := newMailFixture(t)
	mail := f.newMail(nil)

	id := f.create(t, func(in *domain.AgreementInput) {
		in.VendorPhone = "+255 (777) 000-111"
	})

	link, err := mail.WhatsAppLink(context.Background(), id)
	if err != nil {
		t.Fatalf("WhatsAppLink: %v", err)
	}
	if !strings.HasPrefix(link, "https://wa.me/255777000111?text=") {
		t.Fatalf("link = %q", link)
	}
	if !strings.Contains(link, id) {
		t.Fatalf("link does not reference the agreement: %q", link)
	}
}

func TestWhatsAppLinkWithoutPhone(t *testing.T) {
	f := newMailFixture(t)
	mail := f.newMail(nil)

	id := f.create(t, func(in *domain.AgreementInput) {
		in.VendorPhone = ""
	})

	if _, err := mail.WhatsAppLink(context.Background(), id); !errors.Is(err, ErrVendorPhoneMissing) {
		t.Fatalf("err = %v, want ErrVendorPhoneMissing", err)
	}
	if _, err := mail.WhatsAppLink(context.Background(), "no-such-id"); !errors.Is(err, ErrAgreementNotFound) {
		t.Fatalf("err = %v, want ErrAgreementNotFound", err)
	}
}
