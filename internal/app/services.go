package app

import (
	"os"
	"strings"

	"github.com/znznow/agreements-backend/internal/platform/sendgrid"
	"github.com/znznow/agreements-backend/internal/services"
)

type Services struct {
	Signature services.SignatureService
	Document  services.DocumentService
	Agreement services.AgreementService
	Mail      services.MailService
}

func (a *App) wireServices() error {
	signature := services.NewSignatureService(a.Log)
	document := services.NewDocumentService(a.Log)
	agreement := services.NewAgreementService(a.DB.DB(), a.Log, a.Repos.Agreement, signature, document, a.Files)

	// Email delivery is optional. Without a key the send-email endpoint
	// reports 503 instead of the process refusing to start.
	var sg sendgrid.Client
	if strings.TrimSpace(os.Getenv("SENDGRID_API_KEY")) != "" {
		client, err := sendgrid.NewFromEnv(a.Log)
		if err != nil {
			return err
		}
		sg = client
	} else {
		a.Log.Warn("SENDGRID_API_KEY not set, email delivery disabled")
	}
	mail := services.NewMailService(a.Log, a.Repos.Agreement, a.Files, sg)

	a.Services = &Services{
		Signature: signature,
		Document:  document,
		Agreement: agreement,
		Mail:      mail,
	}
	return nil
}
