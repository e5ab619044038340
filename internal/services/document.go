package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/znznow/agreements-backend/internal/domain"
	"github.com/znznow/agreements-backend/internal/platform/logger"
)

const (
	organizationName = "ZNZNOW TOURS & ACTIVITIES"
	documentSubtitle = "Vendor Partnership Agreement"
	signingParty     = "Zanzisouk LTD - ZNZNOW"

	pageMargin = 19.0 // 0.75in in mm
)

type contractTerm struct {
	heading string
	body    string
}

// The terms block is static contract boilerplate, not derived from input.
var contractTerms = []contractTerm{
	{"Commission Structure:", "Commission is calculated as Selling Price minus Commission Percentage equals Net Earnings. Different tours can have different commission rates based on agreement."},
	{"Payment Terms:", "Weekly settlements via bank transfer or mobile wallet. Automatic payouts every week or when balance reaches USD $1,000. Clear statements showing bookings, sales, commissions, and final balance."},
	{"Price Parity:", "Vendor agrees to maintain price parity between Znznow platform and direct offers. No lower prices to customers who discovered through platform."},
	{"Booking Management:", "Vendor shall accept and prepare bookings unless justified reason to cancel (capacity, safety, force majeure)."},
	{"Responsibilities:", "Vendor provides accurate tour information, high-quality photos, maintains operating hours and availability, and delivers services professionally."},
	{"Termination:", "Either party may terminate with 15 days' written notice or immediately for material breach."},
	{"Confidentiality:", "Both parties treat commercial data as confidential for 2 years after termination."},
	{"Dispute Resolution:", "Disputes resolved through mediation first, then arbitration in Zanzibar, Tanzania."},
	{"Governing Law:", "This agreement is governed by the laws of Zanzibar, Tanzania."},
}

// DocumentService renders the complete agreement PDF into memory. Output
// is a pure function of the payload and signature bytes, apart from the
// generation date printed in the title and signing blocks.
type DocumentService interface {
	Render(input domain.AgreementInput, signature []byte) (*bytes.Buffer, error)
}

type documentService struct {
	log *logger.Logger
}

func NewDocumentService(log *logger.Logger) DocumentService {
	serviceLog := log.With("service", "DocumentService")
	return &documentService{log: serviceLog}
}

func (ds *documentService) Render(input domain.AgreementInput, signature []byte) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()

	generated := time.Now().Format("January 2, 2006")

	// Title block
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(102, 126, 234)
	pdf.CellFormat(0, 10, organizationName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(118, 75, 162)
	pdf.CellFormat(0, 8, documentSubtitle, "", 1, "C", false, 0, "")
	pdf.Ln(3)
	ds.bodyFont(pdf)
	pdf.CellFormat(0, 5, "Date: "+generated, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// 1. Vendor information
	ds.sectionHeading(pdf, "1. VENDOR INFORMATION")
	ds.vendorTable(pdf, input)
	pdf.Ln(5)

	// 2. Partnership level
	ds.sectionHeading(pdf, "2. PARTNERSHIP LEVEL")
	ds.bodyFont(pdf)
	pdf.CellFormat(0, 5, "Selected: "+domain.PartnershipLabel(input.PartnershipLevel), "", 1, "L", false, 0, "")
	pdf.Ln(5)

	// 3. Terms
	ds.sectionHeading(pdf, "3. KEY TERMS & CONDITIONS")
	for _, term := range contractTerms {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(85, 85, 85)
		pdf.CellFormat(0, 5, term.heading, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, term.body, "", "J", false)
		pdf.Ln(2)
	}

	// 4. Signatures
	pdf.AddPage()
	ds.sectionHeading(pdf, "4. DIGITAL SIGNATURES")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(85, 85, 85)
	pdf.CellFormat(0, 5, "ZNZNOW Representative Signature", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 4, "Pre-signed by ZNZNOW", "", 1, "L", false, 0, "")
	ds.bodyFont(pdf)
	pdf.CellFormat(0, 5, "Name: "+signingParty, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Date: "+generated, "", 1, "L", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(85, 85, 85)
	pdf.CellFormat(0, 5, "Vendor Signature", "", 1, "L", false, 0, "")
	ds.bodyFont(pdf)
	pdf.CellFormat(0, 5, "Name: "+input.ContactPerson, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, "Date: "+generated, "", 1, "L", false, 0, "")

	if len(signature) > 0 {
		ds.embedSignature(pdf, signature)
	} else {
		ds.signaturePlaceholder(pdf)
	}

	pdf.Ln(5)
	ds.bodyFont(pdf)
	pdf.MultiCell(0, 5, "I have read and agree to all terms and conditions outlined in this agreement.", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("build pdf: %w", err)
	}
	return &buf, nil
}

func (ds *documentService) vendorTable(pdf *gofpdf.Fpdf, input domain.AgreementInput) {
	rows := [][2]string{
		{"Business Name:", input.VendorName},
		{"Registration Number:", input.VendorRegistration},
		{"Address:", input.VendorAddress},
		{"City/Region:", input.VendorCity},
		{"Country:", input.VendorCountry},
		{"Contact Email:", input.VendorEmail},
		{"Contact Phone:", input.VendorPhone},
		{"Primary Contact:", input.ContactPerson},
		{"Contact Title:", input.ContactTitle},
	}

	pdf.SetDrawColor(128, 128, 128)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(50, 8, row[0], "1", 0, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 8, row[1], "1", 1, "L", false, 0, "")
	}
}

// embedSignature registers the PNG and places it below the vendor block.
// An embed failure clears the PDF error state and falls back to the
// placeholder so the rest of the document still renders.
func (ds *documentService) embedSignature(pdf *gofpdf.Fpdf, signature []byte) {
	pdf.Ln(2)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("vendor_signature", opts, bytes.NewReader(signature))
	if pdf.Ok() {
		pdf.ImageOptions("vendor_signature", pdf.GetX(), pdf.GetY(), 50, 19, true, opts, 0, "")
	}
	if !pdf.Ok() {
		ds.log.Warn("signature embed failed, using placeholder", "error", pdf.Error())
		pdf.ClearError()
		ds.signaturePlaceholder(pdf)
	}
}

func (ds *documentService) signaturePlaceholder(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 5, "No Signature Provided", "", 1, "L", false, 0, "")
}

func (ds *documentService) sectionHeading(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(51, 51, 51)
	pdf.CellFormat(0, 6, title, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func (ds *documentService) bodyFont(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(85, 85, 85)
}
