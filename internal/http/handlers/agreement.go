package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/znznow/agreements-backend/internal/domain"
	"github.com/znznow/agreements-backend/internal/http/response"
	"github.com/znznow/agreements-backend/internal/platform/logger"
	"github.com/znznow/agreements-backend/internal/services"
)

var errInvalidJSON = errors.New("Invalid JSON payload")

// AgreementHandler exposes the agreement submission, retrieval, and
// delivery endpoints.
type AgreementHandler struct {
	log        *logger.Logger
	agreements services.AgreementService
	mail       services.MailService
}

func NewAgreementHandler(log *logger.Logger, agreements services.AgreementService, mail services.MailService) *AgreementHandler {
	return &AgreementHandler{
		log:        log.With("handler", "AgreementHandler"),
		agreements: agreements,
		mail:       mail,
	}
}

// Create handles POST /api/agreements. The response carries relative URLs
// for viewing and downloading the rendered document.
func (h *AgreementHandler) Create(c *gin.Context) {
	var input domain.AgreementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, errInvalidJSON)
		return
	}

	res, err := h.agreements.Create(c.Request.Context(), input)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			response.Error(c, http.StatusBadRequest, verr)
			return
		}
		h.log.Error("agreement creation failed", "error", err)
		response.Error(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":           res.ID,
		"status":       "success",
		"message":      "Agreement created successfully",
		"pdf_url":      res.PDFURL,
		"download_url": res.DownloadURL,
	})
}

// Submit handles POST /api/submit: a stateless preview that renders and
// returns the document without persisting anything.
func (h *AgreementHandler) Submit(c *gin.Context) {
	var input domain.AgreementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, errInvalidJSON)
		return
	}

	doc, filename, err := h.agreements.Preview(input)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			response.Error(c, http.StatusBadRequest, verr)
			return
		}
		h.log.Error("agreement preview failed", "error", err)
		response.Error(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", doc.Bytes())
}

func (h *AgreementHandler) Get(c *gin.Context) {
	rec, err := h.agreements.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrAgreementNotFound) {
			response.Error(c, http.StatusNotFound, err)
			return
		}
		h.log.Error("agreement lookup failed", "agreement_id", c.Param("id"), "error", err)
		response.Error(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *AgreementHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 20)
	status := c.Query("status")

	pageData, err := h.agreements.List(c.Request.Context(), page, perPage, status)
	if err != nil {
		h.log.Error("agreement list failed", "error", err)
		response.Error(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, pageData)
}

func (h *AgreementHandler) Statistics(c *gin.Context) {
	stats, err := h.agreements.Stats(c.Request.Context())
	if err != nil {
		h.log.Error("agreement statistics failed", "error", err)
		response.Error(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ViewPDF serves the stored document inline; browsers render it in-page.
func (h *AgreementHandler) ViewPDF(c *gin.Context) {
	path, _, err := h.resolvePDF(c)
	if err != nil {
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "inline")
	c.File(path)
}

// Download serves the same document with an attachment disposition and a
// vendor-derived filename.
func (h *AgreementHandler) Download(c *gin.Context) {
	path, vendorName, err := h.resolvePDF(c)
	if err != nil {
		return
	}
	c.FileAttachment(path, services.DownloadFilename(vendorName))
}

func (h *AgreementHandler) resolvePDF(c *gin.Context) (string, string, error) {
	id := c.Param("id")
	path, vendorName, err := h.agreements.ResolvePDF(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrPDFNotFound) || errors.Is(err, services.ErrPDFFileMissing) {
			response.Error(c, http.StatusNotFound, err)
			return "", "", err
		}
		h.log.Error("pdf resolve failed", "agreement_id", id, "error", err)
		response.Error(c, http.StatusInternalServerError, err)
		return "", "", err
	}
	return path, vendorName, nil
}

// SendEmail handles POST /api/agreements/:id/send-email.
func (h *AgreementHandler) SendEmail(c *gin.Context) {
	id := c.Param("id")
	err := h.mail.SendAgreement(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMailNotConfigured):
			response.Error(c, http.StatusServiceUnavailable, err)
		case errors.Is(err, services.ErrAgreementNotFound),
			errors.Is(err, services.ErrPDFNotFound):
			response.Error(c, http.StatusNotFound, err)
		default:
			h.log.Error("agreement email failed", "agreement_id", id, "error", err)
			response.Error(c, http.StatusInternalServerError, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Agreement emailed successfully",
	})
}

// WhatsAppLink handles GET /api/agreements/:id/whatsapp-link.
func (h *AgreementHandler) WhatsAppLink(c *gin.Context) {
	id := c.Param("id")
	link, err := h.mail.WhatsAppLink(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAgreementNotFound):
			response.Error(c, http.StatusNotFound, err)
		case errors.Is(err, services.ErrVendorPhoneMissing):
			response.Error(c, http.StatusBadRequest, err)
		default:
			h.log.Error("whatsapp link failed", "agreement_id", id, "error", err)
			response.Error(c, http.StatusInternalServerError, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"link": link})
}

func (h *AgreementHandler) PartnershipLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"levels": domain.PartnershipTiers()})
}

// queryInt parses a query parameter, falling back to def when the value is
// absent or not an integer.
func queryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
