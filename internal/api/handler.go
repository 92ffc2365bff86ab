// Package api exposes the normalization pipeline over HTTP: one uploaded
// export in, the canonical rows out. It is a transport around the same
// file-to-file transform the CLI runs, not a streaming mode.
package api

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ledgerworks/cardledger/internal/config"
	"github.com/ledgerworks/cardledger/internal/ingest"
	"github.com/ledgerworks/cardledger/internal/merchant"
	"github.com/ledgerworks/cardledger/internal/models"
	"github.com/ledgerworks/cardledger/internal/pipeline"
	"github.com/ledgerworks/cardledger/internal/writer"
)

// Version reported by the health endpoint.
const Version = "1.0.0"

// ConvertResponse is the JSON response from POST /api/convert.
type ConvertResponse struct {
	RunID        string               `json:"run_id"`
	Bank         string               `json:"bank"`
	BillingYear  int                  `json:"billing_year"`
	BillingMonth int                  `json:"billing_month"`
	Count        int                  `json:"count"`
	Transactions []models.Transaction `json:"transactions"`
	CSV          string               `json:"csv"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	cfg      *config.Bundle
	resolver *merchant.Resolver
	log      zerolog.Logger
}

// New creates a Handler bound to a loaded configuration bundle.
func New(cfg *config.Bundle, log zerolog.Logger) *Handler {
	return &Handler{
		cfg:      cfg,
		resolver: merchant.NewResolver(cfg.MerchantRules, cfg.MerchantLookup, cfg.ChannelRules),
		log:      log,
	}
}

// Register sets up the HTTP routes.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.handleHealth)
	app.Get("/api/categorize", h.handleCategorize)
	app.Post("/api/convert", h.handleConvert)
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": Version,
	})
}

// handleCategorize resolves one merchant name to its canonical
// classification, the same lookup the analytics side uses.
func (h *Handler) handleCategorize(c *fiber.Ctx) error {
	name := c.Query("merchant")
	if name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "query parameter \"merchant\" is required")
	}

	cls := h.resolver.Resolve(name)
	return c.JSON(fiber.Map{
		"merchant":     cls.Name,
		"category":     cls.Category,
		"sub_category": cls.SubCategory,
		"excluded":     cls.Excluded,
	})
}

// handleConvert accepts a multipart upload of one bank export. The
// original filename matters: both the bank identity and the billing
// period derive from it, so clients that rename files can pass the
// original name in the "filename" form field.
func (h *Handler) handleConvert(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "multipart field \"file\" is required")
	}

	name := c.FormValue("filename")
	if name == "" {
		name = fileHeader.Filename
	}

	bankID := models.BankID(c.FormValue("bank"))
	if bankID == "" {
		detected, ok := ingest.DetectBank(name, h.cfg.Banks)
		if !ok {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				"could not detect bank from filename; pass the \"bank\" form field")
		}
		bankID = detected
	}
	if h.cfg.Profile(bankID) == nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "unknown bank "+string(bankID))
	}

	// The ingestion strategies work on paths, so stage the upload in a
	// temp file that keeps the original name (billing period included).
	tmpDir, err := os.MkdirTemp("", "cardledger-upload-")
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "staging upload failed")
	}
	defer os.RemoveAll(tmpDir)

	tmpPath := filepath.Join(tmpDir, filepath.Base(name))
	if err := c.SaveFile(fileHeader, tmpPath); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "staging upload failed")
	}

	runID := uuid.NewString()
	rlog := h.log.With().Str("run_id", runID).Logger()

	txns, err := pipeline.ProcessFile(h.cfg, tmpPath, bankID, rlog)
	if err != nil {
		rlog.Warn().Err(err).Msg("conversion failed")
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	pipeline.Refine(h.cfg, txns, rlog)

	var buf bytes.Buffer
	w := &writer.CSVWriter{}
	if err := w.Write(&buf, txns); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "rendering csv failed")
	}

	year, month, _ := ingest.BillingPeriod(name)
	return c.JSON(ConvertResponse{
		RunID:        runID,
		Bank:         string(bankID),
		BillingYear:  year,
		BillingMonth: month,
		Count:        len(txns),
		Transactions: txns,
		CSV:          buf.String(),
	})
}
