package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"taskpulse/internal/models"
)

// Generator renders the delivery audit report.
type Generator interface {
	GenerateDeliveryReport(data DeliveryReportData) (string, error)
}

type DeliveryReportData struct {
	Entries     []models.DeliveryLogEntry
	Total       int // total matching rows, may exceed len(Entries)
	GeneratedAt time.Time
	Filename    string // base name only; generated when empty
}

// ReportGenerator writes PDFs under RootDir using the built-in Helvetica
// core font.
type ReportGenerator struct {
	RootDir string
}

func NewReportGenerator(rootDir string) *ReportGenerator {
	return &ReportGenerator{RootDir: filepath.Clean(rootDir)}
}

func (g *ReportGenerator) GenerateDeliveryReport(data DeliveryReportData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("deliveries_%s.pdf", data.GeneratedAt.Format("20060102_150405"))
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Notification delivery report", false)
	pdf.SetAuthor("taskpulse", false)
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Notification delivery report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	sub := fmt.Sprintf("Generated %s, %d of %d entries",
		data.GeneratedAt.Format("2006-01-02 15:04"), len(data.Entries), data.Total)
	pdf.CellFormat(0, 6, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(2)

	sent, failed := 0, 0
	for _, e := range data.Entries {
		if e.Status == models.DeliverySent {
			sent++
		} else {
			failed++
		}
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Sent: %d    Failed: %d", sent, failed), "", 1, "L", false, 0, "")
	pdf.Ln(1)

	// table header
	widths := []float64{32, 22, 16, 55, 70, 72}
	headers := []string{"Time", "Channel", "Status", "Recipient", "Subject", "Error"}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, e := range data.Entries {
		cols := []string{
			e.CreatedAt.Format("2006-01-02 15:04"),
			string(e.Channel),
			string(e.Status),
			clip(e.Recipient, 40),
			clip(e.Subject, 52),
			clip(e.Error, 56),
		}
		for i, c := range cols {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

func (g *ReportGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}
	filename = filepath.Base(filename)
	return filepath.Join(g.RootDir, filename), nil
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(15, y, 282, y)
	pdf.SetY(y + 2)
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
