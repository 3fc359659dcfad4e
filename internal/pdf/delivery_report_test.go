package pdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"taskpulse/internal/models"
)

func TestGenerateDeliveryReport(t *testing.T) {
	g := NewReportGenerator(t.TempDir())

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	path, err := g.GenerateDeliveryReport(DeliveryReportData{
		Entries: []models.DeliveryLogEntry{
			{ID: 1, Channel: models.ChannelEmail, Recipient: "a@b.c", Subject: "New task assigned",
				Status: models.DeliverySent, CreatedAt: now},
			{ID: 2, Channel: models.ChannelSMS, Recipient: "+77010000001",
				Status: models.DeliveryFailed, Error: "gateway timeout", CreatedAt: now},
		},
		Total:       2,
		GeneratedAt: now,
	})
	if err != nil {
		t.Fatalf("GenerateDeliveryReport: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("report missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("report is empty")
	}
	if filepath.Ext(path) != ".pdf" {
		t.Errorf("path = %q, want .pdf", path)
	}

	head := make([]byte, 5)
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer f.Close()
	if _, err := f.Read(head); err != nil {
		t.Fatalf("read report: %v", err)
	}
	if string(head) != "%PDF-" {
		t.Errorf("magic = %q, want %%PDF-", head)
	}
}

func TestGenerateDeliveryReportSanitizesFilename(t *testing.T) {
	g := NewReportGenerator(t.TempDir())

	path, err := g.GenerateDeliveryReport(DeliveryReportData{
		Filename:    "../../escape.pdf",
		GeneratedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("GenerateDeliveryReport: %v", err)
	}
	if !strings.HasPrefix(path, g.RootDir+string(filepath.Separator)) {
		t.Errorf("report escaped root dir: %q", path)
	}
}
