package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/metrics"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/models"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RowError reports one rejected row. Line is 1-based and counts the header.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Result summarizes one import run.
type Result struct {
	Total           int        `json:"total"`
	Imported        int        `json:"imported"`
	Duplicates      int        `json:"duplicates"`
	Invalid         []RowError `json:"invalid"`
	UnmappedColumns []string   `json:"unmapped_columns"`
}

type Importer struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(db *gorm.DB, log *zap.Logger) *Importer {
	return &Importer{db: db, log: log}
}

// ParseFile reads a .csv or .xlsx upload into rows. The first row must be
// the header. Excel files use the first sheet only.
func ParseFile(filename string, r io.Reader) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		rows, err := reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		return rows, nil
	case ".xlsx":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("parse xlsx: %w", err)
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("xlsx has no sheets")
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("read xlsx rows: %w", err)
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("unsupported file type %q (want .csv or .xlsx)", filepath.Ext(filename))
	}
}

// Import validates and writes rows into a campaign's contact list. Rows
// dedupe against existing campaign contacts and against each other by
// normalized E.164 number; the first occurrence wins. Row failures never
// abort the batch.
func (im *Importer) Import(campaign *models.Campaign, rows [][]string, explicit map[string]string) (*Result, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	cm, unmapped := AutoMap(rows[0], explicit)
	if _, ok := cm[FieldPhone]; !ok {
		return nil, fmt.Errorf("no phone column found; headers: %s", strings.Join(rows[0], ", "))
	}

	region := campaign.PhoneRegion
	result := &Result{Total: len(rows) - 1, UnmappedColumns: unmapped}

	// Existing numbers for this campaign, loaded once.
	var existing []string
	if err := im.db.Model(&models.Contact{}).
		Where("campaign_id = ?", campaign.ID).
		Pluck("phone", &existing).Error; err != nil {
		return nil, fmt.Errorf("load existing contacts: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[p] = true
	}

	var batch []models.Contact
	for i, record := range rows[1:] {
		line := i + 2

		phone, err := NormalizePhone(cm.value(record, FieldPhone), region)
		if err != nil {
			result.Invalid = append(result.Invalid, RowError{Line: line, Reason: err.Error()})
			metrics.ContactsImported.WithLabelValues("invalid").Inc()
			continue
		}
		if seen[phone] {
			result.Duplicates++
			metrics.ContactsImported.WithLabelValues("duplicate").Inc()
			continue
		}
		seen[phone] = true

		contact := models.Contact{
			CampaignID: campaign.ID,
			Phone:      phone,
			FirstName:  cm.value(record, FieldFirstName),
			LastName:   cm.value(record, FieldLastName),
			Email:      cm.value(record, FieldEmail),
			Company:    cm.value(record, FieldCompany),
			Notes:      cm.value(record, FieldNotes),
			Tags:       "[]",
			Source:     "import",
		}
		if contact.FirstName == "" && contact.LastName == "" {
			contact.FirstName, contact.LastName = splitFullName(cm.value(record, FieldFullName))
		}

		batch = append(batch, contact)
		result.Imported++
		metrics.ContactsImported.WithLabelValues("imported").Inc()
	}

	if len(batch) > 0 {
		if err := im.db.CreateInBatches(batch, 200).Error; err != nil {
			return nil, fmt.Errorf("write contacts: %w", err)
		}
	}

	im.log.Info("contact import finished",
		zap.Uint("campaign_id", campaign.ID),
		zap.Int("total", result.Total),
		zap.Int("imported", result.Imported),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("invalid", len(result.Invalid)))

	return result, nil
}

func splitFullName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
