package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/database"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupImportTest(t *testing.T) (*gorm.DB, *models.Campaign) {
	t.Helper()
	db, err := database.OpenTest()
	require.NoError(t, err)

	org := models.Organization{Name: "Acme Dental"}
	require.NoError(t, db.Create(&org).Error)

	campaign := models.Campaign{
		OrganizationID: org.ID,
		Name:           "Acme Inbound",
		WebhookUUID:    "11111111-1111-1111-1111-111111111111",
		Active:         true,
		PhoneRegion:    "US",
	}
	require.NoError(t, db.Create(&campaign).Error)
	return db, &campaign
}

func TestImportWritesValidRows(t *testing.T) {
	db, campaign := setupImportTest(t)

	rows := [][]string{
		{"Phone", "First Name", "Last Name", "Email"},
		{"(202) 555-0123", "Ada", "Lovelace", "ada@example.com"},
		{"202-555-0199", "Grace", "Hopper", "grace@example.com"},
	}

	result, err := New(db, zap.NewNop()).Import(campaign, rows, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Duplicates)
	assert.Empty(t, result.Invalid)

	var contacts []models.Contact
	require.NoError(t, db.Where("campaign_id = ?", campaign.ID).Order("id ASC").Find(&contacts).Error)
	require.Len(t, contacts, 2)
	assert.Equal(t, "+12025550123", contacts[0].Phone)
	assert.Equal(t, "Ada", contacts[0].FirstName)
	assert.Equal(t, "import", contacts[0].Source)
}

func TestImportFirstOccurrenceWins(t *testing.T) {
	db, campaign := setupImportTest(t)

	// Same number three ways; only the first row lands.
	rows := [][]string{
		{"Phone", "First Name"},
		{"2025550123", "First"},
		{"(202) 555-0123", "Second"},
		{"+1 202 555 0123", "Third"},
	}

	result, err := New(db, zap.NewNop()).Import(campaign, rows, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 2, result.Duplicates)

	var contact models.Contact
	require.NoError(t, db.Where("campaign_id = ?", campaign.ID).First(&contact).Error)
	assert.Equal(t, "First", contact.FirstName)
}

func TestImportSkipsExistingContacts(t *testing.T) {
	db, campaign := setupImportTest(t)
	require.NoError(t, db.Create(&models.Contact{
		CampaignID: campaign.ID,
		Phone:      "+12025550123",
		Tags:       "[]",
	}).Error)

	rows := [][]string{
		{"Phone"},
		{"202-555-0123"},
		{"202-555-0188"},
	}

	result, err := New(db, zap.NewNop()).Import(campaign, rows, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Duplicates)
}

func TestImportCollectsInvalidRows(t *testing.T) {
	db, campaign := setupImportTest(t)

	rows := [][]string{
		{"Phone", "First Name"},
		{"not a number", "Bad"},
		{"202-555-0123", "Good"},
		{"", "Empty"},
	}

	result, err := New(db, zap.NewNop()).Import(campaign, rows, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Invalid, 2)
	assert.Equal(t, 2, result.Invalid[0].Line)
	assert.Equal(t, 4, result.Invalid[1].Line)
}

func TestImportSplitsFullName(t *testing.T) {
	db, campaign := setupImportTest(t)

	rows := [][]string{
		{"Phone", "Name"},
		{"202-555-0123", "Mary Jane Watson"},
	}

	_, err := New(db, zap.NewNop()).Import(campaign, rows, nil)
	require.NoError(t, err)

	var contact models.Contact
	require.NoError(t, db.Where("campaign_id = ?", campaign.ID).First(&contact).Error)
	assert.Equal(t, "Mary", contact.FirstName)
	assert.Equal(t, "Jane Watson", contact.LastName)
}

func TestImportRequiresPhoneColumn(t *testing.T) {
	db, campaign := setupImportTest(t)

	rows := [][]string{
		{"First Name", "Email"},
		{"Ada", "ada@example.com"},
	}

	_, err := New(db, zap.NewNop()).Import(campaign, rows, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no phone column")
}

func TestParseFileCSV(t *testing.T) {
	csv := "Phone,Name\n202-555-0123,Ada Lovelace\n202-555-0199,\"Hopper, Grace\"\n"

	rows, err := ParseFile("contacts.csv", strings.NewReader(csv))
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Phone", "Name"}, rows[0])
	assert.Equal(t, "Hopper, Grace", rows[2][1])
}

func TestParseFileXLSX(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"Phone", "First Name"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"202-555-0123", "Ada"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := ParseFile("contacts.xlsx", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Phone", "First Name"}, rows[0])
	assert.Equal(t, []string{"202-555-0123", "Ada"}, rows[1])
}

func TestParseFileRejectsUnknownExtension(t *testing.T) {
	_, err := ParseFile("contacts.pdf", strings.NewReader("whatever"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}
