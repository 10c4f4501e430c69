package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/importer"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ContactHandler struct {
	db       *gorm.DB
	importer *importer.Importer
}

func NewContactHandler(db *gorm.DB, imp *importer.Importer) *ContactHandler {
	return &ContactHandler{db: db, importer: imp}
}

func (h *ContactHandler) campaign(c *gin.Context) (*models.Campaign, bool) {
	var campaign models.Campaign
	if err := h.db.First(&campaign, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "campaign not found"})
		return nil, false
	}
	return &campaign, true
}

func (h *ContactHandler) List(c *gin.Context) {
	campaign, ok := h.campaign(c)
	if !ok {
		return
	}
	limit, offset := paginate(c)

	var contacts []models.Contact
	if err := h.db.Where("campaign_id = ?", campaign.ID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&contacts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}
	c.JSON(http.StatusOK, contacts)
}

type contactRequest struct {
	Phone     string `json:"phone" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	Notes     string `json:"notes"`
	Tags      string `json:"tags"`
}

func (h *ContactHandler) Create(c *gin.Context) {
	campaign, ok := h.campaign(c)
	if !ok {
		return
	}

	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	phone, err := importer.NormalizePhone(req.Phone, campaign.PhoneRegion)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tags := req.Tags
	if tags == "" {
		tags = "[]"
	}
	contact := models.Contact{
		CampaignID: campaign.ID,
		Phone:      phone,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Company:    req.Company,
		Notes:      req.Notes,
		Tags:       tags,
		Source:     "manual",
	}
	if err := h.db.Create(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "contact already exists for this campaign"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (h *ContactHandler) Update(c *gin.Context) {
	var contact models.Contact
	if err := h.db.First(&contact, c.Param("contactId")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
		return
	}

	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Company   string `json:"company"`
		Notes     string `json:"notes"`
		Tags      string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"email":      req.Email,
		"company":    req.Company,
		"notes":      req.Notes,
	}
	if req.Tags != "" {
		updates["tags"] = req.Tags
	}
	if err := h.db.Model(&contact).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Delete(c *gin.Context) {
	result := h.db.Delete(&models.Contact{}, c.Param("contactId"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "contact deleted"})
}

// Import ingests a CSV or Excel contact list. The multipart form field is
// "file"; optional "map_<field>" fields pin a column to a canonical field,
// e.g. map_phone=Cell.
func (h *ContactHandler) Import(c *gin.Context) {
	campaign, ok := h.campaign(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file upload"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	rows, err := importer.ParseFile(fileHeader.Filename, file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	explicit := map[string]string{}
	for _, field := range []string{
		importer.FieldPhone, importer.FieldFirstName, importer.FieldLastName,
		importer.FieldFullName, importer.FieldEmail, importer.FieldCompany, importer.FieldNotes,
	} {
		if header := c.PostForm("map_" + field); header != "" {
			explicit[field] = header
		}
	}

	result, err := h.importer.Import(campaign, rows, explicit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Export streams the campaign's contacts as CSV.
func (h *ContactHandler) Export(c *gin.Context) {
	campaign, ok := h.campaign(c)
	if !ok {
		return
	}

	var contacts []models.Contact
	if err := h.db.Where("campaign_id = ?", campaign.ID).
		Order("created_at DESC").Find(&contacts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=campaign-%s-contacts.csv", strconv.Itoa(int(campaign.ID))))

	w := csv.NewWriter(c.Writer)
	w.Write([]string{"Phone", "First Name", "Last Name", "Email", "Company", "Source", "Created At"})
	for _, contact := range contacts {
		w.Write([]string{
			contact.Phone,
			contact.FirstName,
			contact.LastName,
			contact.Email,
			contact.Company,
			contact.Source,
			contact.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	w.Flush()
}
