package main

import (
	"encoding/csv"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"caseiq/models"
)

// --- government records ---

func listGovRecordsHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var rows []models.ClientGovRecord
	if err := db.Where("client_id = ?", client.ID).Order("created_at desc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func createGovRecordHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var req struct {
		RecordType string `json:"record_type" binding:"required"`
		Record     string `json:"record" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.RecordType) == "" || strings.TrimSpace(req.Record) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "record_type and record are required"})
		return
	}
	row := models.ClientGovRecord{ClientID: client.ID, RecordType: strings.TrimSpace(req.RecordType), Content: req.Record}
	if err := db.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, row)
}

func updateGovRecordHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	var row models.ClientGovRecord
	if err := db.Where("id = ? AND client_id = ?", id, client.ID).First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	var req struct {
		RecordType OptString `json:"record_type"`
		Record     OptString `json:"record"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.RecordType.Set {
		if strings.TrimSpace(req.RecordType.Value) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "record_type cannot be empty"})
			return
		}
		row.RecordType = strings.TrimSpace(req.RecordType.Value)
	}
	if req.Record.Set {
		if strings.TrimSpace(req.Record.Value) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "record cannot be empty"})
			return
		}
		row.Content = req.Record.Value
	}
	if err := db.Save(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, row)
}

func deleteGovRecordHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	res := db.Where("id = ? AND client_id = ?", id, client.ID).Delete(&models.ClientGovRecord{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "record deleted successfully"})
}

// --- voter records ---

func listVoterRecordsHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var rows []models.ClientVoterRecord
	if err := db.Where("client_id = ?", client.ID).Order("created_at desc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func createVoterRecordHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var req struct {
		VoterRecord string `json:"voter_record" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.VoterRecord) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "voter_record is required"})
		return
	}
	row := models.ClientVoterRecord{ClientID: client.ID, VoterRecord: req.VoterRecord}
	if err := db.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, row)
}

func deleteVoterRecordHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	res := db.Where("id = ? AND client_id = ?", id, client.ID).Delete(&models.ClientVoterRecord{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "record deleted successfully"})
}

// --- DVM records ---

func listDVMRecordsHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var rows []models.ClientDVMRecord
	if err := db.Where("client_id = ?", client.ID).Order("created_at desc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func createDVMRecordHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var req struct {
		DVMRecord string `json:"dvm_record" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.DVMRecord) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dvm_record is required"})
		return
	}
	row := models.ClientDVMRecord{ClientID: client.ID, DVMRecord: req.DVMRecord}
	if err := db.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, row)
}

func deleteDVMRecordHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	res := db.Where("id = ? AND client_id = ?", id, client.ID).Delete(&models.ClientDVMRecord{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "record deleted successfully"})
}

// --- donor records ---

func listDonorRecordsHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var rows []models.ClientDonorRecord
	if err := db.Where("client_id = ?", client.ID).Order("created_at desc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func createDonorRecordHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var req struct {
		ContributorName    string `json:"contributor_name"`
		Recipient          string `json:"recipient"`
		RecipientDate      string `json:"recipient_date"`
		ContributionAmount string `json:"contribution_amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.ContributorName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contributor_name is required"})
		return
	}
	row := models.ClientDonorRecord{
		ClientID:           client.ID,
		ContributorName:    strings.TrimSpace(req.ContributorName),
		Recipient:          req.Recipient,
		ContributionAmount: req.ContributionAmount,
	}
	if req.RecipientDate != "" {
		t, err := time.Parse("2006-01-02", req.RecipientDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipient_date, expected YYYY-MM-DD"})
			return
		}
		row.RecipientDate = &t
	}
	if err := db.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, row)
}

func deleteDonorRecordHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	res := db.Where("id = ? AND client_id = ?", id, client.ID).Delete(&models.ClientDonorRecord{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "record deleted successfully"})
}

// csvUploadDonorRecordsHandler imports contribution rows from an uploaded
// CSV with columns contributor_name,recipient,recipient_date,amount. A
// header row is skipped when detected; the whole file imports in one
// transaction.
func csvUploadDonorRecordsHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "csv file missing"})
		return
	}
	src, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read csv"})
		return
	}
	defer src.Close()

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid csv: " + err.Error()})
		return
	}

	var rows []models.ClientDonorRecord
	for i, rec := range records {
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "contributor_name") {
			continue
		}
		row := models.ClientDonorRecord{
			ClientID:        client.ID,
			ContributorName: strings.TrimSpace(rec[0]),
			CSVFile:         fh.Filename,
		}
		if len(rec) > 1 {
			row.Recipient = strings.TrimSpace(rec[1])
		}
		if len(rec) > 2 {
			if t, err := time.Parse("2006-01-02", strings.TrimSpace(rec[2])); err == nil {
				row.RecipientDate = &t
			}
		}
		if len(rec) > 3 {
			row.ContributionAmount = strings.TrimSpace(rec[3])
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "csv contains no data rows"})
		return
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "csv import failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "donor records imported", "count": len(rows)})
}

// --- business info ---

func listBusinessInfoHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var rows []models.ClientBusinessInfo
	if err := db.Where("client_id = ?", client.ID).Order("created_at desc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func createBusinessInfoHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var req struct {
		BusinessName        string `json:"business_name" binding:"required"`
		BusinessInformation string `json:"business_information" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.BusinessName) == "" || strings.TrimSpace(req.BusinessInformation) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "business_name and business_information are required"})
		return
	}
	row := models.ClientBusinessInfo{
		ClientID:            client.ID,
		BusinessName:        strings.TrimSpace(req.BusinessName),
		BusinessInformation: req.BusinessInformation,
	}
	if err := db.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, row)
}

func updateBusinessInfoHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	var row models.ClientBusinessInfo
	if err := db.Where("id = ? AND client_id = ?", id, client.ID).First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	var req struct {
		BusinessName        OptString `json:"business_name"`
		BusinessInformation OptString `json:"business_information"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.BusinessName.Set {
		if strings.TrimSpace(req.BusinessName.Value) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "business_name cannot be empty"})
			return
		}
		row.BusinessName = strings.TrimSpace(req.BusinessName.Value)
	}
	if req.BusinessInformation.Set {
		if strings.TrimSpace(req.BusinessInformation.Value) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "business_information cannot be empty"})
			return
		}
		row.BusinessInformation = req.BusinessInformation.Value
	}
	if err := db.Save(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, row)
}

func deleteBusinessInfoHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	res := db.Where("id = ? AND client_id = ?", id, client.ID).Delete(&models.ClientBusinessInfo{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "record deleted successfully"})
}
