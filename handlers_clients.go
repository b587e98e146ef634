package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"caseiq/models"
)

func listClientsHandler(c *gin.Context) {
	var clients []models.Client
	if err := db.Order("created_at desc").Find(&clients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	for i := range clients {
		clients[i].ProfilePhoto = uploads.Rebase(clients[i].ProfilePhoto)
	}
	c.JSON(http.StatusOK, clients)
}

func analystClientsHandler(c *gin.Context) {
	user := currentUser(c)
	var clients []models.Client
	if err := db.Where("analyst_id = ?", user.ID).Order("created_at desc").Find(&clients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	for i := range clients {
		clients[i].ProfilePhoto = uploads.Rebase(clients[i].ProfilePhoto)
	}
	c.JSON(http.StatusOK, clients)
}

// createClientHandler accepts a multipart form: client fields, an optional
// profile photo, and optional raw multi-line email/phone blobs. The blobs
// are split, deduplicated and normalized, then stored both as summary fields
// on the client and as individual contact rows. The photo is written to disk
// before any database mutation; a failed insert removes it again.
func createClientHandler(c *gin.Context) {
	fullName := strings.TrimSpace(c.PostForm("full_name"))
	if fullName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "full name is required"})
		return
	}

	client := models.Client{
		FullName:     fullName,
		OtherNames:   strings.TrimSpace(c.PostForm("other_names")),
		Sex:          strings.TrimSpace(c.PostForm("sex")),
		Organization: strings.TrimSpace(c.PostForm("organization")),
		Employer:     strings.TrimSpace(c.PostForm("employer")),
		RiskScore:    strings.TrimSpace(c.PostForm("risk_score")),
	}
	if s := strings.TrimSpace(c.PostForm("status")); s != "" {
		client.Status = s
	}
	if dob := strings.TrimSpace(c.PostForm("date_of_birth")); dob != "" {
		t, err := time.Parse("2006-01-02", dob)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_of_birth, expected YYYY-MM-DD"})
			return
		}
		client.DateOfBirth = &t
	}

	// Emails dedup case-sensitively; phones are normalized first, then
	// deduplicated on the normalized form.
	emails := dedupExact(splitLines(c.PostForm("emails")))
	var phones []string
	for _, line := range splitLines(c.PostForm("phone_numbers")) {
		if p := normalizePhone(line, cfg.DefaultCountryCode); p != "" {
			phones = append(phones, p)
		}
	}
	phones = dedupExact(phones)
	client.Email = strings.Join(emails, ", ")
	client.PhoneNumber = strings.Join(phones, ", ")

	if fh, err := c.FormFile("profile_photo"); err == nil {
		url, err := uploads.StoreWithThumb(fh)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "photo upload failed"})
			return
		}
		client.ProfilePhoto = url
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&client).Error; err != nil {
			return err
		}
		for _, e := range emails {
			if err := tx.Create(&models.ClientEmail{ClientID: client.ID, Email: e}).Error; err != nil {
				return err
			}
		}
		for _, p := range phones {
			row := models.ClientPhoneNumber{ClientID: client.ID, PhoneNumber: p, ClientProvided: "Yes"}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uploads.Delete(client.ProfilePhoto)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create client"})
		return
	}
	c.JSON(http.StatusCreated, client)
}

// updateClientHandler applies a tri-state patch (absent fields untouched,
// null clears, value replaces). A multipart request may also replace the
// profile photo; the superseded blob is removed only after the row commits.
func updateClientHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		updateClientMultipart(c, client)
		return
	}

	var req struct {
		FullName     OptString `json:"full_name"`
		OtherNames   OptString `json:"other_names"`
		DateOfBirth  OptString `json:"date_of_birth"`
		Sex          OptString `json:"sex"`
		Organization OptString `json:"organization"`
		Employer     OptString `json:"employer"`
		Status       OptString `json:"status"`
		RiskScore    OptString `json:"risk_score"`
		Email        OptString `json:"email"`
		PhoneNumber  OptString `json:"phone_number"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.FullName.Set && strings.TrimSpace(req.FullName.Value) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "full name cannot be empty"})
		return
	}
	req.FullName.Apply(&client.FullName)
	req.OtherNames.Apply(&client.OtherNames)
	req.Sex.Apply(&client.Sex)
	req.Organization.Apply(&client.Organization)
	req.Employer.Apply(&client.Employer)
	req.Status.Apply(&client.Status)
	req.RiskScore.Apply(&client.RiskScore)
	req.Email.Apply(&client.Email)
	req.PhoneNumber.Apply(&client.PhoneNumber)
	if req.DateOfBirth.Set {
		if req.DateOfBirth.Value == "" {
			client.DateOfBirth = nil
		} else {
			t, err := time.Parse("2006-01-02", req.DateOfBirth.Value)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_of_birth, expected YYYY-MM-DD"})
				return
			}
			client.DateOfBirth = &t
		}
	}

	if err := db.Save(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	client.ProfilePhoto = uploads.Rebase(client.ProfilePhoto)
	c.JSON(http.StatusOK, client)
}

func updateClientMultipart(c *gin.Context, client models.Client) {
	if v, ok := c.GetPostForm("full_name"); ok {
		if strings.TrimSpace(v) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "full name cannot be empty"})
			return
		}
		client.FullName = strings.TrimSpace(v)
	}
	for form, dst := range map[string]*string{
		"other_names":  &client.OtherNames,
		"sex":          &client.Sex,
		"organization": &client.Organization,
		"employer":     &client.Employer,
		"status":       &client.Status,
		"risk_score":   &client.RiskScore,
	} {
		if v, ok := c.GetPostForm(form); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	oldPhoto := client.ProfilePhoto
	if fh, err := c.FormFile("profile_photo"); err == nil {
		url, err := uploads.StoreWithThumb(fh)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "photo upload failed"})
			return
		}
		client.ProfilePhoto = url
	}

	if err := db.Save(&client).Error; err != nil {
		// The new blob is orphaned on failure, not the record.
		if client.ProfilePhoto != oldPhoto {
			uploads.Delete(client.ProfilePhoto)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if client.ProfilePhoto != oldPhoto {
		uploads.Delete(oldPhoto)
	}
	client.ProfilePhoto = uploads.Rebase(client.ProfilePhoto)
	c.JSON(http.StatusOK, client)
}

// deleteClientHandler removes the client and every sub-resource row. Blob
// deletion happens only after the transaction commits; rows never reference
// missing blobs.
func deleteClientHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}

	blobs := []string{client.ProfilePhoto}
	var brokers []models.ClientBrokerScreenRecord
	db.Where("client_id = ?", client.ID).Find(&brokers)
	for _, r := range brokers {
		blobs = append(blobs, r.Images...)
	}
	var heatmaps []models.ClientResidentialHeatmapImage
	db.Where("client_id = ?", client.ID).Find(&heatmaps)
	for _, r := range heatmaps {
		blobs = append(blobs, r.ImageURL)
	}
	var fronts []models.ClientFrontHouseRecord
	db.Where("client_id = ?", client.ID).Find(&fronts)
	for _, r := range fronts {
		blobs = append(blobs, r.Images...)
	}
	var insides []models.ClientInsideHouseRecord
	db.Where("client_id = ?", client.ID).Find(&insides)
	for _, r := range insides {
		blobs = append(blobs, r.Images...)
	}
	var sites []models.ClientFacialRecognitionSite
	db.Where("client_id = ?", client.ID).Find(&sites)
	for _, r := range sites {
		blobs = append(blobs, r.ImageURL)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{
			&models.ClientEmail{}, &models.ClientPhoneNumber{}, &models.ClientUsername{},
			&models.ClientAddress{}, &models.ClientRelativeAssociate{}, &models.ClientSocialAccount{},
			&models.ClientGovRecord{}, &models.ClientVoterRecord{}, &models.ClientDVMRecord{},
			&models.ClientDonorRecord{}, &models.ClientBusinessInfo{}, &models.ClientBrokerScreenRecord{},
			&models.ClientResidentialHeatmapImage{}, &models.ClientFrontHouseRecord{},
			&models.ClientInsideHouseRecord{}, &models.ClientFacialRecognitionURL{},
			&models.ClientFacialRecognitionSite{}, &models.ClientGeneratedDocument{},
		} {
			if err := tx.Where("client_id = ?", client.ID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&client).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	for _, b := range blobs {
		uploads.Delete(b)
	}
	c.JSON(http.StatusOK, gin.H{"message": "client deleted successfully"})
}

func assignClientHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var req struct {
		AnalystEmail string `json:"analyst_email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var analyst models.User
	if err := db.Where("email = ? AND role = ?", req.AnalystEmail, models.RoleAnalyst).First(&analyst).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no analyst found with that email"})
		return
	}
	now := time.Now()
	updates := map[string]any{"analyst_id": analyst.ID, "assigned_at": now}
	if err := db.Model(&client).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "assignment failed"})
		return
	}
	logger.Info("client assigned",
		zap.String("client_id", client.ID.String()),
		zap.String("analyst", analyst.Email))
	c.JSON(http.StatusOK, gin.H{"message": "client assigned to analyst " + analyst.FullName})
}

func unassignClientHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	if client.AnalystID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client is not assigned"})
		return
	}
	updates := map[string]any{"analyst_id": nil, "assigned_at": nil}
	if err := db.Model(&client).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unassignment failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "client unassigned"})
}

// exportClientsHandler streams the client roster as an XLSX workbook.
func exportClientsHandler(c *gin.Context) {
	var clients []models.Client
	if err := db.Order("created_at desc").Find(&clients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Clients"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"ID", "Full Name", "Email", "Phone", "Organization", "Status", "Risk Score", "Analyst ID", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for row, cl := range clients {
		analyst := ""
		if cl.AnalystID != nil {
			analyst = fmt.Sprintf("%d", *cl.AnalystID)
		}
		values := []any{
			cl.ID.String(), cl.FullName, cl.Email, cl.PhoneNumber,
			cl.Organization, cl.Status, cl.RiskScore, analyst,
			cl.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	c.Header("Content-Disposition", `attachment; filename="clients.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		logger.Error("xlsx export failed", zap.Error(err))
	}
}
