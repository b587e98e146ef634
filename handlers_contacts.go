package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"caseiq/models"
	"caseiq/pkg/relay"
)

// itemID parses the sub-resource row id from the path; a malformed id is
// indistinguishable from a missing row.
func itemID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return uuid.Nil, false
	}
	return id, true
}

// relayFallback reports whether a relay error means "use the local path".
// Anything else is a real upstream failure and must surface as one.
func relayFallback(c *gin.Context, err error) bool {
	if errors.Is(err, relay.ErrUnavailable) {
		return true
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	return false
}

// --- emails ---

func listEmailsHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var rows []models.ClientEmail
	if err := db.Where("client_id = ?", client.ID).Order("created_at desc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func createEmailHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var req struct {
		Email             string   `json:"email" binding:"required"`
		Status            string   `json:"status"`
		ValidationSources []string `json:"validation_sources"`
		EmailTag          bool     `json:"email_tag"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}
	var existing models.ClientEmail
	if err := db.Where("client_id = ? AND LOWER(email) = LOWER(?)", client.ID, email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
		return
	}
	row := models.ClientEmail{
		ClientID:          client.ID,
		Email:             email,
		Status:            req.Status,
		ValidationSources: datatypes.NewJSONSlice(req.ValidationSources),
		EmailTag:          req.EmailTag,
	}
	if err := db.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, row)
}

func updateEmailHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	var row models.ClientEmail
	if err := db.Where("id = ? AND client_id = ?", id, client.ID).First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "email not found"})
		return
	}
	var req struct {
		Email             OptString  `json:"email"`
		Status            OptString  `json:"status"`
		ValidationSources OptStrings `json:"validation_sources"`
		EmailTag          OptBool    `json:"email_tag"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Email.Set {
		email := strings.TrimSpace(req.Email.Value)
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email cannot be empty"})
			return
		}
		if !strings.EqualFold(email, row.Email) {
			var existing models.ClientEmail
			if err := db.Where("client_id = ? AND LOWER(email) = LOWER(?) AND id <> ?", client.ID, email, row.ID).First(&existing).Error; err == nil {
				c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
				return
			}
		}
		row.Email = email
	}
	req.Status.Apply(&row.Status)
	if req.ValidationSources.Set {
		row.ValidationSources = datatypes.NewJSONSlice(req.ValidationSources.Value)
	}
	req.EmailTag.Apply(&row.EmailTag)
	if err := db.Save(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, row)
}

func deleteEmailHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	res := db.Where("id = ? AND client_id = ?", id, client.ID).Delete(&models.ClientEmail{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "email not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "email deleted successfully"})
}

func bulkUploadEmailsHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var req struct {
		EmailsText string `json:"emails_text" binding:"required"`
		Status     string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payload := gin.H{
		"emails":    req.EmailsText,
		"client_id": client.ID.String(),
		"status":    req.Status,
	}
	res, err := relayClient.BulkImport(c.Request.Context(), cfg.RelayEmailsPath, payload)
	if err == nil {
		status := "success"
		if !res.Success {
			status = "info"
		}
		c.JSON(http.StatusOK, gin.H{"status": status, "message": res.Message, "count": res.Count})
		return
	}
	if !relayFallback(c, err) {
		return
	}

	added := 0
	for _, line := range dedupExact(splitLines(req.EmailsText)) {
		var existing models.ClientEmail
		if err := db.Where("client_id = ? AND LOWER(email) = LOWER(?)", client.ID, line).First(&existing).Error; err == nil {
			continue
		}
		row := models.ClientEmail{ClientID: client.ID, Email: line, Status: req.Status}
		if err := db.Create(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "bulk insert failed"})
			return
		}
		added++
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "emails added directly (webhook inactive)",
		"count":   added,
	})
}

// --- phone numbers ---

func listPhonesHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var rows []models.ClientPhoneNumber
	if err := db.Where("client_id = ?", client.ID).Order("created_at desc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func createPhoneHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var req struct {
		PhoneNumber    string `json:"phone_number" binding:"required"`
		ClientProvided string `json:"client_provided"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	phone := normalizePhone(req.PhoneNumber, cfg.DefaultCountryCode)
	if phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone number is required"})
		return
	}
	var existing models.ClientPhoneNumber
	if err := db.Where("client_id = ? AND phone_number = ?", client.ID, phone).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "phone number already exists"})
		return
	}
	provided := req.ClientProvided
	if provided == "" {
		provided = cfg.DefaultClientProvided
	}
	row := models.ClientPhoneNumber{ClientID: client.ID, PhoneNumber: phone, ClientProvided: provided}
	if err := db.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, row)
}

func updatePhoneHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	var row models.ClientPhoneNumber
	if err := db.Where("id = ? AND client_id = ?", id, client.ID).First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "phone number not found"})
		return
	}
	var req struct {
		PhoneNumber    OptString `json:"phone_number"`
		ClientProvided OptString `json:"client_provided"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.PhoneNumber.Set {
		phone := normalizePhone(req.PhoneNumber.Value, cfg.DefaultCountryCode)
		if phone == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "phone number cannot be empty"})
			return
		}
		if phone != row.PhoneNumber {
			var existing models.ClientPhoneNumber
			if err := db.Where("client_id = ? AND phone_number = ? AND id <> ?", client.ID, phone, row.ID).First(&existing).Error; err == nil {
				c.JSON(http.StatusConflict, gin.H{"error": "phone number already exists"})
				return
			}
		}
		row.PhoneNumber = phone
	}
	req.ClientProvided.Apply(&row.ClientProvided)
	if err := db.Save(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, row)
}

func deletePhoneHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	res := db.Where("id = ? AND client_id = ?", id, client.ID).Delete(&models.ClientPhoneNumber{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "phone number not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "phone number deleted successfully"})
}

func bulkUploadPhonesHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var req struct {
		PhoneNumbersText string `json:"phone_numbers_text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Normalize before forwarding so the remote sees the canonical forms.
	var phones []string
	for _, line := range splitLines(req.PhoneNumbersText) {
		if p := normalizePhone(line, cfg.DefaultCountryCode); p != "" {
			phones = append(phones, p)
		}
	}
	phones = dedupExact(phones)

	payload := gin.H{
		"phone_number": strings.Join(phones, "\n"),
		"client_id":    client.ID.String(),
	}
	res, err := relayClient.BulkImport(c.Request.Context(), cfg.RelayPhonesPath, payload)
	if err == nil {
		status := "success"
		if !res.Success {
			status = "info"
		}
		c.JSON(http.StatusOK, gin.H{"status": status, "message": res.Message, "count": res.Count})
		return
	}
	if !relayFallback(c, err) {
		return
	}

	added := 0
	for _, phone := range phones {
		var existing models.ClientPhoneNumber
		if err := db.Where("client_id = ? AND phone_number = ?", client.ID, phone).First(&existing).Error; err == nil {
			continue
		}
		row := models.ClientPhoneNumber{ClientID: client.ID, PhoneNumber: phone, ClientProvided: cfg.DefaultClientProvided}
		if err := db.Create(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "bulk insert failed"})
			return
		}
		added++
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "phone numbers added directly (webhook inactive)",
		"count":   added,
	})
}

// --- usernames ---

func listUsernamesHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var rows []models.ClientUsername
	if err := db.Where("client_id = ?", client.ID).Order("created_at desc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func createUsernameHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}
	var existing models.ClientUsername
	if err := db.Where("client_id = ? AND LOWER(username) = LOWER(?)", client.ID, username).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
		return
	}
	row := models.ClientUsername{ClientID: client.ID, Username: username}
	if err := db.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, row)
}

func updateUsernameHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	var row models.ClientUsername
	if err := db.Where("id = ? AND client_id = ?", id, client.ID).First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "username not found"})
		return
	}
	var req struct {
		Username OptString `json:"username"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Username.Set {
		username := strings.TrimSpace(req.Username.Value)
		if username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username cannot be empty"})
			return
		}
		if !strings.EqualFold(username, row.Username) {
			var existing models.ClientUsername
			if err := db.Where("client_id = ? AND LOWER(username) = LOWER(?) AND id <> ?", client.ID, username, row.ID).First(&existing).Error; err == nil {
				c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
				return
			}
		}
		row.Username = username
	}
	if err := db.Save(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, row)
}

func deleteUsernameHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	res := db.Where("id = ? AND client_id = ?", id, client.ID).Delete(&models.ClientUsername{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "username not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "username deleted successfully"})
}

func bulkUploadUsernamesHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var req struct {
		UsernamesText string `json:"usernames_text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payload := gin.H{
		"usernames": req.UsernamesText,
		"client_id": client.ID.String(),
	}
	res, err := relayClient.BulkImport(c.Request.Context(), cfg.RelayUsernamesPath, payload)
	if err == nil {
		status := "success"
		if !res.Success {
			status = "info"
		}
		c.JSON(http.StatusOK, gin.H{"status": status, "message": res.Message, "count": res.Count})
		return
	}
	if !relayFallback(c, err) {
		return
	}

	added := 0
	for _, line := range dedupExact(splitLines(req.UsernamesText)) {
		var existing models.ClientUsername
		if err := db.Where("client_id = ? AND LOWER(username) = LOWER(?)", client.ID, line).First(&existing).Error; err == nil {
			continue
		}
		row := models.ClientUsername{ClientID: client.ID, Username: line}
		if err := db.Create(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "bulk insert failed"})
			return
		}
		added++
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "usernames added directly (webhook inactive)",
		"count":   added,
	})
}

// --- addresses ---

func listAddressesHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var rows []models.ClientAddress
	if err := db.Where("client_id = ?", client.ID).Order("created_at desc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func createAddressHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var req struct {
		Address        string `json:"address" binding:"required"`
		AddressLine1   string `json:"address_line_1"`
		AddressLine2   string `json:"address_line_2"`
		City           string `json:"city"`
		State          string `json:"state"`
		Zip            string `json:"zip"`
		ClientProvided string `json:"client_provided"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	address := strings.TrimSpace(req.Address)
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
		return
	}
	provided := req.ClientProvided
	if provided == "" {
		provided = cfg.DefaultClientProvided
	}
	row := models.ClientAddress{
		ClientID:       client.ID,
		Address:        address,
		AddressLine1:   req.AddressLine1,
		AddressLine2:   req.AddressLine2,
		City:           req.City,
		State:          req.State,
		Zip:            req.Zip,
		ClientProvided: provided,
	}
	if err := db.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, row)
}

func updateAddressHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	var row models.ClientAddress
	if err := db.Where("id = ? AND client_id = ?", id, client.ID).First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
		return
	}
	var req struct {
		Address        OptString `json:"address"`
		AddressLine1   OptString `json:"address_line_1"`
		AddressLine2   OptString `json:"address_line_2"`
		City           OptString `json:"city"`
		State          OptString `json:"state"`
		Zip            OptString `json:"zip"`
		ClientProvided OptString `json:"client_provided"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Address.Set {
		address := strings.TrimSpace(req.Address.Value)
		if address == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "address cannot be empty"})
			return
		}
		row.Address = address
	}
	req.AddressLine1.Apply(&row.AddressLine1)
	req.AddressLine2.Apply(&row.AddressLine2)
	req.City.Apply(&row.City)
	req.State.Apply(&row.State)
	req.Zip.Apply(&row.Zip)
	req.ClientProvided.Apply(&row.ClientProvided)
	if err := db.Save(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, row)
}

func deleteAddressHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	res := db.Where("id = ? AND client_id = ?", id, client.ID).Delete(&models.ClientAddress{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "address deleted successfully"})
}

func bulkUploadAddressesHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var req struct {
		AddressesText string `json:"addresses_text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payload := gin.H{
		"addresses": req.AddressesText,
		"client_id": client.ID.String(),
	}
	res, err := relayClient.BulkImport(c.Request.Context(), cfg.RelayAddressesPath, payload)
	if err == nil {
		status := "success"
		if !res.Success {
			status = "info"
		}
		c.JSON(http.StatusOK, gin.H{"status": status, "message": res.Message, "count": res.Count})
		return
	}
	if !relayFallback(c, err) {
		return
	}

	added := 0
	for _, line := range dedupExact(splitLines(req.AddressesText)) {
		var existing models.ClientAddress
		if err := db.Where("client_id = ? AND address = ?", client.ID, line).First(&existing).Error; err == nil {
			continue
		}
		row := models.ClientAddress{ClientID: client.ID, Address: line, ClientProvided: cfg.DefaultClientProvided}
		if err := db.Create(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "bulk insert failed"})
			return
		}
		added++
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "addresses added directly (webhook inactive)",
		"count":   added,
	})
}
