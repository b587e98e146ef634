package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"caseiq/models"
)

// --- facial recognition URLs ---

func listFacialURLsHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var rows []models.ClientFacialRecognitionURL
	if err := db.Where("client_id = ?", client.ID).Order("created_at desc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func createFacialURLHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	url := strings.TrimSpace(req.URL)
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}
	row := models.ClientFacialRecognitionURL{ClientID: client.ID, URL: url}
	if err := db.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, row)
}

func updateFacialURLHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	var row models.ClientFacialRecognitionURL
	if err := db.Where("id = ? AND client_id = ?", id, client.ID).First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "url not found"})
		return
	}
	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	url := strings.TrimSpace(req.URL)
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url cannot be empty"})
		return
	}
	row.URL = url
	if err := db.Save(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, row)
}

func deleteFacialURLHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	res := db.Where("id = ? AND client_id = ?", id, client.ID).Delete(&models.ClientFacialRecognitionURL{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "url not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "facial recognition url deleted successfully"})
}

func bulkUploadFacialURLsHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var req struct {
		URLsText string `json:"urls_text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	payload := gin.H{
		"urls":      req.URLsText,
		"client_id": client.ID.String(),
	}
	res, err := relayClient.BulkImport(c.Request.Context(), cfg.RelayFacialURLsPath, payload)
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
	for _, line := range dedupExact(splitLines(req.URLsText)) {
		var existing models.ClientFacialRecognitionURL
		if err := db.Where("client_id = ? AND url = ?", client.ID, line).First(&existing).Error; err == nil {
			continue
		}
		row := models.ClientFacialRecognitionURL{ClientID: client.ID, URL: line}
		if err := db.Create(&row).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "bulk insert failed"})
			return
		}
		added++
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "urls added directly (webhook inactive)",
		"count":   added,
	})
}

// --- facial recognition sites ---

func listFacialSitesHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var rows []models.ClientFacialRecognitionSite
	if err := db.Where("client_id = ?", client.ID).Order("created_at desc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	for i := range rows {
		rows[i].ImageURL = uploads.Rebase(rows[i].ImageURL)
	}
	c.JSON(http.StatusOK, rows)
}

// createFacialSitesHandler creates one row per uploaded image, all sharing
// the submitted site_name. Rows commit in one transaction; on failure the
// stored blobs are removed again.
func createFacialSitesHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	siteName := strings.TrimSpace(c.PostForm("site_name"))
	if siteName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "site_name is required"})
		return
	}
	files := imageFiles(c)
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one image is required"})
		return
	}
	urls, err := storeAllImages(files)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store images"})
		return
	}
	rows := make([]models.ClientFacialRecognitionSite, len(urls))
	for i, u := range urls {
		rows[i] = models.ClientFacialRecognitionSite{
			ClientID: client.ID,
			SiteName: siteName,
			ImageURL: u,
		}
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
		uploads.DeleteAll(urls)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "site records created", "records": rows})
}

// updateFacialSiteHandler replaces both the site name and the evidence
// image. The old blob is removed only after the new one is stored and the
// row committed.
func updateFacialSiteHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	var row models.ClientFacialRecognitionSite
	if err := db.Where("id = ? AND client_id = ?", id, client.ID).First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	siteName := strings.TrimSpace(c.PostForm("site_name"))
	if siteName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "site_name is required"})
		return
	}
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "an image file is required"})
		return
	}
	url, err := uploads.StoreWithThumb(fh)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
		return
	}
	oldURL := row.ImageURL
	row.SiteName = siteName
	row.ImageURL = url
	if err := db.Save(&row).Error; err != nil {
		uploads.Delete(url)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	uploads.Delete(oldURL)
	c.JSON(http.StatusOK, row)
}

func deleteFacialSiteHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	var row models.ClientFacialRecognitionSite
	if err := db.Where("id = ? AND client_id = ?", id, client.ID).First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	if err := db.Delete(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	uploads.Delete(row.ImageURL)
	c.JSON(http.StatusOK, gin.H{"message": "record deleted successfully"})
}
