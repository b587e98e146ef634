package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"caseiq/models"
)

func listDocumentsHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var rows []models.ClientGeneratedDocument
	if err := db.Where("client_id = ?", client.ID).Order("created_at desc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"client": gin.H{
			"id":        client.ID,
			"full_name": client.FullName,
			"email":     client.Email,
		},
		"documents": rows,
	})
}

func createDocumentHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var req struct {
		FileName    string `json:"file_name" binding:"required"`
		ViewURL     string `json:"view_url" binding:"required"`
		DownloadURL string `json:"download_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.FileName) == "" || strings.TrimSpace(req.ViewURL) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_name and view_url are required"})
		return
	}
	row := models.ClientGeneratedDocument{
		ClientID:    client.ID,
		ClientName:  client.FullName,
		FileName:    strings.TrimSpace(req.FileName),
		ViewURL:     strings.TrimSpace(req.ViewURL),
		DownloadURL: strings.TrimSpace(req.DownloadURL),
	}
	if row.DownloadURL == "" {
		row.DownloadURL = row.ViewURL
	}
	if err := db.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, row)
}

func deleteDocumentHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	res := db.Where("id = ? AND client_id = ?", id, client.ID).Delete(&models.ClientGeneratedDocument{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "document deleted successfully"})
}

// listAllDocumentsHandler gives the admin dashboard every generated document
// with its owning client attached.
func listAllDocumentsHandler(c *gin.Context) {
	var rows []models.ClientGeneratedDocument
	if err := db.Preload("Client").Order("created_at desc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	docs := make([]gin.H, 0, len(rows))
	for _, d := range rows {
		entry := gin.H{
			"id":           d.ID,
			"client_name":  d.ClientName,
			"file_name":    d.FileName,
			"view_url":     d.ViewURL,
			"download_url": d.DownloadURL,
			"created_at":   d.CreatedAt,
			"updated_at":   d.UpdatedAt,
		}
		if d.Client != nil {
			entry["client"] = gin.H{
				"id":         d.Client.ID,
				"full_name":  d.Client.FullName,
				"email":      d.Client.Email,
				"analyst_id": d.Client.AnalystID,
			}
		}
		docs = append(docs, entry)
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}
