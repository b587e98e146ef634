package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"caseiq/models"
)

func validRelationship(t string) bool {
	return t == models.RelationshipRelative || t == models.RelationshipAssociate
}

// --- relatives and associates ---

func listRelativesHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var rows []models.ClientRelativeAssociate
	if err := db.Where("client_id = ?", client.ID).Order("created_at desc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func createRelativeHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var req struct {
		Name             string `json:"name" binding:"required"`
		RelationshipType string `json:"relationship_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	rel := req.RelationshipType
	if rel == "" {
		rel = cfg.DefaultRelationship
	}
	if !validRelationship(rel) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "relationship_type must be Relative or Associate"})
		return
	}
	var existing models.ClientRelativeAssociate
	if err := db.Where("client_id = ? AND LOWER(name) = LOWER(?)", client.ID, name).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "name already exists"})
		return
	}
	row := models.ClientRelativeAssociate{ClientID: client.ID, Name: name, RelationshipType: rel}
	if err := db.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, row)
}

func updateRelativeHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	var row models.ClientRelativeAssociate
	if err := db.Where("id = ? AND client_id = ?", id, client.ID).First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	var req struct {
		Name             OptString `json:"name"`
		RelationshipType OptString `json:"relationship_type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name.Set {
		name := strings.TrimSpace(req.Name.Value)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
			return
		}
		if !strings.EqualFold(name, row.Name) {
			var existing models.ClientRelativeAssociate
			if err := db.Where("client_id = ? AND LOWER(name) = LOWER(?) AND id <> ?", client.ID, name, row.ID).First(&existing).Error; err == nil {
				c.JSON(http.StatusConflict, gin.H{"error": "name already exists"})
				return
			}
		}
		row.Name = name
	}
	if req.RelationshipType.Set {
		if !validRelationship(req.RelationshipType.Value) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "relationship_type must be Relative or Associate"})
			return
		}
		row.RelationshipType = req.RelationshipType.Value
	}
	if err := db.Save(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, row)
}

func deleteRelativeHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	res := db.Where("id = ? AND client_id = ?", id, client.ID).Delete(&models.ClientRelativeAssociate{})
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

// --- social accounts ---

func listSocialAccountsHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var rows []models.ClientSocialAccount
	if err := db.Where("client_id = ?", client.ID).Order("created_at desc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func createSocialAccountHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var req struct {
		Platform        string   `json:"platform" binding:"required"`
		ProfileURL      string   `json:"profile_url" binding:"required"`
		WhatIsExposed   []string `json:"what_is_exposed"`
		EngagementLevel string   `json:"engagement_level"`
		ConfidenceLevel string   `json:"confidence_level"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	platform := strings.TrimSpace(req.Platform)
	profileURL := strings.TrimSpace(req.ProfileURL)
	if platform == "" || profileURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "platform and profile_url are required"})
		return
	}
	var existing models.ClientSocialAccount
	if err := db.Where("client_id = ? AND LOWER(profile_url) = LOWER(?)", client.ID, profileURL).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "profile URL already exists"})
		return
	}
	row := models.ClientSocialAccount{
		ClientID:        client.ID,
		Platform:        platform,
		ProfileURL:      profileURL,
		WhatIsExposed:   datatypes.NewJSONSlice(req.WhatIsExposed),
		EngagementLevel: req.EngagementLevel,
		ConfidenceLevel: req.ConfidenceLevel,
	}
	if err := db.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, row)
}

func updateSocialAccountHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	var row models.ClientSocialAccount
	if err := db.Where("id = ? AND client_id = ?", id, client.ID).First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "social account not found"})
		return
	}
	var req struct {
		Platform        OptString  `json:"platform"`
		ProfileURL      OptString  `json:"profile_url"`
		WhatIsExposed   OptStrings `json:"what_is_exposed"`
		EngagementLevel OptString  `json:"engagement_level"`
		ConfidenceLevel OptString  `json:"confidence_level"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Platform.Set {
		platform := strings.TrimSpace(req.Platform.Value)
		if platform == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "platform cannot be empty"})
			return
		}
		row.Platform = platform
	}
	if req.ProfileURL.Set {
		profileURL := strings.TrimSpace(req.ProfileURL.Value)
		if profileURL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "profile_url cannot be empty"})
			return
		}
		if !strings.EqualFold(profileURL, row.ProfileURL) {
			var existing models.ClientSocialAccount
			if err := db.Where("client_id = ? AND LOWER(profile_url) = LOWER(?) AND id <> ?", client.ID, profileURL, row.ID).First(&existing).Error; err == nil {
				c.JSON(http.StatusConflict, gin.H{"error": "profile URL already exists"})
				return
			}
		}
		row.ProfileURL = profileURL
	}
	if req.WhatIsExposed.Set {
		row.WhatIsExposed = datatypes.NewJSONSlice(req.WhatIsExposed.Value)
	}
	req.EngagementLevel.Apply(&row.EngagementLevel)
	req.ConfidenceLevel.Apply(&row.ConfidenceLevel)
	if err := db.Save(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, row)
}

func deleteSocialAccountHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	res := db.Where("id = ? AND client_id = ?", id, client.ID).Delete(&models.ClientSocialAccount{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "social account not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "social account deleted successfully"})
}
