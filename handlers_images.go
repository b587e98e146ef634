package main

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"caseiq/models"
)

// storeAllImages stores every uploaded part, rolling the blobs back when any
// single store fails so a half-imported set never leaks to disk.
func storeAllImages(files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := uploads.StoreWithThumb(fh)
		if err != nil {
			uploads.DeleteAll(urls)
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func imageFiles(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	return form.File["images"]
}

// --- broker screen records ---

func listBrokerScreenHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var rows []models.ClientBrokerScreenRecord
	if err := db.Where("client_id = ?", client.ID).Order("created_at desc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	for i := range rows {
		rows[i].Images = datatypes.JSONSlice[string](uploads.RebaseAll(rows[i].Images))
	}
	c.JSON(http.StatusOK, rows)
}

func createBrokerScreenHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	brokerName := strings.TrimSpace(c.PostForm("broker_name"))
	if brokerName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "broker_name is required"})
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
	row := models.ClientBrokerScreenRecord{
		ClientID:   client.ID,
		BrokerName: brokerName,
		Images:     datatypes.JSONSlice[string](urls),
	}
	if err := db.Create(&row).Error; err != nil {
		uploads.DeleteAll(urls)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "broker record created", "record": row})
}

// updateBrokerScreenHandler takes a multipart form: a "data" part holding
// JSON {broker_name, remaining_images} plus optional new "images" parts.
// New uploads are appended after the kept ones; blobs absent from
// remaining_images leave disk only after the row commits.
func updateBrokerScreenHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	var row models.ClientBrokerScreenRecord
	if err := db.Where("id = ? AND client_id = ?", id, client.ID).First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	var data struct {
		BrokerName      string   `json:"broker_name"`
		RemainingImages []string `json:"remaining_images"`
	}
	if err := json.Unmarshal([]byte(c.PostForm("data")), &data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON in data field"})
		return
	}
	if strings.TrimSpace(data.BrokerName) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "broker_name cannot be empty"})
		return
	}
	added, err := storeAllImages(imageFiles(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store images"})
		return
	}
	final, removed := uploads.Reconcile(row.Images, data.RemainingImages, added)
	row.BrokerName = strings.TrimSpace(data.BrokerName)
	row.Images = datatypes.JSONSlice[string](final)
	if err := db.Save(&row).Error; err != nil {
		uploads.DeleteAll(added)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	uploads.DeleteAll(removed)
	c.JSON(http.StatusOK, row)
}

func deleteBrokerScreenHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	var row models.ClientBrokerScreenRecord
	if err := db.Where("id = ? AND client_id = ?", id, client.ID).First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	if err := db.Delete(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	uploads.DeleteAll(row.Images)
	c.JSON(http.StatusOK, gin.H{"message": "record deleted successfully"})
}

// --- residential / heatmap images ---

func listHeatmapImagesHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var rows []models.ClientResidentialHeatmapImage
	if err := db.Where("client_id = ?", client.ID).Order("created_at desc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	for i := range rows {
		rows[i].ImageURL = uploads.Rebase(rows[i].ImageURL)
	}
	c.JSON(http.StatusOK, rows)
}

// uploadHeatmapImagesHandler creates one row per uploaded file, all sharing
// the submitted image_type. Rows commit in one transaction; on failure the
// stored blobs are removed again.
func uploadHeatmapImagesHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	imageType := strings.TrimSpace(c.PostForm("image_type"))
	if imageType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_type is required"})
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
	rows := make([]models.ClientResidentialHeatmapImage, len(urls))
	for i, u := range urls {
		rows[i] = models.ClientResidentialHeatmapImage{
			ClientID:  client.ID,
			ImageType: imageType,
			ImageURL:  u,
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
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "images uploaded", "images": rows})
}

// updateHeatmapImageHandler changes the image_type, replaces the file, or
// both. The old blob is removed only after the new one is stored and the row
// committed.
func updateHeatmapImageHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	var row models.ClientResidentialHeatmapImage
	if err := db.Where("id = ? AND client_id = ?", id, client.ID).First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}
	updated := false
	oldURL := ""
	if t := strings.TrimSpace(c.PostForm("image_type")); t != "" {
		row.ImageType = t
		updated = true
	}
	if fh, err := c.FormFile("image"); err == nil {
		url, err := uploads.StoreWithThumb(fh)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
			return
		}
		oldURL = row.ImageURL
		row.ImageURL = url
		updated = true
	}
	if !updated {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide image_type or an image file to update"})
		return
	}
	if err := db.Save(&row).Error; err != nil {
		if oldURL != "" {
			uploads.Delete(row.ImageURL)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if oldURL != "" {
		uploads.Delete(oldURL)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "image updated", "image": row})
}

func deleteHeatmapImageHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	var row models.ClientResidentialHeatmapImage
	if err := db.Where("id = ? AND client_id = ?", id, client.ID).First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}
	if err := db.Delete(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	uploads.Delete(row.ImageURL)
	c.JSON(http.StatusOK, gin.H{"message": "image deleted successfully"})
}

// --- front house records ---

type frontHousePatch struct {
	HomeVisibleFromStreet        OptString  `json:"home_visible_from_street"`
	ExteriorLighting             OptString  `json:"exterior_lighting"`
	SurveillanceCameras          OptString  `json:"surveillance_cameras"`
	MotionSensorsAlarms          OptString  `json:"motion_sensors_alarms"`
	GroundFloorWindowsAccessible OptString  `json:"ground_floor_windows_accessible"`
	BarsLocksReinforcedGlass     OptString  `json:"bars_locks_reinforced_glass"`
	GateFence                    OptString  `json:"gate_fence"`
	ObstructionOfView            OptString  `json:"obstruction_of_view"`
	SecuritySignage              OptString  `json:"security_signage"`
	RemainingImages              OptStrings `json:"remaining_images"`
}

func (p frontHousePatch) apply(row *models.ClientFrontHouseRecord) {
	p.HomeVisibleFromStreet.Apply(&row.HomeVisibleFromStreet)
	p.ExteriorLighting.Apply(&row.ExteriorLighting)
	p.SurveillanceCameras.Apply(&row.SurveillanceCameras)
	p.MotionSensorsAlarms.Apply(&row.MotionSensorsAlarms)
	p.GroundFloorWindowsAccessible.Apply(&row.GroundFloorWindowsAccessible)
	p.BarsLocksReinforcedGlass.Apply(&row.BarsLocksReinforcedGlass)
	p.GateFence.Apply(&row.GateFence)
	p.ObstructionOfView.Apply(&row.ObstructionOfView)
	p.SecuritySignage.Apply(&row.SecuritySignage)
}

func listFrontHouseHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var rows []models.ClientFrontHouseRecord
	if err := db.Where("client_id = ?", client.ID).Order("created_at desc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	for i := range rows {
		rows[i].Images = datatypes.JSONSlice[string](uploads.RebaseAll(rows[i].Images))
	}
	c.JSON(http.StatusOK, rows)
}

func createFrontHouseHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var patch frontHousePatch
	if err := json.Unmarshal([]byte(c.PostForm("data")), &patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON in data field"})
		return
	}
	urls, err := storeAllImages(imageFiles(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store images"})
		return
	}
	row := models.ClientFrontHouseRecord{
		ClientID:                     client.ID,
		HomeVisibleFromStreet:        "No",
		ExteriorLighting:             "No",
		SurveillanceCameras:          "No",
		MotionSensorsAlarms:          "No",
		GroundFloorWindowsAccessible: "No",
		BarsLocksReinforcedGlass:     "No",
		GateFence:                    "No",
		SecuritySignage:              "No",
		Images:                       datatypes.JSONSlice[string](urls),
	}
	patch.apply(&row)
	if err := db.Create(&row).Error; err != nil {
		uploads.DeleteAll(urls)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, row)
}

func updateFrontHouseHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	var row models.ClientFrontHouseRecord
	if err := db.Where("id = ? AND client_id = ?", id, client.ID).First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	var patch frontHousePatch
	if err := json.Unmarshal([]byte(c.PostForm("data")), &patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON in data field"})
		return
	}
	added, err := storeAllImages(imageFiles(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store images"})
		return
	}
	patch.apply(&row)
	var removed []string
	if patch.RemainingImages.Set || len(added) > 0 {
		keep := []string(row.Images)
		if patch.RemainingImages.Set {
			keep = patch.RemainingImages.Value
		}
		var final []string
		final, removed = uploads.Reconcile(row.Images, keep, added)
		row.Images = datatypes.JSONSlice[string](final)
	}
	if err := db.Save(&row).Error; err != nil {
		uploads.DeleteAll(added)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	uploads.DeleteAll(removed)
	c.JSON(http.StatusOK, row)
}

func deleteFrontHouseHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	var row models.ClientFrontHouseRecord
	if err := db.Where("id = ? AND client_id = ?", id, client.ID).First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	if err := db.Delete(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	uploads.DeleteAll(row.Images)
	c.JSON(http.StatusOK, gin.H{"message": "record deleted successfully"})
}

// --- inside house records ---

func listInsideHouseHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var rows []models.ClientInsideHouseRecord
	if err := db.Where("client_id = ?", client.ID).Order("created_at desc").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	for i := range rows {
		rows[i].Images = datatypes.JSONSlice[string](uploads.RebaseAll(rows[i].Images))
	}
	c.JSON(http.StatusOK, rows)
}

func createInsideHouseHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	var data struct {
		LayoutExposure string `json:"layout_exposure"`
	}
	if err := json.Unmarshal([]byte(c.PostForm("data")), &data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON in data field"})
		return
	}
	urls, err := storeAllImages(imageFiles(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store images"})
		return
	}
	row := models.ClientInsideHouseRecord{
		ClientID:       client.ID,
		LayoutExposure: data.LayoutExposure,
		Images:         datatypes.JSONSlice[string](urls),
	}
	if err := db.Create(&row).Error; err != nil {
		uploads.DeleteAll(urls)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, row)
}

func updateInsideHouseHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	var row models.ClientInsideHouseRecord
	if err := db.Where("id = ? AND client_id = ?", id, client.ID).First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	var patch struct {
		LayoutExposure  OptString  `json:"layout_exposure"`
		RemainingImages OptStrings `json:"remaining_images"`
	}
	if err := json.Unmarshal([]byte(c.PostForm("data")), &patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON in data field"})
		return
	}
	added, err := storeAllImages(imageFiles(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store images"})
		return
	}
	patch.LayoutExposure.Apply(&row.LayoutExposure)
	var removed []string
	if patch.RemainingImages.Set || len(added) > 0 {
		keep := []string(row.Images)
		if patch.RemainingImages.Set {
			keep = patch.RemainingImages.Value
		}
		var final []string
		final, removed = uploads.Reconcile(row.Images, keep, added)
		row.Images = datatypes.JSONSlice[string](final)
	}
	if err := db.Save(&row).Error; err != nil {
		uploads.DeleteAll(added)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	uploads.DeleteAll(removed)
	c.JSON(http.StatusOK, row)
}

func deleteInsideHouseHandler(c *gin.Context) {
	client, ok := requireClientAccess(c)
	if !ok {
		return
	}
	id, ok := itemID(c)
	if !ok {
		return
	}
	var row models.ClientInsideHouseRecord
	if err := db.Where("id = ? AND client_id = ?", id, client.ID).First(&row).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	if err := db.Delete(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	uploads.DeleteAll(row.Images)
	c.JSON(http.StatusOK, gin.H{"message": "record deleted successfully"})
}
