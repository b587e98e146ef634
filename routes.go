package main

import "github.com/gin-gonic/gin"

func setupRoutes(r *gin.Engine) {
	r.POST("/signup", signupHandler)
	r.POST("/login", loginHandler)
	r.POST("/reset-password-request", resetPasswordRequestHandler)
	r.POST("/reset-password", resetPasswordHandler)

	auth := r.Group("")
	auth.Use(authMiddleware())

	auth.GET("/profile", profileHandler)
	auth.POST("/logout", logoutHandler)
	auth.POST("/change-password", changePasswordHandler)

	admin := auth.Group("")
	admin.Use(requireAdmin())
	admin.GET("/users", listUsersHandler)
	admin.PUT("/users/:id", updateUserHandler)
	admin.DELETE("/users/:id", deleteUserHandler)
	admin.POST("/admin/add-user", adminAddUserHandler)

	admin.GET("/clients", listClientsHandler)
	admin.POST("/clients", createClientHandler)
	admin.DELETE("/clients/:id", deleteClientHandler)
	admin.PUT("/clients/:id/assign", assignClientHandler)
	admin.PUT("/clients/:id/unassign", unassignClientHandler)
	admin.GET("/admin/clients/export", exportClientsHandler)
	admin.GET("/admin/all-documents", listAllDocumentsHandler)

	auth.PUT("/clients/:id", updateClientHandler) // admin or owning analyst

	analyst := auth.Group("")
	analyst.Use(requireAnalyst())
	analyst.GET("/analyst/clients", analystClientsHandler)

	// Sub-resources: every handler runs the ownership gate itself.
	auth.GET("/clients/:id/emails", listEmailsHandler)
	auth.POST("/clients/:id/emails", createEmailHandler)
	auth.PUT("/clients/:id/emails/:item_id", updateEmailHandler)
	auth.DELETE("/clients/:id/emails/:item_id", deleteEmailHandler)
	auth.POST("/clients/:id/emails/bulk-upload", bulkUploadEmailsHandler)

	auth.GET("/clients/:id/phone-numbers", listPhonesHandler)
	auth.POST("/clients/:id/phone-numbers", createPhoneHandler)
	auth.PUT("/clients/:id/phone-numbers/:item_id", updatePhoneHandler)
	auth.DELETE("/clients/:id/phone-numbers/:item_id", deletePhoneHandler)
	auth.POST("/clients/:id/phone-numbers/bulk-upload", bulkUploadPhonesHandler)

	auth.GET("/clients/:id/usernames", listUsernamesHandler)
	auth.POST("/clients/:id/usernames", createUsernameHandler)
	auth.PUT("/clients/:id/usernames/:item_id", updateUsernameHandler)
	auth.DELETE("/clients/:id/usernames/:item_id", deleteUsernameHandler)
	auth.POST("/clients/:id/usernames/bulk-upload", bulkUploadUsernamesHandler)

	auth.GET("/clients/:id/addresses", listAddressesHandler)
	auth.POST("/clients/:id/addresses", createAddressHandler)
	auth.PUT("/clients/:id/addresses/:item_id", updateAddressHandler)
	auth.DELETE("/clients/:id/addresses/:item_id", deleteAddressHandler)
	auth.POST("/clients/:id/addresses/bulk-upload", bulkUploadAddressesHandler)

	auth.GET("/clients/:id/relatives-associates", listRelativesHandler)
	auth.POST("/clients/:id/relatives-associates", createRelativeHandler)
	auth.PUT("/clients/:id/relatives-associates/:item_id", updateRelativeHandler)
	auth.DELETE("/clients/:id/relatives-associates/:item_id", deleteRelativeHandler)

	auth.GET("/clients/:id/social-accounts", listSocialAccountsHandler)
	auth.POST("/clients/:id/social-accounts", createSocialAccountHandler)
	auth.PUT("/clients/:id/social-accounts/:item_id", updateSocialAccountHandler)
	auth.DELETE("/clients/:id/social-accounts/:item_id", deleteSocialAccountHandler)

	auth.GET("/clients/:id/government-records", listGovRecordsHandler)
	auth.POST("/clients/:id/government-records", createGovRecordHandler)
	auth.PUT("/clients/:id/government-records/:item_id", updateGovRecordHandler)
	auth.DELETE("/clients/:id/government-records/:item_id", deleteGovRecordHandler)

	auth.GET("/clients/:id/voter-records", listVoterRecordsHandler)
	auth.POST("/clients/:id/voter-records", createVoterRecordHandler)
	auth.DELETE("/clients/:id/voter-records/:item_id", deleteVoterRecordHandler)

	auth.GET("/clients/:id/dvm-records", listDVMRecordsHandler)
	auth.POST("/clients/:id/dvm-records", createDVMRecordHandler)
	auth.DELETE("/clients/:id/dvm-records/:item_id", deleteDVMRecordHandler)

	auth.GET("/clients/:id/donor-records", listDonorRecordsHandler)
	auth.POST("/clients/:id/donor-records", createDonorRecordHandler)
	auth.DELETE("/clients/:id/donor-records/:item_id", deleteDonorRecordHandler)
	auth.POST("/clients/:id/donor-records/csv-upload", csvUploadDonorRecordsHandler)

	auth.GET("/clients/:id/business-info", listBusinessInfoHandler)
	auth.POST("/clients/:id/business-info", createBusinessInfoHandler)
	auth.PUT("/clients/:id/business-info/:item_id", updateBusinessInfoHandler)
	auth.DELETE("/clients/:id/business-info/:item_id", deleteBusinessInfoHandler)

	auth.GET("/clients/:id/broker-screen-records", listBrokerScreenHandler)
	auth.POST("/clients/:id/broker-screen-records", createBrokerScreenHandler)
	auth.PUT("/clients/:id/broker-screen-records/:item_id", updateBrokerScreenHandler)
	auth.DELETE("/clients/:id/broker-screen-records/:item_id", deleteBrokerScreenHandler)

	auth.GET("/clients/:id/residential-heatmap-images", listHeatmapImagesHandler)
	auth.POST("/clients/:id/residential-heatmap-images", uploadHeatmapImagesHandler)
	auth.PUT("/clients/:id/residential-heatmap-images/:item_id", updateHeatmapImageHandler)
	auth.DELETE("/clients/:id/residential-heatmap-images/:item_id", deleteHeatmapImageHandler)

	auth.GET("/clients/:id/front-house-records", listFrontHouseHandler)
	auth.POST("/clients/:id/front-house-records", createFrontHouseHandler)
	auth.PUT("/clients/:id/front-house-records/:item_id", updateFrontHouseHandler)
	auth.DELETE("/clients/:id/front-house-records/:item_id", deleteFrontHouseHandler)

	auth.GET("/clients/:id/inside-house-records", listInsideHouseHandler)
	auth.POST("/clients/:id/inside-house-records", createInsideHouseHandler)
	auth.PUT("/clients/:id/inside-house-records/:item_id", updateInsideHouseHandler)
	auth.DELETE("/clients/:id/inside-house-records/:item_id", deleteInsideHouseHandler)

	auth.GET("/clients/:id/facial-recognition-urls", listFacialURLsHandler)
	auth.POST("/clients/:id/facial-recognition-urls", createFacialURLHandler)
	auth.PUT("/clients/:id/facial-recognition-urls/:item_id", updateFacialURLHandler)
	auth.DELETE("/clients/:id/facial-recognition-urls/:item_id", deleteFacialURLHandler)
	auth.POST("/clients/:id/facial-recognition-urls/bulk-upload", bulkUploadFacialURLsHandler)

	auth.GET("/clients/:id/facial-recognition-sites", listFacialSitesHandler)
	auth.POST("/clients/:id/facial-recognition-sites", createFacialSitesHandler)
	auth.PUT("/clients/:id/facial-recognition-sites/:item_id", updateFacialSiteHandler)
	auth.DELETE("/clients/:id/facial-recognition-sites/:item_id", deleteFacialSiteHandler)

	auth.GET("/clients/:id/generated-documents", listDocumentsHandler)
	auth.POST("/clients/:id/generated-documents", createDocumentHandler)
	auth.DELETE("/clients/:id/generated-documents/:item_id", deleteDocumentHandler)
}
