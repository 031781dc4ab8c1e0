package http_api

// routes sets up the routes for the HTTP server.
func (s *HTTPServer) routes() {
	s.router.GET("/healthz", s.healthz)

	// PayU posts the browser back to surl/furl
	s.router.POST("/payment/success", s.gatewayResult)
	s.router.GET("/payment/success", s.gatewayResult)
	s.router.POST("/payment/failure", s.gatewayResult)
	s.router.GET("/payment/failure", s.gatewayResult)

	api := s.router.Group("/api/v1", s.authMiddleware())
	{
		api.POST("/accounts/sync", s.syncAccount)
		api.PUT("/accounts/telegram", s.setTelegram)

		api.GET("/payments", s.listClientPayments)
		api.GET("/payments/:id", s.getPayment)
		api.POST("/payments/:id/submit", s.submitPayment)
		api.POST("/payments/:id/accept", s.acceptPayment)
		api.POST("/payments/:id/pay", s.initiatePayment)

		api.GET("/notifications", s.listNotifications)
		api.GET("/notifications/unread_count", s.unreadNotificationCount)
		api.POST("/notifications/read_all", s.markAllNotificationsRead)
		api.POST("/notifications/:id/read", s.markNotificationRead)
	}

	admin := api.Group("/admin", s.adminMiddleware())
	{
		admin.POST("/payments", s.createPayment)
		admin.GET("/payments", s.listPayments)
		admin.GET("/payments/:id", s.getPayment)
		admin.PATCH("/payments/:id", s.editPayment)
		admin.POST("/payments/:id/approve", s.approvePayment)
		admin.POST("/payments/:id/reject", s.rejectPayment)
		admin.POST("/payments/:id/cancel", s.cancelPayment)
		admin.GET("/payments/:id/history", s.paymentHistory)
		admin.GET("/payments/:id/audit", s.auditPayment)

		admin.GET("/stats", s.dashboardStats)
		admin.GET("/earnings/monthly", s.monthlyEarnings)
	}
}
