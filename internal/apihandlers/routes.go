package apihandlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laborctl/internal/api"
)

// Register mounts the health check and the /api/v1 routes on router.
func (h *APIHandler) Register(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		v1.GET("/statuses", h.StatusesHandler)

		jobGroup := v1.Group("/jobs")
		{
			jobGroup.GET("", h.ListJobsHandler)
			jobGroup.GET("/:id", h.GetJobHandler)
			jobGroup.POST("/:id/actions/:action", h.JobActionHandler)
		}

		for _, kind := range []api.ProfileKind{api.KindWorker, api.KindEmployer} {
			kycGroup := v1.Group("/" + string(kind) + "s/:id/kyc")
			{
				kycGroup.GET("", h.GetKycHandler(kind))
				kycGroup.POST("/approve", h.ApproveKycHandler(kind))
				kycGroup.POST("/verify-images", h.VerifyImagesHandler(kind))
				kycGroup.POST("/reject-images", h.RejectImagesHandler(kind))
			}
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "ok",
			"authenticated": h.App.AuthService.Authenticated(),
		})
	})
}
