package service

import (
	"github.com/gin-gonic/gin"

	"github.com/jokari-ai/knowledge-hub/app/core"
	"github.com/jokari-ai/knowledge-hub/app/response"
	"github.com/jokari-ai/knowledge-hub/cmd/service/handler"
	"github.com/jokari-ai/knowledge-hub/cmd/service/middleware"
	"github.com/jokari-ai/knowledge-hub/pkg/metrics"
)

func serve(core *core.Core) {
	httpSrv := &handler.HttpSrv{
		Core:   core,
		Engine: core.HttpEngine(),
	}
	setupHttpRouter(httpSrv)

	core.HttpEngine().Run(core.Cfg().Addr)
}

func GetIPLimitBuilder(appCore *core.Core) middleware.LimiterFunc {
	return func(key string, opts ...core.LimitOption) gin.HandlerFunc {
		return middleware.UseLimit(appCore, key, func(c *gin.Context) string {
			return key + ":" + c.ClientIP()
		}, opts...)
	}
}

func setupHttpRouter(s *handler.HttpSrv) {
	ipLimit := GetIPLimitBuilder(s.Core)

	s.Engine.Use(gin.Recovery())
	s.Engine.Use(middleware.I18n(), response.NewResponse())
	s.Engine.Use(middleware.Cors)
	s.Engine.Use(middleware.AcceptLanguage(), middleware.SetActor())
	s.Engine.Use(middleware.Metrics(s.Core))

	s.Engine.GET("/metrics", metrics.DefaultExportHandler())

	api := s.Engine.Group("/api")
	{
		upload := api.Group("/upload")
		{
			upload.POST("", ipLimit("upload"), s.UploadDocuments)
			upload.GET("/doc-types", s.ListDocTypes)
		}

		documents := api.Group("/documents")
		{
			documents.GET("", s.ListDocuments)
			documents.GET("/:id", s.GetDocument)
			documents.GET("/:id/status", s.GetDocumentStatus)
			documents.DELETE("/:id", s.DeleteDocument)
			documents.POST("/:id/retry", s.RetryDocument)
			documents.GET("/:id/chunks", s.ListDocumentChunks)
			documents.GET("/:id/records", s.ListDocumentRecords)
		}

		review := api.Group("/review")
		{
			review.GET("", s.ListReviewQueue)

			updates := review.Group("/updates")
			{
				updates.GET("", s.ListProposedUpdates)
				updates.GET("/:id", s.GetProposedUpdate)
				updates.POST("/:id/approve", s.ApproveProposedUpdate)
				updates.POST("/:id/reject", s.RejectProposedUpdate)
			}

			review.GET("/:id", s.GetReviewRecord)
			review.PUT("/:id", s.EditRecord)
			review.PATCH("/:id", s.EditRecordField)
			review.POST("/:id/approve", s.ApproveRecord)
			review.POST("/:id/reject", s.RejectRecord)
			review.GET("/:id/attachments", s.ListRecordAttachments)
			review.POST("/:id/attachments", s.AddRecordAttachment)
			review.GET("/:id/attachments/:attachment_id", s.GetAttachmentURL)
			review.DELETE("/:id/attachments/:attachment_id", s.DeleteRecordAttachment)
		}

		knowledge := api.Group("/knowledge")
		{
			knowledge.GET("/search", s.SearchKnowledge)
			knowledge.GET("/schemas", s.ListSchemas)
			knowledge.GET("/stats", s.GetKnowledgeStats)
		}

		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/stats", s.GetDashboardStats)
			dashboard.GET("/activity", s.GetDashboardActivity)
		}
	}
}
