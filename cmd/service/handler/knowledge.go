package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/jokari-ai/knowledge-hub/app/logic/v1"
	"github.com/jokari-ai/knowledge-hub/app/response"
	"github.com/jokari-ai/knowledge-hub/pkg/types"
	"github.com/jokari-ai/knowledge-hub/pkg/utils"
)

type SearchRequest struct {
	Query      string `form:"q" binding:"required"`
	Department string `form:"department"`
	SchemaType string `form:"schema"`
	Limit      uint64 `form:"limit"`
}

type SearchResponse struct {
	Results []v1.SearchResult `json:"results"`
	Total   int               `json:"total"`
	Query   string            `json:"query"`
}

func (s *HttpSrv) SearchKnowledge(c *gin.Context) {
	var req SearchRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	results, err := v1.NewSearchLogic(c, s.Core).Search(v1.SearchArgs{
		Query:      req.Query,
		Department: types.Department(req.Department),
		SchemaType: req.SchemaType,
		Limit:      req.Limit,
	})
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, SearchResponse{Results: results, Total: len(results), Query: req.Query})
}

func (s *HttpSrv) ListSchemas(c *gin.Context) {
	response.APISuccess(c, v1.NewKnowledgeLogic(c, s.Core).Schemas())
}

func (s *HttpSrv) GetKnowledgeStats(c *gin.Context) {
	stats, err := v1.NewKnowledgeLogic(c, s.Core).Stats()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, stats)
}

func (s *HttpSrv) GetDashboardStats(c *gin.Context) {
	stats, err := v1.NewDashboardLogic(c, s.Core).Stats()
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, stats)
}

type ActivityRequest struct {
	Action   string `form:"action"`
	EntityID string `form:"entity_id"`
	Page     uint64 `form:"page"`
	PageSize uint64 `form:"limit"`
}

type ActivityResponse struct {
	List  []*types.AuditLog `json:"list"`
	Total uint64            `json:"total"`
}

func (s *HttpSrv) GetDashboardActivity(c *gin.Context) {
	var req ActivityRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 || req.PageSize > 100 {
		req.PageSize = 20
	}

	list, total, err := v1.NewDashboardLogic(c, s.Core).Activity(types.GetAuditLogOptions{
		Action:   types.AuditAction(req.Action),
		EntityID: req.EntityID,
	}, req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, ActivityResponse{List: list, Total: total})
}
