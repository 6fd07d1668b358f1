package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/jokari-ai/knowledge-hub/app/logic/v1"
	"github.com/jokari-ai/knowledge-hub/app/response"
	"github.com/jokari-ai/knowledge-hub/pkg/errors"
	"github.com/jokari-ai/knowledge-hub/pkg/i18n"
	"github.com/jokari-ai/knowledge-hub/pkg/types"
	"github.com/jokari-ai/knowledge-hub/pkg/utils"
)

type ListReviewRequest struct {
	Status     string `form:"status"`
	Department string `form:"department"`
	SchemaType string `form:"schema"`
	Sort       string `form:"sort"`
	Page       uint64 `form:"page"`
	PageSize   uint64 `form:"limit"`
}

type ListReviewResponse struct {
	List  []*types.Record `json:"list"`
	Total uint64          `json:"total"`
}

func (s *HttpSrv) ListReviewQueue(c *gin.Context) {
	var req ListReviewRequest
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

	opts := types.GetRecordOptions{
		Department: types.Department(req.Department),
		SchemaType: req.SchemaType,
	}
	if req.Status != "" {
		status, ok := types.RecordStatusFromString(req.Status)
		if !ok {
			response.APIError(c, errors.New("handler.ListReviewQueue.status", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest))
			return
		}
		opts.Status = status
	} else {
		// 默认只展示待审队列
		opts.Statuses = []types.RecordStatus{types.RECORD_STATUS_PENDING, types.RECORD_STATUS_NEEDS_REVIEW}
	}

	list, total, err := v1.NewRecordLogic(c, s.Core).ListRecords(opts, types.RecordSort(req.Sort), req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, ListReviewResponse{List: list, Total: total})
}

func (s *HttpSrv) GetReviewRecord(c *gin.Context) {
	detail, err := v1.NewRecordLogic(c, s.Core).GetDetail(c.Param("id"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, detail)
}

type EditRecordRequest struct {
	Version int64           `json:"version" binding:"required"`
	Data    json.RawMessage `json:"data" binding:"required"`
}

func (s *HttpSrv) EditRecord(c *gin.Context) {
	var req EditRecordRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	record, err := v1.NewRecordLogic(c, s.Core).Edit(c.Param("id"), req.Version, req.Data)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, record)
}

type EditRecordFieldRequest struct {
	Version   int64           `json:"version" binding:"required"`
	FieldPath string          `json:"field_path" binding:"required"`
	Value     json.RawMessage `json:"value" binding:"required"`
}

func (s *HttpSrv) EditRecordField(c *gin.Context) {
	var req EditRecordFieldRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	record, err := v1.NewRecordLogic(c, s.Core).EditField(c.Param("id"), req.Version, req.FieldPath, req.Value)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, record)
}

type ReviewActionRequest struct {
	Actor  string `json:"actor"`
	Reason string `json:"reason"`
}

// bindActor 请求体内的 actor 优先于 X-Actor 请求头
func bindActor(c *gin.Context, actor string) {
	if actor != "" {
		c.Set(v1.ACTOR_CONTEXT_KEY, actor)
	}
}

func (s *HttpSrv) ApproveRecord(c *gin.Context) {
	var req ReviewActionRequest
	if c.Request.ContentLength > 0 {
		if err := utils.BindArgsWithGin(c, &req); err != nil {
			response.APIError(c, err)
			return
		}
	}
	bindActor(c, req.Actor)

	record, err := v1.NewRecordLogic(c, s.Core).Approve(c.Param("id"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, record)
}

func (s *HttpSrv) RejectRecord(c *gin.Context) {
	var req ReviewActionRequest
	if c.Request.ContentLength > 0 {
		if err := utils.BindArgsWithGin(c, &req); err != nil {
			response.APIError(c, err)
			return
		}
	}
	bindActor(c, req.Actor)

	record, err := v1.NewRecordLogic(c, s.Core).Reject(c.Param("id"), req.Reason)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, record)
}

func (s *HttpSrv) ListRecordAttachments(c *gin.Context) {
	attachments, err := v1.NewAttachmentLogic(c, s.Core).List(c.Param("id"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, attachments)
}

func (s *HttpSrv) AddRecordAttachment(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.APIError(c, errors.New("handler.AddRecordAttachment.file", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest))
		return
	}

	raw, err := readMultipartFile(fh)
	if err != nil {
		response.APIError(c, errors.New("handler.AddRecordAttachment.read", i18n.ERROR_INTERNAL, err))
		return
	}

	attachment, err := v1.NewAttachmentLogic(c, s.Core).Add(c.Param("id"), fh.Filename, fh.Header.Get("Content-Type"), raw)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, attachment)
}

func (s *HttpSrv) DeleteRecordAttachment(c *gin.Context) {
	if err := v1.NewAttachmentLogic(c, s.Core).Delete(c.Param("id"), c.Param("attachment_id")); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

type AttachmentURLResponse struct {
	URL string `json:"url"`
}

func (s *HttpSrv) GetAttachmentURL(c *gin.Context) {
	url, err := v1.NewAttachmentLogic(c, s.Core).DownloadURL(c.Param("attachment_id"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, AttachmentURLResponse{URL: url})
}

type ListUpdatesRequest struct {
	Status   string `form:"status"`
	RecordID string `form:"record_id"`
	Page     uint64 `form:"page"`
	PageSize uint64 `form:"limit"`
}

type ListUpdatesResponse struct {
	List  []*types.ProposedUpdate `json:"list"`
	Total uint64                  `json:"total"`
}

func (s *HttpSrv) ListProposedUpdates(c *gin.Context) {
	var req ListUpdatesRequest
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

	opts := types.GetProposedUpdateOptions{
		RecordID: req.RecordID,
	}
	if req.Status != "" {
		status, ok := types.UpdateStatusFromString(req.Status)
		if !ok {
			response.APIError(c, errors.New("handler.ListProposedUpdates.status", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest))
			return
		}
		opts.Status = status
	} else {
		opts.Status = types.UPDATE_STATUS_PENDING
	}

	list, total, err := v1.NewUpdateLogic(c, s.Core).ListUpdates(opts, req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, ListUpdatesResponse{List: list, Total: total})
}

func (s *HttpSrv) GetProposedUpdate(c *gin.Context) {
	update, err := v1.NewUpdateLogic(c, s.Core).GetUpdate(c.Param("id"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, update)
}

func (s *HttpSrv) ApproveProposedUpdate(c *gin.Context) {
	var req ReviewActionRequest
	if c.Request.ContentLength > 0 {
		if err := utils.BindArgsWithGin(c, &req); err != nil {
			response.APIError(c, err)
			return
		}
	}
	bindActor(c, req.Actor)

	update, err := v1.NewUpdateLogic(c, s.Core).Approve(c.Param("id"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, update)
}

func (s *HttpSrv) RejectProposedUpdate(c *gin.Context) {
	var req ReviewActionRequest
	if c.Request.ContentLength > 0 {
		if err := utils.BindArgsWithGin(c, &req); err != nil {
			response.APIError(c, err)
			return
		}
	}
	bindActor(c, req.Actor)

	update, err := v1.NewUpdateLogic(c, s.Core).Reject(c.Param("id"), req.Reason)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, update)
}
