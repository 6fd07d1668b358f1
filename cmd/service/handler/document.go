package handler

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	v1 "github.com/jokari-ai/knowledge-hub/app/logic/v1"
	"github.com/jokari-ai/knowledge-hub/app/response"
	"github.com/jokari-ai/knowledge-hub/pkg/errors"
	"github.com/jokari-ai/knowledge-hub/pkg/i18n"
	"github.com/jokari-ai/knowledge-hub/pkg/types"
	"github.com/jokari-ai/knowledge-hub/pkg/utils"
)

type UploadDocumentRequest struct {
	Department      string `form:"department" binding:"required"`
	DocType         string `form:"doc_type" binding:"required"`
	VersionDate     string `form:"version_date"`
	Owner           string `form:"owner"`
	Confidentiality string `form:"confidentiality"`
}

type UploadDocumentResult struct {
	Filename   string `json:"filename"`
	DocumentID string `json:"document_id,omitempty"`
	JobID      string `json:"job_id,omitempty"`
	Status     string `json:"status,omitempty"`
	Error      string `json:"error,omitempty"`
}

func (s *HttpSrv) UploadDocuments(c *gin.Context) {
	var req UploadDocumentRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	department, ok := types.DepartmentFromString(req.Department)
	if !ok {
		response.APIError(c, errors.New("handler.UploadDocuments.department", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest))
		return
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		response.APIError(c, errors.New("handler.UploadDocuments.files", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest))
		return
	}

	args := v1.UploadDocumentArgs{
		Department:      department,
		DocType:         types.DocType(req.DocType),
		VersionDate:     parseVersionDate(req.VersionDate),
		Owner:           req.Owner,
		Confidentiality: types.ConfidentialityFromString(req.Confidentiality),
	}

	logic := v1.NewDocumentLogic(c, s.Core)
	var results []UploadDocumentResult
	for _, fh := range form.File["files"] {
		result := UploadDocumentResult{Filename: fh.Filename}

		raw, err := readMultipartFile(fh)
		if err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		doc, jobID, err := logic.Upload(fh.Filename, raw, args)
		if err != nil {
			result.Error = err.Error()
		} else {
			result.DocumentID = doc.ID
			result.JobID = jobID
			result.Status = doc.Status.String()
		}
		results = append(results, result)
	}

	response.APISuccess(c, results)
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func parseVersionDate(raw string) int64 {
	if raw == "" {
		return time.Now().Unix()
	}
	if ts, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return ts
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.Unix()
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.Unix()
	}
	return time.Now().Unix()
}

type ListDocTypesRequest struct {
	Department string `form:"department" binding:"required"`
}

func (s *HttpSrv) ListDocTypes(c *gin.Context) {
	var req ListDocTypesRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	docTypes, err := v1.NewDocumentLogic(c, s.Core).DocTypes(types.Department(req.Department))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, docTypes)
}

type ListDocumentsRequest struct {
	Department string `form:"department"`
	DocType    string `form:"doc_type"`
	Status     string `form:"status"`
	Page       uint64 `form:"page"`
	PageSize   uint64 `form:"limit"`
}

type ListDocumentsResponse struct {
	List  []*types.Document `json:"list"`
	Total uint64            `json:"total"`
}

func (s *HttpSrv) ListDocuments(c *gin.Context) {
	var req ListDocumentsRequest
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

	opts := types.GetDocumentOptions{
		Department: types.Department(req.Department),
		DocType:    types.DocType(req.DocType),
	}
	if req.Status != "" {
		status, ok := types.DocumentStatusFromString(req.Status)
		if !ok {
			response.APIError(c, errors.New("handler.ListDocuments.status", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest))
			return
		}
		opts.Status = status
	}

	list, total, err := v1.NewDocumentLogic(c, s.Core).ListDocuments(opts, req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, ListDocumentsResponse{List: list, Total: total})
}

func (s *HttpSrv) GetDocument(c *gin.Context) {
	doc, err := v1.NewDocumentLogic(c, s.Core).GetDocument(c.Param("id"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, doc)
}

type DocumentStatusResponse struct {
	DocumentID   string `json:"document_id"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	RetryTimes   int    `json:"retry_times"`
}

func (s *HttpSrv) GetDocumentStatus(c *gin.Context) {
	doc, err := v1.NewDocumentLogic(c, s.Core).GetDocument(c.Param("id"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, DocumentStatusResponse{
		DocumentID:   doc.ID,
		Status:       doc.Status.String(),
		ErrorMessage: doc.ErrorMessage,
		RetryTimes:   doc.RetryTimes,
	})
}

func (s *HttpSrv) DeleteDocument(c *gin.Context) {
	if err := v1.NewDocumentLogic(c, s.Core).Delete(c.Param("id")); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) RetryDocument(c *gin.Context) {
	doc, err := v1.NewDocumentLogic(c, s.Core).Retry(c.Param("id"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, doc)
}

func (s *HttpSrv) ListDocumentChunks(c *gin.Context) {
	chunks, err := v1.NewDocumentLogic(c, s.Core).ListChunks(c.Param("id"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, chunks)
}

func (s *HttpSrv) ListDocumentRecords(c *gin.Context) {
	records, err := v1.NewDocumentLogic(c, s.Core).ListRecords(c.Param("id"))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, records)
}
