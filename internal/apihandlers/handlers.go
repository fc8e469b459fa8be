package apihandlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"laborctl/internal/api"
	"laborctl/internal/app"
	"laborctl/internal/models"
	"laborctl/internal/services"
	"laborctl/internal/workflow"
)

type APIHandler struct {
	App *app.App
}

func NewAPIHandler(app *app.App) *APIHandler {
	return &APIHandler{App: app}
}

// JobActionRequest is the optional body of POST /jobs/:id/actions/:action.
type JobActionRequest struct {
	WorkerID            string         `json:"workerId"`
	EmployerID          string         `json:"employerId"`
	CompleteImmediately bool           `json:"completeImmediately"`
	CancellationReason  string         `json:"cancellationReason"`
	CancellationNote    string         `json:"cancellationNote"`
	Fields              map[string]any `json:"fields"`
}

// RejectImagesRequest is the body of POST .../kyc/reject-images.
type RejectImagesRequest struct {
	Images []string `json:"images"`
	Reason string   `json:"reason"`
}

// StatusesHandler lists the job status vocabulary with the actions each
// status allows.
func (h *APIHandler) StatusesHandler(c *gin.Context) {
	type statusEntry struct {
		Status  models.JobStatus     `json:"status"`
		Label   string               `json:"label"`
		Badge   models.BadgeClass    `json:"badge"`
		Allowed []workflow.JobAction `json:"allowed"`
	}
	entries := make([]statusEntry, 0, len(models.AllJobStatuses))
	for _, s := range models.AllJobStatuses {
		entries = append(entries, statusEntry{
			Status:  s,
			Label:   models.JobStatusLabel(s),
			Badge:   models.JobStatusBadgeClass(s),
			Allowed: workflow.AllowedJobActions(s),
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": entries, "options": models.JobStatusOptions()})
}

func (h *APIHandler) ListJobsHandler(c *gin.Context) {
	params, err := parseListParams(c)
	if err != nil {
		BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.App.JobService.ListJobs(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": page.Items, "pagination": page.Pagination})
}

// GetJobHandler returns the job with its status label, badge and allowed
// actions, as the backend has it now.
func (h *APIHandler) GetJobHandler(c *gin.Context) {
	view, err := h.App.JobService.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (h *APIHandler) JobActionHandler(c *gin.Context) {
	action, err := workflow.ParseJobAction(c.Param("action"))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	payload, err := parseJobActionRequest(c)
	if err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	id := c.Param("id")
	view, err := h.App.JobService.Perform(c.Request.Context(), id, action, payload)
	if err != nil {
		respondError(c, err)
		return
	}
	log.WithFields(log.Fields{"job": id, "action": action}).Info("api job action")

	if view == nil {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id, "deleted": true}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

// parseJobActionRequest reads the optional action body. An empty body is a
// valid request for actions that need nothing but the job id.
func parseJobActionRequest(c *gin.Context) (workflow.JobPayload, error) {
	var req JobActionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		return workflow.JobPayload{}, err
	}

	payload := workflow.JobPayload{
		WorkerID:            req.WorkerID,
		EmployerID:          req.EmployerID,
		CompleteImmediately: req.CompleteImmediately,
		CancellationNote:    req.CancellationNote,
		Fields:              req.Fields,
	}
	if req.CancellationReason != "" {
		reason, ok := models.ParseCancellationReason(req.CancellationReason)
		if !ok {
			return payload, fmt.Errorf("unknown cancellation reason %q", req.CancellationReason)
		}
		payload.CancellationReason = reason
	}
	return payload, nil
}

// GetKycHandler returns the KYC record of a worker or employer with its
// flattened image items.
func (h *APIHandler) GetKycHandler(kind api.ProfileKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := h.App.ProfileService.Kyc(c.Request.Context(), kind, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": view})
	}
}

func (h *APIHandler) ApproveKycHandler(kind api.ProfileKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := h.App.ProfileService.ApproveKyc(c.Request.Context(), kind, c.Param("id"))
		respondKyc(c, view, err)
	}
}

func (h *APIHandler) VerifyImagesHandler(kind api.ProfileKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := h.App.ProfileService.VerifyImages(c.Request.Context(), kind, c.Param("id"))
		respondKyc(c, view, err)
	}
}

func (h *APIHandler) RejectImagesHandler(kind api.ProfileKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RejectImagesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			BadRequest(c, "Invalid request body: "+err.Error())
			return
		}
		view, err := h.App.ProfileService.RejectImages(c.Request.Context(), kind, c.Param("id"), req.Images, req.Reason)
		respondKyc(c, view, err)
	}
}

func respondKyc(c *gin.Context, view *services.KycView, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

// parseListParams reads page, limit, search and status from the query string.
func parseListParams(c *gin.Context) (services.ListParams, error) {
	params := services.ListParams{
		Page:   1,
		Limit:  20,
		Search: c.Query("search"),
		Status: c.Query("status"),
	}
	if p := c.Query("page"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil || parsed <= 0 {
			return params, fmt.Errorf("invalid page: %s", p)
		}
		params.Page = parsed
	}
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed <= 0 {
			return params, fmt.Errorf("invalid limit: %s", l)
		}
		params.Limit = parsed
	}
	return params, nil
}
