// History HTTP handlers.
//
// This file exposes REST endpoints for the calculation history:
//   - GET    /calc/history          (list, newest first, weak ETag support)
//   - GET    /calc/history/{id}     (single record)
//   - PATCH  /calc/history/{id}     (partial update of inputs/result)
//   - DELETE /calc/history/{id}     (delete with confirmation)
//
// All record-level operations are scoped to the username supplied with the
// request; a record that is missing and a record owned by someone else
// produce the same 404.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/services"
	"github.com/tbourn/go-health-backend/internal/utils"
)

// RecordSummary is the wire shape of one history entry.
//
// CreatedAt is an RFC3339 timestamp, or null when the stored row carries no
// timestamp.
type RecordSummary struct {
	ID        uint           `json:"id" example:"7"`
	CalcType  string         `json:"calc_type" example:"bmi"`
	Inputs    domain.JSONMap `json:"inputs"`
	Result    domain.JSONMap `json:"result"`
	CreatedAt *string        `json:"created_at" example:"2025-06-01T12:34:56Z"`
}

// HistoryUpdateRequest is the JSON payload for PATCH /calc/history/{id}.
// Only the provided payload fields change; omitted ones keep their stored
// value.
type HistoryUpdateRequest struct {
	// Username owning the record.
	Username string `json:"username" binding:"required" example:"alice"`
	// Inputs replaces the stored inputs payload when present.
	Inputs domain.JSONMap `json:"inputs,omitempty"`
	// Result replaces the stored result payload when present.
	Result domain.JSONMap `json:"result,omitempty"`
}

// DeleteResponse confirms a successful deletion.
type DeleteResponse struct {
	Detail string `json:"detail" example:"record deleted"`
}

// toSummary converts a persisted record into its wire shape.
func toSummary(r *domain.CalculationRecord) RecordSummary {
	var created *string
	if !r.CreatedAt.IsZero() {
		s := r.CreatedAt.UTC().Format(time.RFC3339)
		created = &s
	}
	return RecordSummary{
		ID:        r.ID,
		CalcType:  r.CalcType,
		Inputs:    r.Inputs,
		Result:    r.Result,
		CreatedAt: created,
	}
}

// clampLimitOffset parses and bounds the limit and offset query params.
func clampLimitOffset(c *gin.Context) (limit, offset int) {
	const (
		defaultLimit = 100
		maxLimit     = 500
	)
	limit = utils.AtoiDefault(c.Query("limit"), defaultLimit)
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset = utils.AtoiDefault(c.Query("offset"), 0)
	if offset < 0 {
		offset = 0
	}
	return
}

// recordID parses the :id path parameter. The second return value reports
// whether it was a valid positive integer.
func recordID(c *gin.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// historyFail maps history service errors onto HTTP responses.
func historyFail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUsernameRequired):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username is required")
	case errors.Is(err, services.ErrRecordNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "record not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeStore, "history operation failed")
	}
}

// ListHistory godoc
// @ID          listHistory
// @Summary     List calculation history
// @Description Returns the user's records newest first. A missing or unknown username yields an empty list, not an error. Supports weak ETag via If-None-Match.
// @Tags        History
// @Produce     json
// @Param       username  query string false "Owner username"
// @Param       calc_type query string false "Filter by calculator tag" Enums(bmi, body-fat, calorie, bmr, ideal-weight)
// @Param       limit     query int    false "Page size" minimum(1) maximum(500) default(100)
// @Param       offset    query int    false "Rows to skip" minimum(0) default(0)
// @Success     200 {array}  handlers.RecordSummary
// @Header      200 {string} ETag "Weak ETag for current result"
// @Success     304 {string} string "Not Modified"
// @Failure     500 {object} handlers.ErrorResponse "Store failure"
// @Router      /calc/history [get]
func (h *Handlers) ListHistory(c *gin.Context) {
	ctx := c.Request.Context()
	username := strings.TrimSpace(c.Query("username"))
	calcType := strings.TrimSpace(c.Query("calc_type"))
	limit, offset := clampLimitOffset(c)

	// ETag pre-check (best effort; listing still succeeds without it).
	if username != "" {
		count, maxTS, err := h.histSvc.Stats(ctx, username)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"history:%s:%s:%d:%d"`, username, calcType, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, _, err := h.histSvc.List(ctx, username, calcType, limit, offset)
	if err != nil {
		historyFail(c, err)
		return
	}

	out := make([]RecordSummary, 0, len(items))
	for i := range items {
		out = append(out, toSummary(&items[i]))
	}
	ok(c, http.StatusOK, out)
}

// GetHistoryRecord godoc
// @ID          getHistoryRecord
// @Summary     Get one history record
// @Description Fetches a record by id for the owning username; 404 when absent or owned by someone else.
// @Tags        History
// @Produce     json
// @Param       id       path  int    true "Record ID"
// @Param       username query string true "Owner username"
// @Success     200 {object} handlers.RecordSummary
// @Failure     400 {object} handlers.ErrorResponse "Bad request"
// @Failure     404 {object} handlers.ErrorResponse "Record not found"
// @Failure     500 {object} handlers.ErrorResponse "Store failure"
// @Router      /calc/history/{id} [get]
func (h *Handlers) GetHistoryRecord(c *gin.Context) {
	id, valid := recordID(c)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "record id must be a positive integer")
		return
	}

	rec, err := h.histSvc.Get(c.Request.Context(), c.Query("username"), id)
	if err != nil {
		historyFail(c, err)
		return
	}
	ok(c, http.StatusOK, toSummary(rec))
}

// UpdateHistoryRecord godoc
// @ID          updateHistoryRecord
// @Summary     Update a history record
// @Description Partially updates the stored inputs and/or result payloads; 404 when the record is absent or owned by someone else.
// @Tags        History
// @Accept      json
// @Produce     json
// @Param       id   path int                              true "Record ID"
// @Param       body body handlers.HistoryUpdateRequest true "Fields to update"
// @Success     200 {object} handlers.RecordSummary
// @Failure     400 {object} handlers.ErrorResponse "Bad request"
// @Failure     404 {object} handlers.ErrorResponse "Record not found"
// @Failure     500 {object} handlers.ErrorResponse "Store failure"
// @Router      /calc/history/{id} [patch]
func (h *Handlers) UpdateHistoryRecord(c *gin.Context) {
	id, valid := recordID(c)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "record id must be a positive integer")
		return
	}

	var req HistoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	rec, err := h.histSvc.Update(c.Request.Context(), req.Username, id, req.Inputs, req.Result)
	if err != nil {
		historyFail(c, err)
		return
	}
	ok(c, http.StatusOK, toSummary(rec))
}

// DeleteHistoryRecord godoc
// @ID          deleteHistoryRecord
// @Summary     Delete a history record
// @Description Deletes a record owned by the username; 404 when absent or owned by someone else.
// @Tags        History
// @Produce     json
// @Param       id       path  int    true "Record ID"
// @Param       username query string true "Owner username"
// @Success     200 {object} handlers.DeleteResponse
// @Failure     400 {object} handlers.ErrorResponse "Bad request"
// @Failure     404 {object} handlers.ErrorResponse "Record not found"
// @Failure     500 {object} handlers.ErrorResponse "Store failure"
// @Router      /calc/history/{id} [delete]
func (h *Handlers) DeleteHistoryRecord(c *gin.Context) {
	id, valid := recordID(c)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "record id must be a positive integer")
		return
	}

	if err := h.histSvc.Delete(c.Request.Context(), c.Query("username"), id); err != nil {
		historyFail(c, err)
		return
	}
	ok(c, http.StatusOK, DeleteResponse{Detail: "record deleted"})
}
