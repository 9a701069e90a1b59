// Conversation history HTTP handlers.
//
// This file exposes the REST endpoint for a client's conversation log:
//   - GET /clients/{id}/history  (list, paginated, ETag support)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mvbarros/go-order-backend/internal/domain"
	"github.com/mvbarros/go-order-backend/internal/repo"
	"github.com/mvbarros/go-order-backend/internal/services"
	"github.com/mvbarros/go-order-backend/internal/utils"
)

//
// DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// HistoryResponse wraps a page of conversations and pagination information.
type HistoryResponse struct {
	Conversations []domain.Conversation `json:"conversations"`
	Pagination    Pagination            `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

//
// Handlers
//

// GetHistory godoc
// @ID          getHistory
// @Summary     List a client's conversation history
// @Description Returns a paginated list of message/reply pairs for the given client,
// @Description oldest first. Supports conditional requests via ETag / If-None-Match.
// @Tags        History
// @Produce     json
//
// @Param       id         path   string  true  "Client ID (UUID)"  format(uuid)
// @Param       page       query  int     false "Page number"       minimum(1) default(1)
// @Param       page_size  query  int     false "Items per page"    minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.DataResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Client not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /clients/{id}/history [get]
func (h *Handlers) GetHistory(c *gin.Context) {
	ctx := c.Request.Context()
	clientID := c.Param("id")

	if _, err := uuid.Parse(clientID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "client id must be a UUID")
		return
	}

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, okSvc := h.historySvc.(*services.ChatService); okSvc {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.ConversationsStats(ctx, db, clientID)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"history:%s:%d:%d"`, clientID, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	page, pageSize := clampPagination(c)

	items, total, err := h.historySvc.HistoryPage(ctx, clientID, page, pageSize)
	if err != nil {
		switch err {
		case services.ErrClientNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "client not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, HistoryResponse{
		Conversations: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}
