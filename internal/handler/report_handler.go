package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/forummlcb/topdup/db"
	"github.com/forummlcb/topdup/internal/model"
)

type ReportStore interface {
	List(f model.ReportFilter, userID int64, limit, offset int) ([]model.ReportRow, error)
	Count(f model.ReportFilter) (int, error)
	GetByID(id, userID int64) (*model.ReportRow, error)
	Create(articleAID, articleBID int64, score float64) (*model.SimilarityReport, error)
	GetArticleByID(id int64) (*model.Article, error)
}

type ReportNotifier interface {
	ReportCreated(report *model.SimilarityReport)
}

type QueueStats interface {
	Length(ctx context.Context, queueKey string) (int64, error)
}

type ReportHandler struct {
	repository ReportStore
	notifier   ReportNotifier
	queue      QueueStats
	minScore   float64
}

func NewReportHandler(repository ReportStore, notifier ReportNotifier, queue QueueStats, minScore float64) *ReportHandler {
	return &ReportHandler{
		repository: repository,
		notifier:   notifier,
		queue:      queue,
		minScore:   minScore,
	}
}

func toArticleResponse(a model.Article) ArticleResponse {
	return ArticleResponse{
		ID:          a.ID,
		Title:       a.Title,
		Domain:      a.Domain,
		Author:      a.Author,
		URL:         a.URL,
		PublishedAt: a.PublishedAt.Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}
}

func toReportResponse(row model.ReportRow) ReportResponse {
	return ReportResponse{
		ID:              row.ID,
		SimScore:        row.SimScore,
		ArticleA:        toArticleResponse(row.ArticleA),
		ArticleB:        toArticleResponse(row.ArticleB),
		ArticleAVotes:   row.ArticleAVotes,
		ArticleBVotes:   row.ArticleBVotes,
		ErrorVotes:      row.ErrorVotes,
		IrrelevantVotes: row.IrrelevantVotes,
		VotedOption:     row.VotedOption,
		CreatedAt:       row.CreatedAt.Format(time.RFC3339),
	}
}

const (
	defaultPageSize = 8
	maxPageSize     = 100
)

// pageParam reads a 1-based pagination parameter. Absent means the default;
// anything that is not a positive integer is an invalid_page error.
func pageParam(c *gin.Context, name string, defaultValue int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, model.NewError(model.KindInvalidPage, "%s must be a positive integer, got %q", name, raw)
	}
	return value, nil
}

func dateParam(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListReports serves the filtered, score-descending report listing.
func (h *ReportHandler) ListReports(c *gin.Context) {
	page, err := pageParam(c, "page", 1)
	if err != nil {
		respondError(c, err)
		return
	}

	pageSize, err := pageParam(c, "page_size", defaultPageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	if pageSize > maxPageSize {
		slog.Warn("page_size exceeds max, clamping", "value", pageSize, "max", maxPageSize)
		pageSize = maxPageSize
	}

	filter := model.ReportFilter{
		Title:  c.Query("title"),
		Domain: c.Query("domain"),
	}

	filter.DateFrom, err = dateParam(c, "date_from")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date_from"})
		return
	}
	filter.DateTo, err = dateParam(c, "date_to")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date_to"})
		return
	}

	userID := currentUserID(c)
	offset := pageSize * (page - 1)

	reports, err := h.repository.List(filter, userID, pageSize, offset)
	if err != nil {
		slog.Error("error listing reports", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.repository.Count(filter)
	if err != nil {
		slog.Error("error counting reports", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := ReportPageResponse{
		Reports:  make([]ReportResponse, 0, len(reports)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for _, row := range reports {
		res.Reports = append(res.Reports, toReportResponse(row))
	}

	c.JSON(http.StatusOK, res)
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report id"})
		return
	}

	row, err := h.repository.GetByID(id, currentUserID(c))
	if err != nil {
		slog.Error("error fetching report", "error", err, "report_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if row == nil {
		respondError(c, model.NewError(model.KindNotFound, "report %d not found", id))
		return
	}

	c.JSON(http.StatusOK, toReportResponse(*row))
}

// CreateReport is the ingest boundary for the similarity pipeline.
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.ArticleAID == 0 || req.ArticleBID == 0 || req.ArticleAID == req.ArticleBID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Two distinct article ids are required"})
		return
	}

	if req.Score < h.minScore || req.Score > 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Score out of range",
			"min":   h.minScore,
		})
		return
	}

	report, err := h.repository.Create(req.ArticleAID, req.ArticleBID, req.Score)
	if err != nil {
		if model.ErrKind(err) == "" {
			slog.Error("error creating report", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		respondError(c, err)
		return
	}

	if h.notifier != nil {
		h.notifier.ReportCreated(report)
	}

	c.JSON(http.StatusCreated, TallyResponse{
		ID:       report.ID,
		SimScore: report.SimScore,
	})
}

func (h *ReportHandler) GetArticle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article id"})
		return
	}

	article, err := h.repository.GetArticleByID(id)
	if err != nil {
		slog.Error("error fetching article", "error", err, "article_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if article == nil {
		respondError(c, model.NewError(model.KindNotFound, "article %d not found", id))
		return
	}

	c.JSON(http.StatusOK, toArticleResponse(*article))
}

func (h *ReportHandler) GetHealth(c *gin.Context) {
	if _, err := h.repository.Count(model.ReportFilter{}); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	res := gin.H{
		"status":   "healthy",
		"database": "connected",
	}
	if h.queue != nil {
		if depth, err := h.queue.Length(c.Request.Context(), db.NotifyQueueKey); err == nil {
			res["notify_queue_depth"] = depth
		}
	}

	c.JSON(http.StatusOK, res)
}
