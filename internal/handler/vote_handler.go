package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/forummlcb/topdup/internal/model"
)

type VoteStore interface {
	CastVote(reportID, userID int64, option int) (*model.SimilarityReport, error)
}

type VoteHandler struct {
	repository VoteStore
}

func NewVoteHandler(repository VoteStore) *VoteHandler {
	return &VoteHandler{repository: repository}
}

// CastVote records the caller's vote on a report. One vote per user per
// report; a new option replaces the previous one.
func (h *VoteHandler) CastVote(c *gin.Context) {
	userID := currentUserID(c)
	if userID == 0 {
		respondError(c, model.NewError(model.KindUnauthenticated, "voting requires a logged-in user"))
		return
	}

	reportID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report id"})
		return
	}

	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if !model.ValidVoteOption(req.Option) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vote option"})
		return
	}

	report, err := h.repository.CastVote(reportID, userID, req.Option)
	if err != nil {
		if model.ErrKind(err) == "" {
			slog.Error("error casting vote", "error", err, "report_id", reportID, "user_id", userID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, TallyResponse{
		ID:              report.ID,
		SimScore:        report.SimScore,
		ArticleAVotes:   report.ArticleAVotes,
		ArticleBVotes:   report.ArticleBVotes,
		ErrorVotes:      report.ErrorVotes,
		IrrelevantVotes: report.IrrelevantVotes,
		VotedOption:     req.Option,
	})
}
