package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forummlcb/topdup/internal/model"
	"github.com/forummlcb/topdup/internal/pairing"
	"github.com/forummlcb/topdup/pkg/similarity"
)

type Scorer interface {
	Compare(ctx context.Context, sourceContent, targetContent string) (*similarity.Result, error)
}

type CompareHandler struct {
	scorer Scorer
}

func NewCompareHandler(scorer Scorer) *CompareHandler {
	return &CompareHandler{scorer: scorer}
}

// Compare scores two contents against each other and returns the paired
// segments ordered for display.
func (h *CompareHandler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.SourceContent == "" || req.TargetContent == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both source_content and target_content are required"})
		return
	}

	if req.Threshold < 0 || req.Threshold > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Threshold must be within [0, 1]"})
		return
	}

	sortKey := pairing.SortKey(req.SortKey)
	if req.SortKey == "" {
		sortKey = pairing.SortSourceOrder
	}
	if !pairing.ValidSortKey(sortKey) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort_key"})
		return
	}

	result, err := h.scorer.Compare(c.Request.Context(), req.SourceContent, req.TargetContent)
	if err != nil {
		slog.Error("error from similarity service", "error", err)
		if model.ErrKind(err) == "" {
			err = model.NewError(model.KindUpstreamUnavailable, "similarity service: %v", err)
		}
		respondError(c, err)
		return
	}

	paired := pairing.Order(result.SegmentsA, result.SegmentsB, result.Pairs, req.Threshold, sortKey)

	res := CompareResponse{
		Pairs:     make([]PairedSegmentResponse, 0, len(paired)),
		Total:     len(paired),
		Threshold: req.Threshold,
		SortKey:   string(sortKey),
	}
	for _, p := range paired {
		res.Pairs = append(res.Pairs, PairedSegmentResponse{
			SourceIndex: p.SourceIndex,
			TargetIndex: p.TargetIndex,
			Score:       p.Score,
			Source:      SegmentWindowResponse(p.Source),
			Target:      SegmentWindowResponse(p.Target),
		})
	}

	c.JSON(http.StatusOK, res)
}
