package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"github.com/forummlcb/topdup/internal/model"
)

// fakeVoteStore replays the ledger semantics in memory: one vote per
// (report, user), a repeat with the same option is a no-op, a different
// option moves one count between tallies.
type fakeVoteStore struct {
	reports map[int64]*model.SimilarityReport
	votes   map[int64]map[int64]model.Vote
	err     error
}

func newFakeVoteStore(reports ...*model.SimilarityReport) *fakeVoteStore {
	f := &fakeVoteStore{
		reports: make(map[int64]*model.SimilarityReport),
		votes:   make(map[int64]map[int64]model.Vote),
	}
	for _, r := range reports {
		f.reports[r.ID] = r
		f.votes[r.ID] = make(map[int64]model.Vote)
	}
	return f
}

func bump(r *model.SimilarityReport, option, delta int) {
	switch option {
	case model.VoteArticleA:
		r.ArticleAVotes += delta
	case model.VoteArticleB:
		r.ArticleBVotes += delta
	case model.VoteError:
		r.ErrorVotes += delta
	case model.VoteIrrelevant:
		r.IrrelevantVotes += delta
	}
}

func (f *fakeVoteStore) CastVote(reportID, userID int64, option int) (*model.SimilarityReport, error) {
	if f.err != nil {
		return nil, f.err
	}

	report, ok := f.reports[reportID]
	if !ok {
		return nil, model.NewError(model.KindNotFound, "report %d not found", reportID)
	}

	prior, voted := f.votes[reportID][userID]
	switch {
	case !voted:
		f.votes[reportID][userID] = model.Vote{ReportID: reportID, UserID: userID, Option: option, CreatedAt: time.Now()}
		bump(report, option, 1)
	case prior.Option == option:
		// no-op
	default:
		bump(report, prior.Option, -1)
		bump(report, option, 1)
		prior.Option = option
		prior.UpdatedAt = time.Now()
		f.votes[reportID][userID] = prior
	}

	return report, nil
}

func newTestVoteRouter(store VoteStore, userID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if userID != 0 {
		r.Use(func(c *gin.Context) {
			c.Set(userIDKey, userID)
		})
	}
	h := NewVoteHandler(store)
	r.POST("/reports/:id/votes", h.CastVote)
	return r
}

func castVote(t *testing.T, r *gin.Engine, reportID string, option int) (*httptest.ResponseRecorder, TallyResponse) {
	t.Helper()
	body, _ := json.Marshal(CastVoteRequest{Option: option})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reports/"+reportID+"/votes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var res TallyResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	return w, res
}

func TestCastVote_TwoUsersThenRevote(t *testing.T) {
	store := newFakeVoteStore(&model.SimilarityReport{ID: 1, SimScore: 0.9})

	// User 1 supports article A, user 2 supports article B.
	w, res := castVote(t, newTestVoteRouter(store, 100), "1", model.VoteArticleA)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, res.ArticleAVotes)

	w, res = castVote(t, newTestVoteRouter(store, 200), "1", model.VoteArticleB)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, res.ArticleAVotes)
	assert.Equal(t, 1, res.ArticleBVotes)
	assert.Equal(t, 0, res.ErrorVotes)
	assert.Equal(t, 0, res.IrrelevantVotes)

	// User 1 changes their mind: the A count moves to the error count.
	w, res = castVote(t, newTestVoteRouter(store, 100), "1", model.VoteError)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, res.ArticleAVotes)
	assert.Equal(t, 1, res.ArticleBVotes)
	assert.Equal(t, 1, res.ErrorVotes)
	assert.Equal(t, model.VoteError, res.VotedOption)

	// Tallies always sum to the number of distinct voters.
	report := store.reports[1]
	total := report.ArticleAVotes + report.ArticleBVotes + report.ErrorVotes + report.IrrelevantVotes
	assert.Equal(t, len(store.votes[1]), total)
}

func TestCastVote_SameOptionIsNoOp(t *testing.T) {
	store := newFakeVoteStore(&model.SimilarityReport{ID: 1})
	r := newTestVoteRouter(store, 100)

	_, first := castVote(t, r, "1", model.VoteIrrelevant)
	_, second := castVote(t, r, "1", model.VoteIrrelevant)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, second.IrrelevantVotes)
}

func TestCastVote_Unauthenticated(t *testing.T) {
	store := newFakeVoteStore(&model.SimilarityReport{ID: 1})
	r := newTestVoteRouter(store, 0)

	w, _ := castVote(t, r, "1", model.VoteArticleA)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var res map[string]string
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "unauthenticated", res["kind"])
}

func TestCastVote_ReportNotFound(t *testing.T) {
	store := newFakeVoteStore()
	r := newTestVoteRouter(store, 100)

	w, _ := castVote(t, r, "999", model.VoteArticleA)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCastVote_InvalidOption(t *testing.T) {
	store := newFakeVoteStore(&model.SimilarityReport{ID: 1})
	r := newTestVoteRouter(store, 100)

	w, _ := castVote(t, r, "1", 9)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCastVote_InvalidReportID(t *testing.T) {
	store := newFakeVoteStore()
	r := newTestVoteRouter(store, 100)

	w, _ := castVote(t, r, "abc", model.VoteArticleA)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCastVote_DBError(t *testing.T) {
	store := newFakeVoteStore(&model.SimilarityReport{ID: 1})
	store.err = errors.New("DB down")
	r := newTestVoteRouter(store, 100)

	w, _ := castVote(t, r, "1", model.VoteArticleA)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
