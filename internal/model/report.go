package model

import "time"

// Vote options keep the numeric encoding the frontend already speaks.
const (
	VoteArticleA   = 1
	VoteArticleB   = 2
	VoteError      = 3
	VoteIrrelevant = 4
)

// ValidVoteOption reports whether option is one of the four vote categories.
func ValidVoteOption(option int) bool {
	return option >= VoteArticleA && option <= VoteIrrelevant
}

type SimilarityReport struct {
	ID              int64
	ArticleAID      int64
	ArticleBID      int64
	SimScore        float64
	ArticleAVotes   int
	ArticleBVotes   int
	ErrorVotes      int
	IrrelevantVotes int
	CreatedAt       time.Time
}

// ReportRow is a report joined with both articles' metadata plus the
// requesting user's current vote, if any. VotedOption is 0 for anonymous
// requests and for users who have not voted.
type ReportRow struct {
	SimilarityReport
	ArticleA    Article
	ArticleB    Article
	VotedOption int
}

type Vote struct {
	ReportID  int64
	UserID    int64
	Option    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReportFilter narrows a report listing. Zero values match everything.
type ReportFilter struct {
	Title    string
	Domain   string
	DateFrom *time.Time
	DateTo   *time.Time
}
