package handler

type ArticleResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Domain      string `json:"domain"`
	Author      string `json:"author"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
	UpdatedAt   string `json:"updated_at"`
}

type ReportResponse struct {
	ID              int64           `json:"id"`
	SimScore        float64         `json:"sim_score"`
	ArticleA        ArticleResponse `json:"article_a"`
	ArticleB        ArticleResponse `json:"article_b"`
	ArticleAVotes   int             `json:"article_a_votes"`
	ArticleBVotes   int             `json:"article_b_votes"`
	ErrorVotes      int             `json:"error_votes"`
	IrrelevantVotes int             `json:"irrelevant_votes"`
	VotedOption     int             `json:"voted_option,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

type ReportPageResponse struct {
	Reports  []ReportResponse `json:"reports"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

type CreateReportRequest struct {
	ArticleAID int64   `json:"article_a_id"`
	ArticleBID int64   `json:"article_b_id"`
	Score      float64 `json:"score"`
}

type CastVoteRequest struct {
	Option int `json:"option"`
}

// TallyResponse is the vote endpoint's view of a report: counters only,
// without the joined article metadata.
type TallyResponse struct {
	ID              int64   `json:"id"`
	SimScore        float64 `json:"sim_score"`
	ArticleAVotes   int     `json:"article_a_votes"`
	ArticleBVotes   int     `json:"article_b_votes"`
	ErrorVotes      int     `json:"error_votes"`
	IrrelevantVotes int     `json:"irrelevant_votes"`
	VotedOption     int     `json:"voted_option"`
}

type CompareRequest struct {
	SourceContent string  `json:"source_content"`
	TargetContent string  `json:"target_content"`
	Threshold     float64 `json:"threshold"`
	SortKey       string  `json:"sort_key"`
}

type SegmentWindowResponse struct {
	Prev *string `json:"prev,omitempty"`
	Text string  `json:"text"`
	Next *string `json:"next,omitempty"`
}

type PairedSegmentResponse struct {
	SourceIndex int                   `json:"source_index"`
	TargetIndex int                   `json:"target_index"`
	Score       float64               `json:"score"`
	Source      SegmentWindowResponse `json:"source"`
	Target      SegmentWindowResponse `json:"target"`
}

type CompareResponse struct {
	Pairs     []PairedSegmentResponse `json:"pairs"`
	Total     int                     `json:"total"`
	Threshold float64                 `json:"threshold"`
	SortKey   string                  `json:"sort_key"`
}
