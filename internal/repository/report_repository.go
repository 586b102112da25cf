package repository

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/forummlcb/topdup/internal/model"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

var reportColumns = []string{
	"r.id", "r.article_a_id", "r.article_b_id", "r.sim_score",
	"r.article_a_votes", "r.article_b_votes", "r.error_votes", "r.irrelevant_votes",
	"r.created_at",
	"a.id", "a.title", "a.domain", "a.author", "a.url", "a.published_at", "a.updated_at",
	"b.id", "b.title", "b.domain", "b.author", "b.url", "b.published_at", "b.updated_at",
	"COALESCE(v.voted_option, 0)",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReportRow(s rowScanner) (*model.ReportRow, error) {
	var row model.ReportRow
	err := s.Scan(
		&row.ID, &row.ArticleAID, &row.ArticleBID, &row.SimScore,
		&row.ArticleAVotes, &row.ArticleBVotes, &row.ErrorVotes, &row.IrrelevantVotes,
		&row.CreatedAt,
		&row.ArticleA.ID, &row.ArticleA.Title, &row.ArticleA.Domain, &row.ArticleA.Author,
		&row.ArticleA.URL, &row.ArticleA.PublishedAt, &row.ArticleA.UpdatedAt,
		&row.ArticleB.ID, &row.ArticleB.Title, &row.ArticleB.Domain, &row.ArticleB.Author,
		&row.ArticleB.URL, &row.ArticleB.PublishedAt, &row.ArticleB.UpdatedAt,
		&row.VotedOption,
	)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// baseSelect joins both articles and, for logged-in callers, the caller's
// own vote so the UI can highlight it.
func (r *ReportRepository) baseSelect(userID int64) sq.SelectBuilder {
	return psql.Select(reportColumns...).
		From("similarity_report r").
		Join("article a ON a.id = r.article_a_id").
		Join("article b ON b.id = r.article_b_id").
		LeftJoin("vote v ON v.report_id = r.id AND v.user_id = ?", userID)
}

// GetByID returns the report with both articles, or nil if it does not exist.
// userID 0 means an anonymous caller.
func (r *ReportRepository) GetByID(id int64, userID int64) (*model.ReportRow, error) {
	query, args, err := r.baseSelect(userID).Where(sq.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	row, err := scanReportRow(r.db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func applyFilter(b sq.SelectBuilder, f model.ReportFilter) sq.SelectBuilder {
	if f.Title != "" {
		pattern := "%" + f.Title + "%"
		b = b.Where(sq.Or{sq.ILike{"a.title": pattern}, sq.ILike{"b.title": pattern}})
	}
	if f.Domain != "" {
		pattern := "%" + f.Domain + "%"
		b = b.Where(sq.Or{sq.ILike{"a.domain": pattern}, sq.ILike{"b.domain": pattern}})
	}
	// The window is inclusive and matches when either article sits wholly
	// inside it, so both bounds have to be checked against the same side.
	switch {
	case f.DateFrom != nil && f.DateTo != nil:
		b = b.Where(sq.Or{
			sq.And{sq.GtOrEq{"a.updated_at": *f.DateFrom}, sq.LtOrEq{"a.updated_at": *f.DateTo}},
			sq.And{sq.GtOrEq{"b.updated_at": *f.DateFrom}, sq.LtOrEq{"b.updated_at": *f.DateTo}},
		})
	case f.DateFrom != nil:
		b = b.Where(sq.Or{sq.GtOrEq{"a.updated_at": *f.DateFrom}, sq.GtOrEq{"b.updated_at": *f.DateFrom}})
	case f.DateTo != nil:
		b = b.Where(sq.Or{sq.LtOrEq{"a.updated_at": *f.DateTo}, sq.LtOrEq{"b.updated_at": *f.DateTo}})
	}
	return b
}

// List returns one page of reports matching the filter, best score first.
func (r *ReportRepository) List(f model.ReportFilter, userID int64, limit, offset int) ([]model.ReportRow, error) {
	builder := applyFilter(r.baseSelect(userID), f).
		OrderBy("r.sim_score DESC", "r.id ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []model.ReportRow
	for rows.Next() {
		row, err := scanReportRow(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reports, nil
}

// Count returns the total number of reports matching the filter.
func (r *ReportRepository) Count(f model.ReportFilter) (int, error) {
	builder := applyFilter(psql.Select("COUNT(*)").
		From("similarity_report r").
		Join("article a ON a.id = r.article_a_id").
		Join("article b ON b.id = r.article_b_id"), f)

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var total int
	err = r.db.QueryRow(query, args...).Scan(&total)
	return total, err
}

// Create records a new report for an article pair. The pair is unordered:
// a second report linking the same two articles in either orientation is
// rejected with a duplicate_pair error.
func (r *ReportRepository) Create(articleAID, articleBID int64, score float64) (*model.SimilarityReport, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var articleCount int
	err = tx.QueryRow(`
		SELECT COUNT(*) FROM article WHERE id IN ($1, $2)
	`, articleAID, articleBID).Scan(&articleCount)
	if err != nil {
		return nil, err
	}
	if articleCount != 2 {
		return nil, model.NewError(model.KindNotFound, "article pair (%d, %d) not found", articleAID, articleBID)
	}

	var exists bool
	err = tx.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM similarity_report
			WHERE (article_a_id = $1 AND article_b_id = $2)
			   OR (article_a_id = $2 AND article_b_id = $1)
		)
	`, articleAID, articleBID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.NewError(model.KindDuplicatePair, "report for articles (%d, %d) already exists", articleAID, articleBID)
	}

	report := model.SimilarityReport{
		ArticleAID: articleAID,
		ArticleBID: articleBID,
		SimScore:   score,
	}
	err = tx.QueryRow(`
		INSERT INTO similarity_report(article_a_id, article_b_id, sim_score)
		VALUES($1, $2, $3)
		RETURNING id, created_at
	`, articleAID, articleBID, score).Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &report, tx.Commit()
}

// GetArticleByID returns the article, or nil if it does not exist.
func (r *ReportRepository) GetArticleByID(id int64) (*model.Article, error) {
	var a model.Article
	err := r.db.QueryRow(`
		SELECT id, title, domain, author, url, published_at, updated_at
		FROM article
		WHERE id = $1
	`, id).Scan(&a.ID, &a.Title, &a.Domain, &a.Author, &a.URL, &a.PublishedAt, &a.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &a, nil
}
