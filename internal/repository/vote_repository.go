package repository

import (
	"database/sql"
	"fmt"

	"github.com/forummlcb/topdup/internal/model"
)

type VoteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// tallyColumns maps a vote option to the counter it drives. Counters on the
// report row are a cached projection of the vote table and only ever change
// here, inside the same transaction as the ledger write.
var tallyColumns = map[int]string{
	model.VoteArticleA:   "article_a_votes",
	model.VoteArticleB:   "article_b_votes",
	model.VoteError:      "error_votes",
	model.VoteIrrelevant: "irrelevant_votes",
}

// CastVote applies one user's vote on a report and returns the updated
// report. A repeat vote with the same option is a no-op; a different option
// replaces the previous one, moving exactly one count between the two
// tallies. The report row is locked for the duration, so concurrent voters
// on the same report serialize and no half-applied transition is readable.
func (r *VoteRepository) CastVote(reportID, userID int64, option int) (*model.SimilarityReport, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	report := model.SimilarityReport{ID: reportID}
	err = tx.QueryRow(`
		SELECT article_a_id, article_b_id, sim_score,
			article_a_votes, article_b_votes, error_votes, irrelevant_votes,
			created_at
		FROM similarity_report
		WHERE id = $1
		FOR UPDATE
	`, reportID).Scan(
		&report.ArticleAID, &report.ArticleBID, &report.SimScore,
		&report.ArticleAVotes, &report.ArticleBVotes, &report.ErrorVotes, &report.IrrelevantVotes,
		&report.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, model.NewError(model.KindNotFound, "report %d not found", reportID)
	}
	if err != nil {
		return nil, err
	}

	var prior int
	err = tx.QueryRow(`
		SELECT voted_option FROM vote
		WHERE report_id = $1 AND user_id = $2
	`, reportID, userID).Scan(&prior)

	switch {
	case err == sql.ErrNoRows:
		_, err = tx.Exec(`
			INSERT INTO vote(report_id, user_id, voted_option)
			VALUES($1, $2, $3)
		`, reportID, userID, option)
		if err != nil {
			return nil, err
		}

		err = applyTally(tx, &report, fmt.Sprintf(`
			UPDATE similarity_report
			SET %s = %s + 1
			WHERE id = $1
		`, tallyColumns[option], tallyColumns[option]))
		if err != nil {
			return nil, err
		}

	case err != nil:
		return nil, err

	case prior == option:
		// Idempotent re-vote, nothing to move.
		return &report, tx.Commit()

	default:
		_, err = tx.Exec(`
			UPDATE vote SET voted_option = $3, updated_at = NOW()
			WHERE report_id = $1 AND user_id = $2
		`, reportID, userID, option)
		if err != nil {
			return nil, err
		}

		// Decrement and increment are one statement: either both counters
		// move or neither does.
		err = applyTally(tx, &report, fmt.Sprintf(`
			UPDATE similarity_report
			SET %s = %s - 1, %s = %s + 1
			WHERE id = $1
		`, tallyColumns[prior], tallyColumns[prior], tallyColumns[option], tallyColumns[option]))
		if err != nil {
			return nil, err
		}
	}

	return &report, tx.Commit()
}

func applyTally(tx *sql.Tx, report *model.SimilarityReport, query string) error {
	return tx.QueryRow(query+`
		RETURNING article_a_votes, article_b_votes, error_votes, irrelevant_votes
	`, report.ID).Scan(
		&report.ArticleAVotes, &report.ArticleBVotes, &report.ErrorVotes, &report.IrrelevantVotes,
	)
}
