package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/msKim92/wiselife-project/internal/common"
	"github.com/msKim92/wiselife-project/internal/domain/model"
)

type ChallengeRepository interface {
	Create(ctx context.Context, tx *sql.Tx, challenge *model.Challenge) error
	Update(ctx context.Context, tx *sql.Tx, challenge *model.Challenge) error
	FindByID(ctx context.Context, id int64) (*model.Challenge, error)
	Delete(ctx context.Context, tx *sql.Tx, id int64) error
	IncrementViewCount(ctx context.Context, id int64) (int64, error)
	ListByCategory(ctx context.Context, category model.ChallengeCategory, limit, offset int, sort model.ChallengeSort) ([]model.Challenge, int64, error)
	SearchByTitle(ctx context.Context, term string, limit, offset int, sort model.ChallengeSort) ([]model.Challenge, int64, error)
	ListTitles(ctx context.Context) ([]model.ChallengeTitle, error)

	AddExampleImages(ctx context.Context, tx *sql.Tx, challengeID int64, paths []string) error
	GetExampleImages(ctx context.Context, challengeID int64) ([]string, error)
	DeleteExampleImages(ctx context.Context, tx *sql.Tx, challengeID int64) error
}

type pgChallengeRepository struct {
	db *sql.DB
}

func NewPgChallengeRepository(db *sql.DB) ChallengeRepository {
	return &pgChallengeRepository{db: db}
}

func (r *pgChallengeRepository) Create(ctx context.Context, tx *sql.Tx, c *model.Challenge) error {
	query := `INSERT INTO challenges (title, slug, category, description, start_date, end_date, rep_image_path, author_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id, created_at, updated_at`

	var row *sql.Row
	if tx != nil {
		row = tx.QueryRowContext(ctx, query, c.Title, c.Slug, c.Category, c.Description, c.StartDate, c.EndDate, c.RepImagePath, c.AuthorID)
	} else {
		row = r.db.QueryRowContext(ctx, query, c.Title, c.Slug, c.Category, c.Description, c.StartDate, c.EndDate, c.RepImagePath, c.AuthorID)
	}
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("pgChallengeRepository.Create: %w", err)
	}
	return nil
}

func (r *pgChallengeRepository) Update(ctx context.Context, tx *sql.Tx, c *model.Challenge) error {
	query := `UPDATE challenges SET
	            title = $1, slug = $2, category = $3, description = $4,
	            start_date = $5, end_date = $6, rep_image_path = $7,
	            updated_at = CURRENT_TIMESTAMP
	          WHERE id = $8`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, c.Title, c.Slug, c.Category, c.Description, c.StartDate, c.EndDate, c.RepImagePath, c.ID)
	} else {
		_, err = r.db.ExecContext(ctx, query, c.Title, c.Slug, c.Category, c.Description, c.StartDate, c.EndDate, c.RepImagePath, c.ID)
	}
	if err != nil {
		return fmt.Errorf("pgChallengeRepository.Update: %w", err)
	}
	return nil
}

func (r *pgChallengeRepository) FindByID(ctx context.Context, id int64) (*model.Challenge, error) {
	query := `
        SELECT c.id, c.title, c.slug, c.category, c.description,
               c.start_date, c.end_date, c.rep_image_path, c.view_count,
               c.author_id, m.name AS author_name,
               c.created_at, c.updated_at
        FROM challenges c
        LEFT JOIN members m ON c.author_id = m.id
        WHERE c.id = $1`

	challenge := &model.Challenge{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&challenge.ID, &challenge.Title, &challenge.Slug, &challenge.Category, &challenge.Description,
		&challenge.StartDate, &challenge.EndDate, &challenge.RepImagePath, &challenge.ViewCount,
		&challenge.AuthorID, &challenge.AuthorName,
		&challenge.CreatedAt, &challenge.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgChallengeRepository.FindByID: %w", err)
	}

	examples, err := r.GetExampleImages(ctx, challenge.ID)
	if err != nil {
		return nil, err
	}
	challenge.ExampleImagePaths = examples
	return challenge, nil
}

func (r *pgChallengeRepository) Delete(ctx context.Context, tx *sql.Tx, id int64) error {
	// member_challenges and challenge_example_images cascade via FK.
	query := `DELETE FROM challenges WHERE id = $1`

	var res sql.Result
	var err error
	if tx != nil {
		res, err = tx.ExecContext(ctx, query, id)
	} else {
		res, err = r.db.ExecContext(ctx, query, id)
	}
	if err != nil {
		return fmt.Errorf("pgChallengeRepository.Delete: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// IncrementViewCount bumps the counter with a single atomic UPDATE. The
// count is a best-effort popularity signal, not an audit log.
func (r *pgChallengeRepository) IncrementViewCount(ctx context.Context, id int64) (int64, error) {
	query := `UPDATE challenges SET view_count = view_count + 1 WHERE id = $1 RETURNING view_count`

	var count int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrNotFound
		}
		return 0, fmt.Errorf("pgChallengeRepository.IncrementViewCount: %w", err)
	}
	return count, nil
}

func orderClause(sort model.ChallengeSort) string {
	if sort == model.SortNewest {
		return " ORDER BY c.created_at DESC, c.id DESC"
	}
	return " ORDER BY c.view_count DESC, c.id DESC"
}

func (r *pgChallengeRepository) ListByCategory(ctx context.Context, category model.ChallengeCategory, limit, offset int, sort model.ChallengeSort) ([]model.Challenge, int64, error) {
	var total int64
	countQuery := `SELECT COUNT(*) FROM challenges c WHERE c.category = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, category).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgChallengeRepository.ListByCategory count: %w", err)
	}

	query := `
        SELECT c.id, c.title, c.slug, c.category, c.description,
               c.start_date, c.end_date, c.rep_image_path, c.view_count,
               c.author_id, m.name AS author_name,
               c.created_at, c.updated_at
        FROM challenges c
        LEFT JOIN members m ON c.author_id = m.id
        WHERE c.category = $1` + orderClause(sort) + ` LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, category, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgChallengeRepository.ListByCategory query: %w", err)
	}
	defer rows.Close()

	challenges, err := scanChallenges(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("pgChallengeRepository.ListByCategory: %w", err)
	}
	return challenges, total, nil
}

func (r *pgChallengeRepository) SearchByTitle(ctx context.Context, term string, limit, offset int, sort model.ChallengeSort) ([]model.Challenge, int64, error) {
	likeTerm := "%" + term + "%"

	var total int64
	countQuery := `SELECT COUNT(*) FROM challenges c WHERE c.title ILIKE $1`
	if err := r.db.QueryRowContext(ctx, countQuery, likeTerm).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgChallengeRepository.SearchByTitle count: %w", err)
	}

	query := `
        SELECT c.id, c.title, c.slug, c.category, c.description,
               c.start_date, c.end_date, c.rep_image_path, c.view_count,
               c.author_id, m.name AS author_name,
               c.created_at, c.updated_at
        FROM challenges c
        LEFT JOIN members m ON c.author_id = m.id
        WHERE c.title ILIKE $1` + orderClause(sort) + ` LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, likeTerm, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgChallengeRepository.SearchByTitle query: %w", err)
	}
	defer rows.Close()

	challenges, err := scanChallenges(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("pgChallengeRepository.SearchByTitle: %w", err)
	}
	return challenges, total, nil
}

func scanChallenges(rows *sql.Rows) ([]model.Challenge, error) {
	challenges := []model.Challenge{}
	for rows.Next() {
		var c model.Challenge
		if err := rows.Scan(
			&c.ID, &c.Title, &c.Slug, &c.Category, &c.Description,
			&c.StartDate, &c.EndDate, &c.RepImagePath, &c.ViewCount,
			&c.AuthorID, &c.AuthorName,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		challenges = append(challenges, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}
	return challenges, nil
}

// ListTitles backs the autocomplete endpoint; deliberately unpaginated.
func (r *pgChallengeRepository) ListTitles(ctx context.Context) ([]model.ChallengeTitle, error) {
	query := `SELECT id, title FROM challenges ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.ListTitles query: %w", err)
	}
	defer rows.Close()

	titles := []model.ChallengeTitle{}
	for rows.Next() {
		var t model.ChallengeTitle
		if err := rows.Scan(&t.ID, &t.Title); err != nil {
			return nil, fmt.Errorf("pgChallengeRepository.ListTitles scan: %w", err)
		}
		titles = append(titles, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.ListTitles rows.Err: %w", err)
	}
	return titles, nil
}

func (r *pgChallengeRepository) AddExampleImages(ctx context.Context, tx *sql.Tx, challengeID int64, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO challenge_example_images (challenge_id, image_path, sort_order) VALUES ($1, $2, $3)`)
	if err != nil {
		return fmt.Errorf("pgChallengeRepository.AddExampleImages prepare: %w", err)
	}
	defer stmt.Close()

	for i, path := range paths {
		if _, err := stmt.ExecContext(ctx, challengeID, path, i+1); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" { // FK violation, challenge gone
				return common.ErrNotFound
			}
			return fmt.Errorf("pgChallengeRepository.AddExampleImages exec: %w", err)
		}
	}
	return nil
}

func (r *pgChallengeRepository) GetExampleImages(ctx context.Context, challengeID int64) ([]string, error) {
	query := `SELECT image_path FROM challenge_example_images WHERE challenge_id = $1 ORDER BY sort_order ASC`
	rows, err := r.db.QueryContext(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.GetExampleImages query: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("pgChallengeRepository.GetExampleImages scan: %w", err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.GetExampleImages rows.Err: %w", err)
	}
	return paths, nil
}

func (r *pgChallengeRepository) DeleteExampleImages(ctx context.Context, tx *sql.Tx, challengeID int64) error {
	query := `DELETE FROM challenge_example_images WHERE challenge_id = $1`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, challengeID)
	} else {
		_, err = r.db.ExecContext(ctx, query, challengeID)
	}
	if err != nil {
		return fmt.Errorf("pgChallengeRepository.DeleteExampleImages: %w", err)
	}
	return nil
}
