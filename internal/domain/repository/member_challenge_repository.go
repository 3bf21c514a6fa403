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

// MemberChallengeRepository is the participation ledger. The database
// holds a unique constraint on (member_id, challenge_id); Create surfaces
// a violation as common.ErrConflict so concurrent joins lose cleanly.
type MemberChallengeRepository interface {
	Create(ctx context.Context, mc *model.MemberChallenge) error
	FindByMemberAndChallenge(ctx context.Context, memberID, challengeID int64) (*model.MemberChallenge, error)
	UpdateCertification(ctx context.Context, mc *model.MemberChallenge) error
	CountByChallenge(ctx context.Context, challengeID int64) (int64, error)
	ListCertImagePaths(ctx context.Context, challengeID int64) ([]string, error)
}

type pgMemberChallengeRepository struct {
	db *sql.DB
}

func NewPgMemberChallengeRepository(db *sql.DB) MemberChallengeRepository {
	return &pgMemberChallengeRepository{db: db}
}

func (r *pgMemberChallengeRepository) Create(ctx context.Context, mc *model.MemberChallenge) error {
	query := `INSERT INTO member_challenges (member_id, challenge_id, joined_at)
	          VALUES ($1, $2, $3)
	          RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, mc.MemberID, mc.ChallengeID, mc.JoinedAt).
		Scan(&mc.ID, &mc.CreatedAt, &mc.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique (member_id, challenge_id)
			return fmt.Errorf("member already participates in this challenge: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgMemberChallengeRepository.Create: %w", err)
	}
	return nil
}

func (r *pgMemberChallengeRepository) FindByMemberAndChallenge(ctx context.Context, memberID, challengeID int64) (*model.MemberChallenge, error) {
	query := `SELECT id, member_id, challenge_id, joined_at, cert_image_path, cert_count, last_certified_at, created_at, updated_at
	          FROM member_challenges WHERE member_id = $1 AND challenge_id = $2`

	mc := &model.MemberChallenge{}
	err := r.db.QueryRowContext(ctx, query, memberID, challengeID).Scan(
		&mc.ID, &mc.MemberID, &mc.ChallengeID, &mc.JoinedAt,
		&mc.CertImagePath, &mc.CertCount, &mc.LastCertifiedAt,
		&mc.CreatedAt, &mc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgMemberChallengeRepository.FindByMemberAndChallenge: %w", err)
	}
	return mc, nil
}

func (r *pgMemberChallengeRepository) UpdateCertification(ctx context.Context, mc *model.MemberChallenge) error {
	query := `UPDATE member_challenges SET
	            cert_image_path = $1, cert_count = $2, last_certified_at = $3,
	            updated_at = CURRENT_TIMESTAMP
	          WHERE id = $4`

	res, err := r.db.ExecContext(ctx, query, mc.CertImagePath, mc.CertCount, mc.LastCertifiedAt, mc.ID)
	if err != nil {
		return fmt.Errorf("pgMemberChallengeRepository.UpdateCertification: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgMemberChallengeRepository) CountByChallenge(ctx context.Context, challengeID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM member_challenges WHERE challenge_id = $1`, challengeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgMemberChallengeRepository.CountByChallenge: %w", err)
	}
	return count, nil
}

// ListCertImagePaths collects participants' certification image refs so a
// challenge deletion can hand them to the cleanup worker.
func (r *pgMemberChallengeRepository) ListCertImagePaths(ctx context.Context, challengeID int64) ([]string, error) {
	query := `SELECT cert_image_path FROM member_challenges
	          WHERE challenge_id = $1 AND cert_image_path IS NOT NULL`
	rows, err := r.db.QueryContext(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("pgMemberChallengeRepository.ListCertImagePaths query: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("pgMemberChallengeRepository.ListCertImagePaths scan: %w", err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgMemberChallengeRepository.ListCertImagePaths rows.Err: %w", err)
	}
	return paths, nil
}
