package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/msKim92/wiselife-project/internal/common"
	"github.com/msKim92/wiselife-project/internal/domain/model"
)

// MemberRepository reads member rows owned by the member directory
// service. Account management lives there, not here.
type MemberRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Member, error)
}

type pgMemberRepository struct {
	db *sql.DB
}

func NewPgMemberRepository(db *sql.DB) MemberRepository {
	return &pgMemberRepository{db: db}
}

func (r *pgMemberRepository) FindByID(ctx context.Context, id int64) (*model.Member, error) {
	query := `SELECT id, email, name, created_at FROM members WHERE id = $1`

	member := &model.Member{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&member.ID, &member.Email, &member.Name, &member.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgMemberRepository.FindByID: %w", err)
	}
	return member, nil
}
