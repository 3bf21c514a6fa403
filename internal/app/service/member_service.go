package service

import (
	"context"
	"errors"

	"github.com/msKim92/wiselife-project/internal/common"
	"github.com/msKim92/wiselife-project/internal/domain/model"
	"github.com/msKim92/wiselife-project/internal/domain/repository"
)

// MemberService is the adapter to the member directory. It turns a member
// id taken from a verified credential into a Member record.
type MemberService struct {
	memberRepo repository.MemberRepository
}

func NewMemberService(memberRepo repository.MemberRepository) *MemberService {
	return &MemberService{memberRepo: memberRepo}
}

// ResolveMember loads the member behind a verified credential. A valid
// token naming a member the directory does not know is an upstream
// problem, not a caller mistake.
func (s *MemberService) ResolveMember(ctx context.Context, memberID int64) (*model.Member, error) {
	member, err := s.memberRepo.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("credential references unknown member %d: %w", memberID, common.ErrUpstreamIdentity)
		}
		return nil, common.Errorf("member directory lookup failed: %w", common.ErrUpstreamIdentity)
	}
	return member, nil
}
