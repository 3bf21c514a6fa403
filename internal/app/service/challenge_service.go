package service

import (
	"context"
	"database/sql"
	"errors"
	"mime/multipart"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"

	"github.com/msKim92/wiselife-project/internal/common"
	"github.com/msKim92/wiselife-project/internal/domain/model"
	"github.com/msKim92/wiselife-project/internal/domain/repository"
)

// ImageCleanupQueue receives image refs that are no longer referenced by
// any record. The cleanup worker drains it.
type ImageCleanupQueue interface {
	Enqueue(ctx context.Context, refs ...string) error
}

// ChallengeService is the challenge lifecycle engine: creation, mutation,
// participation, certification, view counting, deletion and the listing
// queries. Ordering inside every mutation is validation, then external
// uploads, then persistence.
type ChallengeService struct {
	challengeRepo repository.ChallengeRepository
	ledgerRepo    repository.MemberChallengeRepository
	images        *ImageService
	cleanup       ImageCleanupQueue
	db            *sql.DB
	validate      *validator.Validate
	log           *logrus.Logger
}

func NewChallengeService(
	challengeRepo repository.ChallengeRepository,
	ledgerRepo repository.MemberChallengeRepository,
	images *ImageService,
	cleanup ImageCleanupQueue,
	db *sql.DB,
	log *logrus.Logger,
) *ChallengeService {
	return &ChallengeService{
		challengeRepo: challengeRepo,
		ledgerRepo:    ledgerRepo,
		images:        images,
		cleanup:       cleanup,
		db:            db,
		validate:      validator.New(),
		log:           log,
	}
}

type CreateChallengeRequest struct {
	Title       string    `json:"title" validate:"required"`
	Category    int       `json:"category" validate:"min=0,max=3"`
	Description string    `json:"description" validate:"required"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
}

// PatchChallengeRequest carries only the fields the caller wants changed.
// Nil fields are left untouched by the merge.
type PatchChallengeRequest struct {
	Title       *string    `json:"title,omitempty"`
	Category    *int       `json:"category,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// requireAuthor is the single owner check used by every author-only
// operation.
func requireAuthor(caller *model.Member, c *model.Challenge) error {
	if caller == nil || caller.ID != c.AuthorID {
		return common.Errorf("caller is not the author of challenge %d: %w", c.ID, common.ErrForbidden)
	}
	return nil
}

func (s *ChallengeService) CreateChallenge(ctx context.Context, author *model.Member, req CreateChallengeRequest, repImage *multipart.FileHeader, exampleImages []*multipart.FileHeader) (*model.Challenge, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, common.Errorf("invalid challenge draft: %v: %w", err, common.ErrValidation)
	}

	// Uploads complete before anything is written, so a storage failure
	// cannot leave a partial challenge behind.
	var repRef *string
	var uploaded []string
	if repImage != nil {
		ref, err := s.images.Upload(ctx, repImage)
		if err != nil {
			return nil, err
		}
		repRef = &ref
		uploaded = append(uploaded, ref)
	}
	exampleRefs, err := s.images.UploadAll(ctx, exampleImages)
	if err != nil {
		s.images.RemoveAll(ctx, uploaded)
		return nil, err
	}
	uploaded = append(uploaded, exampleRefs...)

	challenge := &model.Challenge{
		Title:        req.Title,
		Slug:         slug.Make(req.Title),
		Category:     model.ChallengeCategory(req.Category),
		Description:  req.Description,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		RepImagePath: repRef,
		AuthorID:     author.ID,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.images.RemoveAll(ctx, uploaded)
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.challengeRepo.Create(ctx, tx, challenge); err != nil {
		s.images.RemoveAll(ctx, uploaded)
		return nil, err
	}
	if err := s.challengeRepo.AddExampleImages(ctx, tx, challenge.ID, exampleRefs); err != nil {
		s.images.RemoveAll(ctx, uploaded)
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		s.images.RemoveAll(ctx, uploaded)
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	challenge.ExampleImagePaths = exampleRefs
	challenge.AuthorName = &author.Name
	s.log.WithFields(logrus.Fields{"challenge_id": challenge.ID, "author_id": author.ID}).Info("challenge created")
	return challenge, nil
}

func (s *ChallengeService) UpdateChallenge(ctx context.Context, caller *model.Member, challengeID int64, req PatchChallengeRequest, exampleImages []*multipart.FileHeader, repImage *multipart.FileHeader) (*model.Challenge, error) {
	challenge, err := s.challengeRepo.FindByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if err := requireAuthor(caller, challenge); err != nil {
		return nil, err
	}
	if err := applyPatch(challenge, req); err != nil {
		return nil, err
	}

	// Replace images only when new files arrive; otherwise keep existing refs.
	var obsolete, uploaded []string
	if repImage != nil {
		ref, err := s.images.Upload(ctx, repImage)
		if err != nil {
			return nil, err
		}
		if challenge.RepImagePath != nil {
			obsolete = append(obsolete, *challenge.RepImagePath)
		}
		challenge.RepImagePath = &ref
		uploaded = append(uploaded, ref)
	}
	var newExampleRefs []string
	if len(exampleImages) > 0 {
		newExampleRefs, err = s.images.UploadAll(ctx, exampleImages)
		if err != nil {
			s.images.RemoveAll(ctx, uploaded)
			return nil, err
		}
		uploaded = append(uploaded, newExampleRefs...)
		obsolete = append(obsolete, challenge.ExampleImagePaths...)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.images.RemoveAll(ctx, uploaded)
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.challengeRepo.Update(ctx, tx, challenge); err != nil {
		s.images.RemoveAll(ctx, uploaded)
		return nil, err
	}
	if len(exampleImages) > 0 {
		if err := s.challengeRepo.DeleteExampleImages(ctx, tx, challenge.ID); err != nil {
			s.images.RemoveAll(ctx, uploaded)
			return nil, err
		}
		if err := s.challengeRepo.AddExampleImages(ctx, tx, challenge.ID, newExampleRefs); err != nil {
			s.images.RemoveAll(ctx, uploaded)
			return nil, err
		}
		challenge.ExampleImagePaths = newExampleRefs
	}
	if err := tx.Commit(); err != nil {
		s.images.RemoveAll(ctx, uploaded)
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	s.enqueueCleanup(ctx, obsolete)
	return challenge, nil
}

// applyPatch merges non-nil fields of the patch into the challenge,
// field by field.
func applyPatch(c *model.Challenge, req PatchChallengeRequest) error {
	if req.Title != nil {
		c.Title = *req.Title
		c.Slug = slug.Make(*req.Title)
	}
	if req.Category != nil {
		if !model.ChallengeCategory(*req.Category).IsValid() {
			return common.Errorf("category %d out of range: %w", *req.Category, common.ErrValidation)
		}
		c.Category = model.ChallengeCategory(*req.Category)
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.StartDate != nil {
		c.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		c.EndDate = *req.EndDate
	}
	if !c.EndDate.After(c.StartDate) {
		return common.Errorf("end date must be after start date: %w", common.ErrValidation)
	}
	return nil
}

// ParticipateChallenge records the member joining the challenge. A second
// join for the same pair is rejected with a conflict; the unique
// constraint on the ledger backstops concurrent joins.
func (s *ChallengeService) ParticipateChallenge(ctx context.Context, challenge *model.Challenge, member *model.Member) (*model.MemberChallenge, error) {
	existing, err := s.ledgerRepo.FindByMemberAndChallenge(ctx, member.ID, challenge.ID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, common.Errorf("member %d already joined challenge %d: %w", member.ID, challenge.ID, common.ErrConflict)
	}

	mc := &model.MemberChallenge{
		MemberID:    member.ID,
		ChallengeID: challenge.ID,
		JoinedAt:    time.Now(),
	}
	if err := s.ledgerRepo.Create(ctx, mc); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"challenge_id": challenge.ID, "member_id": member.ID}).Info("member joined challenge")
	return mc, nil
}

// UpdateCertImage records a certification submission. Only members holding
// a ledger row for the challenge may certify.
func (s *ChallengeService) UpdateCertImage(ctx context.Context, challengeID int64, member *model.Member, certImage *multipart.FileHeader) (*model.Challenge, *model.MemberChallenge, error) {
	challenge, err := s.challengeRepo.FindByID(ctx, challengeID)
	if err != nil {
		return nil, nil, err
	}

	mc, err := s.ledgerRepo.FindByMemberAndChallenge(ctx, member.ID, challengeID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.Errorf("member %d does not participate in challenge %d: %w", member.ID, challengeID, common.ErrForbidden)
		}
		return nil, nil, err
	}

	if certImage == nil {
		return nil, nil, common.Errorf("certification image is required: %w", common.ErrValidation)
	}
	ref, err := s.images.Upload(ctx, certImage)
	if err != nil {
		return nil, nil, err
	}

	var obsolete []string
	if mc.CertImagePath != nil {
		obsolete = append(obsolete, *mc.CertImagePath)
	}
	now := time.Now()
	mc.CertImagePath = &ref
	mc.CertCount++
	mc.LastCertifiedAt = &now

	if err := s.ledgerRepo.UpdateCertification(ctx, mc); err != nil {
		s.images.RemoveAll(ctx, []string{ref})
		return nil, nil, err
	}

	s.enqueueCleanup(ctx, obsolete)
	return challenge, mc, nil
}

func (s *ChallengeService) FindChallengeByID(ctx context.Context, id int64) (*model.Challenge, error) {
	return s.challengeRepo.FindByID(ctx, id)
}

// FindParticipation returns the caller's own ledger row, or nil when the
// caller has not joined. Used by the visibility gate.
func (s *ChallengeService) FindParticipation(ctx context.Context, challengeID, memberID int64) (*model.MemberChallenge, error) {
	mc, err := s.ledgerRepo.FindByMemberAndChallenge(ctx, memberID, challengeID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mc, nil
}

// UpdateViewCount bumps the view counter via a single atomic UPDATE. The
// count is best-effort: no per-viewer dedup.
func (s *ChallengeService) UpdateViewCount(ctx context.Context, challenge *model.Challenge) (*model.Challenge, error) {
	count, err := s.challengeRepo.IncrementViewCount(ctx, challenge.ID)
	if err != nil {
		return nil, err
	}
	challenge.ViewCount = count
	return challenge, nil
}

// DeleteChallenge removes the challenge and, via FK cascade, its ledger
// rows. Image refs go to the cleanup queue afterwards; a file that
// outlives its record is harmless.
func (s *ChallengeService) DeleteChallenge(ctx context.Context, id int64, caller *model.Member) error {
	challenge, err := s.challengeRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireAuthor(caller, challenge); err != nil {
		return err
	}

	var obsolete []string
	if challenge.RepImagePath != nil {
		obsolete = append(obsolete, *challenge.RepImagePath)
	}
	obsolete = append(obsolete, challenge.ExampleImagePaths...)
	certRefs, err := s.ledgerRepo.ListCertImagePaths(ctx, id)
	if err != nil {
		return err
	}
	obsolete = append(obsolete, certRefs...)

	if err := s.challengeRepo.Delete(ctx, nil, id); err != nil {
		return err
	}

	s.enqueueCleanup(ctx, obsolete)
	s.log.WithFields(logrus.Fields{"challenge_id": id, "author_id": caller.ID}).Info("challenge deleted")
	return nil
}

func (s *ChallengeService) GetAllChallengesInCategory(ctx context.Context, categoryID int64, page, size int, sortBy string) ([]model.Challenge, int64, error) {
	category := model.ChallengeCategory(categoryID)
	if !category.IsValid() {
		return nil, 0, common.Errorf("category %d out of range: %w", categoryID, common.ErrValidation)
	}
	sort, err := parseSort(sortBy)
	if err != nil {
		return nil, 0, err
	}
	limit, offset, err := pageWindow(page, size)
	if err != nil {
		return nil, 0, err
	}
	return s.challengeRepo.ListByCategory(ctx, category, limit, offset, sort)
}

func (s *ChallengeService) SearchChallengesByChallengeTitle(ctx context.Context, searchTitle string, page, size int, sortBy string) ([]model.Challenge, int64, error) {
	sort, err := parseSort(sortBy)
	if err != nil {
		return nil, 0, err
	}
	limit, offset, err := pageWindow(page, size)
	if err != nil {
		return nil, 0, err
	}
	return s.challengeRepo.SearchByTitle(ctx, searchTitle, limit, offset, sort)
}

// GetAllChallenges is the bulk title read backing autocomplete.
func (s *ChallengeService) GetAllChallenges(ctx context.Context) ([]model.ChallengeTitle, error) {
	return s.challengeRepo.ListTitles(ctx)
}

// parseSort accepts the two known sort keys. Empty means the default
// (popularity); anything else is rejected rather than silently ignored.
func parseSort(sortBy string) (model.ChallengeSort, error) {
	switch sortBy {
	case "", string(model.SortPopularity):
		return model.SortPopularity, nil
	case string(model.SortNewest):
		return model.SortNewest, nil
	default:
		return "", common.Errorf("unknown sort key %q: %w", sortBy, common.ErrValidation)
	}
}

// pageWindow converts 1-based page params to a LIMIT/OFFSET window.
func pageWindow(page, size int) (limit, offset int, err error) {
	if page < 1 || size < 1 {
		return 0, 0, common.Errorf("page and size must be positive: %w", common.ErrValidation)
	}
	return size, (page - 1) * size, nil
}

func (s *ChallengeService) enqueueCleanup(ctx context.Context, refs []string) {
	if len(refs) == 0 {
		return
	}
	if err := s.cleanup.Enqueue(ctx, refs...); err != nil {
		// Orphaned files are acceptable; corrupting the record is not.
		s.log.WithFields(logrus.Fields{"refs": len(refs), "error": err.Error()}).Warn("failed to enqueue image cleanup")
	}
}
