package service

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msKim92/wiselife-project/internal/common"
	"github.com/msKim92/wiselife-project/internal/domain/model"
)

// Mock repositories for testing

type mockChallengeRepository struct {
	createFunc              func(ctx context.Context, tx *sql.Tx, c *model.Challenge) error
	updateFunc              func(ctx context.Context, tx *sql.Tx, c *model.Challenge) error
	findByIDFunc            func(ctx context.Context, id int64) (*model.Challenge, error)
	deleteFunc              func(ctx context.Context, tx *sql.Tx, id int64) error
	incrementViewCountFunc  func(ctx context.Context, id int64) (int64, error)
	listByCategoryFunc      func(ctx context.Context, category model.ChallengeCategory, limit, offset int, sort model.ChallengeSort) ([]model.Challenge, int64, error)
	searchByTitleFunc       func(ctx context.Context, term string, limit, offset int, sort model.ChallengeSort) ([]model.Challenge, int64, error)
	listTitlesFunc          func(ctx context.Context) ([]model.ChallengeTitle, error)
	addExampleImagesFunc    func(ctx context.Context, tx *sql.Tx, challengeID int64, paths []string) error
	getExampleImagesFunc    func(ctx context.Context, challengeID int64) ([]string, error)
	deleteExampleImagesFunc func(ctx context.Context, tx *sql.Tx, challengeID int64) error
}

func (m *mockChallengeRepository) Create(ctx context.Context, tx *sql.Tx, c *model.Challenge) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, tx, c)
	}
	return errors.New("not implemented")
}

func (m *mockChallengeRepository) Update(ctx context.Context, tx *sql.Tx, c *model.Challenge) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, tx, c)
	}
	return errors.New("not implemented")
}

func (m *mockChallengeRepository) FindByID(ctx context.Context, id int64) (*model.Challenge, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockChallengeRepository) Delete(ctx context.Context, tx *sql.Tx, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, tx, id)
	}
	return errors.New("not implemented")
}

func (m *mockChallengeRepository) IncrementViewCount(ctx context.Context, id int64) (int64, error) {
	if m.incrementViewCountFunc != nil {
		return m.incrementViewCountFunc(ctx, id)
	}
	return 0, errors.New("not implemented")
}

func (m *mockChallengeRepository) ListByCategory(ctx context.Context, category model.ChallengeCategory, limit, offset int, sort model.ChallengeSort) ([]model.Challenge, int64, error) {
	if m.listByCategoryFunc != nil {
		return m.listByCategoryFunc(ctx, category, limit, offset, sort)
	}
	return nil, 0, errors.New("not implemented")
}

func (m *mockChallengeRepository) SearchByTitle(ctx context.Context, term string, limit, offset int, sort model.ChallengeSort) ([]model.Challenge, int64, error) {
	if m.searchByTitleFunc != nil {
		return m.searchByTitleFunc(ctx, term, limit, offset, sort)
	}
	return nil, 0, errors.New("not implemented")
}

func (m *mockChallengeRepository) ListTitles(ctx context.Context) ([]model.ChallengeTitle, error) {
	if m.listTitlesFunc != nil {
		return m.listTitlesFunc(ctx)
	}
	return nil, errors.New("not implemented")
}

func (m *mockChallengeRepository) AddExampleImages(ctx context.Context, tx *sql.Tx, challengeID int64, paths []string) error {
	if m.addExampleImagesFunc != nil {
		return m.addExampleImagesFunc(ctx, tx, challengeID, paths)
	}
	return nil
}

func (m *mockChallengeRepository) GetExampleImages(ctx context.Context, challengeID int64) ([]string, error) {
	if m.getExampleImagesFunc != nil {
		return m.getExampleImagesFunc(ctx, challengeID)
	}
	return nil, nil
}

func (m *mockChallengeRepository) DeleteExampleImages(ctx context.Context, tx *sql.Tx, challengeID int64) error {
	if m.deleteExampleImagesFunc != nil {
		return m.deleteExampleImagesFunc(ctx, tx, challengeID)
	}
	return nil
}

type mockLedgerRepository struct {
	createFunc              func(ctx context.Context, mc *model.MemberChallenge) error
	findFunc                func(ctx context.Context, memberID, challengeID int64) (*model.MemberChallenge, error)
	updateCertificationFunc func(ctx context.Context, mc *model.MemberChallenge) error
	countByChallengeFunc    func(ctx context.Context, challengeID int64) (int64, error)
	listCertImagePathsFunc  func(ctx context.Context, challengeID int64) ([]string, error)
}

func (m *mockLedgerRepository) Create(ctx context.Context, mc *model.MemberChallenge) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, mc)
	}
	return errors.New("not implemented")
}

func (m *mockLedgerRepository) FindByMemberAndChallenge(ctx context.Context, memberID, challengeID int64) (*model.MemberChallenge, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, memberID, challengeID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockLedgerRepository) UpdateCertification(ctx context.Context, mc *model.MemberChallenge) error {
	if m.updateCertificationFunc != nil {
		return m.updateCertificationFunc(ctx, mc)
	}
	return errors.New("not implemented")
}

func (m *mockLedgerRepository) CountByChallenge(ctx context.Context, challengeID int64) (int64, error) {
	if m.countByChallengeFunc != nil {
		return m.countByChallengeFunc(ctx, challengeID)
	}
	return 0, errors.New("not implemented")
}

func (m *mockLedgerRepository) ListCertImagePaths(ctx context.Context, challengeID int64) ([]string, error) {
	if m.listCertImagePathsFunc != nil {
		return m.listCertImagePathsFunc(ctx, challengeID)
	}
	return nil, nil
}

// fakeImageStore records saves and removals; failAt makes the n-th save fail.
type fakeImageStore struct {
	saved   []string
	removed []string
	failAt  int // 1-based index of the save that fails; 0 disables
}

func (s *fakeImageStore) Save(_ context.Context, _ multipart.File, header *multipart.FileHeader) (string, error) {
	if s.failAt > 0 && len(s.saved)+1 == s.failAt {
		return "", errors.New("storage down")
	}
	ref := fmt.Sprintf("stored-%d-%s", len(s.saved)+1, header.Filename)
	s.saved = append(s.saved, ref)
	return ref, nil
}

func (s *fakeImageStore) Remove(_ context.Context, ref string) error {
	s.removed = append(s.removed, ref)
	return nil
}

type fakeCleanupQueue struct {
	refs []string
}

func (q *fakeCleanupQueue) Enqueue(_ context.Context, refs ...string) error {
	q.refs = append(q.refs, refs...)
	return nil
}

// A stub sql driver so BeginTx/Commit work without a database; all real
// statements go through the mocked repositories.
type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (stubConn) Close() error                        { return nil }
func (stubConn) Begin() (driver.Tx, error)           { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

func init() {
	sql.Register("stub", stubDriver{})
}

func newTestService(t *testing.T, challengeRepo *mockChallengeRepository, ledgerRepo *mockLedgerRepository, store *fakeImageStore, cleanup *fakeCleanupQueue) *ChallengeService {
	t.Helper()
	db, err := sql.Open("stub", "")
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(bytes.NewBuffer(nil))

	return NewChallengeService(challengeRepo, ledgerRepo, NewImageService(store, log), cleanup, db, log)
}

func fileHeader(t *testing.T, name string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte("image-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["file"][0]
}

func validDraft() CreateChallengeRequest {
	return CreateChallengeRequest{
		Title:       "Morning run",
		Category:    0,
		Description: "Run every morning before work",
		StartDate:   time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestCreateChallenge_PersistsDraftFields(t *testing.T) {
	var persisted *model.Challenge
	challengeRepo := &mockChallengeRepository{
		createFunc: func(_ context.Context, _ *sql.Tx, c *model.Challenge) error {
			c.ID = 1
			persisted = c
			return nil
		},
	}
	challengeRepo.findByIDFunc = func(_ context.Context, id int64) (*model.Challenge, error) {
		if persisted != nil && persisted.ID == id {
			return persisted, nil
		}
		return nil, common.ErrNotFound
	}
	svc := newTestService(t, challengeRepo, &mockLedgerRepository{}, &fakeImageStore{}, &fakeCleanupQueue{})
	author := &model.Member{ID: 42, Name: "kim"}
	draft := validDraft()

	created, err := svc.CreateChallenge(context.Background(), author, draft, nil, nil)
	require.NoError(t, err)

	found, err := svc.FindChallengeByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.Title, found.Title)
	assert.Equal(t, "morning-run", found.Slug)
	assert.Equal(t, model.ChallengeCategory(draft.Category), found.Category)
	assert.Equal(t, draft.Description, found.Description)
	assert.Equal(t, draft.StartDate, found.StartDate)
	assert.Equal(t, draft.EndDate, found.EndDate)
	assert.Equal(t, author.ID, found.AuthorID)
}

func TestCreateChallenge_RejectsInvalidDraft(t *testing.T) {
	repoCalled := false
	challengeRepo := &mockChallengeRepository{
		createFunc: func(context.Context, *sql.Tx, *model.Challenge) error {
			repoCalled = true
			return nil
		},
	}
	svc := newTestService(t, challengeRepo, &mockLedgerRepository{}, &fakeImageStore{}, &fakeCleanupQueue{})
	author := &model.Member{ID: 42}

	tests := []struct {
		name   string
		mutate func(*CreateChallengeRequest)
	}{
		{"missing title", func(r *CreateChallengeRequest) { r.Title = "" }},
		{"missing description", func(r *CreateChallengeRequest) { r.Description = "" }},
		{"category out of range", func(r *CreateChallengeRequest) { r.Category = 4 }},
		{"negative category", func(r *CreateChallengeRequest) { r.Category = -1 }},
		{"end before start", func(r *CreateChallengeRequest) { r.EndDate = r.StartDate.Add(-time.Hour) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(&draft)
			_, err := svc.CreateChallenge(context.Background(), author, draft, nil, nil)
			assert.ErrorIs(t, err, common.ErrValidation)
			assert.False(t, repoCalled)
		})
	}
}

func TestCreateChallenge_UploadFailureLeavesNoRecord(t *testing.T) {
	repoCalled := false
	challengeRepo := &mockChallengeRepository{
		createFunc: func(context.Context, *sql.Tx, *model.Challenge) error {
			repoCalled = true
			return nil
		},
	}
	store := &fakeImageStore{failAt: 2} // rep succeeds, first example fails
	svc := newTestService(t, challengeRepo, &mockLedgerRepository{}, store, &fakeCleanupQueue{})

	_, err := svc.CreateChallenge(context.Background(), &model.Member{ID: 42}, validDraft(),
		fileHeader(t, "rep.jpg"), []*multipart.FileHeader{fileHeader(t, "ex1.jpg")})

	assert.ErrorIs(t, err, common.ErrUpload)
	assert.False(t, repoCalled)
	// The representative image stored before the failure is rolled back.
	assert.Equal(t, store.saved[:1], store.removed)
}

func TestParticipateChallenge_SecondJoinConflicts(t *testing.T) {
	rows := map[string]*model.MemberChallenge{}
	ledgerRepo := &mockLedgerRepository{
		findFunc: func(_ context.Context, memberID, challengeID int64) (*model.MemberChallenge, error) {
			key := fmt.Sprintf("%d/%d", memberID, challengeID)
			if mc, ok := rows[key]; ok {
				return mc, nil
			}
			return nil, common.ErrNotFound
		},
		createFunc: func(_ context.Context, mc *model.MemberChallenge) error {
			key := fmt.Sprintf("%d/%d", mc.MemberID, mc.ChallengeID)
			if _, ok := rows[key]; ok {
				return common.ErrConflict
			}
			mc.ID = int64(len(rows) + 1)
			rows[key] = mc
			return nil
		},
	}
	svc := newTestService(t, &mockChallengeRepository{}, ledgerRepo, &fakeImageStore{}, &fakeCleanupQueue{})
	challenge := &model.Challenge{ID: 7}
	member := &model.Member{ID: 42}

	first, err := svc.ParticipateChallenge(context.Background(), challenge, member)
	require.NoError(t, err)
	assert.Equal(t, member.ID, first.MemberID)

	_, err = svc.ParticipateChallenge(context.Background(), challenge, member)
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.Len(t, rows, 1)
}

func TestParticipateChallenge_ConcurrentLoserGetsConflict(t *testing.T) {
	// Existence check misses, but the insert hits the unique constraint:
	// the race loser still sees a conflict.
	ledgerRepo := &mockLedgerRepository{
		findFunc: func(context.Context, int64, int64) (*model.MemberChallenge, error) {
			return nil, common.ErrNotFound
		},
		createFunc: func(context.Context, *model.MemberChallenge) error {
			return fmt.Errorf("member already participates in this challenge: %w", common.ErrConflict)
		},
	}
	svc := newTestService(t, &mockChallengeRepository{}, ledgerRepo, &fakeImageStore{}, &fakeCleanupQueue{})

	_, err := svc.ParticipateChallenge(context.Background(), &model.Challenge{ID: 7}, &model.Member{ID: 42})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestUpdateCertImage_NonParticipantForbidden(t *testing.T) {
	challengeRepo := &mockChallengeRepository{
		findByIDFunc: func(context.Context, int64) (*model.Challenge, error) {
			return &model.Challenge{ID: 7}, nil
		},
	}
	ledgerRepo := &mockLedgerRepository{
		findFunc: func(context.Context, int64, int64) (*model.MemberChallenge, error) {
			return nil, common.ErrNotFound
		},
	}
	store := &fakeImageStore{}
	svc := newTestService(t, challengeRepo, ledgerRepo, store, &fakeCleanupQueue{})

	_, _, err := svc.UpdateCertImage(context.Background(), 7, &model.Member{ID: 42}, fileHeader(t, "cert.jpg"))
	assert.ErrorIs(t, err, common.ErrForbidden)
	assert.Empty(t, store.saved)
}

func TestUpdateCertImage_RecordsCertification(t *testing.T) {
	oldCert := "old-cert.jpg"
	var updated *model.MemberChallenge
	challengeRepo := &mockChallengeRepository{
		findByIDFunc: func(context.Context, int64) (*model.Challenge, error) {
			return &model.Challenge{ID: 7}, nil
		},
	}
	ledgerRepo := &mockLedgerRepository{
		findFunc: func(context.Context, int64, int64) (*model.MemberChallenge, error) {
			return &model.MemberChallenge{ID: 3, MemberID: 42, ChallengeID: 7, CertImagePath: &oldCert, CertCount: 2}, nil
		},
		updateCertificationFunc: func(_ context.Context, mc *model.MemberChallenge) error {
			updated = mc
			return nil
		},
	}
	cleanup := &fakeCleanupQueue{}
	svc := newTestService(t, challengeRepo, ledgerRepo, &fakeImageStore{}, cleanup)

	_, mc, err := svc.UpdateCertImage(context.Background(), 7, &model.Member{ID: 42}, fileHeader(t, "cert.jpg"))
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 3, mc.CertCount)
	assert.NotNil(t, mc.LastCertifiedAt)
	assert.NotEqual(t, oldCert, *mc.CertImagePath)
	assert.Equal(t, []string{oldCert}, cleanup.refs)
}

func TestUpdateChallenge_NonAuthorForbidden(t *testing.T) {
	challengeRepo := &mockChallengeRepository{
		findByIDFunc: func(context.Context, int64) (*model.Challenge, error) {
			return &model.Challenge{ID: 7, AuthorID: 1}, nil
		},
	}
	svc := newTestService(t, challengeRepo, &mockLedgerRepository{}, &fakeImageStore{}, &fakeCleanupQueue{})

	title := "New title"
	_, err := svc.UpdateChallenge(context.Background(), &model.Member{ID: 2}, 7, PatchChallengeRequest{Title: &title}, nil, nil)
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestUpdateChallenge_MergesOnlyProvidedFields(t *testing.T) {
	var updated *model.Challenge
	challengeRepo := &mockChallengeRepository{
		findByIDFunc: func(context.Context, int64) (*model.Challenge, error) {
			return &model.Challenge{
				ID: 7, AuthorID: 1,
				Title: "Morning run", Slug: "morning-run",
				Category:    model.CategoryExercise,
				Description: "Run every morning",
				StartDate:   time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
				EndDate:     time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC),
			}, nil
		},
		updateFunc: func(_ context.Context, _ *sql.Tx, c *model.Challenge) error {
			updated = c
			return nil
		},
	}
	svc := newTestService(t, challengeRepo, &mockLedgerRepository{}, &fakeImageStore{}, &fakeCleanupQueue{})

	desc := "Run every morning, rain or shine"
	patched, err := svc.UpdateChallenge(context.Background(), &model.Member{ID: 1}, 7, PatchChallengeRequest{Description: &desc}, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, desc, patched.Description)
	assert.Equal(t, "Morning run", patched.Title)
	assert.Equal(t, "morning-run", patched.Slug)
	assert.Equal(t, model.CategoryExercise, patched.Category)
}

func TestDeleteChallenge_NonAuthorForbidden(t *testing.T) {
	deleted := false
	challengeRepo := &mockChallengeRepository{
		findByIDFunc: func(context.Context, int64) (*model.Challenge, error) {
			return &model.Challenge{ID: 7, AuthorID: 1}, nil
		},
		deleteFunc: func(context.Context, *sql.Tx, int64) error {
			deleted = true
			return nil
		},
	}
	svc := newTestService(t, challengeRepo, &mockLedgerRepository{}, &fakeImageStore{}, &fakeCleanupQueue{})

	err := svc.DeleteChallenge(context.Background(), 7, &model.Member{ID: 2})
	assert.ErrorIs(t, err, common.ErrForbidden)
	assert.False(t, deleted)
}

func TestDeleteChallenge_QueuesImageRefsForCleanup(t *testing.T) {
	rep := "rep.jpg"
	challengeRepo := &mockChallengeRepository{
		findByIDFunc: func(context.Context, int64) (*model.Challenge, error) {
			return &model.Challenge{
				ID: 7, AuthorID: 1,
				RepImagePath:      &rep,
				ExampleImagePaths: []string{"ex1.jpg", "ex2.jpg"},
			}, nil
		},
		deleteFunc: func(context.Context, *sql.Tx, int64) error { return nil },
	}
	ledgerRepo := &mockLedgerRepository{
		listCertImagePathsFunc: func(context.Context, int64) ([]string, error) {
			return []string{"cert-a.jpg", "cert-b.jpg"}, nil
		},
	}
	cleanup := &fakeCleanupQueue{}
	svc := newTestService(t, challengeRepo, ledgerRepo, &fakeImageStore{}, cleanup)

	require.NoError(t, svc.DeleteChallenge(context.Background(), 7, &model.Member{ID: 1}))
	assert.ElementsMatch(t, []string{"rep.jpg", "ex1.jpg", "ex2.jpg", "cert-a.jpg", "cert-b.jpg"}, cleanup.refs)
}

func TestUpdateViewCount_Monotonic(t *testing.T) {
	var count int64
	challengeRepo := &mockChallengeRepository{
		incrementViewCountFunc: func(context.Context, int64) (int64, error) {
			count++
			return count, nil
		},
	}
	svc := newTestService(t, challengeRepo, &mockLedgerRepository{}, &fakeImageStore{}, &fakeCleanupQueue{})
	challenge := &model.Challenge{ID: 7}

	for i := int64(1); i <= 5; i++ {
		updated, err := svc.UpdateViewCount(context.Background(), challenge)
		require.NoError(t, err)
		assert.Equal(t, i, updated.ViewCount)
	}
}

func TestGetAllChallengesInCategory_Validation(t *testing.T) {
	svc := newTestService(t, &mockChallengeRepository{}, &mockLedgerRepository{}, &fakeImageStore{}, &fakeCleanupQueue{})

	_, _, err := svc.GetAllChallengesInCategory(context.Background(), 4, 1, 10, "")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, _, err = svc.GetAllChallengesInCategory(context.Background(), -1, 1, 10, "")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, _, err = svc.GetAllChallengesInCategory(context.Background(), 1, 1, 10, "trending")
	assert.ErrorIs(t, err, common.ErrValidation)

	_, _, err = svc.GetAllChallengesInCategory(context.Background(), 1, 0, 10, "")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestGetAllChallengesInCategory_PageWindowAndSort(t *testing.T) {
	var gotLimit, gotOffset int
	var gotSort model.ChallengeSort
	challengeRepo := &mockChallengeRepository{
		listByCategoryFunc: func(_ context.Context, _ model.ChallengeCategory, limit, offset int, sort model.ChallengeSort) ([]model.Challenge, int64, error) {
			gotLimit, gotOffset, gotSort = limit, offset, sort
			return []model.Challenge{}, 25, nil
		},
	}
	svc := newTestService(t, challengeRepo, &mockLedgerRepository{}, &fakeImageStore{}, &fakeCleanupQueue{})

	// Empty sort key falls back to popularity.
	_, total, err := svc.GetAllChallengesInCategory(context.Background(), 1, 3, 10, "")
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, 20, gotOffset)
	assert.Equal(t, model.SortPopularity, gotSort)

	_, _, err = svc.GetAllChallengesInCategory(context.Background(), 1, 1, 10, "newest")
	require.NoError(t, err)
	assert.Equal(t, model.SortNewest, gotSort)
}

func TestSearchChallenges_EmptyResultIsNotAnError(t *testing.T) {
	challengeRepo := &mockChallengeRepository{
		searchByTitleFunc: func(context.Context, string, int, int, model.ChallengeSort) ([]model.Challenge, int64, error) {
			return []model.Challenge{}, 0, nil
		},
	}
	svc := newTestService(t, challengeRepo, &mockLedgerRepository{}, &fakeImageStore{}, &fakeCleanupQueue{})

	challenges, total, err := svc.SearchChallengesByChallengeTitle(context.Background(), "nothing-matches", 1, 10, "")
	require.NoError(t, err)
	assert.Empty(t, challenges)
	assert.Zero(t, total)
}

func TestFindParticipation_NilWhenNotJoined(t *testing.T) {
	ledgerRepo := &mockLedgerRepository{
		findFunc: func(context.Context, int64, int64) (*model.MemberChallenge, error) {
			return nil, common.ErrNotFound
		},
	}
	svc := newTestService(t, &mockChallengeRepository{}, ledgerRepo, &fakeImageStore{}, &fakeCleanupQueue{})

	mc, err := svc.FindParticipation(context.Background(), 7, 42)
	require.NoError(t, err)
	assert.Nil(t, mc)
}
