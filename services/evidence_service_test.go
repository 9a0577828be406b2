package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuearena/tournament-engine/models"
	"github.com/cuearena/tournament-engine/repositories"
	"github.com/cuearena/tournament-engine/storage"
)

type fakeEvidenceRepo struct {
	nextID int
	items  map[int]*models.MatchEvidence
}

func newFakeEvidenceRepo() *fakeEvidenceRepo {
	return &fakeEvidenceRepo{nextID: 1, items: make(map[int]*models.MatchEvidence)}
}

func (r *fakeEvidenceRepo) Create(_ context.Context, _ repositories.SQLExecutor, e *models.MatchEvidence) error {
	e.ID = r.nextID
	r.nextID++
	r.items[e.ID] = e
	return nil
}

func (r *fakeEvidenceRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.MatchEvidence, error) {
	e, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrEvidenceNotFound
	}
	return e, nil
}

func (r *fakeEvidenceRepo) ListByMatch(_ context.Context, matchID int) ([]*models.MatchEvidence, error) {
	out := make([]*models.MatchEvidence, 0)
	for id := 1; id < r.nextID; id++ {
		if e, ok := r.items[id]; ok && e.MatchID == matchID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEvidenceRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	if _, ok := r.items[id]; !ok {
		return repositories.ErrEvidenceNotFound
	}
	delete(r.items, id)
	return nil
}

type memUploader struct {
	objects map[string]string
}

func newMemUploader() *memUploader { return &memUploader{objects: make(map[string]string)} }

func (u *memUploader) Upload(_ context.Context, key, _ string, body io.Reader) (*storage.UploadResult, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	u.objects[key] = string(data)
	return &storage.UploadResult{Key: key, Location: "https://files.test/" + key}, nil
}

func (u *memUploader) Delete(_ context.Context, key string) error {
	delete(u.objects, key)
	return nil
}

func (u *memUploader) GetPublicURL(key string) string {
	return "https://files.test/" + key
}

type evidenceFixture struct {
	*matchFixture
	repo     *fakeEvidenceRepo
	uploader *memUploader
	service  EvidenceService
}

func newEvidenceFixture(t *testing.T) *evidenceFixture {
	mf := newMatchFixture(t)
	repo := newFakeEvidenceRepo()
	uploader := newMemUploader()
	service := NewEvidenceService(repo, mf.matches, mf.participants, mf.tournaments, uploader, testLogger())
	return &evidenceFixture{matchFixture: mf, repo: repo, uploader: uploader, service: service}
}

func (ef *evidenceFixture) dispute(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := ef.matchService.SubmitResult(ctx, ef.match.ID, 10, 3, 0)
	require.NoError(t, err)
	_, err = ef.matchService.DisputeResult(ctx, ef.match.ID, 11, "not played", nil, nil)
	require.NoError(t, err)
}

func TestEvidenceUploadRequiresDispute(t *testing.T) {
	ef := newEvidenceFixture(t)

	_, err := ef.service.Upload(context.Background(), ef.match.ID, 10, "table.jpg", "image/jpeg", strings.NewReader("img"), nil)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Empty(t, ef.uploader.objects, "nothing stored for rejected uploads")
}

func TestEvidenceUpload(t *testing.T) {
	ef := newEvidenceFixture(t)
	ef.dispute(t)
	ctx := context.Background()

	// Outsiders have no access even with the match disputed.
	ef.addUser(12, models.RolePlayer, "NA", 1500)
	_, err := ef.service.Upload(ctx, ef.match.ID, 12, "table.jpg", "image/jpeg", strings.NewReader("img"), nil)
	assert.ErrorIs(t, err, ErrUnauthorized)

	note := "score sheet photo"
	e, err := ef.service.Upload(ctx, ef.match.ID, 10, "sheet.jpg", "image/jpeg", strings.NewReader("img-bytes"), &note)
	require.NoError(t, err)
	assert.Equal(t, 10, e.UploadedBy)
	assert.Contains(t, e.FileKey, "evidence/match-")
	assert.True(t, strings.HasSuffix(e.FileKey, ".jpg"))
	assert.Equal(t, "https://files.test/"+e.FileKey, e.FileURL)
	assert.Equal(t, "img-bytes", ef.uploader.objects[e.FileKey])

	// The organizer may upload too.
	_, err = ef.service.Upload(ctx, ef.match.ID, 1, "ruling.pdf", "application/pdf", strings.NewReader("pdf"), nil)
	require.NoError(t, err)

	items, err := ef.service.ListByMatch(ctx, ef.match.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.NotEmpty(t, items[0].FileURL)
}

func TestEvidenceDelete(t *testing.T) {
	ef := newEvidenceFixture(t)
	ef.dispute(t)
	ctx := context.Background()

	e, err := ef.service.Upload(ctx, ef.match.ID, 10, "sheet.jpg", "image/jpeg", strings.NewReader("img"), nil)
	require.NoError(t, err)

	// The opposing player cannot remove it; the organizer can.
	err = ef.service.Delete(ctx, e.ID, 11)
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, ef.service.Delete(ctx, e.ID, 1))
	assert.Empty(t, ef.uploader.objects)

	err = ef.service.Delete(ctx, e.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDisabledUploaderBlocksEvidence(t *testing.T) {
	ef := newEvidenceFixture(t)
	ef.dispute(t)

	service := NewEvidenceService(ef.repo, ef.matches, ef.participants, ef.tournaments, storage.NewDisabledUploader(), testLogger())
	_, err := service.Upload(context.Background(), ef.match.ID, 10, "sheet.jpg", "image/jpeg", strings.NewReader("img"), nil)
	assert.ErrorIs(t, err, storage.ErrStorageDisabled)
}
