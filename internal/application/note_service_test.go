package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-notes-sync/internal/domain/entity"
	"github.com/oksasatya/go-notes-sync/internal/infrastructure/memory"
)

type stubIndex struct {
	docs    map[string]entity.Note
	hits    []string
	failing bool
}

func newStubIndex() *stubIndex { return &stubIndex{docs: map[string]entity.Note{}} }

func (i *stubIndex) Index(_ context.Context, n entity.Note) error {
	i.docs[n.ID] = n
	return nil
}

func (i *stubIndex) Remove(_ context.Context, id string) error {
	delete(i.docs, id)
	return nil
}

func (i *stubIndex) Search(_ context.Context, _, _ string, _ int) ([]string, error) {
	if i.failing {
		return nil, errors.New("index unavailable")
	}
	return i.hits, nil
}

type memUploader struct {
	path string
	body []byte
}

func (u *memUploader) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	u.path = objectPath
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	u.body = buf.Bytes()
	return "https://storage.example/" + objectPath, nil
}

func TestNoteService_CreateListOrder(t *testing.T) {
	svc := NewNoteService(memory.NewNoteRepository(), nil, nil, nil)
	ctx := context.Background()

	a, err := svc.Create(ctx, "u1", NoteInput{Title: "a", Content: "1"})
	require.NoError(t, err)
	b, err := svc.Create(ctx, "u1", NoteInput{Title: "b", Content: "2"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u2", NoteInput{Title: "c", Content: "3"})
	require.NoError(t, err)

	notes, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, a.ID, notes[0].ID)
	assert.Equal(t, b.ID, notes[1].ID)
	assert.Equal(t, "u1", notes[0].OwnerID)
}

func TestNoteService_CreateValidation(t *testing.T) {
	svc := NewNoteService(memory.NewNoteRepository(), nil, nil, nil)
	_, err := svc.Create(context.Background(), "u1", NoteInput{Title: " ", Content: "x"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Create(context.Background(), "u1", NoteInput{Title: "x", Content: ""})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNoteService_ForeignEqualsMissing(t *testing.T) {
	svc := NewNoteService(memory.NewNoteRepository(), nil, nil, nil)
	ctx := context.Background()
	n, err := svc.Create(ctx, "owner", NoteInput{Title: "t", Content: "c"})
	require.NoError(t, err)

	_, errForeign := svc.Update(ctx, n.ID, "intruder", NoteInput{Title: "x", Content: "y"})
	_, errMissing := svc.Update(ctx, "no-such-id", "intruder", NoteInput{Title: "x", Content: "y"})
	assert.ErrorIs(t, errForeign, ErrNoteNotFound)
	assert.Equal(t, errMissing, errForeign)

	assert.ErrorIs(t, svc.Delete(ctx, n.ID, "intruder"), ErrNoteNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "no-such-id", "intruder"), ErrNoteNotFound)

	notes, err := svc.List(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "t", notes[0].Title)
}

func TestNoteService_UpdateDeleteMaintainIndex(t *testing.T) {
	idx := newStubIndex()
	svc := NewNoteService(memory.NewNoteRepository(), idx, nil, nil)
	ctx := context.Background()

	n, err := svc.Create(ctx, "u1", NoteInput{Title: "t", Content: "c"})
	require.NoError(t, err)
	assert.Contains(t, idx.docs, n.ID)

	up, err := svc.Update(ctx, n.ID, "u1", NoteInput{Title: "t2", Content: "c2"})
	require.NoError(t, err)
	assert.Equal(t, "t2", up.Title)
	assert.Equal(t, n.CreatedAt, up.CreatedAt)
	assert.Equal(t, "t2", idx.docs[n.ID].Title)

	require.NoError(t, svc.Delete(ctx, n.ID, "u1"))
	assert.NotContains(t, idx.docs, n.ID)
}

func TestNoteService_SearchReReadsThroughRepository(t *testing.T) {
	idx := newStubIndex()
	svc := NewNoteService(memory.NewNoteRepository(), idx, nil, nil)
	ctx := context.Background()

	mine, err := svc.Create(ctx, "u1", NoteInput{Title: "groceries", Content: "milk"})
	require.NoError(t, err)
	theirs, err := svc.Create(ctx, "u2", NoteInput{Title: "groceries", Content: "eggs"})
	require.NoError(t, err)

	// a stale index returning a foreign id must not leak it
	idx.hits = []string{theirs.ID, mine.ID, "gone"}
	got, err := svc.Search(ctx, "u1", "groceries")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)

	idx.failing = true
	got, err = svc.Search(ctx, "u1", "MILK")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)

	_, err = svc.Search(ctx, "u1", "  ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNoteService_Export(t *testing.T) {
	ctx := context.Background()
	svc := NewNoteService(memory.NewNoteRepository(), nil, nil, nil)
	_, err := svc.Export(ctx, "u1")
	assert.ErrorIs(t, err, ErrExportUnavailable)

	up := &memUploader{}
	svc = NewNoteService(memory.NewNoteRepository(), nil, up, nil)
	_, err = svc.Create(ctx, "u1", NoteInput{Title: "t", Content: "c"})
	require.NoError(t, err)

	url, err := svc.Export(ctx, "u1")
	require.NoError(t, err)
	assert.Contains(t, url, "exports/u1/")
	assert.Contains(t, up.path, "exports/u1/")

	var snap struct {
		OwnerID string        `json:"owner_id"`
		Notes   []entity.Note `json:"notes"`
	}
	require.NoError(t, json.Unmarshal(up.body, &snap))
	assert.Equal(t, "u1", snap.OwnerID)
	require.Len(t, snap.Notes, 1)
	assert.Equal(t, "t", snap.Notes[0].Title)
}
