package annotation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewOpenAndSetLabel(t *testing.T) {
	dir := t.TempDir()
	writeCapturePair(t, dir, "game1_frame370_12.345s", "ball_in")

	store := NewStore(dir)
	review := NewReview(store)

	oc, err := review.Open("game1_frame370_12.345s.jpg")
	require.NoError(t, err)
	assert.Equal(t, "ball_in", oc.Label)
	assert.Equal(t, 370, oc.Capture.FrameNumber)
	assert.Equal(t, []byte("jpeg"), oc.Preview)

	require.NoError(t, review.SetLabel(LabelBallOut))

	onDisk, err := os.ReadFile(filepath.Join(dir, "game1_frame370_12.345s.txt"))
	require.NoError(t, err)
	assert.Equal(t, "ball_out", string(onDisk))

	// Cache consistency: the new label is served without a file read.
	require.NoError(t, os.Remove(filepath.Join(dir, "game1_frame370_12.345s.txt")))
	got, err := store.ReadLabel("game1_frame370_12.345s.jpg")
	require.NoError(t, err)
	assert.Equal(t, "ball_out", got)
}

func TestReviewOpenCreatesMissingLabelFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "game1_frame10_0.333s.jpg"), []byte("jpeg"), 0644))

	review := NewReview(NewStore(dir))
	oc, err := review.Open("game1_frame10_0.333s.jpg")
	require.NoError(t, err)
	assert.Empty(t, oc.Label)

	data, err := os.ReadFile(filepath.Join(dir, "game1_frame10_0.333s.txt"))
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestReviewDelete(t *testing.T) {
	dir := t.TempDir()
	writeCapturePair(t, dir, "game1_frame370_12.345s", "ball_in")

	store := NewStore(dir)
	require.NoError(t, store.Rebuild("game1"))
	review := NewReview(store)

	_, err := review.Open("game1_frame370_12.345s.jpg")
	require.NoError(t, err)
	require.NoError(t, review.Delete())

	for _, name := range []string{"game1_frame370_12.345s.jpg", "game1_frame370_12.345s.txt"} {
		_, statErr := os.Stat(filepath.Join(dir, name))
		assert.True(t, os.IsNotExist(statErr), "%s should be gone", name)
	}

	assert.Nil(t, review.Current(), "review closes after delete")
	_, ok := store.Index().Lookup(370)
	assert.False(t, ok, "index refreshed after delete")
}

func TestReviewDeleteToleratesMissingLabel(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "game1_frame10_0.333s.jpg"), []byte("jpeg"), 0644))

	store := NewStore(dir)
	require.NoError(t, store.Rebuild("game1"))
	review := NewReview(store)

	_, err := review.Open("game1_frame10_0.333s.jpg")
	require.NoError(t, err)

	// Remove the label file behind the review's back.
	require.NoError(t, os.Remove(filepath.Join(dir, "game1_frame10_0.333s.txt")))

	assert.NoError(t, review.Delete())
}

func TestReviewCloseReleasesPreview(t *testing.T) {
	dir := t.TempDir()
	writeCapturePair(t, dir, "game1_frame10_0.333s", "ball_in")

	review := NewReview(NewStore(dir))
	oc, err := review.Open("game1_frame10_0.333s.jpg")
	require.NoError(t, err)
	require.NotEmpty(t, oc.Preview)

	review.Close()
	assert.Nil(t, oc.Preview)
	assert.Nil(t, review.Current())
}

func TestReviewOperationsRequireOpen(t *testing.T) {
	review := NewReview(NewStore(t.TempDir()))

	assert.Error(t, review.SetLabel(LabelBallIn))
	assert.Error(t, review.Delete())
}

func TestReviewOpenRejectsStrayFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "screenshot.jpg"), []byte("jpeg"), 0644))

	review := NewReview(NewStore(dir))
	_, err := review.Open("screenshot.jpg")
	assert.Error(t, err)
}
