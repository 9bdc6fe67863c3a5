package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinFragments(t *testing.T) {
	assert.Equal(t, "Intro Main content Outro", JoinFragments(fragmentsOf("Intro", "Main content", "Outro")))
	assert.Equal(t, "only", JoinFragments(fragmentsOf("only")))
	assert.Equal(t, "", JoinFragments(nil))
	// Empty fragments still contribute a separator.
	assert.Equal(t, "a  b", JoinFragments(fragmentsOf("a", "", "b")))
}

func TestTranscriptFetcher_Fetch(t *testing.T) {
	src := &fakeSource{fragments: fragmentsOf("Intro", "Main content", "Outro")}
	f := NewTranscriptFetcher(src, time.Second)

	text, err := f.Fetch(context.Background(), "https://youtube.com/watch?v=dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Intro Main content Outro", text)
	assert.Equal(t, "dQw4w9WgXcQ", src.lastID)
}

func TestTranscriptFetcher_InvalidURL(t *testing.T) {
	src := &fakeSource{}
	f := NewTranscriptFetcher(src, time.Second)

	_, err := f.Fetch(context.Background(), "https://example.com/nothing")
	assert.ErrorIs(t, err, ErrInvalidURL)
	assert.Zero(t, src.calls, "source must not be called without an id")
}

func TestTranscriptFetcher_SourceFailure(t *testing.T) {
	src := &fakeSource{err: errors.New("captions disabled")}
	f := NewTranscriptFetcher(src, time.Second)

	_, err := f.Fetch(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTranscriptUnavailable)

	var te *TranscriptError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "dQw4w9WgXcQ", te.VideoID)
	assert.Contains(t, err.Error(), "captions disabled")
}

func TestTranscriptFetcher_EmptyTranscript(t *testing.T) {
	f := NewTranscriptFetcher(&fakeSource{}, time.Second)

	_, err := f.Fetch(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	assert.ErrorIs(t, err, ErrTranscriptUnavailable)
}

func TestTranscriptFetcher_BlankFragments(t *testing.T) {
	for _, texts := range [][]string{{""}, {"", " ", "\n"}} {
		f := NewTranscriptFetcher(&fakeSource{fragments: fragmentsOf(texts...)}, time.Second)

		_, err := f.Fetch(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
		assert.ErrorIs(t, err, ErrTranscriptUnavailable, "fragments %q", texts)
	}
}
