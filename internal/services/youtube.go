package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	ytapi "github.com/hightemp/youtube-transcript-api-go/api"
	yt "github.com/kkdai/youtube/v2"

	"studycoach-backend/internal/models"
)

// YouTubeTranscriptSource retrieves caption fragments from YouTube. The
// transcript API is tried with the preferred languages, then with any
// language, then the player captions exposed by the kkdai client.
type YouTubeTranscriptSource struct {
	transcriptAPI *ytapi.YouTubeTranscriptApi
	ytClient      *yt.Client
	languages     []string
}

func NewYouTubeTranscriptSource(languages []string) *YouTubeTranscriptSource {
	return &YouTubeTranscriptSource{
		transcriptAPI: ytapi.NewYouTubeTranscriptApi(),
		ytClient:      &yt.Client{},
		languages:     languages,
	}
}

type apiResult struct {
	fragments []models.TranscriptFragment
	err       error
}

// Fragments returns the caption fragments for videoID in temporal order.
func (s *YouTubeTranscriptSource) Fragments(ctx context.Context, videoID string) ([]models.TranscriptFragment, error) {
	// The transcript API has no context support; abandon it when ctx ends.
	done := make(chan apiResult, 1)
	go func() {
		fragments, err := s.fromTranscriptAPI(videoID)
		done <- apiResult{fragments, err}
	}()

	var apiErr error
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		if res.err == nil {
			return res.fragments, nil
		}
		apiErr = res.err
	}

	fragments, playerErr := s.fromPlayerCaptions(ctx, videoID)
	if playerErr != nil {
		return nil, fmt.Errorf("no subtitles available via transcript API (%v) and player captions fallback failed (%v)", apiErr, playerErr)
	}
	return fragments, nil
}

func (s *YouTubeTranscriptSource) fromTranscriptAPI(videoID string) ([]models.TranscriptFragment, error) {
	transcript, err := s.transcriptAPI.GetTranscript(videoID, s.languages)
	if err != nil {
		// Fallback: request any available language
		transcript, err = s.transcriptAPI.GetTranscript(videoID, nil)
		if err != nil {
			return nil, err
		}
	}

	if len(transcript.Entries) == 0 {
		return nil, errors.New("subtitle track is empty")
	}

	fragments := make([]models.TranscriptFragment, 0, len(transcript.Entries))
	for _, entry := range transcript.Entries {
		fragments = append(fragments, models.TranscriptFragment{Text: entry.Text})
	}
	return fragments, nil
}

func (s *YouTubeTranscriptSource) fromPlayerCaptions(ctx context.Context, videoID string) ([]models.TranscriptFragment, error) {
	video, err := s.ytClient.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch YouTube video metadata: %w", err)
	}

	var lastErr error
	for _, lang := range s.languages {
		segments, err := s.ytClient.GetTranscriptCtx(ctx, video, lang)
		if err != nil {
			lastErr = err
			continue
		}
		if len(segments) == 0 {
			lastErr = errors.New("player caption track is empty")
			continue
		}

		fragments := make([]models.TranscriptFragment, 0, len(segments))
		for _, seg := range segments {
			fragments = append(fragments, models.TranscriptFragment{
				Text:     seg.Text,
				Start:    float64(seg.StartMs) / 1000,
				Duration: float64(seg.Duration) / 1000,
			})
		}
		return fragments, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no caption languages configured")
	}
	return nil, lastErr
}

// VideoInfoService looks up preview metadata for a video.
type VideoInfoService struct {
	ytClient *yt.Client
	timeout  time.Duration
}

func NewVideoInfoService(timeout time.Duration) *VideoInfoService {
	return &VideoInfoService{
		ytClient: &yt.Client{},
		timeout:  timeout,
	}
}

// Lookup always returns the id and thumbnail; title, author and duration
// are filled in when the player response can be fetched.
func (s *VideoInfoService) Lookup(ctx context.Context, videoID string) *models.VideoInfo {
	info := &models.VideoInfo{
		VideoID:      videoID,
		ThumbnailURL: ThumbnailURL(videoID),
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	video, err := s.ytClient.GetVideoContext(ctx, videoID)
	if err != nil {
		log.Printf("[video-info] metadata lookup failed for %s: %v", videoID, err)
		return info
	}

	info.Title = video.Title
	info.Author = video.Author
	info.DurationSeconds = int(video.Duration.Seconds())
	return info
}
