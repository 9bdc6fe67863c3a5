package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"studycoach-backend/internal/models"
)

// Generator is the generative-text model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Fetcher resolves a URL to its flattened transcript.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ProgressFunc receives step notifications while a bundle is generated.
// It may be called from several goroutines at once.
type ProgressFunc func(step int, stepName string)

var artifactSteps = map[models.ArtifactKind]struct {
	step int
	name string
}{
	models.ArtifactSummary:      {2, "Generating Summary"},
	models.ArtifactFlashcards:   {3, "Generating Flashcards"},
	models.ArtifactRevisionPlan: {4, "Generating Revision Plan"},
	models.ArtifactResources:    {5, "Finding Extra Resources"},
}

const transcriptStepName = "Extracting transcript and analyzing"

// Pipeline turns a video URL into a StudyMaterialBundle. The transcript is
// fetched once, then the four artifacts are generated concurrently. Nothing
// is retried.
type Pipeline struct {
	fetcher   Fetcher
	generator Generator
	now       func() time.Time
}

func NewPipeline(fetcher Fetcher, generator Generator) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		generator: generator,
		now:       time.Now,
	}
}

func (p *Pipeline) FetchTranscript(ctx context.Context, url string) (string, error) {
	return p.fetcher.Fetch(ctx, url)
}

func (p *Pipeline) GenerateBundle(ctx context.Context, url string, level models.Level) (*models.StudyMaterialBundle, error) {
	return p.GenerateBundleWithProgress(ctx, url, level, nil)
}

// GenerateBundleWithProgress fails only when the transcript cannot be
// obtained, in which case no generation call is made.
func (p *Pipeline) GenerateBundleWithProgress(ctx context.Context, url string, level models.Level, progress ProgressFunc) (*models.StudyMaterialBundle, error) {
	videoID, ok := ResolveIdentifier(url)
	if !ok {
		return nil, ErrInvalidURL
	}

	if progress != nil {
		progress(1, transcriptStepName)
	}

	transcript, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	return p.BundleFromTranscript(ctx, url, videoID, transcript, level, progress), nil
}

// BundleFromTranscript runs the four generations for an already fetched
// transcript and joins them. Failed artifacts carry FallbackText.
func (p *Pipeline) BundleFromTranscript(ctx context.Context, url, videoID, transcript string, level models.Level, progress ProgressFunc) *models.StudyMaterialBundle {
	artifacts := make([]models.Artifact, len(models.ArtifactKinds))

	var g errgroup.Group
	for i, kind := range models.ArtifactKinds {
		g.Go(func() error {
			if progress != nil {
				step := artifactSteps[kind]
				progress(step.step, step.name)
			}
			artifacts[i] = p.GenerateArtifact(ctx, kind, transcript, level)
			return nil
		})
	}
	_ = g.Wait()

	bundle := &models.StudyMaterialBundle{
		ID:              uuid.New(),
		VideoID:         videoID,
		SourceURL:       url,
		Level:           level,
		FailedArtifacts: []models.ArtifactKind{},
		CreatedAt:       p.now(),
	}
	for _, a := range artifacts {
		switch a.Kind {
		case models.ArtifactSummary:
			bundle.Summary = a.Text
		case models.ArtifactFlashcards:
			bundle.Flashcards = a.Text
		case models.ArtifactRevisionPlan:
			bundle.RevisionPlan = a.Text
		case models.ArtifactResources:
			bundle.Resources = a.Text
		}
		if a.Failed {
			bundle.FailedArtifacts = append(bundle.FailedArtifacts, a.Kind)
		}
	}

	return bundle
}

// GenerateArtifact issues exactly one model call for kind. It never fails:
// errors are recorded on the artifact and its text set to FallbackText.
func (p *Pipeline) GenerateArtifact(ctx context.Context, kind models.ArtifactKind, transcript string, level models.Level) models.Artifact {
	prompt := BuildPrompt(kind, level, transcript)
	if prompt == "" {
		return failedArtifact(kind, errors.New("unknown artifact kind"))
	}

	text, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		return failedArtifact(kind, err)
	}
	if strings.TrimSpace(text) == "" {
		return failedArtifact(kind, fmt.Errorf("%w: empty response", ErrGenerationFailed))
	}

	return models.Artifact{Kind: kind, Text: text}
}

func (p *Pipeline) GenerateSummary(ctx context.Context, transcript string, level models.Level) models.Artifact {
	return p.GenerateArtifact(ctx, models.ArtifactSummary, transcript, level)
}

func (p *Pipeline) GenerateFlashcards(ctx context.Context, transcript string, level models.Level) models.Artifact {
	return p.GenerateArtifact(ctx, models.ArtifactFlashcards, transcript, level)
}

func (p *Pipeline) GenerateRevisionPlan(ctx context.Context, transcript string, level models.Level) models.Artifact {
	return p.GenerateArtifact(ctx, models.ArtifactRevisionPlan, transcript, level)
}

func (p *Pipeline) GenerateResources(ctx context.Context, transcript string) models.Artifact {
	return p.GenerateArtifact(ctx, models.ArtifactResources, transcript, models.LevelUnknown)
}

func failedArtifact(kind models.ArtifactKind, err error) models.Artifact {
	return models.Artifact{
		Kind:   kind,
		Text:   FallbackText,
		Failed: true,
		Error:  err.Error(),
	}
}
