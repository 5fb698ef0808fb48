package screening

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/screening-diagnostic/internal/ingestion"
	"github.com/jonathan/screening-diagnostic/internal/logger"
	"github.com/jonathan/screening-diagnostic/internal/types"
)

// DefaultWorkers bounds how many uploads of a batch are decoded and scored at once.
const DefaultWorkers = 4

// Batch decodes and scores a set of uploads against one job profile.
type Batch struct {
	scorer  *Scorer
	decoder *ingestion.Decoder
	workers int
	logger  *zap.Logger
}

// NewBatch creates a batch screener. A nil logger disables logging.
func NewBatch(scorer *Scorer, decoder *ingestion.Decoder, workers int, log *zap.Logger) *Batch {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Batch{scorer: scorer, decoder: decoder, workers: workers, logger: log}
}

// Run screens uploads in order. Candidates are numbered from offset+1 so names stay
// unique when a session accumulates several batches.
//
// An unknown job key fails the whole batch. A file that cannot be decoded only
// fails its own candidate, which carries the error text instead of a result.
func (b *Batch) Run(ctx context.Context, jobKey string, uploads []ingestion.Upload, offset int) ([]types.Candidate, error) {
	profile, err := b.scorer.Profile(jobKey)
	if err != nil {
		return nil, err
	}

	candidates := make([]types.Candidate, len(uploads))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i, u := range uploads {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			candidates[i] = b.screenOne(u, profile, fmt.Sprintf("Candidate_%d", offset+i+1))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("screening batch: %w", err)
	}

	return candidates, nil
}

func (b *Batch) screenOne(u ingestion.Upload, profile types.JobProfile, name string) types.Candidate {
	c := types.Candidate{
		ID:       uuid.New(),
		Name:     name,
		Filename: u.Filename,
		JobType:  profile.Key,
	}

	log := logger.WithFields(b.logger,
		zap.String("candidate", name),
		zap.String(logger.FieldFile, u.Filename),
	)

	doc, err := b.decoder.Decode(u)
	if err != nil {
		log.Warn("upload could not be decoded", zap.Error(err))
		c.Error = err.Error()
		return c
	}

	result := Score(doc.Text, profile)
	c.Charset = doc.Charset
	c.Preview = doc.Preview()
	c.Result = &result

	log.Debug("candidate screened",
		zap.String(logger.FieldJobType, profile.Key),
		zap.String("preview", logger.TruncateForLog(c.Preview, 60)),
		zap.Int("total_score", result.TotalScore),
		zap.String("decision", string(result.Decision)),
		zap.Bool("placeholder", doc.Placeholder),
		zap.String("sha256", doc.Metadata.Hash),
		zap.Int("bytes", doc.Metadata.Size))

	return c
}

// Summarize counts decisions across candidates. The acceptance rate is a
// percentage of the candidates that were scored.
func Summarize(candidates []types.Candidate) types.ScreeningSummary {
	s := types.ScreeningSummary{Processed: len(candidates)}
	for _, c := range candidates {
		switch {
		case !c.Scored():
			s.Failed++
		case c.Result.Accepted():
			s.Accepted++
		default:
			s.Rejected++
		}
	}
	if scored := s.Accepted + s.Rejected; scored > 0 {
		s.AcceptanceRate = float64(s.Accepted) / float64(scored) * 100
	}
	return s
}
