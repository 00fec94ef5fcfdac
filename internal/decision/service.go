package decision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"contentguard/internal/audit"
	"contentguard/internal/business"
	"contentguard/internal/classifier"
	"contentguard/internal/decision/metrics"
	"contentguard/internal/domain"
	"contentguard/internal/fusion"
	"contentguard/internal/policy"
	"contentguard/pkg/requestcontext"
)

const defaultClassifierTimeout = 5 * time.Second

// ProfileStore is the slice of the business store the service needs.
type ProfileStore interface {
	Get(ctx context.Context, id string) (business.Profile, error)
}

// PolicySource yields the active policy snapshot per decision.
type PolicySource interface {
	Current() *policy.Config
}

// AnalyzeRequest carries one content submission through the pipeline.
type AnalyzeRequest struct {
	Text             string
	Images           []string
	RegisteredDomain string
	BusinessID       string
}

// ServiceConfig wires the service's collaborators.
type ServiceConfig struct {
	Engine            *Engine
	Policies          PolicySource
	Profiles          ProfileStore
	Predictor         classifier.Predictor
	Audit             *audit.Publisher
	Metrics           *metrics.Metrics
	Logger            *slog.Logger
	FusionWeights     fusion.Weights
	ClassifierTimeout time.Duration
}

// Service runs the full analysis pipeline: preprocess, classify per modality,
// fuse, resolve the business, decide, and record the outcome.
type Service struct {
	engine            *Engine
	policies          PolicySource
	profiles          ProfileStore
	predictor         classifier.Predictor
	audit             *audit.Publisher
	metrics           *metrics.Metrics
	logger            *slog.Logger
	weights           fusion.Weights
	classifierTimeout time.Duration
	tracer            trace.Tracer
}

func NewService(cfg ServiceConfig) *Service {
	weights := cfg.FusionWeights
	if weights.Text == 0 && weights.Image == 0 {
		weights = fusion.DefaultWeights
	}
	timeout := cfg.ClassifierTimeout
	if timeout <= 0 {
		timeout = defaultClassifierTimeout
	}
	return &Service{
		engine:            cfg.Engine,
		policies:          cfg.Policies,
		profiles:          cfg.Profiles,
		predictor:         cfg.Predictor,
		audit:             cfg.Audit,
		metrics:           cfg.Metrics,
		logger:            cfg.Logger,
		weights:           weights,
		classifierTimeout: timeout,
		tracer:            otel.Tracer("contentguard/decision"),
	}
}

// Analyze runs one submission through classification, fusion, and the decision
// engine. It never returns an error: every failure mode collapses into a
// Result whose Status says what happened, so callers cannot accidentally treat
// a broken pipeline as an approval.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) Result {
	ctx, span := s.tracer.Start(ctx, "decision.analyze")
	defer span.End()

	start := time.Now()
	res := s.analyze(ctx, req)
	s.metrics.IncrementOutcome(string(res.Status))
	s.metrics.ObserveAnalyzeLatency(time.Since(start))

	span.SetAttributes(
		attribute.String("decision.status", string(res.Status)),
		attribute.String("decision.category", res.DetectedCategory),
		attribute.Float64("decision.confidence", res.Confidence),
	)

	s.logger.InfoContext(ctx, "decision evaluated",
		"request_id", requestcontext.RequestID(ctx),
		"business_id", req.BusinessID,
		"registered_domain", req.RegisteredDomain,
		"status", res.Status,
		"category", res.DetectedCategory,
		"confidence", res.Confidence,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	s.recordAudit(ctx, req, res)
	return res
}

func (s *Service) analyze(ctx context.Context, req AnalyzeRequest) Result {
	pol := s.policies.Current()

	text := preprocess(req.Text)
	contentEmpty := text == "" && len(req.Images) == 0

	textPred, imagePreds, err := s.gatherPredictions(ctx, text, req.Images, pol)
	if err != nil {
		return Result{
			Status:           StatusError,
			Reason:           err.Error(),
			DetectedCategory: domain.CategoryError,
		}
	}

	fused := fusion.Fuse(textPred, imagePreds, s.weights)

	profile, errRes := s.lookupProfile(ctx, req.BusinessID)
	if errRes != nil {
		return *errRes
	}

	return s.engine.Decide(Input{
		Prediction:       fused.Prediction,
		RegisteredDomain: req.RegisteredDomain,
		Profile:          profile,
		ContentEmpty:     contentEmpty,
	}, pol)
}

// Evaluate runs the engine directly over a caller-supplied prediction,
// bypassing classification and fusion. Used when a trusted upstream already
// classified the content.
func (s *Service) Evaluate(ctx context.Context, pred domain.Prediction, registeredDomain, businessID string) Result {
	pol := s.policies.Current()

	profile, errRes := s.lookupProfile(ctx, businessID)
	if errRes != nil {
		return *errRes
	}

	res := s.engine.Decide(Input{
		Prediction:       pred,
		RegisteredDomain: registeredDomain,
		Profile:          profile,
	}, pol)

	s.metrics.IncrementOutcome(string(res.Status))
	s.recordAudit(ctx, AnalyzeRequest{RegisteredDomain: registeredDomain, BusinessID: businessID}, res)
	return res
}

// EvaluateModalities fuses caller-supplied per-modality predictions with the
// service's configured weights before evaluation.
func (s *Service) EvaluateModalities(ctx context.Context, text *domain.Prediction, images []domain.Prediction, registeredDomain, businessID string) Result {
	fused := fusion.Fuse(text, images, s.weights)
	return s.Evaluate(ctx, fused.Prediction, registeredDomain, businessID)
}

// gatherPredictions fans classifier calls out per modality. One failed
// modality degrades to the other; the pipeline only errors when every
// requested modality failed.
func (s *Service) gatherPredictions(ctx context.Context, text string, images []string, pol *policy.Config) (*domain.Prediction, []domain.Prediction, error) {
	ctx, cancel := context.WithTimeout(ctx, s.classifierTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	var (
		textPred   *domain.Prediction
		textErr    error
		imagePreds = make([]*domain.Prediction, len(images))
		imageErrs  = make([]error, len(images))
	)

	if text != "" {
		g.Go(func() error {
			start := time.Now()
			pred, err := s.predictor.PredictText(ctx, text)
			s.metrics.ObserveClassifierLatency("text", time.Since(start))
			if err != nil {
				textErr = err
				return nil
			}
			pred.IsRestricted = pred.IsRestricted || pol.IsRestricted(fusion.Canonical(pred.Category))
			textPred = &pred
			return nil
		})
	}

	for i, ref := range images {
		g.Go(func() error {
			start := time.Now()
			pred, err := s.predictor.PredictImage(ctx, ref)
			s.metrics.ObserveClassifierLatency("image", time.Since(start))
			if err != nil {
				imageErrs[i] = err
				return nil
			}
			pred.IsRestricted = pred.IsRestricted || pol.IsRestricted(fusion.Canonical(pred.Category))
			imagePreds[i] = &pred
			return nil
		})
	}

	// Goroutines stash failures instead of returning them, so Wait only
	// reports context-level problems.
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var kept []domain.Prediction
	for i, p := range imagePreds {
		if p != nil {
			kept = append(kept, *p)
		} else if imageErrs[i] != nil {
			s.logger.WarnContext(ctx, "image classification failed",
				"request_id", requestcontext.RequestID(ctx),
				"image_index", i,
				"error", imageErrs[i],
			)
		}
	}
	if textErr != nil {
		s.logger.WarnContext(ctx, "text classification failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", textErr,
		)
	}

	requested := len(images)
	if text != "" {
		requested++
	}
	if requested > 0 && textPred == nil && len(kept) == 0 {
		if textErr != nil {
			return nil, nil, fmt.Errorf("all classifier modalities failed: %w", textErr)
		}
		return nil, nil, fmt.Errorf("all classifier modalities failed: %w", firstErr(imageErrs))
	}

	return textPred, kept, nil
}

// lookupProfile resolves the business profile when an ID was supplied. A
// missing profile falls back to anonymous enforcement, matching onboarding
// flows where content arrives before the profile replicates. A store failure
// is an Error result: authorization is never guessed while the store is down.
func (s *Service) lookupProfile(ctx context.Context, businessID string) (*business.Profile, *Result) {
	if businessID == "" {
		return nil, nil
	}

	profile, err := s.profiles.Get(ctx, businessID)
	if err != nil {
		if errors.Is(err, business.ErrNotFound) {
			s.logger.WarnContext(ctx, "business profile not found, using fallback enforcement",
				"request_id", requestcontext.RequestID(ctx),
				"business_id", businessID,
			)
			return nil, nil
		}
		s.logger.ErrorContext(ctx, "business profile lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"business_id", businessID,
			"error", err,
		)
		return nil, &Result{
			Status: StatusError,
			Reason: fmt.Sprintf("business profile lookup failed: %v", err),
		}
	}
	return &profile, nil
}

func (s *Service) recordAudit(ctx context.Context, req AnalyzeRequest, res Result) {
	if s.audit == nil {
		return
	}
	err := s.audit.Emit(ctx, audit.Event{
		RequestID:        requestcontext.RequestID(ctx),
		BusinessID:       req.BusinessID,
		RegisteredDomain: req.RegisteredDomain,
		DetectedCategory: res.DetectedCategory,
		Status:           string(res.Status),
		Reason:           res.Reason,
		Confidence:       res.Confidence,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "audit emit failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

func firstErr(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return errors.New("unknown classifier failure")
}

var urlPattern = regexp.MustCompile(`https?://\S+`)

// preprocess normalizes the submitted text the way the classifier expects:
// URLs stripped, whitespace collapsed. Text that has no letters or digits left
// afterwards counts as empty.
func preprocess(text string) string {
	cleaned := urlPattern.ReplaceAllString(text, " ")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if !strings.ContainsFunc(cleaned, func(r rune) bool {
		return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
	}) {
		return ""
	}
	return cleaned
}
