package tryon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tryon/internal/domain"
	"tryon/internal/imagecodec"
	"tryon/internal/infra"
	"tryon/internal/prompt"
)

const (
	msgNotPerson       = "not a person image"
	msgNotClothing     = "not a clothing image"
	msgAllRoundsFailed = "all attempts failed"
)

// DefaultIterations is the round count used when callers do not pick one.
const DefaultIterations = 2

// Validator classifies already loaded images.
type Validator interface {
	ValidatePerson(ctx context.Context, img domain.Image) (domain.Person, error)
	ValidateGarment(ctx context.Context, img domain.Image) (domain.Garment, error)
	AnalyzeDress(ctx context.Context, img domain.Image) (domain.DressAnalysis, error)
}

// Options wires a Pipeline. Zero retry settings fall back to the package
// defaults.
type Options struct {
	Codec               *imagecodec.Codec
	Validator           Validator
	Generator           Generator
	MaxRetries          int
	IterativeMaxRetries int
	BaseDelay           time.Duration
	Sleep               func(ctx context.Context, d time.Duration) error
	Logger              *infra.Logger
}

// Request is the input of a single-pass try-on.
type Request struct {
	Person    imagecodec.Source
	Garment   imagecodec.Source
	Style     prompt.Style
	Camera    *prompt.CameraSettings
	RequestID string
}

// Pipeline chains validation, prompt construction and retried generation.
// It keeps no state between calls.
type Pipeline struct {
	codec               *imagecodec.Codec
	validator           Validator
	generator           Generator
	maxRetries          int
	iterativeMaxRetries int
	baseDelay           time.Duration
	sleep               func(ctx context.Context, d time.Duration) error
	logger              *infra.Logger
}

func New(opts Options) (*Pipeline, error) {
	if opts.Validator == nil {
		return nil, errors.New("tryon: validator is required")
	}
	if opts.Generator == nil {
		return nil, errors.New("tryon: generator is required")
	}
	codec := opts.Codec
	if codec == nil {
		codec = imagecodec.New(imagecodec.DefaultMaxDimension)
	}
	p := &Pipeline{
		codec:               codec,
		validator:           opts.Validator,
		generator:           opts.Generator,
		maxRetries:          opts.MaxRetries,
		iterativeMaxRetries: opts.IterativeMaxRetries,
		baseDelay:           opts.BaseDelay,
		sleep:               opts.Sleep,
		logger:              infra.OrDiscard(opts.Logger),
	}
	if p.maxRetries <= 0 {
		p.maxRetries = DefaultMaxRetries
	}
	if p.iterativeMaxRetries <= 0 {
		p.iterativeMaxRetries = DefaultIterativeMaxRetries
	}
	if p.baseDelay <= 0 {
		p.baseDelay = DefaultBaseDelay
	}
	return p, nil
}

// ValidatePerson loads src and classifies it. A missing file yields an error
// matching both domain.ErrValidation and domain.ErrNotFound.
func (p *Pipeline) ValidatePerson(ctx context.Context, src imagecodec.Source) (domain.Person, error) {
	img, err := p.load(src)
	if err != nil {
		return domain.Person{}, err
	}
	return p.validator.ValidatePerson(ctx, img)
}

// ValidateGarment is the clothing counterpart of ValidatePerson.
func (p *Pipeline) ValidateGarment(ctx context.Context, src imagecodec.Source) (domain.Garment, error) {
	img, err := p.load(src)
	if err != nil {
		return domain.Garment{}, err
	}
	return p.validator.ValidateGarment(ctx, img)
}

// AnalyzeDress loads src and returns its dress description. It runs one
// vision call and never generates.
func (p *Pipeline) AnalyzeDress(ctx context.Context, src imagecodec.Source) (domain.DressAnalysis, error) {
	img, err := p.load(src)
	if err != nil {
		return domain.DressAnalysis{}, err
	}
	return p.validator.AnalyzeDress(ctx, img)
}

// Run performs one validated, retried generation.
func (p *Pipeline) Run(ctx context.Context, req Request) domain.Result {
	log := p.logger.With().Str("request_id", req.RequestID).Str("mode", "single").Logger()

	in, failure := p.prepare(ctx, &log, req.Person, req.Garment)
	if failure != nil {
		return *failure
	}

	text := prompt.Enhanced(in.person, in.garment, req.Style, req.Camera)
	log.Info().Str("stage", "generate").Str("style", string(req.Style)).Int("max_retries", p.maxRetries).Msg("try-on generation started")

	res := WithRetry(ctx, p.attempt(in, text, req.RequestID), p.policy(p.maxRetries, &log))
	return in.attach(res, text, 0)
}

// RunIterative regenerates from the original images for up to iterations
// rounds, refining the prompt after round zero. It stops at the first failed
// round and returns the most recent success.
func (p *Pipeline) RunIterative(ctx context.Context, person, garment imagecodec.Source, iterations int) domain.Result {
	return p.runIterative(ctx, person, garment, iterations, "")
}

// RunIterativeWithID is RunIterative with a request id threaded into logs.
func (p *Pipeline) RunIterativeWithID(ctx context.Context, person, garment imagecodec.Source, iterations int, requestID string) domain.Result {
	return p.runIterative(ctx, person, garment, iterations, requestID)
}

func (p *Pipeline) runIterative(ctx context.Context, person, garment imagecodec.Source, iterations int, requestID string) domain.Result {
	log := p.logger.With().Str("request_id", requestID).Str("mode", "iterative").Logger()

	in, failure := p.prepare(ctx, &log, person, garment)
	if failure != nil {
		return *failure
	}

	history := make([]domain.Result, 0, max(iterations, 0))
	for round := 0; round < iterations; round++ {
		text := prompt.Default(in.person, in.garment)
		if round > 0 {
			text = prompt.Refinement(in.person, in.garment)
		}
		log.Info().Str("stage", "generate").Int("round", round+1).Int("iterations", iterations).Msg("refinement round started")

		res := WithRetry(ctx, p.attempt(in, text, requestID), p.policy(p.iterativeMaxRetries, &log))
		history = append(history, in.attach(res, text, round))
		if !res.OK() {
			log.Warn().Int("round", round+1).Msg("refinement round failed, stopping")
			break
		}
	}

	for i := len(history) - 1; i >= 0; i-- {
		if history[i].OK() {
			return history[i]
		}
	}

	out := domain.Failure{
		Kind:     domain.KindRetryExhausted,
		Message:  msgAllRoundsFailed,
		Attempts: len(history),
		Person:   &in.person,
		Garment:  &in.garment,
	}
	if n := len(history); n > 0 {
		if last, ok := history[n-1].(domain.Failure); ok {
			if last.Kind == domain.KindCanceled {
				return last
			}
			out.Cause = last.Cause
			if out.Cause == "" {
				out.Cause = last.Kind
			}
		}
	}
	return out
}

type prepared struct {
	person  domain.Person
	garment domain.Garment
	// transport-encoded images, computed once per invocation
	personImg  domain.Image
	garmentImg domain.Image
}

// prepare validates both inputs, applies the content checks and encodes the
// images for transport. A non-nil Failure ends the invocation.
func (p *Pipeline) prepare(ctx context.Context, log *infra.Logger, personSrc, garmentSrc imagecodec.Source) (*prepared, *domain.Failure) {
	if personSrc == nil || garmentSrc == nil {
		f := domain.Fail(domain.KindValidation, "person and clothing images are required")
		return nil, &f
	}

	log.Info().Str("stage", "validate").Str("person", personSrc.Name()).Str("clothing", garmentSrc.Name()).Msg("validating inputs")
	personRaw, err := p.load(personSrc)
	if err != nil {
		return nil, failFrom(ctx, err)
	}
	garmentRaw, err := p.load(garmentSrc)
	if err != nil {
		return nil, failFrom(ctx, err)
	}
	person, err := p.validator.ValidatePerson(ctx, personRaw)
	if err != nil {
		return nil, failFrom(ctx, err)
	}
	garment, err := p.validator.ValidateGarment(ctx, garmentRaw)
	if err != nil {
		return nil, failFrom(ctx, err)
	}

	if !person.IsPerson {
		log.Info().Str("stage", "validate").Str("description", person.Description).Msg("person image rejected")
		return nil, &domain.Failure{Kind: domain.KindContentRejected, Message: msgNotPerson, Person: &person, Garment: &garment}
	}
	if !garment.IsClothing {
		log.Info().Str("stage", "validate").Str("description", garment.Description).Msg("clothing image rejected")
		return nil, &domain.Failure{Kind: domain.KindContentRejected, Message: msgNotClothing, Person: &person, Garment: &garment}
	}

	personImg, err := p.codec.Reencode(personSrc.Name(), personRaw.Data)
	if err != nil {
		return nil, failFrom(ctx, err)
	}
	garmentImg, err := p.codec.Reencode(garmentSrc.Name(), garmentRaw.Data)
	if err != nil {
		return nil, failFrom(ctx, err)
	}
	log.Debug().
		Str("stage", "encode").
		Int("person_bytes", len(personImg.Data)).
		Int("clothing_bytes", len(garmentImg.Data)).
		Msg("inputs encoded for transport")

	return &prepared{person: person, garment: garment, personImg: personImg, garmentImg: garmentImg}, nil
}

func (p *Pipeline) attempt(in *prepared, text, requestID string) AttemptFunc {
	return func(ctx context.Context, _ int) domain.Result {
		return p.generator.Generate(ctx, GenerationRequest{
			Person:    in.personImg,
			Garment:   in.garmentImg,
			Prompt:    text,
			RequestID: requestID,
		})
	}
}

func (p *Pipeline) policy(maxRetries int, log *infra.Logger) RetryPolicy {
	return RetryPolicy{MaxRetries: maxRetries, BaseDelay: p.baseDelay, Sleep: p.sleep, Logger: log}
}

func (p *Pipeline) load(src imagecodec.Source) (domain.Image, error) {
	img, err := p.codec.Load(src)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Image{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		return domain.Image{}, err
	}
	return img, nil
}

// attach copies the classification records and prompt onto res.
func (in *prepared) attach(res domain.Result, text string, round int) domain.Result {
	person, garment := in.person, in.garment
	switch r := res.(type) {
	case domain.Success:
		r.Person = &person
		r.Garment = &garment
		r.Prompt = text
		r.Round = round
		return r
	case domain.Failure:
		r.Person = &person
		r.Garment = &garment
		return r
	}
	return res
}

func failFrom(ctx context.Context, err error) *domain.Failure {
	f := domain.FailFromContext(ctx, err)
	return &f
}
