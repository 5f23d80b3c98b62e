package tryon

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tryon/internal/domain"
	"tryon/internal/imagecodec"
	"tryon/internal/prompt"
)

type fakeValidator struct {
	person     domain.Person
	garment    domain.Garment
	dress      domain.DressAnalysis
	personErr  error
	garmentErr error
	calls      int
}

func (f *fakeValidator) ValidatePerson(context.Context, domain.Image) (domain.Person, error) {
	f.calls++
	return f.person, f.personErr
}

func (f *fakeValidator) ValidateGarment(context.Context, domain.Image) (domain.Garment, error) {
	f.calls++
	return f.garment, f.garmentErr
}

func (f *fakeValidator) AnalyzeDress(context.Context, domain.Image) (domain.DressAnalysis, error) {
	f.calls++
	return f.dress, nil
}

// scriptedGenerator returns results in order and repeats the last one.
type scriptedGenerator struct {
	results  []domain.Result
	requests []GenerationRequest
}

func (g *scriptedGenerator) Generate(_ context.Context, req GenerationRequest) domain.Result {
	g.requests = append(g.requests, req)
	idx := len(g.requests) - 1
	if idx >= len(g.results) {
		idx = len(g.results) - 1
	}
	return g.results[idx]
}

func (g *scriptedGenerator) prompts() []string {
	out := make([]string, 0, len(g.requests))
	for _, req := range g.requests {
		out = append(out, req.Prompt)
	}
	return out
}

var (
	validPerson  = domain.Person{IsPerson: true, Description: "man, standing", BodyVisible: true, PoseSuitable: true}
	validGarment = domain.Garment{IsClothing: true, ClothingType: "jacket", Description: "navy denim jacket", Color: "navy"}
	noImage      = domain.Fail(domain.KindNoImage, "no image produced")
)

func pngSource(t *testing.T, name string, w, h int) imagecodec.BytesSource {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return imagecodec.BytesSource{Filename: name, Data: buf.Bytes()}
}

func newTestPipeline(t *testing.T, v Validator, g Generator) (*Pipeline, *sleepRecorder) {
	t.Helper()
	rec := &sleepRecorder{}
	p, err := New(Options{
		Codec:     imagecodec.New(64),
		Validator: v,
		Generator: g,
		BaseDelay: time.Second,
		Sleep:     rec.sleep,
	})
	require.NoError(t, err)
	return p, rec
}

func success(data string) domain.Result {
	return domain.NewSuccess([]byte(data), "image/png")
}

func TestRunSuccessAttachesContext(t *testing.T) {
	gen := &scriptedGenerator{results: []domain.Result{success("out")}}
	p, _ := newTestPipeline(t, &fakeValidator{person: validPerson, garment: validGarment}, gen)

	res := p.Run(context.Background(), Request{
		Person:  pngSource(t, "person.png", 128, 32),
		Garment: pngSource(t, "garment.png", 16, 16),
		Style:   prompt.StyleWedding,
		Camera:  &prompt.CameraSettings{Angle: "low"},
	})

	require.True(t, res.OK())
	s := res.(domain.Success)
	assert.Equal(t, []byte("out"), s.Image)
	require.NotNil(t, s.Person)
	require.NotNil(t, s.Garment)
	assert.Equal(t, validPerson, *s.Person)
	assert.Equal(t, validGarment, *s.Garment)
	assert.Equal(t, prompt.Enhanced(validPerson, validGarment, prompt.StyleWedding, &prompt.CameraSettings{Angle: "low"}), s.Prompt)

	require.Len(t, gen.requests, 1)
	req := gen.requests[0]
	assert.Equal(t, s.Prompt, req.Prompt)
	assert.Equal(t, "image/jpeg", req.Person.MIMEType)
	assert.Equal(t, 64, req.Person.Width)
	assert.Equal(t, 16, req.Person.Height)
	assert.Equal(t, "image/png", req.Garment.MIMEType)
}

func TestRunRejectsNonPersonWithoutGenerating(t *testing.T) {
	gen := &scriptedGenerator{results: []domain.Result{success("out")}}
	notPerson := domain.Person{IsPerson: false, Description: "a landscape"}
	notClothing := domain.Garment{IsClothing: false, Description: "a chair"}
	p, _ := newTestPipeline(t, &fakeValidator{person: notPerson, garment: notClothing}, gen)

	res := p.Run(context.Background(), Request{Person: pngSource(t, "a.png", 8, 8), Garment: pngSource(t, "b.png", 8, 8)})

	failure, ok := res.(domain.Failure)
	require.True(t, ok)
	assert.Equal(t, domain.KindContentRejected, failure.Kind)
	assert.Equal(t, "not a person image", failure.Message)
	require.NotNil(t, failure.Person)
	assert.Equal(t, notPerson, *failure.Person)
	assert.Empty(t, gen.requests)
}

func TestRunRejectsNonClothing(t *testing.T) {
	gen := &scriptedGenerator{results: []domain.Result{success("out")}}
	p, _ := newTestPipeline(t, &fakeValidator{person: validPerson, garment: domain.Garment{Description: "a mug"}}, gen)

	res := p.Run(context.Background(), Request{Person: pngSource(t, "a.png", 8, 8), Garment: pngSource(t, "b.png", 8, 8)})

	failure := res.(domain.Failure)
	assert.Equal(t, domain.KindContentRejected, failure.Kind)
	assert.Equal(t, "not a clothing image", failure.Message)
	require.NotNil(t, failure.Garment)
	assert.Equal(t, "a mug", failure.Garment.Description)
	assert.Empty(t, gen.requests)
}

func TestRunValidationErrorShortCircuits(t *testing.T) {
	gen := &scriptedGenerator{results: []domain.Result{success("out")}}
	v := &fakeValidator{personErr: fmt.Errorf("validate person: %w: bad json", domain.ErrValidation)}
	p, _ := newTestPipeline(t, v, gen)

	res := p.Run(context.Background(), Request{Person: pngSource(t, "a.png", 8, 8), Garment: pngSource(t, "b.png", 8, 8)})

	failure := res.(domain.Failure)
	assert.Equal(t, domain.KindValidation, failure.Kind)
	assert.Equal(t, 1, v.calls)
	assert.Empty(t, gen.requests)
}

func TestRunMissingFile(t *testing.T) {
	gen := &scriptedGenerator{results: []domain.Result{success("out")}}
	v := &fakeValidator{person: validPerson, garment: validGarment}
	p, _ := newTestPipeline(t, v, gen)

	missing := imagecodec.FileSource(filepath.Join(t.TempDir(), "missing.jpg"))
	res := p.Run(context.Background(), Request{Person: missing, Garment: pngSource(t, "b.png", 8, 8)})

	assert.Equal(t, domain.KindNotFound, res.(domain.Failure).Kind)
	assert.Zero(t, v.calls)
	assert.Empty(t, gen.requests)
}

func TestValidatePersonMissingFile(t *testing.T) {
	p, _ := newTestPipeline(t, &fakeValidator{}, &scriptedGenerator{results: []domain.Result{noImage}})

	_, err := p.ValidatePerson(context.Background(), imagecodec.FileSource(filepath.Join(t.TempDir(), "nope.png")))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = p.ValidateGarment(context.Background(), imagecodec.FileSource(filepath.Join(t.TempDir(), "nope.png")))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestValidateDelegatesToValidator(t *testing.T) {
	v := &fakeValidator{person: validPerson, garment: validGarment}
	p, _ := newTestPipeline(t, v, &scriptedGenerator{results: []domain.Result{noImage}})

	person, err := p.ValidatePerson(context.Background(), pngSource(t, "a.png", 4, 4))
	require.NoError(t, err)
	assert.Equal(t, validPerson, person)

	garment, err := p.ValidateGarment(context.Background(), pngSource(t, "b.png", 4, 4))
	require.NoError(t, err)
	assert.Equal(t, validGarment, garment)
}

func TestAnalyzeDress(t *testing.T) {
	dress := domain.DressAnalysis{Schema: domain.DressSchema{ID: "sheath_satin", Name: "시스_새틴 드레스", Color: "화이트"}}
	v := &fakeValidator{dress: dress}
	gen := &scriptedGenerator{results: []domain.Result{noImage}}
	p, _ := newTestPipeline(t, v, gen)

	got, err := p.AnalyzeDress(context.Background(), pngSource(t, "dress.png", 4, 4))
	require.NoError(t, err)
	assert.Equal(t, dress, got)
	assert.Equal(t, 1, v.calls)
	assert.Empty(t, gen.requests)

	_, err = p.AnalyzeDress(context.Background(), imagecodec.FileSource(filepath.Join(t.TempDir(), "nope.png")))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 1, v.calls)
}

func TestRunExhaustsRetries(t *testing.T) {
	gen := &scriptedGenerator{results: []domain.Result{noImage}}
	p, rec := newTestPipeline(t, &fakeValidator{person: validPerson, garment: validGarment}, gen)

	res := p.Run(context.Background(), Request{Person: pngSource(t, "a.png", 8, 8), Garment: pngSource(t, "b.png", 8, 8)})

	failure := res.(domain.Failure)
	assert.Equal(t, domain.KindRetryExhausted, failure.Kind)
	assert.Equal(t, domain.KindNoImage, failure.Cause)
	assert.Equal(t, "no image produced", failure.Message)
	assert.Len(t, gen.requests, DefaultMaxRetries)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.delays)
	require.NotNil(t, failure.Person)
}

func TestRunIterativeAllRoundsSucceed(t *testing.T) {
	gen := &scriptedGenerator{results: []domain.Result{success("r0"), success("r1"), success("r2")}}
	p, _ := newTestPipeline(t, &fakeValidator{person: validPerson, garment: validGarment}, gen)
	person := pngSource(t, "a.png", 8, 8)

	res := p.RunIterative(context.Background(), person, pngSource(t, "b.png", 8, 8), 3)

	require.True(t, res.OK())
	s := res.(domain.Success)
	assert.Equal(t, []byte("r2"), s.Image)
	assert.Equal(t, 2, s.Round)
	assert.Equal(t, prompt.Refinement(validPerson, validGarment), s.Prompt)

	require.Len(t, gen.requests, 3)
	assert.Equal(t, []string{
		prompt.Default(validPerson, validGarment),
		prompt.Refinement(validPerson, validGarment),
		prompt.Refinement(validPerson, validGarment),
	}, gen.prompts())
	for _, req := range gen.requests {
		assert.Equal(t, person.Data, req.Person.Data)
	}
}

func TestRunIterativeFallsBackToEarlierRound(t *testing.T) {
	// round 0 succeeds, round 1 exhausts its two attempts, round 2 never runs
	gen := &scriptedGenerator{results: []domain.Result{success("r0"), noImage}}
	p, _ := newTestPipeline(t, &fakeValidator{person: validPerson, garment: validGarment}, gen)

	res := p.RunIterative(context.Background(), pngSource(t, "a.png", 8, 8), pngSource(t, "b.png", 8, 8), 3)

	require.True(t, res.OK())
	s := res.(domain.Success)
	assert.Equal(t, []byte("r0"), s.Image)
	assert.Equal(t, 0, s.Round)
	assert.Equal(t, prompt.Default(validPerson, validGarment), s.Prompt)
	assert.Len(t, gen.requests, 1+DefaultIterativeMaxRetries)
}

func TestRunIterativeRetriesWithinRound(t *testing.T) {
	gen := &scriptedGenerator{results: []domain.Result{noImage, success("r0"), success("r1")}}
	p, _ := newTestPipeline(t, &fakeValidator{person: validPerson, garment: validGarment}, gen)

	res := p.RunIterative(context.Background(), pngSource(t, "a.png", 8, 8), pngSource(t, "b.png", 8, 8), 2)

	require.True(t, res.OK())
	assert.Equal(t, []byte("r1"), res.(domain.Success).Image)
	assert.Equal(t, 1, res.(domain.Success).Round)
	assert.Len(t, gen.requests, 3)
}

func TestRunIterativeAllRoundsFail(t *testing.T) {
	gen := &scriptedGenerator{results: []domain.Result{domain.Fail(domain.KindTransport, "503")}}
	p, _ := newTestPipeline(t, &fakeValidator{person: validPerson, garment: validGarment}, gen)

	res := p.RunIterative(context.Background(), pngSource(t, "a.png", 8, 8), pngSource(t, "b.png", 8, 8), 3)

	failure, ok := res.(domain.Failure)
	require.True(t, ok)
	assert.Equal(t, domain.KindRetryExhausted, failure.Kind)
	assert.Equal(t, "all attempts failed", failure.Message)
	assert.Equal(t, domain.KindTransport, failure.Cause)
	assert.Len(t, gen.requests, DefaultIterativeMaxRetries)
}

func TestRunIterativeZeroIterations(t *testing.T) {
	gen := &scriptedGenerator{results: []domain.Result{success("r0")}}
	v := &fakeValidator{person: validPerson, garment: validGarment}
	p, _ := newTestPipeline(t, v, gen)

	res := p.RunIterative(context.Background(), pngSource(t, "a.png", 8, 8), pngSource(t, "b.png", 8, 8), 0)

	assert.Equal(t, "all attempts failed", res.(domain.Failure).Message)
	assert.Empty(t, gen.requests)
	assert.Equal(t, 2, v.calls)
}

func TestRunIterativeRejectsNonPerson(t *testing.T) {
	gen := &scriptedGenerator{results: []domain.Result{success("r0")}}
	p, _ := newTestPipeline(t, &fakeValidator{person: domain.Person{}, garment: validGarment}, gen)

	res := p.RunIterative(context.Background(), pngSource(t, "a.png", 8, 8), pngSource(t, "b.png", 8, 8), 2)

	assert.Equal(t, "not a person image", res.(domain.Failure).Message)
	assert.Empty(t, gen.requests)
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Options{Generator: &scriptedGenerator{}})
	assert.Error(t, err)
	_, err = New(Options{Validator: &fakeValidator{}})
	assert.Error(t, err)
}
