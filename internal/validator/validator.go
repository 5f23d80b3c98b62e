package validator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"tryon/internal/domain"
	"tryon/internal/infra"
)

// Describer sends one image plus an instruction to a vision model and
// returns the model's text answer.
type Describer interface {
	DescribeImage(ctx context.Context, img domain.Image, instruction string) (string, error)
}

// Validator classifies person and garment images through a Describer.
type Validator struct {
	describer Describer
	logger    *infra.Logger
}

func New(describer Describer, logger *infra.Logger) *Validator {
	return &Validator{describer: describer, logger: infra.OrDiscard(logger)}
}

type personPayload struct {
	IsPerson     *bool   `json:"is_person"`
	Description  *string `json:"description"`
	BodyVisible  *bool   `json:"body_visible"`
	PoseSuitable *bool   `json:"pose_suitable"`
}

type garmentPayload struct {
	IsClothing   *bool   `json:"is_clothing"`
	ClothingType *string `json:"clothing_type"`
	Description  *string `json:"description"`
	Color        *string `json:"color"`
	Pattern      *string `json:"pattern"`
}

// ValidatePerson asks whether img shows a person suitable for try-on.
func (v *Validator) ValidatePerson(ctx context.Context, img domain.Image) (domain.Person, error) {
	var payload personPayload
	if err := v.classify(ctx, img, PersonInstruction, &payload); err != nil {
		return domain.Person{}, fmt.Errorf("validate person: %w", err)
	}
	if payload.IsPerson == nil {
		return domain.Person{}, missingField("person", "is_person")
	}
	if payload.Description == nil {
		return domain.Person{}, missingField("person", "description")
	}
	person := domain.Person{
		IsPerson:     *payload.IsPerson,
		Description:  *payload.Description,
		BodyVisible:  boolOr(payload.BodyVisible, true),
		PoseSuitable: boolOr(payload.PoseSuitable, true),
	}
	v.logger.Debug().
		Bool("is_person", person.IsPerson).
		Bool("body_visible", person.BodyVisible).
		Bool("pose_suitable", person.PoseSuitable).
		Msg("validator: person classified")
	return person, nil
}

// ValidateGarment asks whether img shows a clothing item and extracts its
// type, colour and pattern.
func (v *Validator) ValidateGarment(ctx context.Context, img domain.Image) (domain.Garment, error) {
	var payload garmentPayload
	if err := v.classify(ctx, img, GarmentInstruction, &payload); err != nil {
		return domain.Garment{}, fmt.Errorf("validate clothing: %w", err)
	}
	switch {
	case payload.IsClothing == nil:
		return domain.Garment{}, missingField("clothing", "is_clothing")
	case payload.ClothingType == nil:
		return domain.Garment{}, missingField("clothing", "clothing_type")
	case payload.Description == nil:
		return domain.Garment{}, missingField("clothing", "description")
	}
	garment := domain.Garment{
		IsClothing:   *payload.IsClothing,
		ClothingType: *payload.ClothingType,
		Description:  *payload.Description,
		Color:        stringOr(payload.Color, ""),
		Pattern:      stringOr(payload.Pattern, ""),
	}
	v.logger.Debug().
		Bool("is_clothing", garment.IsClothing).
		Str("clothing_type", garment.ClothingType).
		Msg("validator: clothing classified")
	return garment, nil
}

type dressPayload struct {
	Prompt *string             `json:"prompt"`
	Schema *domain.DressSchema `json:"schema"`
}

// AnalyzeDress asks for a prompt and a tagged schema describing a dress.
// A missing prompt is treated as empty; the schema object is required.
func (v *Validator) AnalyzeDress(ctx context.Context, img domain.Image) (domain.DressAnalysis, error) {
	var payload dressPayload
	if err := v.classify(ctx, img, DressInstruction, &payload); err != nil {
		return domain.DressAnalysis{}, fmt.Errorf("analyze dress: %w", err)
	}
	if payload.Schema == nil {
		return domain.DressAnalysis{}, fmt.Errorf("analyze dress: %w: missing field %q", domain.ErrValidation, "schema")
	}
	analysis := domain.DressAnalysis{
		Prompt: stringOr(payload.Prompt, ""),
		Schema: *payload.Schema,
	}
	for _, tags := range []*[]string{
		&analysis.Schema.Line, &analysis.Schema.Material, &analysis.Schema.Neckline,
		&analysis.Schema.Sleeve, &analysis.Schema.Keyword, &analysis.Schema.Detail,
		&analysis.Schema.DressLengths,
	} {
		if *tags == nil {
			*tags = []string{}
		}
	}
	v.logger.Debug().
		Str("dress_id", analysis.Schema.ID).
		Str("dress_name", analysis.Schema.Name).
		Msg("validator: dress analyzed")
	return analysis, nil
}

func (v *Validator) classify(ctx context.Context, img domain.Image, instruction string, out any) error {
	if v.describer == nil {
		return fmt.Errorf("%w: no vision provider configured", domain.ErrValidation)
	}
	if len(img.Data) == 0 {
		return fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrInvalidImage)
	}
	text, err := v.describer.DescribeImage(ctx, img, instruction)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	body := StripCodeFence(text)
	if body == "" {
		return fmt.Errorf("%w: empty model response", domain.ErrValidation)
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return fmt.Errorf("%w: decode model response: %w", domain.ErrValidation, err)
	}
	return nil
}

// StripCodeFence removes a markdown code fence (```json or ```) wrapped
// around a model response and trims surrounding whitespace.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	}
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func missingField(kind, field string) error {
	return fmt.Errorf("validate %s: %w: missing field %q", kind, domain.ErrValidation, field)
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func stringOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
