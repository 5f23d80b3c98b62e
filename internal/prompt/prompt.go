package prompt

import (
	"fmt"
	"strings"

	"tryon/internal/domain"
)

// Style selects the base prompt template.
type Style string

const (
	StyleDefault Style = "default"
	StyleWedding Style = "wedding"
)

// ParseStyle maps user input to a Style. Unknown values fall back to the
// default template.
func ParseStyle(s string) Style {
	if strings.EqualFold(strings.TrimSpace(s), string(StyleWedding)) {
		return StyleWedding
	}
	return StyleDefault
}

// Default is the general try-on prompt.
func Default(p domain.Person, g domain.Garment) string {
	return fmt.Sprintf(defaultTemplate, p.Description, g.Description, g.ClothingType)
}

// Wedding is the bridal portrait variant.
func Wedding(p domain.Person, g domain.Garment) string {
	return fmt.Sprintf(weddingTemplate, p.Description, g.Description)
}

// Refinement asks the model to improve on a previous round while keeping
// the default requirements.
func Refinement(p domain.Person, g domain.Garment) string {
	return refinementPreamble + Default(p, g)
}

// Enhanced picks the base template for style and appends camera directions
// when any are given.
func Enhanced(p domain.Person, g domain.Garment, style Style, camera *CameraSettings) string {
	var base string
	if style == StyleWedding {
		base = Wedding(p, g)
	} else {
		base = Default(p, g)
	}
	return base + camera.section()
}

// CameraSettings are optional photographic directions.
type CameraSettings struct {
	ShotType     string `json:"shot_type,omitempty"`
	FocalLength  string `json:"focal_length,omitempty"`
	Angle        string `json:"angle,omitempty"`
	DepthOfField string `json:"depth_of_field,omitempty"`
}

// CameraSettingsFromMap reads the shot_type, focal_length, angle and
// depth_of_field keys. It returns nil when none of them is set.
func CameraSettingsFromMap(m map[string]string) *CameraSettings {
	cs := &CameraSettings{
		ShotType:     strings.TrimSpace(m["shot_type"]),
		FocalLength:  strings.TrimSpace(m["focal_length"]),
		Angle:        strings.TrimSpace(m["angle"]),
		DepthOfField: strings.TrimSpace(m["depth_of_field"]),
	}
	if cs.IsZero() {
		return nil
	}
	return cs
}

func (c *CameraSettings) IsZero() bool {
	return c == nil || (c.ShotType == "" && c.FocalLength == "" && c.Angle == "" && c.DepthOfField == "")
}

func (c *CameraSettings) section() string {
	if c.IsZero() {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n\nCamera Settings:\n")
	line := func(label, value string) {
		if value != "" {
			b.WriteString("- " + label + ": " + value + "\n")
		}
	}
	line("Shot type", c.ShotType)
	line("Focal length", c.FocalLength)
	line("Angle", c.Angle)
	line("Depth of field", c.DepthOfField)
	return b.String()
}
