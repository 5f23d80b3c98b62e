package domain

// Person is the classification of a person image.
type Person struct {
	IsPerson     bool   `json:"is_person"`
	Description  string `json:"description"`
	BodyVisible  bool   `json:"body_visible"`
	PoseSuitable bool   `json:"pose_suitable"`
}

// Garment is the classification of a clothing image.
type Garment struct {
	IsClothing   bool   `json:"is_clothing"`
	ClothingType string `json:"clothing_type"`
	Description  string `json:"description"`
	Color        string `json:"color"`
	Pattern      string `json:"pattern"`
}

// Image is an encoded image together with its declared media type. Width and
// Height are zero when the bytes were not decoded.
type Image struct {
	Data     []byte
	MIMEType string
	Width    int
	Height   int
}
