package domain

// DressAnalysis is the structured description of a dress image. The schema
// tags are returned as the model wrote them; no vocabulary is enforced.
type DressAnalysis struct {
	Prompt string      `json:"prompt"`
	Schema DressSchema `json:"schema"`
}

type DressSchema struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Line         []string `json:"line"`
	Material     []string `json:"material"`
	Color        string   `json:"color"`
	Neckline     []string `json:"neckline"`
	Sleeve       []string `json:"sleeve"`
	Keyword      []string `json:"keyword"`
	Detail       []string `json:"detail"`
	DressLengths []string `json:"dress_lengths"`
}
