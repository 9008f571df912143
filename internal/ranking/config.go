package ranking

// WeightsConfig holds the per-field weights of the free-text score.
type WeightsConfig struct {
	Title    float64 `yaml:"title"`    // default: 3
	Category float64 `yaml:"category"` // default: 2
	Tags     float64 `yaml:"tags"`     // default: 2
	Excerpt  float64 `yaml:"excerpt"`  // default: 1
}

// DefaultWeightsConfig returns the default field weights.
func DefaultWeightsConfig() *WeightsConfig {
	return &WeightsConfig{
		Title:    3,
		Category: 2,
		Tags:     2,
		Excerpt:  1,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *WeightsConfig) ApplyDefaults() {
	defaults := DefaultWeightsConfig()

	if c.Title == 0 {
		c.Title = defaults.Title
	}
	if c.Category == 0 {
		c.Category = defaults.Category
	}
	if c.Tags == 0 {
		c.Tags = defaults.Tags
	}
	if c.Excerpt == 0 {
		c.Excerpt = defaults.Excerpt
	}
}

// Weight returns the configured weight for field f.
func (c *WeightsConfig) Weight(f Field) float64 {
	switch f {
	case FieldTitle:
		return c.Title
	case FieldCategory:
		return c.Category
	case FieldTags:
		return c.Tags
	case FieldExcerpt:
		return c.Excerpt
	default:
		return 0
	}
}
