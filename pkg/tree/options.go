package tree

// Layout defaults.
const (
	DefaultHorizontalGap = 200.0
	DefaultVerticalGap   = 100.0
	DefaultMargin        = 50.0
)

// Options configures the layout. Zero or negative values fall back to the
// defaults.
type Options struct {
	HorizontalGap float64 // distance between adjacent leaves
	VerticalGap   float64 // distance between depth levels
	Margin        float64 // offset applied to both axes after normalization
}

// WithDefaults returns a copy of o with unset fields filled in.
func (o Options) WithDefaults() Options {
	if o.HorizontalGap <= 0 {
		o.HorizontalGap = DefaultHorizontalGap
	}
	if o.VerticalGap <= 0 {
		o.VerticalGap = DefaultVerticalGap
	}
	if o.Margin <= 0 {
		o.Margin = DefaultMargin
	}
	return o
}
