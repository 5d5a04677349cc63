package cache

// Keyer derives cache keys.
type Keyer interface {
	// FetchKey keys a remote document by URL.
	FetchKey(url string) string

	// LayoutKey keys a layout by document hash and layout options.
	LayoutKey(docHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact by layout hash and render options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the options that change a layout.
type LayoutKeyOpts struct {
	HorizontalGap float64 `json:"h"`
	VerticalGap   float64 `json:"v"`
	Margin        float64 `json:"m"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"f"`
	VizType    string  `json:"viz"`
	Theme      string  `json:"t"`
	Highlight  string  `json:"hl,omitempty"`
	NodeWidth  float64 `json:"w"`
	NodeHeight float64 `json:"h"`
}

// DefaultKeyer produces unscoped keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// FetchKey generates a key for a fetched remote document.
func (k *DefaultKeyer) FetchKey(url string) string {
	return hashKey("fetch", url)
}

// LayoutKey generates a key for a computed layout.
func (k *DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = (*DefaultKeyer)(nil)
