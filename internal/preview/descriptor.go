package preview

import "media-preview/internal/mediatypes"

// Descriptor is the JSON body returned for a preview request.
type Descriptor struct {
	Type     string  `json:"type"`
	URL      string  `json:"url"`
	ThumbURL *string `json:"thumb_url"`

	Kind mediatypes.Kind `json:"-"`
}

func newDescriptor(kind mediatypes.Kind, url string, thumb *string) Descriptor {
	return Descriptor{
		Type:     kind.Label(),
		URL:      url,
		ThumbURL: thumb,
		Kind:     kind,
	}
}
