// Package domain holds the response envelope, the image codec and the error
// taxonomy shared by the parser, the vision client and the HTTP layer.
package domain

import "image"

// ImageResponse is one extracted image packaged for the response envelope.
// Instances are created only through DocumentResponse.AddImage* and are never
// mutated afterwards.
type ImageResponse struct {
	Image     string         `json:"image"`
	ImageName string         `json:"image_name"`
	ImageInfo map[string]any `json:"image_info"`
}

// DocumentResponse is the parse result returned to callers: extracted text,
// the images discovered in the source document (in discovery order), free-form
// metadata and optional text chunks. It is owned by the request that created
// it and must not be shared across requests.
type DocumentResponse struct {
	Text     string          `json:"text"`
	Images   []ImageResponse `json:"images"`
	Metadata map[string]any  `json:"metadata"`
	Chunks   []string        `json:"chunks"`
}

// NewDocumentResponse creates an envelope with empty (non-nil) collections so
// the JSON serialization always carries [] and {} rather than null.
func NewDocumentResponse(text string) *DocumentResponse {
	return &DocumentResponse{
		Text:     text,
		Images:   []ImageResponse{},
		Metadata: map[string]any{},
		Chunks:   []string{},
	}
}

// AddImage re-encodes img to compressed base64 and appends it to the ordered
// image list. Name uniqueness is not enforced.
func (r *DocumentResponse) AddImage(name string, img image.Image, info map[string]any) error {
	encoded, err := EncodeImageBase64(img)
	if err != nil {
		return err
	}
	if info == nil {
		info = map[string]any{}
	}
	r.Images = append(r.Images, ImageResponse{
		Image:     encoded,
		ImageName: name,
		ImageInfo: info,
	})
	return nil
}

// AddImageBase64 decodes base64 image data, normalizes it through the codec
// and appends it like AddImage.
func (r *DocumentResponse) AddImageBase64(name, data string, info map[string]any) error {
	img, err := DecodeImageBase64(data)
	if err != nil {
		return err
	}
	return r.AddImage(name, img, info)
}
