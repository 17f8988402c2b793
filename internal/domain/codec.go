package domain

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"

	// Register decoders for the formats pdfimages and uploads produce.
	_ "image/gif"
	_ "image/png"
)

// jpegQuality is the fixed quality used when packaging images into the
// response envelope.
const jpegQuality = 85

// EncodeImageBase64 encodes an in-memory image to a base64 string in
// compressed JPEG form.
func EncodeImageBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", ConversionError("failed to encode image as JPEG", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeImageBase64 decodes a base64 string back into an image.
func DecodeImageBase64(data string) (image.Image, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, ValidationError("invalid base64 image data", err)
	}
	return DecodeImage(raw)
}

// DecodeImage decodes raw image bytes (JPEG, PNG or GIF).
func DecodeImage(raw []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ValidationError("failed to decode image data", err)
	}
	return img, nil
}
