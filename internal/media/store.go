// Package media handles image storage on the CDN and QR code generation.
package media

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"photoshare/internal/models"
	"photoshare/internal/observability"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Store is the interface to the image CDN.
type Store interface {
	// Upload stores the content under publicID and returns the delivery URL.
	Upload(ctx context.Context, content io.Reader, publicID string) (string, error)
	// TransformedURL builds a delivery URL applying t to an already
	// uploaded asset. No network call is made.
	TransformedURL(publicID string, t Transformation) (string, error)
	// Destroy removes the asset. Missing assets are not an error.
	Destroy(ctx context.Context, publicID string) error
}

// Transformation describes a server-side image transformation. Exactly one
// of the fields groups is set per request; Validate enforces that. The
// "fill" kind is internal (avatar thumbnails) and not offered on the API.
type Transformation struct {
	Kind   string // "crop", "fill", "roundcorners", "grayscale", "sepia"
	Width  int    // crop and fill only
	Height int    // crop and fill only
	Radius int    // roundcorners only
}

// Validate checks the transformation parameters.
func (t Transformation) Validate() error {
	switch t.Kind {
	case "crop", "fill":
		if t.Width <= 0 || t.Height <= 0 {
			return models.NewValidationError("Crop requires positive width and height")
		}
	case "roundcorners":
		if t.Radius <= 0 {
			return models.NewValidationError("Round corners requires a positive radius")
		}
	case "grayscale", "sepia":
		// No parameters.
	default:
		return models.NewValidationError(fmt.Sprintf("Unknown transformation %q", t.Kind))
	}
	return nil
}

// chain renders the transformation as a CDN URL component.
func (t Transformation) chain() string {
	switch t.Kind {
	case "crop":
		return fmt.Sprintf("c_crop,h_%d,w_%d", t.Height, t.Width)
	case "fill":
		return fmt.Sprintf("c_fill,h_%d,w_%d", t.Height, t.Width)
	case "roundcorners":
		return fmt.Sprintf("r_%d", t.Radius)
	case "grayscale":
		return "e_grayscale"
	case "sepia":
		return "e_sepia"
	}
	return ""
}

// AvatarTransformation is the fixed square thumbnail applied to avatars.
var AvatarTransformation = Transformation{Kind: "fill", Width: 250, Height: 250}

const uploadRetries = 2

type cloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStore creates a Store backed by Cloudinary.
func NewCloudinaryStore(cloudName, apiKey, apiSecret string) (Store, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize CDN client: %w", err)
	}
	return &cloudinaryStore{cld: cld}, nil
}

// Upload pushes content to the CDN. Transport failures are retried a couple
// of times with a short backoff; an API rejection is final and never retried.
func (s *cloudinaryStore) Upload(ctx context.Context, content io.Reader, publicID string) (string, error) {
	start := time.Now()
	defer func() {
		observability.CDNRequestDuration.WithLabelValues("upload").Observe(time.Since(start).Seconds())
	}()

	// The client consumes the reader, so buffer it for retries.
	data, err := io.ReadAll(content)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	var lastErr error
	for attempt := 0; attempt <= uploadRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", models.NewUpstreamError("Image upload cancelled", ctx.Err())
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		resp, err := s.cld.Upload.Upload(ctx, strings.NewReader(string(data)), uploader.UploadParams{
			PublicID:  publicID,
			Overwrite: api.Bool(true),
		})
		if err != nil {
			// Transport failure, worth retrying.
			lastErr = err
			continue
		}
		if resp.Error.Message != "" {
			// The CDN rejected the request; retrying cannot help.
			observability.CDNErrorsTotal.WithLabelValues("upload").Inc()
			return "", models.NewUpstreamError("Image upload rejected", fmt.Errorf("%s", resp.Error.Message))
		}
		return resp.SecureURL, nil
	}

	observability.CDNErrorsTotal.WithLabelValues("upload").Inc()
	return "", models.NewUpstreamError("Image upload failed", lastErr)
}

func (s *cloudinaryStore) TransformedURL(publicID string, t Transformation) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}

	img, err := s.cld.Image(publicID)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	img.Transformation = t.chain()

	url, err := img.String()
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return url, nil
}

func (s *cloudinaryStore) Destroy(ctx context.Context, publicID string) error {
	start := time.Now()
	defer func() {
		observability.CDNRequestDuration.WithLabelValues("destroy").Observe(time.Since(start).Seconds())
	}()

	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		observability.CDNErrorsTotal.WithLabelValues("destroy").Inc()
		return models.NewUpstreamError("Image deletion failed", err)
	}
	return nil
}

// PublicIDFromURL extracts the CDN public ID (folder/name, no extension)
// from a delivery URL. Returns "" if the URL is not a CDN delivery URL.
func PublicIDFromURL(url string) string {
	// Delivery URLs look like
	// https://res.cloudinary.com/<cloud>/image/upload/v123/<folder>/<name>.<ext>
	idx := strings.Index(url, "/upload/")
	if idx == -1 {
		return ""
	}
	rest := url[idx+len("/upload/"):]

	// Drop the version segment if present.
	if strings.HasPrefix(rest, "v") {
		if slash := strings.Index(rest, "/"); slash != -1 {
			version := rest[1:slash]
			if version != "" && strings.Trim(version, "0123456789") == "" {
				rest = rest[slash+1:]
			}
		}
	}

	if dot := strings.LastIndex(rest, "."); dot != -1 {
		rest = rest[:dot]
	}
	return rest
}
