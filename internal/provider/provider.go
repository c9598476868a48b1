package provider

import (
	"context"
	"errors"

	"github.com/lbuchert/photowall/internal/photo"
)

// ErrNotFound is returned when the referenced photo or series does not exist.
var ErrNotFound = errors.New("not found")

// ErrUnauthorized is returned when the provider rejects the session token.
var ErrUnauthorized = errors.New("unauthorized")

// Page is one pagination window of photos.
type Page struct {
	Items      []photo.Item `json:"items"`
	NextCursor string       `json:"nextCursor"`
	HasMore    bool         `json:"hasMore"`
}

// PhotoPatch describes a partial photo update. Nil fields are left unchanged.
type PhotoPatch struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Category    *photo.Category `json:"category,omitempty"`
	Tags        []string        `json:"tags,omitempty"` // nil = unchanged
	IsPublic    *bool           `json:"isPublic,omitempty"`

	// SetSeries marks the series association as part of the patch.
	// With SetSeries true, a nil SeriesID clears the association.
	SeriesID  *string `json:"seriesId,omitempty"`
	SetSeries bool    `json:"setSeries,omitempty"`
}

// SeriesInput holds parameters for creating a new series.
type SeriesInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Provider is the photo data source consumed by the gallery engine.
// The first cursor of a listing is the empty string.
type Provider interface {
	ListPhotos(ctx context.Context, cursor string) (Page, error)
	ListMyPhotos(ctx context.Context, cursor string, category photo.Category) (Page, error)
	UpdatePhoto(ctx context.Context, id string, patch PhotoPatch) (photo.Item, error)
	DeletePhoto(ctx context.Context, id string) error
	ListSeries(ctx context.Context) ([]photo.Series, error)
	CreateSeries(ctx context.Context, input SeriesInput) (photo.Series, error)
}
