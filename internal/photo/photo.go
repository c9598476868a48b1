package photo

import "time"

// Category is the primary grouping of a photo.
type Category string

// Known categories. CategoryAll is a selector value, not a valid item category.
const (
	CategoryAll          Category = "all"
	CategoryPortrait     Category = "portrait"
	CategoryLandscape    Category = "landscape"
	CategoryStreet       Category = "street"
	CategoryNature       Category = "nature"
	CategoryArchitecture Category = "architecture"
	CategoryOther        Category = "other"
)

// Categories lists the selectable item categories in display order.
var Categories = []Category{
	CategoryPortrait,
	CategoryLandscape,
	CategoryStreet,
	CategoryNature,
	CategoryArchitecture,
	CategoryOther,
}

// Item represents one gallery entry.
type Item struct {
	ID               string    `json:"id"`
	DisplayURL       string    `json:"displayUrl"`
	ThumbnailURL     string    `json:"thumbnailUrl"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	OwnerName        string    `json:"ownerName"`
	Category         Category  `json:"category"`
	Tags             []string  `json:"tags"`
	LikeCount        int       `json:"likeCount"`
	LocationLabel    string    `json:"locationLabel"`
	UploadedAt       time.Time `json:"uploadedAt"`
	SeriesID         *string   `json:"seriesId"` // nil = no series
	IsPublic         bool      `json:"isPublic"`
	IsPortfolioPiece bool      `json:"isPortfolioPiece"`
}

// NewItemParams holds parameters for creating a new Item.
type NewItemParams struct {
	Title         string
	DisplayURL    string
	ThumbnailURL  string
	Description   string
	OwnerName     string
	Category      Category
	Tags          []string
	LocationLabel string
	IsPublic      bool
}

// NewItem creates an Item with generated UUID and upload timestamp.
func NewItem(params NewItemParams) Item {
	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}

	thumb := params.ThumbnailURL
	if thumb == "" {
		thumb = params.DisplayURL
	}

	return Item{
		ID:            generateUUID(),
		DisplayURL:    params.DisplayURL,
		ThumbnailURL:  thumb,
		Title:         params.Title,
		Description:   params.Description,
		OwnerName:     params.OwnerName,
		Category:      params.Category,
		Tags:          tags,
		LocationLabel: params.LocationLabel,
		UploadedAt:    time.Now(),
		IsPublic:      params.IsPublic,
	}
}

// HasLocation reports whether the item carries a usable location label.
// Placeholder labels exported by some clients ("-", "unknown") do not count.
func (i Item) HasLocation() bool {
	switch i.LocationLabel {
	case "", "-", "unknown", "Unknown":
		return false
	}
	return true
}
