package domain

import "time"

type Anime struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Synopsis string `json:"synopsis,omitempty"`
	Genre    string `json:"genre,omitempty"`
	Year     int    `json:"year,omitempty"`

	CoverURL     string `json:"cover_url,omitempty"`
	CoverImageID *int64 `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Episode struct {
	ID       int64  `json:"id"`
	AnimeID  int64  `json:"anime_id"`
	Number   int    `json:"number"`
	Title    string `json:"title"`
	VideoURL string `json:"video_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// AnimeImage is one entry of an anime's screenshot gallery. URL is the
// image locator, ImageID the blob-store row it points at.
type AnimeImage struct {
	ID      int64  `json:"id"`
	AnimeID int64  `json:"anime_id"`
	ImageID int64  `json:"-"`
	URL     string `json:"url"`

	CreatedAt time.Time `json:"created_at"`
}
