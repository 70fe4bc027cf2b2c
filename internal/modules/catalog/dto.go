package catalog

type CreateAnimeRequest struct {
	Title    string `form:"title" binding:"required"`
	Synopsis string `form:"synopsis"`
	Genre    string `form:"genre"`
	Year     int    `form:"year"`
}

type UpdateAnimeRequest struct {
	Title    *string `form:"title"`
	Synopsis *string `form:"synopsis"`
	Genre    *string `form:"genre"`
	Year     *int    `form:"year"`
}

type CreateEpisodeRequest struct {
	Number   int    `json:"number" binding:"required,min=1"`
	Title    string `json:"title" binding:"required"`
	VideoURL string `json:"video_url"`
}
