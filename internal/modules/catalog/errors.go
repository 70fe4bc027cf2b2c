package catalog

import "errors"

var ErrAnimeNotFound = errors.New("anime not found")
