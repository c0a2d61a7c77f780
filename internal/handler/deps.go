package handler

import (
	"bilemo-api/internal/cache"
	"bilemo-api/internal/database"
	"bilemo-api/internal/serializer"

	"github.com/rs/zerolog"
)

// Deps are the collaborators shared by the resource handlers.
type Deps struct {
	DB       database.DB
	Cache    cache.TaggedCache
	Versions serializer.VersionProvider
	// MaxLimit clamps the page size of list reads.
	MaxLimit int
	// Log receives failures a handler recovers from without failing the request.
	Log      zerolog.Logger
}
