package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/zalbum/albumdb/internal/common"
	"github.com/zalbum/albumdb/internal/models"
	"github.com/zalbum/albumdb/internal/store"
)

// AlbumService manages curated media albums. Album titles are globally
// unique, so an album is addressable by title alone.
type AlbumService struct {
	albums *store.Collection[models.AlbumDocument]
	refs   *models.ReferenceValidator
}

func NewAlbumService(albums *store.Collection[models.AlbumDocument], refs *models.ReferenceValidator) *AlbumService {
	return &AlbumService{albums: albums, refs: refs}
}

// AddAlbum creates an album. A title collision yields ErrorAlreadyExists
// from the unique index; every media reference must validate.
func (s *AlbumService) AddAlbum(ctx context.Context, doc *models.AlbumDocument) (bson.ObjectID, error) {
	if doc.Title == "" {
		return bson.NilObjectID, fmt.Errorf("album has no title: %w", common.ErrorValidation)
	}
	if err := s.refs.ValidateAll(doc.Media); err != nil {
		return bson.NilObjectID, err
	}
	id, err := s.albums.Insert(ctx, doc)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return bson.NilObjectID, common.ErrorAlreadyExists
		}
		return bson.NilObjectID, fmt.Errorf("error creating album: %w", err)
	}
	return id, nil
}

// GetAlbum loads one album by title.
func (s *AlbumService) GetAlbum(ctx context.Context, title string) (*models.AlbumDocument, error) {
	return s.albums.FindOne(ctx, bson.M{"title": title})
}

// AddMedia appends a media reference to the album.
func (s *AlbumService) AddMedia(ctx context.Context, title string, ref models.DocumentReference) error {
	if err := s.refs.Validate(ref); err != nil {
		return err
	}
	return s.albums.UpdateOne(ctx,
		bson.M{"title": title},
		bson.M{"$addToSet": bson.M{"media": ref}},
	)
}

// AddReaction sets the user's reaction on the album, replacing any
// previous one.
func (s *AlbumService) AddReaction(ctx context.Context, title, userid, reaction string) error {
	return s.albums.UpdateOne(ctx,
		bson.M{"title": title},
		bson.M{"$set": bson.M{"reactions." + userid: reaction}},
	)
}

// AddTag appends a weighted tag to the album.
func (s *AlbumService) AddTag(ctx context.Context, title string, tag models.WeightedValue) error {
	return s.albums.UpdateOne(ctx,
		bson.M{"title": title},
		bson.M{"$push": bson.M{"tags": tag}},
	)
}
