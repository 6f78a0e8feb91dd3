package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/zalbum/albumdb/internal/blobstore"
	"github.com/zalbum/albumdb/internal/common"
	"github.com/zalbum/albumdb/internal/media"
	"github.com/zalbum/albumdb/internal/models"
	"github.com/zalbum/albumdb/internal/store"
)

// MediaService stores media metadata in the media collection and payloads
// in the blob store. A document's URI is the blob key; the payload bytes
// never enter the cluster.
type MediaService struct {
	docs  *store.Collection[models.MediaDocument]
	blobs blobstore.Store
	codec *media.Codec
}

func NewMediaService(docs *store.Collection[models.MediaDocument], blobs blobstore.Store) *MediaService {
	return &MediaService{
		docs:  docs,
		blobs: blobs,
		codec: media.NewCodec(),
	}
}

// AddMedia encodes the payload per the document's media type, uploads it
// under a fresh key, and inserts the document with its URI set. NONE-typed
// documents carry no payload and skip the upload.
func (s *MediaService) AddMedia(ctx context.Context, doc *models.MediaDocument, payload any) (bson.ObjectID, error) {
	data, err := s.codec.Encode(doc.Type, payload)
	if err != nil {
		return bson.NilObjectID, fmt.Errorf("error encoding payload: %w", err)
	}

	if data != nil {
		key := storageKey(time.Now())
		if err := s.blobs.Put(ctx, key, data); err != nil {
			return bson.NilObjectID, fmt.Errorf("error uploading payload: %w", err)
		}
		doc.URI = key
	}
	if doc.Timestamp == 0 {
		doc.Timestamp = time.Now().Unix()
	}

	id, err := s.docs.Insert(ctx, doc)
	if err != nil {
		return bson.NilObjectID, fmt.Errorf("error storing media document: %w", err)
	}
	return id, nil
}

// GetMedia loads one media document by id.
func (s *MediaService) GetMedia(ctx context.Context, id bson.ObjectID) (*models.MediaDocument, error) {
	return s.docs.FindOne(ctx, bson.M{"_id": id})
}

// GetPayload downloads and decodes the payload of a media document.
// Documents without a payload yield (nil, nil).
func (s *MediaService) GetPayload(ctx context.Context, id bson.ObjectID) (any, error) {
	doc, err := s.docs.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if doc.URI == "" {
		return nil, nil
	}
	data, err := s.blobs.Get(ctx, doc.URI)
	if err != nil {
		return nil, fmt.Errorf("error downloading payload: %w", err)
	}
	return s.codec.Decode(doc.Type, data)
}

// GetMediaURL returns a presigned download URL for the document's payload,
// so clients fetch large payloads straight from the blob store.
func (s *MediaService) GetMediaURL(ctx context.Context, id bson.ObjectID) (string, error) {
	doc, err := s.docs.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		return "", err
	}
	if doc.URI == "" {
		return "", fmt.Errorf("media %s has no payload: %w", id.Hex(), common.ErrorNotFound)
	}
	return s.blobs.PresignGet(ctx, doc.URI)
}

// AddTag appends a weighted tag to a media document.
func (s *MediaService) AddTag(ctx context.Context, id bson.ObjectID, tag models.WeightedValue) error {
	return s.docs.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{"tags": tag}},
	)
}

// storageKey builds a date-partitioned blob key. The uuid suffix makes keys
// unguessable, so a presigned URL for one payload discloses nothing about
// its neighbours.
func storageKey(now time.Time) string {
	return fmt.Sprintf("media/%04d/%02d/%02d/%s",
		now.Year(), int(now.Month()), now.Day(), uuid.NewString())
}
