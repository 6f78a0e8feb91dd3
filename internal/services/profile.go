package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/zalbum/albumdb/internal/common"
	"github.com/zalbum/albumdb/internal/models"
	"github.com/zalbum/albumdb/internal/store"
)

// ProfileService manages profile documents. A user may own several
// profiles (personal, group, project) distinguished by title; the
// (userid, title) pair is unique across the collection.
type ProfileService struct {
	profiles *store.Collection[models.ProfileDocument]
	refs     *models.ReferenceValidator
}

func NewProfileService(profiles *store.Collection[models.ProfileDocument], refs *models.ReferenceValidator) *ProfileService {
	return &ProfileService{profiles: profiles, refs: refs}
}

// AddProfile creates a profile. Inserting a second profile with the same
// (userid, title) pair yields ErrorAlreadyExists from the unique index.
// The owner always holds Admin on the new profile.
func (s *ProfileService) AddProfile(ctx context.Context, doc *models.ProfileDocument) (bson.ObjectID, error) {
	if doc.UserID == "" {
		return bson.NilObjectID, fmt.Errorf("profile has no owner: %w", common.ErrorValidation)
	}
	if err := s.refs.ValidateAll(doc.Channels); err != nil {
		return bson.NilObjectID, err
	}

	if doc.Permissions == nil {
		doc.Permissions = map[string]models.ProfilePermission{}
	}
	doc.Permissions[doc.UserID] = models.ProfileAdmin

	id, err := s.profiles.Insert(ctx, doc)
	if err != nil {
		return bson.NilObjectID, fmt.Errorf("error creating profile: %w", err)
	}
	return id, nil
}

// GetProfile loads one profile by owner and title.
func (s *ProfileService) GetProfile(ctx context.Context, userid, title string) (*models.ProfileDocument, error) {
	return s.profiles.FindOne(ctx, bson.M{"userid": userid, "title": title})
}

// AttachChannel appends a channel reference to the profile. Requires
// ProfileChannel; the reference must validate.
func (s *ProfileService) AttachChannel(ctx context.Context, id bson.ObjectID, userid string, ref models.DocumentReference) error {
	if err := s.refs.Validate(ref); err != nil {
		return err
	}
	return s.update(ctx, id, userid, models.ProfileChannel, bson.M{"$push": bson.M{"channels": ref}})
}

// SetTitle replaces the profile title. Requires ProfileTitle. The unique
// index rejects the change if the owner already has a profile under the
// new title.
func (s *ProfileService) SetTitle(ctx context.Context, id bson.ObjectID, userid, title string) error {
	return s.update(ctx, id, userid, models.ProfileTitle, bson.M{"$set": bson.M{"title": title}})
}

// SetDescription replaces the profile description. Requires
// ProfileDescription.
func (s *ProfileService) SetDescription(ctx context.Context, id bson.ObjectID, userid, description string) error {
	return s.update(ctx, id, userid, models.ProfileDescription, bson.M{"$set": bson.M{"description": description}})
}

// AddTag appends a weighted tag to the profile. Requires ProfileTag.
func (s *ProfileService) AddTag(ctx context.Context, id bson.ObjectID, userid string, tag models.WeightedValue) error {
	return s.update(ctx, id, userid, models.ProfileTag, bson.M{"$push": bson.M{"tags": tag}})
}

// SetPermission grants or replaces another user's permission mask on the
// profile. Requires ProfileAdmin; admins cannot strip their own Admin
// flag.
func (s *ProfileService) SetPermission(ctx context.Context, id bson.ObjectID, actor, target string, perm models.ProfilePermission) error {
	profile, err := s.profiles.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if !profile.Permission(actor).Has(models.ProfileAdmin) {
		return common.ErrorUnauthorized
	}
	if actor == target && !perm.Has(models.ProfileAdmin) {
		return fmt.Errorf("cannot drop own admin permission: %w", common.ErrorValidation)
	}
	return s.profiles.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"permissions." + target: perm}},
	)
}

func (s *ProfileService) update(ctx context.Context, id bson.ObjectID, userid string, required models.ProfilePermission, change bson.M) error {
	profile, err := s.profiles.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if !profile.Permission(userid).Has(required) {
		return common.ErrorUnauthorized
	}
	return s.profiles.UpdateOne(ctx, bson.M{"_id": id}, change)
}
