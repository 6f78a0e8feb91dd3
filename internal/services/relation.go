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

// RelationService maintains the relationship graph. Each user owns exactly
// one relation document; list membership has set semantics, enforced by
// Normalize on insert and $addToSet on updates.
type RelationService struct {
	relations *store.Collection[models.RelationDocument]
	refs      *models.ReferenceValidator
}

func NewRelationService(relations *store.Collection[models.RelationDocument], refs *models.ReferenceValidator) *RelationService {
	return &RelationService{relations: relations, refs: refs}
}

// AddRelation creates a user's relation document. The lists are
// deduplicated before insert; a second document for the same userid yields
// ErrorAlreadyExists from the unique index.
func (s *RelationService) AddRelation(ctx context.Context, doc *models.RelationDocument) (bson.ObjectID, error) {
	if doc.UserID == "" {
		return bson.NilObjectID, fmt.Errorf("relation has no owner: %w", common.ErrorValidation)
	}
	doc.Normalize()
	id, err := s.relations.Insert(ctx, doc)
	if err != nil {
		return bson.NilObjectID, fmt.Errorf("error creating relation: %w", err)
	}
	return id, nil
}

// GetRelation loads a user's relation document.
func (s *RelationService) GetRelation(ctx context.Context, userid string) (*models.RelationDocument, error) {
	doc, err := s.relations.FindOne(ctx, bson.M{"userid": userid})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUserNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Follow records that follower follows followee, updating both sides of
// the edge. Each side is an atomic $addToSet, so repeated follows are
// no-ops and concurrent follows never duplicate entries. A crash between
// the two writes leaves a half edge; the next Follow call repairs it.
func (s *RelationService) Follow(ctx context.Context, follower, followee string) error {
	if follower == followee {
		return fmt.Errorf("cannot follow self: %w", common.ErrorValidation)
	}
	if err := s.addToSet(ctx, follower, "follows", followee); err != nil {
		return err
	}
	return s.addToSet(ctx, followee, "followers", follower)
}

// Unfollow removes the follow edge from both sides. Unfollowing someone
// never followed is a no-op.
func (s *RelationService) Unfollow(ctx context.Context, follower, followee string) error {
	if err := s.pull(ctx, follower, "follows", followee); err != nil {
		return err
	}
	return s.pull(ctx, followee, "followers", follower)
}

// JoinGroup adds the group to the user's group list.
func (s *RelationService) JoinGroup(ctx context.Context, userid, group string) error {
	return s.addToSet(ctx, userid, "groups", group)
}

// LeaveGroup removes the group from the user's group list.
func (s *RelationService) LeaveGroup(ctx context.Context, userid, group string) error {
	return s.pull(ctx, userid, "groups", group)
}

// AddProject records a project, optionally marking it current.
func (s *RelationService) AddProject(ctx context.Context, userid, project string, current bool) error {
	if err := s.addToSet(ctx, userid, "projects", project); err != nil {
		return err
	}
	if !current {
		return nil
	}
	return s.addToSet(ctx, userid, "currprojects", project)
}

// FinishProject removes a project from the current list. It stays in the
// project history.
func (s *RelationService) FinishProject(ctx context.Context, userid, project string) error {
	return s.pull(ctx, userid, "currprojects", project)
}

// TrackAlbum appends an album reference to the user's relation document.
func (s *RelationService) TrackAlbum(ctx context.Context, userid string, ref models.DocumentReference) error {
	if err := s.refs.Validate(ref); err != nil {
		return err
	}
	return s.updateOwn(ctx, userid, bson.M{"$addToSet": bson.M{"albums": ref}})
}

// TrackMessage appends a message reference to the user's relation
// document.
func (s *RelationService) TrackMessage(ctx context.Context, userid string, ref models.DocumentReference) error {
	if err := s.refs.Validate(ref); err != nil {
		return err
	}
	return s.updateOwn(ctx, userid, bson.M{"$addToSet": bson.M{"messages": ref}})
}

func (s *RelationService) addToSet(ctx context.Context, userid, field, value string) error {
	return s.updateOwn(ctx, userid, bson.M{"$addToSet": bson.M{field: value}})
}

func (s *RelationService) pull(ctx context.Context, userid, field, value string) error {
	return s.updateOwn(ctx, userid, bson.M{"$pull": bson.M{field: value}})
}

func (s *RelationService) updateOwn(ctx context.Context, userid string, change bson.M) error {
	err := s.relations.UpdateOne(ctx, bson.M{"userid": userid}, change)
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorUserNotFound
	}
	return err
}
