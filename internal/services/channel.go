package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/zalbum/albumdb/internal/common"
	"github.com/zalbum/albumdb/internal/models"
	"github.com/zalbum/albumdb/internal/store"
)

// ChannelService manages channel documents and evaluates channel
// permissions for every mutation. The channel owner is whoever created it;
// all other access flows through the permission map and default mask.
type ChannelService struct {
	channels *store.Collection[models.ChannelDocument]
	refs     *models.ReferenceValidator
}

func NewChannelService(channels *store.Collection[models.ChannelDocument], refs *models.ReferenceValidator) *ChannelService {
	return &ChannelService{channels: channels, refs: refs}
}

// AddChannel creates a channel. The document must name a post collection;
// the name is registered with the reference validator so references into
// the channel's posts validate from then on. The creator always holds
// Admin on the new channel.
func (s *ChannelService) AddChannel(ctx context.Context, doc *models.ChannelDocument) (bson.ObjectID, error) {
	if doc.UserID == "" {
		return bson.NilObjectID, fmt.Errorf("channel has no owner: %w", common.ErrorValidation)
	}
	if doc.PostCollection == "" {
		return bson.NilObjectID, fmt.Errorf("channel has no post collection: %w", common.ErrorValidation)
	}
	for _, board := range doc.MediaBoards {
		if err := s.refs.ValidateAll(board.Media); err != nil {
			return bson.NilObjectID, err
		}
	}

	if doc.Permissions == nil {
		doc.Permissions = map[string]models.ChannelPermission{}
	}
	doc.Permissions[doc.UserID] = models.ChannelAdmin

	id, err := s.channels.Insert(ctx, doc)
	if err != nil {
		return bson.NilObjectID, fmt.Errorf("error creating channel: %w", err)
	}
	s.refs.Allow(doc.PostCollection)
	return id, nil
}

// GetChannel loads one channel by id.
func (s *ChannelService) GetChannel(ctx context.Context, id bson.ObjectID) (*models.ChannelDocument, error) {
	return s.channels.FindOne(ctx, bson.M{"_id": id})
}

// SetTitle replaces the channel title. Requires ChannelTitle.
func (s *ChannelService) SetTitle(ctx context.Context, id bson.ObjectID, userid, title string) error {
	return s.update(ctx, id, userid, models.ChannelTitle, bson.M{"$set": bson.M{"title": title}})
}

// SetDescription replaces the channel description. Requires
// ChannelDescription.
func (s *ChannelService) SetDescription(ctx context.Context, id bson.ObjectID, userid, description string) error {
	return s.update(ctx, id, userid, models.ChannelDescription, bson.M{"$set": bson.M{"description": description}})
}

// AddTag appends a weighted tag to the channel. Requires ChannelTag.
func (s *ChannelService) AddTag(ctx context.Context, id bson.ObjectID, userid string, tag models.WeightedValue) error {
	return s.update(ctx, id, userid, models.ChannelTag, bson.M{"$push": bson.M{"tags": tag}})
}

// AddMediaBoard appends a media board to the channel. Requires
// ChannelBoard; every reference on the board must validate.
func (s *ChannelService) AddMediaBoard(ctx context.Context, id bson.ObjectID, userid string, board models.MediaBoard) error {
	if err := s.refs.ValidateAll(board.Media); err != nil {
		return err
	}
	return s.update(ctx, id, userid, models.ChannelBoard, bson.M{"$push": bson.M{"mediaboards": board}})
}

// SetPermission grants or replaces another user's permission mask on the
// channel. Requires ChannelAdmin; admins cannot strip their own Admin flag,
// so a channel never ends up unadministered.
func (s *ChannelService) SetPermission(ctx context.Context, id bson.ObjectID, actor, target string, perm models.ChannelPermission) error {
	channel, err := s.channels.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if !channel.Permission(actor).Has(models.ChannelAdmin) {
		return common.ErrorUnauthorized
	}
	if actor == target && !perm.Has(models.ChannelAdmin) {
		return fmt.Errorf("cannot drop own admin permission: %w", common.ErrorValidation)
	}
	return s.channels.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"permissions." + target: perm}},
	)
}

// SetDefaultPermission replaces the mask applied to users without an
// explicit entry. Requires ChannelAdmin.
func (s *ChannelService) SetDefaultPermission(ctx context.Context, id bson.ObjectID, actor string, perm models.ChannelPermission) error {
	return s.update(ctx, id, actor, models.ChannelAdmin, bson.M{"$set": bson.M{"defpermissions": perm}})
}

// update loads the channel, gates on the required permission, and applies
// the mutation.
func (s *ChannelService) update(ctx context.Context, id bson.ObjectID, userid string, required models.ChannelPermission, change bson.M) error {
	channel, err := s.channels.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if !channel.Permission(userid).Has(required) {
		return common.ErrorUnauthorized
	}
	return s.channels.UpdateOne(ctx, bson.M{"_id": id}, change)
}
