package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/zalbum/albumdb/internal/common"
	"github.com/zalbum/albumdb/internal/models"
	"github.com/zalbum/albumdb/internal/store"
)

// PostOpener yields a typed collection client for a per-channel post
// collection. The production opener wraps a Mongo driver; tests substitute
// memory drivers.
type PostOpener func(name string) *store.Collection[models.PostDocument]

// PostService writes posts, replies, and reactions into per-channel post
// collections. Every operation loads the channel first: the channel names
// the post collection and holds the permission masks the operation is
// gated on.
type PostService struct {
	channels *store.Collection[models.ChannelDocument]
	refs     *models.ReferenceValidator
	open     PostOpener

	mu     sync.Mutex
	opened map[string]*store.Collection[models.PostDocument]
}

func NewPostService(channels *store.Collection[models.ChannelDocument], refs *models.ReferenceValidator, open PostOpener) *PostService {
	return &PostService{
		channels: channels,
		refs:     refs,
		open:     open,
		opened:   make(map[string]*store.Collection[models.PostDocument]),
	}
}

// AddPost writes a root post into the channel's post collection. The
// author needs ChannelPost; every media reference must validate; and the
// post's text encryption flag must match the channel configuration, so an
// encrypted channel never holds plaintext and a plaintext channel never
// holds bytes nobody can read.
func (s *PostService) AddPost(ctx context.Context, channelID bson.ObjectID, post *models.PostDocument) (bson.ObjectID, error) {
	channel, posts, err := s.channelPosts(ctx, channelID)
	if err != nil {
		return bson.NilObjectID, err
	}
	if !channel.Permission(post.UserID).Has(models.ChannelPost) {
		return bson.NilObjectID, common.ErrorUnauthorized
	}
	if err := s.validatePost(channel, post); err != nil {
		return bson.NilObjectID, err
	}
	if !post.Parent.IsZero() {
		return bson.NilObjectID, fmt.Errorf("root post carries a parent: %w", common.ErrorValidation)
	}

	id, err := posts.Insert(ctx, post)
	if err != nil {
		return bson.NilObjectID, fmt.Errorf("error storing post: %w", err)
	}
	return id, nil
}

// AddReply writes a reply under parentID and links it into the parent's
// children list. The reply is inserted first; a crash between the two
// writes leaves an unlinked reply, never a dangling child id.
func (s *PostService) AddReply(ctx context.Context, channelID, parentID bson.ObjectID, reply *models.PostDocument) (bson.ObjectID, error) {
	channel, posts, err := s.channelPosts(ctx, channelID)
	if err != nil {
		return bson.NilObjectID, err
	}
	if !channel.Permission(reply.UserID).Has(models.ChannelPost) {
		return bson.NilObjectID, common.ErrorUnauthorized
	}
	if err := s.validatePost(channel, reply); err != nil {
		return bson.NilObjectID, err
	}
	if exists, err := posts.Exists(ctx, bson.M{"_id": parentID}); err != nil {
		return bson.NilObjectID, err
	} else if !exists {
		return bson.NilObjectID, fmt.Errorf("parent post %s: %w", parentID.Hex(), common.ErrorNotFound)
	}

	reply.Parent = parentID
	id, err := posts.Insert(ctx, reply)
	if err != nil {
		return bson.NilObjectID, fmt.Errorf("error storing reply: %w", err)
	}
	err = posts.UpdateOne(ctx,
		bson.M{"_id": parentID},
		bson.M{"$push": bson.M{"children": id}},
	)
	if err != nil {
		return bson.NilObjectID, fmt.Errorf("error linking reply: %w", err)
	}
	return id, nil
}

// AddReaction sets the user's reaction on a post. One reaction per user:
// reacting again replaces the previous one, and the write is a single
// atomic field set.
func (s *PostService) AddReaction(ctx context.Context, channelID, postID bson.ObjectID, userid, reaction string) error {
	channel, posts, err := s.channelPosts(ctx, channelID)
	if err != nil {
		return err
	}
	if !channel.Permission(userid).Has(models.ChannelRead) {
		return common.ErrorUnauthorized
	}
	return posts.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$set": bson.M{"reactions." + userid: reaction}},
	)
}

// GetPost loads one post from the channel's post collection. Requires
// ChannelRead.
func (s *PostService) GetPost(ctx context.Context, channelID, postID bson.ObjectID, userid string) (*models.PostDocument, error) {
	channel, posts, err := s.channelPosts(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if !channel.Permission(userid).Has(models.ChannelRead) {
		return nil, common.ErrorUnauthorized
	}
	return posts.FindOne(ctx, bson.M{"_id": postID})
}

func (s *PostService) validatePost(channel *models.ChannelDocument, post *models.PostDocument) error {
	if err := s.refs.ValidateAll(post.Media); err != nil {
		return err
	}
	if post.Text.Encrypted != channel.Encrypted {
		return fmt.Errorf("post encryption does not match channel configuration: %w", common.ErrorValidation)
	}
	if post.Timestamp == 0 {
		post.Timestamp = time.Now().Unix()
	}
	return nil
}

// channelPosts loads the channel and opens its post collection. Opened
// collections are cached per name so the index fast path is shared, and
// the name is registered with the reference validator so references into
// the collection validate even for channels created before this process
// started.
func (s *PostService) channelPosts(ctx context.Context, channelID bson.ObjectID) (*models.ChannelDocument, *store.Collection[models.PostDocument], error) {
	channel, err := s.channels.FindOne(ctx, bson.M{"_id": channelID})
	if err != nil {
		return nil, nil, err
	}
	if channel.PostCollection == "" {
		return nil, nil, fmt.Errorf("channel %s has no post collection: %w", channelID.Hex(), common.ErrorValidation)
	}

	s.mu.Lock()
	posts, ok := s.opened[channel.PostCollection]
	if !ok {
		posts = s.open(channel.PostCollection)
		s.opened[channel.PostCollection] = posts
	}
	s.mu.Unlock()

	s.refs.Allow(channel.PostCollection)
	return channel, posts, nil
}
