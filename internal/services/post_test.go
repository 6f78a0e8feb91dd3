package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/zalbum/albumdb/internal/common"
	"github.com/zalbum/albumdb/internal/models"
	"github.com/zalbum/albumdb/internal/store"
)

type postFixture struct {
	channels *ChannelService
	posts    *PostService
	refs     *models.ReferenceValidator
}

func newPostFixture(t *testing.T) *postFixture {
	t.Helper()
	cfg := testConfig()
	channels := store.NewCollection[models.ChannelDocument](store.NewMemoryDriver(), ChannelSchema(cfg.ChannelCollection), nil)
	refs := models.NewReferenceValidator(cfg.MediaCollection, cfg.ChannelCollection)
	opener := func(name string) *store.Collection[models.PostDocument] {
		return store.NewCollection[models.PostDocument](store.NewMemoryDriver(), PostSchema(name), nil)
	}
	return &postFixture{
		channels: NewChannelService(channels, refs),
		posts:    NewPostService(channels, refs, opener),
		refs:     refs,
	}
}

func (f *postFixture) addChannel(t *testing.T, doc *models.ChannelDocument) bson.ObjectID {
	t.Helper()
	id, err := f.channels.AddChannel(context.Background(), doc)
	require.NoError(t, err)
	return id
}

func TestPostService_AddPost(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	chID := f.addChannel(t, &models.ChannelDocument{
		UserID:             "alice",
		PostCollection:     "posts_general",
		DefaultPermissions: models.ChannelRead | models.ChannelPost,
	})

	id, err := f.posts.AddPost(ctx, chID, &models.PostDocument{
		UserID: "bob",
		Title:  "hello",
		Text:   models.EncryptedText{Text: []byte("first post")},
	})
	require.NoError(t, err)

	post, err := f.posts.GetPost(ctx, chID, id, "bob")
	require.NoError(t, err)
	assert.Equal(t, "hello", post.Title)
	assert.True(t, post.IsRoot())
	assert.NotZero(t, post.Timestamp)
}

func TestPostService_AddPost_RequiresPostPermission(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	chID := f.addChannel(t, &models.ChannelDocument{
		UserID:             "alice",
		PostCollection:     "posts_locked",
		DefaultPermissions: models.ChannelRead,
	})

	_, err := f.posts.AddPost(ctx, chID, &models.PostDocument{UserID: "bob"})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	// The owner posts through the Admin short circuit.
	_, err = f.posts.AddPost(ctx, chID, &models.PostDocument{UserID: "alice"})
	assert.NoError(t, err)
}

func TestPostService_AddPost_EncryptionRule(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	plain := f.addChannel(t, &models.ChannelDocument{
		UserID:             "alice",
		PostCollection:     "posts_plain",
		DefaultPermissions: models.ChannelPost,
	})
	encrypted := f.addChannel(t, &models.ChannelDocument{
		UserID:             "alice",
		PostCollection:     "posts_sealed",
		Encrypted:          true,
		DefaultPermissions: models.ChannelPost,
	})

	// Encrypted text in a plaintext channel is rejected.
	_, err := f.posts.AddPost(ctx, plain, &models.PostDocument{
		UserID: "bob",
		Text:   models.EncryptedText{Text: []byte{0x1f, 0x8b}, Encrypted: true},
	})
	assert.ErrorIs(t, err, common.ErrorValidation)

	// Plaintext in an encrypted channel is rejected.
	_, err = f.posts.AddPost(ctx, encrypted, &models.PostDocument{
		UserID: "bob",
		Text:   models.EncryptedText{Text: []byte("leak")},
	})
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = f.posts.AddPost(ctx, encrypted, &models.PostDocument{
		UserID: "bob",
		Text:   models.EncryptedText{Text: []byte{0x1f, 0x8b}, Encrypted: true},
	})
	assert.NoError(t, err)
}

func TestPostService_AddPost_ValidatesMediaRefs(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	cfg := testConfig()

	chID := f.addChannel(t, &models.ChannelDocument{
		UserID:             "alice",
		PostCollection:     "posts_media",
		DefaultPermissions: models.ChannelPost,
	})

	_, err := f.posts.AddPost(ctx, chID, &models.PostDocument{
		UserID: "bob",
		Media:  []models.DocumentReference{{Collection: "unknown", DocID: bson.NewObjectID()}},
	})
	assert.ErrorIs(t, err, common.ErrorInvalidReference)

	_, err = f.posts.AddPost(ctx, chID, &models.PostDocument{
		UserID: "bob",
		Media:  []models.DocumentReference{{Collection: cfg.MediaCollection, DocID: bson.NewObjectID(), Context: "cover"}},
	})
	assert.NoError(t, err)
}

func TestPostService_AddPost_RejectsPresetParent(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	chID := f.addChannel(t, &models.ChannelDocument{
		UserID:             "alice",
		PostCollection:     "posts_x",
		DefaultPermissions: models.ChannelPost,
	})

	_, err := f.posts.AddPost(ctx, chID, &models.PostDocument{
		UserID: "bob",
		Parent: bson.NewObjectID(),
	})
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestPostService_AddReply(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	chID := f.addChannel(t, &models.ChannelDocument{
		UserID:             "alice",
		PostCollection:     "posts_threads",
		DefaultPermissions: models.ChannelRead | models.ChannelPost,
	})

	rootID, err := f.posts.AddPost(ctx, chID, &models.PostDocument{UserID: "bob", Title: "thread"})
	require.NoError(t, err)

	replyID, err := f.posts.AddReply(ctx, chID, rootID, &models.PostDocument{UserID: "carol", Title: "re: thread"})
	require.NoError(t, err)

	reply, err := f.posts.GetPost(ctx, chID, replyID, "bob")
	require.NoError(t, err)
	assert.False(t, reply.IsRoot())
	assert.Equal(t, rootID, reply.Parent)

	root, err := f.posts.GetPost(ctx, chID, rootID, "bob")
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	assert.Equal(t, replyID, root.Children[0])
}

func TestPostService_AddReply_MissingParent(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	chID := f.addChannel(t, &models.ChannelDocument{
		UserID:             "alice",
		PostCollection:     "posts_threads",
		DefaultPermissions: models.ChannelPost,
	})

	_, err := f.posts.AddReply(ctx, chID, bson.NewObjectID(), &models.PostDocument{UserID: "bob"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPostService_AddReaction(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	chID := f.addChannel(t, &models.ChannelDocument{
		UserID:             "alice",
		PostCollection:     "posts_react",
		DefaultPermissions: models.ChannelRead | models.ChannelPost,
	})

	postID, err := f.posts.AddPost(ctx, chID, &models.PostDocument{UserID: "bob"})
	require.NoError(t, err)

	require.NoError(t, f.posts.AddReaction(ctx, chID, postID, "carol", "star"))
	// Reacting again replaces the previous reaction.
	require.NoError(t, f.posts.AddReaction(ctx, chID, postID, "carol", "heart"))

	post, err := f.posts.GetPost(ctx, chID, postID, "bob")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"carol": "heart"}, post.Reactions)
}

func TestPostService_GetPost_RequiresRead(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()

	chID := f.addChannel(t, &models.ChannelDocument{
		UserID:         "alice",
		PostCollection: "posts_private",
	})

	postID, err := f.posts.AddPost(ctx, chID, &models.PostDocument{UserID: "alice"})
	require.NoError(t, err)

	_, err = f.posts.GetPost(ctx, chID, postID, "mallory")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}
