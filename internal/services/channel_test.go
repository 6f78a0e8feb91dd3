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

func newChannelFixture(t *testing.T) (*ChannelService, *models.ReferenceValidator) {
	t.Helper()
	cfg := testConfig()
	channels := store.NewCollection[models.ChannelDocument](store.NewMemoryDriver(), ChannelSchema(cfg.ChannelCollection), nil)
	refs := models.NewReferenceValidator(cfg.MediaCollection, cfg.ChannelCollection)
	return NewChannelService(channels, refs), refs
}

func TestChannelService_AddChannel(t *testing.T) {
	s, refs := newChannelFixture(t)
	ctx := context.Background()

	id, err := s.AddChannel(ctx, &models.ChannelDocument{
		UserID:         "alice",
		Title:          "general",
		PostCollection: "posts_general",
	})
	require.NoError(t, err)

	channel, err := s.GetChannel(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "general", channel.Title)
	// The creator is admin regardless of the default mask.
	assert.True(t, channel.Permission("alice").Has(models.ChannelAdmin))

	// The post collection is referencable once the channel exists.
	err = refs.Validate(models.DocumentReference{Collection: "posts_general", DocID: bson.NewObjectID()})
	assert.NoError(t, err)
}

func TestChannelService_AddChannel_Validation(t *testing.T) {
	s, _ := newChannelFixture(t)
	ctx := context.Background()

	_, err := s.AddChannel(ctx, &models.ChannelDocument{Title: "no owner", PostCollection: "p"})
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.AddChannel(ctx, &models.ChannelDocument{UserID: "alice", Title: "no posts"})
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.AddChannel(ctx, &models.ChannelDocument{
		UserID:         "alice",
		PostCollection: "p",
		MediaBoards: []models.MediaBoard{{
			Title: "board",
			Media: []models.DocumentReference{{Collection: "unknown", DocID: bson.NewObjectID()}},
		}},
	})
	assert.ErrorIs(t, err, common.ErrorInvalidReference)
}

func TestChannelService_PermissionGates(t *testing.T) {
	s, _ := newChannelFixture(t)
	ctx := context.Background()

	id, err := s.AddChannel(ctx, &models.ChannelDocument{
		UserID:         "alice",
		Title:          "general",
		PostCollection: "posts_general",
		Permissions: map[string]models.ChannelPermission{
			"bob": models.ChannelRead | models.ChannelTitle,
		},
	})
	require.NoError(t, err)

	// bob holds ChannelTitle but not ChannelDescription.
	require.NoError(t, s.SetTitle(ctx, id, "bob", "renamed"))
	err = s.SetDescription(ctx, id, "bob", "nope")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	// The default mask applies to users without an entry.
	err = s.SetTitle(ctx, id, "mallory", "hijacked")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	// The owner's Admin grant passes every gate.
	require.NoError(t, s.SetDescription(ctx, id, "alice", "owner wins"))

	channel, err := s.GetChannel(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "renamed", channel.Title)
	assert.Equal(t, "owner wins", channel.Description)
}

func TestChannelService_SetPermission(t *testing.T) {
	s, _ := newChannelFixture(t)
	ctx := context.Background()

	id, err := s.AddChannel(ctx, &models.ChannelDocument{
		UserID:         "alice",
		PostCollection: "posts_x",
	})
	require.NoError(t, err)

	// Non-admins cannot grant.
	err = s.SetPermission(ctx, id, "bob", "bob", models.ChannelAdmin)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	require.NoError(t, s.SetPermission(ctx, id, "alice", "bob", models.ChannelRead|models.ChannelPost))

	channel, err := s.GetChannel(ctx, id)
	require.NoError(t, err)
	assert.True(t, channel.Permission("bob").Has(models.ChannelPost))
	assert.False(t, channel.Permission("bob").Has(models.ChannelAdmin))

	// An admin cannot lock themselves out.
	err = s.SetPermission(ctx, id, "alice", "alice", models.ChannelRead)
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestChannelService_AddMediaBoard(t *testing.T) {
	s, _ := newChannelFixture(t)
	ctx := context.Background()
	cfg := testConfig()

	id, err := s.AddChannel(ctx, &models.ChannelDocument{
		UserID:         "alice",
		PostCollection: "posts_x",
	})
	require.NoError(t, err)

	board := models.MediaBoard{
		Title: "favourites",
		Media: []models.DocumentReference{{Collection: cfg.MediaCollection, DocID: bson.NewObjectID()}},
	}
	require.NoError(t, s.AddMediaBoard(ctx, id, "alice", board))

	channel, err := s.GetChannel(ctx, id)
	require.NoError(t, err)
	require.Len(t, channel.MediaBoards, 1)
	assert.Equal(t, "favourites", channel.MediaBoards[0].Title)

	bad := models.MediaBoard{
		Media: []models.DocumentReference{{Collection: "unknown", DocID: bson.NewObjectID()}},
	}
	err = s.AddMediaBoard(ctx, id, "alice", bad)
	assert.ErrorIs(t, err, common.ErrorInvalidReference)
}
