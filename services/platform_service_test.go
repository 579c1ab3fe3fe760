package services

import (
	"log/slog"
	"social-lab/domain/social"
	"social-lab/errors"
	"social-lab/mocks"
	"strings"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newPlatform() *PlatformService {
	return NewPlatform(logs.GetLoggerFromLevel(slog.LevelDebug), nil, nil)
}

func TestPlatformService_CreateAccount(t *testing.T) {
	req := require.New(t)
	platform := newPlatform()

	// Given two accounts created in a row
	alice, err := platform.CreateAccount("alice", "")
	req.NoError(err)
	bob, err := platform.CreateAccount("bob", "hi")
	req.NoError(err)

	// Then ids follow creation order
	req.Equal(social.AccountID(1), alice)
	req.Equal(social.AccountID(2), bob)
	req.Equal(2, platform.NumberOfAccounts())
}

func TestPlatformService_CreateAccount_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		handle string
		err    error
	}{
		{"duplicate handle", "alice", errors.ErrHandleAlreadyExists},
		{"empty handle", "", errors.ErrInvalidHandleFormat},
		{"handle with a space", "al ice", errors.ErrInvalidHandleFormat},
		{"handle with a tab", "al\tice", errors.ErrInvalidHandleFormat},
		{"handle too long", strings.Repeat("a", 31), errors.ErrInvalidHandleFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			platform := newPlatform()
			_, err := platform.CreateAccount("alice", "")
			req.NoError(err)

			_, err = platform.CreateAccount(tt.handle, "")

			req.ErrorIs(err, tt.err)
			req.Equal(1, platform.NumberOfAccounts())

			// A rejected creation never consumes an id
			id, err := platform.CreateAccount("bob", "")
			req.NoError(err)
			req.Equal(social.AccountID(2), id)
		})
	}
}

func TestPlatformService_CreateAccount_Thirty_Characters(t *testing.T) {
	req := require.New(t)
	platform := newPlatform()

	_, err := platform.CreateAccount(strings.Repeat("é", 30), "")

	req.NoError(err)
}

func TestPlatformService_RemoveAccount_Removes_Exactly_Its_Posts(t *testing.T) {
	req := require.New(t)
	platform := newPlatform()
	_, _ = platform.CreateAccount("alice", "")
	_, _ = platform.CreateAccount("bob", "")

	// Given alice owns two originals, bob endorsed and commented one of them
	p1, err := platform.CreatePost("alice", "hello")
	req.NoError(err)
	_, err = platform.EndorsePost("bob", p1)
	req.NoError(err)
	_, err = platform.CommentPost("bob", p1, "nice")
	req.NoError(err)
	_, err = platform.CreatePost("alice", "again")
	req.NoError(err)

	// When alice is removed
	req.NoError(platform.RemoveAccountByHandle("alice"))

	// Then only her posts are gone, bob's posts are left untouched
	req.Equal(1, platform.NumberOfAccounts())
	req.Equal(0, platform.TotalOriginalPosts())
	req.Equal(1, platform.TotalEndorsementPosts())
	req.Equal(1, platform.TotalCommentPosts())
	_, err = platform.ShowPost(p1)
	req.ErrorIs(err, errors.ErrPostIDNotFound)

	view, err := platform.ShowAccount("bob")
	req.NoError(err)
	req.Equal(1, view.PostCount)
	req.Equal(0, view.EndorseCount)
}

func TestPlatformService_RemoveAccountByID(t *testing.T) {
	req := require.New(t)
	platform := newPlatform()
	id, _ := platform.CreateAccount("alice", "")
	_, _ = platform.CreatePost("alice", "hello")

	req.ErrorIs(platform.RemoveAccountByID(id+1), errors.ErrAccountIDNotFound)
	req.NoError(platform.RemoveAccountByID(id))

	req.Equal(0, platform.NumberOfAccounts())
	req.Equal(0, platform.TotalOriginalPosts())
	req.ErrorIs(platform.RemoveAccountByHandle("alice"), errors.ErrHandleNotFound)
}

func TestPlatformService_RenameAccount(t *testing.T) {
	req := require.New(t)
	platform := newPlatform()
	_, _ = platform.CreateAccount("alice", "")
	_, _ = platform.CreateAccount("bob", "")
	post, _ := platform.CreatePost("alice", "hello")

	// When alice becomes alicia
	req.NoError(platform.RenameAccount("alice", "alicia"))

	// Then her posts follow her
	view, err := platform.ShowPost(post)
	req.NoError(err)
	req.Equal("alicia", view.Author)

	// And a newcomer taking the old handle inherits nothing
	_, err = platform.CreateAccount("alice", "")
	req.NoError(err)
	account, err := platform.ShowAccount("alice")
	req.NoError(err)
	req.Equal(0, account.PostCount)
	account, err = platform.ShowAccount("alicia")
	req.NoError(err)
	req.Equal(social.AccountID(1), account.ID)
	req.Equal(1, account.PostCount)
}

func TestPlatformService_RenameAccount_Rejections(t *testing.T) {
	req := require.New(t)
	platform := newPlatform()
	_, _ = platform.CreateAccount("alice", "")
	_, _ = platform.CreateAccount("bob", "")

	req.ErrorIs(platform.RenameAccount("alice", "bob"), errors.ErrHandleAlreadyExists)
	req.ErrorIs(platform.RenameAccount("alice", "a b"), errors.ErrInvalidHandleFormat)
	req.ErrorIs(platform.RenameAccount("carol", "dave"), errors.ErrHandleNotFound)
	// format is checked before the old handle is resolved
	req.ErrorIs(platform.RenameAccount("carol", ""), errors.ErrInvalidHandleFormat)

	_, err := platform.ShowAccount("alice")
	req.NoError(err)
}

func TestPlatformService_UpdateDescription(t *testing.T) {
	req := require.New(t)
	platform := newPlatform()
	_, _ = platform.CreateAccount("alice", "")

	req.NoError(platform.UpdateDescription("alice", "gardener"))
	req.ErrorIs(platform.UpdateDescription("bob", "x"), errors.ErrHandleNotFound)

	view, err := platform.ShowAccount("alice")
	req.NoError(err)
	req.Equal("gardener", view.Description)
	req.Equal("ID: 1\nHandle: alice\nDescription: gardener\nPost count: 0\nEndorse count: 0", view.String())
}

func TestPlatformService_Posts(t *testing.T) {
	req := require.New(t)
	platform := newPlatform()
	_, _ = platform.CreateAccount("alice", "")
	_, _ = platform.CreateAccount("bob", "")

	original, err := platform.CreatePost("alice", "hello")
	req.NoError(err)
	endorsement, err := platform.EndorsePost("bob", original)
	req.NoError(err)
	comment, err := platform.CommentPost("bob", original, "welcome")
	req.NoError(err)

	// Ids are shared by every kind of post
	req.Equal(social.PostID(1), original)
	req.Equal(social.PostID(2), endorsement)
	req.Equal(social.PostID(3), comment)

	view, err := platform.ShowPost(original)
	req.NoError(err)
	req.Equal(social.PostView{ID: 1, Author: "alice", Endorsements: 1, Comments: 1, Message: "hello"}, view)

	// Comments can be endorsed and commented too
	_, err = platform.EndorsePost("alice", comment)
	req.NoError(err)
	_, err = platform.CommentPost("alice", comment, "thanks")
	req.NoError(err)

	req.Equal(1, platform.TotalOriginalPosts())
	req.Equal(2, platform.TotalCommentPosts())
	req.Equal(2, platform.TotalEndorsementPosts())
}

func TestPlatformService_Post_Rejections(t *testing.T) {
	req := require.New(t)
	platform := newPlatform()
	_, _ = platform.CreateAccount("alice", "")
	original, _ := platform.CreatePost("alice", "hello")
	endorsement, _ := platform.EndorsePost("alice", original)

	_, err := platform.CreatePost("ghost", "hello")
	req.ErrorIs(err, errors.ErrHandleNotFound)
	_, err = platform.CreatePost("alice", "")
	req.ErrorIs(err, errors.ErrInvalidMessageFormat)
	_, err = platform.CreatePost("alice", strings.Repeat("x", 101))
	req.ErrorIs(err, errors.ErrInvalidMessageFormat)

	_, err = platform.EndorsePost("alice", 42)
	req.ErrorIs(err, errors.ErrPostIDNotFound)
	_, err = platform.EndorsePost("alice", endorsement)
	req.ErrorIs(err, errors.ErrPostNotActionable)
	_, err = platform.CommentPost("alice", endorsement, "no")
	req.ErrorIs(err, errors.ErrPostNotActionable)
	_, err = platform.CommentPost("alice", original, "")
	req.ErrorIs(err, errors.ErrInvalidMessageFormat)

	// None of the rejected calls consumed an id
	next, err := platform.CreatePost("alice", strings.Repeat("x", 100))
	req.NoError(err)
	req.Equal(endorsement+1, next)
}

func TestPlatformService_DeletePost(t *testing.T) {
	req := require.New(t)
	platform := newPlatform()
	_, _ = platform.CreateAccount("alice", "")
	original, _ := platform.CreatePost("alice", "hello")
	_, _ = platform.EndorsePost("alice", original)
	comment, _ := platform.CommentPost("alice", original, "reply")

	// When the original is deleted
	req.NoError(platform.DeletePost(original))

	// Then its endorsement goes with it and the comment survives
	req.Equal(0, platform.TotalOriginalPosts())
	req.Equal(0, platform.TotalEndorsementPosts())
	req.Equal(1, platform.TotalCommentPosts())
	_, err := platform.ShowPost(comment)
	req.NoError(err)

	req.ErrorIs(platform.DeletePost(original), errors.ErrPostIDNotFound)
}

func TestPlatformService_Censors_Messages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	req := require.New(t)
	filter := mocks.NewMockIContentFilter(ctrl)
	platform := NewPlatform(slog.Default(), nil, filter)
	_, _ = platform.CreateAccount("alice", "")

	filter.EXPECT().Censor("darn it").Return("**** it").Times(1)
	filter.EXPECT().Censor("oh darn").Return("oh ****").Times(1)

	original, err := platform.CreatePost("alice", "darn it")
	req.NoError(err)
	comment, err := platform.CommentPost("alice", original, "oh darn")
	req.NoError(err)

	view, _ := platform.ShowPost(original)
	req.Equal("**** it", view.Message)
	view, _ = platform.ShowPost(comment)
	req.Equal("oh ****", view.Message)

	// Rejected messages never reach the filter
	filter.EXPECT().Censor(gomock.Any()).Times(0)
	_, err = platform.CreatePost("alice", "")
	req.ErrorIs(err, errors.ErrInvalidMessageFormat)
}
