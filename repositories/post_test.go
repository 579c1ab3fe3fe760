package repositories

import (
	"social-lab/domain/social"
	"social-lab/errors"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func newGraph() *PostGraph {
	return NewPostGraph(social.NewSequence[social.PostID]())
}

func ids(posts []social.Post) []social.PostID {
	return lo.Map(posts, func(p social.Post, _ int) social.PostID { return p.ID })
}

func TestIsValidMessage(t *testing.T) {
	req := require.New(t)
	req.True(IsValidMessage("hello"))
	req.True(IsValidMessage(" "))
	req.True(IsValidMessage(strings.Repeat("m", 100)))
	req.False(IsValidMessage(""))
	req.False(IsValidMessage(strings.Repeat("m", 101)))
}

func TestPostGraph_Add_Shares_One_ID_Space(t *testing.T) {
	req := require.New(t)
	graph := newGraph()

	original := graph.Add(social.NewOriginal("alice", "hello"))
	endorsement := graph.Add(social.NewEndorsement("bob", original.ID))
	comment := graph.Add(social.NewComment("bob", original.ID, "hi"))

	req.Equal(social.PostID(1), original.ID)
	req.Equal(social.PostID(2), endorsement.ID)
	req.Equal(social.PostID(3), comment.ID)
	req.Equal(social.PostID(4), graph.NextID())
	req.Equal(1, graph.CountByKind(social.Original))
	req.Equal(1, graph.CountByKind(social.Comment))
	req.Equal(1, graph.CountByKind(social.Endorsement))
	req.Equal(1, graph.CountAssociated(original.ID, social.Endorsement))
	req.Equal(1, graph.CountAssociated(original.ID, social.Comment))
	req.Equal([]social.PostID{2, 3}, ids(graph.ByAuthor("bob")))
}

func TestPostGraph_DeleteCascade(t *testing.T) {
	req := require.New(t)
	graph := newGraph()

	// Given a post with an endorsement, a comment, and an endorsement on the comment
	root := graph.Add(social.NewOriginal("alice", "root"))
	other := graph.Add(social.NewOriginal("carol", "unrelated"))
	endorsement := graph.Add(social.NewEndorsement("bob", root.ID))
	comment := graph.Add(social.NewComment("bob", root.ID, "reply"))
	commentEndorsement := graph.Add(social.NewEndorsement("carol", comment.ID))
	otherEndorsement := graph.Add(social.NewEndorsement("bob", other.ID))

	// When the root is deleted
	cascade, err := graph.DeleteCascade(root.ID)
	req.NoError(err)

	// Then its endorsements are gone and its comment is orphaned
	req.Equal(root.ID, cascade.Deleted)
	req.Equal([]social.PostID{endorsement.ID}, cascade.Endorsements)
	req.Equal([]social.PostID{comment.ID}, cascade.Orphaned)
	req.Equal([]social.PostID{other.ID, comment.ID, commentEndorsement.ID, otherEndorsement.ID}, ids(graph.All()))

	orphan, ok := graph.FindByID(comment.ID)
	req.True(ok)
	req.Equal(social.OrphanID, orphan.TargetID)
	req.Equal(root.ID, orphan.OrphanedFrom)
	req.Equal(social.OrphanID, orphan.GhostParent)
	req.Equal("reply", orphan.Message)

	// And the comment keeps its own endorsement
	req.Equal(1, graph.CountAssociated(comment.ID, social.Endorsement))
	req.Zero(graph.CountAssociated(root.ID, social.Endorsement))
}

func TestPostGraph_DeleteCascade_Anchors_Ghosts(t *testing.T) {
	req := require.New(t)
	graph := newGraph()

	// Given root <- c1 <- c2 <- c3
	root := graph.Add(social.NewOriginal("alice", "root"))
	c1 := graph.Add(social.NewComment("bob", root.ID, "c1"))
	c2 := graph.Add(social.NewComment("bob", c1.ID, "c2"))
	c3 := graph.Add(social.NewComment("bob", c2.ID, "c3"))

	// When c2 is deleted, c3 hangs under a ghost placed below c1
	_, err := graph.DeleteCascade(c2.ID)
	req.NoError(err)
	orphan, _ := graph.FindByID(c3.ID)
	req.Equal(c2.ID, orphan.OrphanedFrom)
	req.Equal(c1.ID, orphan.GhostParent)

	// When c1 is deleted too, the ghost moves up below root
	cascade, err := graph.DeleteCascade(c1.ID)
	req.NoError(err)
	req.Empty(cascade.Orphaned)
	req.Equal([]social.PostID{c3.ID}, cascade.Hoisted)
	orphan, _ = graph.FindByID(c3.ID)
	req.Equal(c2.ID, orphan.OrphanedFrom)
	req.Equal(root.ID, orphan.GhostParent)
}

func TestPostGraph_DeleteCascade_Unknown_Post(t *testing.T) {
	req := require.New(t)
	graph := newGraph()
	graph.Add(social.NewOriginal("alice", "root"))

	_, err := graph.DeleteCascade(42)

	req.ErrorIs(err, errors.ErrPostIDNotFound)
	req.Len(graph.All(), 1)
}

func TestPostGraph_RenameAuthor_Remove_Reset_Load(t *testing.T) {
	req := require.New(t)
	graph := newGraph()
	first := graph.Add(social.NewOriginal("alice", "one"))
	graph.Add(social.NewOriginal("bob", "two"))
	graph.Add(social.NewComment("alice", first.ID, "three"))

	req.Equal(2, graph.RenameAuthor("alice", "alicia"))
	req.Empty(graph.ByAuthor("alice"))
	req.Len(graph.ByAuthor("alicia"), 2)

	graph.Remove(first.ID)
	_, ok := graph.FindByID(first.ID)
	req.False(ok)

	graph.Reset()
	req.Empty(graph.All())
	req.Equal(social.PostID(1), graph.NextID())

	restored := []social.Post{{ID: 5, Kind: social.Original, Author: "dave", Message: "back"}}
	graph.Load(restored, 8)
	req.Equal(restored, graph.All())
	req.Equal(social.PostID(8), graph.Add(social.NewOriginal("dave", "next")).ID)
}
