package repositories

import (
	"fmt"
	"social-lab/domain/social"
	"social-lab/errors"

	"github.com/samber/lo"
)

type IPostRepository interface {
	IsValidMessage(message string) bool
	Add(post social.Post) social.Post
	Remove(id social.PostID)
	CountByKind(kind social.Kind) int
	CountAssociated(target social.PostID, kind social.Kind) int
	FindByID(id social.PostID) (social.Post, bool)
	All() []social.Post
	ByAuthor(handle string) []social.Post
	DeleteCascade(id social.PostID) (Cascade, error)
	RenameAuthor(oldHandle, newHandle string) int
	NextID() social.PostID
	Reset()
	Load(posts []social.Post, next social.PostID)
}

// Cascade describes what a DeleteCascade touched.
type Cascade struct {
	Deleted      social.PostID
	Endorsements []social.PostID
	Orphaned     []social.PostID
	Hoisted      []social.PostID
}

// PostGraph keeps live posts of every kind in creation order, so that
// iteration order is also ascending id order.
// References between posts are ids only, trees are rebuilt on demand.
type PostGraph struct {
	posts    []*social.Post
	sequence *social.Sequence[social.PostID]
}

func NewPostGraph(sequence *social.Sequence[social.PostID]) *PostGraph {
	return &PostGraph{sequence: sequence}
}

func (g *PostGraph) IsValidMessage(message string) bool {
	return IsValidMessage(message)
}

// Add assigns the next post id and stores the post without any validation.
func (g *PostGraph) Add(post social.Post) social.Post {
	post.ID = g.sequence.Next()
	g.posts = append(g.posts, &post)
	return post
}

func (g *PostGraph) Remove(id social.PostID) {
	g.posts = lo.Reject(g.posts, func(p *social.Post, _ int) bool {
		return p.ID == id
	})
}

func (g *PostGraph) CountByKind(kind social.Kind) int {
	return lo.CountBy(g.posts, func(p *social.Post) bool {
		return p.Kind == kind
	})
}

// CountAssociated counts live posts of kind whose target is the given post.
func (g *PostGraph) CountAssociated(target social.PostID, kind social.Kind) int {
	return lo.CountBy(g.posts, func(p *social.Post) bool {
		return p.Kind == kind && p.TargetID == target
	})
}

func (g *PostGraph) FindByID(id social.PostID) (social.Post, bool) {
	post, ok := g.find(id)
	if !ok {
		return social.Post{}, false
	}
	return *post, true
}

func (g *PostGraph) All() []social.Post {
	return lo.Map(g.posts, func(p *social.Post, _ int) social.Post {
		return *p
	})
}

func (g *PostGraph) ByAuthor(handle string) []social.Post {
	return lo.FilterMap(g.posts, func(p *social.Post, _ int) (social.Post, bool) {
		return *p, p.Author == handle
	})
}

// DeleteCascade removes a post together with its endorsements.
// Comments on it survive as orphans, remembering where the deleted post used to hang,
// and ghosts already anchored on it move one level up.
// Dependents are discovered on a snapshot taken before anything is mutated.
func (g *PostGraph) DeleteCascade(id social.PostID) (Cascade, error) {
	target, ok := g.find(id)
	if !ok {
		return Cascade{}, fmt.Errorf("%w: %d", errors.ErrPostIDNotFound, id)
	}
	anchor := target.Anchor()

	snapshot := make([]*social.Post, len(g.posts))
	copy(snapshot, g.posts)

	cascade := Cascade{Deleted: id}
	for _, post := range snapshot {
		switch {
		case post.Kind == social.Endorsement && post.TargetID == id:
			cascade.Endorsements = append(cascade.Endorsements, post.ID)
		case post.Kind == social.Comment && post.TargetID == id:
			post.TargetID = social.OrphanID
			post.OrphanedFrom = id
			post.GhostParent = anchor
			cascade.Orphaned = append(cascade.Orphaned, post.ID)
		case post.IsOrphan() && post.GhostParent == id:
			post.GhostParent = anchor
			cascade.Hoisted = append(cascade.Hoisted, post.ID)
		}
	}

	removed := append([]social.PostID{id}, cascade.Endorsements...)
	g.posts = lo.Reject(g.posts, func(p *social.Post, _ int) bool {
		return lo.Contains(removed, p.ID)
	})
	return cascade, nil
}

// RenameAuthor moves authorship of every post from oldHandle to newHandle.
func (g *PostGraph) RenameAuthor(oldHandle, newHandle string) int {
	renamed := 0
	for _, post := range g.posts {
		if post.Author == oldHandle {
			post.Author = newHandle
			renamed++
		}
	}
	return renamed
}

func (g *PostGraph) NextID() social.PostID {
	return g.sequence.Peek()
}

func (g *PostGraph) Reset() {
	g.posts = nil
	g.sequence.Reset()
}

func (g *PostGraph) Load(posts []social.Post, next social.PostID) {
	g.posts = lo.Map(posts, func(p social.Post, _ int) *social.Post {
		return &p
	})
	g.sequence.Set(next)
}

func (g *PostGraph) find(id social.PostID) (*social.Post, bool) {
	return lo.Find(g.posts, func(p *social.Post) bool {
		return p.ID == id
	})
}
