package services

import (
	"fmt"
	"social-lab/domain/social"
	"social-lab/errors"
	"sort"

	"github.com/samber/lo"
)

// ShowAccount counts the non-endorsement posts whose author resolves to this
// account and the endorsements they received.
func (s *PlatformService) ShowAccount(handle string) (social.AccountView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.findAccount(handle)
	if err != nil {
		return social.AccountView{}, err
	}

	view := social.AccountView{
		ID:          account.ID,
		Handle:      account.Handle,
		Description: account.Description,
	}
	for _, post := range s.actionablePosts() {
		if s.authorID(post) != account.ID {
			continue
		}
		view.PostCount++
		view.EndorseCount += s.posts.CountAssociated(post.ID, social.Endorsement)
	}
	return view, nil
}

func (s *PlatformService) ShowPost(id social.PostID) (social.PostView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, err := s.findPost(id)
	if err != nil {
		return social.PostView{}, err
	}
	return s.postView(post), nil
}

// ShowPostTree renders a post followed by its comments, depth first, siblings
// in ascending id order. Orphaned comments still anchored under a node are
// rendered below a ghost standing where their deleted parent used to be.
func (s *PlatformService) ShowPostTree(id social.PostID) (social.PostTree, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	root, err := s.findPost(id)
	if err != nil {
		return social.PostTree{}, err
	}
	if !root.IsActionable() {
		return social.PostTree{}, fmt.Errorf("%w: %d is an endorsement", errors.ErrPostNotActionable, id)
	}

	comments := lo.Filter(s.posts.All(), func(p social.Post, _ int) bool {
		return p.Kind == social.Comment
	})
	index := treeIndex{
		children: lo.GroupBy(lo.Reject(comments, func(p social.Post, _ int) bool { return p.IsOrphan() }),
			func(p social.Post) social.PostID { return p.TargetID }),
		ghosts: lo.GroupBy(lo.Filter(comments, func(p social.Post, _ int) bool { return p.IsOrphan() }),
			func(p social.Post) social.PostID { return p.GhostParent }),
	}

	tree := social.NewPostTree(s.indent)
	s.renderNode(tree, index, root, 0)
	return *tree, nil
}

type treeIndex struct {
	children map[social.PostID][]social.Post
	ghosts   map[social.PostID][]social.Post
}

// branch is either a live comment or a ghost grouping the orphans of one deleted post.
type branch struct {
	id      social.PostID
	comment *social.Post
	orphans []social.Post
}

func (s *PlatformService) renderNode(tree *social.PostTree, index treeIndex, post social.Post, depth int) {
	tree.AddNode(depth, s.postView(post).String())

	for _, b := range index.branches(post.ID) {
		tree.AddConnector(depth)
		if b.comment != nil {
			s.renderNode(tree, index, *b.comment, depth+1)
			continue
		}
		tree.AddNode(depth+1, social.GhostMessage)
		for _, orphan := range b.orphans {
			tree.AddConnector(depth + 1)
			s.renderNode(tree, index, orphan, depth+2)
		}
	}
}

func (i treeIndex) branches(id social.PostID) []branch {
	var branches []branch
	for _, comment := range i.children[id] {
		branches = append(branches, branch{id: comment.ID, comment: &comment})
	}
	grouped := lo.GroupBy(i.ghosts[id], func(p social.Post) social.PostID { return p.OrphanedFrom })
	for deleted, orphans := range grouped {
		branches = append(branches, branch{id: deleted, orphans: orphans})
	}
	sort.Slice(branches, func(a, b int) bool {
		return branches[a].id < branches[b].id
	})
	return branches
}

func (s *PlatformService) NumberOfAccounts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts.Count()
}

func (s *PlatformService) TotalOriginalPosts() int {
	return s.countPosts(social.Original)
}

func (s *PlatformService) TotalCommentPosts() int {
	return s.countPosts(social.Comment)
}

func (s *PlatformService) TotalEndorsementPosts() int {
	return s.countPosts(social.Endorsement)
}

// MostEndorsedPost returns the non-endorsement post with the most endorsements,
// the lowest id on ties, or NoPost.
func (s *PlatformService) MostEndorsedPost() social.PostID {
	s.mu.Lock()
	defer s.mu.Unlock()

	best, top := social.NoPost, -1
	for _, post := range s.actionablePosts() {
		if count := s.posts.CountAssociated(post.ID, social.Endorsement); count > top {
			best, top = post.ID, count
		}
	}
	return best
}

// MostEndorsedAccount sums endorsements per author account, resolving handles
// at query time. Lowest id wins ties; NoAccount when there are no accounts.
func (s *PlatformService) MostEndorsedAccount() social.AccountID {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := make(map[social.AccountID]int)
	for _, post := range s.actionablePosts() {
		totals[s.authorID(post)] += s.posts.CountAssociated(post.ID, social.Endorsement)
	}

	best, top := social.NoAccount, -1
	for _, account := range s.accounts.All() {
		if totals[account.ID] > top {
			best, top = account.ID, totals[account.ID]
		}
	}
	return best
}

func (s *PlatformService) countPosts(kind social.Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.posts.CountByKind(kind)
}

func (s *PlatformService) actionablePosts() []social.Post {
	return lo.Filter(s.posts.All(), func(p social.Post, _ int) bool {
		return p.IsActionable()
	})
}

func (s *PlatformService) authorID(post social.Post) social.AccountID {
	account, ok := s.accounts.FindByHandle(post.Author)
	if !ok {
		return social.NoAccount
	}
	return account.ID
}

func (s *PlatformService) postView(post social.Post) social.PostView {
	return social.PostView{
		ID:           post.ID,
		Author:       post.Author,
		Endorsements: s.posts.CountAssociated(post.ID, social.Endorsement),
		Comments:     s.posts.CountAssociated(post.ID, social.Comment),
		Message:      post.Message,
	}
}
