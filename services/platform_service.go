package services

import (
	"context"
	"fmt"
	"log/slog"
	"social-lab/contract"
	"social-lab/domain/social"
	"social-lab/errors"
	"social-lab/repositories"
	"sync"
)

type IPlatformService interface {
	CreateAccount(handle, description string) (social.AccountID, error)
	RemoveAccountByID(id social.AccountID) error
	RemoveAccountByHandle(handle string) error
	RenameAccount(oldHandle, newHandle string) error
	UpdateDescription(handle, description string) error
	ShowAccount(handle string) (social.AccountView, error)

	CreatePost(handle, message string) (social.PostID, error)
	EndorsePost(handle string, target social.PostID) (social.PostID, error)
	CommentPost(handle string, target social.PostID, message string) (social.PostID, error)
	DeletePost(id social.PostID) error
	ShowPost(id social.PostID) (social.PostView, error)
	ShowPostTree(id social.PostID) (social.PostTree, error)

	NumberOfAccounts() int
	TotalOriginalPosts() int
	TotalCommentPosts() int
	TotalEndorsementPosts() int
	MostEndorsedPost() social.PostID
	MostEndorsedAccount() social.AccountID

	Erase()
	Snapshot() social.Snapshot
	Restore(snapshot social.Snapshot) error
	Save(ctx context.Context) error
	Load(ctx context.Context) error
}

// PlatformService owns the whole account/post aggregate and every invariant
// spanning both registries. Each call validates first and only then mutates,
// one call at a time.
type PlatformService struct {
	mu       sync.Mutex
	log      *slog.Logger
	accounts repositories.IAccountRepository
	posts    repositories.IPostRepository
	store    contract.ISnapshotRepository
	filter   contract.IContentFilter
	indent   int
}

// NewPlatformService wires already built registries. store and filter are optional.
func NewPlatformService(log *slog.Logger,
	accounts repositories.IAccountRepository, posts repositories.IPostRepository,
	store contract.ISnapshotRepository, filter contract.IContentFilter, indent int) *PlatformService {
	return &PlatformService{
		log:      log,
		accounts: accounts,
		posts:    posts,
		store:    store,
		filter:   filter,
		indent:   indent,
	}
}

// NewPlatform builds an empty platform with fresh identifier sequences.
func NewPlatform(log *slog.Logger, store contract.ISnapshotRepository, filter contract.IContentFilter) *PlatformService {
	return NewPlatformService(log,
		repositories.NewAccountRegistry(social.NewSequence[social.AccountID]()),
		repositories.NewPostGraph(social.NewSequence[social.PostID]()),
		store, filter, social.DefaultIndent)
}

func (s *PlatformService) CreateAccount(handle, description string) (social.AccountID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkNewHandle(handle); err != nil {
		return 0, err
	}

	account := s.accounts.Create(handle, description)
	s.log.Debug("Account created", "id", account.ID, "handle", handle)
	return account.ID, nil
}

func (s *PlatformService) RemoveAccountByID(id social.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts.FindByID(id)
	if !ok {
		return fmt.Errorf("%w: %d", errors.ErrAccountIDNotFound, id)
	}
	s.removeAccount(account)
	return nil
}

func (s *PlatformService) RemoveAccountByHandle(handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.findAccount(handle)
	if err != nil {
		return err
	}
	s.removeAccount(account)
	return nil
}

// removeAccount drops the account with every post it authored. Posts go away
// directly, without the orphaning cascade of DeletePost: they all disappear together.
func (s *PlatformService) removeAccount(account social.Account) {
	authored := s.posts.ByAuthor(account.Handle)
	for _, post := range authored {
		s.posts.Remove(post.ID)
	}
	s.accounts.Remove(account.ID)
	s.log.Debug("Account removed", "id", account.ID, "handle", account.Handle, "posts", len(authored))
}

// RenameAccount also moves authorship of the account's posts to the new handle,
// so a later account registering the old handle never inherits them.
func (s *PlatformService) RenameAccount(oldHandle, newHandle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkNewHandle(newHandle); err != nil {
		return err
	}
	account, err := s.findAccount(oldHandle)
	if err != nil {
		return err
	}

	s.accounts.Rename(account.ID, newHandle)
	renamed := s.posts.RenameAuthor(oldHandle, newHandle)
	s.log.Debug("Account renamed", "id", account.ID, "from", oldHandle, "to", newHandle, "posts", renamed)
	return nil
}

func (s *PlatformService) UpdateDescription(handle, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.findAccount(handle)
	if err != nil {
		return err
	}
	s.accounts.Describe(account.ID, description)
	return nil
}

func (s *PlatformService) CreatePost(handle, message string) (social.PostID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAuthor(handle); err != nil {
		return 0, err
	}
	if err := s.checkMessage(message); err != nil {
		return 0, err
	}

	post := s.posts.Add(social.NewOriginal(handle, s.censor(message)))
	s.log.Debug("Post created", "id", post.ID, "author", handle)
	return post.ID, nil
}

func (s *PlatformService) EndorsePost(handle string, target social.PostID) (social.PostID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAuthor(handle); err != nil {
		return 0, err
	}
	if _, err := s.findActionable(target); err != nil {
		return 0, err
	}

	post := s.posts.Add(social.NewEndorsement(handle, target))
	s.log.Debug("Post endorsed", "id", post.ID, "target", target, "author", handle)
	return post.ID, nil
}

func (s *PlatformService) CommentPost(handle string, target social.PostID, message string) (social.PostID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAuthor(handle); err != nil {
		return 0, err
	}
	if err := s.checkMessage(message); err != nil {
		return 0, err
	}
	if _, err := s.findActionable(target); err != nil {
		return 0, err
	}

	post := s.posts.Add(social.NewComment(handle, target, s.censor(message)))
	s.log.Debug("Post commented", "id", post.ID, "target", target, "author", handle)
	return post.ID, nil
}

// DeletePost removes a post with its endorsements and orphans its comments.
func (s *PlatformService) DeletePost(id social.PostID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cascade, err := s.posts.DeleteCascade(id)
	if err != nil {
		return err
	}
	s.log.Debug("Post deleted",
		"id", id,
		"endorsements", len(cascade.Endorsements),
		"orphaned", len(cascade.Orphaned),
		"hoisted", len(cascade.Hoisted))
	return nil
}

// checkNewHandle checks uniqueness first, then format.
func (s *PlatformService) checkNewHandle(handle string) error {
	if s.accounts.HandleExists(handle) {
		return fmt.Errorf("%w: %q", errors.ErrHandleAlreadyExists, handle)
	}
	if !s.accounts.IsValidHandle(handle) {
		return fmt.Errorf("%w: %q", errors.ErrInvalidHandleFormat, handle)
	}
	return nil
}

func (s *PlatformService) checkAuthor(handle string) error {
	if !s.accounts.HandleExists(handle) {
		return fmt.Errorf("%w: %q", errors.ErrHandleNotFound, handle)
	}
	return nil
}

func (s *PlatformService) checkMessage(message string) error {
	if !s.posts.IsValidMessage(message) {
		return fmt.Errorf("%w: %d characters", errors.ErrInvalidMessageFormat, len([]rune(message)))
	}
	return nil
}

func (s *PlatformService) findAccount(handle string) (social.Account, error) {
	account, ok := s.accounts.FindByHandle(handle)
	if !ok {
		return social.Account{}, fmt.Errorf("%w: %q", errors.ErrHandleNotFound, handle)
	}
	return account, nil
}

func (s *PlatformService) findPost(id social.PostID) (social.Post, error) {
	post, ok := s.posts.FindByID(id)
	if !ok {
		return social.Post{}, fmt.Errorf("%w: %d", errors.ErrPostIDNotFound, id)
	}
	return post, nil
}

// findActionable returns the post if it exists and is not an endorsement.
func (s *PlatformService) findActionable(id social.PostID) (social.Post, error) {
	post, err := s.findPost(id)
	if err != nil {
		return social.Post{}, err
	}
	if !post.IsActionable() {
		return social.Post{}, fmt.Errorf("%w: %d is an endorsement", errors.ErrPostNotActionable, id)
	}
	return post, nil
}

func (s *PlatformService) censor(message string) string {
	if s.filter == nil {
		return message
	}
	return s.filter.Censor(message)
}
