package services

import (
	"context"
	"fmt"
	"social-lab/domain/social"
	"social-lab/errors"
	"sort"
)

// Erase clears both registries and resets both identifier sequences.
func (s *PlatformService) Erase() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.erase()
}

func (s *PlatformService) erase() {
	s.accounts.Reset()
	s.posts.Reset()
	s.log.Debug("Platform erased")
}

func (s *PlatformService) Snapshot() social.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *PlatformService) snapshot() social.Snapshot {
	return social.Snapshot{
		Accounts:      s.accounts.All(),
		NextAccountID: s.accounts.NextID(),
		Posts:         s.posts.All(),
		NextPostID:    s.posts.NextID(),
	}
}

// Restore erases the platform then replays the snapshot: accounts, account
// sequence, posts, post sequence. A snapshot that cannot be trusted leaves the
// platform erased.
func (s *PlatformService) Restore(snapshot social.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restore(snapshot)
}

func (s *PlatformService) restore(snapshot social.Snapshot) error {
	s.erase()
	if err := s.validateSnapshot(snapshot); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrPersistenceFormat, err)
	}

	accounts := append([]social.Account(nil), snapshot.Accounts...)
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	s.accounts.Load(accounts, snapshot.NextAccountID)

	posts := append([]social.Post(nil), snapshot.Posts...)
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	s.posts.Load(posts, snapshot.NextPostID)

	s.log.Debug("Platform restored", "accounts", len(accounts), "posts", len(posts))
	return nil
}

// Save writes a full snapshot through the snapshot repository.
func (s *PlatformService) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return fmt.Errorf("%w: no snapshot repository configured", errors.ErrPersistenceIO)
	}
	revision, err := s.store.Save(ctx, s.snapshot())
	if err != nil {
		return err
	}
	s.log.Info("Platform saved", "revision", revision)
	return nil
}

// Load replaces the platform with the stored snapshot. The platform is erased
// first, so any failure leaves it empty rather than half loaded.
func (s *PlatformService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.erase()
	if s.store == nil {
		return fmt.Errorf("%w: no snapshot repository configured", errors.ErrPersistenceIO)
	}
	snapshot, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	return s.restore(snapshot)
}

// validateSnapshot checks what the engine relies on: unique ids below the saved
// sequences, valid handles and messages, and references pointing to lower ids only.
func (s *PlatformService) validateSnapshot(snapshot social.Snapshot) error {
	if snapshot.NextAccountID < 1 || snapshot.NextPostID < 1 {
		return fmt.Errorf("sequence values must be positive, got %d and %d",
			snapshot.NextAccountID, snapshot.NextPostID)
	}

	accountIDs := make(map[social.AccountID]struct{})
	handles := make(map[string]struct{})
	for _, account := range snapshot.Accounts {
		if account.ID < 1 || account.ID >= snapshot.NextAccountID {
			return fmt.Errorf("account id %d outside [1, %d)", account.ID, snapshot.NextAccountID)
		}
		if _, ok := accountIDs[account.ID]; ok {
			return fmt.Errorf("duplicate account id %d", account.ID)
		}
		if !s.accounts.IsValidHandle(account.Handle) {
			return fmt.Errorf("account %d has an invalid handle %q", account.ID, account.Handle)
		}
		if _, ok := handles[account.Handle]; ok {
			return fmt.Errorf("duplicate handle %q", account.Handle)
		}
		accountIDs[account.ID] = struct{}{}
		handles[account.Handle] = struct{}{}
	}

	postIDs := make(map[social.PostID]struct{})
	for _, post := range snapshot.Posts {
		if post.ID < 1 || post.ID >= snapshot.NextPostID {
			return fmt.Errorf("post id %d outside [1, %d)", post.ID, snapshot.NextPostID)
		}
		if _, ok := postIDs[post.ID]; ok {
			return fmt.Errorf("duplicate post id %d", post.ID)
		}
		if err := s.validatePost(post); err != nil {
			return fmt.Errorf("post %d: %w", post.ID, err)
		}
		postIDs[post.ID] = struct{}{}
	}
	return nil
}

func (s *PlatformService) validatePost(post social.Post) error {
	if !post.Kind.IsValid() {
		return fmt.Errorf("unknown kind %d", post.Kind)
	}
	if post.Kind != social.Endorsement && !s.posts.IsValidMessage(post.Message) {
		return fmt.Errorf("invalid message")
	}
	switch post.Kind {
	case social.Original:
		if post.TargetID != 0 {
			return fmt.Errorf("original post with target %d", post.TargetID)
		}
	case social.Endorsement:
		if post.Message != "" {
			return fmt.Errorf("endorsement with a message")
		}
		if post.TargetID < 1 || post.TargetID >= post.ID {
			return fmt.Errorf("endorsement target %d", post.TargetID)
		}
	case social.Comment:
		if post.IsOrphan() {
			// ghost bookkeeping always points backwards: anchor < deleted post < orphan
			if post.OrphanedFrom < 1 || post.OrphanedFrom >= post.ID ||
				post.GhostParent >= post.OrphanedFrom || (post.GhostParent < 1 && post.GhostParent != social.OrphanID) {
				return fmt.Errorf("inconsistent orphan bookkeeping")
			}
			return nil
		}
		if post.TargetID < 1 || post.TargetID >= post.ID {
			return fmt.Errorf("comment target %d", post.TargetID)
		}
	}
	return nil
}
