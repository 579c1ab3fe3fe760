package storage

import (
	"context"
	"fmt"
	"log/slog"
	"social-lab/domain/social"
	apperrors "social-lab/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// formatVersion is bumped whenever the record layout changes incompatibly.
const formatVersion = 1

const (
	accountPrefix  = "account:"
	postPrefix     = "post:"
	accountSeqKey  = "seq:account"
	postSeqKey     = "seq:post"
	formatKey      = "meta:format"
	revisionKey    = "meta:revision"
	metadataPrefix = "meta:"
	sequencePrefix = "seq:"
)

// SnapshotRepository stores one full platform snapshot in BadgerDB.
// Keys are zero padded ids ("account:{id:019}", "post:{id:019}") so a prefix
// scan returns entities in creation order.
type SnapshotRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewSnapshotRepository(db *badger.DB, log *slog.Logger) *SnapshotRepository {
	return &SnapshotRepository{db: db, log: log}
}

// Save replaces the stored snapshot atomically, writing accounts, the account
// sequence, posts and the post sequence in that order.
func (s *SnapshotRepository) Save(ctx context.Context, snapshot social.Snapshot) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", apperrors.ErrPersistenceIO, err)
	}
	revision := uuid.New()

	err := s.db.Update(func(txn *badger.Txn) error {
		// 1. Drop the previous snapshot
		for _, prefix := range []string{accountPrefix, postPrefix, sequencePrefix, metadataPrefix} {
			if err := deletePrefix(txn, []byte(prefix)); err != nil {
				return err
			}
		}

		// 2. Accounts then the account sequence
		for _, account := range snapshot.Accounts {
			if err := txn.Set(accountKey(account.ID), encodeAccount(account)); err != nil {
				return err
			}
		}
		if err := txn.Set([]byte(accountSeqKey), encodeUint(uint64(snapshot.NextAccountID))); err != nil {
			return err
		}

		// 3. Posts then the post sequence
		for _, post := range snapshot.Posts {
			if err := txn.Set(postKey(post.ID), encodePost(post)); err != nil {
				return err
			}
		}
		if err := txn.Set([]byte(postSeqKey), encodeUint(uint64(snapshot.NextPostID))); err != nil {
			return err
		}

		// 4. Metadata
		if err := txn.Set([]byte(formatKey), encodeUint(formatVersion)); err != nil {
			return err
		}
		return txn.Set([]byte(revisionKey), revision[:])
	})
	if err != nil {
		s.log.Error("Snapshot save failed", "error", err)
		return uuid.Nil, fmt.Errorf("%w: %v", apperrors.ErrPersistenceIO, err)
	}

	s.log.Info("Snapshot saved",
		"revision", revision,
		"accounts", len(snapshot.Accounts),
		"posts", len(snapshot.Posts))
	return revision, nil
}

// Load reads the stored snapshot back in the order it was written.
// An empty database yields the erased state.
func (s *SnapshotRepository) Load(ctx context.Context) (social.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return social.Snapshot{}, fmt.Errorf("%w: %v", apperrors.ErrPersistenceIO, err)
	}

	var raw rawSnapshot
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		if raw.format, err = getOptional(txn, formatKey); err != nil {
			return err
		}
		if raw.accounts, err = scanPrefix(txn, []byte(accountPrefix)); err != nil {
			return err
		}
		if raw.accountSeq, err = getOptional(txn, accountSeqKey); err != nil {
			return err
		}
		if raw.posts, err = scanPrefix(txn, []byte(postPrefix)); err != nil {
			return err
		}
		if raw.postSeq, err = getOptional(txn, postSeqKey); err != nil {
			return err
		}
		raw.revision, err = getOptional(txn, revisionKey)
		return err
	})
	if err != nil {
		s.log.Error("Snapshot load failed", "error", err)
		return social.Snapshot{}, fmt.Errorf("%w: %v", apperrors.ErrPersistenceIO, err)
	}

	if raw.isEmpty() {
		s.log.Info("No snapshot stored, starting empty")
		return social.Empty(), nil
	}

	snapshot, err := raw.decode()
	if err != nil {
		return social.Snapshot{}, fmt.Errorf("%w: %v", apperrors.ErrPersistenceFormat, err)
	}

	revision, _ := uuid.FromBytes(raw.revision)
	s.log.Info("Snapshot loaded",
		"revision", revision,
		"accounts", len(snapshot.Accounts),
		"posts", len(snapshot.Posts))
	return snapshot, nil
}

type rawSnapshot struct {
	format     []byte
	accounts   [][]byte
	accountSeq []byte
	posts      [][]byte
	postSeq    []byte
	revision   []byte
}

func (r rawSnapshot) isEmpty() bool {
	return r.format == nil && r.accountSeq == nil && r.postSeq == nil &&
		len(r.accounts) == 0 && len(r.posts) == 0
}

func (r rawSnapshot) decode() (social.Snapshot, error) {
	if r.format == nil {
		return social.Snapshot{}, fmt.Errorf("missing %s", formatKey)
	}
	version, err := decodeUint(r.format)
	if err != nil {
		return social.Snapshot{}, fmt.Errorf("%s: %w", formatKey, err)
	}
	if version != formatVersion {
		return social.Snapshot{}, fmt.Errorf("unsupported format version %d", version)
	}
	if r.accountSeq == nil || r.postSeq == nil {
		return social.Snapshot{}, fmt.Errorf("missing sequence values")
	}

	var snapshot social.Snapshot
	for _, b := range r.accounts {
		account, err := decodeAccount(b)
		if err != nil {
			return social.Snapshot{}, fmt.Errorf("account record: %w", err)
		}
		snapshot.Accounts = append(snapshot.Accounts, account)
	}
	nextAccount, err := decodeUint(r.accountSeq)
	if err != nil {
		return social.Snapshot{}, fmt.Errorf("%s: %w", accountSeqKey, err)
	}
	snapshot.NextAccountID = social.AccountID(nextAccount)

	for _, b := range r.posts {
		post, err := decodePost(b)
		if err != nil {
			return social.Snapshot{}, fmt.Errorf("post record: %w", err)
		}
		snapshot.Posts = append(snapshot.Posts, post)
	}
	nextPost, err := decodeUint(r.postSeq)
	if err != nil {
		return social.Snapshot{}, fmt.Errorf("%s: %w", postSeqKey, err)
	}
	snapshot.NextPostID = social.PostID(nextPost)
	return snapshot, nil
}

func accountKey(id social.AccountID) []byte {
	return []byte(fmt.Sprintf("%s%019d", accountPrefix, id))
}

func postKey(id social.PostID) []byte {
	return []byte(fmt.Sprintf("%s%019d", postPrefix, id))
}

func getOptional(txn *badger.Txn, key string) ([]byte, error) {
	item, err := txn.Get([]byte(key))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func scanPrefix(txn *badger.Txn, prefix []byte) ([][]byte, error) {
	var values [][]byte
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		value, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

func deletePrefix(txn *badger.Txn, prefix []byte) error {
	options := badger.DefaultIteratorOptions
	options.PrefetchValues = false
	it := txn.NewIterator(options)

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, key := range keys {
		if err := txn.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
