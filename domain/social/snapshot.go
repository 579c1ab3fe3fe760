package social

// Snapshot is the full platform state, in persistence order:
// accounts, account sequence, posts, post sequence.
type Snapshot struct {
	Accounts      []Account
	NextAccountID AccountID
	Posts         []Post
	NextPostID    PostID
}

// Empty is the state right after an erase.
func Empty() Snapshot {
	return Snapshot{
		Accounts:      []Account{},
		NextAccountID: 1,
		Posts:         []Post{},
		NextPostID:    1,
	}
}
