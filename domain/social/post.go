package social

import "fmt"

type PostID int

const (
	// NoPost is returned by aggregate queries when no post qualifies.
	NoPost PostID = -1
	// OrphanID is the target of a comment whose original post was deleted.
	OrphanID PostID = -1
)

// GhostMessage stands in for a deleted post when a tree is rendered.
const GhostMessage = "The original content was removed from the system and is no longer available."

type Kind int

const (
	Original Kind = iota + 1
	Comment
	Endorsement
)

func (k Kind) String() string {
	switch k {
	case Original:
		return "original"
	case Comment:
		return "comment"
	case Endorsement:
		return "endorsement"
	default:
		return "unknown"
	}
}

func (k Kind) IsValid() bool {
	return k >= Original && k <= Endorsement
}

// Post is a tagged variant: Kind decides which fields carry meaning.
//   - Original: Message, TargetID is 0.
//   - Comment: Message and TargetID. Once its target is deleted TargetID becomes OrphanID,
//     OrphanedFrom keeps the deleted id and GhostParent the node the ghost hangs under.
//   - Endorsement: TargetID only.
type Post struct {
	ID           PostID
	Kind         Kind
	Author       string
	Message      string
	TargetID     PostID
	OrphanedFrom PostID
	GhostParent  PostID
}

func NewOriginal(author, message string) Post {
	return Post{Kind: Original, Author: author, Message: message}
}

func NewComment(author string, target PostID, message string) Post {
	return Post{Kind: Comment, Author: author, Message: message, TargetID: target}
}

func NewEndorsement(author string, target PostID) Post {
	return Post{Kind: Endorsement, Author: author, TargetID: target}
}

// IsActionable reports whether the post can be endorsed, commented or rendered as a tree root.
func (p Post) IsActionable() bool {
	return p.Kind != Endorsement
}

func (p Post) IsOrphan() bool {
	return p.Kind == Comment && p.TargetID == OrphanID
}

// Anchor is where a ghost of this post would hang once it is deleted.
func (p Post) Anchor() PostID {
	switch {
	case p.Kind != Comment:
		return OrphanID
	case p.IsOrphan():
		return p.GhostParent
	default:
		return p.TargetID
	}
}

// PostView is the read model returned by ShowPost.
type PostView struct {
	ID           PostID
	Author       string
	Endorsements int
	Comments     int
	Message      string
}

func (v PostView) String() string {
	return fmt.Sprintf("ID: %d\nAccount: %s\nNo. endorsements: %d | No. comments: %d\n%s",
		v.ID, v.Author, v.Endorsements, v.Comments, v.Message)
}
