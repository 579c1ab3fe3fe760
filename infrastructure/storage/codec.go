package storage

import (
	"fmt"
	"social-lab/domain/social"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the account record.
const (
	accountID          protowire.Number = 1
	accountHandle      protowire.Number = 2
	accountDescription protowire.Number = 3
)

// Field numbers of the post record. Signed ids are zigzag encoded since
// the orphan sentinel is negative.
const (
	postID           protowire.Number = 1
	postKind         protowire.Number = 2
	postAuthor       protowire.Number = 3
	postMessage      protowire.Number = 4
	postTarget       protowire.Number = 5
	postOrphanedFrom protowire.Number = 6
	postGhostParent  protowire.Number = 7
)

func encodeAccount(a social.Account) []byte {
	var b []byte
	b = appendVarint(b, accountID, uint64(a.ID))
	b = appendString(b, accountHandle, a.Handle)
	if a.Description != "" {
		b = appendString(b, accountDescription, a.Description)
	}
	return b
}

func decodeAccount(b []byte) (social.Account, error) {
	var account social.Account
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, value []byte) int {
		switch {
		case num == accountID && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(value)
			account.ID = social.AccountID(v)
			return n
		case num == accountHandle && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(value)
			account.Handle = v
			return n
		case num == accountDescription && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(value)
			account.Description = v
			return n
		default:
			return protowire.ConsumeFieldValue(num, typ, value)
		}
	})
	return account, err
}

func encodePost(p social.Post) []byte {
	var b []byte
	b = appendVarint(b, postID, uint64(p.ID))
	b = appendVarint(b, postKind, uint64(p.Kind))
	b = appendString(b, postAuthor, p.Author)
	if p.Message != "" {
		b = appendString(b, postMessage, p.Message)
	}
	if p.TargetID != 0 {
		b = appendVarint(b, postTarget, protowire.EncodeZigZag(int64(p.TargetID)))
	}
	if p.IsOrphan() {
		b = appendVarint(b, postOrphanedFrom, protowire.EncodeZigZag(int64(p.OrphanedFrom)))
		b = appendVarint(b, postGhostParent, protowire.EncodeZigZag(int64(p.GhostParent)))
	}
	return b
}

func decodePost(b []byte) (social.Post, error) {
	var post social.Post
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, value []byte) int {
		if typ == protowire.BytesType {
			v, n := protowire.ConsumeString(value)
			switch num {
			case postAuthor:
				post.Author = v
			case postMessage:
				post.Message = v
			}
			return n
		}
		if typ != protowire.VarintType {
			return protowire.ConsumeFieldValue(num, typ, value)
		}
		v, n := protowire.ConsumeVarint(value)
		switch num {
		case postID:
			post.ID = social.PostID(v)
		case postKind:
			post.Kind = social.Kind(v)
		case postTarget:
			post.TargetID = social.PostID(protowire.DecodeZigZag(v))
		case postOrphanedFrom:
			post.OrphanedFrom = social.PostID(protowire.DecodeZigZag(v))
		case postGhostParent:
			post.GhostParent = social.PostID(protowire.DecodeZigZag(v))
		}
		return n
	})
	return post, err
}

func encodeUint(v uint64) []byte {
	return protowire.AppendVarint(nil, v)
}

func decodeUint(b []byte) (uint64, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	if n != len(b) {
		return 0, fmt.Errorf("%d trailing bytes after varint", len(b)-n)
	}
	return v, nil
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

// consumeFields walks a record field by field. The callback returns how many
// bytes of value it consumed, a negative length being a protowire error.
func consumeFields(b []byte, field func(num protowire.Number, typ protowire.Type, value []byte) int) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		n = field(num, typ, b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}
