// Package social contains the core concepts of the social platform.
// Accounts and posts are plain values; ownership and invariants live in the repositories and services.
package social

import "fmt"

type AccountID int

// NoAccount is returned by aggregate queries when there is no account at all.
const NoAccount AccountID = -1

type Account struct {
	ID          AccountID
	Handle      string
	Description string
}

// AccountView is the read model returned by ShowAccount.
type AccountView struct {
	ID           AccountID
	Handle       string
	Description  string
	PostCount    int
	EndorseCount int
}

func (v AccountView) String() string {
	return fmt.Sprintf("ID: %d\nHandle: %s\nDescription: %s\nPost count: %d\nEndorse count: %d",
		v.ID, v.Handle, v.Description, v.PostCount, v.EndorseCount)
}
