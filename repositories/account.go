package repositories

import (
	"social-lab/domain/social"

	"github.com/samber/lo"
)

type IAccountRepository interface {
	HandleExists(handle string) bool
	IsValidHandle(handle string) bool
	Create(handle, description string) social.Account
	Remove(id social.AccountID)
	FindByHandle(handle string) (social.Account, bool)
	FindByID(id social.AccountID) (social.Account, bool)
	Count() int
	All() []social.Account
	Rename(id social.AccountID, handle string)
	Describe(id social.AccountID, description string)
	NextID() social.AccountID
	Reset()
	Load(accounts []social.Account, next social.AccountID)
}

// AccountRegistry keeps live accounts in creation order.
// It does no validation on its own: callers check handles before mutating.
type AccountRegistry struct {
	accounts []*social.Account
	sequence *social.Sequence[social.AccountID]
}

func NewAccountRegistry(sequence *social.Sequence[social.AccountID]) *AccountRegistry {
	return &AccountRegistry{sequence: sequence}
}

// HandleExists is an exact, case-sensitive match over live accounts.
func (r *AccountRegistry) HandleExists(handle string) bool {
	_, ok := r.find(func(a *social.Account) bool { return a.Handle == handle })
	return ok
}

func (r *AccountRegistry) IsValidHandle(handle string) bool {
	return IsValidHandle(handle)
}

// Create allocates the next account id and stores the account.
func (r *AccountRegistry) Create(handle, description string) social.Account {
	account := &social.Account{
		ID:          r.sequence.Next(),
		Handle:      handle,
		Description: description,
	}
	r.accounts = append(r.accounts, account)
	return *account
}

func (r *AccountRegistry) Remove(id social.AccountID) {
	r.accounts = lo.Reject(r.accounts, func(a *social.Account, _ int) bool {
		return a.ID == id
	})
}

func (r *AccountRegistry) FindByHandle(handle string) (social.Account, bool) {
	account, ok := r.find(func(a *social.Account) bool { return a.Handle == handle })
	if !ok {
		return social.Account{}, false
	}
	return *account, true
}

func (r *AccountRegistry) FindByID(id social.AccountID) (social.Account, bool) {
	account, ok := r.find(func(a *social.Account) bool { return a.ID == id })
	if !ok {
		return social.Account{}, false
	}
	return *account, true
}

func (r *AccountRegistry) Count() int {
	return len(r.accounts)
}

// All returns a copy of the live accounts in creation order.
func (r *AccountRegistry) All() []social.Account {
	return lo.Map(r.accounts, func(a *social.Account, _ int) social.Account {
		return *a
	})
}

func (r *AccountRegistry) Rename(id social.AccountID, handle string) {
	if account, ok := r.find(func(a *social.Account) bool { return a.ID == id }); ok {
		account.Handle = handle
	}
}

func (r *AccountRegistry) Describe(id social.AccountID, description string) {
	if account, ok := r.find(func(a *social.Account) bool { return a.ID == id }); ok {
		account.Description = description
	}
}

func (r *AccountRegistry) NextID() social.AccountID {
	return r.sequence.Peek()
}

// Reset drops every account and restarts the id sequence.
func (r *AccountRegistry) Reset() {
	r.accounts = nil
	r.sequence.Reset()
}

// Load replaces the content with restored accounts and forces the sequence.
func (r *AccountRegistry) Load(accounts []social.Account, next social.AccountID) {
	r.accounts = lo.Map(accounts, func(a social.Account, _ int) *social.Account {
		return &a
	})
	r.sequence.Set(next)
}

func (r *AccountRegistry) find(predicate func(a *social.Account) bool) (*social.Account, bool) {
	return lo.Find(r.accounts, predicate)
}
