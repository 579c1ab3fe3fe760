package errors

import "fmt"

var (
	ErrHandleAlreadyExists  = fmt.Errorf("handle already exists")
	ErrInvalidHandleFormat  = fmt.Errorf("invalid handle format")
	ErrHandleNotFound       = fmt.Errorf("handle not found")
	ErrAccountIDNotFound    = fmt.Errorf("account id not found")
	ErrPostIDNotFound       = fmt.Errorf("post id not found")
	ErrInvalidMessageFormat = fmt.Errorf("invalid message format")
	ErrPostNotActionable    = fmt.Errorf("post is not actionable")
	ErrPersistenceIO        = fmt.Errorf("snapshot i/o failure")
	ErrPersistenceFormat    = fmt.Errorf("snapshot format failure")
	ErrEmptyWords           = fmt.Errorf("no words have been found")
)
