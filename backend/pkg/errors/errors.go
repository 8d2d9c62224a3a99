package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeAccount represents account store errors
	ErrorTypeAccount ErrorType = "account"
	// ErrorTypeSession represents session registry errors
	ErrorTypeSession ErrorType = "session"
	// ErrorTypeProfile represents attribute bag errors
	ErrorTypeProfile ErrorType = "profile"
	// ErrorTypeRelation represents relationship graph errors
	ErrorTypeRelation ErrorType = "relation"
	// ErrorTypeMessage represents note and broadcast queue errors
	ErrorTypeMessage ErrorType = "message"
	// ErrorTypeCommunity represents community registry errors
	ErrorTypeCommunity ErrorType = "community"
	// ErrorTypeStorage represents persistence errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// Code identifies one entry of the error taxonomy. Two errors with the same
// code are considered equal by errors.Is regardless of their context fields.
type Code string

const (
	CodeDuplicateAccount       Code = "duplicate_account"
	CodeInvalidCredentials     Code = "invalid_credentials"
	CodeUnknownAccount         Code = "unknown_account"
	CodeUnknownSession         Code = "unknown_session"
	CodeMissingAttribute       Code = "missing_attribute"
	CodeSelfRelation           Code = "self_relation"
	CodeAlreadyRelated         Code = "already_related"
	CodeDuplicateRequest       Code = "duplicate_request"
	CodeBlocked                Code = "blocked"
	CodeSelfSend               Code = "self_send"
	CodeEmptyQueue             Code = "empty_queue"
	CodeDuplicateCommunityName Code = "duplicate_community_name"
	CodeUnknownCommunity       Code = "unknown_community"
	CodeAlreadyMember          Code = "already_member"
	CodeInvalidCommunityName   Code = "invalid_community_name"
	CodeStorageCorrupt         Code = "storage_corrupt"
	CodeStorageWrite           Code = "storage_write"
	CodeConfigInvalid          Code = "config_invalid"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Code      Code
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Is reports whether target carries the same taxonomy code.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, code Code, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Account Errors

// ErrDuplicateAccount is returned when a login is already registered
var ErrDuplicateAccount = NewBaseError(ErrorTypeAccount, CodeDuplicateAccount, "an account with this login already exists", nil)

// ErrUnknownAccount is the sentinel for every UnknownAccount error
var ErrUnknownAccount = NewBaseError(ErrorTypeAccount, CodeUnknownAccount, "user not registered", nil)

// ErrUnknownAccountLogin is returned when a login does not resolve to an account
type ErrUnknownAccountLogin struct {
	*BaseError
	Login string
}

func NewUnknownAccount(login string) *ErrUnknownAccountLogin {
	return &ErrUnknownAccountLogin{
		BaseError: NewBaseError(ErrorTypeAccount, CodeUnknownAccount, "user not registered", nil),
		Login:     login,
	}
}

// Session Errors

// ErrInvalidCredentials is the sentinel for every InvalidCredentials error
var ErrInvalidCredentials = NewBaseError(ErrorTypeSession, CodeInvalidCredentials, "invalid login or password", nil)

// ErrInvalidCredentialsField is returned when a login or password is rejected.
// Field is "login", "password" or empty when the pair as a whole is wrong.
type ErrInvalidCredentialsField struct {
	*BaseError
	Field string
}

func NewInvalidCredentials(field string) *ErrInvalidCredentialsField {
	msg := "invalid login or password"
	switch field {
	case "login":
		msg = "invalid login"
	case "password":
		msg = "invalid password"
	}
	return &ErrInvalidCredentialsField{
		BaseError: NewBaseError(ErrorTypeSession, CodeInvalidCredentials, msg, nil),
		Field:     field,
	}
}

// ErrUnknownSession is returned when a session token is not registered
var ErrUnknownSession = NewBaseError(ErrorTypeSession, CodeUnknownSession, "session not found", nil)

// Profile Errors

// ErrMissingAttribute is returned when a profile attribute was never filled
var ErrMissingAttribute = NewBaseError(ErrorTypeProfile, CodeMissingAttribute, "attribute not filled", nil)

// Relation Errors

// ErrSelfRelation is the sentinel for every SelfRelation error
var ErrSelfRelation = NewBaseError(ErrorTypeRelation, CodeSelfRelation, "a user cannot relate to themselves", nil)

// ErrSelfRelationKind is returned when an account targets itself
type ErrSelfRelationKind struct {
	*BaseError
	Relation string
}

func NewSelfRelation(relation string) *ErrSelfRelationKind {
	return &ErrSelfRelationKind{
		BaseError: NewBaseError(ErrorTypeRelation, CodeSelfRelation, fmt.Sprintf("user cannot be their own %s", relation), nil),
		Relation:  relation,
	}
}

// ErrAlreadyRelated is the sentinel for every AlreadyRelated error
var ErrAlreadyRelated = NewBaseError(ErrorTypeRelation, CodeAlreadyRelated, "user already related", nil)

// ErrAlreadyRelatedKind is returned when the forward edge already exists
type ErrAlreadyRelatedKind struct {
	*BaseError
	Relation string
}

func NewAlreadyRelated(relation string) *ErrAlreadyRelatedKind {
	return &ErrAlreadyRelatedKind{
		BaseError: NewBaseError(ErrorTypeRelation, CodeAlreadyRelated, fmt.Sprintf("user already added as %s", relation), nil),
		Relation:  relation,
	}
}

// ErrDuplicateRequest is returned when a friend request is still pending
var ErrDuplicateRequest = NewBaseError(ErrorTypeRelation, CodeDuplicateRequest, "user already added as friend, waiting for the invitation to be accepted", nil)

// ErrBlocked is the sentinel for every Blocked error
var ErrBlocked = NewBaseError(ErrorTypeRelation, CodeBlocked, "invalid operation: user is your enemy", nil)

// ErrBlockedBy is returned by the enemy gate and names the counterpart
type ErrBlockedBy struct {
	*BaseError
	EnemyName string
}

func NewBlocked(enemyName string) *ErrBlockedBy {
	return &ErrBlockedBy{
		BaseError: NewBaseError(ErrorTypeRelation, CodeBlocked, fmt.Sprintf("invalid operation: %s is your enemy", enemyName), nil),
		EnemyName: enemyName,
	}
}

// Message Errors

// ErrSelfSend is returned when a user sends a note to themselves
var ErrSelfSend = NewBaseError(ErrorTypeMessage, CodeSelfSend, "user cannot send a note to themselves", nil)

// ErrEmptyQueue is the sentinel for every EmptyQueue error
var ErrEmptyQueue = NewBaseError(ErrorTypeMessage, CodeEmptyQueue, "no messages", nil)

// ErrEmptyQueueNamed is returned when a dequeue finds nothing
type ErrEmptyQueueNamed struct {
	*BaseError
	Queue string
}

func NewEmptyQueue(queue, message string) *ErrEmptyQueueNamed {
	return &ErrEmptyQueueNamed{
		BaseError: NewBaseError(ErrorTypeMessage, CodeEmptyQueue, message, nil),
		Queue:     queue,
	}
}

// Community Errors

// ErrDuplicateCommunityName is returned when a community name is taken
var ErrDuplicateCommunityName = NewBaseError(ErrorTypeCommunity, CodeDuplicateCommunityName, "a community with this name already exists", nil)

// ErrUnknownCommunity is the sentinel for every UnknownCommunity error
var ErrUnknownCommunity = NewBaseError(ErrorTypeCommunity, CodeUnknownCommunity, "community does not exist", nil)

// ErrUnknownCommunityName is returned when a name does not resolve to a community
type ErrUnknownCommunityName struct {
	*BaseError
	Name string
}

func NewUnknownCommunity(name string) *ErrUnknownCommunityName {
	return &ErrUnknownCommunityName{
		BaseError: NewBaseError(ErrorTypeCommunity, CodeUnknownCommunity, "community does not exist", nil),
		Name:      name,
	}
}

// ErrInvalidCommunityName is returned when a community is created without a name
var ErrInvalidCommunityName = NewBaseError(ErrorTypeCommunity, CodeInvalidCommunityName, "community name must not be empty", nil)

// ErrAlreadyMember is returned when joining a community twice
var ErrAlreadyMember = NewBaseError(ErrorTypeCommunity, CodeAlreadyMember, "user is already a member of this community", nil)

// Storage Errors

// ErrStorageCorrupt is the sentinel for every StorageCorrupt error
var ErrStorageCorrupt = NewBaseError(ErrorTypeStorage, CodeStorageCorrupt, "persisted storage is corrupt", nil)

// ErrStorageCorruptLine points at the record and line that failed to load
type ErrStorageCorruptLine struct {
	*BaseError
	Record string
	Line   int
	Reason string
}

func NewStorageCorrupt(record string, line int, reason string) *ErrStorageCorruptLine {
	return &ErrStorageCorruptLine{
		BaseError: NewBaseError(ErrorTypeStorage, CodeStorageCorrupt, fmt.Sprintf("corrupt %s record at line %d: %s", record, line, reason), nil),
		Record:    record,
		Line:      line,
		Reason:    reason,
	}
}

// NewStorageWrite wraps a failure to write or clear the backing store
func NewStorageWrite(op string, err error) *BaseError {
	return NewBaseError(ErrorTypeStorage, CodeStorageWrite, fmt.Sprintf("failed to %s storage", op), err)
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, CodeConfigInvalid, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if err == nil {
		return false
	}
	if typed, ok := err.(interface{ errorType() ErrorType }); ok {
		return typed.errorType() == errType
	}
	// Check wrapped errors
	if wrapped, ok := err.(interface{ Unwrap() error }); ok {
		return IsErrorType(wrapped.Unwrap(), errType)
	}
	return false
}

func (e *BaseError) errorType() ErrorType {
	return e.Type
}

// CodeOf returns the taxonomy code carried by err, or "" when err is not ours.
func CodeOf(err error) Code {
	for err != nil {
		if typed, ok := err.(interface{ errorCode() Code }); ok {
			return typed.errorCode()
		}
		wrapped, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = wrapped.Unwrap()
	}
	return ""
}

func (e *BaseError) errorCode() Code {
	return e.Code
}
