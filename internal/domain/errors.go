package domain

import "errors"

var (
	// ErrNotFound is returned when the remote API has no such resource.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized means the access token was missing, expired or rejected.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrStepLocked means the current workflow step's gate does not hold yet.
	ErrStepLocked = errors.New("workflow: step locked")
	// ErrNotConfirmed means publish was attempted before every checklist item was ticked.
	ErrNotConfirmed = errors.New("workflow: confirmation checklist incomplete")
	// ErrTranslationPending means a translation job is still running.
	ErrTranslationPending = errors.New("workflow: translation in progress")
	// ErrAlreadyPublished means the workflow already completed.
	ErrAlreadyPublished = errors.New("workflow: article already published")
	// ErrChallengeRequired means Cognito wants a new password before issuing tokens.
	ErrChallengeRequired = errors.New("auth: challenge required")
	// ErrInvalidCredentials means Cognito rejected the username or password.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)
