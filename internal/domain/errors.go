package domain

import "fmt"

type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindForbidden
	KindConflict
	KindInvalid
	KindUnprocessable
	KindPrecondition
)

// Error carries a stable machine-readable code next to the human message.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on Code so wrapped copies with a different message still compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of e with the message replaced.
func (e *Error) WithMessage(format string, args ...interface{}) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

func newError(kind ErrorKind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

var (
	ErrNotificationNotFound    = newError(KindNotFound, "NOTIFICATION_NOT_FOUND", "Notification not found")
	ErrOrderNotFound           = newError(KindNotFound, "ORDER_NOT_FOUND", "Order not found")
	ErrUserNotFound            = newError(KindNotFound, "USER_NOT_FOUND", "User not found")
	ErrTaskResponseNotFound    = newError(KindNotFound, "TASK_RESPONSE_NOT_FOUND", "Task response not found")
	ErrExtensionNotFound       = newError(KindNotFound, "EXTENSION_NOT_FOUND", "Extension request not found")
	ErrWorkplanItemNotFound    = newError(KindNotFound, "WORKPLAN_ITEM_NOT_FOUND", "Workplan item not found")
	ErrInvalidDateRange        = newError(KindInvalid, "INVALID_DATE_RANGE", "End date must not be before start date")
	ErrUnknownNotificationType = newError(KindInvalid, "UNKNOWN_NOTIFICATION_TYPE", "Unknown notification type")
	ErrPMRoleRequired          = newError(KindForbidden, "PM_ROLE_REQUIRED", "Only Project Manager can submit PM response")
	ErrReviewerRoleRequired    = newError(KindForbidden, "REVIEWER_ROLE_REQUIRED", "Only Project Manager can review extension requests")
	ErrSelfReview              = newError(KindForbidden, "SELF_REVIEW", "Cannot review own extension request")
	ErrNotTaskOwner            = newError(KindForbidden, "NOT_TASK_OWNER", "Task response belongs to another user")
	ErrPMNotApplicable         = newError(KindUnprocessable, "PM_RESPONSE_NOT_APPLICABLE", "PM response is not applicable for this notification type")
	ErrStageBusy               = newError(KindConflict, "STAGE_BUSY", "Another response for this stage is in progress")
	ErrTaskCompleted           = newError(KindConflict, "TASK_ALREADY_COMPLETED", "Task response is already completed")
	ErrExtensionPending        = newError(KindConflict, "EXTENSION_PENDING", "An extension request is already pending")
	ErrExtensionNotPending     = newError(KindConflict, "EXTENSION_NOT_PENDING", "Extension request is not pending")
	ErrNoRecipients            = newError(KindUnprocessable, "NO_RECIPIENTS", "No recipients found for this notification")
	ErrPushDisabled            = newError(KindUnprocessable, "PUSH_DISABLED", "Push notifications are not configured")
	ErrNoFCMToken              = newError(KindUnprocessable, "NO_FCM_TOKEN", "User has no registered FCM token")
	ErrStorageDisabled         = newError(KindUnprocessable, "STORAGE_DISABLED", "Object storage is not configured")
	ErrPrerequisiteMissing     = newError(KindPrecondition, "PREREQUISITE_MISSING", "Prerequisite not found for this order")
)
