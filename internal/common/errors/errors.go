// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

type ErrorCode string

const (
	ErrCodeInputParsingFailed ErrorCode = "INPUT_PARSING_FAILED"
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"

	ErrCodeStoreNotConfigured       ErrorCode = "STORE_NOT_CONFIGURED"
	ErrCodeStoreWriteFailed         ErrorCode = "STORE_WRITE_FAILED"
	ErrCodeStoreReadFailed          ErrorCode = "STORE_READ_FAILED"
	ErrCodeConcurrentUpdateConflict ErrorCode = "CONCURRENT_UPDATE_CONFLICT"
	ErrCodeContextDeserializeFailed ErrorCode = "CONTEXT_DESERIALIZE_FAILED"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeMailingListSyncFailed  ErrorCode = "MAILING_LIST_SYNC_FAILED"
	ErrCodeSearchIndexFailed      ErrorCode = "SEARCH_INDEX_FAILED"

	ErrCodeLLMTimeout          ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMCompletionFailed ErrorCode = "LLM_COMPLETION_FAILED"

	ErrCodeCRMNotConfigured ErrorCode = "CRM_NOT_CONFIGURED"
	ErrCodeCRMAPIError      ErrorCode = "CRM_API_ERROR"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError is a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError is an error thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns the variables set on a failed or thrown job.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: IsRetryableErrorCode(code),
		Timestamp: time.Now().UTC(),
	}
}

func NewInputParsingFailedError(err error) *StandardError {
	return newError(ErrCodeInputParsingFailed, "Job variables could not be parsed", err.Error())
}

func NewValidationFailedError(details string) *StandardError {
	return newError(ErrCodeValidationFailed, "Input validation failed", details)
}

func NewStoreNotConfiguredError(store string) *StandardError {
	return newError(ErrCodeStoreNotConfigured, "Store is not configured", fmt.Sprintf("store: %s", store))
}

func NewStoreWriteFailedError(table string, err error) *StandardError {
	return newError(ErrCodeStoreWriteFailed, "Store write failed", fmt.Sprintf("table: %s, error: %s", table, err.Error()))
}

func NewStoreReadFailedError(table string, err error) *StandardError {
	return newError(ErrCodeStoreReadFailed, "Store read failed", fmt.Sprintf("table: %s, error: %s", table, err.Error()))
}

func NewConcurrentUpdateConflictError(userID string, attempts int) *StandardError {
	return newError(ErrCodeConcurrentUpdateConflict, "Lead intelligence changed during update",
		fmt.Sprintf("userId: %s, attempts: %d", userID, attempts))
}

func NewContextDeserializeFailedError(err error) *StandardError {
	return newError(ErrCodeContextDeserializeFailed, "User context could not be restored", err.Error())
}

func NewNotificationSendFailedError(kind string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed", fmt.Sprintf("kind: %s, error: %s", kind, err.Error()))
}

func NewMailingListSyncFailedError(err error) *StandardError {
	return newError(ErrCodeMailingListSyncFailed, "Mailing list sync failed", err.Error())
}

func NewSearchIndexFailedError(index string, err error) *StandardError {
	return newError(ErrCodeSearchIndexFailed, "Search indexing failed", fmt.Sprintf("index: %s, error: %s", index, err.Error()))
}

func NewLLMTimeoutError() *StandardError {
	return newError(ErrCodeLLMTimeout, "LLM completion timeout", "completion call exceeded its deadline")
}

func NewLLMCompletionFailedError(err error) *StandardError {
	return newError(ErrCodeLLMCompletionFailed, "LLM completion failed", err.Error())
}

func NewCRMNotConfiguredError() *StandardError {
	return newError(ErrCodeCRMNotConfigured, "CRM integration is not configured", "")
}

func NewCRMAPIError(err error) *StandardError {
	return newError(ErrCodeCRMAPIError, "CRM API error", err.Error())
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal codes to the error codes caught by BPMN boundary events.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInputParsingFailed:       "INPUT_PARSING_FAILED",
	ErrCodeValidationFailed:         "VALIDATION_FAILED",
	ErrCodeStoreNotConfigured:       "STORE_NOT_CONFIGURED",
	ErrCodeStoreWriteFailed:         "STORE_WRITE_FAILED",
	ErrCodeStoreReadFailed:          "STORE_READ_FAILED",
	ErrCodeConcurrentUpdateConflict: "CONCURRENT_UPDATE_CONFLICT",
	ErrCodeContextDeserializeFailed: "CONTEXT_DESERIALIZE_FAILED",
	ErrCodeNotificationSendFailed:   "NOTIFICATION_SEND_FAILED",
	ErrCodeMailingListSyncFailed:    "MAILING_LIST_SYNC_FAILED",
	ErrCodeSearchIndexFailed:        "SEARCH_INDEX_FAILED",
	ErrCodeLLMTimeout:               "LLM_TIMEOUT",
	ErrCodeLLMCompletionFailed:      "LLM_COMPLETION_FAILED",
	ErrCodeCRMNotConfigured:         "CRM_NOT_CONFIGURED",
	ErrCodeCRMAPIError:              "CRM_API_ERROR",
}

// GetRetryCount returns the recommended Zeebe retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeStoreWriteFailed,
		ErrCodeStoreReadFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeMailingListSyncFailed,
		ErrCodeSearchIndexFailed,
		ErrCodeCRMAPIError,
		ErrCodeLLMCompletionFailed:
		return 3
	case ErrCodeConcurrentUpdateConflict:
		return 2
	case ErrCodeLLMTimeout:
		return 1
	default:
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// FromError normalises any error into a StandardError. Worker sentinels built with
// errors.New("CODE") keep their code; anything else becomes INTERNAL_ERROR.
func FromError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	root := err
	for {
		next := stderrors.Unwrap(root)
		if next == nil {
			break
		}
		root = next
	}
	code := ErrorCode(root.Error())
	if _, known := BPMNErrorMapping[code]; known {
		return &StandardError{
			Code:      code,
			Message:   err.Error(),
			Details:   err.Error(),
			Retryable: IsRetryableErrorCode(code),
			Timestamp: time.Now().UTC(),
		}
	}

	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "STORE") || strings.Contains(codeStr, "CONFLICT"):
		return "STORE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION") || strings.Contains(codeStr, "MAILING"):
		return "NOTIFICATION"
	case strings.HasPrefix(codeStr, "CRM"):
		return "CRM"
	case strings.HasPrefix(codeStr, "LLM"):
		return "AI"
	case strings.Contains(codeStr, "PARSING") || strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "DESERIALIZE"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
