package v1

// Errors
const (
	UnknownErrorCode    = 0
	UnknownErrorMessage = "unknown error"

	InvalidRequestCode                 = 1001
	InvalidRequestMessage              = "invalid request"
	InvalidLinkCode                    = 1002
	InvalidLinkMessage                 = "link is invalid or has expired"
	UnknownFrequencyCode               = 1003
	UnknownFrequencyMessage            = "unknown reminder frequency"
	SubscriberNotFoundCode             = 1004
	SubscriberNotFoundMessage          = "no confirmed subscription for this email"
	UnsubscribeAlreadyRequestedCode    = 1005
	UnsubscribeAlreadyRequestedMessage = "unsubscribe already requested, check your inbox"
)

type ErrorCode int
type ErrorMessage string

type ErrorStruct struct {
	ErrorCode    `json:"error_code"`
	ErrorMessage `json:"error_message"`
} // @name ErrorStruct

type ValidationErrorStruct struct {
	ErrorCode    int               `json:"error_code"`
	ErrorMessage string            `json:"error_message"`
	Errors       []ValidationError `json:"validation_errors"`
} // @name ValidationErrorStruct

type ValidationError struct {
	FieldKey     string `json:"field_key"`
	ErrorMessage string `json:"error_message"`
} // @name ValidationError

func getErrorStruct(code ErrorCode) *ErrorStruct {
	errorStruct := &ErrorStruct{
		ErrorCode:    UnknownErrorCode,
		ErrorMessage: UnknownErrorMessage,
	}

	switch code {
	case InvalidRequestCode:
		errorStruct.ErrorCode = InvalidRequestCode
		errorStruct.ErrorMessage = InvalidRequestMessage
	case InvalidLinkCode:
		errorStruct.ErrorCode = InvalidLinkCode
		errorStruct.ErrorMessage = InvalidLinkMessage
	case UnknownFrequencyCode:
		errorStruct.ErrorCode = UnknownFrequencyCode
		errorStruct.ErrorMessage = UnknownFrequencyMessage
	case SubscriberNotFoundCode:
		errorStruct.ErrorCode = SubscriberNotFoundCode
		errorStruct.ErrorMessage = SubscriberNotFoundMessage
	case UnsubscribeAlreadyRequestedCode:
		errorStruct.ErrorCode = UnsubscribeAlreadyRequestedCode
		errorStruct.ErrorMessage = UnsubscribeAlreadyRequestedMessage
	}

	return errorStruct
}
