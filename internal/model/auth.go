package model

// Toast variants
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

// Toast is a one-shot notification shown on the next rendered page.
type Toast struct {
	Variant string `json:"variant"`
	Message string `json:"message"`
}

// NewErrorToast returns an error toast carrying message.
func NewErrorToast(message string) *Toast {
	return &Toast{Variant: ToastError, Message: message}
}

// NewSuccessToast returns a success toast carrying message.
func NewSuccessToast(message string) *Toast {
	return &Toast{Variant: ToastSuccess, Message: message}
}
