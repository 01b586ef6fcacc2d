package dto

// FieldError tags a validation or conflict message with the input field it
// belongs to. Safe to show verbatim.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
