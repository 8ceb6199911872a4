package form

// fieldErrors keeps one message key per field. The zero value is empty.
type fieldErrors struct {
	errors map[string]string
}

// SetFieldError records an error for field, e.g. one reported by the server.
func (e *fieldErrors) SetFieldError(field, message string) {
	if e.errors == nil {
		e.errors = make(map[string]string)
	}
	e.errors[field] = message
}

// ClearFieldError drops the error recorded for field.
func (e *fieldErrors) ClearFieldError(field string) {
	delete(e.errors, field)
}

// FieldError returns the error recorded for field, if any.
func (e *fieldErrors) FieldError(field string) string {
	return e.errors[field]
}

// FieldErrors returns a copy of all field errors.
func (e *fieldErrors) FieldErrors() map[string]string {
	out := make(map[string]string, len(e.errors))
	for k, v := range e.errors {
		out[k] = v
	}
	return out
}

// HasErrors reports whether any field error is recorded.
func (e *fieldErrors) HasErrors() bool {
	return len(e.errors) > 0
}

func (e *fieldErrors) check(field, message string) bool {
	if message != "" {
		e.SetFieldError(field, message)
		return false
	}
	e.ClearFieldError(field)
	return true
}
