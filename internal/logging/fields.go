package logging

import "log/slog"

// Common field names for consistent logging across the service.
const (
	FieldService = "service"
	FieldEmail   = "email"
	FieldTag     = "tag"
	FieldBackend = "backend"
	FieldIP      = "ip"
	FieldMethod  = "method"
	FieldPath    = "path"
	FieldStatus  = "status"
	FieldError   = "error"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// Email returns a slog attribute for the submitter email.
func Email(email string) slog.Attr {
	return slog.String(FieldEmail, email)
}

// Tag returns a slog attribute for the build tag.
func Tag(tag string) slog.Attr {
	return slog.String(FieldTag, tag)
}

// Backend returns a slog attribute for the trigger backend name.
func Backend(name string) slog.Attr {
	return slog.String(FieldBackend, name)
}

// IP returns a slog attribute for the client IP address.
func IP(ip string) slog.Attr {
	return slog.String(FieldIP, ip)
}

// Method returns a slog attribute for the HTTP method.
func Method(method string) slog.Attr {
	return slog.String(FieldMethod, method)
}

// Path returns a slog attribute for the HTTP path.
func Path(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

// Status returns a slog attribute for the HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Error returns a slog attribute for an error value.
// Handles nil errors gracefully.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}
