// Package permission defines the permission vocabulary shared by the
// permission-gated feature wrappers (push, camera, location).
package permission

// Status is the host's answer to a permission request.
type Status string

const (
	Granted Status = "granted"
	Denied  Status = "denied"
	Prompt  Status = "prompt"
	Unknown Status = "unknown"
)

// FromData converts a dynamically typed response payload into a Status,
// mapping anything unexpected to Unknown.
func FromData(data any) Status {
	s, ok := data.(string)
	if !ok {
		return Unknown
	}
	switch Status(s) {
	case Granted, Denied, Prompt:
		return Status(s)
	default:
		return Unknown
	}
}
