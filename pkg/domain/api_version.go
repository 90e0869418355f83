package domain

// APIVersion names the API surface a request came through. It travels
// in the request context so logs and audit entries can attribute
// activity to a version after /v2 ships alongside /v1.
type APIVersion string

const APIVersionV1 APIVersion = "v1"

func (v APIVersion) String() string { return string(v) }

// IsNil reports an unset version, seen on routes mounted outside a
// versioned group.
func (v APIVersion) IsNil() bool { return v == "" }
