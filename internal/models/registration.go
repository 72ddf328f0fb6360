package models

import "fmt"

// Per-field error codes of the registration report.
const (
	CodeAvailable = 0 // field passed format and availability checks
	CodeInUse     = 1 // value is actively bound to another user
	CodeInvalid   = 2 // field content is structurally invalid
)

// Registration field names used as report keys.
const (
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldDevice    = "device"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldPassword  = "password"
)

// RegistrationRequest carries the raw fields of one registration call.
type RegistrationRequest struct {
	FirstName  string
	LastName   string
	Password   string
	Email      string
	DeviceName string
	DeviceSN   string
	Phone      string
	BirthDate  string // optional, format 2006-01-02
}

// FieldStatus is the verdict for a single field.
type FieldStatus struct {
	Code    int
	Message string
}

// FieldReport accumulates per-field verdicts, keyed by field name.
// Code 0 entries co-exist with other fields' errors: the report is a
// complete per-field account, not a single verdict.
type FieldReport map[string]FieldStatus

// Set records the verdict for a field.
func (r FieldReport) Set(field string, code int, message string) {
	r[field] = FieldStatus{Code: code, Message: message}
}

// HasErrors reports whether any field failed.
func (r FieldReport) HasErrors() bool {
	for _, st := range r {
		if st.Code != CodeAvailable {
			return true
		}
	}
	return false
}

// Flatten renders the report in the wire shape consumed by clients:
// <field>_error and <field>_message keys.
func (r FieldReport) Flatten() map[string]any {
	out := make(map[string]any, len(r)*2)
	for field, st := range r {
		out[field+"_error"] = st.Code
		out[field+"_message"] = st.Message
	}
	return out
}

// RegistrationData is the success payload: resolved IDs plus echoed input.
type RegistrationData struct {
	UserID     int64  `json:"user_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email_address"`
	EmailID    int64  `json:"email_id"`
	Phone      string `json:"phone_number"`
	PhoneID    int64  `json:"phone_id"`
	DeviceName string `json:"device_name"`
	DeviceSN   string `json:"device_sn"`
	DeviceID   int64  `json:"device_id"`
	BirthDate  string `json:"birth_date,omitempty"`
}

// RegistrationResult is the discriminated outcome of one registration call.
// Type is "success" with Data set, or "error" with the per-field report.
type RegistrationResult struct {
	Type   string
	Fields FieldReport
	Data   *RegistrationData
}

// ResultTypeSuccess and ResultTypeError discriminate RegistrationResult.
const (
	ResultTypeSuccess = "success"
	ResultTypeError   = "error"
)

// FieldConflictError reports a store-level uniqueness violation raised when
// a binding insert loses the race for a value entity. The store is the
// canonical source of this error; the pre-check query is a fast path only.
type FieldConflictError struct {
	Field string
}

func (e *FieldConflictError) Error() string {
	return fmt.Sprintf("%s already in use", e.Field)
}
