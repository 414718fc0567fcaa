package domain

// RegistryRecord is the authoritative data returned by an external registry
// lookup. CAC lookups populate the company fields, NIN lookups the person
// fields; both share Status.
type RegistryRecord struct {
	// CAC
	Name               string `json:"name,omitempty"`
	RegistrationNumber string `json:"registration_number,omitempty"`
	RegistrationDate   string `json:"registration_date,omitempty"`
	EntityType         string `json:"entity_type,omitempty"`

	// NIN
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	NationalID  string `json:"national_id,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`

	Status string `json:"status,omitempty"`
}

// Fields flattens the record into the field map stored on verification details
// and audit records. Empty values are omitted.
func (r *RegistryRecord) Fields() map[string]string {
	out := make(map[string]string)
	put := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	put("name", r.Name)
	put("registrationNumber", r.RegistrationNumber)
	put("registrationDate", r.RegistrationDate)
	put("entityType", r.EntityType)
	put("firstName", r.FirstName)
	put("lastName", r.LastName)
	put("dateOfBirth", r.DateOfBirth)
	put("gender", r.Gender)
	put("phoneNumber", r.PhoneNumber)
	put("status", r.Status)
	return out
}

// LookupFailure is the error value returned when a registry lookup cannot
// produce a record: service misconfiguration, transport failures, timeouts,
// not-found responses. Code is the provider error code; Message is safe to
// show to staff, never to customers.
type LookupFailure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (f *LookupFailure) Error() string {
	return "registry lookup failed: " + f.Code + ": " + f.Message
}
