package domain

// FieldComparison records how one field compared between the registry record
// and the party's self-reported value.
type FieldComparison struct {
	ExternalValue      string `json:"external_value" dynamodbav:"external_value"`
	PartyValue         string `json:"party_value" dynamodbav:"party_value"`
	NormalizedExternal string `json:"normalized_external" dynamodbav:"normalized_external"`
	NormalizedParty    string `json:"normalized_party" dynamodbav:"normalized_party"`
	Matched            bool   `json:"matched" dynamodbav:"matched"`
	Optional           bool   `json:"optional,omitempty" dynamodbav:"optional"`
}

// FieldMatchResult is the outcome of comparing a registry record against a
// party's self-reported fields. Matched is the AND over every required
// comparison; FailedFields preserves comparison-spec declaration order.
type FieldMatchResult struct {
	Matched      bool                       `json:"matched" dynamodbav:"matched"`
	FailedFields []string                   `json:"failed_fields" dynamodbav:"failed_fields"`
	Details      map[string]FieldComparison `json:"details" dynamodbav:"details"`
}
