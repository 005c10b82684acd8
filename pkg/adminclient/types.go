package adminclient

import "github.com/getmockd/wirecheck/pkg/stub"

// Admin API paths.
const (
	PathMappings        = "/__admin/mappings"
	PathRequests        = "/__admin/requests"
	PathRecordingsStart = "/__admin/recordings/start"
	PathRecordingsStop  = "/__admin/recordings/stop"
)

// MappingList is the body of GET /__admin/mappings.
type MappingList struct {
	Mappings []stub.Stub `json:"mappings"`
	Meta     struct {
		Total int `json:"total"`
	} `json:"meta"`
}

// BodyPattern is the matcher the server generates for recorded request
// bodies.
type BodyPattern struct {
	Matcher             string `json:"matcher"`
	IgnoreArrayOrder    bool   `json:"ignoreArrayOrder"`
	IgnoreExtraElements bool   `json:"ignoreExtraElements"`
}

// RecordSpec is the body of POST /__admin/recordings/start.
type RecordSpec struct {
	TargetBaseURL      string      `json:"targetBaseUrl"`
	RequestBodyPattern BodyPattern `json:"requestBodyPattern"`
	Persist            bool        `json:"persist"`
}

// NewRecordSpec returns the recording settings used for every session:
// lenient JSON body matching and mappings persisted on the server.
func NewRecordSpec(targetBaseURL string) RecordSpec {
	return RecordSpec{
		TargetBaseURL: targetBaseURL,
		RequestBodyPattern: BodyPattern{
			Matcher:             "equalToJson",
			IgnoreArrayOrder:    true,
			IgnoreExtraElements: true,
		},
		Persist: true,
	}
}
