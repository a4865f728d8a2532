package api

import "fmt"

// Config is the root of the endpoint schema. It names the backend and the
// tree of endpoints whose responses are flattened into records.
type Config struct {
	// URL is the base URL every endpoint path is appended to.
	URL string `json:"url" hcl:"url"`
	// APIs are the top-level endpoints, fetched relative to "/".
	APIs []Endpoint `json:"apis" hcl:"api,block"`
}

// Endpoint is one node of the schema. Its Path is fetched relative to the
// record path of the parent entry it is expanded under.
type Endpoint struct {
	// Path of the endpoint, relative to its parent record.
	Path string `json:"path" hcl:"path,label"`
	// JSONPath optionally narrows the response before flattening.
	JSONPath string `json:"jsonpath,omitempty" hcl:"jsonpath,optional"`
	// Entity marks each key of the response as an entity whose children
	// are only fetched when navigation enters it.
	Entity bool `json:"entity,omitempty" hcl:"entity,optional"`
	// APIs are fetched once per key of this endpoint's response.
	APIs []Endpoint `json:"apis,omitempty" hcl:"api,block"`
}

// SchemaError reports an unusable schema. Path names the offending endpoint
// and is empty for errors about the whole document.
type SchemaError struct {
	Path   string
	Reason string
	Err    error
}

func (e *SchemaError) Error() string {
	msg := "invalid schema"
	if e.Path != "" {
		msg += fmt.Sprintf(" at %q", e.Path)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Validate checks the document-level requirements. Per-endpoint checks that
// need compiled expressions happen when the schema is loaded by the resolver.
func (c *Config) Validate() error {
	if c.URL == "" {
		return &SchemaError{Reason: "url is required"}
	}
	if len(c.APIs) == 0 {
		return &SchemaError{Reason: "at least one api is required"}
	}
	return validateEndpoints(c.APIs)
}

func validateEndpoints(eps []Endpoint) error {
	for _, ep := range eps {
		if ep.Path == "" {
			return &SchemaError{Reason: "endpoint path is empty"}
		}
		if err := validateEndpoints(ep.APIs); err != nil {
			return err
		}
	}
	return nil
}
