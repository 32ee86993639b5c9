// Package credentials loads the realtime feed subscription key from a local key-value config file
package credentials

import (
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"gopkg.in/ini.v1"
	"net/http"
	"strings"
)

const (
	// DefaultPath is where the credential file is expected when no other path is configured
	DefaultPath = ".credentials/key.conf"
	// Section holding the subscription key
	Section = "default"
	// Key of the subscription key within Section
	Key = "primary"
	// HeaderName is the request header the feed provider authenticates with
	HeaderName = "Ocp-Apim-Subscription-Key"
)

var errMissingKey = errors.New("key not present")

// ConfigError is returned when the credential file can not be read or does not contain the subscription key
type ConfigError struct {
	Path    string
	Section string
	Key     string
	Err     error
}

func (e *ConfigError) Error() string {
	if len(e.Section) == 0 {
		return fmt.Sprintf("unable to read credential file %s: %v", e.Path, e.Err)
	}
	if len(e.Key) == 0 {
		return fmt.Sprintf("credential file %s has no [%s] section: %v", e.Path, e.Section, e.Err)
	}
	return fmt.Sprintf("credential file %s missing %s in [%s]: %v", e.Path, e.Key, e.Section, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Credentials holds the values read from the credential file
type Credentials struct {
	Primary string `validate:"required"`
}

// Load reads the subscription key from the [default] section of the file at path.
// Returns *ConfigError if the file is missing or the section or key is absent or empty
func Load(path string) (*Credentials, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	section, err := file.GetSection(Section)
	if err != nil {
		return nil, &ConfigError{Path: path, Section: Section, Err: err}
	}
	if !section.HasKey(Key) {
		return nil, &ConfigError{Path: path, Section: Section, Key: Key, Err: errMissingKey}
	}
	result := Credentials{
		Primary: strings.TrimSpace(section.Key(Key).String()),
	}
	if err = validator.New().Struct(result); err != nil {
		return nil, &ConfigError{Path: path, Section: Section, Key: Key, Err: err}
	}
	return &result, nil
}

// Headers builds the header set sent with every feed request
func (c *Credentials) Headers() http.Header {
	headers := make(http.Header)
	headers.Set(HeaderName, c.Primary)
	return headers
}
