// Package cli parses and validates the pact-stub-server flag set (spec
// 6) into a Config the rest of the program wires against, grounded on
// original_source/src/lib.rs::build_args' validation relationships
// (requires/conflicts_with) and cmd/nerd/main.go's cobra command shape.
package cli

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pact-foundation/pact-stub-server/internal/pact"
)

// Flags mirrors the raw command-line values before validation, one
// field per spec 6 flag.
type Flags struct {
	LogLevel string

	Files       []string
	Dirs        []string
	Extension   string
	URLs        []string
	BrokerURL   string
	User        string
	Token       string
	InsecureTLS bool

	Port int

	CORS        bool
	CORSReferer bool

	ProviderState           string
	ProviderStateHeaderName string
	EmptyProviderState      bool

	ConsumerNamePatterns []string
	ProviderNamePatterns []string

	Watch bool
}

// Config is the validated, ready-to-use configuration the CLI
// assembles before wiring up the loader, matcher, and server.
type Config struct {
	LogLevel    string
	Sources     []pact.Source
	InsecureTLS bool
	Extension   string
	Port        int

	AutoCORS          bool
	CORSRefererOrigin bool

	ProviderStateRegex      *regexp.Regexp
	ProviderStateHeaderName string
	EmptyProviderState      bool

	Watch bool
}

// ParseError signals flag parsing/validation failure (spec 6 exit code 2).
type ParseError struct{ msg string }

func (e *ParseError) Error() string { return e.msg }

func parseErrorf(format string, args ...any) *ParseError {
	return &ParseError{msg: fmt.Sprintf(format, args...)}
}

// BuildConfig validates Flags against spec 6's requires/conflicts
// relationships and assembles the ordered source list.
func BuildConfig(f Flags) (Config, error) {
	if f.Extension != "" && len(f.Dirs) == 0 {
		return Config{}, parseErrorf("--extension requires --dir")
	}
	if f.CORSReferer && !f.CORS {
		return Config{}, parseErrorf("--cors-referer requires --cors")
	}
	if f.EmptyProviderState && f.ProviderState == "" {
		return Config{}, parseErrorf("--empty-provider-state requires --provider-state")
	}
	if (len(f.ConsumerNamePatterns) > 0 || len(f.ProviderNamePatterns) > 0) && f.BrokerURL == "" {
		return Config{}, parseErrorf("--consumer-name/--provider-name require --broker-url")
	}
	if f.User != "" && f.Token != "" {
		return Config{}, parseErrorf("--user and --token are mutually exclusive")
	}
	if f.Port < 0 || f.Port > 65535 {
		return Config{}, parseErrorf("--port must be between 0 and 65535")
	}

	brokerURL := f.BrokerURL
	if brokerURL == "" {
		brokerURL = os.Getenv("PACT_BROKER_BASE_URL")
	}

	if len(f.Files) == 0 && len(f.Dirs) == 0 && len(f.URLs) == 0 && brokerURL == "" {
		return Config{}, parseErrorf("at least one of --file/--dir/--url/--broker-url is required")
	}

	auth, err := buildAuth(f.User, f.Token)
	if err != nil {
		return Config{}, err
	}

	var sources []pact.Source
	for _, path := range f.Files {
		sources = append(sources, pact.FileSource(path))
	}
	for _, path := range f.Dirs {
		sources = append(sources, pact.DirSource(path))
	}
	for _, u := range f.URLs {
		sources = append(sources, pact.URLSource(u, auth))
	}
	if brokerURL != "" {
		sources = append(sources, pact.BrokerSource(brokerURL, auth, f.ConsumerNamePatterns, f.ProviderNamePatterns))
	}

	var stateRegex *regexp.Regexp
	if f.ProviderState != "" {
		stateRegex, err = regexp.Compile(f.ProviderState)
		if err != nil {
			return Config{}, parseErrorf("invalid --provider-state regex: %v", err)
		}
	}

	ext := f.Extension
	if ext == "" {
		ext = "json"
	}

	return Config{
		LogLevel:                f.LogLevel,
		Sources:                 sources,
		InsecureTLS:             f.InsecureTLS,
		Extension:               ext,
		Port:                    f.Port,
		AutoCORS:                f.CORS,
		CORSRefererOrigin:       f.CORSReferer,
		ProviderStateRegex:      stateRegex,
		ProviderStateHeaderName: f.ProviderStateHeaderName,
		EmptyProviderState:      f.EmptyProviderState,
		Watch:                   f.Watch,
	}, nil
}

// buildAuth builds the Basic/Bearer auth variant from the raw --user /
// --token flag values, or nil if neither is set.
func buildAuth(user, token string) (*pact.Auth, error) {
	switch {
	case token != "":
		a := pact.BearerAuth(token)
		return &a, nil
	case user != "":
		name, pass, hasPass := strings.Cut(user, ":")
		var auth pact.Auth
		if hasPass {
			auth = pact.BasicAuth(name, &pass)
		} else {
			auth = pact.BasicAuth(name, nil)
		}
		return &auth, nil
	default:
		return nil, nil
	}
}
