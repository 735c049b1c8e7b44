package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Suggestion string
}

// Registered error codes.
const (
	CodeMissingElement = "F001"
	CodeInvalidConfig  = "F002"
	CodeConfigLoad     = "F003"

	CodeStoreOpen   = "F010"
	CodeStoreFailed = "F011"

	CodeBadMessage   = "F020"
	CodeUnknownEvent = "F021"
	CodeUnknownField = "F022"

	CodeHandlerPanic = "F030"
	CodeWriteFailed  = "F031"
	CodeClientError  = "F032"

	CodeMissingFlag = "F040"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	CodeMissingElement: {
		Category:   CategoryConfig,
		Message:    "Page element missing",
		Suggestion: "The page must render every element the controllers address. Compare the markup with page.Contract().",
	},
	CodeInvalidConfig: {
		Category:   CategoryConfig,
		Message:    "Invalid configuration",
		Suggestion: "Check folio.yaml and FOLIO_* environment variables.",
	},
	CodeConfigLoad: {
		Category:   CategoryConfig,
		Message:    "Configuration could not be loaded",
		Suggestion: "Check that the config file exists and is valid YAML.",
	},

	CodeStoreOpen: {
		Category:   CategoryStore,
		Message:    "Field store could not be opened",
		Suggestion: "Check store.driver and store.dsn, and that the database is reachable.",
	},
	CodeStoreFailed: {
		Category: CategoryStore,
		Message:  "Field store operation failed",
	},

	CodeBadMessage: {
		Category: CategoryProtocol,
		Message:  "Malformed client message",
	},
	CodeUnknownEvent: {
		Category: CategoryProtocol,
		Message:  "Unknown event",
	},
	CodeUnknownField: {
		Category: CategoryProtocol,
		Message:  "Unknown form field",
	},

	CodeHandlerPanic: {
		Category: CategoryRuntime,
		Message:  "Event handler panicked",
	},
	CodeWriteFailed: {
		Category: CategoryRuntime,
		Message:  "Patch write failed",
	},
	CodeClientError: {
		Category: CategoryRuntime,
		Message:  "Uncaught error in the browser",
	},

	CodeMissingFlag: {
		Category: CategoryCLI,
		Message:  "Required flag missing",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns every registered code in order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
