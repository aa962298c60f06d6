// internal/errors/service.go - CLI-facing error presentation
package errors

import (
	"fmt"
	"strings"
)

// Service converts technical errors into user-facing messages and exit
// codes for the command line tools.
type Service struct {
	showTechnical bool
}

// NewService creates a new error presentation service
func NewService() *Service {
	return &Service{}
}

// WithVerbose enables technical error details
func (s *Service) WithVerbose(verbose bool) *Service {
	s.showTechnical = verbose
	return s
}

// GetUserFriendlyError converts technical errors to user-friendly messages
func (s *Service) GetUserFriendlyError(err error) (title, message string, suggestions []string) {
	if err == nil {
		return "", "", nil
	}

	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "yaml") || strings.Contains(errStr, "config") {
		return "Configuration Error",
			"The configuration file could not be loaded.",
			[]string{
				"Check YAML indentation (use spaces, not tabs)",
				"Run 'watchparser template' to generate a valid starting point",
				"Verify option names against the documented configuration surface",
			}
	}

	if strings.Contains(errStr, "invalid_document") || strings.Contains(errStr, "not parseable") {
		return "Unreadable Export",
			"The input file does not look like a watch-history HTML export.",
			[]string{
				"Confirm the file is the watch-history.html from a Takeout archive",
				"Check that the download completed and the file is not empty",
				"Re-export the history if the file appears truncated",
			}
	}

	if strings.Contains(errStr, "no such file") || strings.Contains(errStr, "not found") {
		return "File Not Found",
			"An input file could not be opened.",
			[]string{
				"Check the file path for typos",
				"Verify the file exists and is readable",
			}
	}

	if strings.Contains(errStr, "output") || strings.Contains(errStr, "permission") {
		return "Output Error",
			"The parsed records could not be written.",
			[]string{
				"Check write permission on the output directory",
				"Check available disk space",
			}
	}

	return "Unexpected Error",
		"An unexpected error occurred during parsing.",
		[]string{
			"Run again with --verbose for technical details",
			"Check your configuration file",
		}
}

// GetExitCode returns appropriate exit code for error
func (s *Service) GetExitCode(err error) int {
	if err == nil {
		return 0
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "config") || strings.Contains(errStr, "yaml"):
		return 2
	case strings.Contains(errStr, "invalid_document") || strings.Contains(errStr, "not parseable"):
		return 3
	case strings.Contains(errStr, "output") || strings.Contains(errStr, "write"):
		return 4
	case strings.Contains(errStr, "validation"):
		return 5
	default:
		return 1
	}
}

// FormatErrorForCLI formats error for command-line display
func (s *Service) FormatErrorForCLI(err error) string {
	title, message, suggestions := s.GetUserFriendlyError(err)

	output := fmt.Sprintf("error: %s\n%s\n", title, message)

	if s.showTechnical {
		output += fmt.Sprintf("\nTechnical details: %s\n", err.Error())
	}

	if len(suggestions) > 0 {
		output += "\nSuggestions:\n"
		for _, suggestion := range suggestions {
			output += fmt.Sprintf("  - %s\n", suggestion)
		}
	}

	return output
}
