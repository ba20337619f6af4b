package yml

import (
	"bytes"
	"context"
)

type contextKey string

func (c contextKey) String() string {
	return "yml-context-key-" + string(c)
}

const configContextKey = contextKey("config")

type OutputFormat string

const (
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// Config controls how documents are written back out.
type Config struct {
	Indentation     int          // The indentation width of the document
	OutputFormat    OutputFormat // The output format to use when marshalling
	OriginalFormat  OutputFormat // The original input format, helps detect when we are changing formats
	TrailingNewline bool         // Whether the output should end with a newline
}

var defaultConfig = &Config{
	Indentation:     2,
	OutputFormat:    OutputFormatYAML,
	OriginalFormat:  OutputFormatYAML,
	TrailingNewline: true,
}

func GetDefaultConfig() *Config {
	def := *defaultConfig
	return &def
}

func ContextWithConfig(ctx context.Context, config *Config) context.Context {
	if config == nil {
		return ctx
	}

	return context.WithValue(ctx, configContextKey, config)
}

func GetConfigFromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok || cfg == nil {
		return GetDefaultConfig()
	}

	return cfg
}

// GetConfigFromData inspects raw document text and returns a Config that
// writes documents back in the same format and indentation.
func GetConfigFromData(data []byte) *Config {
	cfg := GetDefaultConfig()

	cfg.OutputFormat, cfg.Indentation = inspectData(data)
	cfg.OriginalFormat = cfg.OutputFormat
	cfg.TrailingNewline = len(data) == 0 || data[len(data)-1] == '\n'

	return cfg
}

func inspectData(data []byte) (OutputFormat, int) {
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))

	foundIndentation := false
	foundDocFormat := false

	indentation := 2
	docFormat := OutputFormatYAML

	minLeadingWhitespace := -1

	for i, line := range lines {
		trimLine := bytes.TrimSpace(line)

		if len(trimLine) == 0 {
			continue
		}

		switch trimLine[0] {
		case '#':
			continue
		case '{':
			if !foundDocFormat && minLeadingWhitespace == -1 {
				docFormat = OutputFormatJSON
			}
			foundDocFormat = true
			if minLeadingWhitespace == -1 {
				minLeadingWhitespace = 0
			}
		default:
			currentLeading := 0
			for currentLeading < len(line) && line[currentLeading] == ' ' {
				currentLeading++
			}

			if minLeadingWhitespace == -1 || currentLeading < minLeadingWhitespace {
				minLeadingWhitespace = currentLeading
			}

			if currentLeading > minLeadingWhitespace && !foundIndentation {
				indentation = currentLeading - minLeadingWhitespace
				foundIndentation = true
			}
		}

		if foundIndentation && (foundDocFormat || i > 10) {
			break
		}
	}
	return docFormat, indentation
}
