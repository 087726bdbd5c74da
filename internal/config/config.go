package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"

	"github.com/jacoelho/jpext/internal/exit"
	"github.com/jacoelho/jpext/internal/log"
	"github.com/jacoelho/jpext/internal/template"
)

var (
	ErrNoArguments           = errors.New("no arguments provided")
	ErrNoExpression          = errors.New("an expression or --mapping is required")
	ErrExpressionAndMapping  = errors.New("an expression cannot be combined with --mapping")
	ErrInvalidVariableFormat = errors.New("variable must be in format name=value")
	ErrEmptyVariableName     = errors.New("variable name cannot be empty")
)

// Config represents the complete configuration for the jpext tool.
type Config struct {
	// Evaluation
	Expression  string
	MappingFile string
	InputFiles  []string // empty reads stdin

	// Output
	Format string
	Paths  bool

	// Logging
	LogLevel  string
	LogFormat string

	// Template variables
	Variables    map[string]any
	VariableFile string
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	switch {
	case c.Expression == "" && c.MappingFile == "":
		return ErrNoExpression
	case c.Expression != "" && c.MappingFile != "":
		return ErrExpressionAndMapping
	}

	if c.MappingFile != "" {
		if _, err := os.Stat(c.MappingFile); err != nil {
			return fmt.Errorf("mapping file %s not found: %w", c.MappingFile, err)
		}
	}

	for _, file := range c.InputFiles {
		if file == "-" {
			continue
		}
		if _, err := os.Stat(file); err != nil {
			return fmt.Errorf("input file %s not found: %w", file, err)
		}
	}

	if _, err := log.GetLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := log.GetFormat(c.LogFormat); err != nil {
		return err
	}

	if c.Format != "" {
		if _, err := template.Parse("format", c.Format); err != nil {
			return fmt.Errorf("invalid format: %w", err)
		}
	}

	return nil
}

// variablesFlag implements flag.Value for parsing multiple --var flags.
type variablesFlag map[string]any

func (v variablesFlag) String() string {
	var pairs []string
	for k, val := range v {
		pairs = append(pairs, fmt.Sprintf("%s=%v", k, val))
	}
	return strings.Join(pairs, ",")
}

// Set parses and stores a variable in name=value format.
func (v variablesFlag) Set(value string) error {
	name, val, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("%w, got: %s", ErrInvalidVariableFormat, value)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyVariableName
	}

	v[name] = val
	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Usagef("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Usage and parse errors are reported by the caller.
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	var (
		mapping      = fs.String("mapping", "", "Mapping file describing entities to extract")
		format       = fs.String("format", "", "Go template rendered for each result")
		paths        = fs.Bool("paths", false, "Print the location of each result")
		logLevel     = fs.String("log-level", log.DefaultLevel, "Log level")
		logFormat    = fs.String("log-format", log.DefaultFormat, "Log format")
		variables    = make(variablesFlag)
		variableFile = fs.String("var-file", "", "Path to key=value file containing template variables")
	)

	fs.Var(variables, "var", "Variable in format name=value (can be used multiple times)")

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Usagef("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	positional := fs.Args()

	var expression string
	if *mapping == "" && len(positional) > 0 {
		expression, positional = positional[0], positional[1:]
	}

	finalVariables := make(map[string]any)
	if *variableFile != "" {
		fileVariables, err := loadVariableFile(*variableFile)
		if err != nil {
			return nil, exit.Usagef("Error: failed to load variable file: %v\n\n%s", err, Usage())
		}
		maps.Copy(finalVariables, fileVariables)
	}
	// Command-line variables take precedence over file variables
	maps.Copy(finalVariables, variables)

	config := &Config{
		Expression:   expression,
		MappingFile:  *mapping,
		InputFiles:   positional,
		Format:       *format,
		Paths:        *paths,
		LogLevel:     *logLevel,
		LogFormat:    *logFormat,
		Variables:    finalVariables,
		VariableFile: *variableFile,
	}

	if err := config.Validate(); err != nil {
		return nil, exit.Usagef("Error: %v\n\n%s", err, Usage())
	}

	return config, nil
}

// loadVariableFile loads variables from a key=value format file.
// It supports comments (lines starting with #) and empty lines.
func loadVariableFile(filename string) (map[string]any, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	variables := make(map[string]any)
	for lineNum, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid format at line %d: %s (expected key=value)", lineNum+1, line)
		}

		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("empty key at line %d: %s", lineNum+1, line)
		}

		variables[key] = strings.TrimSpace(value)
	}

	return variables, nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `jpext - JSONPath queries with named operators

Usage: jpext [options] <expression> [file ...]
       jpext [options] --mapping FILE [file ...]

Input files are JSON, or YAML when named *.yaml or *.yml. Without files, or
with "-", a JSON document is read from stdin.

Options:
  --mapping FILE          Extract entities described by a YAML mapping file
  --format TEMPLATE       Go template rendered for each result (.Path, .Value, .Vars)
  --paths                 Print the location of each result
  --var NAME=VALUE        Template variable (can be used multiple times)
  --var-file FILE         Path to key=value file containing template variables
  --log-level LEVEL       error, warn, info or debug (default: warn)
  --log-format FORMAT     text, logfmt or json (default: text)
  -h, --help              Show this help message

Named operators:
  cast(KIND)                 int, boolean, string, float, json, null or none
  splitlist(C, KIND)         split a string on C and cast each piece
  match(TERM, NULL)          true when the value equals TERM, null when it equals NULL
  notmatch(TERM, NULL)       inverse of match
  datetime(FORMAT, SLICE)    parse with a strptime FORMAT, slice the ISO text
  hash(SALT)                 md5 of SALT and the canonical JSON value
  template(TEXT {})          substitute the JSON value into TEXT
  valuereplace(FROM, TO)     replace matching values
  dictionaryreplace({K: V})  look the value up in a literal mapping
  this, len, keys, sorted    built-in functions

Examples:
  jpext '$.people[*].dob.` + "`datetime(%Y-%m-%d, 0:4)`" + `' people.json
  jpext --paths '$.tags.` + "`splitlist(;, string)`" + `' doc.yaml
  jpext --format '{{.Vars.source}} {{json .Value}}' --var source=a '$.id' a.json
  jpext --mapping entities.yaml people.json`
}
