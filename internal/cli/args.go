package cli

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mesh-intelligence/casefile/pkg/types"
)

// parseID parses a positive row id from a positional argument.
func parseID(name, s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || v <= 0 {
		return 0, &types.ValidationError{Field: name, Message: strconv.Quote(s) + " is not a valid id"}
	}
	return v, nil
}

// parseIDs parses every argument as a row id.
func parseIDs(name string, args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, s := range args {
		v, err := parseID(name, s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, v)
	}
	return ids, nil
}

// optionalDate parses a date flag, returning nil when it was not given.
func optionalDate(fs *pflag.FlagSet, name, value string) (*types.Date, error) {
	if !fs.Changed(name) {
		return nil, nil
	}
	d, err := types.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// optionalString returns &value when the flag was given and is not blank.
func optionalString(fs *pflag.FlagSet, name, value string) *string {
	if !fs.Changed(name) || strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

func optionalFloat(fs *pflag.FlagSet, name string, value float64) *float64 {
	if !fs.Changed(name) {
		return nil
	}
	return &value
}

func optionalInt(fs *pflag.FlagSet, name string, value int64) *int64 {
	if !fs.Changed(name) {
		return nil
	}
	return &value
}

// nullString turns a flag into a clearable patch value: unset leaves the
// column alone and an empty string writes NULL.
func nullString(fs *pflag.FlagSet, name, value string) *sql.Null[string] {
	if !fs.Changed(name) {
		return nil
	}
	if strings.TrimSpace(value) == "" {
		return types.Clear[string]()
	}
	return types.Set(value)
}

func nullFloat(fs *pflag.FlagSet, name string, value float64) *sql.Null[float64] {
	if !fs.Changed(name) {
		return nil
	}
	return types.Set(value)
}

// changedString returns &value when the flag was given.
func changedString(fs *pflag.FlagSet, name, value string) *string {
	if !fs.Changed(name) {
		return nil
	}
	return &value
}

// requireFlags marks flags required, panicking on a misspelled name.
func requireFlags(cmd *cobra.Command, names ...string) {
	for _, n := range names {
		if err := cmd.MarkFlagRequired(n); err != nil {
			panic(err)
		}
	}
}
