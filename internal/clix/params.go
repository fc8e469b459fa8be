package clix

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"laborctl/internal/services"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

type PaginationParams struct {
	Page  int
	Limit int
}

func ParsePagination(flags *pflag.FlagSet) (PaginationParams, error) {
	page, _ := flags.GetInt("page")
	limit, _ := flags.GetInt("limit")
	if page <= 0 {
		page = defaultPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	return PaginationParams{Page: page, Limit: limit}, nil
}

// ParseList reads --page, --limit, --search and --status into listing options.
// Flags a command does not define are left at their zero value.
func ParseList(flags *pflag.FlagSet) (services.ListParams, error) {
	pagination, err := ParsePagination(flags)
	if err != nil {
		return services.ListParams{}, err
	}
	search, _ := flags.GetString("search")
	status, _ := flags.GetString("status")
	return services.ListParams{
		Page:   pagination.Page,
		Limit:  pagination.Limit,
		Search: strings.TrimSpace(search),
		Status: strings.TrimSpace(status),
	}, nil
}

// AddListFlags registers the flags ParseList reads. statusHelp is omitted
// when empty.
func AddListFlags(flags *pflag.FlagSet, statusHelp string) {
	flags.Int("page", defaultPage, "Page to display")
	flags.IntP("limit", "l", defaultLimit, "Number of items per page")
	flags.StringP("search", "s", "", "Free-text search")
	if statusHelp != "" {
		flags.String("status", "", statusHelp)
	}
}

// ParseFields turns repeated key=value flags into a request body. Values
// that look like booleans or numbers are sent as such.
func ParseFields(flags *pflag.FlagSet, name string) (map[string]any, error) {
	raw, _ := flags.GetStringArray(name)
	fields := make(map[string]any, len(raw))
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --%s %q, expected key=value", name, kv)
		}
		fields[key] = scalar(strings.TrimSpace(value))
	}
	return fields, nil
}

func scalar(v string) any {
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}

// ParseImageIDs collects --image values, accepting both repeated flags and
// comma-separated lists.
func ParseImageIDs(flags *pflag.FlagSet) ([]string, error) {
	raw, _ := flags.GetStringSlice("image")
	var ids []string
	for _, id := range raw {
		trimmed := strings.TrimSpace(id)
		if trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids, nil
}
