package mcp

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/a3tai/mcp-highlight-recoder/internal/recode"
)

// argumentGetter is the part of mcp.CallToolRequest the binder needs.
type argumentGetter interface {
	GetArguments() map[string]any
}

// bindArguments decodes tool arguments into target using json field names.
// Clients often send arrays and objects as JSON strings, so those are parsed
// before decoding.
func bindArguments(request argumentGetter, target any) error {
	jsonStringHook := func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		raw := strings.TrimSpace(data.(string))
		if raw == "" {
			return data, nil
		}

		switch t.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct:
			if !(strings.HasPrefix(raw, "[") || strings.HasPrefix(raw, "{")) {
				return data, nil
			}
			var result any
			if err := json.Unmarshal([]byte(raw), &result); err == nil {
				return result, nil
			}
		}
		return data, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			jsonStringHook,
			pageListHook,
		),
		Result:  target,
		TagName: "json",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(request.GetArguments())
}

// pageListHook splits "1, 3" into page numbers. Other string lists are left
// whole so statements keep their commas.
func pageListHook(f reflect.Type, t reflect.Type, data any) (any, error) {
	if f.Kind() != reflect.String || t.Kind() != reflect.Slice {
		return data, nil
	}
	switch t.Elem().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return data, nil
	}
	raw := strings.TrimSpace(data.(string))
	if raw == "" {
		return []string{}, nil
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

type documentArgs struct {
	Path string `json:"path"`
}

type listArgs struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type pagesArgs struct {
	Path string `json:"path"`
	Text string `json:"text"`
}

type extractArgs struct {
	Path  string `json:"path"`
	Pages []int  `json:"pages"`
}

type splitArgs struct {
	Path   string `json:"path"`
	Pages  []int  `json:"pages"`
	Output string `json:"output"`
}

type searchArgs struct {
	Labels string `json:"labels"`
	Query  string `json:"query"`
}

type partyArgs struct {
	Labels string `json:"labels"`
	Party1 string `json:"party1"`
	Party2 string `json:"party2"`
}

type matchArgs struct {
	Labels      string   `json:"labels"`
	Party1      string   `json:"party1"`
	Party2      string   `json:"party2"`
	Statements1 []string `json:"statements1"`
	Statements2 []string `json:"statements2"`
}

type scriptArgs struct {
	Labels      string                     `json:"labels"`
	Party1      string                     `json:"party1"`
	Party2      string                     `json:"party2"`
	Statements1 []string                   `json:"statements1"`
	Statements2 []string                   `json:"statements2"`
	Neutral     []string                   `json:"neutral"`
	Overrides   map[string]recode.Settings `json:"overrides"`
}

type analyzeArgs struct {
	Path      string                     `json:"path"`
	Labels    string                     `json:"labels"`
	Party1    string                     `json:"party1"`
	Party2    string                     `json:"party2"`
	Neutral   []string                   `json:"neutral"`
	Overrides map[string]recode.Settings `json:"overrides"`
}
