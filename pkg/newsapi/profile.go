package newsapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile describes the provider contract: route paths, parameter names and
// where the result collection lives in a response.
type Profile struct {
	ID            string            `json:"id" yaml:"id"`
	Name          string            `json:"name" yaml:"name"`
	HeadlinesPath string            `json:"headlines_path" yaml:"headlines_path"`
	SearchPath    string            `json:"search_path" yaml:"search_path"`
	UnwrapKey     string            `json:"unwrap_key" yaml:"unwrap_key"`
	SortValue     string            `json:"sort_value" yaml:"sort_value"`
	Params        ParamNames        `json:"params" yaml:"params"`
	Headers       map[string]string `json:"headers" yaml:"headers"`
}

// ParamNames maps each query concept onto the provider's parameter name.
type ParamNames struct {
	Token             string `json:"token" yaml:"token"`
	Locale            string `json:"locale" yaml:"locale"`
	Language          string `json:"language" yaml:"language"`
	Categories        string `json:"categories" yaml:"categories"`
	ExcludeCategories string `json:"exclude_categories" yaml:"exclude_categories"`
	Search            string `json:"search" yaml:"search"`
	Limit             string `json:"limit" yaml:"limit"`
	PublishedAfter    string `json:"published_after" yaml:"published_after"`
	Sort              string `json:"sort" yaml:"sort"`
}

// DefaultProfile is the canonical provider contract: a data-wrapped JSON API
// with /news/top for headlines and /news/all for search.
func DefaultProfile() Profile {
	return Profile{
		ID:            "thenewsapi",
		Name:          "The News API",
		HeadlinesPath: "/news/top",
		SearchPath:    "/news/all",
		UnwrapKey:     "data",
		SortValue:     "published_at",
		Params: ParamNames{
			Token:             "api_token",
			Locale:            "locale",
			Language:          "language",
			Categories:        "categories",
			ExcludeCategories: "exclude_categories",
			Search:            "search",
			Limit:             "limit",
			PublishedAfter:    "published_after",
			Sort:              "sort",
		},
	}
}

type profileFile struct {
	Profile Profile `json:"profile" yaml:"profile"`
}

// LoadProfile reads a profile override from a YAML or JSON file. Fields left
// blank keep their DefaultProfile values.
func LoadProfile(path string) (Profile, error) {
	if strings.TrimSpace(path) == "" {
		return Profile{}, errors.New("profile file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return Profile{}, fmt.Errorf("open profile file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile file: %w", err)
	}

	pf, err := parseProfile(raw, filepath.Ext(path))
	if err != nil {
		return Profile{}, err
	}

	p := sanitizeProfile(pf.Profile)
	if err := validateProfile(p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func parseProfile(data []byte, ext string) (profileFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if pf, err := unmarshalProfile(d.name, data, d.fn); err == nil {
			return pf, nil
		}
	}

	return profileFile{}, errors.New("profile file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func unmarshalProfile(name string, data []byte, fn unmarshalFn) (profileFile, error) {
	var pf profileFile
	if err := fn(data, &pf); err != nil {
		return profileFile{}, fmt.Errorf("decode %s profile: %w", name, err)
	}
	return pf, nil
}

func sanitizeProfile(p Profile) Profile {
	def := DefaultProfile()

	p.ID = orDefault(p.ID, def.ID)
	p.Name = orDefault(p.Name, def.Name)
	p.HeadlinesPath = orDefault(p.HeadlinesPath, def.HeadlinesPath)
	p.SearchPath = orDefault(p.SearchPath, def.SearchPath)
	p.UnwrapKey = strings.TrimSpace(p.UnwrapKey)
	if p.UnwrapKey == "" {
		p.UnwrapKey = def.UnwrapKey
	}
	p.SortValue = orDefault(p.SortValue, def.SortValue)

	p.Params.Token = orDefault(p.Params.Token, def.Params.Token)
	p.Params.Locale = orDefault(p.Params.Locale, def.Params.Locale)
	p.Params.Language = orDefault(p.Params.Language, def.Params.Language)
	p.Params.Categories = orDefault(p.Params.Categories, def.Params.Categories)
	p.Params.ExcludeCategories = orDefault(p.Params.ExcludeCategories, def.Params.ExcludeCategories)
	p.Params.Search = orDefault(p.Params.Search, def.Params.Search)
	p.Params.Limit = orDefault(p.Params.Limit, def.Params.Limit)
	p.Params.PublishedAfter = orDefault(p.Params.PublishedAfter, def.Params.PublishedAfter)
	p.Params.Sort = orDefault(p.Params.Sort, def.Params.Sort)

	p.Headers = sanitizeHeaders(p.Headers)
	return p
}

func validateProfile(p Profile) error {
	if !strings.HasPrefix(p.HeadlinesPath, "/") {
		return fmt.Errorf("headlines_path %q must start with /", p.HeadlinesPath)
	}
	if !strings.HasPrefix(p.SearchPath, "/") {
		return fmt.Errorf("search_path %q must start with /", p.SearchPath)
	}
	return nil
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}

// sanitizeHeaders trims and removes empty headers.
func sanitizeHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		out[key] = val
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
