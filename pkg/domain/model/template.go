package model

import (
	"encoding/json"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/postpilot-app/postpilot/pkg/domain/types"
)

// ContentTemplate is a named, reusable content-generation configuration owned
// by a user. Every field is optional in the stored JSON; defaults are decided
// once, in the selector, not at call sites.
type ContentTemplate struct {
	Topic           string `json:"topic,omitempty"`
	Industry        string `json:"industry,omitempty"`
	Tone            string `json:"tone,omitempty"`
	PostType        string `json:"post_type,omitempty"`
	PostLength      *int   `json:"post_length,omitempty"`
	IncludeHashtags *bool  `json:"include_hashtags,omitempty"`
	IncludeEmojis   *bool  `json:"include_emojis,omitempty"`
}

// ParseTemplates parses the content templates JSON blob into a name-keyed map
func ParseTemplates(raw string) (map[string]ContentTemplate, error) {
	if raw == "" {
		return nil, goerr.New("content templates are empty")
	}

	var templates map[string]ContentTemplate
	if err := json.Unmarshal([]byte(raw), &templates); err != nil {
		return nil, goerr.Wrap(err, "failed to parse content templates")
	}
	if len(templates) == 0 {
		return nil, goerr.New("content templates contain no entries")
	}

	return templates, nil
}

// FirstTemplateName returns the template name that sorts first, so repeated
// runs over the same settings pick the same template.
func FirstTemplateName(templates map[string]ContentTemplate) string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// GenerationRequest is the normalized input to the content generator. Unlike
// a raw template, every field is resolved and the tone is canonical.
type GenerationRequest struct {
	Topic           string
	Industry        string
	Tone            types.Tone
	PostType        types.PostType
	PostLength      int
	IncludeHashtags bool
	IncludeEmojis   bool
}
