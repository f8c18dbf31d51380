package usecase

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/postpilot-app/postpilot/pkg/domain/model"
	"github.com/postpilot-app/postpilot/pkg/domain/types"
)

const (
	defaultTopic      = "Professional Growth"
	defaultIndustry   = "General"
	defaultPostLength = 150
)

// selectTemplate resolves the generation request for a user. Users without
// any stored templates fall back to a built-in default; a stored blob that
// does not parse is a configuration error and is returned as such rather
// than silently replaced.
func selectTemplate(user *model.User) (string, *model.GenerationRequest, error) {
	if user.ContentTemplates == "" {
		return "default", defaultRequest(user), nil
	}

	templates, err := model.ParseTemplates(user.ContentTemplates)
	if err != nil {
		return "", nil, goerr.Wrap(err, "unusable content templates", goerr.V("userID", user.ID))
	}

	name := model.FirstTemplateName(templates)
	tmpl := templates[name]

	req := defaultRequest(user)
	if tmpl.Topic != "" {
		req.Topic = tmpl.Topic
	}
	if tmpl.Industry != "" {
		req.Industry = tmpl.Industry
	}
	if tmpl.Tone != "" {
		req.Tone = types.NormalizeTone(tmpl.Tone)
	}
	if tmpl.PostType != "" {
		req.PostType = types.PostType(tmpl.PostType).Normalize()
	}
	if tmpl.PostLength != nil && *tmpl.PostLength > 0 {
		req.PostLength = *tmpl.PostLength
	}
	if tmpl.IncludeHashtags != nil {
		req.IncludeHashtags = *tmpl.IncludeHashtags
	}
	if tmpl.IncludeEmojis != nil {
		req.IncludeEmojis = *tmpl.IncludeEmojis
	}

	return name, req, nil
}

// defaultRequest builds the fallback generation request from the user profile
func defaultRequest(user *model.User) *model.GenerationRequest {
	industry := user.Industry
	if industry == "" {
		industry = defaultIndustry
	}

	return &model.GenerationRequest{
		Topic:           defaultTopic,
		Industry:        industry,
		Tone:            types.NormalizeTone(user.PersonalityType),
		PostType:        types.PostTypeStory,
		PostLength:      defaultPostLength,
		IncludeHashtags: true,
		IncludeEmojis:   true,
	}
}
