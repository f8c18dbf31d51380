package generator_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/postpilot-app/postpilot/pkg/domain/model"
	"github.com/postpilot-app/postpilot/pkg/domain/types"
	"github.com/postpilot-app/postpilot/pkg/service/generator"
)

func TestBuildPrompt(t *testing.T) {
	req := &model.GenerationRequest{
		Topic:           "Remote team culture",
		Industry:        "Technology",
		Tone:            types.ToneCasualFriendly,
		PostType:        types.PostTypeTips,
		PostLength:      200,
		IncludeHashtags: true,
		IncludeEmojis:   false,
	}

	prompt := generator.BuildPrompt(req)

	gt.Bool(t, strings.Contains(prompt, "Remote team culture")).True()
	gt.Bool(t, strings.Contains(prompt, "Industry: Technology")).True()
	gt.Bool(t, strings.Contains(prompt, "Tone: Casual & Friendly")).True()
	gt.Bool(t, strings.Contains(prompt, "Post type: tips")).True()
	gt.Bool(t, strings.Contains(prompt, "about 200 words")).True()
	gt.Bool(t, strings.Contains(prompt, "Include 3-5 relevant hashtags")).True()
	gt.Bool(t, strings.Contains(prompt, "Do not use emojis")).True()
}

func TestBuildPromptWithoutExtras(t *testing.T) {
	req := &model.GenerationRequest{
		Topic:           "Career milestones",
		Industry:        "Finance",
		Tone:            types.ToneProfessional,
		PostType:        types.PostTypeAchievement,
		PostLength:      150,
		IncludeHashtags: false,
		IncludeEmojis:   true,
	}

	prompt := generator.BuildPrompt(req)

	gt.Bool(t, strings.Contains(prompt, "Do not include hashtags")).True()
	gt.Bool(t, strings.Contains(prompt, "Use a few fitting emojis")).True()
}

func TestGenerateWithoutClient(t *testing.T) {
	svc := generator.New(nil)

	_, err := svc.Generate(context.Background(), &model.GenerationRequest{
		Topic: "anything",
	})
	gt.Error(t, err)
}
