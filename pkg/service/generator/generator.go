package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/postpilot-app/postpilot/pkg/domain/interfaces"
	"github.com/postpilot-app/postpilot/pkg/domain/model"
	"github.com/postpilot-app/postpilot/pkg/utils/logging"
)

const systemPrompt = `You are a professional LinkedIn content writer. You write engaging,
authentic posts that perform well on LinkedIn. Write only the post text itself,
with no preamble, headings, or commentary about the post.`

// Service generates LinkedIn post text through an LLM client
type Service struct {
	llmClient gollem.LLMClient
}

var _ interfaces.ContentGenerator = &Service{}

// New creates a generator backed by the given LLM client
func New(llmClient gollem.LLMClient) *Service {
	return &Service{
		llmClient: llmClient,
	}
}

// Generate produces post text for the request. An empty LLM response is an
// error so callers never publish a blank post.
func (s *Service) Generate(ctx context.Context, req *model.GenerationRequest) (string, error) {
	if s.llmClient == nil {
		return "", goerr.New("LLM client is not configured")
	}

	prompt := buildPrompt(req)

	logging.From(ctx).Debug("Generating post content",
		"topic", req.Topic,
		"tone", req.Tone,
		"postType", req.PostType,
	)

	agent := gollem.New(s.llmClient,
		gollem.WithSystemPrompt(systemPrompt),
	)

	resp, err := agent.Execute(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate post content",
			goerr.V("topic", req.Topic),
			goerr.V("postType", req.PostType),
		)
	}

	text := strings.TrimSpace(strings.Join(resp.Texts, "\n"))
	if text == "" {
		return "", goerr.New("LLM returned empty content", goerr.V("topic", req.Topic))
	}

	return text, nil
}

func buildPrompt(req *model.GenerationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write a LinkedIn post about: %s\n\n", req.Topic)
	fmt.Fprintf(&b, "Industry: %s\n", req.Industry)
	fmt.Fprintf(&b, "Tone: %s\n", req.Tone)
	fmt.Fprintf(&b, "Post type: %s\n", req.PostType)
	fmt.Fprintf(&b, "Target length: about %d words\n", req.PostLength)

	if req.IncludeHashtags {
		b.WriteString("Include 3-5 relevant hashtags at the end.\n")
	} else {
		b.WriteString("Do not include hashtags.\n")
	}

	if req.IncludeEmojis {
		b.WriteString("Use a few fitting emojis.\n")
	} else {
		b.WriteString("Do not use emojis.\n")
	}

	return b.String()
}
