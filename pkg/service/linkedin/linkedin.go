package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/postpilot-app/postpilot/pkg/domain/interfaces"
	"github.com/postpilot-app/postpilot/pkg/utils/logging"
	"github.com/postpilot-app/postpilot/pkg/utils/safe"
)

const defaultBaseURL = "https://api.linkedin.com"

// Service publishes posts through the LinkedIn REST API
type Service struct {
	httpClient *http.Client
	baseURL    string
}

var _ interfaces.Publisher = &Service{}

type Option func(*Service)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		s.httpClient = client
	}
}

// WithBaseURL replaces the API endpoint, mainly for tests
func WithBaseURL(baseURL string) Option {
	return func(s *Service) {
		s.baseURL = baseURL
	}
}

func New(opts ...Option) *Service {
	s := &Service{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type userinfoResponse struct {
	Sub string `json:"sub"`
}

type shareCommentary struct {
	Text string `json:"text"`
}

type shareContent struct {
	ShareCommentary    shareCommentary `json:"shareCommentary"`
	ShareMediaCategory string          `json:"shareMediaCategory"`
}

type ugcPostRequest struct {
	Author          string `json:"author"`
	LifecycleState  string `json:"lifecycleState"`
	SpecificContent struct {
		ShareContent shareContent `json:"com.linkedin.ugc.ShareContent"`
	} `json:"specificContent"`
	Visibility struct {
		MemberNetworkVisibility string `json:"com.linkedin.ugc.MemberNetworkVisibility"`
	} `json:"visibility"`
}

// Publish posts the text as the token's owner. It resolves the member ID via
// the userinfo endpoint first because the share API needs an author URN.
func (s *Service) Publish(ctx context.Context, accessToken, text string) (bool, error) {
	if accessToken == "" {
		return false, goerr.New("access token is required")
	}
	if text == "" {
		return false, goerr.New("post text is empty")
	}

	personID, err := s.fetchPersonID(ctx, accessToken)
	if err != nil {
		return false, err
	}

	post := ugcPostRequest{
		Author:         "urn:li:person:" + personID,
		LifecycleState: "PUBLISHED",
	}
	post.SpecificContent.ShareContent = shareContent{
		ShareCommentary:    shareCommentary{Text: text},
		ShareMediaCategory: "NONE",
	}
	post.Visibility.MemberNetworkVisibility = "PUBLIC"

	body, err := json.Marshal(post)
	if err != nil {
		return false, goerr.Wrap(err, "failed to marshal share request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v2/ugcPosts", bytes.NewReader(body))
	if err != nil {
		return false, goerr.Wrap(err, "failed to build share request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, goerr.Wrap(err, "failed to call share API")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return false, goerr.New("share API returned unexpected status",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(respBody)),
		)
	}

	logging.From(ctx).Info("Published LinkedIn post", "personID", personID, "length", len(text))
	return true, nil
}

func (s *Service) fetchPersonID(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v2/userinfo", nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to build userinfo request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to call userinfo API")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", goerr.New("userinfo API returned unexpected status",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(respBody)),
		)
	}

	var info userinfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", goerr.Wrap(err, "failed to decode userinfo response")
	}
	if info.Sub == "" {
		return "", goerr.New("userinfo response has no member ID")
	}

	return info.Sub, nil
}
