package types

import "github.com/m-mizutani/goerr/v2"

// PostType represents the format of a generated post
type PostType string

const (
	PostTypeStory        PostType = "story"
	PostTypeTips         PostType = "tips"
	PostTypeAnnouncement PostType = "announcement"
	PostTypeQuestion     PostType = "question"
	PostTypeAchievement  PostType = "achievement"
	PostTypeIndustry     PostType = "industry"
)

// AllPostTypes returns all valid post types
func AllPostTypes() []PostType {
	return []PostType{
		PostTypeStory,
		PostTypeTips,
		PostTypeAnnouncement,
		PostTypeQuestion,
		PostTypeAchievement,
		PostTypeIndustry,
	}
}

// IsValid checks if the post type is valid
func (p PostType) IsValid() bool {
	switch p {
	case PostTypeStory,
		PostTypeTips,
		PostTypeAnnouncement,
		PostTypeQuestion,
		PostTypeAchievement,
		PostTypeIndustry:
		return true
	default:
		return false
	}
}

// Normalize returns the post type, treating empty or unknown values as
// PostTypeStory for backward compatibility with older stored templates.
func (p PostType) Normalize() PostType {
	if p.IsValid() {
		return p
	}
	return PostTypeStory
}

// String returns the string representation of the post type
func (p PostType) String() string {
	return string(p)
}

// ParsePostType parses a string into a PostType
func ParsePostType(s string) (PostType, error) {
	pt := PostType(s)
	if !pt.IsValid() {
		return "", goerr.New("invalid post type", goerr.V("postType", s))
	}
	return pt, nil
}
