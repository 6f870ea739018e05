package patterns

import (
	"fmt"
	"strings"

	"github.com/sentryline/fraud-triage/internal/domain"
)

// SocialRatioRule flags accounts that follow far more than they are
// followed, the typical shape of freshly created scam accounts
type SocialRatioRule struct{}

func NewSocialRatioRule() *SocialRatioRule { return &SocialRatioRule{} }

func (r *SocialRatioRule) Name() string { return "Follower ratio" }

func (r *SocialRatioRule) Match(subject domain.Subject, tables *Tables) *domain.Finding {
	s := subject.Social
	if subject.Kind != domain.SubjectSocial || s == nil {
		return nil
	}
	if s.FollowingCount >= 100 && s.FollowerCount*20 < s.FollowingCount {
		return &domain.Finding{
			Category: CategorySocialRatio,
			Severity: 10,
			Message:  fmt.Sprintf("account follows %d but has only %d followers", s.FollowingCount, s.FollowerCount),
		}
	}
	return nil
}

// SocialNewAccountRule flags very young accounts
type SocialNewAccountRule struct{}

func NewSocialNewAccountRule() *SocialNewAccountRule { return &SocialNewAccountRule{} }

func (r *SocialNewAccountRule) Name() string { return "New account" }

func (r *SocialNewAccountRule) Match(subject domain.Subject, tables *Tables) *domain.Finding {
	s := subject.Social
	if subject.Kind != domain.SubjectSocial || s == nil {
		return nil
	}
	if s.AccountAgeDays >= 0 && s.AccountAgeDays < 30 {
		return &domain.Finding{
			Category: CategorySocialNewAcct,
			Severity: 10,
			Message:  fmt.Sprintf("account is only %d days old", s.AccountAgeDays),
		}
	}
	return nil
}

// SocialAvatarRule flags accounts still on the platform default avatar
type SocialAvatarRule struct{}

func NewSocialAvatarRule() *SocialAvatarRule { return &SocialAvatarRule{} }

func (r *SocialAvatarRule) Name() string { return "Default avatar" }

func (r *SocialAvatarRule) Match(subject domain.Subject, tables *Tables) *domain.Finding {
	s := subject.Social
	if subject.Kind != domain.SubjectSocial || s == nil || !s.DefaultAvatar {
		return nil
	}
	return &domain.Finding{
		Category: CategorySocialAvatar,
		Severity: 5,
		Message:  "account uses the default avatar",
	}
}

// SocialBurstRule flags burst posting rates typical of spam automation
type SocialBurstRule struct{}

func NewSocialBurstRule() *SocialBurstRule { return &SocialBurstRule{} }

func (r *SocialBurstRule) Name() string { return "Burst posting" }

func (r *SocialBurstRule) Match(subject domain.Subject, tables *Tables) *domain.Finding {
	s := subject.Social
	if subject.Kind != domain.SubjectSocial || s == nil {
		return nil
	}
	if s.PostsLast24h > 50 {
		return &domain.Finding{
			Category: CategorySocialBurst,
			Severity: 10,
			Message:  fmt.Sprintf("%d posts in the last 24 hours", s.PostsLast24h),
		}
	}
	return nil
}

// SocialBioRule reuses the scam keyword families against the account bio
type SocialBioRule struct{}

func NewSocialBioRule() *SocialBioRule { return &SocialBioRule{} }

func (r *SocialBioRule) Name() string { return "Scam bio" }

func (r *SocialBioRule) Match(subject domain.Subject, tables *Tables) *domain.Finding {
	s := subject.Social
	if subject.Kind != domain.SubjectSocial || s == nil || s.Bio == "" {
		return nil
	}
	bio := strings.ToLower(s.Bio)
	for _, family := range tables.KeywordFamilies {
		if countKeywords(bio, family.Keywords) >= family.RequiredMatches {
			return &domain.Finding{
				Category: CategorySocialScamBio,
				Severity: 15,
				Message:  fmt.Sprintf("bio contains %s language", strings.ToLower(family.Name)),
			}
		}
	}
	return nil
}
