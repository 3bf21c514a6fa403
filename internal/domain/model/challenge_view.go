package model

import (
	"time"
)

// ChallengeSummary is the shape every viewer may see: challenge metadata
// only, no certification data.
type ChallengeSummary struct {
	ID                int64             `json:"id"`
	Title             string            `json:"title"`
	Slug              string            `json:"slug"`
	Category          ChallengeCategory `json:"category"`
	Description       string            `json:"description"`
	StartDate         time.Time         `json:"start_date"`
	EndDate           time.Time         `json:"end_date"`
	RepImagePath      *string           `json:"rep_image_path,omitempty"`
	ExampleImagePaths []string          `json:"example_image_paths,omitempty"`
	ViewCount         int64             `json:"view_count"`
	AuthorName        *string           `json:"author_name,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// ChallengeDetail extends the summary with the requesting caller's own
// participation record. Other participants' certification data never
// flows through here.
type ChallengeDetail struct {
	ChallengeSummary
	JoinedAt        time.Time           `json:"joined_at"`
	CertImagePath   *string             `json:"cert_image_path,omitempty"`
	CertCount       int                 `json:"cert_count"`
	LastCertifiedAt *time.Time          `json:"last_certified_at,omitempty"`
	SuccessRate     float64             `json:"success_rate"`
	Status          ParticipationStatus `json:"status"`
}

// ChallengeView is the tagged result of the visibility decision. Exactly
// one of Summary/Detail is set.
type ChallengeView struct {
	Summary *ChallengeSummary
	Detail  *ChallengeDetail
}

// Payload returns whichever variant is set, for response encoding.
func (v ChallengeView) Payload() interface{} {
	if v.Detail != nil {
		return v.Detail
	}
	return v.Summary
}

// NewChallengeSummary projects a challenge into its public shape.
func NewChallengeSummary(c *Challenge) ChallengeSummary {
	return ChallengeSummary{
		ID:                c.ID,
		Title:             c.Title,
		Slug:              c.Slug,
		Category:          c.Category,
		Description:       c.Description,
		StartDate:         c.StartDate,
		EndDate:           c.EndDate,
		RepImagePath:      c.RepImagePath,
		ExampleImagePaths: c.ExampleImagePaths,
		ViewCount:         c.ViewCount,
		AuthorName:        c.AuthorName,
		CreatedAt:         c.CreatedAt,
	}
}

// NewChallengeSummaryList projects a page of challenges.
func NewChallengeSummaryList(challenges []Challenge) []ChallengeSummary {
	summaries := make([]ChallengeSummary, 0, len(challenges))
	for i := range challenges {
		summaries = append(summaries, NewChallengeSummary(&challenges[i]))
	}
	return summaries
}

// ComposeChallengeView decides which projection a viewer gets. A nil
// participation means the caller is anonymous or not a participant and
// gets the summary; a participation record must belong to the caller,
// which the lifecycle engine guarantees by looking it up per request.
func ComposeChallengeView(c *Challenge, participation *MemberChallenge, now time.Time) ChallengeView {
	if participation == nil {
		summary := NewChallengeSummary(c)
		return ChallengeView{Summary: &summary}
	}
	return ChallengeView{Detail: &ChallengeDetail{
		ChallengeSummary: NewChallengeSummary(c),
		JoinedAt:         participation.JoinedAt,
		CertImagePath:    participation.CertImagePath,
		CertCount:        participation.CertCount,
		LastCertifiedAt:  participation.LastCertifiedAt,
		SuccessRate:      participation.SuccessRate(c),
		Status:           participation.Status(c, now),
	}}
}
