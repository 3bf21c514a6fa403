package model

import (
	"time"
)

type ParticipationStatus string

const (
	ParticipationActive    ParticipationStatus = "active"
	ParticipationCompleted ParticipationStatus = "completed"
	ParticipationFailed    ParticipationStatus = "failed"

	// completionThreshold is the success rate (percent) a participant must
	// reach by the end of the window to count as completed.
	completionThreshold = 80.0
)

// MemberChallenge ties one member to one challenge. The (member_id,
// challenge_id) pair is unique; the database enforces it with a unique
// constraint so concurrent joins cannot slip a duplicate through.
type MemberChallenge struct {
	ID              int64      `json:"id"`
	MemberID        int64      `json:"member_id"`
	ChallengeID     int64      `json:"challenge_id"`
	JoinedAt        time.Time  `json:"joined_at"`
	CertImagePath   *string    `json:"cert_image_path,omitempty"`
	CertCount       int        `json:"cert_count"`
	LastCertifiedAt *time.Time `json:"last_certified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// SuccessRate is the percentage of window days the participant certified,
// capped at 100.
func (mc *MemberChallenge) SuccessRate(c *Challenge) float64 {
	rate := float64(mc.CertCount) / float64(c.WindowDays()) * 100
	if rate > 100 {
		return 100
	}
	return rate
}

// Status derives the participation state from the challenge window and the
// certification history. It is never stored.
func (mc *MemberChallenge) Status(c *Challenge, now time.Time) ParticipationStatus {
	if now.Before(c.EndDate) {
		return ParticipationActive
	}
	if mc.SuccessRate(c) >= completionThreshold {
		return ParticipationCompleted
	}
	return ParticipationFailed
}
