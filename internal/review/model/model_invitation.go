package model

import "time"

// InvitationStatus is the closed set of persisted invitation states. Expiry
// is computed against ExpiresAt at acceptance time, never stored as a status.
type InvitationStatus string

const (
	InvitationStatusSent     InvitationStatus = "sent"
	InvitationStatusAccepted InvitationStatus = "accepted"
)

// Invitation grants one external identity time-limited review access to one
// prompt. The token is the only externally presentable identifier.
type Invitation struct {
	BaseModel
	InvitationId      string           `gorm:"column:invitation_id;uniqueIndex" json:"invitationId"`
	Token             string           `gorm:"column:token;uniqueIndex" json:"token"`
	TargetEmail       string           `gorm:"column:target_email" json:"targetEmail"`
	ProjectId         string           `gorm:"column:project_id" json:"projectId"`
	PromptId          string           `gorm:"column:prompt_id" json:"promptId"`
	InvitedBy         string           `gorm:"column:invited_by" json:"invitedBy"`
	Status            InvitationStatus `gorm:"column:status" json:"status"`
	ExpiresAt         time.Time        `gorm:"column:expires_at" json:"expiresAt"`
	AcceptedBy        *string          `gorm:"column:accepted_by" json:"acceptedBy,omitempty"`
	AcceptedAt        *time.Time       `gorm:"column:accepted_at" json:"acceptedAt,omitempty"`
	ReviewCompletedAt *time.Time       `gorm:"column:review_completed_at" json:"reviewCompletedAt,omitempty"`
}

func (Invitation) TableName() string {
	return "t_invitation"
}

// ResourceRef addresses the artifact an invitation grants access to, together
// with its parent container. It is what acceptance hands back for navigation.
type ResourceRef struct {
	PromptId  string `json:"promptId"`
	ProjectId string `json:"projectId"`
}

// Ref returns the invitation's resource reference.
func (i *Invitation) Ref() ResourceRef {
	return ResourceRef{PromptId: i.PromptId, ProjectId: i.ProjectId}
}

// ActiveAt reports whether the invitation should appear in the invitee's
// pending list at instant now: not expired and review not yet completed.
// Acceptance alone does not deactivate an invitation; completing the review does.
func (i *Invitation) ActiveAt(now time.Time) bool {
	return now.Before(i.ExpiresAt) && i.ReviewCompletedAt == nil
}
