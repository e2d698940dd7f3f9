package model

// Identity is an authenticated account, owner or reviewer. Account lifecycle
// is handled by the external auth flow; this service reads email and id.
type Identity struct {
	BaseModel
	IdentityId string `gorm:"column:identity_id;uniqueIndex" json:"identityId"`
	Email      string `gorm:"column:email;uniqueIndex" json:"email"`
	Name       string `gorm:"column:name" json:"name"`
}

func (Identity) TableName() string {
	return "t_identity"
}
