package model

// Project is the container prompts live in. Owned by exactly one identity.
// Project CRUD happens elsewhere; this service only reads ownership.
type Project struct {
	BaseModel
	ProjectId string `gorm:"column:project_id;uniqueIndex" json:"projectId"`
	OwnerId   string `gorm:"column:owner_id;index" json:"ownerId"`
	Name      string `gorm:"column:name" json:"name"`
}

func (Project) TableName() string {
	return "t_project"
}

// Prompt is the reviewable artifact inside a project.
type Prompt struct {
	BaseModel
	PromptId  string `gorm:"column:prompt_id;uniqueIndex" json:"promptId"`
	ProjectId string `gorm:"column:project_id;index" json:"projectId"`
	Title     string `gorm:"column:title" json:"title"`
}

func (Prompt) TableName() string {
	return "t_prompt"
}
