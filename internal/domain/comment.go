package domain

import "time"

// Comment is an immutable entry in an issue's discussion thread.
type Comment struct {
	ID        string    `json:"id" bson:"id"`
	IssueID   string    `json:"issueId" bson:"issueId"`
	UserID    string    `json:"userId" bson:"userId"`
	UserName  string    `json:"userName" bson:"userName"`
	UserRole  Role      `json:"userRole" bson:"userRole"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
