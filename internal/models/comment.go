package models

import (
	"strings"
	"time"
)

type CommentView struct {
	ID        int       `json:"id"`
	Creator   string    `json:"creator"`
	PollID    int       `json:"pollId"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func ValidateComment(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		verr := ValidationError{}
		verr.Add("content", "must not be blank")
		return "", &verr
	}
	return content, nil
}
