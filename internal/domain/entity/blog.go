package entity

import (
	"encoding/json"
	"strings"
)

// BlogPost is an article from the storefront blog
type BlogPost struct {
	ID         json.Number `json:"id"`
	Title      string      `json:"title"`
	Summary    string      `json:"summary"`
	Content    string      `json:"content,omitempty"`
	Author     string      `json:"author"`
	CoverImage string      `json:"coverImage,omitempty"`
	Tags       []string    `json:"tags"`
	Views      int64       `json:"views"`
	Featured   bool        `json:"featured"`
	Date       Timestamp   `json:"date"`
	CreatedAt  Timestamp   `json:"createdAt"`
}

// Published is the post's display date, falling back to its creation time
func (p *BlogPost) Published() Timestamp {
	if !p.Date.IsZero() {
		return p.Date
	}
	return p.CreatedAt
}

// Matches reports whether term appears in the title, summary or content
func (p *BlogPost) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Summary), term) ||
		strings.Contains(strings.ToLower(p.Content), term)
}

// HasTag reports whether any tag contains tag, ignoring case
func (p *BlogPost) HasTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), tag) {
			return true
		}
	}
	return false
}
