package models

import "time"

type BlogPost struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	TitleBn   string    `json:"titleBn,omitempty"`
	Content   string    `json:"content"`
	ContentBn string    `json:"contentBn,omitempty"`
	Excerpt   string    `json:"excerpt,omitempty"`
	ExcerptBn string    `json:"excerpt_bn,omitempty"`
	Image     string    `json:"image,omitempty"`
	Author    string    `json:"author,omitempty"`
	Published bool      `json:"published,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
