package model

import "time"

// Article rows are written by the crawler pipeline; this service only reads them.
type Article struct {
	ID          int64
	Title       string
	Domain      string
	Author      string
	URL         string
	PublishedAt time.Time
	UpdatedAt   time.Time
}
