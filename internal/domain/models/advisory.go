package models

import "time"

// Advisory is one triggered policy rule. Rules fire in declaration order and
// each triggered rule contributes exactly one advisory.
type Advisory struct {
	Rule      string    `json:"rule"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
