package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// FaqStyle represents the visual template used to render an FAQ
type FaqStyle string

const (
	FaqStyleAccordion FaqStyle = "accordion"
	FaqStyleSimple    FaqStyle = "simple"
)

// DefaultFaqStyle is used when the caller does not pick a style
const DefaultFaqStyle = FaqStyleAccordion

// FaqQuestion is a single generated question/answer pair
type FaqQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FaqQuestions represents an ordered list of question/answer pairs
type FaqQuestions []FaqQuestion

// Value implements driver.Valuer for JSONB
func (q FaqQuestions) Value() (driver.Value, error) {
	if q == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(q)
}

// Scan implements sql.Scanner for JSONB
func (q *FaqQuestions) Scan(value interface{}) error {
	if value == nil {
		*q = make(FaqQuestions, 0)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*q = make(FaqQuestions, 0)
		return nil
	}

	if len(bytes) == 0 {
		*q = make(FaqQuestions, 0)
		return nil
	}

	return json.Unmarshal(bytes, q)
}

// FaqRecord represents a persisted FAQ generation result
type FaqRecord struct {
	ID                  int64        `json:"id"`
	UserID              string       `json:"userId"`
	BusinessType        string       `json:"businessType"`
	BusinessDescription string       `json:"businessDescription"`
	WebsiteURL          *string      `json:"websiteUrl"`
	FaqStyle            FaqStyle     `json:"faqStyle"`
	Questions           FaqQuestions `json:"questions"`
	HTMLCode            string       `json:"htmlCode"`
	CSSCode             string       `json:"cssCode"`
	CreatedAt           time.Time    `json:"createdAt"`
}

// Usage describes how much of the daily quota a user has consumed
type Usage struct {
	Count     int `json:"count"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}
