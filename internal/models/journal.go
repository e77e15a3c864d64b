package models

import "time"

var JournalModes = []string{"cash", "transfer", "upi", "cheque"}

// Journal is a manual cash-book entry recorded by an admin.
type Journal struct {
	ID            int       `json:"_id"`
	Name          string    `json:"name"`
	Amount        float64   `json:"amount"`
	Mode          string    `json:"mode"`
	Narration     string    `json:"narration"`
	ScreenshotURL string    `json:"screenshotUrl,omitempty"`
	CreatedBy     *int      `json:"createdBy,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type JournalInput struct {
	Name          string  `json:"name" validate:"required"`
	Amount        float64 `json:"amount" validate:"gte=0"`
	Mode          string  `json:"mode" validate:"required,oneof=cash transfer upi cheque"`
	Narration     string  `json:"narration" validate:"required"`
	ScreenshotURL string  `json:"screenshotUrl"`
}

// JournalPatch lists the editable fields. An uploaded screenshot replaces
// ScreenshotURL.
type JournalPatch struct {
	Name          *string  `json:"name"`
	Amount        *float64 `json:"amount"`
	Mode          *string  `json:"mode"`
	Narration     *string  `json:"narration"`
	ScreenshotURL *string  `json:"screenshotUrl"`
}

func IsValidJournalMode(s string) bool {
	return contains(JournalModes, s)
}
