package domain

// StoreHours is one opening window for a weekday. Times are "HH:MM" in the
// store's local timezone. A window whose close is at or before its open time
// crosses midnight into the next day.
type StoreHours struct {
	Weekday  int    `json:"weekday"`
	OpensAt  string `json:"opensAt"`
	ClosesAt string `json:"closesAt"`
}
