package ledger

// Participant identifies a party holding a running balance.
type Participant string

// Transaction moves Amount from Giver to Taker.
// Amount may be zero or negative; Giver and Taker may be the same participant.
type Transaction struct {
	Giver  Participant `json:"giver"`
	Taker  Participant `json:"taker"`
	Amount int64       `json:"amount"`
}

// Entry is a single participant balance.
type Entry struct {
	Participant Participant `json:"participant"`
	Balance     int64       `json:"balance"`
}
