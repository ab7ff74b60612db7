package model

// Account is a row in the account dictionary (accounts.csv).
type Account struct {
	ID          int
	Name        string
	Description string // optional
}
