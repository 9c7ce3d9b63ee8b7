package models

// Classification is stored as text and constrained by a CHECK on accounts.
type Classification string

// Account is a row of the accounts table, keyed by its chart code.
type Account struct {
	Code           string         `db:"code"`
	Label          string         `db:"label"`
	Classification Classification `db:"classification"`
	AuditFields
}
