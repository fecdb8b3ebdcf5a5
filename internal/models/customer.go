package models

// Customer represents a row of the customers table.
type Customer struct {
	CustomerID   string   `db:"customer_id"`
	Name         string   `db:"name"`
	Email        string   `db:"email"`
	CustomerType string   `db:"customer_type"`
	PasswordHash string   `db:"password_hash"`
	AccountIDs   []string `db:"account_ids"`
	AuditFields
}
