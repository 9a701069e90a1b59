package domain

import "github.com/shopspring/decimal"

// Conversation roles as sent to the language model.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultClientName is the placeholder used for clients whose name is not
// yet known.
const DefaultClientName = "Desconhecido"

// Turn is a single conversational exchange entry kept in the context cache
// and sent to the language model as chat history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LineItem is one parsed order line before persistence. Prices are decimal
// to keep parsing and arithmetic exact; conversion to float happens only at
// the database boundary.
type LineItem struct {
	Quantity    int
	ProductName string
	Description string
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// OrderExtraction is the structured result of parsing the model's
// order-mode response. String fields default to "" and money fields to
// zero when the model omitted them; validation of required fields happens
// in the commit workflow, not here.
type OrderExtraction struct {
	Number        string
	CustomerName  string
	Phone         string
	Items         []LineItem
	DeliveryDate  string
	Address       string
	PaymentMethod string
	DeliveryFee   decimal.Decimal
	Total         decimal.Decimal
}
