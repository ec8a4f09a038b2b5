package models

// TransactionType classifies a cashflow entry.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Transaction is a single income or expense entry.
type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Amount      float64         `json:"amount"`
	Date        string          `json:"date"` // ISO 8601
	Description string          `json:"description"`
	IsRecurring bool            `json:"isRecurring,omitempty"`
}

// Budget is a monthly spending limit for a category.
type Budget struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Debt tracks an outstanding liability and its repayment progress.
type Debt struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	TotalAmount    float64 `json:"totalAmount"`
	AmountPaid     float64 `json:"amountPaid"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	DueDate        int     `json:"dueDate"` // day of the month
}

// Goal is a savings target.
type Goal struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	TargetAmount float64 `json:"targetAmount"`
	SavedAmount  float64 `json:"savedAmount"`
	TargetDate   string  `json:"targetDate"` // ISO 8601
}

// UserProfile holds optional personal details used by the assistant.
type UserProfile struct {
	Name string `json:"name,omitempty"`
	Age  int    `json:"age,omitempty"`
}

// AuthInfo holds the local PIN gate state.
type AuthInfo struct {
	PINHash string `json:"pinHash,omitempty"` // bcrypt hash
}

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// AppData is the complete persisted state for a user, stored as a single
// JSON blob through the data store contract.
type AppData struct {
	Transactions []Transaction      `json:"transactions"`
	Debts        []Debt             `json:"debts"`
	Goals        []Goal             `json:"goals"`
	Holdings     []Holding          `json:"investmentHoldings"`
	Budgets      []Budget           `json:"budgets"`
	Brokers      []BrokerConnection `json:"brokers"`
	UserProfile  UserProfile        `json:"userProfile"`
	Auth         AuthInfo           `json:"auth"`
	ChatHistory  []ChatMessage      `json:"chatHistory"`
}

// NewAppData returns an empty AppData with the fixed broker records seeded.
func NewAppData() *AppData {
	return &AppData{
		Transactions: []Transaction{},
		Debts:        []Debt{},
		Goals:        []Goal{},
		Holdings:     []Holding{},
		Budgets:      []Budget{},
		Brokers:      DefaultBrokerConnections(),
	}
}

// Broker returns the connection record for the given broker, or nil.
func (d *AppData) Broker(id BrokerID) *BrokerConnection {
	for i := range d.Brokers {
		if d.Brokers[i].ID == id {
			return &d.Brokers[i]
		}
	}
	return nil
}

// ConnectedBrokers returns the broker records flagged as connected.
func (d *AppData) ConnectedBrokers() []BrokerConnection {
	var out []BrokerConnection
	for _, b := range d.Brokers {
		if b.IsConnected {
			out = append(out, b)
		}
	}
	return out
}

// EnsureBrokers backfills any missing broker records. Data written by older
// builds may predate a broker's introduction.
func (d *AppData) EnsureBrokers() {
	for _, id := range AllBrokers {
		if d.Broker(id) == nil {
			d.Brokers = append(d.Brokers, BrokerConnection{ID: id, Name: id.DisplayName()})
		}
	}
}
