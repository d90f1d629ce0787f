package ledger

// TransactionType classifies a ledger entry or the entries a rule produces.
type TransactionType string

const (
	TransactionTypeIncome     TransactionType = "income"
	TransactionTypeExpense    TransactionType = "expense"
	TransactionTypeTransfer   TransactionType = "transfer"
	TransactionTypeInvestment TransactionType = "investment"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer, TransactionTypeInvestment:
		return true
	}
	return false
}

// IsCharge reports whether the type draws funds through a funding instrument.
func (t TransactionType) IsCharge() bool {
	return t == TransactionTypeExpense || t == TransactionTypeInvestment
}

// TransactionStatus is the posting role of a transaction.
type TransactionStatus string

const (
	// TransactionStatusCompleted posts immediately.
	TransactionStatusCompleted TransactionStatus = "completed"
	// TransactionStatusPendingSettlement is a cycle-billed charge waiting for its
	// settlement entry. It never touches a balance.
	TransactionStatusPendingSettlement TransactionStatus = "pending_settlement"
	// TransactionStatusSettlement is the aggregated debit of cycle-billed charges.
	TransactionStatusSettlement TransactionStatus = "settlement"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusCompleted, TransactionStatusPendingSettlement, TransactionStatusSettlement:
		return true
	}
	return false
}

// Frequency is the calendar unit a recurrence rule steps by.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// RuleStatus is the lifecycle state of a recurrence rule.
type RuleStatus string

const (
	RuleStatusActive    RuleStatus = "active"
	RuleStatusPaused    RuleStatus = "paused"
	RuleStatusCancelled RuleStatus = "cancelled"
)

func (s RuleStatus) Valid() bool {
	switch s {
	case RuleStatusActive, RuleStatusPaused, RuleStatusCancelled:
		return true
	}
	return false
}

// InstrumentKind is the payment method behind a funding instrument.
type InstrumentKind string

const (
	InstrumentKindCash            InstrumentKind = "cash"
	InstrumentKindCreditCard      InstrumentKind = "credit_card"
	InstrumentKindBankTransfer    InstrumentKind = "bank_transfer"
	InstrumentKindElectronicMoney InstrumentKind = "electronic_money"
	InstrumentKindDirectDebit     InstrumentKind = "direct_debit"
)

func (k InstrumentKind) Valid() bool {
	switch k {
	case InstrumentKindCash, InstrumentKindCreditCard, InstrumentKindBankTransfer,
		InstrumentKindElectronicMoney, InstrumentKindDirectDebit:
		return true
	}
	return false
}

// SupportsCycleBilling reports whether the kind may carry a closing/billing day pair.
func (k InstrumentKind) SupportsCycleBilling() bool {
	return k == InstrumentKindCreditCard || k == InstrumentKindDirectDebit
}

// AccountType is the explicit kind tag of an account.
type AccountType string

const (
	AccountTypeCash       AccountType = "cash"
	AccountTypeBank       AccountType = "bank"
	AccountTypeCredit     AccountType = "credit"
	AccountTypeInvestment AccountType = "investment"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeCash, AccountTypeBank, AccountTypeCredit, AccountTypeInvestment:
		return true
	}
	return false
}
