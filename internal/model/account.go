package model

import "time"

// AccountType classifies a linked bank account.
type AccountType string

// Known bank account types.
const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCredit     AccountType = "credit"
	AccountInvestment AccountType = "investment"
)

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCredit, AccountInvestment:
		return true
	}
	return false
}

// BankAccount is a linked (or manually entered) bank account. Only the last
// four digits of the account number are ever stored. Deletion is soft: the
// record stays but IsActive flips to false.
type BankAccount struct {
	CreatedAt     time.Time   `json:"createdAt"`
	LastSync      *time.Time  `json:"lastSync,omitempty"`
	ID            string      `json:"id"`
	UserID        string      `json:"userId"`
	BankName      string      `json:"bankName"`
	AccountType   AccountType `json:"accountType"`
	AccountNumber string      `json:"accountNumber"`
	RoutingNumber string      `json:"routingNumber,omitempty"`
	Currency      string      `json:"currency"`
	PlaidItemID   string      `json:"-"`
	AccessToken   string      `json:"-"`
	Balance       float64     `json:"balance"`
	IsActive      bool        `json:"isActive"`
}

// WalletType classifies a digital wallet provider.
type WalletType string

// Known wallet providers.
const (
	WalletPayPal    WalletType = "paypal"
	WalletGooglePay WalletType = "google_pay"
	WalletApplePay  WalletType = "apple_pay"
	WalletPaytm     WalletType = "paytm"
	WalletUPI       WalletType = "upi"
	WalletStripe    WalletType = "stripe"
)

// Valid reports whether t is a known wallet type.
func (t WalletType) Valid() bool {
	switch t {
	case WalletPayPal, WalletGooglePay, WalletApplePay, WalletPaytm, WalletUPI, WalletStripe:
		return true
	}
	return false
}

// DigitalWallet is a linked wallet account. Token fields hold the OAuth2
// credential triple used by wallet sync; they are never serialized.
type DigitalWallet struct {
	CreatedAt    time.Time  `json:"createdAt"`
	LastSync     *time.Time `json:"lastSync,omitempty"`
	TokenExpiry  *time.Time `json:"-"`
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	WalletType   WalletType `json:"walletType"`
	WalletName   string     `json:"walletName"`
	WalletID     string     `json:"walletId"`
	Currency     string     `json:"currency"`
	UPIID        string     `json:"upiId,omitempty"`
	PayPalEmail  string     `json:"paypalEmail,omitempty"`
	AccessToken  string     `json:"-"`
	RefreshToken string     `json:"-"`
	Balance      float64    `json:"balance"`
	IsActive     bool       `json:"isActive"`
}
