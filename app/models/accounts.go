package models

// Account is the caller's account as served by the metadata service.
type Account struct {
	ID            string  `json:"id,omitempty"`
	Email         string  `json:"email,omitempty"`
	Username      string  `json:"username,omitempty"`
	WalletAccount *Wallet `json:"walletAccount"`
}

// AccountFields selects what an account query returns.
type AccountFields struct {
	IncludeBalances bool
	Denoms          []string
}

func (f *AccountFields) Params() map[string]interface{} {
	return map[string]interface{}{
		"includeWalletAccount": true,
	}
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Credentials) Validate() error {
	if c.Email == "" {
		return errEmpty("email")
	}
	if c.Password == "" {
		return errEmpty("password")
	}
	return nil
}
