package models

// Account is a named balance held inside a client document. It has no
// identity or storage of its own outside Client.Accounts.
type Account struct {
	AccName string  `json:"accName"`
	Balance float64 `json:"balance"`
}

// Client is the aggregate root persisted as a single document.
type Client struct {
	ID       string    `json:"id"`
	Fname    string    `json:"fname"`
	Lname    string    `json:"lname"`
	Accounts []Account `json:"accounts"`
}

// Clone returns a copy whose Accounts slice does not alias the receiver's.
// A nil Accounts slice is normalised to an empty one.
func (c *Client) Clone() *Client {
	out := *c
	out.Accounts = make([]Account, len(c.Accounts))
	copy(out.Accounts, c.Accounts)
	return &out
}

// FindAccount returns the index of the account named name, or -1.
func (c *Client) FindAccount(name string) int {
	for i := range c.Accounts {
		if c.Accounts[i].AccName == name {
			return i
		}
	}
	return -1
}

// ClientActivity is the read projection of events recorded against a client.
type ClientActivity struct {
	ClientID        string `json:"clientId"`
	AccountsCreated int64  `json:"accountsCreated"`
	AccountsDeleted int64  `json:"accountsDeleted"`
	Deposits        int64  `json:"deposits"`
	Withdrawals     int64  `json:"withdrawals"`
	Updates         int64  `json:"updates"`
}
