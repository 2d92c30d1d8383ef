package entity

// Customer is a registered shop customer identified by account number
type Customer struct {
	ID            string    `json:"id"`
	AccountNumber string    `json:"accountNumber"`
	Username      string    `json:"username,omitempty"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	ProfilePhoto  string    `json:"profilePhoto,omitempty"`
	CreatedAt     Timestamp `json:"createdAt"`
}

// DisplayName falls back to the username when no name is recorded
func (c *Customer) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Username
}
