package email

// SendWelcomeEmail tells a new admin user their account exists.
func (c *Client) SendWelcomeEmail(to, firstName, username string) error {
	return c.SendEmail(
		to,
		"Your Talent Catalog admin account",
		TemplateWelcome,
		map[string]string{
			"UserFirstName": firstName,
			"Username":      username,
		},
	)
}
