package email

// Config holds email service configuration. The Postmark tokens are
// optional so development environments can run with the dev sender;
// SenderEmail establishes the sender identity for all outbound mail.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	SupportEmail         string `env:"SUPPORT_EMAIL"`

	// DevDir is where the dev sender drops outgoing mail when Postmark
	// is not configured.
	DevDir string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
}
