package jobs

// Job types dispatched by the worker pool.
const (
	TypeUserAvatar             = "user_avatar"
	TypeOrderConfirmationEmail = "order_confirmation_email"
	TypeOrderStatusEmail       = "order_status_email"
	TypeNewsletterWelcomeEmail = "newsletter_welcome_email"
)
