package constants

// Session
const (
	SessionCookieName   = "callcrm_session"
	ContextKeyUserID    = "user_id"
	ContextKeyUser      = "current_user"
	SessionKeyIssuedAt  = "issued_at"
	SessionMaxAgeSecond = 86400 * 7
)

// Auth
const (
	MinPasswordLength = 4
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Dashboard
const (
	RecentOrderLimit = 10
)

// PDFFileExtension is the only accepted suffix for fulfillment uploads.
// Validation is by declared name only, no content sniffing.
const PDFFileExtension = ".pdf"
