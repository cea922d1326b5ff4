package globals

// Context keys
type ContextKey string

const SessionIDKey ContextKey = "sessionId"
const LanguageKey ContextKey = "language"
const RequestIDKey ContextKey = "requestId"

// Session state namespaces. Each one is stored independently so clearing the
// cart never touches the wishlist or the language preference.
const (
	NSLanguage = "language"
	NSCart     = "cart"
	NSWishlist = "wishlist"
	NSCheckout = "checkout"
	NSListing  = "listing"
)

const DefaultLanguage = "en"
