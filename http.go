package fireusers

import (
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// DefaultContextKey is where resolved users are stored in the router context.
const DefaultContextKey = "firebase_user"

// RequestAuthenticator exposes the strategy as HTTP middleware: it extracts
// a bearer token from the Authorization header, resolves it through the
// strategy, and maps the error taxonomy onto HTTP outcomes.
type RequestAuthenticator struct {
	strategy   Strategy
	manager    *UserManager
	contextKey string
	authScheme string
	Logger     Logger
	// ErrorHandler renders authentication failures. Replace it to integrate
	// with the host application's error responses.
	ErrorHandler func(c router.Context, err error) error
}

type AuthenticatorOption func(*RequestAuthenticator)

func WithContextKey(key string) AuthenticatorOption {
	return func(a *RequestAuthenticator) {
		if key != "" {
			a.contextKey = key
		}
	}
}

func WithAuthScheme(scheme string) AuthenticatorOption {
	return func(a *RequestAuthenticator) {
		if scheme != "" {
			a.authScheme = scheme
		}
	}
}

// NewRequestAuthenticator wires the strategy and manager into middleware.
func NewRequestAuthenticator(strategy Strategy, manager *UserManager, opts ...AuthenticatorOption) *RequestAuthenticator {
	authenticator := &RequestAuthenticator{
		strategy:   strategy,
		manager:    manager,
		contextKey: DefaultContextKey,
		authScheme: "Bearer",
		Logger:     defLogger{},
	}
	authenticator.ErrorHandler = authenticator.defaultErrorHandler

	for _, opt := range opts {
		if opt != nil {
			opt(authenticator)
		}
	}
	return authenticator
}

// Middleware returns a route middleware. With optional set, requests
// without a resolvable user proceed anonymously; otherwise they are
// rejected as unauthenticated.
func (a *RequestAuthenticator) Middleware(optional bool) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			token := ExtractBearerToken(c, a.authScheme)

			user, err := a.strategy.ReadToken(c.Context(), token, a.manager)
			if err != nil {
				return a.ErrorHandler(c, err)
			}

			if user == nil {
				if optional {
					return next(c)
				}
				return a.ErrorHandler(c, ErrCredentialsRequired)
			}

			c.Locals(a.contextKey, user)
			return next(c)
		}
	}
}

// UserFromContext retrieves the user a Middleware stored for this request.
func UserFromContext(c router.Context, key string) (*FirebaseUser, bool) {
	user, ok := c.Locals(key).(*FirebaseUser)
	return user, ok
}

// ExtractBearerToken pulls the credential out of the Authorization header.
// Returns an empty string when the header is absent or uses another scheme.
func ExtractBearerToken(c router.Context, authScheme string) string {
	header := c.GetString(router.HeaderAuthorization, "")
	scheme := strings.TrimSpace(authScheme)
	if header == "" || scheme == "" {
		return ""
	}

	if len(header) > len(scheme)+1 && strings.EqualFold(header[:len(scheme)], scheme) {
		return strings.TrimSpace(header[len(scheme):])
	}
	return ""
}

func (a *RequestAuthenticator) defaultErrorHandler(c router.Context, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	a.Logger.Info(
		"Request authentication failed",
		"error", richErr.Message,
		"category", richErr.Category,
		"details", print.MaybePrettyJSON(richErr.Metadata),
	)

	return c.Status(richErr.Code).SendString(richErr.Message)
}
