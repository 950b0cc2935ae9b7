package customerauth

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/storefront/lib/mycontext"
	"github.com/MarcGrol/storefront/lib/myerrors"
	"github.com/MarcGrol/storefront/lib/myhttp"
	"github.com/MarcGrol/storefront/lib/mylog"
	"github.com/MarcGrol/storefront/lib/mypublisher"
	"github.com/MarcGrol/storefront/lib/mystore"
	"github.com/MarcGrol/storefront/lib/mytime"
	"github.com/MarcGrol/storefront/services/customerauth/oauthclient"
)

//go:embed templates
var templateFolder embed.FS
var (
	loginPageTemplate *template.Template
)

func init() {
	loginPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/login.html"))
}

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(attemptStore mystore.Store[FlowAttempt], oauthClient oauthclient.OauthClient, nower mytime.Nower, publisher mypublisher.Publisher) *webService {
	return &webService{
		logger:  mylog.New("customerauth"),
		service: newService(attemptStore, oauthClient, nower, publisher),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/login", s.loginPage()).Methods("GET")
	router.HandleFunc("/auth/login", s.startLoginPage()).Methods("POST")
	router.HandleFunc("/auth/callback", s.callbackPage()).Methods("GET")
	router.HandleFunc("/auth/logout", s.logoutPage()).Methods("POST")

	return s.service.CreateTopics(c)
}

func (s *webService) loginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err := loginPageTemplate.Execute(w, struct {
			Error string
		}{
			Error: r.URL.Query().Get("error"),
		})
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInternalError(err))
			return
		}
	}
}

func (s *webService) startLoginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		returnURL := r.FormValue("returnURL")
		emailHint := r.FormValue("email")

		start, err := s.service.start(c, returnURL, emailHint,
			myhttp.HostnameWithScheme(r)+"/auth/callback")
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		// The flow secrets travel with the browser, not with our store:
		// the callback can land on any instance.
		myhttp.WriteFlowCookie(w, stateCookieName, start.State)
		myhttp.WriteFlowCookie(w, verifierCookieName, start.CodeVerifier)
		myhttp.WriteFlowCookie(w, nonceCookieName, start.Nonce)
		if emailHint != "" {
			myhttp.WriteFlowCookie(w, emailHintCookieName, emailHint)
		}

		http.Redirect(w, r, start.AuthenticationURL, http.StatusSeeOther)
	}
}

func (s *webService) callbackPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)

		query := r.URL.Query()

		// The provider's own error comes back verbatim
		if providerError := query.Get("error"); providerError != "" {
			s.redirectToLogin(w, r, providerError)
			return
		}

		state := query.Get("state")
		code := query.Get("code")
		if state == "" || code == "" {
			s.redirectToLogin(w, r, reasonMissingParameters)
			return
		}

		cookieState, _ := myhttp.ReadCookie(r, stateCookieName)
		cookieVerifier, _ := myhttp.ReadCookie(r, verifierCookieName)
		cookieNonce, _ := myhttp.ReadCookie(r, nonceCookieName)

		returnURL, tokenResp, err := s.service.done(c, callbackRequest{
			State:          state,
			Code:           code,
			CookieState:    cookieState,
			CookieVerifier: cookieVerifier,
			CookieNonce:    cookieNonce,
			RedirectURI:    myhttp.HostnameWithScheme(r) + "/auth/callback",
		})
		if err != nil {
			reason := err.Error()
			fe := flowError{}
			if errors.As(err, &fe) {
				reason = fe.reason
			}
			s.redirectToLogin(w, r, reason)
			return
		}

		myhttp.WriteSessionCookie(w, sessionCookieName, tokenResp.AccessToken, tokenResp.ExpiresIn)

		// Flow secrets are one-shot: only a completed flow cleans them up,
		// a failed attempt may still be retried within the cookie TTL.
		myhttp.DeleteCookie(w, stateCookieName)
		myhttp.DeleteCookie(w, verifierCookieName)
		myhttp.DeleteCookie(w, nonceCookieName)
		myhttp.DeleteCookie(w, emailHintCookieName)

		http.Redirect(w, r, returnURL, http.StatusSeeOther)
	}
}

func (s *webService) logoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := s.service.logout(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		myhttp.DeleteCookie(w, sessionCookieName)

		http.Redirect(w, r, loginPagePath, http.StatusSeeOther)
	}
}

func (s *webService) redirectToLogin(w http.ResponseWriter, r *http.Request, reason string) {
	http.Redirect(w, r, loginPagePath+"?error="+url.QueryEscape(reason), http.StatusSeeOther)
}
