package customerauth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/MarcGrol/storefront/lib/codeverifier"
	"github.com/MarcGrol/storefront/lib/myerrors"
	"github.com/MarcGrol/storefront/lib/mylog"
	"github.com/MarcGrol/storefront/lib/mypublisher"
	"github.com/MarcGrol/storefront/lib/mystore"
	"github.com/MarcGrol/storefront/lib/mytime"
	"github.com/MarcGrol/storefront/services/customerauth/authevents"
	"github.com/MarcGrol/storefront/services/customerauth/oauthclient"
)

const loginScope = "openid email customer-account-api:full"

// flowError carries the reason that ends up in the login page's error
// query param.
type flowError struct {
	reason string
	err    error
}

func (e flowError) Error() string {
	return e.err.Error()
}

func failure(reason string, err error) flowError {
	return flowError{
		reason: reason,
		err:    err,
	}
}

type flowStart struct {
	AuthenticationURL string
	State             string
	Nonce             string
	CodeVerifier      string
}

type service struct {
	attemptStore mystore.Store[FlowAttempt]
	oauthClient  oauthclient.OauthClient
	nower        mytime.Nower
	publisher    mypublisher.Publisher
	logger       mylog.Logger
}

func newService(attemptStore mystore.Store[FlowAttempt], oauthClient oauthclient.OauthClient, nower mytime.Nower, pub mypublisher.Publisher) *service {
	return &service{
		attemptStore: attemptStore,
		oauthClient:  oauthClient,
		nower:        nower,
		publisher:    pub,
		logger:       mylog.New("customerauth"),
	}
}

func (s *service) CreateTopics(c context.Context) error {
	err := s.publisher.CreateTopic(c, authevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", authevents.TopicName, err)
	}

	return nil
}

// start composes the authorization redirect. The state doubles as the
// uid of the audit record, so the callback can be correlated later.
func (s *service) start(c context.Context, returnURL string, emailHint string, completionURL string) (flowStart, error) {
	if returnURL == "" {
		returnURL = defaultReturnURL
	}

	state, err := codeverifier.NewRandomToken()
	if err != nil {
		return flowStart{}, myerrors.NewInternalError(fmt.Errorf("error creating state: %s", err))
	}
	nonce, err := codeverifier.NewRandomToken()
	if err != nil {
		return flowStart{}, myerrors.NewInternalError(fmt.Errorf("error creating nonce: %s", err))
	}

	authURL, verifier, err := s.oauthClient.ComposeAuthURL(c, oauthclient.ComposeAuthURLRequest{
		CompletionURL: completionURL,
		Scope:         loginScope,
		State:         state,
		Nonce:         nonce,
		LoginHint:     emailHint,
	})
	if err != nil {
		return flowStart{}, myerrors.NewInternalError(fmt.Errorf("error composing auth url: %s", err))
	}

	err = s.attemptStore.RunInTransaction(c, func(c context.Context) error {
		err := s.attemptStore.Put(c, state, FlowAttempt{
			UID:          state,
			CreatedAt:    s.nower.Now(),
			ReturnURL:    returnURL,
			VerifierHash: hashSecret(verifier),
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing flow attempt: %s", err))
		}

		return s.publisher.Publish(c, authevents.TopicName, authevents.LoginStarted{
			FlowUID:   state,
			ReturnURL: returnURL,
		})
	})
	if err != nil {
		return flowStart{}, err
	}

	s.logger.Log(c, state, mylog.SeverityInfo, "Login flow %s started", state)

	return flowStart{
		AuthenticationURL: authURL,
		State:             state,
		Nonce:             nonce,
		CodeVerifier:      verifier,
	}, nil
}

type callbackRequest struct {
	State          string
	Code           string
	CookieState    string
	CookieVerifier string
	CookieNonce    string
	RedirectURI    string
}

// done finalizes the flow: verify the callback against the flow cookies,
// exchange the code and validate the id-token nonce. Any error it
// returns is a flowError whose reason is safe to show the customer.
func (s *service) done(c context.Context, req callbackRequest) (string, oauthclient.GetTokenResponse, error) {
	if req.CookieState == "" || req.State != req.CookieState {
		return "", oauthclient.GetTokenResponse{}, s.failFlow(c, req.State,
			failure(reasonInvalidState, fmt.Errorf("state does not match the value set at login")))
	}

	returnURL := defaultReturnURL
	attempt, found, err := s.attemptStore.Get(c, req.State)
	if err != nil {
		return "", oauthclient.GetTokenResponse{}, myerrors.NewInternalError(err)
	}
	if found {
		returnURL = attempt.ReturnURL
	}

	if req.CookieVerifier == "" {
		return "", oauthclient.GetTokenResponse{}, s.failFlow(c, req.State,
			failure(reasonMissingVerifier, fmt.Errorf("code verifier absent, flow expired or never started")))
	}

	tokenResp, err := s.oauthClient.GetAccessToken(c, oauthclient.GetTokenRequest{
		RedirectURI:  req.RedirectURI,
		Code:         req.Code,
		CodeVerifier: req.CookieVerifier,
	})
	if err != nil {
		return "", oauthclient.GetTokenResponse{}, s.failFlow(c, req.State, failure(err.Error(), err))
	}

	if tokenResp.IDToken != "" {
		err = s.oauthClient.ValidateIDToken(c, tokenResp.IDToken, req.CookieNonce)
		if err != nil {
			return "", oauthclient.GetTokenResponse{}, s.failFlow(c, req.State,
				failure(reasonInvalidNonce, fmt.Errorf("id_token rejected: %s", err)))
		}
	}

	err = s.completeFlow(c, req.State)
	if err != nil {
		return "", oauthclient.GetTokenResponse{}, err
	}

	s.logger.Log(c, req.State, mylog.SeverityInfo, "Login flow %s completed", req.State)

	return returnURL, tokenResp, nil
}

func (s *service) logout(c context.Context) error {
	err := s.publisher.Publish(c, authevents.TopicName, authevents.LoggedOut{})
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
	}

	return nil
}

func (s *service) completeFlow(c context.Context, flowUID string) error {
	return s.attemptStore.RunInTransaction(c, func(c context.Context) error {
		attempt, found, err := s.attemptStore.Get(c, flowUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if found {
			now := s.nower.Now()
			attempt.LastModified = &now
			attempt.Done = true
			attempt.Success = true
			err = s.attemptStore.Put(c, flowUID, attempt)
			if err != nil {
				return myerrors.NewInternalError(err)
			}
		}

		return s.publisher.Publish(c, authevents.TopicName, authevents.LoginCompleted{
			FlowUID: flowUID,
		})
	})
}

// failFlow records the failed attempt and returns the original error so
// the caller can propagate the reason.
func (s *service) failFlow(c context.Context, flowUID string, ferr flowError) error {
	s.logger.Log(c, flowUID, mylog.SeverityWarn, "Login flow %s failed (%s): %s", flowUID, ferr.reason, ferr.err)

	err := s.attemptStore.RunInTransaction(c, func(c context.Context) error {
		attempt, found, err := s.attemptStore.Get(c, flowUID)
		if err != nil {
			return err
		}
		if found {
			now := s.nower.Now()
			attempt.LastModified = &now
			attempt.Done = true
			attempt.FailureReason = ferr.reason
			err = s.attemptStore.Put(c, flowUID, attempt)
			if err != nil {
				return err
			}
		}

		return s.publisher.Publish(c, authevents.TopicName, authevents.LoginFailed{
			FlowUID: flowUID,
			Reason:  ferr.reason,
		})
	})
	if err != nil {
		s.logger.Log(c, flowUID, mylog.SeverityWarn, "Error recording failed attempt %s: %s", flowUID, err)
	}

	return ferr
}

func hashSecret(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
