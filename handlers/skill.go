/*
# Module: handlers/skill.go
Voice platform skill endpoint: request envelope in, spoken response out.

## Linked Modules
- [services/session](../services/session.go) - Session flows
- [handlers/speech](./speech.go) - Response phrasing

## Tags
http, voice, api

## Exports
SkillHandler, NewSkillHandler

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "handlers/skill.go" ;
    code:description "Voice platform skill endpoint" ;
    code:linksTo [
        code:name "services/session" ;
        code:path "../services/session.go" ;
        code:relationship "Session flows"
    ], [
        code:name "handlers/speech" ;
        code:path "./speech.go" ;
        code:relationship "Response phrasing"
    ] ;
    code:exports :SkillHandler, :NewSkillHandler ;
    code:tags "http", "voice", "api" .
<!-- End LinkedDoc RDF -->
*/
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pavelanni/NightSky/services"
	"github.com/pavelanni/NightSky/types"
)

// Intent and slot names from the interaction model
const (
	IntentSetLocation = "SetLocationIntent"
	IntentPlanet      = "PlanetIntent"
	IntentHelp        = "AMAZON.HelpIntent"
	IntentStop        = "AMAZON.StopIntent"
	IntentCancel      = "AMAZON.CancelIntent"
	IntentFallback    = "AMAZON.FallbackIntent"

	SlotCity   = "city"
	SlotPlanet = "planet"
	SlotDate   = "date"
	SlotTime   = "time"
)

const maxRequestBytes = 64 << 10

// SkillHandler serves POST /skill
type SkillHandler struct {
	sessions *services.SessionService
	logger   *zap.Logger
	now      func() time.Time
}

// NewSkillHandler creates a skill handler
func NewSkillHandler(sessions *services.SessionService, logger *zap.Logger) *SkillHandler {
	return &SkillHandler{
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// ServeHTTP implements http.Handler
func (h *SkillHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req types.DialogRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"}, h.logger)
		return
	}

	userID := req.Session.User.UserID
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing session.user.userId"}, h.logger)
		return
	}

	now := req.Request.Timestamp
	if now.IsZero() {
		now = h.now()
	}

	ctx := r.Context()
	sess, storeErr := h.session(ctx, &req)

	var resp *types.DialogResponse
	switch req.Request.Type {
	case types.RequestLaunch:
		resp = h.launch(sess, storeErr)
	case types.RequestIntent:
		resp = h.intent(ctx, sess, &req, now, storeErr)
	case types.RequestSessionEnded:
		h.logger.Info("👋 Session ended",
			zap.String("user_id", userID),
			zap.String("reason", req.Request.Reason))
		resp = empty()
	default:
		h.logger.Warn("⚠️  Unsupported request type", zap.String("type", req.Request.Type))
		resp = ask(speechHelp, speechAskPlanet)
	}

	resp.SessionAttributes = services.SessionAttributes(sess)
	writeJSON(w, http.StatusOK, resp, h.logger)
}

// session resumes from the attribute bag when this is not the first turn
// and the bag already carries a profile; otherwise it loads from the store.
func (h *SkillHandler) session(ctx context.Context, req *types.DialogRequest) (*types.SessionContext, error) {
	userID := req.Session.User.UserID
	if !req.Session.New {
		if sess, ok := services.ResumeSession(userID, req.Session.Attributes); ok {
			return sess, nil
		}
	}
	return h.sessions.Start(ctx, userID)
}

func (h *SkillHandler) launch(sess *types.SessionContext, storeErr error) *types.DialogResponse {
	switch {
	case sess.HasLocation():
		return ask(fmt.Sprintf(speechWelcomeBack, sess.ActiveProfile.PlaceName), speechAskPlanet)
	case storeErr != nil:
		return ask(speechWelcomeStoreDown, speechAskCity)
	default:
		return ask(speechWelcomeNew, speechAskCity)
	}
}

// storeErr is the failure, if any, from loading the saved profile this turn
func (h *SkillHandler) intent(ctx context.Context, sess *types.SessionContext, req *types.DialogRequest, now time.Time, storeErr error) *types.DialogResponse {
	intent := req.Request.Intent

	switch intent.Name {
	case IntentSetLocation:
		return h.setLocation(ctx, sess, strings.TrimSpace(intent.SlotValue(SlotCity)))
	case IntentPlanet:
		return h.planet(sess, req, now, storeErr)
	case IntentStop, IntentCancel:
		return tell(speechGoodbye)
	case IntentHelp, IntentFallback:
		return ask(speechHelp, speechAskPlanet)
	default:
		h.logger.Warn("⚠️  Unknown intent", zap.String("intent", intent.Name))
		return ask(speechHelp, speechAskPlanet)
	}
}

func (h *SkillHandler) setLocation(ctx context.Context, sess *types.SessionContext, city string) *types.DialogResponse {
	if city == "" {
		return ask(speechAskCity, speechAskCity)
	}

	profile, err := h.sessions.SetLocation(ctx, sess, city)
	if err != nil {
		return ask(locationErrorSpeech(err, city), speechAskCity)
	}
	return ask(fmt.Sprintf(speechLocationSet, profile.PlaceName), speechAskPlanet)
}

func (h *SkillHandler) planet(sess *types.SessionContext, req *types.DialogRequest, now time.Time, storeErr error) *types.DialogResponse {
	if services.ObserveDialog(sess, req.Request.DialogState) == types.DialogInProgress {
		return delegate()
	}

	// The user may well have a saved location we just cannot read
	if storeErr != nil && !sess.HasLocation() {
		h.logger.Warn("⚠️  Position query without a readable profile",
			zap.String("user_id", sess.UserID), zap.Error(storeErr))
		return ask(speechProfileUnavailable, speechAskPlanet)
	}

	intent := req.Request.Intent
	q := services.PositionQuery{
		Body: intent.SlotValue(SlotPlanet),
		Date: intent.SlotValue(SlotDate),
		Time: intent.SlotValue(SlotTime),
	}
	if q.Date == "" {
		q.Date = "today"
	}

	res, err := h.sessions.QueryPosition(sess, q, now)
	if err != nil {
		h.logger.Info("🔭 Position query not answered",
			zap.String("user_id", sess.UserID),
			zap.String("planet", q.Body),
			zap.Error(err))
		return ask(queryErrorSpeech(err, q.Body), speechAskPlanet)
	}
	return tell(positionSpeech(res))
}
