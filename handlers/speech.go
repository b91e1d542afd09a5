/*
# Module: handlers/speech.go
Spoken responses and the mapping from failures to what the user hears.

## Linked Modules
- [types/dialog](../types/dialog.go) - Response envelope
- [types/errors](../types/errors.go) - Error taxonomy

## Tags
presentation, voice

## Exports
(package-internal response builders)

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "handlers/speech.go" ;
    code:description "Spoken responses and the mapping from failures to what the user hears" ;
    code:linksTo [
        code:name "types/dialog" ;
        code:path "../types/dialog.go" ;
        code:relationship "Response envelope"
    ], [
        code:name "types/errors" ;
        code:path "../types/errors.go" ;
        code:relationship "Error taxonomy"
    ] ;
    code:tags "presentation", "voice" .
<!-- End LinkedDoc RDF -->
*/
package handlers

import (
	"errors"
	"fmt"

	"github.com/pavelanni/NightSky/types"
)

const (
	responseVersion = "1.0"
	cardTitle       = "Sky Guide"

	directiveDelegate = "Dialog.Delegate"

	speechWelcomeNew = "Welcome to Sky Guide. To get started, tell me your city. " +
		"For example, say: set my location to Paris."
	speechWelcomeStoreDown = "Welcome to Sky Guide. I can't reach your saved location right now, " +
		"but you can tell me your city. For example, say: set my location to Paris."

	speechProfileUnavailable = "I can't reach your saved location right now. Please try again in a moment."

	speechWelcomeBack = "Welcome back to Sky Guide. Your location is %s. Which planet would you like to find?"
	speechAskPlanet   = "Which planet would you like to find?"
	speechAskCity     = "Which city are you in?"
	speechLocationSet = "Your location is set to %s. Now ask me about planets."

	speechHelp = "I can tell you where the Sun, the Moon and the planets are in your sky. " +
		"First set your city, for example: set my location to Paris. " +
		"Then ask, for example: where is Mars tonight?"

	speechGoodbye      = "Clear skies!"
	speechBelowHorizon = "Unfortunately, %s is below the horizon at that moment in your location."
	speechPosition     = "At that moment %s is located at azimuth %d degrees, elevation %d degrees"
)

func newResponse(body types.ResponseBody) *types.DialogResponse {
	return &types.DialogResponse{Version: responseVersion, Response: body}
}

// ask speaks and keeps the session open for an answer
func ask(speech, reprompt string) *types.DialogResponse {
	return newResponse(types.ResponseBody{
		OutputSpeech: plainText(speech),
		Card:         simpleCard(speech),
		Reprompt:     &types.Reprompt{OutputSpeech: *plainText(reprompt)},
	})
}

// tell speaks and ends the session
func tell(speech string) *types.DialogResponse {
	return newResponse(types.ResponseBody{
		OutputSpeech:     plainText(speech),
		Card:             simpleCard(speech),
		ShouldEndSession: true,
	})
}

// delegate hands slot collection back to the platform's dialog manager
func delegate() *types.DialogResponse {
	return newResponse(types.ResponseBody{
		Directives: []types.Directive{{Type: directiveDelegate}},
	})
}

func empty() *types.DialogResponse {
	return newResponse(types.ResponseBody{ShouldEndSession: true})
}

func plainText(text string) *types.OutputSpeech {
	return &types.OutputSpeech{Type: "PlainText", Text: text}
}

func simpleCard(content string) *types.Card {
	return &types.Card{Type: "Simple", Title: cardTitle, Content: content}
}

func positionSpeech(res *types.PositionResult) string {
	if res.Position.BelowHorizon() {
		return fmt.Sprintf(speechBelowHorizon, res.Body)
	}
	return fmt.Sprintf(speechPosition, res.Body, res.Position.AzimuthDegrees, res.Position.ElevationDegrees)
}

// locationErrorSpeech is what the user hears when a location change fails
func locationErrorSpeech(err error, city string) string {
	switch {
	case errors.Is(err, types.ErrRateLimited):
		return "You've changed your location many times in the last hour. Please try again later."
	case errors.Is(err, types.ErrGeocodeNotFound):
		return fmt.Sprintf("I couldn't find %s. Please try the name of a nearby larger city.", city)
	case errors.Is(err, types.ErrTimezoneUnresolved):
		return fmt.Sprintf("I found %s but couldn't work out its time zone. Please try a nearby larger city.", city)
	case errors.Is(err, types.ErrGeocodeServiceUnavailable):
		return "I'm having trouble looking up places right now. Please try again in a moment."
	case errors.Is(err, types.ErrStoreUnavailable):
		return "I couldn't save your location right now. Please try again in a moment."
	default:
		return "Something went wrong while setting your location. Please try again."
	}
}

// queryErrorSpeech is what the user hears when a position query fails
func queryErrorSpeech(err error, body string) string {
	switch {
	case errors.Is(err, types.ErrNoLocation):
		return "I don't know where you are yet. Tell me your city, for example: set my location to Paris."
	case errors.Is(err, types.ErrAmbiguousTime):
		return "I don't know your time zone. Please set your location again, for example: set my location to Paris."
	case errors.Is(err, types.ErrUnknownBody):
		return fmt.Sprintf("I don't know where %s is. Ask me about the Sun, the Moon or one of the planets.", body)
	case errors.Is(err, types.ErrUnparseableTime):
		return "I didn't understand that date or time. Please ask again, for example: where is Jupiter tomorrow at 10 pm?"
	case errors.Is(err, types.ErrInvalidCoordinate):
		return "Your saved location looks wrong. Please set your location again."
	default:
		return "Something went wrong while finding that. Please try again."
	}
}
