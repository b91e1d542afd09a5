/*
# Module: types/session.go
Per-interaction session state.

## Linked Modules
- [types/profile](./profile.go) - Location profile

## Tags
data-types, session, dialog

## Exports
DialogState, SessionContext

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "types/session.go" ;
    code:description "Per-interaction session state" ;
    code:linksTo [
        code:name "types/profile" ;
        code:path "./profile.go" ;
        code:relationship "Location profile"
    ] ;
    code:exports :DialogState, :SessionContext ;
    code:tags "data-types", "session", "dialog" .
<!-- End LinkedDoc RDF -->
*/
package types

// DialogState tracks whether the dialog manager has filled every required slot.
type DialogState string

const (
	DialogInProgress DialogState = "IN_PROGRESS"
	DialogCompleted  DialogState = "COMPLETED"
)

// SessionContext belongs to exactly one voice interaction and is never
// shared between users.
type SessionContext struct {
	UserID        string
	ActiveProfile *LocationProfile
	DialogState   DialogState
}

// HasLocation reports whether a resolved profile is loaded.
func (s *SessionContext) HasLocation() bool {
	return s != nil && s.ActiveProfile != nil && s.ActiveProfile.IsResolved()
}
