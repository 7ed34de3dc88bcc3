package common

// AdminPassphraseHeaderName carries the shared admin passphrase on
// destructive HTTP requests.
const AdminPassphraseHeaderName = "X-Admin-Passphrase"

// SessionTokenHeaderName is the HTTP header carrying the session token.
const SessionTokenHeaderName = "Authorization"
