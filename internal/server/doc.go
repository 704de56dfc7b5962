// Package server provides the local HTTP surface used during sign-in.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support. [BasicRouter] registers
// method patterns on an [http.ServeMux]; [Logging] and [Recover] are the stock middleware.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the authorization code callback. It validates the state parameter,
// exchanges the code through an [Exchanger] and sends the result through a channel. It only
// processes one callback.
//
// [Start] binds the callback address before the browser is opened and returns a [CallbackServer]
// that the login command shuts down once a result arrives.
package server
