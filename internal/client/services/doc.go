// Package services contains the application services of the slidesmith
// client: the login/register flow with its form state, and operations on
// presentations and documents (create, theme, export, editor adapters).
//
// Services talk to the backend through client.Client and read or write the
// session through small interfaces satisfied by *session.Store.
package services
