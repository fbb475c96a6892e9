// Package constants defines names shared across the app, such as the
// application name used for the database and the sqlite file.
package constants

const (
	AppName = "ospoc"

	// APIPathPrefix is the path every HTTP route is registered under.
	APIPathPrefix = "/api"
)
