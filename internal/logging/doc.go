// Package logging provides opt-in file-based logging with rotation for mavenmenu.
// When the --debug flag is set, comprehensive logs are written to ~/.mavenmenu/logs/
// so a long-running watch session can be inspected after the fact.
//
// By default (without --debug), logging is minimal and goes to stderr only.
package logging
