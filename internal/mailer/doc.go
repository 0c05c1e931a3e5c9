// Package mailer sends program source by email over SMTP. When no SMTP host
// is configured the service degrades to a noop that reports itself disabled.
package mailer
