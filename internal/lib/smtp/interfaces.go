// Package smtp provides the transport used to deliver confirmation mail.
package smtp

import "io"

// Client is the subset of the SMTP client used by the sender.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}
