package api

import (
	"errors"
	"fmt"
	"io"

	"github.com/dutchcoders/go-clamd"
)

// ErrInfected reports an upload rejected by the virus scanner.
var ErrInfected = errors.New("malicious file detected")

// Scanner checks uploads before they are accepted.
type Scanner interface {
	Scan(r io.Reader) error
}

// ClamdScanner streams uploads to a clamd daemon.
type ClamdScanner struct {
	client *clamd.Clamd
}

// NewClamdScanner returns nil when addr is empty, which disables scanning.
func NewClamdScanner(addr string) *ClamdScanner {
	if addr == "" {
		return nil
	}
	return &ClamdScanner{client: clamd.NewClamd(addr)}
}

func (s *ClamdScanner) Scan(r io.Reader) error {
	abortChan := make(chan bool)
	defer close(abortChan)

	results, err := s.client.ScanStream(r, abortChan)
	if err != nil {
		return fmt.Errorf("scan stream: %w", err)
	}
	var infected error
	for result := range results {
		if result.Status != clamd.RES_OK && infected == nil {
			infected = fmt.Errorf("%w: %s", ErrInfected, result.Description)
		}
	}
	return infected
}
