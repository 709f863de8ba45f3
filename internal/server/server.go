package server

import (
	"fmt"
	"net"
	"net/http"

	"github.com/rs/zerolog/log"
)

// tlsFiles is the certificate pair handed to ListenAndServeTLS.
type tlsFiles struct {
	certFile string
	keyFile  string
}

// serverOptions provide optional config for an http.Server passed to ServeFn.
type serverOptions struct {
	tls      *tlsFiles
	listener net.Listener
}

// Option is the conventional way to supply arbitrary and optional arguments.
type Option func(*serverOptions)

// WithTLSFiles makes the server terminate TLS with the given certificate pair.
// It only takes effect when the server carries a TLS config.
func WithTLSFiles(certFile string, keyFile string) Option {
	return func(o *serverOptions) {
		o.tls = &tlsFiles{
			certFile: certFile,
			keyFile:  keyFile,
		}
	}
}

// WithListener serves on ln instead of binding the server's own address.
func WithListener(ln net.Listener) Option {
	return func(o *serverOptions) {
		o.listener = ln
	}
}

// ServeFn returns a callback that serves srv until it is shut down, suitable
// for running under an errgroup. A graceful Shutdown elsewhere makes the
// callback return nil.
func ServeFn(srv *http.Server, name string, opts ...Option) func() error {
	options := &serverOptions{}
	for _, o := range opts {
		o(options)
	}
	return func() error {
		var err error
		switch {
		case srv.TLSConfig != nil && options.tls != nil && options.listener != nil:
			log.Info().Msgf("Starting server[%s] at %s over TLS", name, options.listener.Addr())
			err = srv.ServeTLS(options.listener, options.tls.certFile, options.tls.keyFile)
		case srv.TLSConfig != nil && options.tls != nil:
			log.Info().Msgf("Starting server[%s] at %s over TLS", name, srv.Addr)
			err = srv.ListenAndServeTLS(options.tls.certFile, options.tls.keyFile)
		case options.listener != nil:
			log.Info().Msgf("Starting server[%s] at %s", name, options.listener.Addr())
			err = srv.Serve(options.listener)
		default:
			log.Info().Msgf("Starting server[%s] at %s", name, srv.Addr)
			err = srv.ListenAndServe()
		}
		if err != http.ErrServerClosed {
			log.Err(fmt.Errorf("server[%s] closed with abnormal error: %v", name, err))
			return err
		}
		return nil
	}
}
