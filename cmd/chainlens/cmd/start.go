package cmd

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FavorLabs/chainlens"
	"github.com/FavorLabs/chainlens/pkg/api"
	"github.com/FavorLabs/chainlens/pkg/chain"
	"github.com/FavorLabs/chainlens/pkg/logging"
	"github.com/hashicorp/go-multierror"
	"github.com/kardianos/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	serviceName = "chainlensSvc"
)

func (c *command) initStartCmd() {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Serve the chain client over HTTP",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if len(args) > 0 {
				return cmd.Help()
			}

			logger, err := c.newLogger(cmd)
			if err != nil {
				return err
			}

			logger.Infof("version: %v", chainlens.Version)

			client := c.newClient(logger)
			s, err := newServer(client, c.config.GetString(optionNameAPIAddr), logger, api.Options{
				CORSAllowedOrigins: c.config.GetStringSlice(optionCORSAllowedOrigins),
			})
			if err != nil {
				_ = client.Close()
				return err
			}

			// Wait for termination or interrupt signals.
			// We want to clean up things at the end.
			interruptChannel := make(chan os.Signal, 1)
			signal.Notify(interruptChannel, syscall.SIGINT, syscall.SIGTERM)

			p := &program{
				start: func() {
					// Block main goroutine until it is interrupted
					sig := <-interruptChannel

					logger.Debugf("received signal: %v", sig)
					logger.Info("shutting down")
				},
				stop: func() {
					// Shutdown
					done := make(chan struct{})
					go func() {
						defer close(done)

						ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
						defer cancel()

						if err := s.Shutdown(ctx); err != nil {
							logger.Errorf("shutdown: %v", err)
						}
					}()

					// If shutdown function is blocking too long,
					// allow process termination by receiving another signal.
					select {
					case sig := <-interruptChannel:
						logger.Debugf("received signal: %v", sig)
					case <-done:
					}
				},
			}

			if !service.Interactive() {
				svc, err := service.New(p, &service.Config{
					Name:        serviceName,
					DisplayName: "chainlens",
					Description: "chainlens chain client.",
				})
				if err != nil {
					return err
				}

				if err = svc.Run(); err != nil {
					return err
				}
			} else {
				// start blocks until some interrupt is received
				p.start()
				p.stop()
			}

			return nil
		},
	}

	cmd.Flags().String(optionNameAPIAddr, ":1733", "HTTP API listen address")
	cmd.Flags().StringSlice(optionCORSAllowedOrigins, []string{}, "origins with CORS headers enabled")
	c.root.AddCommand(cmd)
}

type program struct {
	start func()
	stop  func()
}

func (p *program) Start(s service.Service) error {
	// Start should not block. Do the actual work async.
	go p.start()
	return nil
}

func (p *program) Stop(s service.Service) error {
	p.stop()
	return nil
}

// server owns the chain client and the HTTP API listening in front of it.
type server struct {
	client     *chain.Client
	httpServer *http.Server
	logger     logging.Logger
}

func newServer(client *chain.Client, addr string, logger logging.Logger, o api.Options) (*server, error) {
	apiService := api.New(client, client.Registry, logger, o)
	apiService.MustRegisterMetrics(client.Default.Metrics()...)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	s := &server{
		client: client,
		httpServer: &http.Server{
			ReadHeaderTimeout: 3 * time.Second,
			Handler:           apiService,
			ErrorLog:          log.New(logger.WriterLevel(logrus.ErrorLevel), "", 0),
		},
		logger: logger,
	}

	go func() {
		logger.Infof("api address: %s", ln.Addr())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Debugf("api server: %v", err)
			logger.Error("unable to serve api")
		}
	}()

	return s, nil
}

// Shutdown stops the HTTP API and closes the node connection, reporting
// every failure.
func (s *server) Shutdown(ctx context.Context) error {
	var mErr error

	if err := s.httpServer.Shutdown(ctx); err != nil {
		mErr = multierror.Append(mErr, err)
	}
	if err := s.client.Close(); err != nil {
		mErr = multierror.Append(mErr, err)
	}

	return mErr
}
