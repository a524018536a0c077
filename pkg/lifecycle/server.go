/*-
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package lifecycle pkg/lifecycle/server.go runs a long-lived service until
// a signal, an error or context cancellation, optionally alongside a gRPC
// health endpoint.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mfreeman451/meshbot/pkg/grpc"
)

const (
	MaxRecvSize     = 4 * 1024 * 1024 // 4MB
	MaxSendSize     = 4 * 1024 * 1024 // 4MB
	ShutdownTimeout = 10 * time.Second
)

var errService = errors.New("service error")

// Service defines the interface that all services must implement.
type Service interface {
	Start(context.Context) error
	Stop(context.Context) error
}

// HealthReporter is implemented by services whose readiness changes at
// runtime. The hook is installed before Start.
type HealthReporter interface {
	SetHealthHook(func(serving bool))
}

// ServerOptions holds configuration for running a service.
type ServerOptions struct {
	ServiceName string
	Service     Service
	// HealthAddr enables the gRPC health endpoint when set.
	HealthAddr string
	// Signals overrides the shutdown signals, SIGINT and SIGTERM by default.
	Signals []os.Signal
}

// RunServer starts the service and blocks until it fails, a shutdown
// signal arrives or ctx is cancelled, then stops it within ShutdownTimeout.
func RunServer(ctx context.Context, opts *ServerOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Printf("*** Starting service %s", opts.ServiceName)

	var healthServer *grpc.Server

	if opts.HealthAddr != "" {
		healthServer = setupHealthServer(opts)
	}

	errChan := make(chan error, 2)

	go func() {
		if err := opts.Service.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	if healthServer != nil {
		go func() {
			if err := healthServer.Start(); err != nil {
				errChan <- err
			}
		}()
	}

	return handleShutdown(ctx, cancel, healthServer, opts, errChan)
}

func setupHealthServer(opts *ServerOptions) *grpc.Server {
	s := grpc.NewServer(opts.HealthAddr,
		grpc.WithMaxRecvSize(MaxRecvSize),
		grpc.WithMaxSendSize(MaxSendSize),
	)

	if hr, ok := opts.Service.(HealthReporter); ok {
		s.SetServing(opts.ServiceName, false)
		hr.SetHealthHook(func(serving bool) {
			s.SetServing(opts.ServiceName, serving)
		})
	} else {
		s.SetServing(opts.ServiceName, true)
	}

	return s
}

func handleShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	healthServer *grpc.Server,
	opts *ServerOptions,
	errChan chan error) error {
	signals := opts.Signals
	if len(signals) == 0 {
		signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, signals...)

	defer signal.Stop(sigChan)

	var runErr error

	select {
	case sig := <-sigChan:
		log.Printf("Received signal %v, initiating shutdown", sig)
	case err := <-errChan:
		log.Printf("Received error: %v, initiating shutdown", err)

		runErr = fmt.Errorf("%w: %w", errService, err)
	case <-ctx.Done():
		log.Printf("Context canceled, initiating shutdown")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer shutdownCancel()

	cancel()

	if healthServer != nil {
		healthServer.Stop(shutdownCtx)
	}

	if err := opts.Service.Stop(shutdownCtx); err != nil {
		log.Printf("Error during service shutdown: %v", err)

		return errors.Join(runErr, fmt.Errorf("shutdown error: %w", err))
	}

	return runErr
}
