// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

/*
Package supervisor provides process supervision for Roomrank using suture v4.

Long-running services are organized into three layers so a failure in one
does not take down the others:

	RootSupervisor ("roomrank")
	├── DataSupervisor ("data-layer")
	│   └── DatasetReloadService (memory backend with a watch interval)
	├── MessagingSupervisor ("messaging-layer")
	│   └── EventConsumerService (events enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashed service is restarted with suture's backoff. A crash in the event
consumer leaves the API serving recommendations from the current counters.

Supervisor events (start, failure, restart, backoff) are logged through
sutureslog, bridged to zerolog by logging.NewSlogLogger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	tree.AddMessagingService(services.NewEventConsumerService(consumer))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor stopped")
	}

Service wrappers live in the services subpackage.
*/
package supervisor
