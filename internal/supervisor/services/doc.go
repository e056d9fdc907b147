// Roomrank - Rental Listing Recommendation and Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/roomrank

/*
Package services adapts Roomrank components to suture.Service.

Each wrapper translates a component's lifecycle into suture's context-aware
Serve method and implements fmt.Stringer so supervisor events name it:

  - HTTPServerService: ListenAndServe with graceful Shutdown on cancel.
  - EventConsumerService: runs the engagement event consumer.
  - DatasetReloadService: polls the dataset file and swaps in a fresh
    snapshot when it changes, at most once per MinReloadInterval.

A Serve that returns an error is restarted by the supervisor; returning
ctx.Err() on cancellation ends the service.
*/
package services
