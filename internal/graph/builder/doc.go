// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package builder assembles the movie graph for one requesting user.

A build runs in a fixed order:

 1. pick active users by review count, always keeping the requester
 2. pick well-reviewed movies from the active users' good reviews
 3. emit user, movie and attribute nodes (genre, country, director, actor, crew)
 4. emit factual edges plus genre/country affinity edges for people and users
 5. emit user-user similarity edges and prediction edges for the requester
 6. run community detection and centrality, merging results into the nodes
 7. hand the annotated graph to the layout engine

Every collection is walked in ID order and all randomness comes from
Request.Seed, so identical inputs produce identical graphs. Only the build
metadata (ID, timestamps, duration) differs between runs.

Analytics degrade rather than fail: graphs below MinAnalyticsNodes get an
empty analytics block, and so does any graph whose community or centrality
step fails.

Service wraps a Builder with a per-user TTL cache:

	svc := builder.NewService(b, 5*time.Minute)
	defer svc.Close()

	g, err := svc.Build(ctx, builder.DefaultRequest(userID))
	...
	svc.Invalidate(userID) // after the user rates something
*/
package builder
