// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package models defines the data structures shared across Cinegraph.

The types here are the single source of truth for what flows between the
rating extractor, the graph builder, the analytics engines and the
recommender. Every output type carries JSON tags so a built graph can be
handed to a renderer without translation.

Model Categories:

1. Input Records:
  - Rating: one (user, item, rating, timestamp) observation on the 0-10 scale
  - Movie: catalog metadata (genres, countries, keywords, people, collection)
  - Collection: franchise metadata used for community naming

2. Graph Models:
  - Node: common display fields plus a type-specific NodeData variant
  - Edge: weighted undirected relationship with display hints
  - Graph: nodes, edges, analytics, layout config, stats and build metadata

3. Analytics Models:
  - Community and CommunityResult: detected partitions with quality metrics
  - CentralityScores and CentralityResult: per-node structural importance
  - Analytics: the merged block attached to a Graph

4. Layout Models:
  - NodePhysics: per-node force-atlas hints
  - LayoutConfig: global simulation parameters

Node Variants:

NodeData is a closed set. Each graph node carries exactly one of
UserData, MovieData, GenreData, CountryData, DirectorData, ActorData or
CrewData, and the variant always agrees with Node.Type.

Thread Safety:

Models are plain values. They are not safe for concurrent mutation, but a
finished Graph may be shared read-only between goroutines.
*/
package models
