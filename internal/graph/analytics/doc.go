// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package analytics derives graph-level reports from a built graph: density,
engagement, a 0-100 network health score and the influence leaderboards.

Everything here is computed from the graph itself, the centrality results
already attached to it and the ratings of the graph's users. No store is
consulted, so a report always describes exactly the graph it ships with.

# Network Health

Health adds three parts:

  - connectivity (30 points) from graph density
  - engagement (40 points) from recent rating activity of the graph's users
  - growth (30 points) from last week's ratings against the week before

The total maps to a status of excellent (80+), good (60+), fair (40+) or
poor, with issues and suggested actions for every weak part.

# Influence

A node's influence is

	40*centrality + 30*activity + 20*quality + 10*recency

where centrality mixes degree, betweenness, closeness and eigenvector
centrality, activity is the review count relative to the busiest node of the
same type, quality rewards high and consistent ratings, and recency decays
with the age of the latest rating. Users below the review minimum score 0.
*/
package analytics
