// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

/*
Package config loads cinegraph configuration with Koanf v2.

Three layers are merged, later ones winning:

 1. Built-in defaults (defaultConfig), taken from each component's own
    defaults so that the two never drift.
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml or
    /etc/cinegraph/config.yaml.
 3. Environment variables named CINEGRAPH_<SECTION>_<KEY>, for example
    CINEGRAPH_GRAPH_MAX_NODES=800 or CINEGRAPH_COMMUNITY_STRATEGIES=leiden,greedy_modularity.

A few short aliases are also read: LOG_LEVEL, LOG_FORMAT, LOG_CALLER,
MODEL_PATH, STORE_PATH and METRICS_ADDR.

# Example file

	logging:
	  level: debug
	  format: console
	graph:
	  max_nodes: 800
	  similarity_metric: pearson
	  seed: 7
	community:
	  resolution: 1.2
	recommend:
	  model_path: /var/lib/cinegraph/model.json
	  reload_interval: 10m
	store:
	  path: /var/lib/cinegraph/db

# Validation

The merged config is checked with go-playground/validator struct tags
(ranges, enumerations, host:port) followed by a few cross-field rules, for
example graph.movie_limit may not exceed graph.max_nodes.

The *Options methods convert sections into the option types of the packages
they configure.
*/
package config
