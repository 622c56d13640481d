// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

// Package similarity implements the pairwise similarity measures used for
// user-user edges, neighbourhood prediction and diversity re-ranking.
//
// All vector measures take sparse rating vectors keyed by item ID. Every
// function returns 0 rather than an error for degenerate input (empty
// vectors, zero variance, too few common items).
package similarity

import (
	"fmt"
	"math"
	"sort"
)

// MinCommonItems is the minimum overlap for Pearson and adjusted cosine.
const MinCommonItems = 2

// Vector is a sparse rating vector keyed by item ID.
type Vector = map[int64]float64

// VectorFunc compares two sparse vectors.
type VectorFunc func(a, b Vector) float64

// Metric names a similarity measure.
type Metric string

// Supported metrics.
const (
	MetricCosine         Metric = "cosine"
	MetricPearson        Metric = "pearson"
	MetricAdjustedCosine Metric = "adjusted_cosine"
	MetricJaccard        Metric = "jaccard"
)

// Func returns the VectorFunc for metric. itemMeans is only used by
// adjusted cosine.
func Func(metric Metric, itemMeans map[int64]float64) (VectorFunc, error) {
	switch metric {
	case MetricCosine, "":
		return Cosine, nil
	case MetricPearson:
		return Pearson, nil
	case MetricAdjustedCosine:
		return func(a, b Vector) float64 { return AdjustedCosine(a, b, itemMeans) }, nil
	case MetricJaccard:
		return func(a, b Vector) float64 { return Jaccard(sortedKeys(a), sortedKeys(b)) }, nil
	default:
		return nil, fmt.Errorf("unknown similarity metric %q", metric)
	}
}

// Cosine computes the dot product over the items both vectors rated,
// divided by the product of the full-vector norms. Normalising by the full
// norms penalises pairs whose overlap is a small part of their history.
func Cosine(a, b Vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	common := commonItems(a, b)
	if len(common) == 0 {
		return 0
	}
	var dot float64
	for _, item := range common {
		dot += a[item] * b[item]
	}
	na, nb := norm(a), norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return clamp(dot/(na*nb), -1, 1)
}

// Pearson computes the Pearson correlation over the common items only.
func Pearson(a, b Vector) float64 {
	common := commonItems(a, b)
	if len(common) < MinCommonItems {
		return 0
	}

	var sumA, sumB float64
	for _, item := range common {
		sumA += a[item]
		sumB += b[item]
	}
	n := float64(len(common))
	meanA, meanB := sumA/n, sumB/n

	var num, denA, denB float64
	for _, item := range common {
		da, db := a[item]-meanA, b[item]-meanB
		num += da * db
		denA += da * da
		denB += db * db
	}
	if denA == 0 || denB == 0 {
		return 0
	}
	return clamp(num/math.Sqrt(denA*denB), -1, 1)
}

// AdjustedCosine subtracts each item's mean rating from both vectors on
// the common items, then takes the cosine of the adjusted vectors. Items
// without a known mean are skipped.
func AdjustedCosine(a, b Vector, itemMeans map[int64]float64) float64 {
	common := commonItems(a, b)
	if len(common) < MinCommonItems {
		return 0
	}
	adjA := make(Vector, len(common))
	adjB := make(Vector, len(common))
	for _, item := range common {
		mean, ok := itemMeans[item]
		if !ok {
			continue
		}
		adjA[item] = a[item] - mean
		adjB[item] = b[item] - mean
	}
	if len(adjA) < MinCommonItems {
		return 0
	}
	return Cosine(adjA, adjB)
}

// Jaccard computes |A∩B| / |A∪B| treating the slices as sets.
func Jaccard[K comparable](a, b []K) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[K]struct{}, len(a))
	for _, k := range a {
		setA[k] = struct{}{}
	}
	setB := make(map[K]struct{}, len(b))
	for _, k := range b {
		setB[k] = struct{}{}
	}

	inter := 0
	for k := range setA {
		if _, ok := setB[k]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// norm sums in key order so results are bit-for-bit reproducible.
func norm(v Vector) float64 {
	var sum float64
	for _, k := range sortedKeys(v) {
		sum += v[k] * v[k]
	}
	return math.Sqrt(sum)
}

// commonItems returns the items rated in both vectors, in ascending order.
func commonItems(a, b Vector) []int64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var out []int64
	for item := range a {
		if _, ok := b[item]; ok {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedKeys(v Vector) []int64 {
	keys := make([]int64, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
