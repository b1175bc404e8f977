// Package metrics provides build metrics for docimages.
//
// # Design Philosophy
//
// This package implements the Null Object pattern to enable metrics collection
// without requiring explicit nil checks throughout the codebase. By default,
// all components use NoopRecorder which implements the Recorder interface with
// no-op methods.
//
// # Architecture
//
//  1. Recorder interface - Defines all metrics operations
//  2. NoopRecorder - Default implementation that does nothing
//  3. PrometheusRecorder - Prometheus adapter, exported as a textfile after a build
//
// # Usage Pattern
//
// The host application owns the recorder and hands it to extensions:
//
//	reg := prom.NewRegistry()
//	app := host.New(cfg, host.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//	...
//	_ = metrics.WriteTextfile(reg, "docimages.prom")
package metrics
