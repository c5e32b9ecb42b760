// Package model defines the typed data consumed by the validator, the
// submission client, and the renderers. The field table is fixed at build
// time: thirteen clinical inputs, each with an inclusive numeric range and a
// display label. FormValues always carries exactly those thirteen keys as raw
// strings; ErrorMap lists only fields that failed validation; RiskResult is
// either high or low, with nil standing for "no successful submission yet".
// Types live in internal/model and are re-exported here so callers never
// depend on the internal package.
package model
