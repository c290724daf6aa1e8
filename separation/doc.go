// Package separation defines the source-separation collaborator: turning
// a mono call recording into pseudo-stereo with one speaker per channel.
//
// Backends implement Provider (the sidecar subpackage ships the default
// HTTP backend). Manager owns the shared, lazily-initialized backend
// instance, bounds concurrent invocations with a bulkhead, and exposes the
// never-failing Invoke contract the orchestrator relies on: any failure is
// reported as ok=false, never as an escaping error.
package separation
