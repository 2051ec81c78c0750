// Package driving provides interfaces for application entry points (primary/inbound ports).
package driving
